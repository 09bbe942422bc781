package mascot

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// AnimSpriteTypeName is the factory name for animated sprites.
const AnimSpriteTypeName = "AnimSprite"

// AnimSprite renders one cell of a sprite sheet and advances through its
// frames at FPS while playing. The instance name doubles as the texture
// path, like the file-open dialog that creates it.
type AnimSprite struct {
	NodeBase

	Cols      int
	Rows      int
	NumFrames int
	FPS       float64
	Playing   bool

	tex   *Texture
	frame float64 // fractional frame accumulator
}

// NewAnimSprite creates a sprite whose sheet is loaded from the instance
// name. A missing or undecodable texture is a construction error surfaced
// to the initiating action.
func NewAnimSprite(lib *Lib, undo *Undo, name string) (*AnimSprite, error) {
	tex, err := lib.QueryTex(name)
	if err != nil {
		return nil, err
	}
	s := &AnimSprite{
		Cols:      1,
		Rows:      1,
		NumFrames: 1,
		FPS:       15,
		Playing:   true,
		tex:       tex,
	}
	s.NodeBase.init(s, undo, name)
	return s, nil
}

// TypeName returns the stable factory name.
func (s *AnimSprite) TypeName() string { return AnimSpriteTypeName }

// W returns the width of one sheet cell.
func (s *AnimSprite) W() float64 {
	if s.Cols < 1 {
		return float64(s.tex.W())
	}
	return float64(s.tex.W()) / float64(s.Cols)
}

// H returns the height of one sheet cell.
func (s *AnimSprite) H() float64 {
	if s.Rows < 1 {
		return float64(s.tex.H())
	}
	return float64(s.tex.H()) / float64(s.Rows)
}

// Frame returns the current frame index.
func (s *AnimSprite) Frame() int {
	if s.NumFrames < 1 {
		return 0
	}
	return int(s.frame) % s.NumFrames
}

// SetFrame pins the current frame, used by kinds that drive the sheet from
// external state instead of the clock.
func (s *AnimSprite) SetFrame(frame int) {
	if s.NumFrames < 1 {
		s.frame = 0
		return
	}
	if frame < 0 {
		frame = 0
	}
	s.frame = float64(frame % s.NumFrames)
}

// IsTransparent samples the sheet's alpha at the local point, offset into
// the current frame's cell.
func (s *AnimSprite) IsTransparent(x, y float64) bool {
	if s.Cols < 1 || s.Rows < 1 {
		return s.tex.TransparentAt(int(x), int(y))
	}
	frame := s.Frame()
	cx := frame % s.Cols
	cy := frame / s.Cols
	px := int(x) + cx*int(s.W())
	py := int(y) + cy*int(s.H())
	return s.tex.TransparentAt(px, py)
}

// Render advances the animation and draws the current cell, then the
// children on top.
func (s *AnimSprite) Render(ctx *RenderContext, dt float64, hovered, selected Node) {
	if !s.Visible {
		return
	}
	s.advance(dt)
	s.drawFrame(ctx, s.Frame())
	s.NodeBase.Render(ctx, dt, hovered, selected)
}

// drawFrame draws one sheet cell under the node's world transform.
func (s *AnimSprite) drawFrame(ctx *RenderContext, frame int) {
	if s.Cols < 1 || s.Rows < 1 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM = toGeoM(s.worldFrom(ctx))
	ctx.Target.DrawImage(s.frameCell(frame), &op)
}

// advance moves the frame accumulator forward while playing.
func (s *AnimSprite) advance(dt float64) {
	if !s.Playing || s.NumFrames < 1 || s.FPS <= 0 {
		return
	}
	s.frame += dt * s.FPS
	for s.frame >= float64(s.NumFrames) {
		s.frame -= float64(s.NumFrames)
	}
}

// frameCell returns the sub-image of the sheet for the given frame.
func (s *AnimSprite) frameCell(frame int) *ebiten.Image {
	cw, ch := int(s.W()), int(s.H())
	cx := frame % s.Cols
	cy := frame / s.Cols
	return s.tex.Image().SubImage(image.Rect(cx*cw, cy*ch, (cx+1)*cw, (cy+1)*ch)).(*ebiten.Image)
}

// Save writes the sheet layout and playback payload.
func (s *AnimSprite) Save(e *Encoder) {
	e.I32(int32(s.Cols))
	e.I32(int32(s.Rows))
	e.I32(int32(s.NumFrames))
	e.F64(s.FPS)
	e.Bool(s.Playing)
}

// Load reads the payload written by Save.
func (s *AnimSprite) Load(d *Decoder) {
	s.Cols = int(d.I32())
	s.Rows = int(d.I32())
	s.NumFrames = int(d.I32())
	s.FPS = d.F64()
	s.Playing = d.Bool()
	if s.Cols < 1 {
		s.Cols = 1
	}
	if s.Rows < 1 {
		s.Rows = 1
	}
	if s.NumFrames < 1 {
		s.NumFrames = 1
	}
}

// RenderUI declares the sheet layout rows after the shared transform rows.
// The layout fields are clamped to 1 so a half-typed value can never produce
// a degenerate sheet.
func (s *AnimSprite) RenderUI(ui UI) {
	s.NodeBase.RenderUI(ui)
	ui.InputInt("Cols", &s.Cols)
	ui.InputInt("Rows", &s.Rows)
	ui.InputInt("Num Frames", &s.NumFrames)
	ui.DragFloat("FPS", &s.FPS)
	ui.Checkbox("Playing", &s.Playing)
	if s.Cols < 1 {
		s.Cols = 1
	}
	if s.Rows < 1 {
		s.Rows = 1
	}
	if s.NumFrames < 1 {
		s.NumFrames = 1
	}
}
