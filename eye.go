package mascot

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// EyeTypeName is the factory name for cursor-tracking eyes.
const EyeTypeName = "Eye"

// Eye is a sprite whose image shifts toward the cursor, clamped to Radius,
// so the avatar appears to watch the mouse. Radius and Strength persist with
// the project.
type Eye struct {
	AnimSprite

	mouse MouseTracker

	// Radius is the maximum pupil travel in local pixels.
	Radius float64
	// Strength scales how far toward the cursor the pupil moves.
	Strength float64
}

// NewEye creates an eye tracking the given cursor source. The sheet is
// loaded from the instance name like any sprite.
func NewEye(mouse MouseTracker, lib *Lib, undo *Undo, name string) (*Eye, error) {
	s, err := NewAnimSprite(lib, undo, name)
	if err != nil {
		return nil, err
	}
	e := &Eye{AnimSprite: *s, mouse: mouse, Radius: 10, Strength: 0.1}
	e.NodeBase.init(e, undo, name)
	return e, nil
}

// TypeName returns the stable factory name.
func (e *Eye) TypeName() string { return EyeTypeName }

// pupilOffset is the current pupil displacement in local space.
func (e *Eye) pupilOffset() (float64, float64) {
	if e.mouse == nil {
		return 0, 0
	}
	pos := e.mouse.MousePos()
	cx, cy := e.LocalToWorld(e.W()/2, e.H()/2)
	dx := (pos.X - cx) * e.Strength
	dy := (pos.Y - cy) * e.Strength
	if d := math.Hypot(dx, dy); d > e.Radius && d > 0 {
		dx *= e.Radius / d
		dy *= e.Radius / d
	}
	return dx, dy
}

// Render draws the pupil cell shifted toward the cursor.
func (e *Eye) Render(ctx *RenderContext, dt float64, hovered, selected Node) {
	if !e.Visible {
		return
	}
	e.advance(dt)
	dx, dy := e.pupilOffset()
	e.drawFrameOffset(ctx, e.Frame(), dx, dy)
	e.NodeBase.Render(ctx, dt, hovered, selected)
}

// drawFrameOffset draws one sheet cell displaced by (dx, dy) in local space.
func (e *Eye) drawFrameOffset(ctx *RenderContext, frame int, dx, dy float64) {
	if e.Cols < 1 || e.Rows < 1 {
		return
	}
	world := e.worldFrom(ctx)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(dx, dy)
	op.GeoM.Concat(toGeoM(world))
	cell := e.frameCell(frame)
	ctx.Target.DrawImage(cell, &op)
}

// Save writes the sprite payload followed by the tracking parameters.
func (e *Eye) Save(enc *Encoder) {
	e.AnimSprite.Save(enc)
	enc.F64(e.Radius)
	enc.F64(e.Strength)
}

// Load reads the payload written by Save.
func (e *Eye) Load(d *Decoder) {
	e.AnimSprite.Load(d)
	e.Radius = d.F64()
	e.Strength = d.F64()
}

// RenderUI adds the tracking rows.
func (e *Eye) RenderUI(ui UI) {
	e.AnimSprite.RenderUI(ui)
	ui.DragFloat("Radius", &e.Radius)
	ui.DragFloat("Strength", &e.Strength)
}
