package mascot

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// BouncerTypeName is the factory name for bounce containers.
const BouncerTypeName = "Bouncer"

// bounceTrigger is the input level above which a new bounce starts.
const bounceTrigger = 0.1

// Bouncer is a container that hops its subtree whenever the input audio gets
// loud, the classic talking-avatar bounce. Height persists with the project.
type Bouncer struct {
	NodeBase

	audio AudioSource

	// Height is the bounce peak in local pixels.
	Height float64

	level  float64
	bounce float64
	seq    *gween.Sequence
}

// NewBouncer creates a bouncer fed by the given audio source.
func NewBouncer(audio AudioSource, undo *Undo, name string) *Bouncer {
	b := &Bouncer{audio: audio, Height: 40}
	b.NodeBase.init(b, undo, name)
	audio.Reg(b)
	return b
}

// TypeName returns the stable factory name.
func (b *Bouncer) TypeName() string { return BouncerTypeName }

// OnLevel records the latest input loudness. Invoked by the source between
// frames on the app thread.
func (b *Bouncer) OnLevel(level float64) {
	b.level = level
}

// Render advances the bounce and draws the children lifted by it.
func (b *Bouncer) Render(ctx *RenderContext, dt float64, hovered, selected Node) {
	if !b.Visible {
		return
	}
	if b.seq == nil && b.level > bounceTrigger {
		h := float32(b.Height)
		b.seq = gween.NewSequence(
			gween.New(0, h, 0.12, ease.OutQuad),
			gween.New(h, 0, 0.15, ease.InQuad),
		)
	}
	if b.seq != nil {
		v, _, done := b.seq.Update(float32(dt))
		b.bounce = float64(v)
		if done {
			b.seq = nil
			b.bounce = 0
		}
	}

	// The lift is render-only state, applied by temporarily shifting Y so
	// children and gizmos compose against the lifted transform.
	saved := b.Y
	b.Y = saved - b.bounce
	b.NodeBase.Render(ctx, dt, hovered, selected)
	b.Y = saved
}

// Save writes the bounce payload.
func (b *Bouncer) Save(e *Encoder) {
	e.F64(b.Height)
}

// Load reads the payload written by Save.
func (b *Bouncer) Load(d *Decoder) {
	b.Height = d.F64()
}

// RenderUI adds the bounce rows.
func (b *Bouncer) RenderUI(ui UI) {
	b.NodeBase.RenderUI(ui)
	ui.DragFloat("Height", &b.Height)
}

// Dispose unregisters from the audio source.
func (b *Bouncer) Dispose() {
	b.audio.Unreg(b)
	b.NodeBase.Dispose()
}
