package mascot

// MouthTypeName is the factory name for viseme-driven mouths.
const MouthTypeName = "Mouth"

// Mouth is a sprite sheet whose frame follows the viseme inferred from the
// input audio instead of the clock. Each viseme maps to a sheet frame; the
// mapping is editable and persisted with the project.
type Mouth struct {
	AnimSprite

	visemes VisemeSource
	viseme  Viseme

	// FrameFor maps each viseme to a sheet frame. Defaults to identity.
	FrameFor [visemeCount]int32
}

// NewMouth creates a mouth fed by the given viseme source. The sheet is
// loaded from the instance name like any sprite.
func NewMouth(visemes VisemeSource, lib *Lib, undo *Undo, name string) (*Mouth, error) {
	s, err := NewAnimSprite(lib, undo, name)
	if err != nil {
		return nil, err
	}
	m := &Mouth{AnimSprite: *s, visemes: visemes}
	for i := range m.FrameFor {
		m.FrameFor[i] = int32(i)
	}
	m.NodeBase.init(m, undo, name)
	m.Playing = false
	visemes.Reg(m)
	return m, nil
}

// TypeName returns the stable factory name.
func (m *Mouth) TypeName() string { return MouthTypeName }

// OnViseme records the latest mouth shape. Invoked by the source between
// frames on the app thread.
func (m *Mouth) OnViseme(v Viseme) {
	m.viseme = v
}

// Render pins the frame to the current viseme's mapping before drawing.
func (m *Mouth) Render(ctx *RenderContext, dt float64, hovered, selected Node) {
	if !m.Visible {
		return
	}
	m.SetFrame(int(m.FrameFor[m.viseme%visemeCount]))
	m.drawFrame(ctx, m.Frame())
	m.NodeBase.Render(ctx, dt, hovered, selected)
}

// Save writes the sprite payload followed by the viseme mapping.
func (m *Mouth) Save(e *Encoder) {
	m.AnimSprite.Save(e)
	for _, f := range m.FrameFor {
		e.I32(f)
	}
}

// Load reads the payload written by Save.
func (m *Mouth) Load(d *Decoder) {
	m.AnimSprite.Load(d)
	for i := range m.FrameFor {
		m.FrameFor[i] = d.I32()
	}
}

// RenderUI adds the per-viseme frame mapping rows.
func (m *Mouth) RenderUI(ui UI) {
	m.AnimSprite.RenderUI(ui)
	ui.Text("Viseme", m.viseme.String())
	for i := range m.FrameFor {
		f := int(m.FrameFor[i])
		ui.InputInt("Frame "+Viseme(i).String(), &f)
		m.FrameFor[i] = int32(f)
	}
}

// Dispose unregisters from the viseme source.
func (m *Mouth) Dispose() {
	m.visemes.Unreg(m)
	m.NodeBase.Dispose()
}
