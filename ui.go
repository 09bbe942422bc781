package mascot

// UI receives the property widgets a node wants shown in a details panel.
// The concrete panel (an immediate-mode toolkit, a web form, a test recorder)
// lives outside this package; Node.RenderUI declares widgets against this
// interface every frame, and the panel decides how to render and edit them.
//
// Pointer arguments stay valid for the duration of the frame only. A panel
// that supports undo should record an Undo action around each completed edit,
// capturing the old and new values by copy.
type UI interface {
	// Text shows a read-only label/value row.
	Text(label, value string)
	// DragFloat shows an editable float field.
	DragFloat(label string, v *float64)
	// InputInt shows an editable integer field.
	InputInt(label string, v *int)
	// Checkbox shows an editable bool field.
	Checkbox(label string, v *bool)
}
