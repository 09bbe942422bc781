package mascot

// RootTypeName is the type name of the project root in the project file.
const RootTypeName = "Root"

// Root is the project root: an unhittable container that every other node
// hangs from. It carries no payload of its own.
type Root struct {
	NodeBase
}

// NewRoot creates the project root.
func NewRoot(undo *Undo, name string) *Root {
	r := &Root{}
	r.NodeBase.init(r, undo, name)
	return r
}

// TypeName returns the stable factory name.
func (r *Root) TypeName() string { return RootTypeName }
