package mascot

import "fmt"

// Ctor builds a node kind with the given instance name. Live collaborators
// (textures, audio, chat) are closed over at registration, never looked up
// globally. A constructor may fail, e.g. when a sprite's texture file is
// missing; the error is surfaced to the initiating action.
type Ctor func(name string) (Node, error)

// Factory maps a stable type-name string to a node constructor. It drives
// both load-time reconstruction of a persisted tree and the interactive
// add-node and duplicate operations.
type Factory struct {
	ctors map[string]Ctor
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{ctors: make(map[string]Ctor)}
}

// Reg registers a constructor for the given type name, replacing any
// previous registration. Called once per concrete node kind at startup.
func (f *Factory) Reg(typeName string, ctor Ctor) {
	f.ctors[typeName] = ctor
}

// Ctor looks up and invokes the constructor for typeName. An unknown type
// name is a reportable error, not a crash.
func (f *Factory) Ctor(typeName, name string) (Node, error) {
	ctor, ok := f.ctors[typeName]
	if !ok {
		return nil, fmt.Errorf("mascot: unknown node type %q", typeName)
	}
	n, err := ctor(name)
	if err != nil {
		return nil, fmt.Errorf("mascot: construct %s %q: %w", typeName, name, err)
	}
	return n, nil
}
