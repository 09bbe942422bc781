package mascot

import (
	"errors"
	"testing"
)

func TestFactoryReconstructsByTypeName(t *testing.T) {
	var u Undo
	f := NewFactory()
	f.Reg(RootTypeName, func(name string) (Node, error) {
		return NewRoot(&u, name), nil
	})

	n, err := f.Ctor(RootTypeName, "stage")
	if err != nil {
		t.Fatalf("Ctor: %v", err)
	}
	if n.TypeName() != RootTypeName {
		t.Errorf("TypeName = %q, want %q", n.TypeName(), RootTypeName)
	}
	if n.Base().Name != "stage" {
		t.Errorf("Name = %q, want %q", n.Base().Name, "stage")
	}
}

func TestFactoryUnknownTypeIsError(t *testing.T) {
	f := NewFactory()
	if _, err := f.Ctor("NoSuchKind", "x"); err == nil {
		t.Error("unknown type name should be a reportable error")
	}
}

func TestFactoryCtorFailurePropagates(t *testing.T) {
	boom := errors.New("texture missing")
	f := NewFactory()
	f.Reg("Broken", func(name string) (Node, error) { return nil, boom })

	_, err := f.Ctor("Broken", "x")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}
