package mascot

import (
	"errors"
	"fmt"
	"io"
)

// ProjectVersion is the single supported project file format version. A file
// carrying any other version is treated as absent: the editor starts a fresh
// project rather than attempting a migration.
const ProjectVersion uint32 = 2

// ErrVersionMismatch is returned by LoadProject when the file's version field
// does not equal ProjectVersion. Callers treat it as "no project", not as a
// failure.
var ErrVersionMismatch = errors.New("mascot: project version mismatch")

// SaveProject writes the versioned project envelope: the format version
// followed by the root's full recursive record.
func SaveProject(w io.Writer, root Node) error {
	e := NewEncoder(w)
	e.U32(ProjectVersion)
	if err := SaveAll(e, root); err != nil {
		return fmt.Errorf("mascot: save project: %w", err)
	}
	return nil
}

// LoadProject reads a project stream and reconstructs the node tree through
// the factory. A version mismatch returns ErrVersionMismatch; a malformed or
// truncated payload aborts the whole load and returns the decode error with
// no partially built tree. Either way the caller falls back to a fresh
// project.
func LoadProject(r io.Reader, f *Factory) (Node, error) {
	d := NewDecoder(r)
	v := d.U32()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("mascot: load project: %w", err)
	}
	if v != ProjectVersion {
		return nil, fmt.Errorf("%w: expected %d, received %d", ErrVersionMismatch, ProjectVersion, v)
	}
	typeName := d.String()
	name := d.String()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("mascot: load project: %w", err)
	}
	root, err := f.Ctor(typeName, name)
	if err != nil {
		return nil, fmt.Errorf("mascot: load project: %w", err)
	}
	if err := LoadAll(d, f, root); err != nil {
		return nil, fmt.Errorf("mascot: load project: %w", err)
	}
	return root, nil
}
