package mascot

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// backgroundColor is the editor's clear color.
var backgroundColor = color.RGBA{R: 0x45, G: 0x44, B: 0x7d, A: 0xff}

// Collaborators are the external systems nodes are wired to. Any nil field
// is replaced with an inert default so an app without audio or chat still
// runs.
type Collaborators struct {
	Visemes VisemeSource
	Audio   AudioSource
	Mouse   MouseTracker
	Chat    ChatSource
	Speaker Speaker
}

// App owns the scene: the root, the selection and hover state, the undo
// history, and the factory that knows every node kind. All mutation funnels
// through the undo manager, and everything runs on the single game-loop
// thread.
type App struct {
	Prefs   Preferences
	Lib     *Lib
	Undo    *Undo
	Factory *Factory

	root     Node
	selected Node
	hovered  Node

	// detached holds subtrees removed from the tree but kept alive by undo
	// closures. They are disposed with the tree they came from in setRoot,
	// once no undo record can bring them back.
	detached map[Node]struct{}

	collab  Collaborators
	cursor  Vec2
	tracker *CursorTracker
}

// NewApp wires the factory with every built-in node kind, closing the
// collaborators into the constructors the way the project loader and the
// add-node menu need them.
func NewApp(prefs Preferences, lib *Lib, collab Collaborators) *App {
	if collab.Visemes == nil {
		collab.Visemes = &VisemeFeed{}
	}
	if collab.Audio == nil {
		collab.Audio = &AudioFeed{}
	}
	if collab.Chat == nil {
		collab.Chat = &ChatFeed{}
	}
	a := &App{
		Prefs:    prefs,
		Lib:      lib,
		Undo:     &Undo{},
		Factory:  NewFactory(),
		detached: make(map[Node]struct{}),
		collab:   collab,
	}
	if collab.Mouse == nil {
		a.tracker = &CursorTracker{}
		a.collab.Mouse = a.tracker
	}

	undo := a.Undo
	a.Factory.Reg(RootTypeName, func(name string) (Node, error) {
		return NewRoot(undo, name), nil
	})
	a.Factory.Reg(AnimSpriteTypeName, func(name string) (Node, error) {
		return NewAnimSprite(lib, undo, name)
	})
	a.Factory.Reg(MouthTypeName, func(name string) (Node, error) {
		return NewMouth(a.collab.Visemes, lib, undo, name)
	})
	a.Factory.Reg(EyeTypeName, func(name string) (Node, error) {
		return NewEye(a.collab.Mouse, lib, undo, name)
	})
	a.Factory.Reg(BouncerTypeName, func(name string) (Node, error) {
		return NewBouncer(a.collab.Audio, undo, name), nil
	})
	a.Factory.Reg(ChatTypeName, func(name string) (Node, error) {
		return NewChat(a.collab.Chat, a.collab.Speaker, lib, undo, name), nil
	})
	return a
}

// Root returns the project root, or nil before any project exists.
func (a *App) Root() Node { return a.root }

// Selected returns the selected node, or nil.
func (a *App) Selected() Node { return a.selected }

// Hovered returns the node under the cursor, or nil.
func (a *App) Hovered() Node { return a.hovered }

// setRoot replaces the tree, disposing the old one and resetting the
// selection, hover, and undo history that referenced it. Subtrees deleted
// from the old tree are disposed here too: clearing the undo history drops
// the last reference that could have restored them.
func (a *App) setRoot(root Node) {
	if a.root != nil {
		a.root.Dispose()
	}
	for n := range a.detached {
		n.Dispose()
	}
	a.detached = make(map[Node]struct{})
	a.root = root
	a.selected = nil
	a.hovered = nil
	a.Undo.Clear()
}

// NewProject starts a fresh empty project.
func (a *App) NewProject() {
	a.setRoot(NewRoot(a.Undo, "root"))
}

// --- Selection and gestures ---

// SelectAt handles a primary click at the world-space point: in select mode
// it picks the node under the point (recorded, so selection changes are
// undoable); during a gesture it commits instead.
func (a *App) SelectAt(pt Vec2) {
	if a.root == nil {
		return
	}
	if a.selected != nil && a.selected.Base().EditMode() != EditSelect {
		a.selected.Base().Commit()
		return
	}
	newSel := a.root.Base().NodeUnder(pt)
	if newSel == a.selected {
		return
	}
	old := a.selected
	a.Undo.Record(
		func() { a.selected = newSel },
		func() { a.selected = old },
	)
}

// StartTranslate begins a translate gesture on the selection.
func (a *App) StartTranslate(pt Vec2) {
	if a.selected != nil {
		a.selected.Base().TranslateStart(pt)
	}
}

// StartScale begins a scale gesture on the selection.
func (a *App) StartScale(pt Vec2) {
	if a.selected != nil {
		a.selected.Base().ScaleStart(pt)
	}
}

// StartRotate begins a rotate gesture on the selection.
func (a *App) StartRotate(pt Vec2) {
	if a.selected != nil {
		a.selected.Base().RotateStart(pt)
	}
}

// Commit finalizes the selection's in-progress gesture.
func (a *App) Commit() {
	if a.selected != nil {
		a.selected.Base().Commit()
	}
}

// Cancel reverts the selection's in-progress gesture.
func (a *App) Cancel() {
	if a.selected != nil {
		a.selected.Base().Cancel()
	}
}

// Tick advances per-frame state: hover tracking in select mode, or the live
// gesture otherwise. Collaborator callbacks fire before or after this, never
// during.
func (a *App) Tick(dt float64) {
	if a.root == nil {
		return
	}
	if a.selected == nil || a.selected.Base().EditMode() == EditSelect {
		a.hovered = a.root.Base().NodeUnder(a.cursor)
	} else {
		a.hovered = nil
		a.selected.Base().Update(a.cursor)
	}
}

// setCursor records the world-space cursor position for Tick and the eye
// tracker default.
func (a *App) setCursor(pt Vec2) {
	a.cursor = pt
	if a.tracker != nil {
		a.tracker.Pos = pt
	}
}

// --- Structural edits ---

// AddNode constructs a node of the given type under the selection (or the
// root) and selects it, as one undo record. A construction failure is
// returned for the UI to report; nothing is mutated.
func (a *App) AddNode(typeName, name string) error {
	if a.root == nil {
		return fmt.Errorf("mascot: no project")
	}
	node, err := a.Factory.Ctor(typeName, name)
	if err != nil {
		log.Print(err)
		return err
	}
	parent := a.selected
	if parent == nil {
		parent = a.root
	}
	old := a.selected
	a.Undo.Record(
		func() {
			parent.Base().AddChild(node)
			delete(a.detached, node)
			a.selected = node
		},
		func() {
			Del(node)
			a.detached[node] = struct{}{}
			a.selected = old
		},
	)
	return nil
}

// DuplicateSelected clones the selected subtree through the save format and
// the factory, attaches the clone next to the original, selects it, and
// starts a translate gesture at the given point so the copy follows the
// cursor until the user clicks to place it.
func (a *App) DuplicateSelected(pt Vec2) error {
	n := a.selected
	if n == nil || n == a.root {
		return nil
	}
	var buf bytes.Buffer
	if err := SaveAll(NewEncoder(&buf), n); err != nil {
		return fmt.Errorf("mascot: duplicate: %w", err)
	}
	d := NewDecoder(&buf)
	typeName := d.String()
	name := d.String()
	clone, err := a.Factory.Ctor(typeName, name)
	if err != nil {
		log.Print(err)
		return err
	}
	if err := LoadAll(d, a.Factory, clone); err != nil {
		clone.Dispose()
		return fmt.Errorf("mascot: duplicate: %w", err)
	}
	parent := n.Base().Parent()
	old := a.selected
	a.Undo.Record(
		func() {
			parent.Base().AddChild(clone)
			delete(a.detached, clone)
			a.selected = clone
		},
		func() {
			Del(clone)
			a.detached[clone] = struct{}{}
			a.selected = old
		},
	)
	clone.Base().TranslateStart(pt)
	return nil
}

// DeleteSelected removes the selected subtree as an undo record that keeps
// the subtree alive and re-inserts it at its original position on undo.
func (a *App) DeleteSelected() {
	n := a.selected
	if n == nil || n == a.root {
		return
	}
	parent := n.Base().Parent()
	if parent == nil {
		return
	}
	idx := ChildIndex(parent, n)
	a.Undo.Record(
		func() {
			Del(n)
			a.detached[n] = struct{}{}
			a.selected = nil
			if a.hovered == n {
				a.hovered = nil
			}
		},
		func() {
			parent.Base().AddChildAt(n, idx)
			delete(a.detached, n)
			a.selected = n
		},
	)
}

// UnparentSelected moves the selection up one tree level, undoably.
func (a *App) UnparentSelected() {
	n := a.selected
	if n == nil {
		return
	}
	p := n.Base().Parent()
	if p == nil || p.Base().Parent() == nil {
		return
	}
	idx := ChildIndex(p, n)
	a.Undo.Record(
		func() { n.Base().Unparent() },
		func() { Del(n); p.Base().AddChildAt(n, idx) },
	)
}

// MoveSelectedUp swaps the selection with its previous sibling, undoably.
func (a *App) MoveSelectedUp() {
	n := a.selected
	if n == nil || n.Base().Parent() == nil {
		return
	}
	if ChildIndex(n.Base().Parent(), n) == 0 {
		return
	}
	a.Undo.Record(
		func() { n.Base().MoveUp() },
		func() { n.Base().MoveDown() },
	)
}

// MoveSelectedDown swaps the selection with its next sibling, undoably.
func (a *App) MoveSelectedDown() {
	n := a.selected
	if n == nil || n.Base().Parent() == nil {
		return
	}
	p := n.Base().Parent()
	if ChildIndex(p, n) >= len(p.Base().Children())-1 {
		return
	}
	a.Undo.Record(
		func() { n.Base().MoveDown() },
		func() { n.Base().MoveUp() },
	)
}

// ParentSelectedWithBelow reparents the selection under the sibling after
// it, undoably.
func (a *App) ParentSelectedWithBelow() {
	n := a.selected
	if n == nil {
		return
	}
	p := n.Base().Parent()
	if p == nil {
		return
	}
	idx := ChildIndex(p, n)
	if idx < 0 || idx+1 >= len(p.Base().Children()) {
		return
	}
	a.Undo.Record(
		func() { n.Base().ParentWithBelow() },
		func() { Del(n); p.Base().AddChildAt(n, idx) },
	)
}

// --- Project I/O ---

// SaveProjectFile writes the project to the preferences' project path.
func (a *App) SaveProjectFile() error {
	if a.root == nil {
		return nil
	}
	f, err := os.Create(a.Prefs.ProjectPath)
	if err != nil {
		return fmt.Errorf("mascot: save project: %w", err)
	}
	defer f.Close()
	return SaveProject(f, a.root)
}

// LoadProjectFile reads the project from the preferences' project path. A
// missing file, a version mismatch, or a corrupt payload all fall back to a
// fresh empty project; only the fallback is logged, never failed.
func (a *App) LoadProjectFile() {
	f, err := os.Open(a.Prefs.ProjectPath)
	if err != nil {
		log.Print("mascot: create new project")
		a.NewProject()
		return
	}
	defer f.Close()
	root, err := LoadProject(f, a.Factory)
	if err != nil {
		log.Print(err)
		a.NewProject()
		return
	}
	a.setRoot(root)
}

// --- Rendering ---

// Render clears the screen and draws the tree. Pass showUI=false to drop
// the hover/selection gizmos, e.g. for a capture window.
func (a *App) Render(screen *ebiten.Image, dt float64, showUI bool) {
	screen.Fill(backgroundColor)
	if a.root == nil {
		return
	}
	ctx := &RenderContext{Target: screen, World: identityTransform}
	if showUI {
		a.root.Render(ctx, dt, a.hovered, a.selected)
	} else {
		a.root.Render(ctx, dt, nil, nil)
	}
}
