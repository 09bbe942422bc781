package mascot

import (
	"math"
	"sort"
)

// Node is implemented by every scene element. Concrete kinds embed Base,
// which supplies the tree, transform, hit-test, gesture, and persistence
// machinery, and override only what differs: rendering, their payload
// fields, and optionally their size and transparency.
type Node interface {
	// Base returns the embedded common state.
	Base() *NodeBase
	// TypeName returns the stable name used by the Factory and the
	// project file.
	TypeName() string
	// Render draws the node and then its children, back to front. The
	// hovered and selected nodes are passed so a kind can highlight
	// itself; both may be nil.
	Render(ctx *RenderContext, dt float64, hovered, selected Node)
	// RenderUI declares the node's editable properties.
	RenderUI(ui UI)
	// Save writes the kind-specific payload.
	Save(e *Encoder)
	// Load reads the kind-specific payload written by Save.
	Load(d *Decoder)
	// W and H are the node's local-space size. A node with a zero
	// dimension is never a hit-test target itself.
	W() float64
	H() float64
	// IsTransparent reports whether the local-space point is see-through,
	// in which case the hit falls through to whatever is behind.
	IsTransparent(x, y float64) bool
	// Dispose releases collaborator registrations for the node and its
	// subtree. Called when the tree is discarded for good, not on
	// undoable deletion.
	Dispose()
}

// gesture captures the transform fields a live edit mutates.
type gesture struct {
	x, y, sx, sy, rot float64
}

// Base carries the state shared by every node kind: identity, transform,
// ordering, tree links, and the edit-mode state machine. Embed it by value
// and call init from the kind's constructor.
type NodeBase struct {
	Name string

	// Local transform.
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	PivotX, PivotY float64

	// ZOrder biases sibling paint order: higher draws later (on top).
	// Siblings with equal ZOrder keep insertion order.
	ZOrder  int
	Visible bool

	self     Node
	parent   Node
	children []Node

	undo *Undo

	mode   EditMode
	anchor Vec2    // pointer position at gesture start, world space
	start  gesture // transform at gesture start
}

// init wires the embedded Base to its enclosing node and sets defaults.
// self must be the node that embeds this Base.
func (b *NodeBase) init(self Node, undo *Undo, name string) {
	b.self = self
	b.undo = undo
	b.Name = name
	b.ScaleX = 1
	b.ScaleY = 1
	b.Visible = true
}

// Base returns b so that embedding satisfies the Node interface.
func (b *NodeBase) Base() *NodeBase { return b }

// W is the default local width. Kinds without an intrinsic size keep 0 and
// act as pure containers for hit testing.
func (b *NodeBase) W() float64 { return 0 }

// H is the default local height.
func (b *NodeBase) H() float64 { return 0 }

// IsTransparent defaults to fully opaque.
func (b *NodeBase) IsTransparent(x, y float64) bool { return false }

// Save writes no payload by default.
func (b *NodeBase) Save(e *Encoder) {}

// Load reads no payload by default.
func (b *NodeBase) Load(d *Decoder) {}

// Dispose releases the subtree's collaborator registrations. Kinds that
// register with a source override this and call the embedded Dispose after
// their own cleanup.
func (b *NodeBase) Dispose() {
	for _, c := range b.children {
		c.Dispose()
	}
}

// RenderUI declares the transform rows every kind shares.
func (b *NodeBase) RenderUI(ui UI) {
	ui.Text("Name", b.Name)
	ui.DragFloat("X", &b.X)
	ui.DragFloat("Y", &b.Y)
	ui.DragFloat("Scale X", &b.ScaleX)
	ui.DragFloat("Scale Y", &b.ScaleY)
	ui.DragFloat("Rotation", &b.Rotation)
	ui.DragFloat("Pivot X", &b.PivotX)
	ui.DragFloat("Pivot Y", &b.PivotY)
	ui.InputInt("Z Order", &b.ZOrder)
	ui.Checkbox("Visible", &b.Visible)
}

// --- Tree ---

// Parent returns the node's parent, or nil for the root.
func (b *NodeBase) Parent() Node { return b.parent }

// Children returns the child list in insertion order. The returned slice
// must not be mutated by the caller.
func (b *NodeBase) Children() []Node { return b.children }

// AddChild appends child. If child already has a parent it is reparented.
// Panics if child is nil or adding it would create a cycle; both are
// programmer errors, not user actions.
func (b *NodeBase) AddChild(child Node) {
	b.AddChildAt(child, len(b.children))
}

// AddChildAt inserts child at the given index among the existing children.
func (b *NodeBase) AddChildAt(child Node, index int) {
	if child == nil {
		panic("mascot: cannot add nil child")
	}
	if isAncestor(child, b.self) {
		panic("mascot: adding child would create a cycle")
	}
	if index < 0 || index > len(b.children) {
		panic("mascot: child index out of range")
	}
	if p := child.Base().parent; p != nil {
		if p == b.self && childIndex(b.children, child) < index {
			index--
		}
		p.Base().removeChild(child)
	}
	child.Base().parent = b.self
	b.children = append(b.children, nil)
	copy(b.children[index+1:], b.children[index:])
	b.children[index] = child
	checkTreeDepth(child)
}

// Del detaches n from its parent. The subtree stays fully alive as long as
// anything references it, so a caller that wants the deletion reversible
// records an undo action holding n and re-inserts it there.
func Del(n Node) {
	p := n.Base().parent
	if p == nil {
		return
	}
	p.Base().removeChild(n)
	n.Base().parent = nil
}

// ChildIndex returns child's position among n's children, or -1.
func ChildIndex(n, child Node) int {
	return childIndex(n.Base().children, child)
}

// Unparent moves the node up one level, becoming a sibling of its former
// parent (inserted right after it). No-op for the root and for children of
// the root's parentless level.
func (b *NodeBase) Unparent() {
	p := b.parent
	if p == nil {
		return
	}
	gp := p.Base().parent
	if gp == nil {
		return
	}
	p.Base().removeChild(b.self)
	b.parent = nil
	at := childIndex(gp.Base().children, p) + 1
	gp.Base().AddChildAt(b.self, at)
}

// MoveUp swaps the node with its previous sibling, moving it back in paint
// order. No-op if it is already first or has no parent.
func (b *NodeBase) MoveUp() {
	b.swapSibling(-1)
}

// MoveDown swaps the node with its next sibling, moving it forward in paint
// order. No-op if it is already last or has no parent.
func (b *NodeBase) MoveDown() {
	b.swapSibling(1)
}

func (b *NodeBase) swapSibling(dir int) {
	p := b.parent
	if p == nil {
		return
	}
	cs := p.Base().children
	i := childIndex(cs, b.self)
	j := i + dir
	if j < 0 || j >= len(cs) {
		return
	}
	cs[i], cs[j] = cs[j], cs[i]
}

// ParentWithBelow reparents the node under the sibling that follows it.
// No-op if the node is the last sibling or has no parent.
func (b *NodeBase) ParentWithBelow() {
	p := b.parent
	if p == nil {
		return
	}
	cs := p.Base().children
	i := childIndex(cs, b.self)
	if i < 0 || i+1 >= len(cs) {
		return
	}
	below := cs[i+1]
	p.Base().removeChild(b.self)
	b.parent = nil
	below.Base().AddChild(b.self)
}

// removeChild removes child from b.children without touching child's parent
// link. Copy+nil so the backing array drops its reference.
func (b *NodeBase) removeChild(child Node) {
	i := childIndex(b.children, child)
	if i < 0 {
		return
	}
	copy(b.children[i:], b.children[i+1:])
	b.children[len(b.children)-1] = nil
	b.children = b.children[:len(b.children)-1]
}

func childIndex(cs []Node, child Node) int {
	for i, c := range cs {
		if c == child {
			return i
		}
	}
	return -1
}

// isAncestor reports whether candidate is node or one of node's ancestors.
func isAncestor(candidate, node Node) bool {
	for p := node; p != nil; p = p.Base().parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// paintOrder returns the children stably sorted by ZOrder, lowest first.
// Equal ZOrder keeps insertion order. Allocates only when an explicit
// ZOrder is in use.
func (b *NodeBase) paintOrder() []Node {
	sorted := true
	for i := 1; i < len(b.children); i++ {
		if b.children[i].Base().ZOrder < b.children[i-1].Base().ZOrder {
			sorted = false
			break
		}
	}
	if sorted {
		return b.children
	}
	cs := make([]Node, len(b.children))
	copy(cs, b.children)
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Base().ZOrder < cs[j].Base().ZOrder
	})
	return cs
}

// --- Hit testing ---

// NodeUnder returns the front-most visible node containing the world-space
// point, or nil. Children are tested in reverse paint order (topmost drawn
// last wins) and before the node itself, so the pick is the front-most,
// most specific node.
func (b *NodeBase) NodeUnder(pt Vec2) Node {
	return b.nodeUnder(b.parentWorld(), pt)
}

func (b *NodeBase) nodeUnder(parent [6]float64, pt Vec2) Node {
	if !b.Visible {
		return nil
	}
	world := mulAffine(parent, b.localTransform())
	cs := b.paintOrder()
	for i := len(cs) - 1; i >= 0; i-- {
		if hit := cs[i].Base().nodeUnder(world, pt); hit != nil {
			return hit
		}
	}
	w, h := b.self.W(), b.self.H()
	if w <= 0 || h <= 0 {
		return nil
	}
	lx, ly := transformPoint(invertAffine(world), pt.X, pt.Y)
	if lx < 0 || lx > w || ly < 0 || ly > h {
		return nil
	}
	if b.self.IsTransparent(lx, ly) {
		return nil
	}
	return b.self
}

// --- Edit-mode state machine ---

// EditMode returns the node's current manipulation state.
func (b *NodeBase) EditMode() EditMode { return b.mode }

// TranslateStart enters translate mode, anchoring at the world-space
// pointer position.
func (b *NodeBase) TranslateStart(mouse Vec2) { b.gestureStart(EditTranslate, mouse) }

// ScaleStart enters scale mode, anchoring at the world-space pointer
// position.
func (b *NodeBase) ScaleStart(mouse Vec2) { b.gestureStart(EditScale, mouse) }

// RotateStart enters rotate mode, anchoring at the world-space pointer
// position.
func (b *NodeBase) RotateStart(mouse Vec2) { b.gestureStart(EditRotate, mouse) }

func (b *NodeBase) gestureStart(mode EditMode, mouse Vec2) {
	if b.mode != EditSelect {
		return
	}
	b.mode = mode
	b.anchor = mouse
	b.start = gesture{b.X, b.Y, b.ScaleX, b.ScaleY, b.Rotation}
}

// Update applies the live, uncommitted edit for the current pointer
// position. No-op in select mode.
func (b *NodeBase) Update(mouse Vec2) {
	switch b.mode {
	case EditTranslate:
		// Work in the parent's space so the node follows the pointer
		// exactly regardless of ancestor transforms.
		inv := invertAffine(b.parentWorld())
		ax, ay := transformPoint(inv, b.anchor.X, b.anchor.Y)
		mx, my := transformPoint(inv, mouse.X, mouse.Y)
		b.X = b.start.x + (mx - ax)
		b.Y = b.start.y + (my - ay)
	case EditScale:
		ox, oy := b.gestureOrigin()
		ref := math.Hypot(b.anchor.X-ox, b.anchor.Y-oy)
		if ref < 1e-9 {
			return
		}
		f := math.Hypot(mouse.X-ox, mouse.Y-oy) / ref
		b.ScaleX = b.start.sx * f
		b.ScaleY = b.start.sy * f
	case EditRotate:
		ox, oy := b.gestureOrigin()
		a0 := math.Atan2(b.anchor.Y-oy, b.anchor.X-ox)
		a1 := math.Atan2(mouse.Y-oy, mouse.X-ox)
		b.Rotation = b.start.rot + (a1 - a0)
	}
}

// gestureOrigin is the node's pivot in world space, computed from the
// transform captured at gesture start so the reference point stays fixed
// while the live edit mutates the node.
func (b *NodeBase) gestureOrigin() (float64, float64) {
	saved := gesture{b.X, b.Y, b.ScaleX, b.ScaleY, b.Rotation}
	b.applyGesture(b.start)
	ox, oy := b.LocalToWorld(b.PivotX, b.PivotY)
	b.applyGesture(saved)
	return ox, oy
}

func (b *NodeBase) applyGesture(g gesture) {
	b.X, b.Y = g.x, g.y
	b.ScaleX, b.ScaleY = g.sx, g.sy
	b.Rotation = g.rot
}

// Commit finalizes the live edit as a single undo record covering the whole
// gesture and returns to select mode. A gesture that changed nothing
// records nothing.
func (b *NodeBase) Commit() {
	if b.mode == EditSelect {
		return
	}
	b.mode = EditSelect
	old := b.start
	now := gesture{b.X, b.Y, b.ScaleX, b.ScaleY, b.Rotation}
	if old == now {
		return
	}
	b.undo.Record(
		func() { b.applyGesture(now) },
		func() { b.applyGesture(old) },
	)
}

// Cancel reverts the live edit to the pre-gesture transform and returns to
// select mode without recording anything.
func (b *NodeBase) Cancel() {
	if b.mode == EditSelect {
		return
	}
	b.mode = EditSelect
	b.applyGesture(b.start)
}

// --- Persistence ---

// SaveAll writes the node's full record: type name, instance name, base
// transform, kind payload, then every child recursively in insertion order.
// Also used to clone a subtree for duplicate.
func SaveAll(e *Encoder, n Node) error {
	b := n.Base()
	e.String(n.TypeName())
	e.String(b.Name)
	b.saveTransform(e)
	n.Save(e)
	e.U32(uint32(len(b.children)))
	for _, c := range b.children {
		if err := SaveAll(e, c); err != nil {
			return err
		}
	}
	return e.Err()
}

// LoadAll hydrates n from a record whose type and instance names have
// already been consumed, reconstructing every descendant through the
// factory. Any decode or construction failure aborts the whole load.
func LoadAll(d *Decoder, f *Factory, n Node) error {
	b := n.Base()
	b.loadTransform(d)
	n.Load(d)
	count := d.U32()
	if err := d.Err(); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		typeName := d.String()
		name := d.String()
		if err := d.Err(); err != nil {
			return err
		}
		child, err := f.Ctor(typeName, name)
		if err != nil {
			return err
		}
		b.AddChild(child)
		if err := LoadAll(d, f, child); err != nil {
			return err
		}
	}
	return d.Err()
}

func (b *NodeBase) saveTransform(e *Encoder) {
	e.F64(b.X)
	e.F64(b.Y)
	e.F64(b.ScaleX)
	e.F64(b.ScaleY)
	e.F64(b.Rotation)
	e.F64(b.PivotX)
	e.F64(b.PivotY)
	e.I32(int32(b.ZOrder))
	e.Bool(b.Visible)
}

func (b *NodeBase) loadTransform(d *Decoder) {
	b.X = d.F64()
	b.Y = d.F64()
	b.ScaleX = d.F64()
	b.ScaleY = d.F64()
	b.Rotation = d.F64()
	b.PivotX = d.F64()
	b.PivotY = d.F64()
	b.ZOrder = int(d.I32())
	b.Visible = d.Bool()
}
