package mascot

import (
	"bytes"
	"math"
	"testing"
)

// boxNode is a minimal sized node kind for tests: a w*h rectangle with an
// optional transparency mask and one payload field.
type boxNode struct {
	NodeBase
	BoxW, BoxH float64
	Tag        int32

	holes func(x, y float64) bool
}

const boxTypeName = "Box"

func newBox(u *Undo, name string, w, h float64) *boxNode {
	n := &boxNode{BoxW: w, BoxH: h}
	n.NodeBase.init(n, u, name)
	return n
}

func (n *boxNode) TypeName() string { return boxTypeName }
func (n *boxNode) W() float64       { return n.BoxW }
func (n *boxNode) H() float64       { return n.BoxH }

func (n *boxNode) IsTransparent(x, y float64) bool {
	return n.holes != nil && n.holes(x, y)
}

func (n *boxNode) Save(e *Encoder) {
	e.F64(n.BoxW)
	e.F64(n.BoxH)
	e.I32(n.Tag)
}

func (n *boxNode) Load(d *Decoder) {
	n.BoxW = d.F64()
	n.BoxH = d.F64()
	n.Tag = d.I32()
}

// regBox registers the test kind on a factory.
func regBox(f *Factory, u *Undo) {
	f.Reg(boxTypeName, func(name string) (Node, error) {
		return newBox(u, name, 0, 0), nil
	})
}

func names(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Base().Name
	}
	return out
}

func assertNames(t *testing.T, nodes []Node, want ...string) {
	t.Helper()
	got := names(nodes)
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}
}

// --- Tree shape ---

func TestAddChildPreservesInsertionOrder(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 10, 10)
	b := newBox(&u, "b", 10, 10)
	root.AddChild(a)
	root.AddChild(b)
	assertNames(t, root.Children(), "a", "b")
	if a.Parent() != root {
		t.Error("parent link not set")
	}
}

func TestAddChildReparents(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 10, 10)
	b := newBox(&u, "b", 10, 10)
	root.AddChild(a)
	root.AddChild(b)

	a.AddChild(b)
	assertNames(t, root.Children(), "a")
	assertNames(t, a.Children(), "b")
	if b.Parent() != Node(a) {
		t.Error("b should be parented to a")
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	var u Undo
	a := newBox(&u, "a", 10, 10)
	b := newBox(&u, "b", 10, 10)
	a.AddChild(b)

	defer func() {
		if recover() == nil {
			t.Error("adding an ancestor as a child should panic")
		}
	}()
	b.AddChild(a)
}

func TestAddChildAtInsertsAtIndex(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	for _, name := range []string{"a", "c"} {
		root.AddChild(newBox(&u, name, 1, 1))
	}
	root.AddChildAt(newBox(&u, "b", 1, 1), 1)
	assertNames(t, root.Children(), "a", "b", "c")
}

func TestDelDetaches(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 1, 1)
	root.AddChild(a)

	Del(a)
	assertNames(t, root.Children())
	if a.Parent() != nil {
		t.Error("deleted node should have no parent")
	}

	Del(a) // already detached: no-op
}

func TestUnparentBecomesSiblingOfFormerParent(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 1, 1)
	b := newBox(&u, "b", 1, 1)
	c := newBox(&u, "c", 1, 1)
	root.AddChild(a)
	root.AddChild(c)
	a.AddChild(b)

	b.Unparent()
	assertNames(t, root.Children(), "a", "b", "c")
}

func TestMoveUpDown(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	for _, name := range []string{"a", "b", "c"} {
		root.AddChild(newBox(&u, name, 1, 1))
	}
	b := root.Children()[1]

	b.Base().MoveUp()
	assertNames(t, root.Children(), "b", "a", "c")
	b.Base().MoveUp() // already first: no-op
	assertNames(t, root.Children(), "b", "a", "c")

	b.Base().MoveDown()
	b.Base().MoveDown()
	assertNames(t, root.Children(), "a", "c", "b")
	b.Base().MoveDown() // already last: no-op
	assertNames(t, root.Children(), "a", "c", "b")
}

func TestParentWithBelow(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 1, 1)
	b := newBox(&u, "b", 1, 1)
	root.AddChild(a)
	root.AddChild(b)

	a.ParentWithBelow()
	assertNames(t, root.Children(), "b")
	assertNames(t, b.Children(), "a")

	a.ParentWithBelow() // no sibling below: no-op
	assertNames(t, b.Children(), "a")
}

// --- Hit testing ---

func TestNodeUnderPicksTopmostSibling(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	bottom := newBox(&u, "bottom", 100, 100)
	top := newBox(&u, "top", 100, 100)
	root.AddChild(bottom)
	root.AddChild(top)

	if got := root.NodeUnder(Vec2{X: 50, Y: 50}); got != Node(top) {
		t.Errorf("NodeUnder = %v, want top", got)
	}
}

func TestNodeUnderChildrenBeforeParent(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	parent := newBox(&u, "parent", 100, 100)
	child := newBox(&u, "child", 20, 20)
	child.X, child.Y = 40, 40
	root.AddChild(parent)
	parent.AddChild(child)

	if got := root.NodeUnder(Vec2{X: 50, Y: 50}); got != Node(child) {
		t.Errorf("NodeUnder = %v, want child", got)
	}
	if got := root.NodeUnder(Vec2{X: 10, Y: 10}); got != Node(parent) {
		t.Errorf("NodeUnder = %v, want parent", got)
	}
}

func TestNodeUnderFallsThroughTransparency(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	bottom := newBox(&u, "bottom", 100, 100)
	top := newBox(&u, "top", 100, 100)
	top.holes = func(x, y float64) bool { return x > 30 }
	root.AddChild(bottom)
	root.AddChild(top)

	if got := root.NodeUnder(Vec2{X: 50, Y: 50}); got != Node(bottom) {
		t.Errorf("transparent point should fall through to bottom, got %v", got)
	}
	if got := root.NodeUnder(Vec2{X: 10, Y: 50}); got != Node(top) {
		t.Errorf("opaque point should hit top, got %v", got)
	}
}

func TestNodeUnderRespectsZOrder(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	late := newBox(&u, "late", 100, 100)
	early := newBox(&u, "early", 100, 100)
	early.ZOrder = 5 // paints above late despite earlier-looking name
	root.AddChild(late)
	root.AddChild(early)
	early.Base().MoveUp() // insertion order: early, late; ZOrder wins anyway

	if got := root.NodeUnder(Vec2{X: 50, Y: 50}); got != Node(early) {
		t.Errorf("NodeUnder = %v, want the higher ZOrder node", got)
	}
}

func TestNodeUnderSkipsInvisible(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 100, 100)
	a.Visible = false
	root.AddChild(a)

	if got := root.NodeUnder(Vec2{X: 50, Y: 50}); got != nil {
		t.Errorf("NodeUnder = %v, want nil for invisible node", got)
	}
}

func TestNodeUnderHonorsTransforms(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 10, 10)
	a.X, a.Y = 100, 100
	a.ScaleX, a.ScaleY = 2, 2
	root.AddChild(a)

	// Local box is 10x10 scaled to 20x20 at (100, 100).
	if got := root.NodeUnder(Vec2{X: 115, Y: 115}); got != Node(a) {
		t.Errorf("point inside scaled box should hit, got %v", got)
	}
	if got := root.NodeUnder(Vec2{X: 125, Y: 125}); got != nil {
		t.Errorf("point outside scaled box should miss, got %v", got)
	}
}

// --- Edit gestures ---

func TestTranslateGesture(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 10, 10)
	root.AddChild(a)

	a.TranslateStart(Vec2{X: 10, Y: 10})
	if a.EditMode() != EditTranslate {
		t.Fatalf("mode = %v, want translate", a.EditMode())
	}
	a.Update(Vec2{X: 30, Y: 15})
	if a.X != 20 || a.Y != 5 {
		t.Errorf("live position = (%v, %v), want (20, 5)", a.X, a.Y)
	}
	a.Commit()
	if a.EditMode() != EditSelect {
		t.Error("commit should return to select mode")
	}

	u.Undo()
	if a.X != 0 || a.Y != 0 {
		t.Errorf("after undo position = (%v, %v), want (0, 0)", a.X, a.Y)
	}
	u.Redo()
	if a.X != 20 || a.Y != 5 {
		t.Errorf("after redo position = (%v, %v), want (20, 5)", a.X, a.Y)
	}
}

func TestScaleGesture(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 10, 10)
	root.AddChild(a)

	a.ScaleStart(Vec2{X: 10, Y: 0})
	a.Update(Vec2{X: 20, Y: 0})
	if math.Abs(a.ScaleX-2) > 1e-9 || math.Abs(a.ScaleY-2) > 1e-9 {
		t.Errorf("scale = (%v, %v), want (2, 2)", a.ScaleX, a.ScaleY)
	}
	a.Commit()
	u.Undo()
	if a.ScaleX != 1 || a.ScaleY != 1 {
		t.Errorf("after undo scale = (%v, %v), want (1, 1)", a.ScaleX, a.ScaleY)
	}
}

func TestRotateGesture(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 10, 10)
	root.AddChild(a)

	a.RotateStart(Vec2{X: 10, Y: 0})
	a.Update(Vec2{X: 0, Y: 10})
	if math.Abs(a.Rotation-math.Pi/2) > 1e-9 {
		t.Errorf("rotation = %v, want pi/2", a.Rotation)
	}
}

func TestTranslateInsideTransformedParent(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	parent := newBox(&u, "parent", 100, 100)
	parent.ScaleX, parent.ScaleY = 2, 2
	child := newBox(&u, "child", 10, 10)
	root.AddChild(parent)
	parent.AddChild(child)

	// A 20px world-space drag is a 10px move in the doubled parent space.
	child.TranslateStart(Vec2{X: 0, Y: 0})
	child.Update(Vec2{X: 20, Y: 0})
	if math.Abs(child.X-10) > 1e-9 {
		t.Errorf("child.X = %v, want 10", child.X)
	}
}

func TestCancelRestoresAndRecordsNothing(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 10, 10)
	a.X = 7
	root.AddChild(a)

	a.TranslateStart(Vec2{X: 0, Y: 0})
	a.Update(Vec2{X: 50, Y: 50})
	a.Cancel()
	if a.X != 7 || a.Y != 0 {
		t.Errorf("cancel should restore (7, 0), got (%v, %v)", a.X, a.Y)
	}
	if u.HasUndo() {
		t.Error("cancel must not record an undo action")
	}
}

func TestGestureCoalescesToOneRecord(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 10, 10)
	root.AddChild(a)

	a.TranslateStart(Vec2{})
	for i := 1; i <= 30; i++ {
		a.Update(Vec2{X: float64(i)})
	}
	a.Commit()

	u.Undo()
	if a.X != 0 {
		t.Errorf("one undo should revert the whole drag, x = %v", a.X)
	}
	if u.HasUndo() {
		t.Error("a drag must coalesce into exactly one record")
	}
}

func TestCommitWithoutChangeRecordsNothing(t *testing.T) {
	var u Undo
	root := NewRoot(&u, "root")
	a := newBox(&u, "a", 10, 10)
	root.AddChild(a)

	a.TranslateStart(Vec2{X: 5, Y: 5})
	a.Commit()
	if u.HasUndo() {
		t.Error("no-op gesture should not record")
	}
}

func TestGestureStartRequiresSelectMode(t *testing.T) {
	var u Undo
	a := newBox(&u, "a", 10, 10)
	a.TranslateStart(Vec2{})
	a.ScaleStart(Vec2{}) // ignored mid-gesture
	if a.EditMode() != EditTranslate {
		t.Errorf("mode = %v, want translate", a.EditMode())
	}
}

// --- Subtree persistence ---

func TestSaveAllLoadAllIsomorphic(t *testing.T) {
	var u Undo
	f := NewFactory()
	regBox(f, &u)

	orig := newBox(&u, "parent", 64, 32)
	orig.X, orig.Y = 3, 4
	orig.Rotation = 0.5
	orig.Tag = 11
	c1 := newBox(&u, "first", 8, 8)
	c1.Tag = 22
	c2 := newBox(&u, "second", 9, 9)
	c2.ZOrder = -1
	orig.AddChild(c1)
	orig.AddChild(c2)
	c1.AddChild(newBox(&u, "grandchild", 2, 2))

	var buf bytes.Buffer
	if err := SaveAll(NewEncoder(&buf), orig); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	d := NewDecoder(&buf)
	typeName := d.String()
	name := d.String()
	clone, err := f.Ctor(typeName, name)
	if err != nil {
		t.Fatalf("Ctor: %v", err)
	}
	if err := LoadAll(d, f, clone); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	assertTreeEqual(t, orig, clone)
}

func assertTreeEqual(t *testing.T, want, got Node) {
	t.Helper()
	if want.TypeName() != got.TypeName() {
		t.Fatalf("type = %q, want %q", got.TypeName(), want.TypeName())
	}
	wb, gb := want.Base(), got.Base()
	if wb.Name != gb.Name {
		t.Fatalf("name = %q, want %q", gb.Name, wb.Name)
	}
	if wb.X != gb.X || wb.Y != gb.Y || wb.Rotation != gb.Rotation ||
		wb.ScaleX != gb.ScaleX || wb.ScaleY != gb.ScaleY ||
		wb.ZOrder != gb.ZOrder || wb.Visible != gb.Visible {
		t.Fatalf("node %q transform mismatch", wb.Name)
	}
	if w, ok := want.(*boxNode); ok {
		g := got.(*boxNode)
		if w.BoxW != g.BoxW || w.BoxH != g.BoxH || w.Tag != g.Tag {
			t.Fatalf("node %q payload mismatch", wb.Name)
		}
	}
	if len(wb.Children()) != len(gb.Children()) {
		t.Fatalf("node %q child count = %d, want %d",
			wb.Name, len(gb.Children()), len(wb.Children()))
	}
	for i := range wb.Children() {
		assertTreeEqual(t, wb.Children()[i], gb.Children()[i])
	}
}

func TestLoadAllRejectsUnknownChildType(t *testing.T) {
	var u Undo
	f := NewFactory()
	regBox(f, &u)

	parent := newBox(&u, "p", 1, 1)
	parent.AddChild(newBox(&u, "c", 1, 1))

	var buf bytes.Buffer
	if err := SaveAll(NewEncoder(&buf), parent); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	d := NewDecoder(&buf)
	_ = d.String() // type
	_ = d.String() // name
	clone, _ := f.Ctor(boxTypeName, "p")
	empty := NewFactory() // child's type is not registered here
	if err := LoadAll(d, empty, clone); err == nil {
		t.Error("unknown child type should abort the load")
	}
}
