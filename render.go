package mascot

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RenderContext carries the draw target and the composed transform of the
// node currently being rendered's parent. Nodes compose their own world
// transform from it with worldFrom.
type RenderContext struct {
	Target *ebiten.Image
	// World is the parent's composed affine transform.
	World [6]float64
}

// worldFrom composes the node's local transform onto the context's parent
// transform.
func (b *NodeBase) worldFrom(ctx *RenderContext) [6]float64 {
	return mulAffine(ctx.World, b.localTransform())
}

// toGeoM converts an affine [a, b, c, d, tx, ty] matrix to an ebiten.GeoM.
func toGeoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// Render is the default (container) rendering: gizmo for hover/selection,
// then children back to front. Kinds with visual output draw their content
// first and then call the embedded Base.Render, which keeps render order the
// exact reverse of hit-test order.
func (b *NodeBase) Render(ctx *RenderContext, dt float64, hovered, selected Node) {
	if !b.Visible {
		return
	}
	if b.self == hovered || b.self == selected {
		b.drawGizmo(ctx, b.self == selected)
	}
	b.RenderChildren(ctx, dt, hovered, selected)
}

// RenderChildren renders the children in paint order (lowest ZOrder first,
// insertion order within equal ZOrder), each with the context's World set to
// this node's composed transform.
func (b *NodeBase) RenderChildren(ctx *RenderContext, dt float64, hovered, selected Node) {
	saved := ctx.World
	ctx.World = b.worldFrom(ctx)
	for _, c := range b.paintOrder() {
		c.Render(ctx, dt, hovered, selected)
	}
	ctx.World = saved
}

var (
	hoverColor  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xa0}
	selectColor = color.RGBA{R: 0xff, G: 0xa0, B: 0x20, A: 0xff}
)

// drawGizmo outlines the node's local-space box under its world transform.
func (b *NodeBase) drawGizmo(ctx *RenderContext, isSelected bool) {
	w, h := b.self.W(), b.self.H()
	if w <= 0 || h <= 0 {
		return
	}
	world := b.worldFrom(ctx)
	clr := hoverColor
	if isSelected {
		clr = selectColor
	}
	corners := [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}}
	for i := range corners {
		x0, y0 := transformPoint(world, corners[i][0], corners[i][1])
		x1, y1 := transformPoint(world, corners[(i+1)%4][0], corners[(i+1)%4][1])
		vector.StrokeLine(ctx.Target, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, true)
	}
}
