package mascot

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// localTransform computes the node's local affine matrix from its transform
// properties. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Rotate -> Translate(X, Y)
func (b *NodeBase) localTransform() [6]float64 {
	sx := b.ScaleX
	sy := b.ScaleY
	sin, cos := math.Sincos(b.Rotation)

	// Scale then rotate.
	a := cos * sx
	bb := sin * sx
	c := -sin * sy
	d := cos * sy

	// Pivot offset passes through scale and rotation before the final
	// translation.
	preTx := -b.PivotX * sx
	preTy := -b.PivotY * sy
	tx := cos*preTx - sin*preTy + b.X
	ty := sin*preTx + cos*preTy + b.Y

	return [6]float64{a, bb, c, d, tx, ty}
}

// mulAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func mulAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// worldTransform composes the node's transform with every ancestor's.
// Trees here are shallow and small, so this walks up on demand instead of
// caching with dirty flags.
func (b *NodeBase) worldTransform() [6]float64 {
	return mulAffine(b.parentWorld(), b.localTransform())
}

// parentWorld returns the composed transform of the node's parent, or the
// identity for the root.
func (b *NodeBase) parentWorld() [6]float64 {
	if b.parent == nil {
		return identityTransform
	}
	return b.parent.Base().worldTransform()
}

// WorldToLocal converts a world-space point to this node's local space.
func (b *NodeBase) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(invertAffine(b.worldTransform()), wx, wy)
}

// LocalToWorld converts a local-space point to world space.
func (b *NodeBase) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(b.worldTransform(), lx, ly)
}
