package mascot

// Vec2 is a 2D vector used for positions, offsets, sizes, and pointer
// locations throughout the API.
type Vec2 struct {
	X, Y float64
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default text/tint color.
var ColorWhite = Color{1, 1, 1, 1}

// EditMode is the manipulation state of a node. A selected node leaves
// EditSelect when a gesture starts and returns to it on commit or cancel.
type EditMode uint8

const (
	EditSelect    EditMode = iota // no gesture in progress
	EditTranslate                 // pointer movement translates the node
	EditScale                     // pointer distance from the pivot scales the node
	EditRotate                    // pointer angle around the pivot rotates the node
)

// String returns the mode name for logs and UI.
func (m EditMode) String() string {
	switch m {
	case EditSelect:
		return "select"
	case EditTranslate:
		return "translate"
	case EditScale:
		return "scale"
	case EditRotate:
		return "rotate"
	default:
		return "unknown"
	}
}
