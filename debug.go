package mascot

import (
	"fmt"
	"os"
)

// debugMode enables extra invariant checks on tree operations. Set via
// SetDebugMode; off by default.
var debugMode bool

// SetDebugMode enables or disables debug checks. When enabled, suspicious
// tree shapes are reported on stderr as nodes are added.
func SetDebugMode(enabled bool) {
	debugMode = enabled
}

// debugMaxTreeDepth is the depth past which an avatar tree is almost
// certainly the product of a reparenting bug.
const debugMaxTreeDepth = 32

// checkTreeDepth warns on stderr if the tree depth at n exceeds the
// threshold. No-op unless debug mode is on.
func checkTreeDepth(n Node) {
	if !debugMode {
		return
	}
	depth := 0
	for p := n; p != nil; p = p.Base().parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[mascot] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Base().Name)
	}
}
