// Package kernel defines the geometric collaborators that the meshing
// pipeline drives over a vu graph. Each pass mutates the graph in place
// and reports how many edits it made. Implementations (sdfx) live in
// sub-packages so the pipeline can be tested against mocks.
package kernel

import (
	"fmt"

	"github.com/chazu/vumesh/pkg/vu"
	"github.com/pkg/errors"
)

// BoolOp selects how two regions are combined.
type BoolOp int

const (
	Union BoolOp = iota
	Intersect
	Xor
	Difference // first operand minus second
)

func (op BoolOp) String() string {
	switch op {
	case Union:
		return "union"
	case Intersect:
		return "intersect"
	case Xor:
		return "xor"
	case Difference:
		return "difference"
	default:
		return fmt.Sprintf("BoolOp(%d)", int(op))
	}
}

// Apply reports whether a point inside a (or not) and inside b (or not)
// is inside the combined region.
func (op BoolOp) Apply(inA, inB bool) bool {
	switch op {
	case Union:
		return inA || inB
	case Intersect:
		return inA && inB
	case Xor:
		return inA != inB
	case Difference:
		return inA && !inB
	}
	return false
}

// ParseBoolOp accepts the names produced by BoolOp.String, plus "or",
// "and" and "minus".
func ParseBoolOp(s string) (BoolOp, error) {
	switch s {
	case "union", "or":
		return Union, nil
	case "intersect", "intersection", "and":
		return Intersect, nil
	case "xor":
		return Xor, nil
	case "difference", "minus":
		return Difference, nil
	}
	return 0, errors.Errorf("unknown boolean op %q", s)
}

// Kernel is the set of geometric passes used by the meshing pipeline.
// Every method edits g in place and returns the number of edits made.
// An error means the pass could not complete; the graph is left valid
// but possibly partially processed.
type Kernel interface {
	// Merge splits crossing edges and fuses vertices closer than tol.
	Merge(g *vu.Graph, tol float64) (int, error)

	// Regularize bridges holes into their containing faces so every
	// bounded face is a single boundary walk.
	Regularize(g *vu.Graph) (int, error)

	// MarkParity sets vu.MaskExterior around every face that lies outside
	// the even-odd region enclosed by edges carrying boundary, and clears
	// it elsewhere. It returns the number of exterior faces.
	MarkParity(g *vu.Graph, boundary vu.Mask) (int, error)

	// Combine classifies faces against the regions bounded by the a and b
	// edges, keeps those op accepts, and moves vu.MaskBoundary to the
	// edges between kept and dropped faces. It returns the number of
	// interior faces.
	Combine(g *vu.Graph, op BoolOp, a, b vu.Mask) (int, error)

	// Triangulate splits every interior face into triangles.
	Triangulate(g *vu.Graph) (int, error)

	// Flip swaps diagonals between interior triangles to improve their
	// shape. Boundary edges are never flipped.
	Flip(g *vu.Graph) (int, error)

	// Smooth relaxes interior vertex positions. No topology changes.
	Smooth(g *vu.Graph, iterations int) (int, error)

	// SplitLongEdges splits every edge longer than maxLen.
	SplitLongEdges(g *vu.Graph, maxLen float64) (int, error)
}
