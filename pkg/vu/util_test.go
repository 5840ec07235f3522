package vu

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func checkValid(t *testing.T, g *Graph) {
	t.Helper()
	for _, e := range Validate(g) {
		t.Errorf("invalid graph: %v", e)
	}
}

func pts(xy ...float64) []v3.Vec {
	out := make([]v3.Vec, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, v3.Vec{X: xy[i], Y: xy[i+1]})
	}
	return out
}

// unitSquare builds the counterclockwise unit square and returns the
// interior node at the origin.
func unitSquare(g *Graph, left, right Mask) NodeID {
	return g.BuildLoop(pts(0, 0, 1, 0, 1, 1, 0, 1), 0, left, right)
}

// reachable returns every node connected to n through either successor.
func reachable(g *Graph, n NodeID) map[NodeID]bool {
	seen := map[NodeID]bool{n: true}
	work := []NodeID{n}
	for len(work) > 0 {
		m := work[len(work)-1]
		work = work[:len(work)-1]
		for _, k := range []NodeID{g.FSucc(m), g.VSucc(m)} {
			if !seen[k] {
				seen[k] = true
				work = append(work, k)
			}
		}
	}
	return seen
}
