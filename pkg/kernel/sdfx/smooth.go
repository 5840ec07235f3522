package sdfx

import (
	"math"

	"github.com/chazu/vumesh/pkg/vu"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// Smooth moves each free vertex to the average of its neighbors,
// iterations times. A vertex is free when none of its nodes carries a
// boundary, exterior or rule mask. All new positions of one sweep are
// computed before any is applied.
func (k *SdfxKernel) Smooth(g *vu.Graph, iterations int) (int, error) {
	if iterations < 0 {
		return 0, errors.Errorf("smooth: negative iteration count %d", iterations)
	}
	moved := 0
	for i := 0; i < iterations; i++ {
		type move struct {
			n vu.NodeID
			p v3.Vec
		}
		var moves []move
		err := g.WithMask(func(seen vu.Mask) error {
			for n := range g.Nodes() {
				if g.HasMask(n, seen) {
					continue
				}
				g.SetMaskAroundVertex(n, seen)
				if g.FindMaskAroundVertex(n, constrained) != vu.NoNode {
					continue
				}
				var sum v3.Vec
				deg := 0
				for m := range g.VertexLoop(n) {
					q := g.XYZ(g.FSucc(m))
					sum.X += q.X
					sum.Y += q.Y
					sum.Z += q.Z
					deg++
				}
				c := float64(deg)
				moves = append(moves, move{n, v3.Vec{X: sum.X / c, Y: sum.Y / c, Z: sum.Z / c}})
			}
			return nil
		})
		if err != nil {
			return moved, errors.Wrap(err, "smooth")
		}
		for _, m := range moves {
			g.SetVertexXYZ(m.n, m.p)
		}
		moved += len(moves)
	}
	return moved, nil
}

// SplitLongEdges splits every edge longer than maxLen into equal pieces no
// longer than maxLen. It returns the number of vertices inserted.
func (k *SdfxKernel) SplitLongEdges(g *vu.Graph, maxLen float64) (int, error) {
	if !(maxLen > 0) {
		return 0, errors.Errorf("split long edges: invalid length %g", maxLen)
	}
	inserted := 0
	for _, e := range edges(g) {
		a, b := g.XYZ(e), g.XYZ(g.FSucc(e))
		l := math.Hypot(b.X-a.X, b.Y-a.Y)
		pieces := int(math.Ceil(l / maxLen))
		cur := e
		for i := 1; i < pieces; i++ {
			t := float64(i) / float64(pieces)
			p := v3.Vec{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y), Z: a.Z + t*(b.Z-a.Z)}
			cur = splitAt(g, cur, p)
			inserted++
		}
	}
	return inserted, nil
}
