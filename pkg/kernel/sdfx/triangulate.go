package sdfx

import (
	"github.com/chazu/vumesh/pkg/vu"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// Triangulate clips ears off every interior face until each is a
// triangle. It returns the number of diagonals added.
func (k *SdfxKernel) Triangulate(g *vu.Graph) (int, error) {
	added := 0
	for _, f := range g.CollectFaces(vu.MaskExterior) {
		if f.MaskOr != 0 || f.Area <= 0 || len(f.Points) <= 3 {
			continue
		}
		n, err := clipEars(g, f.Seed)
		added += n
		if err != nil {
			return added, err
		}
	}
	return added, nil
}

func clipEars(g *vu.Graph, f vu.NodeID) (int, error) {
	added := 0
	for g.FaceSize(f) > 3 {
		ear := findEar(g, f)
		if ear == vu.NoNode {
			p := at(g, f)
			return added, errors.Errorf("triangulate: no ear in face at (%g, %g)", p.X, p.Y)
		}
		f, _ = g.Join(g.FPred(ear), g.FSucc(ear))
		added++
	}
	return added, nil
}

// findEar returns a convex corner of f whose triangle holds no other
// vertex of the face, or NoNode.
func findEar(g *vu.Graph, f vu.NodeID) vu.NodeID {
	for n := range g.FaceLoop(f) {
		p, c, q := at(g, g.FPred(n)), at(g, n), at(g, g.FSucc(n))
		if cross(p, c, q) <= 0 {
			continue
		}
		clear := true
		for m := range g.FaceLoop(f) {
			v := at(g, m)
			if v == p || v == c || v == q {
				continue
			}
			if blocksEar(p, c, q, v) {
				clear = false
				break
			}
		}
		if clear {
			return n
		}
	}
	return vu.NoNode
}

// blocksEar reports whether v lies inside triangle pcq or on its open
// diagonal qp.
func blocksEar(p, c, q, v v2.Vec) bool {
	return cross(p, c, v) > 0 && cross(c, q, v) > 0 && cross(q, p, v) >= 0
}

// Flip swaps the diagonal of every pair of interior triangles whose far
// vertex lies inside the other's circumcircle, until none remain or the
// pass limit is hit. Constrained edges are left alone.
func (k *SdfxKernel) Flip(g *vu.Graph) (int, error) {
	flips := 0
	for pass := 0; pass < k.MaxFlipPasses; pass++ {
		changed := false
		for _, e := range edges(g) {
			if flippable(g, e) {
				flipEdge(g, e)
				flips++
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return flips, nil
}

func flippable(g *vu.Graph, e vu.NodeID) bool {
	f := g.EdgeMate(e)
	if g.HasMask(e, constrained) || g.HasMask(f, constrained) {
		return false
	}
	if g.FaceSize(e) != 3 || g.FaceSize(f) != 3 {
		return false
	}
	p1, p2 := at(g, e), at(g, f)
	r1 := at(g, g.FSucc(g.FSucc(e)))
	r2 := at(g, g.FSucc(g.FSucc(f)))
	if cross(p1, p2, r1) <= 0 || cross(p2, p1, r2) <= 0 {
		return false
	}
	// the quad must be strictly convex for the new diagonal to fit
	if cross(r1, r2, p1)*cross(r1, r2, p2) >= 0 {
		return false
	}
	return inCircle(p1, p2, r1, r2) > 0
}

// flipEdge replaces the diagonal at e with the other diagonal of the quad
// formed by its two triangles, reusing e and its mate.
func flipEdge(g *vu.Graph, e vu.NodeID) {
	f := g.EdgeMate(e)
	a1 := g.FSucc(g.FSucc(e))
	a2 := g.FSucc(g.FSucc(f))
	g.DetachEdge(e)
	g.SetXYZ(e, g.XYZ(a1))
	g.SetXYZ(f, g.XYZ(a2))
	g.VertexTwist(a1, e)
	g.VertexTwist(a2, f)
}

// inCircle is positive when d lies inside the circle through the
// counterclockwise triangle abc.
func inCircle(a, b, c, d v2.Vec) float64 {
	adx, ady := a.X-d.X, a.Y-d.Y
	bdx, bdy := b.X-d.X, b.Y-d.Y
	cdx, cdy := c.X-d.X, c.Y-d.Y
	ad := adx*adx + ady*ady
	bd := bdx*bdx + bdy*bdy
	cd := cdx*cdx + cdy*cdy
	return ad*(bdx*cdy-cdx*bdy) + bd*(cdx*ady-adx*cdy) + cd*(adx*bdy-bdx*ady)
}
