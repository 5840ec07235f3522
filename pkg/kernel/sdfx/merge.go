package sdfx

import (
	"math"

	"github.com/chazu/vumesh/pkg/vu"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// Merge makes the graph a planar subdivision: properly crossing edges are
// split at their intersection, vertices lying on another edge split that
// edge, and vertices closer than tol are fused into one vertex loop in
// angular order.
func (k *SdfxKernel) Merge(g *vu.Graph, tol float64) (int, error) {
	for n := range g.Nodes() {
		p := g.XYZ(n)
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return 0, errors.Errorf("merge: node %v has non-finite coordinates", n)
		}
	}
	edits := 0
	for {
		if edits >= k.MaxMergeEvents {
			return edits, errors.Errorf("merge: no convergence after %d edits", edits)
		}
		switch {
		case splitOneCrossing(g, tol):
		case splitOneTouch(g, tol):
		default:
			fused, err := fuseOneCoincidence(g, tol)
			if err != nil {
				return edits, errors.Wrap(err, "merge")
			}
			if !fused {
				return edits, nil
			}
		}
		edits++
	}
}

// splitOneCrossing finds one pair of edges whose interiors cross and
// splits both at the crossing.
func splitOneCrossing(g *vu.Graph, tol float64) bool {
	es := edges(g)
	for i, e := range es {
		a, b := at(g, e), at(g, g.FSucc(e))
		for _, f := range es[i+1:] {
			c, d := at(g, f), at(g, g.FSucc(f))
			d1, d2 := cross(a, b, c), cross(a, b, d)
			d3, d4 := cross(c, d, a), cross(c, d, b)
			if !(d1*d2 < 0 && d3*d4 < 0) {
				continue
			}
			t := d3 / (d3 - d4)
			p := v3.Vec{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y), Z: g.XYZ(e).Z}
			q := xy(p)
			if dist(q, a) <= tol || dist(q, b) <= tol || dist(q, c) <= tol || dist(q, d) <= tol {
				continue
			}
			keep := splitAt(g, e, p)
			drop := splitAt(g, f, p)
			fuse(g, keep, drop)
			return true
		}
	}
	return false
}

// splitOneTouch finds one vertex lying within tol of the interior of an
// edge it is not on, and splits that edge there.
func splitOneTouch(g *vu.Graph, tol float64) bool {
	es := edges(g)
	for n := range g.Nodes() {
		v := at(g, n)
		for _, e := range es {
			a, b := at(g, e), at(g, g.FSucc(e))
			if dist(v, a) <= tol || dist(v, b) <= tol {
				continue
			}
			l := dist(a, b)
			if l == 0 {
				continue
			}
			t := ((v.X-a.X)*(b.X-a.X) + (v.Y-a.Y)*(b.Y-a.Y)) / (l * l)
			if t <= 0 || t >= 1 {
				continue
			}
			if math.Abs(cross(a, b, v))/l > tol {
				continue
			}
			fuse(g, n, splitAt(g, e, g.XYZ(n)))
			return true
		}
	}
	return false
}

// fuseOneCoincidence fuses one pair of distinct, non-adjacent vertices
// within tol of each other.
func fuseOneCoincidence(g *vu.Graph, tol float64) (bool, error) {
	var reps []vu.NodeID
	err := g.WithMask(func(seen vu.Mask) error {
		for n := range g.Nodes() {
			if g.HasMask(n, seen) {
				continue
			}
			g.SetMaskAroundVertex(n, seen)
			reps = append(reps, n)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	for i, p := range reps {
		for _, q := range reps[i+1:] {
			if dist(at(g, p), at(g, q)) > tol || adjacent(g, p, q) {
				continue
			}
			fuse(g, p, q)
			return true, nil
		}
	}
	return false, nil
}

// adjacent reports whether some edge joins the vertices of p and q.
func adjacent(g *vu.Graph, p, q vu.NodeID) bool {
	qs := map[vu.NodeID]bool{}
	for m := range g.VertexLoop(q) {
		qs[m] = true
	}
	for m := range g.VertexLoop(p) {
		if qs[g.EdgeMate(m)] {
			return true
		}
	}
	return false
}

// fuse moves every node of drop's vertex into keep's vertex, each into the
// wedge its edge direction falls in.
func fuse(g *vu.Graph, keep, drop vu.NodeID) {
	p := g.XYZ(keep)
	var moving []vu.NodeID
	for m := range g.VertexLoop(drop) {
		moving = append(moving, m)
	}
	for _, x := range moving {
		if g.VSucc(x) != x {
			g.VertexTwist(g.VPred(x), x)
		}
		g.SetXYZ(x, p)
		insertAtVertex(g, keep, x)
	}
}

// insertAtVertex twists the lone node x into keep's vertex loop after the
// node whose wedge contains x's edge direction.
func insertAtVertex(g *vu.Graph, keep, x vu.NodeID) {
	dir := direction(g, x)
	after := keep
	for n := range g.VertexLoop(keep) {
		if off, width := sector(g, n, dir); off < width {
			after = n
			break
		}
	}
	g.VertexTwist(after, x)
}
