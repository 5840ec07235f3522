package sdfx

import (
	"math"

	"github.com/chazu/vumesh/pkg/vu"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// Regularize bridges every shell that sits inside a bounded face of
// another shell to that face, joining the shell's leftmost vertex to the
// nearest vertex of the face it can see. Afterwards every bounded face is
// a single boundary walk.
func (k *SdfxKernel) Regularize(g *vu.Graph) (int, error) {
	shells := components(g)
	if len(shells) < 2 {
		return 0, nil
	}
	anchors := make([]vu.NodeID, 0, len(shells))
	for _, s := range shells {
		anchors = append(anchors, leftmostAnchor(g, s))
	}
	bridges := 0
	for _, a := range anchors {
		target := containingFace(g, a)
		if target == vu.NoNode {
			continue
		}
		w, ok := visibleNode(g, a, target)
		if !ok {
			p := at(g, a)
			return bridges, errors.Errorf("regularize: no visible vertex from (%g, %g)", p.X, p.Y)
		}
		g.Join(a, w)
		bridges++
	}
	return bridges, nil
}

// components groups the graph's nodes into shells.
func components(g *vu.Graph) [][]vu.NodeID {
	var shells [][]vu.NodeID
	seen := map[vu.NodeID]bool{}
	for n := range g.Nodes() {
		if seen[n] {
			continue
		}
		shell := shellOf(g, n)
		for m := range shell {
			seen[m] = true
		}
		nodes := make([]vu.NodeID, 0, len(shell))
		for m := range g.Nodes() {
			if shell[m] {
				nodes = append(nodes, m)
			}
		}
		shells = append(shells, nodes)
	}
	return shells
}

// shellOf returns every node connected to n.
func shellOf(g *vu.Graph, n vu.NodeID) map[vu.NodeID]bool {
	seen := map[vu.NodeID]bool{n: true}
	work := []vu.NodeID{n}
	for len(work) > 0 {
		m := work[len(work)-1]
		work = work[:len(work)-1]
		for _, k := range [2]vu.NodeID{g.FSucc(m), g.VSucc(m)} {
			if !seen[k] {
				seen[k] = true
				work = append(work, k)
			}
		}
	}
	return seen
}

// leftmostAnchor returns the node of the shell's lowest leftmost vertex
// whose wedge opens toward -x, i.e. the node on the shell's outer face.
func leftmostAnchor(g *vu.Graph, shell []vu.NodeID) vu.NodeID {
	best := shell[0]
	for _, n := range shell[1:] {
		p, b := at(g, n), at(g, best)
		if p.X < b.X || (p.X == b.X && p.Y < b.Y) {
			best = n
		}
	}
	for n := range g.VertexLoop(best) {
		if off, width := sector(g, n, math.Pi); off < width {
			return n
		}
	}
	return best
}

// containingFace returns a node of the smallest bounded face, outside a's
// own shell, that strictly contains a's position, or NoNode.
func containingFace(g *vu.Graph, a vu.NodeID) vu.NodeID {
	own := shellOf(g, a)
	p := at(g, a)
	best, bestArea := vu.NoNode, math.Inf(1)
	for _, f := range faceSeeds(g) {
		if own[f] {
			continue
		}
		area := g.FaceArea(f)
		if area <= 0 || area >= bestArea {
			continue
		}
		poly, ok := facePolygon(g, f)
		if ok && inside(poly, p) {
			best, bestArea = f, area
		}
	}
	return best
}

// visibleNode returns the node of face f nearest to a whose vertex can be
// reached from a by a segment that crosses no edge and leaves both ends
// inside their wedges.
func visibleNode(g *vu.Graph, a, f vu.NodeID) (vu.NodeID, bool) {
	p := at(g, a)
	es := edges(g)
	best, bestDist := vu.NoNode, math.Inf(1)
	for w := range g.FaceLoop(f) {
		q := at(g, w)
		d := dist(p, q)
		if d == 0 || d >= bestDist {
			continue
		}
		out := math.Atan2(q.Y-p.Y, q.X-p.X)
		if off, width := sector(g, a, out); off <= 0 || off >= width {
			continue
		}
		if off, width := sector(g, w, out+math.Pi); off <= 0 || off >= width {
			continue
		}
		if blocked(g, es, p, q) {
			continue
		}
		best, bestDist = w, d
	}
	return best, best != vu.NoNode
}

// blocked reports whether the open segment pq crosses an edge or passes
// through a vertex.
func blocked(g *vu.Graph, es []vu.NodeID, p, q v2.Vec) bool {
	l := dist(p, q)
	for _, e := range es {
		c, d := at(g, e), at(g, g.FSucc(e))
		d1, d2 := cross(p, q, c), cross(p, q, d)
		d3, d4 := cross(c, d, p), cross(c, d, q)
		if d1*d2 < 0 && d3*d4 < 0 {
			return true
		}
		for _, v := range [2]v2.Vec{c, d} {
			if v == p || v == q {
				continue
			}
			t := ((v.X-p.X)*(q.X-p.X) + (v.Y-p.Y)*(q.Y-p.Y)) / (l * l)
			if t > 0 && t < 1 && math.Abs(cross(p, q, v)) <= 1e-12*l*l {
				return true
			}
		}
	}
	return false
}
