package vu

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Disconnect marks a break between loops or chains in a point array. A
// point is a disconnect when its X or Y equals this value.
const Disconnect = 1.0e43

// DisconnectPoint returns a point that IsDisconnect accepts.
func DisconnectPoint() v3.Vec { return v3.Vec{X: Disconnect, Y: Disconnect} }

// IsDisconnect reports whether p is a disconnect marker.
func IsDisconnect(p v3.Vec) bool { return p.X == Disconnect || p.Y == Disconnect }

// DistanceXY is the planar distance between a and b; z is ignored.
func DistanceXY(a, b v3.Vec) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

// retained is a point kept after coincidence filtering, with its index in
// the caller's array.
type retained struct {
	p   v3.Vec
	src int
}

func dedup(points []v3.Vec, base int, tol float64) []retained {
	out := make([]retained, 0, len(points))
	for i, p := range points {
		if len(out) > 0 && DistanceXY(out[len(out)-1].p, p) <= tol {
			continue
		}
		out = append(out, retained{p: p, src: base + i})
	}
	return out
}

// chainFrom adds one edge per consecutive pair of r. Forward nodes carry
// left, backward nodes carry right.
func (g *Graph) chainFrom(r []retained, left, right Mask) (head, tail NodeID) {
	head, tail = NoNode, NoNode
	for i := 1; i < len(r); i++ {
		a, b := g.MakePair()
		na, nb := &g.nodes[a], &g.nodes[b]
		na.xyz, na.user, na.mask = r[i-1].p, int64(r[i-1].src), left
		nb.xyz, nb.user, nb.mask = r[i].p, int64(r[i].src), right
		if tail == NoNode {
			head = a
		} else {
			g.VertexTwist(tail, a)
		}
		tail = b
	}
	return head, tail
}

// BuildChain builds an open chain of edges through points. Points within
// tol (in the plane) of the previous kept point are dropped. It returns
// the forward node of the first edge and the backward node of the last
// edge, or NoNode twice when fewer than two points survive.
func (g *Graph) BuildChain(points []v3.Vec, tol float64, left, right Mask) (head, tail NodeID) {
	return g.buildChain(points, 0, tol, left, right)
}

func (g *Graph) buildChain(points []v3.Vec, base int, tol float64, left, right Mask) (NodeID, NodeID) {
	r := dedup(points, base, tol)
	if len(r) < 2 {
		return NoNode, NoNode
	}
	return g.chainFrom(r, left, right)
}

// BuildLoop builds a closed loop through points. When the last kept point
// coincides with the first the chain is closed in place; otherwise a
// closing edge back to the first point is added. It returns the forward
// node leaving the first point, or NoNode if fewer than two points
// survive.
func (g *Graph) BuildLoop(points []v3.Vec, tol float64, left, right Mask) NodeID {
	return g.buildLoop(points, 0, tol, left, right)
}

func (g *Graph) buildLoop(points []v3.Vec, base int, tol float64, left, right Mask) NodeID {
	r := dedup(points, base, tol)
	if len(r) < 2 {
		return NoNode
	}
	if DistanceXY(r[0].p, r[len(r)-1].p) > tol {
		r = append(r, r[0])
	}
	head, tail := g.chainFrom(r, left, right)
	g.nodes[tail].xyz = g.nodes[head].xyz
	g.VertexTwist(tail, head)
	return head
}

// partitions splits points at disconnect markers, reporting each run with
// the index of its first point.
func partitions(points []v3.Vec, fn func(run []v3.Vec, base int)) {
	start := 0
	for i, p := range points {
		if IsDisconnect(p) {
			if i > start {
				fn(points[start:i], start)
			}
			start = i + 1
		}
	}
	if start < len(points) {
		fn(points[start:], start)
	}
}

// BuildLoops builds one loop per disconnect-separated run of points and
// returns every loop built, in input order. Runs that collapse are
// skipped.
func (g *Graph) BuildLoops(points []v3.Vec, tol float64, left, right Mask) []NodeID {
	var loops []NodeID
	partitions(points, func(run []v3.Vec, base int) {
		if n := g.buildLoop(run, base, tol, left, right); n != NoNode {
			loops = append(loops, n)
		}
	})
	return loops
}

// BuildChains is BuildLoops for open chains. It returns the head of each
// chain built.
func (g *Graph) BuildChains(points []v3.Vec, tol float64, left, right Mask) []NodeID {
	var heads []NodeID
	partitions(points, func(run []v3.Vec, base int) {
		if h, _ := g.buildChain(run, base, tol, left, right); h != NoNode {
			heads = append(heads, h)
		}
	})
	return heads
}
