package vu

import (
	"fmt"
	"math/bits"
)

// Mask is a per-node bit set.
type Mask uint32

// Fixed masks shared by all graphs.
const (
	MaskBoundary Mask = 1 << iota
	MaskExterior
	MaskRule
	MaskSeam
	MaskGrid
	MaskKnot
	MaskDiscontinuity
	MaskNullFace
)

// NoMask is returned by GrabMask when the pool is exhausted.
const NoMask Mask = 0

// grabPool holds the bits handed out by GrabMask.
const grabPool Mask = 0xFFFFFF00

// GrabMask borrows an unused mask bit from the graph's pool and clears it
// on every node. It returns NoMask when all pool bits are out; every
// successful grab must be paired with DropMask.
func (g *Graph) GrabMask() Mask {
	if g.free == 0 {
		return NoMask
	}
	m := Mask(1) << bits.TrailingZeros32(uint32(g.free))
	g.free &^= m
	for i := range g.nodes {
		g.nodes[i].mask &^= m
	}
	return m
}

// DropMask returns m to the pool. Dropping a mask that was not grabbed
// panics.
func (g *Graph) DropMask(m Mask) {
	if m == NoMask || m&^grabPool != 0 || bits.OnesCount32(uint32(m)) != 1 || g.free&m != 0 {
		panic(fmt.Sprintf("vu: unbalanced drop of mask %#x", uint32(m)))
	}
	g.free |= m
}

// MasksAvailable is the number of pool bits not currently borrowed.
func (g *Graph) MasksAvailable() int {
	return bits.OnesCount32(uint32(g.free))
}

// WithMask grabs a clean mask, runs fn with it and drops it again on every
// exit path, including a panic inside fn.
func (g *Graph) WithMask(fn func(m Mask) error) error {
	m := g.GrabMask()
	if m == NoMask {
		return ErrMaskPoolExhausted
	}
	defer g.DropMask(m)
	return fn(m)
}

// HasMask reports whether any bit of m is set on n.
func (g *Graph) HasMask(n NodeID, m Mask) bool { return g.at(n).mask&m != 0 }

// Mask returns the bits of m set on n.
func (g *Graph) Mask(n NodeID, m Mask) Mask { return g.at(n).mask & m }

// SetMask sets m on n.
func (g *Graph) SetMask(n NodeID, m Mask) { g.at(n).mask |= m }

// ClearMask clears m on n.
func (g *Graph) ClearMask(n NodeID, m Mask) { g.at(n).mask &^= m }

// ClearMaskInSet clears m on every node currently in the graph.
func (g *Graph) ClearMaskInSet(m Mask) {
	for id := range g.Nodes() {
		g.nodes[id].mask &^= m
	}
}

// SetMaskAroundFace sets m on every node of n's face.
func (g *Graph) SetMaskAroundFace(n NodeID, m Mask) {
	for k := range g.FaceLoop(n) {
		g.nodes[k].mask |= m
	}
}

// ClearMaskAroundFace clears m on every node of n's face.
func (g *Graph) ClearMaskAroundFace(n NodeID, m Mask) {
	for k := range g.FaceLoop(n) {
		g.nodes[k].mask &^= m
	}
}

// CountMaskAroundFace counts the nodes of n's face with m set.
func (g *Graph) CountMaskAroundFace(n NodeID, m Mask) int {
	c := 0
	for k := range g.FaceLoop(n) {
		if g.nodes[k].mask&m != 0 {
			c++
		}
	}
	return c
}

// FindMaskAroundFace returns the first node of n's face, starting at n,
// with m set, or NoNode.
func (g *Graph) FindMaskAroundFace(n NodeID, m Mask) NodeID {
	for k := range g.FaceLoop(n) {
		if g.nodes[k].mask&m != 0 {
			return k
		}
	}
	return NoNode
}

// SetMaskAroundVertex sets m on every node of n's vertex.
func (g *Graph) SetMaskAroundVertex(n NodeID, m Mask) {
	for k := range g.VertexLoop(n) {
		g.nodes[k].mask |= m
	}
}

// ClearMaskAroundVertex clears m on every node of n's vertex.
func (g *Graph) ClearMaskAroundVertex(n NodeID, m Mask) {
	for k := range g.VertexLoop(n) {
		g.nodes[k].mask &^= m
	}
}

// CountMaskAroundVertex counts the nodes of n's vertex with m set.
func (g *Graph) CountMaskAroundVertex(n NodeID, m Mask) int {
	c := 0
	for k := range g.VertexLoop(n) {
		if g.nodes[k].mask&m != 0 {
			c++
		}
	}
	return c
}

// FindMaskAroundVertex returns the first node of n's vertex, starting at
// n, with m set, or NoNode.
func (g *Graph) FindMaskAroundVertex(n NodeID, m Mask) NodeID {
	for k := range g.VertexLoop(n) {
		if g.nodes[k].mask&m != 0 {
			return k
		}
	}
	return NoNode
}

// SetMaskAroundEdge sets m on n and its edge mate.
func (g *Graph) SetMaskAroundEdge(n NodeID, m Mask) {
	g.at(n).mask |= m
	g.at(g.EdgeMate(n)).mask |= m
}

// ClearMaskAroundEdge clears m on n and its edge mate.
func (g *Graph) ClearMaskAroundEdge(n NodeID, m Mask) {
	g.at(n).mask &^= m
	g.at(g.EdgeMate(n)).mask &^= m
}

// SetUserDataAroundFace stores v on every node of n's face.
func (g *Graph) SetUserDataAroundFace(n NodeID, v int64) {
	for k := range g.FaceLoop(n) {
		g.nodes[k].user = v
	}
}

// SetUserDataAroundVertex stores v on every node of n's vertex.
func (g *Graph) SetUserDataAroundVertex(n NodeID, v int64) {
	for k := range g.VertexLoop(n) {
		g.nodes[k].user = v
	}
}
