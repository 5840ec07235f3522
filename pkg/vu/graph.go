package vu

import (
	"fmt"
	"iter"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/pkg/errors"
)

// NodeID is the arena index of a node.
type NodeID int32

// NoNode is the null handle returned by builders on degenerate input.
const NoNode NodeID = -1

// Valid reports whether id is a real handle. It does not check that the
// id belongs to any particular graph.
func (id NodeID) Valid() bool { return id >= 0 }

func (id NodeID) String() string {
	if id < 0 {
		return "vu#none"
	}
	return fmt.Sprintf("vu#%d", int32(id))
}

var (
	ErrEmptyStack        = errors.New("vu: pop on empty graph stack")
	ErrMaskPoolExhausted = errors.New("vu: mask pool exhausted")
	ErrBadSnapshot       = errors.New("vu: malformed snapshot")
)

type node struct {
	fs, vs NodeID
	next   NodeID // membership list link
	mask   Mask
	user   int64
	xyz    v3.Vec
}

// membership is an intrusive singly linked list of the nodes currently in
// the graph. Graph stack frames are detached memberships.
type membership struct {
	head, tail NodeID
	count      int
}

func emptyMembership() membership {
	return membership{head: NoNode, tail: NoNode}
}

// Graph owns every node, the grab-able mask pool and the graph stack.
type Graph struct {
	nodes   []node
	members membership
	frames  *arraystack.Stack
	free    Mask // grab pool bits not currently borrowed
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		members: emptyMembership(),
		frames:  arraystack.New(),
		free:    grabPool,
	}
}

// NodeCount is the number of nodes currently in the graph. Nodes stashed
// on the graph stack are not counted.
func (g *Graph) NodeCount() int { return g.members.count }

// EdgeCount is NodeCount/2; every edge has one node per side.
func (g *Graph) EdgeCount() int { return g.members.count / 2 }

// Nodes iterates the nodes currently in the graph, most recent first.
// Nodes created during iteration are not visited.
func (g *Graph) Nodes() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for id := g.members.head; id != NoNode; {
			next := g.nodes[id].next
			if !yield(id) {
				return
			}
			id = next
		}
	}
}

// NodeList returns the current nodes as a slice, safe to hold while the
// graph is edited.
func (g *Graph) NodeList() []NodeID {
	out := make([]NodeID, 0, g.members.count)
	for id := range g.Nodes() {
		out = append(out, id)
	}
	return out
}

func (g *Graph) newNode() NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node{fs: id, vs: id, next: g.members.head})
	g.members.head = id
	if g.members.tail == NoNode {
		g.members.tail = id
	}
	g.members.count++
	return id
}

func (g *Graph) at(id NodeID) *node {
	if id < 0 || int(id) >= len(g.nodes) {
		panic(fmt.Sprintf("vu: invalid node %v", id))
	}
	return &g.nodes[id]
}

// XYZ returns the coordinates of n.
func (g *Graph) XYZ(n NodeID) v3.Vec { return g.at(n).xyz }

// SetXYZ sets the coordinates of n only. Other nodes of the same vertex
// keep theirs; see SetVertexXYZ.
func (g *Graph) SetXYZ(n NodeID, p v3.Vec) { g.at(n).xyz = p }

// SetVertexXYZ moves every node of n's vertex loop to p.
func (g *Graph) SetVertexXYZ(n NodeID, p v3.Vec) {
	for m := range g.VertexLoop(n) {
		g.nodes[m].xyz = p
	}
}

// UserData returns the opaque user slot of n.
func (g *Graph) UserData(n NodeID) int64 { return g.at(n).user }

// SetUserData sets the opaque user slot of n.
func (g *Graph) SetUserData(n NodeID, v int64) { g.at(n).user = v }
