package vu

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// SnapshotNode is one node of a Snapshot. FS and VS index Snapshot.Nodes.
type SnapshotNode struct {
	FS, VS  int32
	Mask    Mask
	User    int64
	X, Y, Z float64
}

// Snapshot is a dense, relocatable copy of the nodes currently in a graph.
type Snapshot struct {
	Nodes []SnapshotNode
}

// Export copies the current nodes into a Snapshot, renumbering them
// densely. Stashed frames are not included.
func (g *Graph) Export() Snapshot {
	index := make(map[NodeID]int32, g.NodeCount())
	order := g.NodeList()
	// oldest first, so Import reproduces creation order
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	for i, n := range order {
		index[n] = int32(i)
	}
	s := Snapshot{Nodes: make([]SnapshotNode, len(order))}
	for i, n := range order {
		nd := g.nodes[n]
		s.Nodes[i] = SnapshotNode{
			FS:   index[nd.fs],
			VS:   index[nd.vs],
			Mask: nd.mask &^ grabPool,
			User: nd.user,
			X:    nd.xyz.X,
			Y:    nd.xyz.Y,
			Z:    nd.xyz.Z,
		}
	}
	return s
}

// Import builds a new graph from s. Node i of the snapshot becomes
// NodeID(i) of the result.
func Import(s Snapshot) (*Graph, error) {
	g := New()
	n := int32(len(s.Nodes))
	for i, sn := range s.Nodes {
		if sn.FS < 0 || sn.FS >= n || sn.VS < 0 || sn.VS >= n {
			return nil, errors.Wrapf(ErrBadSnapshot, "node %d: successor out of range", i)
		}
	}
	for range s.Nodes {
		g.newNode()
	}
	for i, sn := range s.Nodes {
		nd := &g.nodes[i]
		nd.fs, nd.vs = NodeID(sn.FS), NodeID(sn.VS)
		nd.mask = sn.Mask &^ grabPool
		nd.user = sn.User
		nd.xyz = v3.Vec{X: sn.X, Y: sn.Y, Z: sn.Z}
	}
	if errs := Validate(g); len(errs) > 0 {
		return nil, errors.Wrap(ErrBadSnapshot, errs[0].Error())
	}
	return g, nil
}
