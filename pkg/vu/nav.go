package vu

import "iter"

// FSucc returns the next node counterclockwise around n's face.
func (g *Graph) FSucc(n NodeID) NodeID { return g.at(n).fs }

// VSucc returns the next node counterclockwise around n's vertex.
func (g *Graph) VSucc(n NodeID) NodeID { return g.at(n).vs }

// FPred returns the node whose face successor is n.
func (g *Graph) FPred(n NodeID) NodeID {
	return g.VSucc(g.FSucc(g.VSucc(n)))
}

// VPred returns the node whose vertex successor is n.
func (g *Graph) VPred(n NodeID) NodeID {
	return g.FSucc(g.VSucc(g.FSucc(n)))
}

// EdgeMate returns the node on the other side of the edge leaving n. It
// sits at the far end of that edge, so EdgeMate(EdgeMate(n)) == n.
func (g *Graph) EdgeMate(n NodeID) NodeID {
	return g.VSucc(g.FSucc(n))
}

// FaceLoop walks n's face starting at n.
func (g *Graph) FaceLoop(n NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		m := n
		for {
			next := g.FSucc(m)
			if !yield(m) {
				return
			}
			m = next
			if m == n {
				return
			}
		}
	}
}

// VertexLoop walks n's vertex starting at n.
func (g *Graph) VertexLoop(n NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		m := n
		for {
			next := g.VSucc(m)
			if !yield(m) {
				return
			}
			m = next
			if m == n {
				return
			}
		}
	}
}

// FaceSize is the number of nodes around n's face.
func (g *Graph) FaceSize(n NodeID) int {
	k := 0
	for range g.FaceLoop(n) {
		k++
	}
	return k
}

// VertexDegree is the number of nodes around n's vertex.
func (g *Graph) VertexDegree(n NodeID) int {
	k := 0
	for range g.VertexLoop(n) {
		k++
	}
	return k
}
