package vu

// MarkedEdgeSet tracks a set of edges with a borrowed mask bit for O(1)
// membership and a backing slice for picking an arbitrary member.
// Removal only clears the mask; stale slice entries are discarded lazily
// by PickAny.
type MarkedEdgeSet struct {
	g     *Graph
	mask  Mask
	edges []NodeID
}

// NewMarkedEdgeSet grabs a mask from g. Close must be called to return it.
func NewMarkedEdgeSet(g *Graph) (*MarkedEdgeSet, error) {
	m := g.GrabMask()
	if m == NoMask {
		return nil, ErrMaskPoolExhausted
	}
	return &MarkedEdgeSet{g: g, mask: m}, nil
}

// Insert adds the edge at n. Inserting an edge already in the set is a
// no-op.
func (s *MarkedEdgeSet) Insert(n NodeID) {
	if s.g.HasMask(n, s.mask) {
		return
	}
	s.g.SetMaskAroundEdge(n, s.mask)
	s.edges = append(s.edges, n)
}

// Contains reports whether the edge at n is in the set, from either side.
func (s *MarkedEdgeSet) Contains(n NodeID) bool {
	return s.g.HasMask(n, s.mask)
}

// Remove takes the edge at n out of the set.
func (s *MarkedEdgeSet) Remove(n NodeID) {
	s.g.ClearMaskAroundEdge(n, s.mask)
}

// PickAny removes and returns some edge of the set. The returned node is
// the side that was inserted. ok is false once the set is empty.
func (s *MarkedEdgeSet) PickAny() (n NodeID, ok bool) {
	for len(s.edges) > 0 {
		n = s.edges[len(s.edges)-1]
		s.edges = s.edges[:len(s.edges)-1]
		if s.g.HasMask(n, s.mask) {
			s.Remove(n)
			return n, true
		}
	}
	return NoNode, false
}

// Len is the length of the backing slice; it may count removed edges that
// PickAny has not discarded yet.
func (s *MarkedEdgeSet) Len() int { return len(s.edges) }

// Close clears the set's mask and returns it to the graph.
func (s *MarkedEdgeSet) Close() {
	if s.mask == NoMask {
		return
	}
	for _, n := range s.edges {
		s.g.ClearMaskAroundEdge(n, s.mask)
	}
	s.g.DropMask(s.mask)
	s.mask = NoMask
	s.edges = nil
}
