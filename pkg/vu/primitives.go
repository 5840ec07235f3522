package vu

// MakePair creates an isolated edge: one face of two nodes and two
// single-node vertex loops.
func (g *Graph) MakePair() (NodeID, NodeID) {
	p := g.newNode()
	q := g.newNode()
	g.nodes[p].fs, g.nodes[q].fs = q, p
	return p, q
}

// MakeSling creates an edge whose two ends are the same vertex. Each side
// of the loop is a one-node face.
func (g *Graph) MakeSling() (NodeID, NodeID) {
	p := g.newNode()
	q := g.newNode()
	g.nodes[p].vs, g.nodes[q].vs = q, p
	return p, q
}

// VertexTwist exchanges the vertex successors of p and q and, with them,
// their face predecessors. Twisting nodes of two different vertices merges
// the vertices; twisting two nodes of one vertex splits it. The operation
// is its own inverse.
func (g *Graph) VertexTwist(p, q NodeID) {
	if p == q {
		return
	}
	a := g.FPred(p)
	b := g.FPred(q)
	np, nq := g.at(p), g.at(q)
	np.vs, nq.vs = nq.vs, np.vs
	na, nb := g.at(a), g.at(b)
	na.fs, nb.fs = nb.fs, na.fs
}

// SplitEdge inserts a vertex into the edge leaving p. The first node
// returned follows p in p's face and carries p's mask; the second follows
// p's mate in the mate's face and carries the mate's mask. Both start at
// p's coordinates. Splitting NoNode makes a fresh pair.
func (g *Graph) SplitEdge(p NodeID) (NodeID, NodeID) {
	if p == NoNode {
		return g.MakePair()
	}
	f := g.FSucc(p)
	m := g.VSucc(f)
	n := g.FSucc(m)
	l := g.newNode()
	r := g.newNode()
	g.nodes[p].fs = l
	g.nodes[l].fs = f
	g.nodes[m].fs = r
	g.nodes[r].fs = n
	g.nodes[l].vs = r
	g.nodes[r].vs = l
	g.nodes[l].mask = g.nodes[p].mask
	g.nodes[r].mask = g.nodes[m].mask
	g.nodes[l].xyz = g.nodes[p].xyz
	g.nodes[r].xyz = g.nodes[p].xyz
	return l, r
}

// Join adds an edge from a's vertex to b's vertex. The new node at a's
// vertex is inserted just after a and the one at b's vertex just after b,
// so when a and b lie on one face it is split in two, and otherwise the
// two faces are bridged into one. Either argument may be NoNode, leaving
// that end dangling.
func (g *Graph) Join(a, b NodeID) (NodeID, NodeID) {
	x, y := g.MakePair()
	if a != NoNode {
		g.nodes[x].xyz = g.XYZ(a)
		g.VertexTwist(a, x)
	}
	if b != NoNode {
		g.nodes[y].xyz = g.XYZ(b)
		g.VertexTwist(b, y)
	}
	return x, y
}

// DetachEdge unhooks both ends of the edge at n from their vertices,
// leaving it an isolated pair. It undoes a Join.
func (g *Graph) DetachEdge(n NodeID) {
	m := g.EdgeMate(n)
	g.VertexTwist(g.VPred(m), m)
	g.VertexTwist(g.VPred(n), n)
}
