package vu

// Push stashes every node currently in the graph on the graph stack. The
// graph then behaves as empty until Pop.
func (g *Graph) Push() {
	g.frames.Push(g.members)
	g.members = emptyMembership()
}

// Pop splices the most recently pushed node set back into the graph. No
// topology is touched. Popping an empty stack panics with ErrEmptyStack.
func (g *Graph) Pop() {
	v, ok := g.frames.Pop()
	if !ok {
		panic(ErrEmptyStack)
	}
	g.splice(v.(membership))
}

// PopDiscard drops every node added since the matching Push from the
// graph and restores the stashed node set in its place. The dropped nodes
// stay in the arena but are no longer members. Popping an empty stack
// panics with ErrEmptyStack.
func (g *Graph) PopDiscard() {
	v, ok := g.frames.Pop()
	if !ok {
		panic(ErrEmptyStack)
	}
	g.members = v.(membership)
}

// PopAll pops every frame on the stack.
func (g *Graph) PopAll() {
	for !g.frames.Empty() {
		g.Pop()
	}
}

// StackDepth is the number of stashed frames.
func (g *Graph) StackDepth() int { return g.frames.Size() }

func (g *Graph) splice(f membership) {
	if f.count == 0 {
		return
	}
	if g.members.count == 0 {
		g.members = f
		return
	}
	g.nodes[g.members.tail].next = f.head
	g.members.tail = f.tail
	g.members.count += f.count
}
