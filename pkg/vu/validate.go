package vu

import "fmt"

// ValidationError describes one structural defect found by Validate.
type ValidationError struct {
	Node    NodeID
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("node %s: %s", e.Node, e.Message)
}

// Validate checks the structural contract on every node currently in the
// graph: both successors are current nodes, face and vertex successors
// are each a permutation of the nodes, fs(vs(fs(vs(n)))) returns to n,
// and every node has an edge mate distinct from itself whose own mate is
// n. A graph built only with this package's operators always validates
// clean.
func Validate(g *Graph) []ValidationError {
	var errs []ValidationError
	member := make(map[NodeID]bool, g.NodeCount())
	for n := range g.Nodes() {
		member[n] = true
	}
	fsHits := make(map[NodeID]int, len(member))
	vsHits := make(map[NodeID]int, len(member))
	for n := range g.Nodes() {
		nd := g.nodes[n]
		if !member[nd.fs] {
			errs = append(errs, ValidationError{Node: n, Message: fmt.Sprintf("face successor %s is not in the graph", nd.fs)})
			continue
		}
		if !member[nd.vs] {
			errs = append(errs, ValidationError{Node: n, Message: fmt.Sprintf("vertex successor %s is not in the graph", nd.vs)})
			continue
		}
		fsHits[nd.fs]++
		vsHits[nd.vs]++
		if back := g.nodes[g.nodes[g.nodes[nd.vs].fs].vs].fs; back != n {
			errs = append(errs, ValidationError{Node: n, Message: fmt.Sprintf("quad alternation broken: fs(vs(fs(vs))) reached %s", back)})
		}
		mate := g.EdgeMate(n)
		if !member[mate] {
			errs = append(errs, ValidationError{Node: n, Message: fmt.Sprintf("edge mate %s is not in the graph", mate)})
			continue
		}
		if mate == n {
			errs = append(errs, ValidationError{Node: n, Message: "node is its own edge mate"})
		}
		if back := g.EdgeMate(mate); back != n {
			errs = append(errs, ValidationError{Node: n, Message: fmt.Sprintf("edge mate of mate is %s", back)})
		}
	}
	for n := range g.Nodes() {
		if c := fsHits[n]; c != 1 {
			errs = append(errs, ValidationError{Node: n, Message: fmt.Sprintf("face successor of %d nodes, want 1", c)})
		}
		if c := vsHits[n]; c != 1 {
			errs = append(errs, ValidationError{Node: n, Message: fmt.Sprintf("vertex successor of %d nodes, want 1", c)})
		}
	}
	return errs
}
