package vu

import (
	"math/rand/v2"
	"testing"
)

func TestMarkedEdgeSetBasics(t *testing.T) {
	g := New()
	h := unitSquare(g, 0, 0)
	s, err := NewMarkedEdgeSet(g)
	if err != nil {
		t.Fatalf("NewMarkedEdgeSet: %v", err)
	}
	defer s.Close()

	s.Insert(h)
	s.Insert(g.EdgeMate(h))
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after inserting one edge twice", s.Len())
	}
	if !s.Contains(g.EdgeMate(h)) {
		t.Error("Contains(mate) = false, want true")
	}
	s.Remove(g.EdgeMate(h))
	if s.Contains(h) {
		t.Error("Contains(h) = true after Remove")
	}
	if _, ok := s.PickAny(); ok {
		t.Error("PickAny() found a removed edge")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after draining", s.Len())
	}
}

func TestMarkedEdgeSetCloseReturnsMask(t *testing.T) {
	g := New()
	h := unitSquare(g, 0, 0)
	s, err := NewMarkedEdgeSet(g)
	if err != nil {
		t.Fatalf("NewMarkedEdgeSet: %v", err)
	}
	s.Insert(h)
	s.Close()
	s.Close()
	if g.MasksAvailable() != 24 {
		t.Errorf("MasksAvailable() = %d, want 24", g.MasksAvailable())
	}
}

func TestMarkedEdgeSetConsistency(t *testing.T) {
	g := New()
	g.AddRangeBase(box(0, 0, 10, 10), 0, 0, 8, 0, 0)
	nodes := g.NodeList()

	s, err := NewMarkedEdgeSet(g)
	if err != nil {
		t.Fatalf("NewMarkedEdgeSet: %v", err)
	}
	defer s.Close()

	key := func(n NodeID) NodeID { return min(n, g.EdgeMate(n)) }
	model := map[NodeID]bool{}
	r := rand.New(rand.NewPCG(1, 2))

	for step := 0; step < 2000; step++ {
		n := nodes[r.IntN(len(nodes))]
		switch r.IntN(3) {
		case 0:
			s.Insert(n)
			model[key(n)] = true
		case 1:
			s.Remove(n)
			model[key(n)] = false
		case 2:
			got, ok := s.PickAny()
			if !ok {
				for k, v := range model {
					if v {
						t.Fatalf("step %d: PickAny empty but %v is a member", step, k)
					}
				}
				continue
			}
			if !model[key(got)] {
				t.Fatalf("step %d: PickAny returned non-member %v", step, got)
			}
			model[key(got)] = false
		}
		for _, m := range nodes {
			if got, want := s.Contains(m), model[key(m)]; got != want {
				t.Fatalf("step %d: Contains(%v) = %v, want %v", step, m, got, want)
			}
		}
	}
}

func TestMarkedEdgeSetExhausted(t *testing.T) {
	g := New()
	for g.GrabMask() != NoMask {
	}
	if _, err := NewMarkedEdgeSet(g); err != ErrMaskPoolExhausted {
		t.Errorf("err = %v, want ErrMaskPoolExhausted", err)
	}
}
