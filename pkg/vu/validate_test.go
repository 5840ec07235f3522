package vu

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestValidateClean(t *testing.T) {
	g := New()
	h := unitSquare(g, MaskBoundary, MaskBoundary)
	g.Join(h, g.FSucc(g.FSucc(h)))
	g.SplitEdge(h)
	g.MakeSling()
	if errs := Validate(g); len(errs) != 0 {
		t.Fatalf("Validate() = %v, want none", errs)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(g *Graph, p, q NodeID)
		want    string
	}{
		{
			name:    "self mate",
			corrupt: func(g *Graph, p, q NodeID) { g.nodes[p].fs = p },
			want:    "own edge mate",
		},
		{
			name: "broken alternation",
			corrupt: func(g *Graph, p, q NodeID) {
				g.nodes[q].fs = q
			},
			want: "quad alternation",
		},
		{
			name:    "face successor shared",
			corrupt: func(g *Graph, p, q NodeID) { g.nodes[q].fs = q },
			want:    "face successor of 2 nodes",
		},
		{
			name:    "vertex successor shared",
			corrupt: func(g *Graph, p, q NodeID) { g.nodes[p].vs = q },
			want:    "vertex successor of 2 nodes",
		},
		{
			name: "stashed successor",
			corrupt: func(g *Graph, p, q NodeID) {
				g.Push()
				a, _ := g.MakePair()
				g.nodes[a].vs = p
			},
			want: "not in the graph",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			p, q := g.MakePair()
			tt.corrupt(g, p, q)
			errs := Validate(g)
			if len(errs) == 0 {
				t.Fatal("Validate() found nothing")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e.Error(), tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want a message containing %q", errs, tt.want)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := New()
	h := unitSquare(g, MaskBoundary, MaskRule)
	g.SplitEdge(h)
	g.SetUserData(h, 77)
	m := g.GrabMask()
	g.SetMask(h, m)

	s := g.Export()
	g2, err := Import(s)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	checkValid(t, g2)
	diff(t, s, g2.Export())
	if g2.NodeCount() != g.NodeCount() {
		t.Errorf("NodeCount() = %d, want %d", g2.NodeCount(), g.NodeCount())
	}
	for _, n := range s.Nodes {
		if n.Mask&grabPool != 0 {
			t.Errorf("borrowed mask bits exported: %#x", uint32(n.Mask))
		}
	}
}

func TestImportRejectsBadSnapshot(t *testing.T) {
	tests := []struct {
		name string
		s    Snapshot
	}{
		{"out of range", Snapshot{Nodes: []SnapshotNode{{FS: 1, VS: 0}}}},
		{"negative", Snapshot{Nodes: []SnapshotNode{{FS: -1, VS: 0}}}},
		{"self mate", Snapshot{Nodes: []SnapshotNode{{FS: 0, VS: 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(tt.s)
			if errors.Cause(err) != ErrBadSnapshot {
				t.Errorf("err = %v, want ErrBadSnapshot", err)
			}
		})
	}
}
