package vu

import (
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

func box(x0, y0, x1, y1 float64) sdf.Box2 {
	return sdf.Box2{Min: v2.Vec{X: x0, Y: y0}, Max: v2.Vec{X: x1, Y: y1}}
}

func TestAddRangeBase(t *testing.T) {
	tests := []struct {
		name      string
		box       sdf.Box2
		rel, abs  float64
		n         int
		wantEdges int
		wantRange sdf.Box2
	}{
		{"wide", box(0, 0, 10, 5), 0, 0, 4, 12, box(0, 0, 10, 5)},
		{"tall", box(0, 0, 5, 10), 0, 0, 4, 12, box(0, 0, 5, 10)},
		{"square", box(-1, -1, 1, 1), 0, 0, 3, 12, box(-1, -1, 1, 1)},
		{"clamped high", box(0, 0, 10, 5), 0, 0, 100, 72, box(0, 0, 10, 5)},
		{"clamped low", box(0, 0, 10, 5), 0, 0, 0, 4, box(0, 0, 10, 5)},
		{"thin", box(0, 0, 100, 1), 0, 0, 4, 10, box(0, 0, 100, 1)},
		{"absolute fringe", box(0, 0, 10, 5), 0, 1, 4, 14, box(-1, -1, 11, 6)},
		{"relative fringe wins", box(0, 0, 3, 4), 0.5, 0.1, 4, 16, box(-2.5, -2.5, 5.5, 6.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			h := g.AddRangeBase(tt.box, tt.rel, tt.abs, tt.n, MaskBoundary, MaskExterior)
			if h == NoNode {
				t.Fatal("AddRangeBase returned NoNode")
			}
			checkValid(t, g)
			if got := g.EdgeCount(); got != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", got, tt.wantEdges)
			}
			if got := g.FaceSize(h); got != tt.wantEdges {
				t.Errorf("FaceSize() = %d, want %d", got, tt.wantEdges)
			}
			diff(t, tt.wantRange, g.FaceRange(h))
			if g.FaceArea(h) <= 0 {
				t.Errorf("FaceArea() = %v, want positive", g.FaceArea(h))
			}
			if !g.HasMask(h, MaskBoundary) || !g.HasMask(g.EdgeMate(h), MaskExterior) {
				t.Error("side masks not applied")
			}
		})
	}
}

func TestAddRangeBaseDegenerate(t *testing.T) {
	tests := []struct {
		name string
		box  sdf.Box2
	}{
		{"zero height", box(0, 0, 10, 0)},
		{"zero width", box(2, 0, 2, 10)},
		{"inverted", box(5, 5, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			if h := g.AddRangeBase(tt.box, 0.1, 1, 4, 0, 0); h != NoNode {
				t.Errorf("AddRangeBase() = %v, want NoNode", h)
			}
			if g.NodeCount() != 0 {
				t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
			}
		})
	}
}
