// Package sdfx implements the kernel.Kernel interface on top of the
// github.com/deadsy/sdfx geometry types. Face containment uses sdfx
// polygon distance fields; everything else is direct planar predicates
// over the vu graph.
package sdfx

import (
	"math"

	"github.com/chazu/vumesh/pkg/kernel"
	"github.com/chazu/vumesh/pkg/vu"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

const (
	// defaultMaxMergeEvents bounds the splits and fusions one Merge may do.
	defaultMaxMergeEvents = 1 << 16
	// defaultMaxFlipPasses bounds the sweeps one Flip may do.
	defaultMaxFlipPasses = 64
)

// constrained marks nodes whose vertex Smooth must not move and whose edge
// Flip must not swap.
const constrained = vu.MaskBoundary | vu.MaskExterior | vu.MaskRule

// SdfxKernel implements kernel.Kernel.
type SdfxKernel struct {
	MaxMergeEvents int
	MaxFlipPasses  int
}

// New returns a new SdfxKernel with default limits.
func New() *SdfxKernel {
	return &SdfxKernel{
		MaxMergeEvents: defaultMaxMergeEvents,
		MaxFlipPasses:  defaultMaxFlipPasses,
	}
}

func xy(p v3.Vec) v2.Vec { return v2.Vec{X: p.X, Y: p.Y} }

func at(g *vu.Graph, n vu.NodeID) v2.Vec { return xy(g.XYZ(n)) }

// cross is the z component of (a-o) x (b-o); positive when o, a, b turn
// counterclockwise.
func cross(o, a, b v2.Vec) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func dist(a, b v2.Vec) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

// direction is the angle of the edge leaving n.
func direction(g *vu.Graph, n vu.NodeID) float64 {
	a, b := at(g, n), at(g, g.FSucc(n))
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// ccw is the counterclockwise turn from angle a to angle b, in [0, 2pi).
func ccw(a, b float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d
}

// sector returns where dir falls in the wedge between n's edge and the
// next edge counterclockwise around n's vertex, and the wedge's width.
func sector(g *vu.Graph, n vu.NodeID, dir float64) (offset, width float64) {
	a := direction(g, n)
	width = ccw(a, direction(g, g.VSucc(n)))
	if width == 0 {
		width = 2 * math.Pi
	}
	return ccw(a, dir), width
}

// edges returns one node per edge of the graph.
func edges(g *vu.Graph) []vu.NodeID {
	var out []vu.NodeID
	for n := range g.Nodes() {
		if n < g.EdgeMate(n) {
			out = append(out, n)
		}
	}
	return out
}

// segment is a planar edge.
type segment struct{ a, b v2.Vec }

// maskedSegments returns each edge carrying m on either side once.
func maskedSegments(g *vu.Graph, m vu.Mask) []segment {
	var out []segment
	for n := range g.Nodes() {
		if !g.HasMask(n, m) {
			continue
		}
		mate := g.EdgeMate(n)
		if g.HasMask(mate, m) && mate < n {
			continue
		}
		out = append(out, segment{at(g, n), at(g, g.FSucc(n))})
	}
	return out
}

// oddCrossings reports whether a ray from p toward +x crosses segs an odd
// number of times.
func oddCrossings(p v2.Vec, segs []segment) bool {
	odd := false
	for _, s := range segs {
		if (s.a.Y > p.Y) == (s.b.Y > p.Y) {
			continue
		}
		x := s.a.X + (p.Y-s.a.Y)*(s.b.X-s.a.X)/(s.b.Y-s.a.Y)
		if p.X < x {
			odd = !odd
		}
	}
	return odd
}

// faceSeeds returns one node per face.
func faceSeeds(g *vu.Graph) []vu.NodeID {
	var seeds []vu.NodeID
	for _, f := range g.CollectFaces(0) {
		seeds = append(seeds, f.Seed)
	}
	return seeds
}

// facePolygon builds an sdfx polygon from n's face. Repeated consecutive
// points are dropped since sdfx cannot normalize a zero-length side.
func facePolygon(g *vu.Graph, n vu.NodeID) (sdf.SDF2, bool) {
	var pts []v2.Vec
	for m := range g.FaceLoop(n) {
		p := at(g, m)
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	for len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return nil, false
	}
	s, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, false
	}
	return s, true
}

// inside reports whether p is strictly inside poly.
func inside(poly sdf.SDF2, p v2.Vec) bool {
	return poly.Evaluate(p) < 0
}

// probe finds a point strictly inside n's face: the centroid of the first
// convex corner triangle that falls inside the face.
func probe(g *vu.Graph, n vu.NodeID) (v2.Vec, bool) {
	poly, ok := facePolygon(g, n)
	if !ok {
		return v2.Vec{}, false
	}
	for m := range g.FaceLoop(n) {
		p, c, q := at(g, g.FPred(m)), at(g, m), at(g, g.FSucc(m))
		if cross(p, c, q) <= 0 {
			continue
		}
		cand := v2.Vec{X: (p.X + c.X + q.X) / 3, Y: (p.Y + c.Y + q.Y) / 3}
		if inside(poly, cand) {
			return cand, true
		}
	}
	return v2.Vec{}, false
}

// splitAt splits the edge at e and places the new vertex at p.
func splitAt(g *vu.Graph, e vu.NodeID, p v3.Vec) vu.NodeID {
	l, _ := g.SplitEdge(e)
	g.SetVertexXYZ(l, p)
	return l
}
