package vu

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Face is one face returned by CollectFaces.
type Face struct {
	Seed    NodeID
	Points  []v3.Vec
	MaskAnd Mask // bits of the query mask set on every node
	MaskOr  Mask // bits of the query mask set on some node
	Area    float64
}

// CollectFaces visits every face of the graph once and reports its
// coordinates together with the AND and OR of m over its nodes. It
// panics if no mask is free for the visit marker.
func (g *Graph) CollectFaces(m Mask) []Face {
	var faces []Face
	err := g.WithMask(func(visited Mask) error {
		for seed := range g.Nodes() {
			if g.HasMask(seed, visited) {
				continue
			}
			f := Face{Seed: seed, MaskAnd: m}
			for n := range g.FaceLoop(seed) {
				nd := &g.nodes[n]
				nd.mask |= visited
				f.Points = append(f.Points, nd.xyz)
				f.MaskAnd &= nd.mask
				f.MaskOr |= nd.mask & m
			}
			f.Area = g.FaceArea(seed)
			faces = append(faces, f)
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
	return faces
}

// FaceArea is the signed planar area of n's face: positive when the face
// runs counterclockwise. Faces of one or two nodes have zero area.
func (g *Graph) FaceArea(n NodeID) float64 {
	if g.FSucc(g.FSucc(n)) == n {
		return 0
	}
	var a float64
	for p := range g.FaceLoop(n) {
		P, Q := g.nodes[p].xyz, g.nodes[g.nodes[p].fs].xyz
		a -= (Q.X - P.X) * (P.Y + Q.Y)
	}
	return 0.5 * a
}

// FacePoints returns the coordinates around n's face.
func (g *Graph) FacePoints(n NodeID) []v3.Vec {
	var pts []v3.Vec
	for p := range g.FaceLoop(n) {
		pts = append(pts, g.nodes[p].xyz)
	}
	return pts
}

// FaceRange is the planar bounding box of n's face.
func (g *Graph) FaceRange(n NodeID) sdf.Box2 {
	p := g.XYZ(n)
	box := sdf.Box2{Min: v2.Vec{X: p.X, Y: p.Y}, Max: v2.Vec{X: p.X, Y: p.Y}}
	for k := range g.FaceLoop(n) {
		box = extend(box, g.nodes[k].xyz)
	}
	return box
}

// GraphRange is the planar bounding box of every node in the graph. ok is
// false for an empty graph.
func (g *Graph) GraphRange() (box sdf.Box2, ok bool) {
	for n := range g.Nodes() {
		p := g.nodes[n].xyz
		if !ok {
			box = sdf.Box2{Min: v2.Vec{X: p.X, Y: p.Y}, Max: v2.Vec{X: p.X, Y: p.Y}}
			ok = true
			continue
		}
		box = extend(box, p)
	}
	return box, ok
}

func extend(b sdf.Box2, p v3.Vec) sdf.Box2 {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	return b
}

// MaxAbsXY is the largest |x| or |y| over the graph's nodes.
func (g *Graph) MaxAbsXY() float64 {
	var a float64
	for n := range g.Nodes() {
		p := g.nodes[n].xyz
		a = math.Max(a, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	return a
}

// ToleranceFromGraph returns max(abs, rel*MaxAbsXY()).
func (g *Graph) ToleranceFromGraph(abs, rel float64) float64 {
	return math.Max(abs, rel*g.MaxAbsXY())
}

// PointAtFraction interpolates along the edge leaving n; f=0 is n and f=1
// is its face successor.
func (g *Graph) PointAtFraction(n NodeID, f float64) v3.Vec {
	return lerp(g.XYZ(n), g.XYZ(g.FSucc(n)), f)
}
