package vu

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MaxRangeSubdivisions bounds the edge count on the long side of a range
// scaffold.
const MaxRangeSubdivisions = 24

// AddRangeBase adds a closed counterclockwise rectangle around box,
// grown on every side by max(absFringe, relFringe*diagonal). The long side
// gets numOnLongEdge edges, clamped to 1..MaxRangeSubdivisions, and the
// short side a proportional count of at least one. It returns the forward
// node at the lower left corner, or NoNode if box has no area.
func (g *Graph) AddRangeBase(box sdf.Box2, relFringe, absFringe float64, numOnLongEdge int, left, right Mask) NodeID {
	dx := box.Max.X - box.Min.X
	dy := box.Max.Y - box.Min.Y
	if !(dx > 0) || !(dy > 0) {
		return NoNode
	}
	fringe := math.Max(absFringe, relFringe*math.Hypot(dx, dy))
	if fringe < 0 {
		fringe = 0
	}
	x0, y0 := box.Min.X-fringe, box.Min.Y-fringe
	x1, y1 := box.Max.X+fringe, box.Max.Y+fringe

	nLong := min(max(numOnLongEdge, 1), MaxRangeSubdivisions)
	long, short := x1-x0, y1-y0
	if short > long {
		long, short = short, long
	}
	nShort := max(1, int(math.Ceil(float64(nLong)*short/long)))
	nx, ny := nLong, nShort
	if y1-y0 > x1-x0 {
		nx, ny = nShort, nLong
	}

	corners := []v3.Vec{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
	counts := []int{nx, ny, nx, ny}
	points := make([]v3.Vec, 0, 2*(nx+ny))
	for side, c := range corners {
		next := corners[(side+1)%4]
		n := counts[side]
		for i := 0; i < n; i++ {
			points = append(points, lerp(c, next, float64(i)/float64(n)))
		}
	}
	return g.BuildLoop(points, 0, left, right)
}

func lerp(a, b v3.Vec, f float64) v3.Vec {
	return v3.Vec{
		X: a.X + f*(b.X-a.X),
		Y: a.Y + f*(b.Y-a.Y),
		Z: a.Z + f*(b.Z-a.Z),
	}
}
