package sdfx

import (
	"github.com/chazu/vumesh/pkg/kernel"
	"github.com/chazu/vumesh/pkg/vu"
	"github.com/pkg/errors"
)

// MarkParity classifies each face by the even-odd rule over the edges
// carrying boundary. Faces without positive area are always exterior.
// Faces of two or fewer nodes also get vu.MaskNullFace.
func (k *SdfxKernel) MarkParity(g *vu.Graph, boundary vu.Mask) (int, error) {
	if boundary == vu.NoMask {
		return 0, errors.New("mark parity: empty boundary mask")
	}
	segs := maskedSegments(g, boundary)
	return classify(g, func(f vu.NodeID) bool {
		p, ok := probe(g, f)
		return ok && oddCrossings(p, segs)
	}), nil
}

// Combine keeps the faces op accepts given their parity against the a and
// b edges, then resets vu.MaskBoundary to the edges separating kept faces
// from dropped ones.
func (k *SdfxKernel) Combine(g *vu.Graph, op kernel.BoolOp, a, b vu.Mask) (int, error) {
	if a == vu.NoMask || b == vu.NoMask || a == b {
		return 0, errors.Errorf("combine: operand masks %#x and %#x must be distinct and non-empty", uint32(a), uint32(b))
	}
	segsA := maskedSegments(g, a)
	segsB := maskedSegments(g, b)
	exterior := classify(g, func(f vu.NodeID) bool {
		p, ok := probe(g, f)
		return ok && op.Apply(oddCrossings(p, segsA), oddCrossings(p, segsB))
	})
	for n := range g.Nodes() {
		if g.HasMask(n, vu.MaskExterior) != g.HasMask(g.EdgeMate(n), vu.MaskExterior) {
			g.SetMask(n, vu.MaskBoundary)
		} else {
			g.ClearMask(n, vu.MaskBoundary)
		}
	}
	return len(faceSeeds(g)) - exterior, nil
}

// classify sets or clears vu.MaskExterior around every face according to
// in, and returns the number of exterior faces.
func classify(g *vu.Graph, in func(f vu.NodeID) bool) int {
	exterior := 0
	for _, f := range faceSeeds(g) {
		if g.FaceSize(f) <= 2 {
			g.SetMaskAroundFace(f, vu.MaskNullFace)
		} else {
			g.ClearMaskAroundFace(f, vu.MaskNullFace)
		}
		if g.FaceArea(f) > 0 && in(f) {
			g.ClearMaskAroundFace(f, vu.MaskExterior)
			continue
		}
		g.SetMaskAroundFace(f, vu.MaskExterior)
		exterior++
	}
	return exterior
}
