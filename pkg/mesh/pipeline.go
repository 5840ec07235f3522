package mesh

import (
	"log/slog"

	"github.com/chazu/vumesh/pkg/kernel"
	"github.com/chazu/vumesh/pkg/vu"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

var (
	// ErrStageOrder is returned when a stage method is called before the
	// stages it depends on have run.
	ErrStageOrder = errors.New("mesh: stage called out of order")
	// ErrInvalidGraph is returned when validation finds a broken graph
	// after a stage.
	ErrInvalidGraph = errors.New("mesh: graph failed validation")
	// ErrEmptyRange is returned by LoadRange for a box without area.
	ErrEmptyRange = errors.New("mesh: range has no area")
)

// Pipeline runs a kernel over one graph, stage by stage.
type Pipeline struct {
	k     kernel.Kernel
	g     *vu.Graph
	stage Stage
	opts  options
}

// New returns an empty pipeline that will run k.
func New(k kernel.Kernel, opts ...Option) *Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{k: k, g: vu.New(), opts: o}
}

// Graph returns the pipeline's graph. It stays valid after a failed stage.
func (p *Pipeline) Graph() *vu.Graph { return p.g }

// Stage returns the last stage completed.
func (p *Pipeline) Stage() Stage { return p.stage }

func (p *Pipeline) log() *slog.Logger {
	if p.opts.logger != nil {
		return p.opts.logger
	}
	return Logger()
}

func (p *Pipeline) require(op string, allowed ...Stage) error {
	if p.stage.in(allowed...) {
		return nil
	}
	return errors.Wrapf(ErrStageOrder, "%s from stage %s", op, p.stage)
}

// advance validates the graph if asked to and moves to next.
func (p *Pipeline) advance(next Stage) error {
	if p.opts.validate {
		if errs := vu.Validate(p.g); len(errs) > 0 {
			for _, e := range errs {
				p.log().Warn("mesh: validation", "stage", next, "node", e.Node, "problem", e.Message)
			}
			return errors.Wrapf(ErrInvalidGraph, "after %s: %d violations, first: %v", next, len(errs), errs[0])
		}
	}
	p.log().Debug("mesh: stage", "from", p.stage, "to", next, "nodes", p.g.NodeCount())
	p.stage = next
	return nil
}

// call runs one kernel step, logging its edit count or failure.
func (p *Pipeline) call(step string, fn func() (int, error)) error {
	n, err := fn()
	if err != nil {
		p.log().Warn("mesh: kernel failed", "step", step, "err", err)
		return errors.Wrapf(err, "mesh: %s", step)
	}
	p.log().Debug("mesh: kernel", "step", step, "edits", n)
	return nil
}

func (p *Pipeline) tolerance() float64 {
	return p.g.ToleranceFromGraph(p.opts.absTol, p.opts.relTol)
}

// load adds loops with MaskBoundary|extra on both sides and chains with
// MaskRule. Runs within one slice are separated by vu.DisconnectPoint.
func (p *Pipeline) load(loops, chains [][]v3.Vec, extra vu.Mask) {
	m := vu.MaskBoundary | extra
	for _, l := range loops {
		p.g.BuildLoops(l, p.opts.absTol, m, m)
	}
	for _, c := range chains {
		p.g.BuildChains(c, p.opts.absTol, vu.MaskRule, vu.MaskRule)
	}
}

// LoadBoundaries adds closed boundary loops and open rule chains. It may
// be called more than once before Regularize.
func (p *Pipeline) LoadBoundaries(loops, chains [][]v3.Vec) error {
	if err := p.require("load boundaries", StageEmpty, StageBoundariesLoaded); err != nil {
		return err
	}
	p.load(loops, chains, vu.NoMask)
	return p.advance(StageBoundariesLoaded)
}

// LoadRange adds a rectangular boundary around box with numOnLongEdge
// edges on its long side, tagged as grid.
func (p *Pipeline) LoadRange(box sdf.Box2, numOnLongEdge int) error {
	if err := p.require("load range", StageEmpty, StageBoundariesLoaded); err != nil {
		return err
	}
	m := vu.MaskBoundary | vu.MaskGrid
	if p.g.AddRangeBase(box, p.opts.rangeRel, p.opts.rangeAbs, numOnLongEdge, m, m) == vu.NoNode {
		return errors.Wrapf(ErrEmptyRange, "load range %v", box)
	}
	return p.advance(StageBoundariesLoaded)
}

// merge makes the current members a planar subdivision with every shell
// bridged into its container.
func (p *Pipeline) merge() error {
	tol := p.tolerance()
	if err := p.call("merge", func() (int, error) { return p.k.Merge(p.g, tol) }); err != nil {
		return err
	}
	return p.call("regularize", func() (int, error) { return p.k.Regularize(p.g) })
}

func (p *Pipeline) parity() error {
	return p.call("mark parity", func() (int, error) { return p.k.MarkParity(p.g, vu.MaskBoundary) })
}

// Regularize merges the loaded boundaries, bridges holes and marks
// exterior faces by parity.
func (p *Pipeline) Regularize() error {
	if err := p.require("regularize", StageBoundariesLoaded); err != nil {
		return err
	}
	if err := p.merge(); err != nil {
		return err
	}
	if err := p.parity(); err != nil {
		return err
	}
	return p.advance(StageRegularized)
}

// Compose combines the current region with the region bounded by loops
// using op. The operand is regularized on its own above a stack frame
// before the two are merged.
func (p *Pipeline) Compose(op kernel.BoolOp, loops, chains [][]v3.Vec) error {
	if err := p.require("compose", StageRegularized, StageComposed); err != nil {
		return err
	}
	a := p.g.GrabMask()
	if a == vu.NoMask {
		return errors.Wrap(vu.ErrMaskPoolExhausted, "mesh: compose")
	}
	defer p.g.DropMask(a)
	b := p.g.GrabMask()
	if b == vu.NoMask {
		return errors.Wrap(vu.ErrMaskPoolExhausted, "mesh: compose")
	}
	defer p.g.DropMask(b)

	for n := range p.g.Nodes() {
		if p.g.HasMask(n, vu.MaskBoundary) {
			p.g.SetMask(n, a)
		}
	}

	p.g.Push()
	p.load(loops, chains, b)
	if err := p.merge(); err != nil {
		// the operand never touches the stashed graph, so dropping it
		// leaves the last regularized state intact
		p.g.PopDiscard()
		return errors.Wrap(err, "compose operand")
	}
	p.g.Pop()

	if err := p.merge(); err != nil {
		return err
	}
	if err := p.call("combine "+op.String(), func() (int, error) { return p.k.Combine(p.g, op, a, b) }); err != nil {
		return err
	}
	return p.advance(StageComposed)
}

// Triangulate re-runs regularization and parity, splits long edges if
// configured, then triangulates interior faces and flips toward Delaunay.
func (p *Pipeline) Triangulate() error {
	if err := p.require("triangulate", StageRegularized, StageComposed); err != nil {
		return err
	}
	if err := p.merge(); err != nil {
		return err
	}
	if err := p.parity(); err != nil {
		return err
	}
	if l := p.opts.maxEdgeLength; l > 0 {
		if err := p.call("split long edges", func() (int, error) { return p.k.SplitLongEdges(p.g, l) }); err != nil {
			return err
		}
	}
	if err := p.call("triangulate", func() (int, error) { return p.k.Triangulate(p.g) }); err != nil {
		return err
	}
	if err := p.call("flip", func() (int, error) { return p.k.Flip(p.g) }); err != nil {
		return err
	}
	return p.advance(StageTriangulated)
}

// Smooth relaxes interior vertices. It does not change topology.
func (p *Pipeline) Smooth() error {
	if err := p.require("smooth", StageTriangulated); err != nil {
		return err
	}
	it := p.opts.smoothIterations
	if err := p.call("smooth", func() (int, error) { return p.k.Smooth(p.g, it) }); err != nil {
		return err
	}
	return p.advance(StageSmoothed)
}

// Faces returns the interior faces: positive area and no node marked
// exterior.
func (p *Pipeline) Faces() []vu.Face {
	var out []vu.Face
	for _, f := range p.g.CollectFaces(vu.MaskExterior) {
		if f.MaskOr == 0 && f.Area > 0 {
			out = append(out, f)
		}
	}
	return out
}

// Mesh extracts a triangle mesh of the interior faces.
func (p *Pipeline) Mesh(name string) *kernel.Mesh {
	return kernel.MeshFromGraph(p.g, name)
}
