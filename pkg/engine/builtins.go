package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/vumesh/pkg/kernel"
	"github.com/chazu/vumesh/pkg/mesh"
	"github.com/chazu/vumesh/pkg/vu"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps one coordinate. The disconnect marker is a point too.
type sexpPoint struct {
	p v3.Vec
}

func (s *sexpPoint) SexpString(ps *zygo.PrintState) string {
	if vu.IsDisconnect(s.p) {
		return "(disconnect)"
	}
	return fmt.Sprintf("(pt %g %g %g)", s.p.X, s.p.Y, s.p.Z)
}
func (s *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpPath is a closed loop or open chain of points, not yet loaded.
type sexpPath struct {
	points []v3.Vec
	closed bool
}

func (s *sexpPath) SexpString(ps *zygo.PrintState) string {
	kind := "chain"
	if s.closed {
		kind = "loop"
	}
	return fmt.Sprintf("(%s with %d points)", kind, len(s.points))
}
func (s *sexpPath) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW returns the keyword name if s is a preprocessed keyword.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// trailing keyword with no value maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, errors.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, errors.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, errors.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts a preprocessed keyword (:union) or a plain
// string ("union").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", errors.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// sexpListToSlice converts a list or array to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, errors.Errorf("expected list or array, got %T", s)
}

// toPoints flattens points, and lists or arrays of points, into
// coordinates.
func toPoints(args []zygo.Sexp) ([]v3.Vec, error) {
	var pts []v3.Vec
	for _, a := range args {
		if p, ok := a.(*sexpPoint); ok {
			pts = append(pts, p.p)
			continue
		}
		items, err := sexpListToSlice(a)
		if err != nil {
			return nil, errors.Errorf("expected point, got %s", a.SexpString(nil))
		}
		inner, err := toPoints(items)
		if err != nil {
			return nil, err
		}
		pts = append(pts, inner...)
	}
	return pts, nil
}

// toPaths sorts path arguments into loops and chains.
func toPaths(args []zygo.Sexp) (loops, chains [][]v3.Vec, err error) {
	for i, a := range args {
		p, ok := a.(*sexpPath)
		if !ok {
			return nil, nil, errors.Errorf("argument %d: expected loop or chain, got %s", i+1, a.SexpString(nil))
		}
		if p.closed {
			loops = append(loops, p.points)
		} else {
			chains = append(chains, p.points)
		}
	}
	return loops, chains, nil
}

// toBox reads x0 y0 x1 y1.
func toBox(args []zygo.Sexp) (sdf.Box2, error) {
	if len(args) != 4 {
		return sdf.Box2{}, errors.Errorf("expected x0 y0 x1 y1, got %d arguments", len(args))
	}
	var c [4]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return sdf.Box2{}, err
		}
		c[i] = f
	}
	return sdf.Box2{Min: v2.Vec{X: c[0], Y: c[1]}, Max: v2.Vec{X: c[2], Y: c[3]}}, nil
}

// ---------------------------------------------------------------------------
// Recipe state
// ---------------------------------------------------------------------------

// recipe is the state one evaluation builds. The pipeline is created on
// first use so that mesh-options can run before it.
type recipe struct {
	k    kernel.Kernel
	base []mesh.Option
	opts []mesh.Option
	p    *mesh.Pipeline
}

func (r *recipe) pipeline() *mesh.Pipeline {
	if r.p == nil {
		r.p = mesh.New(r.k, append(append([]mesh.Option(nil), r.base...), r.opts...)...)
	}
	return r.p
}

// stageResult reports the stage reached, or the error of a failed stage.
func (r *recipe) stageResult(name string, err error) (zygo.Sexp, error) {
	if err != nil {
		return zygo.SexpNull, errors.Wrap(err, name)
	}
	return &zygo.SexpStr{S: r.p.Stage().String()}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the recipe builtins into env. They build paths
// and drive r's pipeline.
//
// Source must go through preprocessSource first so that :keyword tokens
// and kebab-case names are recognized.
func registerBuiltins(env *zygo.Zlisp, r *recipe) {

	// (pt 1 2) or (pt 1 2 0.5)
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 && len(args) != 3 {
			return zygo.SexpNull, errors.Errorf("pt requires 2 or 3 coordinates, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, errors.Wrapf(err, "pt: coordinate %d", i+1)
			}
			c[i] = f
		}
		return &sexpPoint{p: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// (disconnect) separates runs inside one loop or chain
	env.AddFunction("disconnect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &sexpPoint{p: vu.DisconnectPoint()}, nil
	})

	// (loop (pt 0 0) (pt 1 0) (pt 1 1)) and (chain ...)
	for _, fn := range []struct {
		name   string
		closed bool
	}{{"loop", true}, {"chain", false}} {
		env.AddFunction(fn.name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pts, err := toPoints(args)
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, fn.name)
			}
			if len(pts) < 2 {
				return zygo.SexpNull, errors.Errorf("%s requires at least 2 points, got %d", fn.name, len(pts))
			}
			return &sexpPath{points: pts, closed: fn.closed}, nil
		})
	}

	// (rect 0 0 4 2) is a counterclockwise loop
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		b, err := toBox(args)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "rect")
		}
		return &sexpPath{closed: true, points: []v3.Vec{
			{X: b.Min.X, Y: b.Min.Y}, {X: b.Max.X, Y: b.Min.Y},
			{X: b.Max.X, Y: b.Max.Y}, {X: b.Min.X, Y: b.Max.Y},
		}}, nil
	})

	// (mesh-options :tolerance 1e-9 :max-edge 0.5 :smooth 4 :validate true)
	env.AddFunction("mesh_options", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if r.p != nil {
			return zygo.SexpNull, errors.New("mesh-options must come before any boundary or stage")
		}
		pa := parseArgs(args)
		// only the keywords given override the engine's base options
		for key, v := range pa.kw {
			var (
				f   float64
				n   int
				on  bool
				err error
			)
			switch key {
			case "tolerance":
				if f, err = toFloat64(v); err == nil {
					r.opts = append(r.opts, mesh.WithAbsTolerance(f))
				}
			case "rel-tolerance":
				if f, err = toFloat64(v); err == nil {
					r.opts = append(r.opts, mesh.WithRelTolerance(f))
				}
			case "max-edge":
				if f, err = toFloat64(v); err == nil {
					r.opts = append(r.opts, mesh.WithMaxEdgeLength(f))
				}
			case "smooth":
				if n, err = toInt(v); err == nil {
					r.opts = append(r.opts, mesh.WithSmoothing(n))
				}
			case "fringe":
				if f, err = toFloat64(v); err == nil {
					r.opts = append(r.opts, mesh.WithRangeFringeRel(f))
				}
			case "fringe-abs":
				if f, err = toFloat64(v); err == nil {
					r.opts = append(r.opts, mesh.WithRangeFringeAbs(f))
				}
			case "validate":
				if on, err = toBool(v); err == nil {
					r.opts = append(r.opts, mesh.WithValidation(on))
				}
			default:
				return zygo.SexpNull, errors.Errorf("mesh-options: unknown option :%s", key)
			}
			if err != nil {
				return zygo.SexpNull, errors.Wrapf(err, "mesh-options: %s", key)
			}
		}
		return zygo.SexpNull, nil
	})

	// (boundary (rect 0 0 4 4) (chain ...))
	env.AddFunction("boundary", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		loops, chains, err := toPaths(args)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "boundary")
		}
		return r.stageResult("boundary", r.pipeline().LoadBoundaries(loops, chains))
	})

	// (range-base 0 0 10 5 :n 8)
	env.AddFunction("range_base", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		box, err := toBox(pa.positional)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "range-base")
		}
		n := 8
		if v, ok := pa.kw["n"]; ok {
			if n, err = toInt(v); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "range-base: n")
			}
		}
		return r.stageResult("range-base", r.pipeline().LoadRange(box, n))
	})

	// (compose :difference (rect 1 1 2 2))
	env.AddFunction("compose", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, errors.New("compose requires an operation and at least one path")
		}
		opName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "compose: operation")
		}
		op, err := kernel.ParseBoolOp(opName)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "compose")
		}
		loops, chains, err := toPaths(args[1:])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "compose")
		}
		return r.stageResult("compose", r.pipeline().Compose(op, loops, chains))
	})

	stages := map[string]func(*mesh.Pipeline) error{
		"regularize":  (*mesh.Pipeline).Regularize,
		"triangulate": (*mesh.Pipeline).Triangulate,
		"smooth":      (*mesh.Pipeline).Smooth,
	}
	for stage, run := range stages {
		env.AddFunction(stage, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			return r.stageResult(stage, run(r.pipeline()))
		})
	}

	// queries on the pipeline so far
	env.AddFunction("stage", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpStr{S: r.pipeline().Stage().String()}, nil
	})
	env.AddFunction("node_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(r.pipeline().Graph().NodeCount())}, nil
	})
	env.AddFunction("face_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(len(r.pipeline().Faces()))}, nil
	})
	env.AddFunction("area", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var a float64
		for _, f := range r.pipeline().Faces() {
			a += f.Area
		}
		return &zygo.SexpFloat{Val: a}, nil
	})
}
