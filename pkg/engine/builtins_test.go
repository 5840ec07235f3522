package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/vumesh/pkg/kernel/sdfx"
	"github.com/chazu/vumesh/pkg/mesh"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(range-base 0 0 1 1 :n 4)`,
			expect: `(range_base 0 0 1 1 "__kw_n" 4)`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `(mesh-options :max-edge 0.5)`,
			expect: `(mesh_options "__kw_max-edge" 0.5)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" :b" :c`,
			expect: `"a \" :b" "__kw_c"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`node-count :x`",
			expect: "`node-count :x`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(pt -1 2)`,
			expect: `(pt -1 2)`,
		},
		{
			name:   "exponent preserved",
			input:  `1e-9`,
			expect: `1e-9`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "comment ends at newline",
			input:  "; note\n(node-count)",
			expect: "// note\n(node_count)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	args := []zygo.Sexp{
		&zygo.SexpStr{S: kwPrefix + "n"},
		&zygo.SexpInt{Val: 4},
		&zygo.SexpInt{Val: 1},
		&zygo.SexpStr{S: kwPrefix + "flag"},
	}
	pa := parseArgs(args)
	if n, err := toInt(pa.kw["n"]); err != nil || n != 4 {
		t.Errorf("kw n = %d, %v; want 4", n, err)
	}
	if pa.kw["flag"] != zygo.SexpNull {
		t.Errorf("trailing keyword = %v, want SexpNull", pa.kw["flag"])
	}
	if len(pa.positional) != 1 {
		t.Fatalf("got %d positional, want 1", len(pa.positional))
	}
	if f, err := toFloat64(pa.positional[0]); err != nil || f != 1 {
		t.Errorf("positional = %v, %v; want 1", f, err)
	}
}

// ---------------------------------------------------------------------------
// Recipe tests
// ---------------------------------------------------------------------------

// run evaluates src in a fresh sandbox and returns the last value along
// with the recipe state.
func run(t *testing.T, src string) (zygo.Sexp, *recipe, error) {
	t.Helper()
	r := &recipe{k: sdfx.New(), base: []mesh.Option{mesh.WithValidation(true)}}
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, r)
	if err := env.LoadString(preprocessSource(src)); err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	v, err := env.Run()
	return v, r, err
}

func mustRun(t *testing.T, src string) (zygo.Sexp, *mesh.Pipeline) {
	t.Helper()
	v, r, err := run(t, src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return v, r.pipeline()
}

func faceArea(p *mesh.Pipeline) float64 {
	var a float64
	for _, f := range p.Faces() {
		a += f.Area
	}
	return a
}

func TestRecipeSquareWithHole(t *testing.T) {
	v, p := mustRun(t, `
; a 4x4 plate with a unit hole
(boundary (rect 0 0 4 4) (rect 1 1 2 2))
(regularize)
(triangulate)
`)
	if s, ok := v.(*zygo.SexpStr); !ok || s.S != "triangulated" {
		t.Errorf("last value = %v, want \"triangulated\"", v.SexpString(nil))
	}
	if p.Stage() != mesh.StageTriangulated {
		t.Errorf("stage = %v, want triangulated", p.Stage())
	}
	if got := len(p.Faces()); got != 8 {
		t.Errorf("got %d triangles, want 8", got)
	}
	if a := faceArea(p); math.Abs(a-15) > 1e-9 {
		t.Errorf("area = %v, want 15", a)
	}
}

func TestRecipeDisconnect(t *testing.T) {
	_, p := mustRun(t, `
(boundary
  (loop (pt 0 0) (pt 4 0) (pt 4 4) (pt 0 4)
        (disconnect)
        (list (pt 1 1) (pt 2 1) (pt 2 2) (pt 1 2))))
(regularize)
(triangulate)
`)
	if a := faceArea(p); math.Abs(a-15) > 1e-9 {
		t.Errorf("area = %v, want 15", a)
	}
}

func TestRecipeCompose(t *testing.T) {
	v, p := mustRun(t, `
(boundary (rect 0 0 2 2))
(regularize)
(compose :union (rect 1 1 3 3))
(area)
`)
	f, ok := v.(*zygo.SexpFloat)
	if !ok || f.Val != 7 {
		t.Errorf("area = %v, want 7", v.SexpString(nil))
	}
	if p.Stage() != mesh.StageComposed {
		t.Errorf("stage = %v, want composed", p.Stage())
	}
}

func TestRecipeOptionsAndRange(t *testing.T) {
	v, p := mustRun(t, `
(mesh-options :max-edge 1 :smooth 2 :fringe-abs 0)
(range-base 0 0 4 2 :n 4)
(regularize)
(triangulate)
(smooth)
(face-count)
`)
	n, ok := v.(*zygo.SexpInt)
	if !ok || n.Val != 10 {
		t.Errorf("face-count = %v, want 10", v.SexpString(nil))
	}
	if p.Stage() != mesh.StageSmoothed {
		t.Errorf("stage = %v, want smoothed", p.Stage())
	}
}

func TestRecipeNodeCount(t *testing.T) {
	v, _ := mustRun(t, `(boundary (rect 0 0 1 1) (chain (pt 2 0) (pt 3 0) (pt 3 1))) (node-count)`)
	n, ok := v.(*zygo.SexpInt)
	if !ok || n.Val != 12 {
		t.Errorf("node-count = %v, want 12", v.SexpString(nil))
	}
}

func TestRecipeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"pt arity", `(pt 1)`, "pt requires 2 or 3"},
		{"pt type", `(pt 1 "y")`, "expected number"},
		{"short loop", `(loop (pt 0 0))`, "at least 2 points"},
		{"boundary arg", `(boundary (pt 0 0))`, "expected loop or chain"},
		{"bad op", `(boundary (rect 0 0 1 1)) (regularize) (compose :subtract (rect 0 0 1 1))`, "unknown boolean op"},
		{"stage order", `(smooth)`, "out of order"},
		{"unknown option", `(mesh-options :speed 3)`, "unknown option"},
		{"late options", `(boundary (rect 0 0 1 1)) (mesh-options :smooth 1)`, "must come before"},
		{"empty range", `(range-base 0 0 0 1)`, "no area"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestRecipeOptionsKeepEngineBase(t *testing.T) {
	// (1, 0.0001) collapses into (1, 0) only under a 1e-3 tolerance:
	// four points make 8 nodes, five make 10
	const shape = `(boundary (loop (pt 0 0) (pt 1 0) (pt 1 0.0001) (pt 1 1) (pt 0 1)))`
	tests := []struct {
		name    string
		base    []mesh.Option
		options string
		want    int
	}{
		{"default tolerance", nil, "", 10},
		{"engine tolerance", []mesh.Option{mesh.WithTolerance(1e-3, 0)}, "", 8},
		{"unrelated option keeps engine tolerance", []mesh.Option{mesh.WithTolerance(1e-3, 0)}, "(mesh-options :smooth 1)", 8},
		{"recipe tolerance wins", []mesh.Option{mesh.WithTolerance(1e-3, 0)}, "(mesh-options :tolerance 0.000001)", 10},
		{"recipe tolerance alone", nil, "(mesh-options :tolerance 0.001)", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, evalErrs, err := NewEngine(sdfx.New(), tt.base...).Evaluate(tt.options + "\n" + shape)
			if err != nil || len(evalErrs) > 0 {
				t.Fatalf("Evaluate: %v %v", err, evalErrs)
			}
			if got := p.Graph().NodeCount(); got != tt.want {
				t.Errorf("got %d nodes, want %d", got, tt.want)
			}
		})
	}
}
