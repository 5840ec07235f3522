package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chazu/vumesh/pkg/store"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestE2EEmptySourceExtended(t *testing.T) {
	app := NewApp(nil)
	for _, src := range []string{"", "   \n\t ", "; only a comment\n"} {
		result := app.Evaluate(src)
		if len(result.Errors) != 0 {
			t.Errorf("%q: expected 0 errors, got %d", src, len(result.Errors))
		}
		// JSON should serialize as [] not null
		if result.Errors == nil {
			t.Errorf("%q: Errors should be a non-nil empty slice", src)
		}
		if result.Mesh == nil {
			t.Errorf("%q: Mesh should be non-nil", src)
		}
	}
}

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := NewApp(nil)

	// valid code on line 1, broken code on line 2
	result := app.Evaluate("(+ 1 2)\n(boundary (rect 0 0 1 1)")
	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if result.Errors[0].Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
}

func TestE2EStageOutOfOrder(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"triangulate first", "(triangulate)"},
		{"smooth before triangulate", "(boundary (rect 0 0 1 1)) (regularize) (smooth)"},
		{"compose before regularize", "(boundary (rect 0 0 1 1)) (compose :union (rect 0 0 2 2))"},
	}
	app := NewApp(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := app.Evaluate(tt.src)
			if len(result.Errors) == 0 {
				t.Fatal("expected an eval error")
			}
			if !strings.Contains(result.Errors[0].Message, "out of order") {
				t.Errorf("message = %q, want it to mention stage order", result.Errors[0].Message)
			}
		})
	}
}

func TestE2EComposeOps(t *testing.T) {
	tests := []struct {
		op   string
		area float64
	}{
		{"union", 7},
		{"intersect", 1},
		{"xor", 6},
		{"difference", 3},
	}
	app := NewApp(nil)
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			src := fmt.Sprintf(`
(boundary (rect 0 0 2 2))
(regularize)
(compose :%s (rect 1 1 3 3))
(triangulate)
`, tt.op)
			result := app.Evaluate(src)
			checkClean(t, result)
			checkArea(t, result, tt.area)
		})
	}
}

// Rapid sequential calls on one App, alternating valid and broken
// sources, exercise the generation counter. zygomys keeps global state
// that is not safe for concurrent sandbox creation, so calls stay
// sequential.
func TestE2ERapidEvaluation(t *testing.T) {
	app := NewApp(nil)

	sources := []string{
		squareWithHole,
		`(+ 1 2)`,
		`(boundary (rect 0 0 1 1)`,
		``,
		`(triangulate)`,
		`(boundary (rect 0 0 2 2)) (regularize)`,
	}

	for i := 0; i < 3; i++ {
		for j, source := range sources {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("round %d source %d panicked: %v", i, j, r)
					}
				}()
				_ = app.Evaluate(source)
			}()
		}
	}

	result := app.Evaluate(squareWithHole)
	checkClean(t, result)
	checkArea(t, result, 15)
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestE2ESaveLoad(t *testing.T) {
	st := openStore(t)

	app := NewApp(st)
	if err := app.Save("plate"); errors.Cause(err) != ErrNoResult {
		t.Fatalf("Save before Evaluate: got %v, want ErrNoResult", err)
	}
	checkClean(t, app.Evaluate(squareWithHole))
	if err := app.Save("plate"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// a fresh App on the same store sees the snapshot
	other := NewApp(st)
	names, err := other.Snapshots()
	if err != nil {
		t.Fatalf("Snapshots: %v", err)
	}
	if d := cmp.Diff([]string{"plate"}, names); d != "" {
		t.Errorf("snapshots (-want +got):\n%s", d)
	}

	result := other.Load("plate")
	checkClean(t, result)
	if result.Stage != "stored" {
		t.Errorf("stage = %q, want %q", result.Stage, "stored")
	}
	if result.Faces != 8 || result.Mesh.TriangleCount() != 8 {
		t.Errorf("got %d faces and %d triangles, want 8", result.Faces, result.Mesh.TriangleCount())
	}
	checkArea(t, result, 15)

	// the loaded graph becomes the one Save writes
	if err := other.Save("copy"); err != nil {
		t.Fatalf("Save after Load: %v", err)
	}
	if result := other.Load("copy"); result.Faces != 8 {
		t.Errorf("copy has %d faces, want 8", result.Faces)
	}
}

func TestE2ELoadMissing(t *testing.T) {
	app := NewApp(openStore(t))
	result := app.Load("nope")
	if len(result.Errors) == 0 {
		t.Fatal("expected an error loading a missing snapshot")
	}
	if !strings.Contains(result.Errors[0].Message, "not found") {
		t.Errorf("message = %q, want it to mention not found", result.Errors[0].Message)
	}
	if !result.Mesh.IsEmpty() {
		t.Error("expected an empty mesh")
	}
}

func TestE2ENoStore(t *testing.T) {
	app := NewApp(nil)
	checkClean(t, app.Evaluate(squareWithHole))
	if err := app.Save("x"); err != ErrNoStore {
		t.Errorf("Save: got %v, want ErrNoStore", err)
	}
	if _, err := app.Snapshots(); err != ErrNoStore {
		t.Errorf("Snapshots: got %v, want ErrNoStore", err)
	}
	if result := app.Load("x"); len(result.Errors) == 0 {
		t.Error("Load without a store should report an error")
	}
}
