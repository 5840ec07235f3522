package main

import (
	"math"
	"os"
	"testing"
)

const squareWithHole = `
(boundary (rect 0 0 4 4) (rect 1 1 2 2))
(regularize)
(triangulate)
`

func checkClean(t *testing.T, result EvalResult) {
	t.Helper()
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
}

func checkArea(t *testing.T, result EvalResult, want float64) {
	t.Helper()
	if got := result.Mesh.Area(); math.Abs(got-want) > 1e-4 {
		t.Errorf("mesh area = %v, want %v", got, want)
	}
}

// TestE2EPlateExample exercises the full path: recipe source → engine →
// pipeline → mesh, on the example shipped with the repo.
func TestE2EPlateExample(t *testing.T) {
	app := NewApp(nil)

	source, err := os.ReadFile("examples/plate.lisp")
	if err != nil {
		t.Fatalf("failed to read plate.lisp: %v", err)
	}

	result := app.Evaluate(string(source))
	checkClean(t, result)

	if result.Stage != "smoothed" {
		t.Errorf("stage = %q, want %q", result.Stage, "smoothed")
	}
	// 6x4 plate minus the 2x2 window
	checkArea(t, result, 20)
	if result.Mesh.TriangleCount() != result.Faces {
		t.Errorf("%d triangles for %d faces, want one per face", result.Mesh.TriangleCount(), result.Faces)
	}
	if len(result.Mesh.Normals) != len(result.Mesh.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(result.Mesh.Normals), len(result.Mesh.Vertices))
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate("")

	checkClean(t, result)
	if result.Stage != "empty" {
		t.Errorf("stage = %q, want %q", result.Stage, "empty")
	}
	if !result.Mesh.IsEmpty() {
		t.Errorf("expected an empty mesh, got %d triangles", result.Mesh.TriangleCount())
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate("(boundary (rect 0 0 1 1)")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if !result.Mesh.IsEmpty() {
		t.Errorf("expected an empty mesh on error, got %d triangles", result.Mesh.TriangleCount())
	}
	if result.Stage != "" {
		t.Errorf("stage = %q on error, want none", result.Stage)
	}
}

// TestE2ESquareWithHole ensures a minimal recipe triangulates a holed square.
func TestE2ESquareWithHole(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(squareWithHole)

	checkClean(t, result)
	if result.Stage != "triangulated" {
		t.Errorf("stage = %q, want %q", result.Stage, "triangulated")
	}
	if result.Faces != 8 || result.Mesh.TriangleCount() != 8 {
		t.Errorf("got %d faces and %d triangles, want 8", result.Faces, result.Mesh.TriangleCount())
	}
	checkArea(t, result, 15)
}
