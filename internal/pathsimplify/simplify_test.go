package pathsimplify

import (
	"testing"

	"github.com/cwbudde/vectorcortex/internal/geom"
)

// E4: collinear runs collapse back to the original corners.
func TestLimitPenaltiesStripsCollinearVertices(t *testing.T) {
	path := []geom.Point{
		{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0},
		{X: 10, Y: 5}, {X: 10, Y: 10},
	}
	got := LimitPenalties(path)
	want := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestLimitPenaltiesOutputIsSubset(t *testing.T) {
	path := []geom.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 1}, {X: 3, Y: 0},
		{X: 5, Y: 0}, {X: 6, Y: 2}, {X: 6, Y: 5}, {X: 4, Y: 6},
	}
	in := make(map[geom.Point]bool, len(path))
	for _, p := range path {
		in[p] = true
	}
	for _, p := range LimitPenalties(path) {
		if !in[p] {
			t.Fatalf("output point %v was not in the input", p)
		}
	}
}

func TestRemoveStaircase(t *testing.T) {
	// A two-step staircase walked clockwise; the inner stair vertices are
	// dropped, the outline corners survive.
	path := []geom.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1},
		{X: 2, Y: 2}, {X: 0, Y: 2},
	}
	got := RemoveStaircase(path, true)
	if len(got) >= len(path) {
		t.Fatalf("expected staircase vertices to be removed, got %v", got)
	}
	in := make(map[geom.Point]bool, len(path))
	for _, p := range path {
		in[p] = true
	}
	for _, p := range got {
		if !in[p] {
			t.Fatalf("output point %v was not in the input", p)
		}
	}
}

func TestSimplifyKeepsEndpoints(t *testing.T) {
	path := []geom.Point{
		{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 3}, {X: 6, Y: 6},
	}
	got := Simplify(path, true)
	if len(got) == 0 {
		t.Fatal("expected non-empty result")
	}
	if got[0] != path[0] || got[len(got)-1] != path[len(path)-1] {
		t.Fatalf("endpoints must survive: got %v", got)
	}
}
