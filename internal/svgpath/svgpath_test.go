package svgpath

import (
	"testing"

	"github.com/cwbudde/vectorcortex/internal/geom"
)

// E7: polyline [(0,0),(1,0),(1,1),(0,0)] renders as "M0,0 L1,0 L1,1 Z ".
func TestPolygonToSVGPath(t *testing.T) {
	p := &Polygon{Points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}}
	got := p.ToSVGPath(true)
	want := "M0,0 L1,0 L1,1 Z "
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

// E8: spline precision 1 on [(2.22,2.67),(3.50,3.48),(4.19,4.72),(5.68,5.26)]
// emits "M2.2 2.7 C3.5 3.5 4.2 4.7 5.7 5.3 ".
func TestSplineToSVGPathPrecision(t *testing.T) {
	s := &Spline{Points: []geom.PointF{
		{X: 2.22, Y: 2.67},
		{X: 3.50, Y: 3.48},
		{X: 4.19, Y: 4.72},
		{X: 5.68, Y: 5.26},
	}}
	got := s.ToSVGPathPrecision(false, 1)
	want := "M2.2 2.7 C3.5 3.5 4.2 4.7 5.7 5.3 "
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSplineToSVGPathFullPrecision(t *testing.T) {
	s := &Spline{Points: []geom.PointF{
		{X: 0, Y: 0},
		{X: 1, Y: 1},
		{X: 2, Y: 2},
		{X: 3, Y: 3},
	}}
	got := s.ToSVGPath(true)
	want := "M0 0 C1 1 2 2 3 3 Z "
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

// Closed-path idempotence: converting between the open and closed canonical
// forms round-trips exactly.
func TestToClosedToOpenRoundTrip(t *testing.T) {
	open := []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}
	closed := []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 0}}

	equal := func(a, b []geom.Point) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	if !equal(ToClosed(open), closed) {
		t.Fatalf("ToClosed: got %v", ToClosed(open))
	}
	if !equal(ToOpen(closed), open) {
		t.Fatalf("ToOpen: got %v", ToOpen(closed))
	}
	if !equal(ToClosed(ToOpen(closed)), closed) {
		t.Fatal("ToClosed(ToOpen(P)) != P for closed P")
	}
	if !equal(ToOpen(ToClosed(open)), open) {
		t.Fatal("ToOpen(ToClosed(P)) != P for open P")
	}
	if got := ToClosed(closed); !equal(got, closed) {
		t.Fatal("ToClosed must be a no-op on closed paths")
	}
}

func TestToClosedFRoundTrip(t *testing.T) {
	open := []geom.PointF{{X: 0.5, Y: 0}, {X: 2, Y: 0.25}, {X: 2, Y: 2}}
	closed := ToClosedF(open)
	if len(closed) != 4 || closed[3] != open[0] {
		t.Fatalf("ToClosedF: got %v", closed)
	}
	back := ToOpenF(closed)
	if len(back) != 3 {
		t.Fatalf("ToOpenF: got %v", back)
	}
}

func TestCompoundPathMixedElements(t *testing.T) {
	cp := &CompoundPath{}
	cp.AddPolygon(&Polygon{Points: []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}})
	cp.AddSpline(&Spline{Points: []geom.PointF{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}})

	if cp.IsEmpty() {
		t.Fatal("expected non-empty compound path")
	}
	svg := cp.ToSVGPathPrecision(0)
	if svg == "" {
		t.Fatal("expected non-empty SVG output")
	}
}
