package assembly

import (
	"math"
	"testing"

	"github.com/cwbudde/vectorcortex/internal/geom"
	"github.com/cwbudde/vectorcortex/internal/raster"
)

func TestImageToPathSquare(t *testing.T) {
	img := raster.FromString("***\n***\n***")
	path, err := ImageToPath(img, true, ModeNone)
	if err != nil {
		t.Fatalf("ImageToPath: %v", err)
	}
	want := []geom.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 3}, {X: 0, Y: 3}}
	if len(path) != len(want) {
		t.Fatalf("got %v want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("got %v want %v", path, want)
		}
	}
}

func TestImageToPathEmptyImage(t *testing.T) {
	path, err := ImageToPath(raster.NewBinaryImage(4, 4), true, ModeNone)
	if err != nil {
		t.Fatalf("ImageToPath: %v", err)
	}
	if path != nil {
		t.Fatalf("expected nil path for an empty image, got %v", path)
	}
}

func TestImageToPathsDonut(t *testing.T) {
	img := raster.FromString("*****\n*****\n**-**\n*****\n*****")
	paths, err := ImageToPaths(img, ModeNone)
	if err != nil {
		t.Fatalf("ImageToPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected outer path plus one hole, got %d paths", len(paths))
	}

	outer := paths[0].Points
	wantOuter := []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}, {X: 0, Y: 5}}
	if len(outer) != len(wantOuter) {
		t.Fatalf("outer: got %v want %v", outer, wantOuter)
	}
	for i := range wantOuter {
		if outer[i] != wantOuter[i] {
			t.Fatalf("outer: got %v want %v", outer, wantOuter)
		}
	}

	// The hole subpath is offset to the hole's position and wound the
	// opposite way.
	hole := paths[1].Points
	for _, p := range hole {
		if p.X < 2 || p.X > 3 || p.Y < 2 || p.Y > 3 {
			t.Fatalf("hole point %v outside the hole's cell", p)
		}
	}
}

func TestImageToPathsEdgeTouchingHoleDiscarded(t *testing.T) {
	// The unset pixel on the left edge is background bleeding in, not an
	// enclosed hole.
	img := raster.FromString("***\n-**\n***")
	paths, err := ImageToPaths(img, ModeNone)
	if err != nil {
		t.Fatalf("ImageToPaths: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected only the outer path, got %d", len(paths))
	}
}

func TestImageToPathsPolygonModeSimplifies(t *testing.T) {
	img := raster.FromString("******\n******\n******\n******")
	raw, err := ImageToPaths(img, ModeNone)
	if err != nil {
		t.Fatalf("ImageToPaths: %v", err)
	}
	simplified, err := ImageToPaths(img, ModePolygon)
	if err != nil {
		t.Fatalf("ImageToPaths: %v", err)
	}
	if len(simplified) != 1 || len(raw) != 1 {
		t.Fatal("expected a single path in both modes")
	}
	if len(simplified[0].Points) > len(raw[0].Points) {
		t.Fatalf("polygon mode must not add points: %d vs %d",
			len(simplified[0].Points), len(raw[0].Points))
	}
}

func TestImageToSplineRoundShape(t *testing.T) {
	const size = 24
	img := raster.NewBinaryImage(size, size)
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			if dx*dx+dy*dy <= 100 {
				img.Set(x, y, true)
			}
		}
	}

	points, ok, err := ImageToSpline(img, true, math.Pi/3, DefaultOutsetRatio, 4.0, DefaultMaxIterations, 1.0)
	if err != nil {
		t.Fatalf("ImageToSpline: %v", err)
	}
	if !ok {
		t.Fatal("expected a fitted spline for a disk")
	}
	if (len(points)-1)%3 != 0 {
		t.Fatalf("malformed spline: %d points", len(points))
	}
	// Every control point should stay near the disk.
	for _, p := range points {
		if p.X < -8 || p.X > size+8 || p.Y < -8 || p.Y > size+8 {
			t.Fatalf("control point %v far outside the disk", p)
		}
	}
}

func TestImageToCompoundPathSplineMode(t *testing.T) {
	img := raster.FromString("****\n****\n****\n****")
	cp, err := ImageToCompoundPath(geom.Point{X: 10, Y: 20}, img, ModeSpline, math.Pi/3, 4.0, DefaultMaxIterations, 1.0)
	if err != nil {
		t.Fatalf("ImageToCompoundPath: %v", err)
	}
	if cp.IsEmpty() {
		t.Fatal("expected a spline subpath")
	}
	for _, e := range cp.Elements {
		if e.Spline == nil {
			t.Fatal("spline mode must emit spline elements")
		}
		for _, p := range e.Spline.Points {
			if p.X < 8 || p.Y < 18 {
				t.Fatalf("point %v not offset into the parent coordinate space", p)
			}
		}
	}
}
