package binclusters

import (
	"sort"
	"testing"

	"github.com/cwbudde/vectorcortex/internal/geom"
	"github.com/cwbudde/vectorcortex/internal/raster"
)

// E1: 3x3 identity diagonal is 3 singletons with 4-connectivity, one
// 3-pixel cluster with 8-connectivity.
func TestToClustersDiagonalConnectivity(t *testing.T) {
	img := raster.FromString("*--\n-*-\n--*")

	four, err := ToClusters(img, false)
	if err != nil {
		t.Fatalf("ToClusters: %v", err)
	}
	if len(four.Clusters) != 3 {
		t.Fatalf("4-connectivity: expected 3 clusters, got %d", len(four.Clusters))
	}
	for _, c := range four.Clusters {
		if c.Size() != 1 {
			t.Fatalf("4-connectivity: expected singletons, got size %d", c.Size())
		}
	}

	eight, err := ToClusters(img, true)
	if err != nil {
		t.Fatalf("ToClusters: %v", err)
	}
	if len(eight.Clusters) != 1 || eight.Clusters[0].Size() != 3 {
		t.Fatalf("8-connectivity: expected one 3-pixel cluster, got %d clusters", len(eight.Clusters))
	}
}

func TestToClustersEveryPixelLandsOnce(t *testing.T) {
	img := raster.FromString("**-*\n*-**\n--*-")
	cs, err := ToClusters(img, false)
	if err != nil {
		t.Fatalf("ToClusters: %v", err)
	}
	seen := make(map[geom.Point]int)
	total := 0
	for _, c := range cs.Clusters {
		for _, p := range c.Points {
			seen[p]++
			total++
		}
	}
	want := 0
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if img.Get(x, y) {
				want++
				if seen[geom.Point{X: x, Y: y}] != 1 {
					t.Fatalf("pixel (%d,%d) appears %d times", x, y, seen[geom.Point{X: x, Y: y}])
				}
			}
		}
	}
	if total != want {
		t.Fatalf("expected %d labelled pixels, got %d", want, total)
	}
}

func TestClusterRectIsTight(t *testing.T) {
	img := raster.FromString("-**\n-*-")
	cs, err := ToClusters(img, false)
	if err != nil {
		t.Fatalf("ToClusters: %v", err)
	}
	if len(cs.Clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(cs.Clusters))
	}
	if got := cs.Clusters[0].Rect; got != (geom.BoundingRect{Left: 1, Top: 0, Right: 3, Bottom: 2}) {
		t.Fatalf("rect not tight: %+v", got)
	}
}

// E2: a 6x3 band pinched at a diagonal bridge breaks into two 3x2 clusters.
func TestBreakClusterDiagonalBridge(t *testing.T) {
	img := raster.FromString("***---\n******\n---***")
	cs, err := ToClusters(img, true)
	if err != nil {
		t.Fatalf("ToClusters: %v", err)
	}
	if len(cs.Clusters) != 1 {
		t.Fatalf("expected a single pre-break cluster, got %d", len(cs.Clusters))
	}

	broken, err := BreakCluster(cs.Clusters[0])
	if err != nil {
		t.Fatalf("BreakCluster: %v", err)
	}
	if len(broken.Clusters) != 2 {
		t.Fatalf("expected 2 clusters after break, got %d", len(broken.Clusters))
	}

	rects := []geom.BoundingRect{broken.Clusters[0].Rect, broken.Clusters[1].Rect}
	sort.Slice(rects, func(i, j int) bool { return rects[i].Left < rects[j].Left })
	if rects[0] != (geom.BoundingRect{Left: 0, Top: 0, Right: 3, Bottom: 2}) {
		t.Fatalf("first cluster rect: %+v", rects[0])
	}
	if rects[1] != (geom.BoundingRect{Left: 3, Top: 1, Right: 6, Bottom: 3}) {
		t.Fatalf("second cluster rect: %+v", rects[1])
	}
}

func TestBreakClusterRejectsTinyFragments(t *testing.T) {
	// Same pinch shape, but breaking would strand fewer than 5 pixels.
	img := raster.FromString("-**---\n******\n---**-")
	cs, err := ToClusters(img, true)
	if err != nil {
		t.Fatalf("ToClusters: %v", err)
	}
	if len(cs.Clusters) != 1 {
		t.Fatalf("expected a single cluster, got %d", len(cs.Clusters))
	}
	broken, err := BreakCluster(cs.Clusters[0])
	if err != nil {
		t.Fatalf("BreakCluster: %v", err)
	}
	if len(broken.Clusters) != 1 {
		t.Fatalf("tiny fragments must not be split off, got %d clusters", len(broken.Clusters))
	}
}
