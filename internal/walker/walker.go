// Package walker implements deterministic contour tracing over a 1-bit
// raster: finding a boundary starting pixel and walking its outline in a
// single direction using 4-neighbor edge-admissibility tests.
package walker

import (
	"errors"

	"github.com/cwbudde/vectorcortex/internal/geom"
	"github.com/cwbudde/vectorcortex/internal/raster"
)

// ErrLivelock is returned when a walk exceeds the step cap without returning
// to its start, which only happens for a diagonally-connected shape that
// should have been broken into simpler clusters first.
var ErrLivelock = errors.New("walker: stuck tracing contour (diagonally connected shape was not broken down)")

const maxSteps = 1_000_000

// dirVec returns the unit offset for compass direction dir (0=N, clockwise
// in steps of 45 degrees).
func dirVec(dir int) geom.Point {
	switch dir {
	case 0:
		return geom.Point{X: 0, Y: -1}
	case 1:
		return geom.Point{X: 1, Y: -1}
	case 2:
		return geom.Point{X: 1, Y: 0}
	case 3:
		return geom.Point{X: 1, Y: 1}
	case 4:
		return geom.Point{X: 0, Y: 1}
	case 5:
		return geom.Point{X: -1, Y: 1}
	case 6:
		return geom.Point{X: -1, Y: 0}
	case 7:
		return geom.Point{X: -1, Y: -1}
	default:
		panic("walker: bad direction")
	}
}

// sideVecs returns the pair of pixel offsets straddling the edge you'd cross
// by stepping in direction dir (only defined for the four cardinal
// directions 0,2,4,6).
func sideVecs(dir int) (geom.Point, geom.Point) {
	switch dir {
	case 0:
		return geom.Point{X: -1, Y: -1}, geom.Point{X: 0, Y: -1}
	case 2:
		return geom.Point{X: 0, Y: 0}, geom.Point{X: 0, Y: -1}
	case 4:
		return geom.Point{X: -1, Y: 0}, geom.Point{X: 0, Y: 0}
	case 6:
		return geom.Point{X: -1, Y: 0}, geom.Point{X: -1, Y: -1}
	default:
		panic("walker: bad side direction")
	}
}

func aheadOf(curr geom.Point, dir int) geom.Point {
	v := dirVec(dir)
	return geom.Point{X: curr.X + v.X, Y: curr.Y + v.Y}
}

// FindStart returns the first boundary pixel of img in raster-scan order
// (top-to-bottom, left-to-right), and false if img has no set pixels.
// A boundary pixel is a set pixel with at least one of its 4 cardinal
// neighbors unset (or out of bounds).
func FindStart(img *raster.BinaryImage) (geom.Point, bool) {
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if isBoundaryPixel(img, x, y) {
				return geom.Point{X: x, Y: y}, true
			}
		}
	}
	return geom.Point{}, false
}

func isBoundaryPixel(img *raster.BinaryImage, x, y int) bool {
	if !img.Get(x, y) {
		return false
	}
	return !img.Get(x-1, y) || !img.Get(x+1, y) || !img.Get(x, y-1) || !img.Get(x, y+1)
}

// BoundaryList returns every boundary pixel of img in raster-scan order.
// Unlike Walk, this is not a connected path; it is the flat count/list used
// by perimeter measurement.
func BoundaryList(img *raster.BinaryImage) []geom.Point {
	var out []geom.Point
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if isBoundaryPixel(img, x, y) {
				out = append(out, geom.Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Walk traces the outline of img starting at start, in the given winding
// direction, returning the closed sequence of corner points. The path
// revisits start as its final implicit point, which is not duplicated in
// the returned slice; callers that need a closed polyline append start
// again or emit an SVG "Z".
func Walk(img *raster.BinaryImage, start geom.Point, clockwise bool) ([]geom.Point, error) {
	path := []geom.Point{start}
	curr, prev, prevPrev := start, start, start
	steps := 0

	order := [4]int{0, 2, 4, 6}
	if !clockwise {
		order = [4]int{6, 4, 2, 0}
	}

	for {
		dir := -1
		for {
			goDir := -1
			for _, k := range order {
				ahead := aheadOf(curr, k)
				if ahead == prev || ahead == prevPrev {
					continue
				}
				a, b := sideVecs(k)
				if img.GetPoint(curr.Add(a)) != img.GetPoint(curr.Add(b)) {
					goDir = k
					break
				}
			}
			if goDir == -1 {
				return nil, ErrLivelock
			}
			if dir != -1 && dir != goDir {
				break
			}
			dir = goDir
			prevPrev = prev
			prev = curr
			curr = aheadOf(curr, goDir)
			steps++
			if steps > maxSteps {
				return nil, ErrLivelock
			}
		}
		if curr == start {
			return path, nil
		}
		path = append(path, curr)
	}
}
