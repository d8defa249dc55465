// Package pathsimplify implements spec component P: 1-pixel staircase
// removal and penalty-based polyline simplification for integer paths
// produced by the contour walker, plus a general radial/Ramer-Douglas-
// Peucker reducer usable on both integer and floating point polylines.
package pathsimplify

import (
	"math"

	"github.com/cwbudde/vectorcortex/internal/geom"
)

func iabs(v int) int {
	if v < 0 {
		return v * -1
	}
	return v
}

// RemoveStaircase returns a copy of path with 1-pixel staircase steps
// collapsed: a vertex adjacent (by taxicab distance 1) to its predecessor or
// successor is dropped unless doing so would flip the polygon's winding at
// that corner. clockwise must describe the winding of path.
func RemoveStaircase(path []geom.Point, clockwise bool) []geom.Point {
	n := len(path)
	if n == 0 {
		return nil
	}
	segLen := func(i, j int) int {
		return iabs(path[i].X-path[j].X) + iabs(path[i].Y-path[j].Y)
	}
	result := make([]geom.Point, 0, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		h := n - 1
		if i > 0 {
			h = i - 1
		}
		keep := true
		if i != 0 && i != n-1 {
			if segLen(i, h) == 1 || segLen(i, j) == 1 {
				area := geom.SignedAreaInt(path[h], path[i], path[j])
				keep = area != 0 && (area > 0) == clockwise
			}
		}
		if keep {
			result = append(result, path[i])
		}
	}
	return result
}

// evaluatePenalty returns (2·area(a,b,c))² / |a−c|², the squared
// perpendicular distance of b from the line through a and c: the cost of
// replacing the two segments a-b and b-c with the single segment a-c.
func evaluatePenalty(a, b, c geom.Point) float64 {
	sq := func(x int) float64 { return float64(x * x) }
	l1 := math.Sqrt(sq(a.X-b.X) + sq(a.Y-b.Y))
	l2 := math.Sqrt(sq(b.X-c.X) + sq(b.Y-c.Y))
	l3 := math.Sqrt(sq(c.X-a.X) + sq(c.Y-a.Y))
	if l3 == 0 {
		return 0
	}
	p := (l1 + l2 + l3) / 2
	area := math.Sqrt(math.Max(0, p*(p-l1)*(p-l2)*(p-l3)))
	return 4 * area * area / (l3 * l3)
}

// LimitPenalties greedily drops vertices from path as long as the maximum
// penalty incurred between the last kept vertex and the candidate does not
// exceed a fixed tolerance of 1.0 (squared perpendicular distance), matching the
// reference implementation's single hardcoded tolerance.
func LimitPenalties(path []geom.Point) []geom.Point {
	const tolerance = 1.0
	n := len(path)
	if n == 0 {
		return nil
	}
	pastDelta := func(from, to int) float64 {
		max := 0.0
		for i := from + 1; i < to; i++ {
			if p := evaluatePenalty(path[from], path[i], path[to]); p > max {
				max = p
			}
		}
		return max
	}

	result := make([]geom.Point, 0, n)
	last := 0
	for i := 0; i < n; i++ {
		switch {
		case i == 0:
			result = append(result, path[i])
		case i == last+1:
			// nothing yet, defer the decision to when we have a 3rd point
		case pastDelta(last, i) > tolerance:
			last = i - 1
			result = append(result, path[i-1])
		}
		if i == n-1 {
			result = append(result, path[i])
		}
	}
	return result
}

// Simplify chains RemoveStaircase and LimitPenalties, the two-stage integer
// polyline simplification used before spline fitting or polygon output.
func Simplify(path []geom.Point, clockwise bool) []geom.Point {
	return LimitPenalties(RemoveStaircase(path, clockwise))
}
