package pathsimplify

import (
	"sort"

	"github.com/cwbudde/vectorcortex/internal/geom"
)

// Reduce thins a floating point polyline by tolerance: the larger the
// tolerance, the fewer points remain. It runs a cheap radial-distance pass
// at half the squared tolerance, then Ramer-Douglas-Peucker at the full
// tolerance, mirroring simplify-js's two-stage approach.
func Reduce(points []geom.PointF, tolerance float64) []geom.PointF {
	if len(points) <= 2 || tolerance == 0 {
		return points
	}
	sqTolerance := tolerance * tolerance
	radial := simplifyRadialDist(points, sqTolerance*0.5)
	return simplifyDouglasPeucker(radial, sqTolerance)
}

// ReduceClosed simplifies a closed float polyline (its last point repeating
// its first). The ring is cut at its four extreme-coordinate points into
// four open arcs, each reduced independently, and the arcs are stitched
// back into a closed result. It reports false ("degenerate") when either
// coordinate extent is below tolerance or the reduced ring keeps 3 or fewer
// distinct points; the caller drops such a path.
func ReduceClosed(points []geom.PointF, tolerance float64) ([]geom.PointF, bool) {
	n := len(points)
	if n > 1 && points[n-1] == points[0] {
		n--
	}
	if n < 3 {
		return nil, false
	}
	ring := points[:n]

	minX, maxX, minY, maxY := 0, 0, 0, 0
	for i, p := range ring {
		if p.X < ring[minX].X {
			minX = i
		}
		if p.X > ring[maxX].X {
			maxX = i
		}
		if p.Y < ring[minY].Y {
			minY = i
		}
		if p.Y > ring[maxY].Y {
			maxY = i
		}
	}
	if ring[maxX].X-ring[minX].X < tolerance || ring[maxY].Y-ring[minY].Y < tolerance {
		return nil, false
	}

	cuts := dedupSorted([]int{minX, maxX, minY, maxY})

	var out []geom.PointF
	for i, from := range cuts {
		to := cuts[(i+1)%len(cuts)]
		arc := circularArc(ring, from, to)
		reduced := Reduce(arc, tolerance)
		out = append(out, reduced[:len(reduced)-1]...)
	}
	if len(out) <= 3 {
		return nil, false
	}
	return append(out, out[0]), true
}

func dedupSorted(v []int) []int {
	sort.Ints(v)
	out := v[:1]
	for _, x := range v[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// circularArc extracts ring[from..to] inclusive, wrapping past the seam when
// from >= to.
func circularArc(ring []geom.PointF, from, to int) []geom.PointF {
	if from < to {
		return append([]geom.PointF(nil), ring[from:to+1]...)
	}
	out := append([]geom.PointF(nil), ring[from:]...)
	return append(out, ring[:to+1]...)
}

func sqDist(a, b geom.PointF) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func sqSegDist(p, p1, p2 geom.PointF) float64 {
	x, y := p1.X, p1.Y
	dx, dy := p2.X-x, p2.Y-y

	if dx != 0 || dy != 0 {
		t := ((p.X-x)*dx + (p.Y-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = p2.X, p2.Y
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx, dy = p.X-x, p.Y-y
	return dx*dx + dy*dy
}

func simplifyRadialDist(points []geom.PointF, sqTolerance float64) []geom.PointF {
	if len(points) <= 2 {
		return points
	}
	prev := points[0]
	out := []geom.PointF{prev}
	for _, p := range points[1:] {
		if sqDist(p, prev) > sqTolerance {
			out = append(out, p)
			prev = p
		}
	}
	if prev != points[len(points)-1] {
		out = append(out, points[len(points)-1])
	}
	return out
}

func simplifyDPStep(points []geom.PointF, first, last int, sqTolerance float64, out *[]geom.PointF) {
	maxSqDist := sqTolerance
	index := 0
	for i := first + 1; i < last; i++ {
		d := sqSegDist(points[i], points[first], points[last])
		if d > maxSqDist {
			index = i
			maxSqDist = d
		}
	}
	if maxSqDist > sqTolerance {
		if index-first > 1 {
			simplifyDPStep(points, first, index, sqTolerance, out)
		}
		*out = append(*out, points[index])
		if last-index > 1 {
			simplifyDPStep(points, index, last, sqTolerance, out)
		}
	}
}

func simplifyDouglasPeucker(points []geom.PointF, sqTolerance float64) []geom.PointF {
	last := len(points) - 1
	out := []geom.PointF{points[0]}
	simplifyDPStep(points, 0, last, sqTolerance, &out)
	out = append(out, points[last])
	return out
}
