// Package splinefit implements spec component F: cutting a smoothed closed
// polyline at its splice points, least-squares fitting a cubic Bezier curve
// to each resulting arc, and retracting control handles at concave or
// self-crossing joints. Unlike the reference implementation (which stores
// an unfit polyline and fits lazily at serialization time), this package
// fits eagerly and returns the flattened control-point sequence directly,
// matching the data model's Spline{Points} with len == 1+3n.
package splinefit

import (
	"math"

	"github.com/cwbudde/vectorcortex/internal/geom"
)

// Fit cuts the closed polyline path (path[0] == path[len-1]) at every index
// i where splicePoints[i] is true, fits a cubic Bezier to each resulting
// circular arc, retracts handles at crossing joints, and returns the
// flattened closed control-point sequence: anchor, then (ctrl1, ctrl2,
// anchor) repeated once per fitted segment.
func Fit(path []geom.PointF, splicePoints []bool) []geom.PointF {
	n := len(path) - 1
	if n <= 0 {
		return nil
	}

	var cutPoints []int
	for i, cut := range splicePoints {
		if cut {
			cutPoints = append(cutPoints, i)
		}
	}
	if len(cutPoints) == 0 {
		cutPoints = []int{0}
	}
	if len(cutPoints) == 1 {
		cutPoints = append(cutPoints, (cutPoints[0]+n/2)%n)
	}
	numCuts := len(cutPoints)

	out := []geom.PointF{path[cutPoints[0]]}
	for i := 0; i < numCuts; i++ {
		j := (i + 1) % numCuts
		sub := circularSubpath(path[:n], cutPoints[i], cutPoints[j])
		p1, p2, p3, p4 := fitCubicBezier(sub)
		p1, p2, p3, p4 = retractHandles(p1, p2, p3, p4)
		out = append(out, p2, p3, p4)
	}
	return out
}

func circularSubpath(path []geom.PointF, from, to int) []geom.PointF {
	n := len(path)
	var sub []geom.PointF
	switch {
	case from < to:
		sub = append(sub, path[from:to+1]...)
	case from > to:
		sub = append(sub, path[from:n]...)
		sub = append(sub, path[0:to+1]...)
	}
	return sub
}

// fitCubicBezier least-squares fits a single cubic Bezier segment to points
// using chord-length parameterization and estimated endpoint tangents, the
// standard single-segment variant of the Graphics Gems curve-fitting
// algorithm (flo_curves, used by the reference implementation, is not among
// the example corpus's dependencies).
func fitCubicBezier(points []geom.PointF) (p1, c1, c2, p4 geom.PointF) {
	if len(points) == 0 {
		return
	}
	p1 = points[0]
	p4 = points[len(points)-1]
	if len(points) < 3 {
		return p1, p1, p4, p4
	}

	tHat1 := leftTangent(points)
	tHat2 := rightTangent(points)
	u := chordLengthParameterize(points)

	var c00, c01, c11, x0, x1 float64
	for i, t := range u {
		b0, b1, b2, b3 := bezierBasis(t)
		a0 := geom.PointF{X: tHat1.X * b1, Y: tHat1.Y * b1}
		a1 := geom.PointF{X: tHat2.X * b2, Y: tHat2.Y * b2}

		c00 += a0.Dot(a0)
		c01 += a0.Dot(a1)
		c11 += a1.Dot(a1)

		tmp := geom.PointF{
			X: points[i].X - (p1.X*(b0+b1) + p4.X*(b2+b3)),
			Y: points[i].Y - (p1.Y*(b0+b1) + p4.Y*(b2+b3)),
		}
		x0 += a0.Dot(tmp)
		x1 += a1.Dot(tmp)
	}

	detC0C1 := c00*c11 - c01*c01
	detC0X := c00*x1 - c01*x0
	detXC1 := x0*c11 - x1*c01

	var alphaL, alphaR float64
	if detC0C1 != 0 {
		alphaL = detXC1 / detC0C1
		alphaR = detC0X / detC0C1
	}

	segLength := p1.Sub(p4).Norm()
	epsilon := 1e-6 * segLength
	if segLength == 0 || alphaL < epsilon || alphaR < epsilon {
		alphaL = segLength / 3
		alphaR = segLength / 3
	}

	c1 = geom.PointF{X: p1.X + tHat1.X*alphaL, Y: p1.Y + tHat1.Y*alphaL}
	c2 = geom.PointF{X: p4.X + tHat2.X*alphaR, Y: p4.Y + tHat2.Y*alphaR}
	return p1, c1, c2, p4
}

func bezierBasis(t float64) (b0, b1, b2, b3 float64) {
	mt := 1 - t
	b0 = mt * mt * mt
	b1 = 3 * mt * mt * t
	b2 = 3 * mt * t * t
	b3 = t * t * t
	return
}

func leftTangent(points []geom.PointF) geom.PointF {
	return points[1].Sub(points[0]).Normalize()
}

func rightTangent(points []geom.PointF) geom.PointF {
	n := len(points)
	return points[n-2].Sub(points[n-1]).Normalize()
}

func chordLengthParameterize(points []geom.PointF) []float64 {
	n := len(points)
	u := make([]float64, n)
	for i := 1; i < n; i++ {
		u[i] = u[i-1] + points[i].Sub(points[i-1]).Norm()
	}
	total := u[n-1]
	if total == 0 {
		return u
	}
	for i := range u {
		u[i] /= total
	}
	return u
}

// retractHandles pulls both control handles in to their shared intersection
// point whenever the turning direction at A and at B/C reverse sign
// (the handles cross), following the reference implementation's actual
// comparison rather than its prose description (see the design notes for
// the discrepancy). Parallel handle lines are left untouched; for coincident
// lines FindIntersection yields the midpoint of a-b and both handles move there.
func retractHandles(a, b, c, d geom.PointF) (geom.PointF, geom.PointF, geom.PointF, geom.PointF) {
	da := a.Sub(d)
	ab := b.Sub(a)
	dab := geom.SignedAngleDifference(geom.Angle(da.Normalize()), geom.Angle(ab.Normalize()))

	bc := c.Sub(b)
	abc := geom.SignedAngleDifference(geom.Angle(ab.Normalize()), geom.Angle(bc.Normalize()))

	if math.Signbit(dab) != math.Signbit(abc) {
		if p, _, ok := geom.FindIntersection(a, b, c, d); ok {
			return a, p, p, d
		}
	}
	return a, b, c, d
}
