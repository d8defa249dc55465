// Package geom provides the integer and floating point geometry primitives
// shared by every stage of the vectorization pipeline: points, vectors and
// bounding rectangles.
package geom

import "math"

// Point is an integer 2D point.
type Point struct {
	X, Y int
}

// PointF is a floating point 2D point.
type PointF struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Neg returns -p.
func (p Point) Neg() Point { return Point{-p.X, -p.Y} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) int { return p.X*q.X + p.Y*q.Y }

// SqDist returns the squared Euclidean distance between p and q.
func (p Point) SqDist(q Point) int {
	d := p.Sub(q)
	return d.X*d.X + d.Y*d.Y
}

// Norm returns the Euclidean norm of p.
func (p Point) Norm() float64 { return math.Sqrt(float64(p.X*p.X + p.Y*p.Y)) }

// ToFloat converts p to floating point.
func (p Point) ToFloat() PointF { return PointF{float64(p.X), float64(p.Y)} }

// Rotate90CW rotates p by 90 degrees clockwise about origin (y-down screen
// convention: clockwise on screen is (x,y) -> (-y,x)).
func (p Point) Rotate90CW(origin Point) Point {
	d := p.Sub(origin)
	return origin.Add(Point{-d.Y, d.X})
}

// Rotate90CCW rotates p by 90 degrees counter-clockwise about origin.
func (p Point) Rotate90CCW(origin Point) Point {
	d := p.Sub(origin)
	return origin.Add(Point{d.Y, -d.X})
}

// Add returns p+q.
func (p PointF) Add(q PointF) PointF { return PointF{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p PointF) Sub(q PointF) PointF { return PointF{p.X - q.X, p.Y - q.Y} }

// Neg returns -p.
func (p PointF) Neg() PointF { return PointF{-p.X, -p.Y} }

// Dot returns the dot product of p and q.
func (p PointF) Dot(q PointF) float64 { return p.X*q.X + p.Y*q.Y }

// Norm returns the Euclidean norm of p.
func (p PointF) Norm() float64 { return math.Sqrt(p.X*p.X + p.Y*p.Y) }

// Normalize returns p scaled to unit length. The zero vector is returned
// unchanged.
func (p PointF) Normalize() PointF {
	n := p.Norm()
	if n == 0 {
		return p
	}
	return PointF{p.X / n, p.Y / n}
}

// Rotate rotates p by angle radians about origin.
func (p PointF) Rotate(origin PointF, angle float64) PointF {
	d := p.Sub(origin)
	sin, cos := math.Sincos(angle)
	return origin.Add(PointF{
		X: d.X*cos - d.Y*sin,
		Y: d.X*sin + d.Y*cos,
	})
}

// Translate returns p+offset.
func (p PointF) Translate(offset PointF) PointF { return p.Add(offset) }

// ToInt rounds p to the nearest integer point.
func (p PointF) ToInt() Point {
	return Point{int(math.Round(p.X)), int(math.Round(p.Y))}
}

// Mid returns the midpoint of a and b.
func Mid(a, b PointF) PointF {
	return PointF{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Angle returns the angle of unit vector p in (-pi, pi], using the
// acos-plus-sign-of-y construction from the reference implementation
// (equivalent to atan2(y, x) for a normalized vector).
func Angle(p PointF) float64 {
	a := math.Acos(p.X)
	if math.Signbit(p.Y) {
		return -a
	}
	return a
}

// SignedAngleDifference returns the smallest signed rotation in (-pi, pi]
// that takes the angle `from` to the angle `to`.
func SignedAngleDifference(from, to float64) float64 {
	if from > to {
		to += 2 * math.Pi
	}
	diff := to - from
	if diff > math.Pi {
		diff -= 2 * math.Pi
	}
	return diff
}

// SignedArea returns twice the signed area of triangle (p1,p2,p3). Positive
// values indicate a clockwise winding under a y-down coordinate convention.
func SignedArea(p1, p2, p3 PointF) float64 {
	return (p2.X-p1.X)*(p3.Y-p1.Y) - (p3.X-p1.X)*(p2.Y-p1.Y)
}

// SignedAreaInt is the integer-point variant of SignedArea.
func SignedAreaInt(p1, p2, p3 Point) int {
	return (p2.X-p1.X)*(p3.Y-p1.Y) - (p3.X-p1.X)*(p2.Y-p1.Y)
}

const negligibleEpsilon = 1e-7

func negligible(v float64) bool { return v > -negligibleEpsilon && v < negligibleEpsilon }

// Intersection describes where two line segments (p1,p2) and (p3,p4) cross,
// expressed as the relative position along each segment (0 at the first
// endpoint, 1 at the second).
type Intersection struct {
	MuA, MuB float64
}

// Outside reports whether the intersection lies outside either segment
// (with a small tolerance for points that land exactly on an endpoint).
func (i Intersection) Outside() bool {
	const e = 1e-3
	return i.MuA < -e || i.MuA > 1+e || i.MuB < -e || i.MuB > 1+e
}

// Inside is the negation of Outside.
func (i Intersection) Inside() bool { return !i.Outside() }

// Coincide reports whether the two segments are collinear and overlapping
// (FindIntersection returns the midpoint of (p1,p2) in that case).
func (i Intersection) Coincide() bool {
	return math.IsNaN(i.MuA) && math.IsNaN(i.MuB)
}

// FindIntersection returns the crossing point of line (p1,p2) and line
// (p3,p4) extended infinitely in both directions, along with its relative
// position on each segment. It returns false if the lines are parallel and
// distinct. If the lines coincide, the midpoint of (p1,p2) is returned with
// MuA=MuB=NaN.
func FindIntersection(p1, p2, p3, p4 PointF) (PointF, Intersection, bool) {
	denom := (p4.Y-p3.Y)*(p2.X-p1.X) - (p4.X-p3.X)*(p2.Y-p1.Y)
	numerA := (p4.X-p3.X)*(p1.Y-p3.Y) - (p4.Y-p3.Y)*(p1.X-p3.X)
	numerB := (p2.X-p1.X)*(p1.Y-p3.Y) - (p2.Y-p1.Y)*(p1.X-p3.X)

	if negligible(denom) && negligible(numerA) && negligible(numerB) {
		return Mid(p1, p2), Intersection{MuA: math.NaN(), MuB: math.NaN()}, true
	}
	if negligible(denom) {
		return PointF{}, Intersection{}, false
	}

	muA := numerA / denom
	muB := numerB / denom
	return PointF{
		X: p1.X + muA*(p2.X-p1.X),
		Y: p1.Y + muA*(p2.Y-p1.Y),
	}, Intersection{MuA: muA, MuB: muB}, true
}
