// Package smooth implements spec component S: four-point subdivision
// smoothing of a closed polyline with corner preservation, corner
// detection, and splice-point (inflection) detection for downstream spline
// fitting.
package smooth

import (
	"math"

	"github.com/cwbudde/vectorcortex/internal/geom"
)

// FindCorners classifies each vertex of a closed integer polygon (path's
// last point must repeat its first) as a corner when the turning angle at
// that vertex is at least threshold radians. The returned slice has one
// fewer entry than path, since the repeated closing point carries no
// independent corner state.
func FindCorners(path []geom.Point, threshold float64) []bool {
	n := len(path) - 1
	if n <= 0 {
		return nil
	}
	corners := make([]bool, n)
	for i := 0; i < n; i++ {
		prev := n - 1
		if i != 0 {
			prev = i - 1
		}
		next := (i + 1) % n

		v1 := path[i].Sub(path[prev]).ToFloat().Normalize()
		v2 := path[next].Sub(path[i]).ToFloat().Normalize()

		diff := geom.SignedAngleDifference(geom.Angle(v1), geom.Angle(v2))
		if math.Abs(diff) >= threshold {
			corners[i] = true
		}
	}
	return corners
}

// FindSplicePoints classifies each vertex of a closed floating point
// polygon as a splice point (a place where the fitted spline should be cut
// into a separate Bezier segment): either a point of inflection (the
// turning direction flips sign) or the point where the cumulative turning
// angle since the last splice point reaches threshold radians.
func FindSplicePoints(path []geom.PointF, threshold float64) []bool {
	n := len(path) - 1
	if n <= 0 {
		return nil
	}
	splice := make([]bool, n)
	var isIncreasing bool
	var angleDisp float64

	for i := 0; i < n; i++ {
		prev := n - 1
		if i != 0 {
			prev = i - 1
		}
		next := (i + 1) % n

		v1 := path[i].Sub(path[prev]).Normalize()
		v2 := path[next].Sub(path[i]).Normalize()

		diff := geom.SignedAngleDifference(geom.Angle(v1), geom.Angle(v2))
		currentlyIncreasing := diff >= 0 && !math.Signbit(diff)

		if i == 0 {
			isIncreasing = currentlyIncreasing
		} else if isIncreasing != currentlyIncreasing {
			splice[i] = true
			isIncreasing = currentlyIncreasing
		}

		angleDisp += diff
		if math.Abs(angleDisp) >= threshold {
			splice[i] = true
		}
		if splice[i] {
			angleDisp = 0
		}
	}
	return splice
}

// DefaultOutsetRatio is the reference implementation's fixed 1:8 ratio
// between the four-point scheme's displacement and the gap between the
// midpoints it averages.
const DefaultOutsetRatio = 8.0

// SubdivideKeepCorners runs one round of four-point (Dyn-Levin-Gregory)
// subdivision over a closed floating point polygon, skipping segments
// shorter than lengthThreshold and falling back to a three-point scheme
// (or skipping entirely) at corners so sharp features are preserved.
// It returns the refined path, the corner flags realigned to the new
// vertex indices, and whether every inserted segment is now within
// lengthThreshold (signalling iteration can stop).
func SubdivideKeepCorners(path []geom.PointF, corners []bool, outsetRatio, lengthThreshold float64) ([]geom.PointF, []bool, bool) {
	n := len(path) - 1
	canTerminate := true

	var newPath []geom.PointF
	var newCorners []bool

	for i := 0; i < n; i++ {
		newPath = append(newPath, path[i])
		newCorners = append(newCorners, corners[i])
		j := (i + 1) % n

		lengthCurr := path[i].Sub(path[j]).Norm()
		if lengthCurr <= lengthThreshold {
			continue
		}

		prev := n - 1
		if i != 0 {
			prev = i - 1
		}
		next := (j + 1) % n

		lengthPrev := path[prev].Sub(path[i]).Norm()
		lengthNext := path[next].Sub(path[j]).Norm()
		if lengthPrev/lengthCurr >= 2.0 || lengthNext/lengthCurr >= 2.0 {
			continue
		}

		if corners[i] {
			prev = i
		}
		if corners[j] {
			next = j
		}

		if prev == i && next == j {
			continue
		}

		newPoint := findNewPointFrom4PointScheme(path[i], path[j], path[prev], path[next], outsetRatio)
		newPath = append(newPath, newPoint)
		newCorners = append(newCorners, false)
		if path[i].Sub(newPoint).Norm() > lengthThreshold || path[j].Sub(newPoint).Norm() > lengthThreshold {
			canTerminate = false
		}
	}

	newPath = append(newPath, newPath[0])
	return newPath, newCorners, canTerminate
}

func findNewPointFrom4PointScheme(pi, pj, p1, p2 geom.PointF, outsetRatio float64) geom.PointF {
	midOut := geom.Mid(pi, pj)
	midIn := geom.Mid(p1, p2)

	vectorOut := midOut.Sub(midIn)
	newMagnitude := vectorOut.Norm() / outsetRatio
	if newMagnitude < 1e-5 {
		return midOut
	}
	unit := vectorOut.Normalize()
	return midOut.Add(geom.PointF{X: unit.X * newMagnitude, Y: unit.Y * newMagnitude})
}
