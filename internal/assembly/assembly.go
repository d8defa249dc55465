// Package assembly implements spec component §4.7: rendering one connected
// region to a local 1-bit image, walking its boundary (and any holes) into
// integer or simplified-and-fitted paths, and stitching the outer contour
// with its hole contours into a single CompoundPath.
package assembly

import (
	"github.com/cwbudde/vectorcortex/internal/binclusters"
	"github.com/cwbudde/vectorcortex/internal/geom"
	"github.com/cwbudde/vectorcortex/internal/pathsimplify"
	"github.com/cwbudde/vectorcortex/internal/raster"
	"github.com/cwbudde/vectorcortex/internal/smooth"
	"github.com/cwbudde/vectorcortex/internal/splinefit"
	"github.com/cwbudde/vectorcortex/internal/svgpath"
	"github.com/cwbudde/vectorcortex/internal/walker"
)

// PathSimplifyMode selects how a region's walked boundary is turned into an
// output path.
type PathSimplifyMode int

const (
	// ModeNone emits the raw walker output.
	ModeNone PathSimplifyMode = iota
	// ModePolygon applies staircase removal and penalty-limited simplification.
	ModePolygon
	// ModeSpline additionally smooths and fits a cubic Bezier spline.
	ModeSpline
)

// DefaultMaxIterations is the subdivision smoother's iteration cap used when
// a caller does not override it.
const DefaultMaxIterations = 10

// DefaultOutsetRatio is the four-point subdivision scheme's fixed 1:8 ratio.
const DefaultOutsetRatio = smooth.DefaultOutsetRatio

// ImageToPath walks img's boundary starting from its first raster-order
// boundary pixel and, depending on mode, simplifies it. None and Spline
// modes both return the unsimplified baseline walk (Spline mode applies its
// own smoothing pipeline separately, see ImageToSpline).
func ImageToPath(img *raster.BinaryImage, clockwise bool, mode PathSimplifyMode) ([]geom.Point, error) {
	path, err := imageToPathBaseline(img, clockwise)
	if err != nil {
		return nil, err
	}
	if mode == ModePolygon {
		path = pathsimplify.RemoveStaircase(path, clockwise)
		path = pathsimplify.LimitPenalties(path)
	}
	return path, nil
}

func imageToPathBaseline(img *raster.BinaryImage, clockwise bool) ([]geom.Point, error) {
	start, ok := walker.FindStart(img)
	if !ok {
		return nil, nil
	}
	return walker.Walk(img, start, clockwise)
}

// ImageToSpline runs the full smoothing-and-fitting pipeline of §4.4/§4.5 on
// img's boundary: baseline walk, staircase removal, penalty-limited
// simplification, corner detection, iterative four-point subdivision,
// splice-point detection, and least-squares spline fitting. It reports false
// if the boundary collapses to fewer than 2 points (the degenerate case of
// §7's error table), in which case the caller should treat the region as an
// empty spline.
func ImageToSpline(img *raster.BinaryImage, clockwise bool, cornerThreshold, outsetRatio, lengthThreshold float64, maxIterations int, spliceThreshold float64) ([]geom.PointF, bool, error) {
	baseline, err := imageToPathBaseline(img, clockwise)
	if err != nil {
		return nil, false, err
	}
	if len(baseline) < 2 {
		return nil, false, nil
	}

	simplified := pathsimplify.LimitPenalties(pathsimplify.RemoveStaircase(baseline, clockwise))
	if len(simplified) < 2 {
		return nil, false, nil
	}

	floatPath := make([]geom.PointF, len(simplified))
	for i, p := range simplified {
		floatPath[i] = p.ToFloat()
	}
	if floatPath[len(floatPath)-1] != floatPath[0] {
		floatPath = append(floatPath, floatPath[0])
	}

	corners := smooth.FindCorners(svgpath.ToClosed(simplified), cornerThreshold)
	path, corners := subdivideIterative(floatPath, corners, outsetRatio, lengthThreshold, maxIterations)

	splice := smooth.FindSplicePoints(path, spliceThreshold)
	points := splinefit.Fit(path, splice)
	if len(points) < 4 {
		return nil, false, nil
	}
	return points, true, nil
}

// subdivideIterative repeatedly applies one round of four-point subdivision
// until every segment is within lengthThreshold of the threshold or
// maxIterations rounds have run, reconstructing the reference
// implementation's `subdivide_iterative` driver loop (absent from the
// example corpus) from the single-round primitive it's documented to call.
func subdivideIterative(path []geom.PointF, corners []bool, outsetRatio, lengthThreshold float64, maxIterations int) ([]geom.PointF, []bool) {
	for i := 0; i < maxIterations; i++ {
		next, nextCorners, done := smooth.SubdivideKeepCorners(path, corners, outsetRatio, lengthThreshold)
		path, corners = next, nextCorners
		if done {
			break
		}
	}
	return path, corners
}

// boundaryImage pairs a local 1-bit image with the offset (in the parent
// region's coordinate space) of its top-left corner.
type boundaryImage struct {
	image  *raster.BinaryImage
	offset geom.Point
}

// collectBoundaries renders img's outer boundary plus every enclosed hole
// that does not touch the raster edge (an edge-touching "hole" is background
// bleeding in from outside the region, not a true enclosed hole) back into
// the outer image, so the outer path reflects hole-free topology, and
// returns the outer image followed by one entry per retained hole.
func collectBoundaries(img *raster.BinaryImage) ([]boundaryImage, error) {
	outer := img.Crop(geom.BoundingRect{Left: 0, Top: 0, Right: img.Width, Bottom: img.Height})
	boundaries := []boundaryImage{{image: outer, offset: geom.Point{}}}

	holes, err := binclusters.ToClusters(img.Not(), false)
	if err != nil {
		return nil, err
	}
	for _, hole := range holes.Clusters {
		if hole.Rect.Left == 0 || hole.Rect.Top == 0 ||
			hole.Rect.Right == img.Width || hole.Rect.Bottom == img.Height {
			continue
		}
		for _, p := range hole.Points {
			outer.SetPoint(p, true)
		}
		boundaries = append(boundaries, boundaryImage{
			image:  hole.ToBinaryImage(),
			offset: hole.Rect.TopLeft(),
		})
	}
	return boundaries, nil
}

// ImageToPaths returns one integer polygon for the outer boundary and one
// per retained hole, each already offset into img's local coordinate space.
func ImageToPaths(img *raster.BinaryImage, mode PathSimplifyMode) ([]*svgpath.Polygon, error) {
	boundaries, err := collectBoundaries(img)
	if err != nil {
		return nil, err
	}
	var out []*svgpath.Polygon
	for i, b := range boundaries {
		path, err := ImageToPath(b.image, i == 0, mode)
		if err != nil {
			return nil, err
		}
		if len(path) == 0 {
			continue
		}
		offset(path, b.offset)
		out = append(out, &svgpath.Polygon{Points: path})
	}
	return out, nil
}

// ImageToSplines returns one fitted spline for the outer boundary and one
// per retained hole, each offset into img's local coordinate space.
func ImageToSplines(img *raster.BinaryImage, cornerThreshold, lengthThreshold float64, maxIterations int, spliceThreshold float64) ([]*svgpath.Spline, error) {
	boundaries, err := collectBoundaries(img)
	if err != nil {
		return nil, err
	}
	var out []*svgpath.Spline
	for i, b := range boundaries {
		points, ok, err := ImageToSpline(b.image, i == 0, cornerThreshold, DefaultOutsetRatio, lengthThreshold, maxIterations, spliceThreshold)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		offsetF(points, b.offset.ToFloat())
		out = append(out, &svgpath.Spline{Points: points})
	}
	return out, nil
}

// ImageToCompoundPath is the top-level §4.7 entry point: it renders the
// subpaths for mode and assembles them, offset by origin, into a single
// CompoundPath ready for SVG serialization.
func ImageToCompoundPath(origin geom.Point, img *raster.BinaryImage, mode PathSimplifyMode, cornerThreshold, lengthThreshold float64, maxIterations int, spliceThreshold float64) (*svgpath.CompoundPath, error) {
	out := &svgpath.CompoundPath{}
	switch mode {
	case ModeNone, ModePolygon:
		paths, err := ImageToPaths(img, mode)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			offset(p.Points, origin)
			out.AddPolygon(p)
		}
	case ModeSpline:
		splines, err := ImageToSplines(img, cornerThreshold, lengthThreshold, maxIterations, spliceThreshold)
		if err != nil {
			return nil, err
		}
		for _, s := range splines {
			offsetF(s.Points, origin.ToFloat())
			out.AddSpline(s)
		}
	}
	return out, nil
}

func offset(path []geom.Point, o geom.Point) {
	for i := range path {
		path[i] = path[i].Add(o)
	}
}

func offsetF(path []geom.PointF, o geom.PointF) {
	for i := range path {
		path[i] = path[i].Add(o)
	}
}
