// Package svgpath holds the vector path representations produced by the
// assembly stage (spec component "Path<T>"/Spline/CompoundPath) and their
// SVG path-data serialization.
package svgpath

import (
	"strconv"
	"strings"

	"github.com/cwbudde/vectorcortex/internal/geom"
)

// Polygon is a closed integer or simplified polyline outline (the "None" and
// "Polygon" output modes).
type Polygon struct {
	Points []geom.Point
}

// Spline is a closed sequence of cubic Bezier control points, flattened as
// anchor, then (ctrl1, ctrl2, anchor) repeated once per curve segment
// (len == 1+3n).
type Spline struct {
	Points []geom.PointF
}

// CompoundPathElement is either a Polygon or a Spline subpath; a
// CompoundPath mixes outer contours and holes, each rendered independently.
type CompoundPathElement struct {
	Polygon *Polygon
	Spline  *Spline
}

// CompoundPath is an ordered set of subpaths sharing one SVG "d" attribute,
// the unit the assembly stage emits for a single color cluster (outer
// boundary first, followed by any hole boundaries).
type CompoundPath struct {
	Elements []CompoundPathElement
}

// AddPolygon appends a polygon subpath.
func (c *CompoundPath) AddPolygon(p *Polygon) {
	c.Elements = append(c.Elements, CompoundPathElement{Polygon: p})
}

// AddSpline appends a spline subpath.
func (c *CompoundPath) AddSpline(s *Spline) {
	c.Elements = append(c.Elements, CompoundPathElement{Spline: s})
}

// IsEmpty reports whether the compound path has no subpaths.
func (c *CompoundPath) IsEmpty() bool { return len(c.Elements) == 0 }

// ToSVGPath renders the full compound path as one SVG path-data string at
// full numeric precision.
func (c *CompoundPath) ToSVGPath() string {
	return c.ToSVGPathPrecision(FullPrecision)
}

// ToSVGPathPrecision is ToSVGPath with a configurable spline numeric
// precision (polygons are always integer and unaffected); see spec §6.
func (c *CompoundPath) ToSVGPathPrecision(precision int) string {
	var sb strings.Builder
	for _, e := range c.Elements {
		switch {
		case e.Polygon != nil:
			sb.WriteString(e.Polygon.ToSVGPath(true))
		case e.Spline != nil:
			sb.WriteString(e.Spline.ToSVGPathPrecision(true, precision))
		}
	}
	return sb.String()
}

// ToClosed returns path with its first point repeated as its last. Already
// closed paths are returned unchanged, so ToClosed and ToOpen are inverse on
// paths in either canonical form.
func ToClosed(path []geom.Point) []geom.Point {
	if len(path) == 0 || path[len(path)-1] == path[0] {
		return path
	}
	out := make([]geom.Point, len(path)+1)
	copy(out, path)
	out[len(path)] = path[0]
	return out
}

// ToOpen strips the repeated closing point, if present.
func ToOpen(path []geom.Point) []geom.Point {
	if len(path) > 1 && path[len(path)-1] == path[0] {
		return path[:len(path)-1]
	}
	return path
}

// ToClosedF is ToClosed for float paths.
func ToClosedF(path []geom.PointF) []geom.PointF {
	if len(path) == 0 || path[len(path)-1] == path[0] {
		return path
	}
	out := make([]geom.PointF, len(path)+1)
	copy(out, path)
	out[len(path)] = path[0]
	return out
}

// ToOpenF is ToOpen for float paths.
func ToOpenF(path []geom.PointF) []geom.PointF {
	if len(path) > 1 && path[len(path)-1] == path[0] {
		return path[:len(path)-1]
	}
	return path
}

func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return s
}

// FullPrecision requests unrounded formatting (strconv's shortest
// round-trippable representation), spec §6's "None" precision option.
const FullPrecision = -1

// formatFloatP renders v with a fixed number of decimals and trailing
// zeros (and a trailing decimal point) stripped, or at full precision when
// precision is FullPrecision. Matches spec §6 E8: precision 1 on 2.22
// yields "2.2", not "2.20".
func formatFloatP(v float64, precision int) string {
	if precision < 0 {
		return formatFloat(v)
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// ToSVGPath renders the polygon as "M{x},{y} L{x},{y} ... [Z ]", comma
// separated coordinate pairs matching the reference integer-path format.
func (p *Polygon) ToSVGPath(close bool) string {
	if len(p.Points) == 0 {
		return ""
	}
	pts := p.Points
	if close && len(pts) > 1 && pts[len(pts)-1] == pts[0] {
		pts = pts[:len(pts)-1]
	}
	var sb strings.Builder
	sb.WriteString("M")
	sb.WriteString(formatInt(pts[0].X))
	sb.WriteString(",")
	sb.WriteString(formatInt(pts[0].Y))
	sb.WriteString(" ")
	for _, pt := range pts[1:] {
		sb.WriteString("L")
		sb.WriteString(formatInt(pt.X))
		sb.WriteString(",")
		sb.WriteString(formatInt(pt.Y))
		sb.WriteString(" ")
	}
	if close {
		sb.WriteString("Z ")
	}
	return sb.String()
}

// ToSVGPath renders the spline as "M{x} {y} C{x} {y} {x} {y} {x} {y} ...
// [Z ]", space-separated numbers at full precision.
func (s *Spline) ToSVGPath(close bool) string {
	return s.ToSVGPathPrecision(close, FullPrecision)
}

// ToSVGPathPrecision is ToSVGPath with spec §6's configurable numeric
// precision: FullPrecision for unrounded output, or a fixed number of
// decimals with trailing zeros stripped (E8: precision 1 on 2.22 -> "2.2").
func (s *Spline) ToSVGPathPrecision(close bool, precision int) string {
	n := len(s.Points)
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("M")
	sb.WriteString(formatFloatP(s.Points[0].X, precision))
	sb.WriteString(" ")
	sb.WriteString(formatFloatP(s.Points[0].Y, precision))
	sb.WriteString(" ")

	for i := 1; i+2 < n; i += 3 {
		c1, c2, p := s.Points[i], s.Points[i+1], s.Points[i+2]
		sb.WriteString("C")
		sb.WriteString(formatFloatP(c1.X, precision))
		sb.WriteString(" ")
		sb.WriteString(formatFloatP(c1.Y, precision))
		sb.WriteString(" ")
		sb.WriteString(formatFloatP(c2.X, precision))
		sb.WriteString(" ")
		sb.WriteString(formatFloatP(c2.Y, precision))
		sb.WriteString(" ")
		sb.WriteString(formatFloatP(p.X, precision))
		sb.WriteString(" ")
		sb.WriteString(formatFloatP(p.Y, precision))
		sb.WriteString(" ")
	}
	if close {
		sb.WriteString("Z ")
	}
	return sb.String()
}
