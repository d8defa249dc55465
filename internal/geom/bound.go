package geom

// BoundingRect is an axis-aligned integer bounding rectangle defined by its
// left/top/right/bottom edges. Right and bottom are exclusive, matching the
// half-open pixel-range convention used throughout the rasterizer.
type BoundingRect struct {
	Left, Top, Right, Bottom int
}

// NewBoundingRect returns a degenerate bounding rect anchored at p (a single
// point, suitable for accumulation via AddPoint).
func NewBoundingRect(p Point) BoundingRect {
	return BoundingRect{Left: p.X, Top: p.Y, Right: p.X + 1, Bottom: p.Y + 1}
}

// Width returns the width of the rectangle.
func (b BoundingRect) Width() int { return b.Right - b.Left }

// Height returns the height of the rectangle.
func (b BoundingRect) Height() int { return b.Bottom - b.Top }

// IsEmpty reports whether the rectangle has zero width AND zero height (the
// only state reached by a never-accumulated rect), not merely one zero
// dimension.
func (b BoundingRect) IsEmpty() bool {
	return b.Width() == 0 && b.Height() == 0
}

// AddPoint grows b so that it also covers p.
func (b BoundingRect) AddPoint(p Point) BoundingRect {
	if b.IsEmpty() {
		return NewBoundingRect(p)
	}
	r := b
	if p.X < r.Left {
		r.Left = p.X
	}
	if p.X+1 > r.Right {
		r.Right = p.X + 1
	}
	if p.Y < r.Top {
		r.Top = p.Y
	}
	if p.Y+1 > r.Bottom {
		r.Bottom = p.Y + 1
	}
	return r
}

// Merge returns the smallest rectangle containing both b and o.
func (b BoundingRect) Merge(o BoundingRect) BoundingRect {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return BoundingRect{
		Left:   min(b.Left, o.Left),
		Top:    min(b.Top, o.Top),
		Right:  max(b.Right, o.Right),
		Bottom: max(b.Bottom, o.Bottom),
	}
}

// Clip returns the intersection of b and o. The result is empty if they do
// not overlap.
func (b BoundingRect) Clip(o BoundingRect) BoundingRect {
	r := BoundingRect{
		Left:   max(b.Left, o.Left),
		Top:    max(b.Top, o.Top),
		Right:  min(b.Right, o.Right),
		Bottom: min(b.Bottom, o.Bottom),
	}
	if r.Right <= r.Left || r.Bottom <= r.Top {
		return BoundingRect{}
	}
	return r
}

// Hit reports whether p lies within b (right/bottom exclusive).
func (b BoundingRect) Hit(p Point) bool {
	return p.X >= b.Left && p.X < b.Right && p.Y >= b.Top && p.Y < b.Bottom
}

// Translate shifts b by offset.
func (b BoundingRect) Translate(offset Point) BoundingRect {
	return BoundingRect{
		Left:   b.Left + offset.X,
		Top:    b.Top + offset.Y,
		Right:  b.Right + offset.X,
		Bottom: b.Bottom + offset.Y,
	}
}

// Squared grows b to the minimum enclosing square, keeping the content
// centered (the extra rows/columns split evenly, odd remainders toward the
// right/bottom).
func (b BoundingRect) Squared() BoundingRect {
	size := max(b.Width(), b.Height())
	left := b.Left - (size-b.Width())>>1
	top := b.Top - (size-b.Height())>>1
	return BoundingRect{Left: left, Top: top, Right: left + size, Bottom: top + size}
}

// PointOnBoundary reports whether p lies on one of b's four edges, each
// extended by tolerance units past its endpoints along its own direction.
func (b BoundingRect) PointOnBoundary(p Point, tolerance int) bool {
	t := tolerance
	if (p.X == b.Left || p.X == b.Right) && b.Top-t <= p.Y && p.Y <= b.Bottom+t {
		return true
	}
	return (p.Y == b.Top || p.Y == b.Bottom) && b.Left-t <= p.X && p.X <= b.Right+t
}

// TopLeft returns the top-left corner of b.
func (b BoundingRect) TopLeft() Point { return Point{b.Left, b.Top} }

// GetBoundaryPointsFrom walks the lattice points of b's boundary starting
// from p, in the given orientation, returning each point once. p must lie
// strictly on the boundary (tolerance 0); otherwise nil is returned.
func (b BoundingRect) GetBoundaryPointsFrom(p Point, clockwise bool) []Point {
	if b.Width() <= 0 || b.Height() <= 0 || !b.PointOnBoundary(p, 0) {
		return nil
	}

	points := []Point{p}
	var offset Point
	switch {
	case p.X == b.Left:
		offset = Point{X: 0, Y: -1}
	case p.Y == b.Top:
		offset = Point{X: 1, Y: 0}
	case p.X == b.Right:
		offset = Point{X: 0, Y: 1}
	default:
		offset = Point{X: -1, Y: 0}
	}
	if !clockwise {
		offset = offset.Neg()
	}
	curr := p.Add(offset)
	if !b.PointOnBoundary(curr, 0) {
		if clockwise {
			curr = curr.Rotate90CW(p)
		} else {
			curr = curr.Rotate90CCW(p)
		}
	}

	neighbours := [4]Point{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	prev := p
	for curr != p {
		points = append(points, curr)
		temp := curr
		for _, o := range neighbours {
			next := curr.Add(o)
			if next != prev && b.PointOnBoundary(next, 0) {
				curr = next
				break
			}
		}
		prev = temp
	}
	return points
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// BoundStat summarizes a set of bounding rects: average area and extents
// plus minimum extents. The sums run in 64-bit so a large rect set cannot
// overflow the area accumulator.
type BoundStat struct {
	AverageArea   int
	AverageWidth  int
	AverageHeight int
	MinWidth      int
	MinHeight     int
}

// CalculateBoundStat aggregates rects; it returns the zero value for an
// empty set.
func CalculateBoundStat(rects []BoundingRect) BoundStat {
	if len(rects) == 0 {
		return BoundStat{}
	}
	var sumArea, sumWidth, sumHeight int64
	minWidth, minHeight := rects[0].Width(), rects[0].Height()
	for _, r := range rects {
		w, h := r.Width(), r.Height()
		sumArea += int64(w) * int64(h)
		sumWidth += int64(w)
		sumHeight += int64(h)
		minWidth = min(minWidth, w)
		minHeight = min(minHeight, h)
	}
	n := int64(len(rects))
	return BoundStat{
		AverageArea:   int(sumArea / n),
		AverageWidth:  int(sumWidth / n),
		AverageHeight: int(sumHeight / n),
		MinWidth:      minWidth,
		MinHeight:     minHeight,
	}
}
