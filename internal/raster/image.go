// Package raster provides the two pixel-grid representations the
// vectorization pipeline operates on: a 1-bit BinaryImage (cluster masks,
// contour walking) and a byte-packed ColorImage (the RGBA source raster).
package raster

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/vectorcortex/internal/geom"
)

// BinaryImage is a dense width*height grid of booleans, stored one byte per
// pixel for simplicity (the pipeline never operates on images large enough
// to make bit-packing worthwhile, and byte access keeps the hot loops in
// the color-cluster builder and contour walker branch-free).
type BinaryImage struct {
	Width, Height int
	pixels        []bool
}

// NewBinaryImage returns a cleared width*height image.
func NewBinaryImage(width, height int) *BinaryImage {
	return &BinaryImage{Width: width, Height: height, pixels: make([]bool, width*height)}
}

// Get returns the pixel at (x,y), or false if out of bounds.
func (b *BinaryImage) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.pixels[y*b.Width+x]
}

// GetPoint is the Point-argument form of Get.
func (b *BinaryImage) GetPoint(p geom.Point) bool { return b.Get(p.X, p.Y) }

// Set sets the pixel at (x,y). Out-of-bounds writes are ignored.
func (b *BinaryImage) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.pixels[y*b.Width+x] = v
}

// SetPoint is the Point-argument form of Set.
func (b *BinaryImage) SetPoint(p geom.Point, v bool) { b.Set(p.X, p.Y, v) }

// BoundingRect returns the tight bounding rectangle of all set pixels.
func (b *BinaryImage) BoundingRect() geom.BoundingRect {
	var r geom.BoundingRect
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Get(x, y) {
				r = r.AddPoint(geom.Point{X: x, Y: y})
			}
		}
	}
	return r
}

// Crop returns a new image containing only the pixels within rect,
// translated so rect.TopLeft() becomes (0,0).
func (b *BinaryImage) Crop(rect geom.BoundingRect) *BinaryImage {
	out := NewBinaryImage(rect.Width(), rect.Height())
	for y := 0; y < rect.Height(); y++ {
		for x := 0; x < rect.Width(); x++ {
			out.Set(x, y, b.Get(rect.Left+x, rect.Top+y))
		}
	}
	return out
}

// Paste copies src onto b with its top-left corner at offset.
func (b *BinaryImage) Paste(src *BinaryImage, offset geom.Point) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if src.Get(x, y) {
				b.Set(offset.X+x, offset.Y+y, true)
			}
		}
	}
}

// Pad returns a copy of b surrounded by `margin` cleared pixels on every
// side. A one-pixel pad is required before contour walking so a cluster
// that touches the raster edge still has an admissible outside neighbour.
func (b *BinaryImage) Pad(margin int) *BinaryImage {
	out := NewBinaryImage(b.Width+2*margin, b.Height+2*margin)
	out.Paste(b, geom.Point{X: margin, Y: margin})
	return out
}

// Not returns the pixelwise complement of b.
func (b *BinaryImage) Not() *BinaryImage {
	out := NewBinaryImage(b.Width, b.Height)
	for i, v := range b.pixels {
		out.pixels[i] = !v
	}
	return out
}

// And returns the pixelwise AND of b and o, which must have equal dimensions.
func (b *BinaryImage) And(o *BinaryImage) (*BinaryImage, error) {
	return b.combine(o, func(a, c bool) bool { return a && c })
}

// Or returns the pixelwise OR of b and o, which must have equal dimensions.
func (b *BinaryImage) Or(o *BinaryImage) (*BinaryImage, error) {
	return b.combine(o, func(a, c bool) bool { return a || c })
}

// Xor returns the pixelwise XOR of b and o, which must have equal dimensions.
func (b *BinaryImage) Xor(o *BinaryImage) (*BinaryImage, error) {
	return b.combine(o, func(a, c bool) bool { return a != c })
}

func (b *BinaryImage) combine(o *BinaryImage, op func(a, c bool) bool) (*BinaryImage, error) {
	if b.Width != o.Width || b.Height != o.Height {
		return nil, fmt.Errorf("raster: mismatched dimensions %dx%d vs %dx%d", b.Width, b.Height, o.Width, o.Height)
	}
	out := NewBinaryImage(b.Width, b.Height)
	for i := range b.pixels {
		out.pixels[i] = op(b.pixels[i], o.pixels[i])
	}
	return out, nil
}

// Area returns the number of set pixels.
func (b *BinaryImage) Area() int {
	n := 0
	for _, v := range b.pixels {
		if v {
			n++
		}
	}
	return n
}

// DiffCount scores how much b and o differ: the number of pixels set in
// exactly one of the two images. The images must have equal dimensions.
func (b *BinaryImage) DiffCount(o *BinaryImage) (int, error) {
	if b.Width != o.Width || b.Height != o.Height {
		return 0, fmt.Errorf("raster: mismatched dimensions %dx%d vs %dx%d", b.Width, b.Height, o.Width, o.Height)
	}
	n := 0
	for i := range b.pixels {
		if b.pixels[i] != o.pixels[i] {
			n++
		}
	}
	return n, nil
}

// Rotate returns b rotated by angle radians around its center, using
// nearest-neighbor sampling into a canvas expanded to hold the rotated
// extents.
func (b *BinaryImage) Rotate(angle float64) *BinaryImage {
	sin, cos := math.Sincos(angle)
	w, h := float64(b.Width), float64(b.Height)
	rw := int(math.Round(w*math.Abs(cos) + h*math.Abs(sin)))
	rh := int(math.Round(w*math.Abs(sin) + h*math.Abs(cos)))

	out := NewBinaryImage(rw, rh)
	origin := geom.PointF{X: float64(rw / 2), Y: float64(rh / 2)}
	offset := geom.PointF{X: float64(rw-b.Width) / 2, Y: float64(rh-b.Height) / 2}
	for y := 0; y < rh; y++ {
		for x := 0; x < rw; x++ {
			src := geom.PointF{X: float64(x), Y: float64(y)}.Rotate(origin, -angle).Translate(offset.Neg())
			out.Set(x, y, b.Get(int(math.Round(src.X)), int(math.Round(src.Y))))
		}
	}
	return out
}

// FromString parses a newline-separated picture of the image, '*' for set
// pixels and any other character for unset. Width is taken from the first
// line.
func FromString(s string) *BinaryImage {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	height := len(lines)
	width := 0
	if height > 0 {
		width = len(lines[0])
	}
	img := NewBinaryImage(width, height)
	for y, line := range lines {
		for x, c := range line {
			img.Set(x, y, c == '*')
		}
	}
	return img
}

// String renders the image in the FromString picture format, '-' for unset.
func (b *BinaryImage) String() string {
	var sb strings.Builder
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Get(x, y) {
				sb.WriteByte('*')
			} else {
				sb.WriteByte('-')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RotateCW returns b rotated 90 degrees clockwise.
func (b *BinaryImage) RotateCW() *BinaryImage {
	out := NewBinaryImage(b.Height, b.Width)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Get(x, y) {
				out.Set(b.Height-1-y, x, true)
			}
		}
	}
	return out
}

// ColorImage is a flat RGBA raster, four bytes per pixel, matching the
// ingestion contract in spec section 6 (a decoded RGBA buffer with explicit
// width/height).
type ColorImage struct {
	Width, Height int
	Pixels        []byte // len == Width*Height*4, R,G,B,A order
}

// NewColorImage returns a cleared (fully transparent black) width*height
// image.
func NewColorImage(width, height int) *ColorImage {
	return &ColorImage{Width: width, Height: height, Pixels: make([]byte, width*height*4)}
}

// At returns the RGBA bytes at (x,y).
func (c *ColorImage) At(x, y int) (r, g, b, a byte) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0, 0, 0, 0
	}
	i := (y*c.Width + x) * 4
	return c.Pixels[i], c.Pixels[i+1], c.Pixels[i+2], c.Pixels[i+3]
}

// Set writes the RGBA bytes at (x,y). Out-of-bounds writes are ignored.
func (c *ColorImage) Set(x, y int, r, g, b, a byte) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	i := (y*c.Width + x) * 4
	c.Pixels[i], c.Pixels[i+1], c.Pixels[i+2], c.Pixels[i+3] = r, g, b, a
}
