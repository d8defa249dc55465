// Package colormodel implements the RGBA color type and its arithmetic
// variants (signed-integer difference space, floating point average space,
// running-sum accumulator, HSV) used by the color-cluster builder and the
// palette-based supplemented rendering features.
package colormodel

import (
	"fmt"
	"math"
)

// Color is an 8-bit RGBA color, the unit the color-cluster builder and
// raster ingestion exchange.
type Color struct {
	R, G, B, A uint8
}

// palette is the fixed 8-entry qualitative palette behind PaletteColor.
var palette = [8]Color{
	{0xD8, 0x33, 0x4A, 0xFF}, // Ruby
	{0xFF, 0xE8, 0x60, 0xFF}, // Lemon
	{0xA0, 0xD4, 0x68, 0xFF}, // Grass
	{0x48, 0xCF, 0xAD, 0xFF}, // Mint
	{0x4F, 0xC1, 0xE9, 0xFF}, // Aqua
	{0x5D, 0x9C, 0xEC, 0xFF}, // Jeans
	{0x80, 0x67, 0xB7, 0xFF}, // Plum
	{0xAC, 0x92, 0xEC, 0xFF}, // Lavender
}

// PaletteColor returns the i-th entry of the fixed 8-color palette, cycling
// for i >= 8.
func PaletteColor(i int) Color {
	return palette[((i%8)+8)%8]
}

// ToColorString renders c as a CSS rgba(...) string.
func (c Color) ToColorString() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.4g)", c.R, c.G, c.B, float64(c.A)/255.0)
}

// ToHexString renders c as a #RRGGBB hex string (alpha dropped).
func (c Color) ToHexString() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ToHSV converts c to hue/saturation/value space.
func (c Color) ToHSV() ColorHSV {
	r, g, b := float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0
	maxV := math.Max(r, math.Max(g, b))
	minV := math.Min(r, math.Min(g, b))
	delta := maxV - minV

	v := maxV
	var s float64
	if maxV != 0 {
		s = delta / maxV
	}

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxV == r:
		h = math.Mod((g-b)/delta, 6)
	case maxV == g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return ColorHSV{H: h, S: s, V: v}
}

// Channel returns the i-th channel (0=R,1=G,2=B,3=A), or (0,false) if out of
// range.
func (c Color) Channel(i int) (uint8, bool) {
	switch i {
	case 0:
		return c.R, true
	case 1:
		return c.G, true
	case 2:
		return c.B, true
	case 3:
		return c.A, true
	default:
		return 0, false
	}
}

// ColorHSV is a hue/saturation/value triple (H in [0,360), S and V in [0,1]).
type ColorHSV struct {
	H, S, V float64
}

// ColorI32 is a signed-integer RGB triple used for the color-cluster
// builder's difference and comparison arithmetic, where subtraction must not
// wrap the way uint8 would.
type ColorI32 struct {
	R, G, B int32
}

// FromColor converts an 8-bit color to signed space.
func FromColor(c Color) ColorI32 {
	return ColorI32{R: int32(c.R), G: int32(c.G), B: int32(c.B)}
}

// Diff returns the sum of the absolute per-channel differences between a
// and b, the builder's color-distance metric.
func Diff(a, b ColorI32) int32 {
	return iabs(a.R-b.R) + iabs(a.G-b.G) + iabs(a.B-b.B)
}

// Same reports whether a and b are "the same color" once each channel is
// right-shifted by shift bits: true iff every shifted-channel absolute
// difference is at most threshold.
func Same(a, b ColorI32, shift uint, threshold int32) bool {
	ra, ga, ba := a.R>>shift, a.G>>shift, a.B>>shift
	rb, gb, bb := b.R>>shift, b.G>>shift, b.B>>shift
	return iabs(ra-rb) <= threshold && iabs(ga-gb) <= threshold && iabs(ba-bb) <= threshold
}

func iabs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// ColorF64 is a floating point RGB triple, the result of averaging a
// ColorSum.
type ColorF64 struct {
	R, G, B float64
}

// ColorSum accumulates RGBA channel totals plus a sample count, so a
// cluster's average color can be maintained incrementally as pixels are
// added and merged without revisiting every pixel.
type ColorSum struct {
	R, G, B, A uint64
	Count      uint32
}

// Add folds one sample into the sum.
func (s *ColorSum) Add(c Color) {
	s.R += uint64(c.R)
	s.G += uint64(c.G)
	s.B += uint64(c.B)
	s.A += uint64(c.A)
	s.Count++
}

// Merge folds another running sum into s (used when two clusters combine).
func (s *ColorSum) Merge(o ColorSum) {
	s.R += o.R
	s.G += o.G
	s.B += o.B
	s.A += o.A
	s.Count += o.Count
}

// Average returns the mean color of the accumulated samples, or the zero
// color if none were added.
func (s ColorSum) Average() Color {
	if s.Count == 0 {
		return Color{}
	}
	n := uint64(s.Count)
	return Color{
		R: uint8(s.R / n),
		G: uint8(s.G / n),
		B: uint8(s.B / n),
		A: uint8(s.A / n),
	}
}

// Clear resets s to its zero value.
func (s *ColorSum) Clear() { *s = ColorSum{} }

// ColorStat is the mean and per-channel standard deviation of a set of
// samples, a supplemented diagnostic feature; no other package in this
// module calls it.
type ColorStat struct {
	Mean      ColorI32
	Deviation ColorF64
}

// ColorStatBuilder accumulates running mean/variance per channel using
// Welford's online algorithm, so a full second pass over the samples isn't
// needed to compute the deviation.
type ColorStatBuilder struct {
	r, g, b simpleStatBuilder
}

// Add folds one sample into the builder.
func (b *ColorStatBuilder) Add(c Color) {
	b.r.add(float64(c.R))
	b.g.add(float64(c.G))
	b.b.add(float64(c.B))
}

// Build finalizes the accumulated samples into a ColorStat.
func (b *ColorStatBuilder) Build() ColorStat {
	return ColorStat{
		Mean: ColorI32{
			R: int32(math.Round(b.r.mean)),
			G: int32(math.Round(b.g.mean)),
			B: int32(math.Round(b.b.mean)),
		},
		Deviation: ColorF64{
			R: b.r.stddev(),
			G: b.g.stddev(),
			B: b.b.stddev(),
		},
	}
}

type simpleStatBuilder struct {
	count int
	mean  float64
	m2    float64
}

func (s *simpleStatBuilder) add(x float64) {
	s.count++
	delta := x - s.mean
	s.mean += delta / float64(s.count)
	delta2 := x - s.mean
	s.m2 += delta * delta2
}

func (s *simpleStatBuilder) stddev() float64 {
	if s.count < 2 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(s.count))
}
