package colormodel

import (
	"math"
	"testing"
)

func TestSame(t *testing.T) {
	cases := []struct {
		name      string
		a, b      Color
		shift     uint
		threshold int32
		want      bool
	}{
		{"identical", Color{R: 100, G: 150, B: 200}, Color{R: 100, G: 150, B: 200}, 4, 1, true},
		{"within shifted threshold", Color{R: 100}, Color{R: 115}, 4, 1, true},
		{"beyond shifted threshold", Color{R: 100}, Color{R: 164}, 4, 1, false},
		{"exact comparison", Color{R: 100}, Color{R: 101}, 0, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Same(FromColor(c.a), FromColor(c.b), c.shift, c.threshold)
			if got != c.want {
				t.Fatalf("Same(%v, %v, %d, %d) = %v", c.a, c.b, c.shift, c.threshold, got)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	a := FromColor(Color{R: 10, G: 20, B: 30})
	b := FromColor(Color{R: 30, G: 10, B: 35})
	if got := Diff(a, b); got != 20+10+5 {
		t.Fatalf("Diff: got %d", got)
	}
	if got := Diff(a, a); got != 0 {
		t.Fatalf("Diff with itself: got %d", got)
	}
}

func TestToHSV(t *testing.T) {
	cases := []struct {
		name    string
		c       Color
		h, s, v float64
	}{
		{"red", Color{R: 255}, 0, 1, 1},
		{"green", Color{G: 255}, 120, 1, 1},
		{"blue", Color{B: 255}, 240, 1, 1},
		{"white", Color{R: 255, G: 255, B: 255}, 0, 0, 1},
		{"black", Color{}, 0, 0, 0},
		{"gray", Color{R: 128, G: 128, B: 128}, 0, 0, 128.0 / 255},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hsv := c.c.ToHSV()
			if math.Abs(hsv.H-c.h) > 1e-9 || math.Abs(hsv.S-c.s) > 1e-9 || math.Abs(hsv.V-c.v) > 1e-9 {
				t.Fatalf("got %+v, want h=%v s=%v v=%v", hsv, c.h, c.s, c.v)
			}
		})
	}
}

func TestPaletteColorCycles(t *testing.T) {
	if PaletteColor(0) != PaletteColor(8) {
		t.Fatal("palette must cycle with period 8")
	}
	if PaletteColor(3) == PaletteColor(4) {
		t.Fatal("adjacent palette entries must differ")
	}
	if PaletteColor(-1) != PaletteColor(7) {
		t.Fatal("negative indices must wrap")
	}
}

func TestColorStrings(t *testing.T) {
	c := Color{R: 0xAB, G: 0x0C, B: 0xD4, A: 0xFF}
	if got := c.ToHexString(); got != "#AB0CD4" {
		t.Fatalf("ToHexString: got %q", got)
	}
	if got := c.ToColorString(); got != "rgba(171,12,212,1)" {
		t.Fatalf("ToColorString: got %q", got)
	}
}

func TestChannel(t *testing.T) {
	c := Color{R: 1, G: 2, B: 3, A: 4}
	for i, want := range []uint8{1, 2, 3, 4} {
		got, ok := c.Channel(i)
		if !ok || got != want {
			t.Fatalf("Channel(%d) = %d, %v", i, got, ok)
		}
	}
	if _, ok := c.Channel(4); ok {
		t.Fatal("Channel(4) must be out of range")
	}
}

func TestColorSum(t *testing.T) {
	var s ColorSum
	s.Add(Color{R: 10, G: 20, B: 30, A: 255})
	s.Add(Color{R: 20, G: 40, B: 60, A: 255})
	avg := s.Average()
	if avg != (Color{R: 15, G: 30, B: 45, A: 255}) {
		t.Fatalf("Average: got %+v", avg)
	}

	var other ColorSum
	other.Add(Color{R: 30, G: 60, B: 90, A: 255})
	s.Merge(other)
	if s.Count != 3 {
		t.Fatalf("Merge: count %d", s.Count)
	}
	if got := s.Average(); got != (Color{R: 20, G: 40, B: 60, A: 255}) {
		t.Fatalf("Average after merge: got %+v", got)
	}

	s.Clear()
	if s.Average() != (Color{}) {
		t.Fatal("cleared sum must average to zero color")
	}
}

func TestColorStatBuilder(t *testing.T) {
	var b ColorStatBuilder
	for _, c := range []Color{{R: 10}, {R: 20}, {R: 30}} {
		b.Add(c)
	}
	stat := b.Build()
	if stat.Mean.R != 20 {
		t.Fatalf("mean: got %d", stat.Mean.R)
	}
	want := math.Sqrt(200.0 / 3.0)
	if math.Abs(stat.Deviation.R-want) > 1e-9 {
		t.Fatalf("deviation: got %v want %v", stat.Deviation.R, want)
	}
	if stat.Deviation.G != 0 {
		t.Fatalf("constant channel deviation must be 0, got %v", stat.Deviation.G)
	}
}
