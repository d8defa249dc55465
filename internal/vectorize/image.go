// Package vectorize wires the color-cluster builder, its default
// predicates, and the assembly stage together into one tickable job: given
// a raster image and a configuration, it produces a set of SVG compound
// paths, one per retained color region.
package vectorize

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cwbudde/vectorcortex/internal/raster"
)

// LoadImage decodes an image file from disk (PNG, JPEG, or GIF) and
// converts it to the row-major RGBA byte layout the clustering pipeline
// consumes.
func LoadImage(path string) (*raster.ColorImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vectorize: open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("vectorize: decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := raster.NewColorImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Set(x, y, byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8))
		}
	}

	return out, nil
}
