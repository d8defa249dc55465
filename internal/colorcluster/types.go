// Package colorcluster implements spec component C (§4.6), the hierarchical
// color-segmentation builder: single-pass raster labelling followed by
// area-ordered hierarchical merging driven by caller-supplied same/diff/
// deepen/hollow predicates, plus (§4.7) rendering each resulting region back
// to paths via the assembly package.
package colorcluster

import (
	"github.com/cwbudde/vectorcortex/internal/assembly"
	"github.com/cwbudde/vectorcortex/internal/binclusters"
	"github.com/cwbudde/vectorcortex/internal/colormodel"
	"github.com/cwbudde/vectorcortex/internal/geom"
	"github.com/cwbudde/vectorcortex/internal/raster"
	"github.com/cwbudde/vectorcortex/internal/svgpath"
	"github.com/cwbudde/vectorcortex/internal/walker"
)

// ClusterIndex addresses a Cluster within a Clusters container by its label.
type ClusterIndex int32

// ZeroIndex is the sentinel label reserved for keyed-and-kept or
// never-visited pixels; it never appears in ClustersOutput.
const ZeroIndex ClusterIndex = 0

// Cluster is one labelled region: the set of global pixel indices it owns,
// any hole pixels punched out of it by hierarchical hollowing, and running
// color statistics maintained incrementally as pixels are added or merged.
type Cluster struct {
	Indices    []uint32
	Holes      []uint32
	NumHoles   uint32
	Depth      uint32
	Sum        colormodel.ColorSum
	ResidueSum colormodel.ColorSum
	Rect       geom.BoundingRect
	MergedInto ClusterIndex
}

// Add folds pixel i (flat index into the parent image) at (x,y) with color c
// into the cluster.
func (c *Cluster) Add(i uint32, col colormodel.Color, x, y int) {
	c.Indices = append(c.Indices, i)
	c.Sum.Add(col)
	c.Rect = c.Rect.AddPoint(geom.Point{X: x, Y: y})
}

// Area returns the number of pixels the cluster owns.
func (c *Cluster) Area() int { return len(c.Indices) }

// Color returns the cluster's mean color over all pixels ever added to it
// (its lifetime sum, not affected by hierarchical deepening).
func (c *Cluster) Color() colormodel.Color { return c.Sum.Average() }

// ResidueColor returns the mean color captured at the moment Stage 2 began,
// the color a deepened ancestor should render with once its descendants
// have been carved out as their own output regions.
func (c *Cluster) ResidueColor() colormodel.Color { return c.ResidueSum.Average() }

// ToImage renders the cluster (plus its holes, punched out) into a local
// 1-bit image cropped to its bounding rect. parentWidth is the owning
// image's row stride, needed to recover each pixel's (x,y) from its flat
// global index.
func (c *Cluster) ToImage(parentWidth int) *raster.BinaryImage {
	return c.ToImageWithHole(parentWidth, true)
}

// ToImageWithHole is ToImage but lets the caller keep hole pixels set
// (hole=false) instead of punching them out, used internally by
// ToCompoundPath, which re-labels the punched-out image itself.
func (c *Cluster) ToImageWithHole(parentWidth int, hole bool) *raster.BinaryImage {
	img := raster.NewBinaryImage(c.Rect.Width(), c.Rect.Height())
	for _, i := range c.Indices {
		x, y := int(i)%parentWidth, int(i)/parentWidth
		img.Set(x-c.Rect.Left, y-c.Rect.Top, true)
	}
	if hole {
		for _, i := range c.Holes {
			x, y := int(i)%parentWidth, int(i)/parentWidth
			img.Set(x-c.Rect.Left, y-c.Rect.Top, false)
		}
	}
	return img
}

// Perimeter returns the count of boundary pixels of the cluster's own
// (hole-punched) local image: a raster-scan boundary-pixel tally, not a
// walked path length, matching the reference implementation's use of the
// flat boundary list rather than the contour walker for this measurement.
func (c *Cluster) Perimeter(parentWidth int) int {
	return len(walker.BoundaryList(c.ToImage(parentWidth)))
}

// RenderToBinaryImage paints every pixel the cluster owns as set into image,
// which must share the parent's dimensions.
func (c *Cluster) RenderToBinaryImage(parentWidth int, image *raster.BinaryImage) {
	for _, i := range c.Indices {
		x, y := int(i)%parentWidth, int(i)/parentWidth
		image.Set(x, y, true)
	}
}

// RenderToColorImage paints every pixel the cluster owns with its residue
// color.
func (c *Cluster) RenderToColorImage(parentWidth int, image *raster.ColorImage) {
	c.RenderToColorImageWithColor(parentWidth, image, c.ResidueColor())
}

// RenderToColorImageWithColor paints every pixel the cluster owns with col.
func (c *Cluster) RenderToColorImageWithColor(parentWidth int, image *raster.ColorImage, col colormodel.Color) {
	for _, i := range c.Indices {
		x, y := int(i)%parentWidth, int(i)/parentWidth
		image.Set(x, y, col.R, col.G, col.B, col.A)
	}
}

// ToCompoundPath re-labels the cluster's own hole-punched local image into
// its connected sub-regions (a cluster can be topologically disconnected
// once its holes are punched out) and assembles each sub-region's outer and
// hole contours into one CompoundPath, offset back into the parent image's
// coordinate space.
func (c *Cluster) ToCompoundPath(parentWidth int, hole bool, mode assembly.PathSimplifyMode, cornerThreshold, lengthThreshold float64, maxIterations int, spliceThreshold float64) (*svgpath.CompoundPath, error) {
	out := &svgpath.CompoundPath{}
	img := c.ToImageWithHole(parentWidth, hole)
	subclusters, err := binclusters.ToClusters(img, false)
	if err != nil {
		return nil, err
	}
	for _, sub := range subclusters.Clusters {
		origin := geom.Point{X: c.Rect.Left + sub.Rect.Left, Y: c.Rect.Top + sub.Rect.Top}
		sp, err := assembly.ImageToCompoundPath(origin, sub.ToBinaryImage(), mode, cornerThreshold, lengthThreshold, maxIterations, spliceThreshold)
		if err != nil {
			return nil, err
		}
		out.Elements = append(out.Elements, sp.Elements...)
	}
	return out, nil
}

// Neighbours returns the sorted, de-duplicated set of distinct non-zero,
// non-self cluster labels found among the four cardinal neighbours of every
// pixel the cluster owns.
func (c *Cluster) Neighbours(view *ClustersView) []ClusterIndex {
	if len(c.Indices) == 0 {
		return nil
	}
	myself := view.ClusterIndices[c.Indices[0]]
	seen := make(map[ClusterIndex]bool)
	width, height := view.Width, view.Height

	for _, i := range c.Indices {
		x, y := int(i)%width, int(i)/width
		var candidates [4]ClusterIndex
		if y > 0 {
			candidates[0] = view.ClusterIndices[width*(y-1)+x]
		}
		if y < height-1 {
			candidates[1] = view.ClusterIndices[width*(y+1)+x]
		}
		if x > 0 {
			candidates[2] = view.ClusterIndices[width*y+(x-1)]
		}
		if x < width-1 {
			candidates[3] = view.ClusterIndices[width*y+(x+1)]
		}
		for _, idx := range candidates {
			if idx != ZeroIndex && idx != myself {
				seen[idx] = true
			}
		}
	}

	out := make([]ClusterIndex, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sortClusterIndices(out)
	return out
}

func sortClusterIndices(s []ClusterIndex) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Clusters is the finished, immutable result of a builder run.
type Clusters struct {
	Width, Height  int
	Pixels         []byte
	Clusters       []*Cluster
	ClusterIndices []ClusterIndex
	ClustersOutput []ClusterIndex
}

// BoundStat summarizes the bounding rects of the output clusters (average
// and minimum extents), a cheap post-run shape-distribution diagnostic.
func (c *Clusters) BoundStat() geom.BoundStat {
	rects := make([]geom.BoundingRect, 0, len(c.ClustersOutput))
	for _, idx := range c.ClustersOutput {
		rects = append(rects, c.Clusters[idx].Rect)
	}
	return geom.CalculateBoundStat(rects)
}

// View returns a read-only snapshot for passing to Cluster methods and
// predicates.
func (c *Clusters) View() *ClustersView {
	return &ClustersView{
		Width:          c.Width,
		Height:         c.Height,
		Pixels:         c.Pixels,
		Clusters:       c.Clusters,
		ClusterIndices: c.ClusterIndices,
		ClustersOutput: c.ClustersOutput,
	}
}

// ClustersView is a shared-read snapshot of a Clusters (or in-progress
// builder) state, the loan predicates receive during Stage 2 evaluation.
type ClustersView struct {
	Width, Height  int
	Pixels         []byte
	Clusters       []*Cluster
	ClusterIndices []ClusterIndex
	ClustersOutput []ClusterIndex
}

// GetCluster returns the cluster addressed by index.
func (v *ClustersView) GetCluster(index ClusterIndex) *Cluster { return v.Clusters[index] }

// GetClusterAt returns the label assigned to the pixel at flat index i.
func (v *ClustersView) GetClusterAt(i int) ClusterIndex { return v.ClusterIndices[i] }

// GetClusterAtPoint returns the label assigned to the pixel at p.
func (v *ClustersView) GetClusterAtPoint(p geom.Point) ClusterIndex {
	return v.ClusterIndices[p.Y*v.Width+p.X]
}

// GetPixel returns the color at (x,y), or false if out of bounds.
func (v *ClustersView) GetPixel(x, y int) (colormodel.Color, bool) {
	if x < 0 || y < 0 || x >= v.Width {
		return colormodel.Color{}, false
	}
	return getPixelAt(v.Pixels, y*v.Width+x)
}

func getPixelAt(pixels []byte, i int) (colormodel.Color, bool) {
	idx := i * 4
	if i < 0 || idx+3 >= len(pixels) {
		return colormodel.Color{}, false
	}
	return colormodel.Color{R: pixels[idx], G: pixels[idx+1], B: pixels[idx+2], A: pixels[idx+3]}, true
}
