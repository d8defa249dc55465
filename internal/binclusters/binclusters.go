// Package binclusters implements the single-color connected-component
// labelling engine (spec component B): grouping the set pixels of a
// BinaryImage into clusters via a single raster-order pass with retrospective
// merging, plus a recursive diagonal-bridge breaker for turning
// diagonally-connected shapes into orthogonally-connected ones before
// contour walking.
package binclusters

import (
	"errors"
	"math"

	"github.com/cwbudde/vectorcortex/internal/geom"
	"github.com/cwbudde/vectorcortex/internal/raster"
	"github.com/cwbudde/vectorcortex/internal/walker"
)

// ErrLabelOverflow is returned instead of panicking when a single image
// produces more distinct cluster labels than fit in a label grid slot,
// so a pathological input cannot crash a long-running job server.
var ErrLabelOverflow = errors.New("binclusters: label index overflow")

// Cluster is a connected group of set pixels, recorded in absolute image
// coordinates.
type Cluster struct {
	Points []geom.Point
	Rect   geom.BoundingRect
}

// Add appends p to the cluster and grows its bounding rect.
func (c *Cluster) Add(p geom.Point) {
	c.Points = append(c.Points, p)
	c.Rect = c.Rect.AddPoint(p)
}

// Size returns the number of pixels in the cluster.
func (c *Cluster) Size() int { return len(c.Points) }

// ToBinaryImage renders the cluster into a tightly-cropped local image,
// (0,0) corresponding to the cluster's bounding rect top-left.
func (c *Cluster) ToBinaryImage() *raster.BinaryImage {
	img := raster.NewBinaryImage(c.Rect.Width(), c.Rect.Height())
	for _, p := range c.Points {
		img.Set(p.X-c.Rect.Left, p.Y-c.Rect.Top, true)
	}
	return img
}

// Boundary returns the cluster's own contour outline as a walked point
// sequence in absolute coordinates (used when the cluster's perimeter or
// shape is examined independent of the source raster).
func (c *Cluster) Boundary() ([]geom.Point, error) {
	img := c.ToBinaryImage()
	start, ok := walker.FindStart(img)
	if !ok {
		return nil, nil
	}
	pts, err := walker.Walk(img, start, true)
	if err != nil {
		return nil, err
	}
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Point{X: p.X + c.Rect.Left, Y: p.Y + c.Rect.Top}
	}
	return out, nil
}

// Offset translates every point and the bounding rect of c by o.
func (c *Cluster) Offset(o geom.Point) {
	for i := range c.Points {
		c.Points[i] = c.Points[i].Add(o)
	}
	c.Rect = c.Rect.Translate(o)
}

// Clusters is an ordered collection of Cluster, plus the union of their
// bounding rects.
type Clusters struct {
	Clusters []*Cluster
	Rect     geom.BoundingRect
}

// Add appends c to the collection and grows the collection's rect.
func (cs *Clusters) Add(c *Cluster) {
	cs.Rect = cs.Rect.Merge(c.Rect)
	cs.Clusters = append(cs.Clusters, c)
}

// labelGrid is a per-pixel int32 grid used to remember which cluster owns
// each already-visited pixel during the single-pass scan.
type labelGrid struct {
	width, height int
	labels        []int32
}

func newLabelGrid(w, h int) *labelGrid {
	return &labelGrid{width: w, height: h, labels: make([]int32, w*h)}
}

func (g *labelGrid) get(x, y int) int32 { return g.labels[y*g.width+x] }
func (g *labelGrid) set(x, y int, v int32) { g.labels[y*g.width+x] = v }

// ToClusters labels the set pixels of img into connected clusters. With
// diagonal set, a pixel touching only a diagonal neighbor (no shared edge)
// still joins that neighbor's cluster; the resulting shapes may then need
// BreakCluster before contour walking.
func ToClusters(img *raster.BinaryImage, diagonal bool) (*Clusters, error) {
	var clusters []*Cluster
	var rect geom.BoundingRect
	grid := newLabelGrid(img.Width, img.Height)
	var clusterIndex int32

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			pos := geom.Point{X: x, Y: y}
			v := img.Get(x, y)
			vUp := img.Get(x, y-1)
			vLeft := img.Get(x-1, y)
			vUpLeft := img.Get(x-1, y-1)

			var clusterUp, clusterLeft, clusterUpLeft int32
			if y > 0 {
				clusterUp = grid.get(x, y-1)
			}
			if x > 0 {
				clusterLeft = grid.get(x-1, y)
			}
			if x > 0 && y > 0 {
				clusterUpLeft = grid.get(x-1, y-1)
			}

			if (v || diagonal) && vUp && vLeft && clusterLeft != clusterUp {
				if clusters[clusterLeft].Size() <= clusters[clusterUp].Size() {
					combineCluster(clusters, grid, clusterLeft, clusterUp)
					if clusterIndex > 0 && clusterLeft == clusterIndex-1 && int(clusterIndex) == len(clusters) {
						clusterIndex--
					}
					clusterLeft = clusterUp
				} else {
					combineCluster(clusters, grid, clusterUp, clusterLeft)
					clusterUp = clusterLeft
				}
			}

			if v {
				rect = rect.AddPoint(pos)
				switch {
				case vUp:
					grid.set(x, y, clusterUp)
					clusters[clusterUp].Add(pos)
				case vLeft:
					grid.set(x, y, clusterLeft)
					clusters[clusterLeft].Add(pos)
				case vUpLeft && diagonal:
					grid.set(x, y, clusterUpLeft)
					clusters[clusterUpLeft].Add(pos)
				default:
					nc := &Cluster{}
					nc.Add(pos)
					if int(clusterIndex) < len(clusters) {
						clusters[clusterIndex] = nc
					} else {
						clusters = append(clusters, nc)
					}
					grid.set(x, y, clusterIndex)
					clusterIndex++
					if clusterIndex == math.MaxInt32 {
						return nil, ErrLabelOverflow
					}
				}
			}
		}
	}

	out := &Clusters{Rect: rect}
	for _, c := range clusters {
		if c.Size() != 0 {
			out.Clusters = append(out.Clusters, c)
		}
	}
	return out, nil
}

func combineCluster(clusters []*Cluster, grid *labelGrid, from, to int32) {
	for _, p := range clusters[from].Points {
		grid.set(p.X, p.Y, to)
	}
	moved := clusters[from].Points
	clusters[from].Points = nil
	clusters[to].Points = append(clusters[to].Points, moved...)
	clusters[to].Rect = clusters[to].Rect.Merge(clusters[from].Rect)
}

// breakAtLeast is the minimum resulting cluster size below which a proposed
// diagonal-bridge break is rejected as degenerate.
const breakAtLeast = 5

// BreakCluster splits cluster wherever it is held together only by a single
// diagonally-touching pixel pair (a checkerboard-style bridge), recursing
// until no more such bridges remain or breaking would leave a fragment
// smaller than breakAtLeast pixels.
func BreakCluster(cluster *Cluster) (*Clusters, error) {
	out := &Clusters{}
	if err := breakClusterRecursive(cluster, out); err != nil {
		return nil, err
	}
	return out, nil
}

func breakClusterRecursive(cluster *Cluster, output *Clusters) error {
	img := cluster.ToBinaryImage()
	const w, h = 2, 3
	broke := false

	if img.Width >= w && img.Height >= h {
	outer:
		for y := 0; y <= img.Height-h; y++ {
			for x := 0; x <= img.Width-w; x++ {
				if img.Get(x, y) != img.Get(x+1, y) &&
					img.Get(x, y+1) && img.Get(x+1, y+1) &&
					img.Get(x, y+2) != img.Get(x+1, y+2) &&
					img.Get(x, y) == img.Get(x+1, y+2) {
					if x < img.Width-2 && img.Get(x+2, y+1) {
						img.Set(x+1, y+1, false)
						broke = true
						break outer
					} else if x > 0 && img.Get(x-1, y+1) {
						img.Set(x, y+1, false)
						broke = true
						break outer
					}
				}
			}
		}
	}

	clusters, err := ToClusters(img, false)
	if err != nil {
		return err
	}

	if broke {
		min := -1
		for _, c := range clusters.Clusters {
			if min < 0 || c.Size() < min {
				min = c.Size()
			}
		}
		if min < breakAtLeast {
			broke = false
		}
	}

	if broke {
		for _, cc := range clusters.Clusters {
			cc.Offset(geom.Point{X: cluster.Rect.Left, Y: cluster.Rect.Top})
			if err := breakClusterRecursive(cc, output); err != nil {
				return err
			}
		}
	} else {
		output.Add(cluster)
	}
	return nil
}
