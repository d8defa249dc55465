// Package colorcluster implements spec component C (§4.6), the hierarchical
// color-segmentation builder: single-pass raster labelling followed by
// area-ordered hierarchical merging driven by caller-supplied same/diff/
// deepen/hollow predicates, plus (§4.7) rendering each resulting region back
// to paths via the assembly package.
package colorcluster

import (
	"errors"
	"sort"

	"github.com/cwbudde/vectorcortex/internal/colormodel"
	"github.com/cwbudde/vectorcortex/internal/geom"
	"github.com/cwbudde/vectorcortex/internal/raster"
)

// ErrLabelOverflow is returned instead of panicking when the number of
// distinct clusters would exceed the 32-bit label space.
var ErrLabelOverflow = errors.New("colorcluster: label index overflow")

// HierarchicalMax signals an unbounded hierarchy: every cluster is eligible
// to be merged away regardless of area, and deepen is evaluated for every
// merge decision (with any other Hierarchical value deepen is never
// evaluated).
const HierarchicalMax = ^uint32(0)

// KeyingAction describes what happens to pixels that exactly match the
// configured key color.
type KeyingAction int

const (
	// KeyingKeep assigns keyed pixels to the reserved label-0 bucket.
	KeyingKeep KeyingAction = iota
	// KeyingDiscard drops keyed pixels from every cluster entirely.
	KeyingDiscard
)

// Same reports whether two colors should be merged during raster labelling.
type Same func(a, b colormodel.Color) bool

// Diff returns an ordering key used when choosing which neighbour a cluster
// merges into; smaller is "more similar".
type Diff func(a, b colormodel.Color) int32

// Deepen decides whether a cluster should be recorded as its own output
// region just before it is absorbed into sorted[0]'s target.
type Deepen func(view *ClustersView, cluster *Cluster, sorted []NeighbourInfo) bool

// Hollow decides whether a cluster's pixels should be recorded as a hole of
// the cluster it is being merged into.
type Hollow func(view *ClustersView, cluster *Cluster, sorted []NeighbourInfo) bool

// NeighbourInfo pairs a neighbouring cluster's label with its color-distance
// key relative to the cluster under consideration.
type NeighbourInfo struct {
	Index ClusterIndex
	Diff  int32
}

// BuilderConfig configures a Builder run. Defaults (per spec §6) are
// diagonal=true, hierarchical=HierarchicalMax, batch_size=10000,
// key=zero-color, keying=Keep.
type BuilderConfig struct {
	Diagonal     bool
	Hierarchical uint32
	BatchSize    uint32
	Key          colormodel.Color
	KeyingAction KeyingAction
}

// DefaultBuilderConfig returns the spec §6 default configuration.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Diagonal:     true,
		Hierarchical: HierarchicalMax,
		BatchSize:    10000,
		Key:          colormodel.Color{},
		KeyingAction: KeyingKeep,
	}
}

// Builder assembles the inputs to an incremental color-cluster computation:
// an RGBA image, a configuration, and the four predicate seams.
type Builder struct {
	Config BuilderConfig
	Same   Same
	Diff   Diff
	Deepen Deepen
	Hollow Hollow
	Image  *raster.ColorImage
}

// NewBuilder returns a Builder over image with the spec's default
// configuration; callers set predicates and override config fields before
// calling Start or Run.
func NewBuilder(image *raster.ColorImage) *Builder {
	return &Builder{Config: DefaultBuilderConfig(), Image: image}
}

// Run ticks the builder to completion and returns the final result. It is
// equivalent to repeatedly calling Tick on the state Start returns.
func (b *Builder) Run() (*Clusters, error) {
	state, err := b.Start()
	if err != nil {
		return nil, err
	}
	for {
		done, err := state.Tick()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return state.Result(), nil
}

// Start initializes the incremental builder state without doing any work;
// callers drive it with Tick on their own scheduler.
func (b *Builder) Start() (*BuilderState, error) {
	if b.Same == nil || b.Diff == nil || b.Deepen == nil || b.Hollow == nil {
		return nil, errors.New("colorcluster: Same, Diff, Deepen and Hollow predicates are required")
	}
	width, height := b.Image.Width, b.Image.Height
	n := width * height
	return &BuilderState{
		conf:           b.Config,
		same:           b.Same,
		diff:           b.Diff,
		deepen:         b.Deepen,
		hollow:         b.Hollow,
		width:          width,
		height:         height,
		pixels:         b.Image.Pixels,
		clusters:       []*Cluster{{}}, // label 0 is reserved
		clusterIndices: make([]ClusterIndex, n),
		stage:          1,
		nextIndex:      1,
	}, nil
}

// areaBucket is one distinct area value and how many live clusters have it.
type areaBucket struct {
	area  int
	count int
}

// BuilderState is the running, tickable state of a color-cluster
// computation. It is a hand-written state machine over {stage, iteration},
// the coroutine-style driving spec §9 calls for in a language without
// generators.
type BuilderState struct {
	conf   BuilderConfig
	same   Same
	diff   Diff
	deepen Deepen
	hollow Hollow

	width, height  int
	pixels         []byte
	clusters       []*Cluster
	clusterIndices []ClusterIndex
	areas          []areaBucket
	clustersOutput []ClusterIndex

	stage     int // 1, 2, or 0 (done)
	iteration int
	nextIndex ClusterIndex
}

// Tick performs one bounded unit of work (at most BatchSize pixels in
// Stage 1, one or more histogram bins' worth of merges in Stage 2) and returns
// whether the whole computation has finished.
func (s *BuilderState) Tick() (bool, error) {
	switch s.stage {
	case 1:
		done, err := s.tickStage1()
		if err != nil {
			return false, err
		}
		if done {
			if s.conf.Hierarchical != 0 {
				s.stage = 2
				s.iteration = 0
			} else {
				s.emitStage1Output()
				s.stage = 0
			}
		}
		return false, nil
	case 2:
		done, err := s.tickStage2()
		if err != nil {
			return false, err
		}
		if done {
			s.stage = 0
		}
		return false, nil
	default:
		return true, nil
	}
}

// View returns a read-only snapshot of the builder's current state,
// suitable for passing to predicates or inspecting mid-run progress.
func (s *BuilderState) View() *ClustersView {
	return &ClustersView{
		Width:          s.width,
		Height:         s.height,
		Pixels:         s.pixels,
		Clusters:       s.clusters,
		ClusterIndices: s.clusterIndices,
		ClustersOutput: s.clustersOutput,
	}
}

// Progress returns 0-100: 0-50 during Stage 1 proportional to pixels
// scanned, 50-100 during Stage 2 proportional to histogram bins processed.
func (s *BuilderState) Progress() int {
	switch s.stage {
	case 1:
		n := len(s.clusterIndices)
		if n == 0 {
			return 50
		}
		return 50 * s.iteration / n
	case 2:
		n := len(s.areas)
		if n == 0 {
			return 100
		}
		return 50 + 50*s.iteration/n
	default:
		return 100
	}
}

// Stage returns the builder's current stage: 1 during raster-scan
// labelling, 2 during hierarchical merge, 0 once ticking has finished.
func (s *BuilderState) Stage() int { return s.stage }

// Iteration returns the stage-local iteration counter Tick has reached.
func (s *BuilderState) Iteration() int { return s.iteration }

// Result finalizes the builder state into an immutable Clusters value. It
// may be called at any point to obtain a partial result; callers wanting
// the full hierarchy must tick to completion first.
func (s *BuilderState) Result() *Clusters {
	return &Clusters{
		Width:          s.width,
		Height:         s.height,
		Pixels:         s.pixels,
		Clusters:       s.clusters,
		ClusterIndices: s.clusterIndices,
		ClustersOutput: s.clustersOutput,
	}
}

func (s *BuilderState) getCluster(i ClusterIndex) *Cluster { return s.clusters[i] }

func (s *BuilderState) pixelAt(x, y int) (colormodel.Color, bool) {
	if x < 0 || y < 0 {
		return colormodel.Color{}, false
	}
	return getPixelAt(s.pixels, y*s.width+x)
}

func (s *BuilderState) isSame(l, r colormodel.Color, lok, rok bool) bool {
	if !lok || !rok {
		return false
	}
	return s.same(l, r)
}

// tickStage1 processes up to BatchSize pixels of the raster labelling pass,
// mirroring §4.6 Stage 1 exactly (same merge-then-assign order as §4.1).
func (s *BuilderState) tickStage1() (bool, error) {
	n := len(s.clusterIndices)
	batch := int(s.conf.BatchSize)
	if batch <= 0 {
		batch = n
	}
	hasKey := s.conf.Key != (colormodel.Color{})

	end := s.iteration + batch
	if end > n {
		end = n
	}
	for i := s.iteration; i < end; i++ {
		x, y := i%s.width, i/s.width

		color, colorOK := s.pixelAt(x, y)
		up, upOK := s.pixelAt(x, y-1)
		left, leftOK := s.pixelAt(x-1, y)
		upLeft, upLeftOK := s.pixelAt(x-1, y-1)

		var clusterUp, clusterLeft, clusterUpLeft ClusterIndex
		if y > 0 {
			clusterUp = s.clusterIndices[s.width*(y-1)+x]
		}
		if x > 0 {
			clusterLeft = s.clusterIndices[s.width*y+(x-1)]
		}
		if x > 0 && y > 0 {
			clusterUpLeft = s.clusterIndices[s.width*(y-1)+(x-1)]
		}

		if clusterLeft != clusterUp && s.isSame(left, up, leftOK, upOK) &&
			(s.conf.Diagonal || (s.isSame(color, left, colorOK, leftOK) && s.isSame(color, up, colorOK, upOK))) {
			if s.getCluster(clusterLeft).Area() <= s.getCluster(clusterUp).Area() {
				s.combineClusters(clusterLeft, clusterUp)
				if int(clusterLeft) == int(s.nextIndex)-1 && int(s.nextIndex) == len(s.clusters) {
					s.nextIndex--
				}
				clusterLeft = clusterUp
			} else {
				s.combineClusters(clusterUp, clusterLeft)
				clusterUp = clusterLeft
			}
		}

		if hasKey && color == s.conf.Key {
			if s.conf.KeyingAction == KeyingKeep {
				s.getCluster(ZeroIndex).Add(uint32(i), color, x, y)
			}
			continue
		}

		switch {
		case s.isSame(color, up, colorOK, upOK):
			s.clusterIndices[i] = clusterUp
			s.getCluster(clusterUp).Add(uint32(i), color, x, y)
		case s.isSame(color, left, colorOK, leftOK):
			s.clusterIndices[i] = clusterLeft
			s.getCluster(clusterLeft).Add(uint32(i), color, x, y)
		case s.conf.Diagonal && s.isSame(color, upLeft, colorOK, upLeftOK):
			s.clusterIndices[i] = clusterUpLeft
			s.getCluster(clusterUpLeft).Add(uint32(i), color, x, y)
		default:
			nc := &Cluster{MergedInto: s.nextIndex}
			nc.Add(uint32(i), color, x, y)
			if int(s.nextIndex) < len(s.clusters) {
				s.clusters[s.nextIndex] = nc
			} else {
				if s.nextIndex >= ClusterIndex(1<<31-1) {
					return false, ErrLabelOverflow
				}
				s.clusters = append(s.clusters, nc)
			}
			s.clusterIndices[i] = s.nextIndex
			s.nextIndex++
		}
	}

	s.iteration = end
	if s.iteration >= n {
		s.prepareStage2()
		return true, nil
	}
	return false, nil
}

// emitStage1Output is the hierarchical=0 short-circuit: every non-empty
// cluster becomes an output, sorted by area ascending then label.
func (s *BuilderState) emitStage1Output() {
	type entry struct {
		index ClusterIndex
		area  int
	}
	var out []entry
	for i, c := range s.clusters {
		if ClusterIndex(i) != ZeroIndex && c.Area() > 0 {
			out = append(out, entry{ClusterIndex(i), c.Area()})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		ka := uint64(out[a].area)*65535 + uint64(out[a].index)
		kb := uint64(out[b].area)*65535 + uint64(out[b].index)
		return ka < kb
	})
	for _, e := range out {
		s.clustersOutput = append(s.clustersOutput, e.index)
	}
}

func (s *BuilderState) prepareStage2() {
	for _, c := range s.clusters {
		c.ResidueSum = c.Sum
	}

	counts := make(map[int]int)
	for i, c := range s.clusters {
		if ClusterIndex(i) != ZeroIndex && c.Area() > 0 {
			counts[c.Area()]++
		}
	}
	areas := make([]areaBucket, 0, len(counts))
	for area, count := range counts {
		areas = append(areas, areaBucket{area: area, count: count})
	}
	sort.Slice(areas, func(i, j int) bool { return areas[i].area < areas[j].area })
	s.areas = areas
}

// tickStage2 advances Stage 2 by max(1, iteration/16) histogram bins,
// mirroring the Rust source's per-tick throttle (processing faster as
// iteration grows so small images don't spend hundreds of ticks on tiny
// bins).
func (s *BuilderState) tickStage2() (bool, error) {
	steps := s.iteration / 16
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		done, err := s.stage2Bin()
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
	}
	return false, nil
}

func (s *BuilderState) stage2Bin() (bool, error) {
	if s.areas[s.iteration].count == 0 {
		s.iteration++
		return s.iteration == len(s.areas), nil
	}

	curArea := s.areas[s.iteration].area
	canDiscard := s.conf.KeyingAction == KeyingDiscard

	for idx := 1; idx < len(s.clusters); idx++ {
		index := ClusterIndex(idx)
		mycluster := s.getCluster(index)
		if mycluster.Area() != curArea {
			continue
		}

		if s.conf.Hierarchical != HierarchicalMax && curArea > int(s.conf.Hierarchical) {
			s.clustersOutput = append(s.clustersOutput, index)
			continue
		}

		view := s.View()
		mycolor := mycluster.Color()
		neighbours := mycluster.Neighbours(view)
		infos := make([]NeighbourInfo, len(neighbours))
		for i, other := range neighbours {
			infos[i] = NeighbourInfo{Index: other, Diff: s.diff(mycolor, s.getCluster(other).Color())}
		}

		if len(infos) == 0 {
			if s.iteration == len(s.areas)-1 || canDiscard {
				s.clustersOutput = append(s.clustersOutput, index)
			}
			continue
		}

		sort.Slice(infos, func(a, b int) bool {
			ka := int64(infos[a].Diff)*65535 + int64(infos[a].Index)
			kb := int64(infos[b].Diff)*65535 + int64(infos[b].Index)
			return ka < kb
		})

		target := infos[0].Index

		deepen := false
		if s.conf.Hierarchical == HierarchicalMax {
			deepen = s.deepen(view, mycluster, infos)
		}
		hollow := s.hollow(view, mycluster, infos)

		if deepen {
			s.clustersOutput = append(s.clustersOutput, index)
		}

		targetArea := s.clusters[target].Area()
		targetPos := sort.Search(len(s.areas), func(i int) bool { return s.areas[i].area >= targetArea })
		if targetPos < len(s.areas) && s.areas[targetPos].area == targetArea {
			s.areas[targetPos].count--
		}

		s.mergeClusterInto(index, target, deepen, hollow)

		updatedArea := s.clusters[target].Area()
		pos := sort.Search(len(s.areas), func(i int) bool { return s.areas[i].area >= updatedArea })
		if pos < len(s.areas) && s.areas[pos].area == updatedArea {
			s.areas[pos].count++
		} else {
			s.areas = append(s.areas, areaBucket{})
			copy(s.areas[pos+1:], s.areas[pos:])
			s.areas[pos] = areaBucket{area: updatedArea, count: 1}
		}
	}

	s.iteration++
	return s.iteration == len(s.areas), nil
}

// mergeClusterInto applies the §4.6 step-5 merge policy: a plain merge moves
// everything into target; a deepened merge clone-merges (labels move, but
// the source keeps its own indices/rect/sum so it can still be rendered as
// its own output region) and optionally records the source as a hole.
func (s *BuilderState) mergeClusterInto(from, to ClusterIndex, deepen, hollow bool) {
	if !deepen {
		residue := s.clusters[from].ResidueSum
		s.clusters[to].ResidueSum.Merge(residue)
		s.combineClusters(from, to)
		return
	}

	s.combineClustersClone(from, to)

	if hollow {
		holes := append([]uint32(nil), s.clusters[from].Indices...)
		s.clusters[to].Holes = append(s.clusters[to].Holes, holes...)
		s.clusters[to].NumHoles++
	}

	s.clusters[from].MergedInto = to
	s.clusters[to].Depth++
}

func (s *BuilderState) combineClustersClone(from, to ClusterIndex) {
	sum := s.clusters[from].Sum
	rect := s.clusters[from].Rect
	indices := append([]uint32(nil), s.clusters[from].Indices...)

	s.combineClusters(from, to)

	s.clusters[from].Sum = sum
	s.clusters[from].Rect = rect
	s.clusters[from].Indices = indices
}

func (s *BuilderState) combineClusters(from, to ClusterIndex) {
	for _, i := range s.clusters[from].Indices {
		s.clusterIndices[i] = to
	}
	s.clusters[from].MergedInto = to
	s.clusters[to].Indices = append(s.clusters[to].Indices, s.clusters[from].Indices...)
	s.clusters[from].Indices = nil

	s.clusters[to].Sum.Merge(s.clusters[from].Sum)
	s.clusters[to].Rect = s.clusters[to].Rect.Merge(s.clusters[from].Rect)
	s.clusters[from].Sum.Clear()
	s.clusters[from].Rect = geom.BoundingRect{}
}
