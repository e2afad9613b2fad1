package lace

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/matzehuels/gfalace/pkg/gfa"
)

// Adjacency classifies two ranges that are neighbors in sorted order.
type Adjacency int

const (
	// Gap means the second range starts after the first one ends.
	Gap Adjacency = iota
	// Contiguous means the first range ends exactly where the second starts.
	Contiguous
	// Overlapping means the two ranges share at least one coordinate.
	Overlapping
)

func (a Adjacency) String() string {
	switch a {
	case Contiguous:
		return "contiguous"
	case Overlapping:
		return "overlapping"
	default:
		return "gap"
	}
}

// Classify compares a range with the one that follows it in sorted order.
func Classify(a, b RangeInfo) Adjacency {
	switch {
	case a.End == b.Start:
		return Contiguous
	case a.Start < b.End && b.Start < a.End:
		return Overlapping
	default:
		return Gap
	}
}

// compareRanges orders by start, then end, then block position.
func compareRanges(a, b RangeInfo) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(a.End, b.End); c != 0 {
		return c
	}
	return cmp.Compare(a.Block, b.Block)
}

// SortRanges sorts ranges by (start, end, block) in place.
func SortRanges(ranges []RangeInfo) {
	slices.SortStableFunc(ranges, compareRanges)
}

// Overlap is a pair of neighboring ranges of one locus that share coordinates.
type Overlap struct {
	Key    LocusKey
	First  RangeInfo
	Second RangeInfo
}

// LacedPath is a finished output path: one maximal contiguous run of ranges.
type LacedPath struct {
	Name  string
	Key   LocusKey
	Start uint64
	End   uint64
	Parts int // number of ranges spliced into this path
	Steps []gfa.Handle
}

// Reconciliation is the outcome for one locus.
type Reconciliation struct {
	Key      LocusKey
	Paths    []LacedPath
	Overlaps []Overlap
}

// Complete reports whether the locus was reconstructed as a single path
// named by the bare key.
func (r Reconciliation) Complete() bool {
	return len(r.Paths) == 1 && r.Paths[0].Name == r.Key.String()
}

// =============================================================================
// Group State Machine
// =============================================================================

// groupState accumulates a run of contiguous ranges.
type groupState struct {
	building bool
	start    uint64
	end      uint64
	parts    int
	steps    []gfa.Handle
}

func (s *groupState) open(r RangeInfo) {
	s.building = true
	s.start = r.Start
	s.end = r.End
	s.parts = 1
	s.steps = slices.Clone(r.Steps)
}

func (s *groupState) extend(r RangeInfo) {
	s.end = r.End
	s.parts++
	s.steps = append(s.steps, r.Steps...)
}

func (s *groupState) close(key LocusKey, name string) LacedPath {
	p := LacedPath{
		Name:  name,
		Key:   key,
		Start: s.start,
		End:   s.end,
		Parts: s.parts,
		Steps: s.steps,
	}
	*s = groupState{}
	return p
}

// =============================================================================
// Reconcile
// =============================================================================

// Reconcile decides the output paths of one locus.
//
// Ranges are sorted by (start, end, block) and neighbors classified. If every
// neighbor pair is contiguous the locus becomes one path named key.String()
// whose steps are the concatenation of all ranges. Otherwise each maximal run
// of contiguous ranges becomes a path named key:start-end; gaps and overlaps
// both end a run. The input slice is not modified.
//
// When two runs would get the same name (identical ranges from different
// blocks) the later one is suffixed with _2, _3, ... in sorted order.
func Reconcile(key LocusKey, ranges []RangeInfo) Reconciliation {
	rec := Reconciliation{Key: key}
	if len(ranges) == 0 {
		return rec
	}

	sorted := slices.Clone(ranges)
	SortRanges(sorted)

	kinds := make([]Adjacency, len(sorted))
	whole := true
	for i := 1; i < len(sorted); i++ {
		kinds[i] = Classify(sorted[i-1], sorted[i])
		switch kinds[i] {
		case Overlapping:
			rec.Overlaps = append(rec.Overlaps, Overlap{Key: key, First: sorted[i-1], Second: sorted[i]})
			whole = false
		case Gap:
			whole = false
		}
	}

	var st groupState
	if whole {
		for i, r := range sorted {
			if i == 0 {
				st.open(r)
			} else {
				st.extend(r)
			}
		}
		rec.Paths = []LacedPath{st.close(key, key.String())}
		return rec
	}

	seen := make(map[string]int)
	emit := func() {
		name := key.RangeName(st.start, st.end)
		seen[name]++
		if n := seen[name]; n > 1 {
			name += "_" + strconv.Itoa(n)
		}
		rec.Paths = append(rec.Paths, st.close(key, name))
	}

	for i, r := range sorted {
		switch {
		case !st.building:
			st.open(r)
		case kinds[i] == Contiguous:
			st.extend(r)
		default:
			emit()
			st.open(r)
		}
	}
	emit()
	return rec
}
