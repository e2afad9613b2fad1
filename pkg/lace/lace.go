package lace

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gfalace/pkg/gfa"
)

// ErrFinished is returned when a [Lacer] is used after [Lacer.Finish].
var ErrFinished = errors.New("lacer already finished")

// BlockInfo describes one folded block.
type BlockInfo struct {
	Index    int
	Source   string
	Offset   uint64 // combined node count before the block
	Nodes    int
	Edges    int
	Paths    int
	Ranges   int // paths accepted as locus ranges
	Rejected int // paths whose names did not parse
}

// Result is the outcome of [Lacer.Finish].
type Result struct {
	// Graph is the combined graph with the laced paths.
	Graph *gfa.Graph

	// Blocks lists every folded block in input order.
	Blocks []BlockInfo

	// Loci holds one reconciliation per locus key, sorted by key.
	Loci []Reconciliation

	// Overlaps collects overlapping range pairs across all loci.
	Overlaps []Overlap

	// Rejected lists paths left out because their names did not parse.
	Rejected []Rejection

	// Build reports what path construction added.
	Build BuildStats
}

// Lacer folds blocks into a combined graph. It owns the combined graph until
// Finish hands it out. A Lacer is not safe for concurrent use; blocks must be
// added in input order because each block's id offset depends on all
// previous blocks.
type Lacer struct {
	logger   *log.Logger
	graph    *gfa.Graph
	ranges   map[LocusKey][]RangeInfo
	blocks   []BlockInfo
	rejected []Rejection
	finished bool
}

// New creates an empty Lacer. A nil logger discards diagnostics.
func New(logger *log.Logger) *Lacer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Lacer{
		logger: logger,
		graph:  gfa.New(),
		ranges: make(map[LocusKey][]RangeInfo),
	}
}

// NodeCount returns the number of nodes folded in so far.
func (l *Lacer) NodeCount() int { return l.graph.NodeCount() }

// AddBlock translates block into the combined id space, copies its nodes and
// edges, and records its locus ranges. source names the block in diagnostics.
// The block graph is not retained.
func (l *Lacer) AddBlock(source string, block *gfa.Graph) (BlockInfo, error) {
	if l.finished {
		return BlockInfo{}, ErrFinished
	}

	t := Translate(uint64(l.graph.NodeCount()), block)
	info := BlockInfo{
		Index:  len(l.blocks),
		Source: source,
		Offset: t.Offset(),
		Nodes:  block.NodeCount(),
		Edges:  block.EdgeCount(),
		Paths:  block.PathCount(),
	}

	for _, n := range block.Nodes() {
		id, err := t.ID(n.ID)
		if err != nil {
			return BlockInfo{}, fmt.Errorf("block %s: %w", source, err)
		}
		if err := l.graph.AddNode(gfa.Node{ID: id, Sequence: n.Sequence}); err != nil {
			return BlockInfo{}, fmt.Errorf("block %s: %w", source, err)
		}
	}

	for _, e := range block.Edges() {
		from, err := t.Handle(e.From)
		if err != nil {
			return BlockInfo{}, fmt.Errorf("block %s: edge %s: %w", source, e, err)
		}
		to, err := t.Handle(e.To)
		if err != nil {
			return BlockInfo{}, fmt.Errorf("block %s: edge %s: %w", source, e, err)
		}
		if _, err := l.graph.AddEdge(gfa.Edge{From: from, To: to}); err != nil {
			return BlockInfo{}, fmt.Errorf("block %s: %w", source, err)
		}
	}

	paths := make([]*gfa.Path, 0, block.PathCount())
	for _, p := range block.Paths() {
		steps, err := t.Steps(p.Steps)
		if err != nil {
			return BlockInfo{}, fmt.Errorf("block %s: path %s: %w", source, p.Name, err)
		}
		paths = append(paths, &gfa.Path{Name: p.Name, Steps: steps})
	}

	ranges, rejected := ExtractRanges(info.Index, source, paths)
	for _, r := range ranges {
		l.ranges[r.Key] = append(l.ranges[r.Key], r)
	}
	for _, rj := range rejected {
		logSkipped(l.logger, skippedPath(rj))
	}
	l.rejected = append(l.rejected, rejected...)
	info.Ranges = len(ranges)
	info.Rejected = len(rejected)
	l.blocks = append(l.blocks, info)

	logBlock(l.logger, info)

	return info, nil
}

// Finish reconciles every locus, builds the laced paths and their edges, and
// returns the combined graph. The Lacer cannot be used afterwards.
func (l *Lacer) Finish() (*Result, error) {
	if l.finished {
		return nil, ErrFinished
	}
	l.finished = true

	res := &Result{
		Graph:    l.graph,
		Blocks:   l.blocks,
		Rejected: l.rejected,
	}

	keys := slices.SortedFunc(maps.Keys(l.ranges), LocusKey.Compare)
	var paths []LacedPath
	for _, key := range keys {
		rec := Reconcile(key, l.ranges[key])
		for _, o := range rec.Overlaps {
			logOverlap(l.logger, overlapNote(o))
		}
		res.Loci = append(res.Loci, rec)
		res.Overlaps = append(res.Overlaps, rec.Overlaps...)
		paths = append(paths, rec.Paths...)
	}

	stats, err := BuildPaths(l.graph, paths)
	if err != nil {
		return nil, err
	}
	res.Build = stats

	logLaced(l.logger, len(keys), stats)

	l.ranges = nil
	return res, nil
}
