package lace

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// Report is the diagnostic record of a lace run. It holds no graph data, so
// it can be stored next to a cached graph and replayed with [Report.Log].
type Report struct {
	Blocks   []BlockInfo   `json:"blocks"`
	Skipped  []SkippedPath `json:"skipped,omitempty"`
	Overlaps []OverlapNote `json:"overlaps,omitempty"`
	Loci     int           `json:"loci"`
	Build    BuildStats    `json:"build"`
}

// SkippedPath is a [Rejection] reduced to printable fields.
type SkippedPath struct {
	Block  int    `json:"block"`
	Source string `json:"source"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// OverlapNote is an [Overlap] without the steps of its ranges.
type OverlapNote struct {
	Locus       string `json:"locus"`
	First       string `json:"first"`
	FirstBlock  string `json:"first_block"`
	Second      string `json:"second"`
	SecondBlock string `json:"second_block"`
}

func skippedPath(rj Rejection) SkippedPath {
	return SkippedPath{Block: rj.Block, Source: rj.Source, Name: rj.Name, Reason: rj.Err.Error()}
}

func overlapNote(o Overlap) OverlapNote {
	return OverlapNote{
		Locus:       o.Key.String(),
		First:       o.First.Span(),
		FirstBlock:  o.First.Source,
		Second:      o.Second.Span(),
		SecondBlock: o.Second.Source,
	}
}

// Report summarizes r for storage.
func (r *Result) Report() Report {
	rep := Report{
		Blocks: slices.Clone(r.Blocks),
		Loci:   len(r.Loci),
		Build:  r.Build,
	}
	for _, rj := range r.Rejected {
		rep.Skipped = append(rep.Skipped, skippedPath(rj))
	}
	for _, o := range r.Overlaps {
		rep.Overlaps = append(rep.Overlaps, overlapNote(o))
	}
	return rep
}

// Log writes the report's diagnostics in the order a [Lacer] emits them while
// lacing. A nil logger discards them.
func (r Report) Log(logger *log.Logger) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	skipped := r.Skipped
	for _, b := range r.Blocks {
		for len(skipped) > 0 && skipped[0].Block == b.Index {
			logSkipped(logger, skipped[0])
			skipped = skipped[1:]
		}
		logBlock(logger, b)
	}
	for _, o := range r.Overlaps {
		logOverlap(logger, o)
	}
	logLaced(logger, r.Loci, r.Build)
}

func logSkipped(logger *log.Logger, s SkippedPath) {
	logger.Debug("skipping path", "block", s.Source, "path", s.Name, "reason", s.Reason)
}

func logBlock(logger *log.Logger, b BlockInfo) {
	logger.Debug("folded block",
		"block", b.Source,
		"nodes", b.Nodes,
		"edges", b.Edges,
		"ranges", b.Ranges,
		"offset", b.Offset)
}

func logOverlap(logger *log.Logger, o OverlapNote) {
	logger.Debug("overlapping ranges",
		"locus", o.Locus,
		"first", o.First,
		"first_block", o.FirstBlock,
		"second", o.Second,
		"second_block", o.SecondBlock)
}

func logLaced(logger *log.Logger, loci int, b BuildStats) {
	logger.Debug("laced paths",
		"loci", loci,
		"paths", b.Paths,
		"new_edges", b.EdgesAdded)
}
