// Package pipeline runs gfalace end to end: load blocks, lace them, write the
// combined graph.
//
// This package owns the orchestration shared by every command: option
// defaults and validation, the result cache, timing, and observability
// hooks. The lacing algorithm itself lives in [lace]; file formats live in
// [gfa].
//
// # Architecture
//
// A lace run has three stages:
//
//  1. Load: each input is read (decompressing gzip inputs) and folded into a
//     [lace.Lacer] in input order. Cancellation is checked between blocks.
//  2. Lace: loci are reconciled and the laced paths built.
//  3. Write: the combined graph is serialized to the output path.
//
// When caching is enabled the inputs are digested first. A cache hit writes
// the stored graph directly and skips all three stages.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Inputs: []string{"chr1.gfa.gz", "chr2.gfa.gz"},
//	    Output: "laced.gfa",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Stats.Paths, "paths written to", result.Output)
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gfalace/pkg/lace"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNoInputs is returned when a run has no input blocks.
	ErrNoInputs = errors.New("at least one input graph is required")

	// ErrNoOutput is returned when a run has no output path.
	ErrNoOutput = errors.New("output path is required")
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a lace run.
type Options struct {
	// Inputs are the block graphs in lacing order. Order matters: it fixes
	// the node id offsets and breaks ties between identical ranges.
	Inputs []string `json:"inputs"`

	// Output is the path of the combined graph. It is created or truncated.
	Output string `json:"output"`

	// TempDir holds decompressed copies of gzip inputs. Empty means the
	// system temp directory.
	TempDir string `json:"temp_dir,omitempty"`

	// NoCache disables the result cache for this run.
	NoCache bool `json:"no_cache,omitempty"`

	// Refresh ignores cached results but still stores the new one.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives diagnostics. Nil means the runner's logger.
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Validate(); err != nil {
		return err
	}
	o.SetDefaults()
	o.validated = true
	return nil
}

// Validate checks required fields for a full run.
func (o *Options) Validate() error {
	if err := o.ValidateForLace(); err != nil {
		return err
	}
	if o.Output == "" {
		return ErrNoOutput
	}
	return nil
}

// ValidateForLace checks the fields needed to lace without writing.
func (o *Options) ValidateForLace() error {
	if len(o.Inputs) == 0 {
		return ErrNoInputs
	}
	for i, in := range o.Inputs {
		if in == "" {
			return fmt.Errorf("input %d: empty path", i+1)
		}
	}
	return nil
}

// SetDefaults fills unset optional fields.
func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a lace run.
type Result struct {
	// Output is the path the combined graph was written to.
	Output string

	// Lace is the full lacing outcome. It is nil when the graph came from
	// the cache.
	Lace *lace.Result

	// Stats contains counts and timings.
	Stats Stats

	// CacheInfo reports how the cache was used.
	CacheInfo CacheInfo
}

// Stats contains run statistics. Counts survive a cache round trip; timings
// are only set for the stages that actually ran.
type Stats struct {
	Blocks   int `json:"blocks"`
	Nodes    int `json:"nodes"`
	Edges    int `json:"edges"`
	Paths    int `json:"paths"`
	NewEdges int `json:"new_edges"`
	Loci     int `json:"loci"`
	Complete int `json:"complete"` // loci reconstructed as one path
	Overlaps int `json:"overlaps"`
	Rejected int `json:"rejected"`
	Bytes    int `json:"bytes"`

	LoadTime  time.Duration `json:"-"`
	LaceTime  time.Duration `json:"-"`
	WriteTime time.Duration `json:"-"`
}

// CacheInfo tracks cache use for a run.
type CacheInfo struct {
	Key    string // empty when caching is disabled
	Hit    bool   // output was written from the cache
	Stored bool   // the new result was stored
}

// statsFor collects the counts of a finished lace.
func statsFor(res *lace.Result) Stats {
	s := Stats{
		Blocks:   len(res.Blocks),
		Nodes:    res.Graph.NodeCount(),
		Edges:    res.Graph.EdgeCount(),
		Paths:    res.Graph.PathCount(),
		NewEdges: res.Build.EdgesAdded,
		Loci:     len(res.Loci),
		Overlaps: len(res.Overlaps),
		Rejected: len(res.Rejected),
	}
	for _, rec := range res.Loci {
		if rec.Complete() {
			s.Complete++
		}
	}
	return s
}
