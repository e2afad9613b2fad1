package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gfalace/pkg/cache"
	"github.com/matzehuels/gfalace/pkg/gfa"
	"github.com/matzehuels/gfalace/pkg/lace"
	"github.com/matzehuels/gfalace/pkg/observability"
)

// keyTypeLace labels lace entries in cache hooks.
const keyTypeLace = "lace"

// Runner encapsulates lace runs with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// results. Multiple goroutines can use the same Runner with different
// options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedLace is the stored form of a lace result. The report lets a cache
// hit repeat the diagnostics of the run that produced it.
type cachedLace struct {
	Stats  Stats       `json:"stats"`
	Report lace.Report `json:"report"`
	Graph  []byte      `json:"graph"`
}

// Execute runs load, lace and write, consulting the cache first.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Output: opts.Output}

	if !opts.NoCache {
		digests, err := cache.FileDigests(opts.Inputs)
		if err != nil {
			return nil, err
		}
		result.CacheInfo.Key = r.Keyer.LaceKey(cache.LaceKeyOpts{Digests: digests})

		if !opts.Refresh {
			hit, err := r.writeFromCache(ctx, opts, result)
			if err != nil {
				return nil, err
			}
			if hit {
				return result, nil
			}
		}
	}

	res, stats, err := r.Lace(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Lace = res
	result.Stats = stats

	writeStart := time.Now()
	size, err := r.write(ctx, res, opts, result)
	observability.Lace().OnWriteComplete(ctx, opts.Output, size, time.Since(writeStart), err)
	if err != nil {
		return nil, err
	}
	result.Stats.Bytes = size
	result.Stats.WriteTime = time.Since(writeStart)

	return result, nil
}

// Lace loads every input in order and laces them. It does not write output
// or touch the cache.
func (r *Runner) Lace(ctx context.Context, opts Options) (*lace.Result, Stats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLace(); err != nil {
		return nil, Stats{}, fmt.Errorf("invalid options: %w", err)
	}
	opts.SetDefaults()

	hooks := observability.Lace()
	l := lace.New(opts.Logger)

	loadStart := time.Now()
	for i, path := range opts.Inputs {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
		hooks.OnBlockStart(ctx, i, path)
		start := time.Now()
		info, err := foldBlock(l, path, opts.TempDir)
		hooks.OnBlockComplete(ctx, i, path, info.Nodes, time.Since(start), err)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("block %d: %w", i+1, err)
		}
	}
	loadTime := time.Since(loadStart)

	laceStart := time.Now()
	res, err := l.Finish()
	if err != nil {
		hooks.OnLaceComplete(ctx, 0, 0, time.Since(laceStart), err)
		return nil, Stats{}, fmt.Errorf("lace: %w", err)
	}
	hooks.OnLaceComplete(ctx, res.Build.Paths, res.Build.EdgesAdded, time.Since(laceStart), nil)
	for _, o := range res.Overlaps {
		hooks.OnOverlap(ctx, o.Key.String(), o.First.Span(), o.Second.Span())
	}

	stats := statsFor(res)
	stats.LoadTime = loadTime
	stats.LaceTime = time.Since(laceStart)

	opts.Logger.Debug("laced blocks",
		"blocks", stats.Blocks,
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"paths", stats.Paths,
		"duration", stats.LoadTime+stats.LaceTime)

	return res, stats, nil
}

// foldBlock loads one input and adds it to l.
func foldBlock(l *lace.Lacer, path, tempDir string) (lace.BlockInfo, error) {
	block, err := gfa.Load(path, gfa.LoadOptions{TempDir: tempDir})
	if err != nil {
		return lace.BlockInfo{}, err
	}
	return l.AddBlock(path, block)
}

// write serializes the laced graph to the output. With caching enabled the
// bytes are kept and stored under the run's key along with the run's report;
// otherwise the graph is streamed to disk.
func (r *Runner) write(ctx context.Context, res *lace.Result, opts Options, result *Result) (int, error) {
	g := res.Graph
	if result.CacheInfo.Key == "" {
		if err := gfa.WriteFile(g, opts.Output); err != nil {
			return 0, err
		}
		fi, err := os.Stat(opts.Output)
		if err != nil {
			return 0, fmt.Errorf("stat output: %w", err)
		}
		return int(fi.Size()), nil
	}

	data, err := gfa.Marshal(g)
	if err != nil {
		return 0, err
	}
	if err := writeOutput(opts.Output, data); err != nil {
		return 0, err
	}

	entry, err := json.Marshal(cachedLace{Stats: result.Stats, Report: res.Report(), Graph: data})
	if err != nil {
		opts.Logger.Warn("could not encode result for cache", "err", err)
		return len(data), nil
	}
	if err := r.Cache.Set(ctx, result.CacheInfo.Key, entry, cache.TTLLace); err != nil {
		opts.Logger.Warn("could not store result in cache", "err", err)
		return len(data), nil
	}
	result.CacheInfo.Stored = true
	observability.Cache().OnCacheSet(ctx, keyTypeLace, len(entry))
	return len(data), nil
}

// writeFromCache writes the cached graph for the run's key if there is one.
// Unreadable entries count as misses.
func (r *Runner) writeFromCache(ctx context.Context, opts Options, result *Result) (bool, error) {
	data, hit, err := r.Cache.Get(ctx, result.CacheInfo.Key)
	if err != nil {
		opts.Logger.Debug("cache read failed", "err", err)
	}
	var entry cachedLace
	if err != nil || !hit || json.Unmarshal(data, &entry) != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeLace)
		return false, nil
	}
	observability.Cache().OnCacheHit(ctx, keyTypeLace)

	start := time.Now()
	if err := writeOutput(opts.Output, entry.Graph); err != nil {
		return false, err
	}
	result.CacheInfo.Hit = true
	result.Stats = entry.Stats
	result.Stats.Bytes = len(entry.Graph)
	result.Stats.WriteTime = time.Since(start)

	opts.Logger.Debug("using cached graph", "key", result.CacheInfo.Key, "bytes", len(entry.Graph))
	replay(ctx, entry.Report, opts.Logger)
	return true, nil
}

// replay repeats a cached run's diagnostics through the logger and the
// overlap hook, so a cache hit reports what the original lace reported.
func replay(ctx context.Context, rep lace.Report, logger *log.Logger) {
	rep.Log(logger)
	hooks := observability.Lace()
	for _, o := range rep.Overlaps {
		hooks.OnOverlap(ctx, o.Locus, o.First, o.Second)
	}
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
