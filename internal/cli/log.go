package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. It is meant for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time rounded to the millisecond.
// Example output: "Loaded graph (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports lace and cache events at debug level. It is registered in
// verbose mode only. Overlaps are already logged by the lacer itself.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnBlockStart(_ context.Context, index int, source string) {
	h.logger.Debug("loading block", "index", index+1, "block", source)
}

func (h *logHooks) OnBlockComplete(_ context.Context, index int, source string, nodes int, d time.Duration, err error) {
	if err != nil {
		return
	}
	h.logger.Debug("loaded block", "index", index+1, "block", source, "nodes", nodes, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnOverlap(context.Context, string, string, string) {}

func (h *logHooks) OnLaceComplete(_ context.Context, paths, newEdges int, d time.Duration, err error) {
	if err != nil {
		return
	}
	h.logger.Debug("built paths", "paths", paths, "new_edges", newEdges, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnWriteComplete(_ context.Context, output string, size int, d time.Duration, err error) {
	if err != nil {
		return
	}
	h.logger.Debug("wrote output", "output", output, "bytes", size, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache store", "type", keyType, "bytes", size)
}
