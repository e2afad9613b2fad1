package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/gfalace/pkg/gfa"
	"github.com/matzehuels/gfalace/pkg/render/nodelink"
)

// Format constants for render outputs.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
)

// DefaultMaxRenderNodes caps the graph size accepted by [Render]. Graphviz
// layouts of larger graphs are slow and unreadable.
const DefaultMaxRenderNodes = 2000

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatDOT: true,
}

// ErrGraphTooLarge is returned by [Render] when the graph exceeds MaxNodes.
var ErrGraphTooLarge = errors.New("graph too large to render")

// RenderOptions configures [Render].
type RenderOptions struct {
	// Format is "svg" or "dot". Empty means svg.
	Format string

	// Detailed adds segment lengths and short sequences to labels.
	Detailed bool

	// MaxNodes caps the node count. Zero means DefaultMaxRenderNodes;
	// negative disables the check.
	MaxNodes int
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot)", format)
	}
	return nil
}

// FormatFromPath infers a render format from an output file extension.
// Unknown extensions yield svg.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return FormatDOT
	default:
		return FormatSVG
	}
}

// SetDefaults fills unset optional fields.
func (o *RenderOptions) SetDefaults() {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxRenderNodes
	}
}

// Render draws g as a node-link diagram in the requested format.
func Render(ctx context.Context, g *gfa.Graph, opts RenderOptions) ([]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	if opts.MaxNodes > 0 && g.NodeCount() > opts.MaxNodes {
		return nil, fmt.Errorf("%w: %d nodes (limit %d)", ErrGraphTooLarge, g.NodeCount(), opts.MaxNodes)
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	if opts.Format == FormatDOT {
		return []byte(dot), nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return svg, nil
}
