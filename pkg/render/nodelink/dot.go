package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gfalace/pkg/gfa"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the segment length and, for short segments, the sequence
	// to node labels. When false, only the node ID is shown.
	Detailed bool

	// MaxSequence is the longest sequence shown in a detailed label.
	// Zero means DefaultMaxSequence.
	MaxSequence int
}

// DefaultMaxSequence is the sequence length above which detailed labels show
// only the length.
const DefaultMaxSequence = 12

// ToDOT converts a GFA graph to Graphviz DOT for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Segments become boxes laid out left to right. A link whose endpoints are
// both forward is a plain arrow; any reverse endpoint draws the arrow dashed
// and labels it with both orientations.
func ToDOT(g *gfa.Graph, opts Options) string {
	if opts.MaxSequence == 0 {
		opts.MaxSequence = DefaultMaxSequence
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		id := strconv.FormatUint(n.ID, 10)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, fmtLabel(n, opts))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		from := strconv.FormatUint(e.From.ID, 10)
		to := strconv.FormatUint(e.To.ID, 10)
		if attrs := fmtEdgeAttrs(e); len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *gfa.Node, opts Options) string {
	id := strconv.FormatUint(n.ID, 10)
	if !opts.Detailed {
		return id
	}
	if len(n.Sequence) > 0 && len(n.Sequence) <= opts.MaxSequence {
		return fmt.Sprintf("%s\n%s", id, n.Sequence)
	}
	return fmt.Sprintf("%s\n%d bp", id, len(n.Sequence))
}

func fmtEdgeAttrs(e gfa.Edge) []string {
	if !e.From.Reverse && !e.To.Reverse {
		return nil
	}
	label := string([]byte{e.From.Orient(), e.To.Orient()})
	return []string{"style=dashed", fmt.Sprintf("label=%q", label)}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the drawing starts at the origin
// and scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
