// Package nodelink renders GFA graphs as node-link diagrams.
//
// # Overview
//
// Segments appear as boxes connected by arrows for links, laid out left to
// right. This is meant for inspecting small laced graphs, for example to
// check that junction edges between blocks were added where expected; it
// does not scale to whole-chromosome graphs.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
