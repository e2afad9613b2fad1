// Package render holds visual outputs for laced graphs.
//
// The [nodelink] subpackage renders graphs as Graphviz node-link diagrams:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/gfalace/pkg/render/nodelink
package render
