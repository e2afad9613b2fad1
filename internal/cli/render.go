package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gfalace/pkg/gfa"
	"github.com/matzehuels/gfalace/pkg/pipeline"
)

// renderFlags holds the flags of the render command.
type renderFlags struct {
	output   string
	format   string
	detailed bool
	maxNodes int
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <graph.gfa[.gz]>",
		Short: "Draw a GFA graph as a node-link diagram",
		Long: `Render draws a GFA graph with Graphviz, one box per segment and one arrow per
link. It is meant for checking small laced graphs; graphs above --max-nodes are
refused.

The format follows the output extension (.svg, .dot or .gv) unless --format is
given.`,
		Example: `  gfalace render laced.gfa -o laced.svg
  gfalace render laced.gfa -o laced.dot --detailed`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default <input>.svg)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: svg or dot (default from extension)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show segment lengths and short sequences")
	cmd.Flags().IntVar(&flags.maxNodes, "max-nodes", pipeline.DefaultMaxRenderNodes, "refuse graphs with more nodes (negative disables)")

	_ = cmd.RegisterFlagCompletionFunc("format", completeRenderFormats)
	_ = cmd.MarkFlagFilename("output", pipeline.FormatSVG, pipeline.FormatDOT, "gv")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, flags renderFlags) error {
	logger := loggerFromContext(ctx)

	format := flags.format
	output := flags.output
	switch {
	case output == "" && format == "":
		format = pipeline.FormatSVG
		output = defaultRenderOutput(input, format)
	case output == "":
		output = defaultRenderOutput(input, format)
	case format == "":
		format = pipeline.FormatFromPath(output)
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}

	prog := newProgress(logger)
	g, err := gfa.Load(input, gfa.LoadOptions{TempDir: c.config.TempDir})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d nodes, %d edges", g.NodeCount(), g.EdgeCount()))

	data, err := pipeline.Render(ctx, g, pipeline.RenderOptions{
		Format:   format,
		Detailed: flags.detailed,
		MaxNodes: flags.maxNodes,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered %s", strings.ToUpper(format))
	printFile(output)
	return nil
}

// defaultRenderOutput derives an output name from the input:
// chr1.gfa.gz becomes chr1.svg.
func defaultRenderOutput(input, format string) string {
	base := filepath.Base(input)
	for _, ext := range []string{".gz", ".bgz", ".gfa"} {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(filepath.Dir(input), base+"."+format)
}
