package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gfalace/pkg/pipeline"
)

// laceFlags holds the flags of the lace command.
type laceFlags struct {
	graphs  []string
	output  string
	tempDir string
	noCache bool
	refresh bool
}

// laceCommand creates the lace command.
func (c *CLI) laceCommand() *cobra.Command {
	var flags laceFlags

	cmd := &cobra.Command{
		Use:   "lace [graph.gfa[.gz]...]",
		Short: "Lace block graphs into one combined graph",
		Long: `Lace merges block graphs into a single GFA graph.

Node ids of each block are shifted past all nodes of earlier blocks, so the
order of the inputs determines the ids in the output. Paths named
sample#haplotype#contig:start-end are grouped by sample#haplotype#contig and
sorted by coordinate. A locus whose ranges abut exactly becomes one path named
sample#haplotype#contig; otherwise each contiguous run becomes its own path
named sample#haplotype#contig:start-end. Paths with other names are dropped.

Inputs can be given with -g (repeatable) or as arguments; -g inputs come first.
Gzip inputs are decompressed to a temporary file that is removed afterwards.`,
		Example: `  gfalace lace -g chr1.gfa.gz -g chr2.gfa.gz -o laced.gfa
  gfalace lace blocks/*.gfa -o laced.gfa -v`,
		ValidArgsFunction: completeGraphFiles(-1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyLaceConfig(cmd, &flags)
			opts := pipeline.Options{
				Inputs:  append(slices.Clone(flags.graphs), args...),
				Output:  flags.output,
				TempDir: flags.tempDir,
				NoCache: flags.noCache,
				Refresh: flags.refresh,
			}
			return c.runLace(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.graphs, "gfa", "g", nil, "input block graph, repeatable; order sets node ids")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output GFA file")
	cmd.Flags().StringVar(&flags.tempDir, "temp-dir", "", "directory for decompressed inputs (default system temp)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results and re-lace")

	_ = cmd.RegisterFlagCompletionFunc("gfa", completeGraphFiles(-1))
	_ = cmd.MarkFlagFilename("output", "gfa")
	_ = cmd.MarkFlagDirname("temp-dir")

	return cmd
}

// applyLaceConfig fills flags that were not set on the command line from the
// config file.
func (c *CLI) applyLaceConfig(cmd *cobra.Command, flags *laceFlags) {
	if !cmd.Flags().Changed("output") && c.config.Output != "" {
		flags.output = c.config.Output
	}
	if !cmd.Flags().Changed("temp-dir") && c.config.TempDir != "" {
		flags.tempDir = c.config.TempDir
	}
	if !cmd.Flags().Changed("no-cache") && c.config.NoCache {
		flags.noCache = true
	}
}

// runLace executes a lace run and prints the summary.
func (c *CLI) runLace(ctx context.Context, opts pipeline.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(opts.NoCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	opts.Logger = loggerFromContext(ctx)

	// Debug logs stream to stderr in verbose mode; don't draw over them.
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Lacing %d blocks...", len(opts.Inputs)))
	if !c.verbose {
		spinner.Start()
	}
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printSuccess("Laced %d blocks", result.Stats.Blocks)
	printStats(result.Stats, result.CacheInfo.Hit)
	if result.Stats.Overlaps > 0 && !c.verbose {
		printWarning("%d overlapping ranges kept as separate paths (use -v for details)", result.Stats.Overlaps)
	}
	printFile(result.Output)
	return nil
}
