// Package cli implements the gfalace command-line interface.
//
// The CLI is built with cobra. Every command shares one [CLI] value that holds
// the logger and the loaded configuration; the logger is also attached to the
// command context so helpers can reach it with loggerFromContext.
//
// # Commands
//
//   - lace: merge block graphs into one combined graph
//   - render: draw a (small) GFA graph as a node-link diagram
//   - cache: inspect or clear the lace result cache
//   - config: show or initialize the configuration file
//   - completion: generate shell completion scripts
//
// # Logging
//
// Diagnostics go to stderr through charmbracelet/log. Info is the default
// level; --verbose (-v) switches to debug, which adds per-block counts,
// rejected path names and overlap reports.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gfalace/pkg/buildinfo"
	"github.com/matzehuels/gfalace/pkg/cache"
	"github.com/matzehuels/gfalace/pkg/observability"
	"github.com/matzehuels/gfalace/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gfalace"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	config     *Config
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: &Config{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gfalace laces pangenome block graphs into one GFA graph",
		Long: `gfalace merges independently built pangenome block graphs (GFA v1, optionally
gzipped) into a single graph and reconstructs the genome paths that were split
across blocks. Path names must follow sample#haplotype#contig:start-end.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gfalace/config.toml)")
	_ = root.MarkPersistentFlagFilename("config", "toml")

	root.AddCommand(c.laceCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file, settles the log level and attaches the logger
// to the command context. Flags set on the command line win over the config.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		p, err := configFile()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		cfg, err := loadConfig(path, explicit)
		if err != nil {
			return err
		}
		c.config = cfg
	}

	if !cmd.Flags().Changed("verbose") && c.config.Verbose {
		c.verbose = true
	}
	level := LogInfo
	if c.verbose {
		level = LogDebug
		hooks := &logHooks{logger: c.Logger}
		observability.SetLaceHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
	c.SetLogLevel(level)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// newCache opens the file cache. Without a usable home directory caching is
// silently disabled.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gfalace/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/gfalace/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
