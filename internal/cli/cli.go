// Package cli implements the metaforge command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/metaforge/internal/api"
	"github.com/matzehuels/metaforge/pkg/aggregate"
	"github.com/matzehuels/metaforge/pkg/buildinfo"
	"github.com/matzehuels/metaforge/pkg/cache"
	"github.com/matzehuels/metaforge/pkg/probe"
	"github.com/matzehuels/metaforge/pkg/vcs"
)

// appName is the application name used for directories and display.
const appName = "metaforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration applied.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: LoadConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Metaforge aggregates upstream project metadata",
		Long:         `Metaforge merges metadata observations from many sources into one canonical record, canonicalizing repository and bug-tracker URLs along the way.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.aggregateCommand())
	root.AddCommand(c.guessCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// runFlags are the aggregation knobs shared by the aggregate, guess, and
// serve commands.
type runFlags struct {
	net     bool // allow network probes and forge API calls
	noCache bool // bypass the cross-run cache
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.net, "net", f.net, "allow network access for probing and verification")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the cross-run cache")
}

// newAggregator builds an aggregator from the configuration with the given
// flag overrides applied.
func (c *CLI) newAggregator(cmd *cobra.Command, flags runFlags) (*aggregate.Aggregator, error) {
	store, err := c.newCache(cmd, flags.noCache)
	if err != nil {
		return nil, err
	}

	access := probe.NetDisabled
	if flags.net || (c.Config.Net && !cmd.Flags().Changed("net")) {
		access = probe.NetEnabled
	}

	prober := probe.New(probe.Options{
		NetAccess: access,
		Timeout:   c.Config.Timeout.Duration,
		CacheTTL:  c.Config.CacheTTL.Duration,
		Cache:     store,
	})

	return aggregate.New(aggregate.Config{
		Prober: prober,
		Cache:  store,
		Checker: vcs.CheckerConfig{
			GitHubToken: c.Config.GitHubToken,
			GitLabToken: c.Config.GitLabToken,
		},
		Logger: c.Logger,
	}), nil
}

// newCache picks the cache backend: redis when configured, the file cache
// otherwise, and the null cache when caching is disabled or unavailable.
func (c *CLI) newCache(cmd *cobra.Command, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.RedisAddr != "" {
		store, err := cache.NewRedisCache(cmd.Context(), cache.RedisConfig{Addr: c.Config.RedisAddr})
		if err != nil {
			c.Logger.Warnf("Redis cache unavailable, falling back to file cache: %v", err)
		} else {
			return store, nil
		}
	}
	dir := c.Config.CacheDir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newServer builds the HTTP API service for the serve command.
func (c *CLI) newServer(cmd *cobra.Command, flags runFlags) (*api.Server, error) {
	agg, err := c.newAggregator(cmd, flags)
	if err != nil {
		return nil, err
	}
	return api.NewServer(agg, c.Logger), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/metaforge/).
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
