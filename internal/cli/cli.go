package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beaconnet/pkg/buildinfo"
	"github.com/matzehuels/beaconnet/pkg/cache"
	"github.com/matzehuels/beaconnet/pkg/engine"
	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/model"
	"github.com/matzehuels/beaconnet/pkg/pipeline"
	"github.com/matzehuels/beaconnet/pkg/scenario"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "beaconnet"

	// configFile is the config file name inside the config directory.
	configFile = "config.toml"
)

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
	Config Config

	configPath string
	strict     bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "beaconnet",
		Short: "Beaconnet models beacon lightbeams and fibre networks",
		Long: `Beaconnet keeps a set of coloured beacons wired into lightbeam trees and a
weighted network of optical fibres between grid points. It runs command
scripts, answers route queries, trims networks and renders them with Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
				c.SetLogLevel(level)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/beaconnet/config.toml)")
	root.PersistentFlags().BoolVar(&c.strict, "strict", false, "check engine invariants after every mutation")

	// Register all subcommands
	root.AddCommand(c.runCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.cycleCommand())
	root.AddCommand(c.beamsCommand())
	root.AddCommand(c.trimCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.shellCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Runner & Engine Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	if ttl, err := c.Config.Cache.ttl(); err == nil && ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

// newCache opens the configured cache backend. A file backend that cannot
// find a cache directory falls back to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts := c.Config.Cache.options()
	if (opts.Backend == "" || opts.Backend == cache.BackendFile) && opts.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
	}
	cc, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCacheBackend, err, "open %s cache", c.Config.Cache.Backend)
	}
	return cc, nil
}

// newEngine builds an engine, preloaded from a scenario file when path is
// not empty.
func (c *CLI) newEngine(path string) (*engine.Engine, *scenario.Scenario, error) {
	opts := []engine.Option{engine.WithLogger(c.Logger), engine.WithStrict(c.strict)}
	if path == "" {
		return engine.New(opts...), nil, nil
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, nil, err
	}
	eng, err := sc.Engine(opts...)
	if err != nil {
		return nil, nil, err
	}
	return eng, sc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/beaconnet/).
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

// configPath returns the default config file (~/.config/beaconnet/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, configFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configFile), nil
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parseCoordArg parses a coordinate argument such as "3,4" or "(3,4)".
func parseCoordArg(s string) (model.Coord, error) {
	c, err := model.ParseCoord(s)
	if err != nil {
		return model.NoCoord, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad coordinate")
	}
	return c, nil
}

// requireScenario rejects an empty --scenario flag.
func requireScenario(path string) error {
	if path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--scenario is required")
	}
	return nil
}
