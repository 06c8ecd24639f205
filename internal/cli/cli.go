package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegen/pkg/buildinfo"
	"github.com/matzehuels/sitegen/pkg/cache"
	"github.com/matzehuels/sitegen/pkg/config"
	"github.com/matzehuels/sitegen/pkg/observability"
	"github.com/matzehuels/sitegen/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sitegen"

	// lockName is the run lock file inside the cache directory.
	lockName = "sitegen.lock"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	stderr  io.Writer
	flags   globalFlags
	logFile *os.File
}

// globalFlags mirrors the persistent flags of the root command.
type globalFlags struct {
	verbose      bool
	quiet        bool
	clean        bool
	noClean      bool
	verboseCache bool
	quietCache   bool
	server       string
	baseURL      string
	extension    string
	output       string
	logPath      string
	configPath   string
	noCache      bool
	refresh      bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		stderr: w,
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
		Short: "Sitegen builds the data of the phpMyAdmin home page",
		Long: `Sitegen fetches the release, news, summary and donation feeds and the
translation catalogs, classifies releases into current, beta and older
branches, computes translation statistics and writes everything the page
templates need as JSON.`,
		Version:            buildinfo.Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	root.SetVersionTemplate(buildinfo.Template())

	f := root.PersistentFlags()
	f.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")
	f.BoolVarP(&c.flags.quiet, "quiet", "q", false, "only log warnings and errors")
	f.BoolVarP(&c.flags.clean, "clean", "C", false, "clean the output directory before generating")
	f.BoolVarP(&c.flags.noClean, "no-clean", "N", false, "keep the existing output directory content")
	f.BoolVarP(&c.flags.verboseCache, "verbose-cache", "V", false, "log cache and HTTP activity")
	f.BoolVarP(&c.flags.quietCache, "quiet-cache", "Q", false, "do not log cache activity (default)")
	f.StringVarP(&c.flags.server, "server", "s", "", "server URL the site is served from")
	f.StringVarP(&c.flags.baseURL, "base-url", "b", "", "base URL path of the site")
	f.StringVarP(&c.flags.extension, "extension", "e", "", "file extension of generated pages")
	f.StringVarP(&c.flags.output, "output", "o", "", "output directory")
	f.StringVarP(&c.flags.logPath, "log", "l", "", "also write the log to this file")
	f.StringVar(&c.flags.configPath, "config", "", "TOML configuration file")
	f.BoolVar(&c.flags.noCache, "no-cache", false, "disable the response cache")
	f.BoolVar(&c.flags.refresh, "refresh", false, "refetch upstream data, bypassing cached responses")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")
	root.MarkFlagsMutuallyExclusive("clean", "no-clean")
	root.MarkFlagsMutuallyExclusive("verbose-cache", "quiet-cache")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.releasesCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.translationsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies the logging flags before any command runs.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	switch {
	case c.flags.verbose:
		c.SetLogLevel(LogDebug)
	case c.flags.quiet:
		c.SetLogLevel(LogWarn)
	}

	if c.flags.logPath != "" {
		f, err := openLogFile(c.flags.logPath)
		if err != nil {
			return err
		}
		c.logFile = f
		c.Logger.SetOutput(io.MultiWriter(c.stderr, f))
	}

	if c.flags.verboseCache && !c.flags.quietCache {
		observability.SetCacheHooks(observability.NewLogCacheHooks(c.Logger))
		observability.SetHTTPHooks(observability.NewLogHTTPHooks(c.Logger))
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) teardown(cmd *cobra.Command, args []string) error {
	if c.logFile == nil {
		return nil
	}
	c.Logger.SetOutput(c.stderr)
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads --config (or the defaults) and applies the flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if c.flags.configPath != "" {
		var err error
		if cfg, err = config.Load(c.flags.configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg = cfg.WithOverrides(c.overrides())
	if cfg.Cache.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return config.Config{}, fmt.Errorf("get cache dir: %w", err)
		}
		cfg.Cache.Dir = dir
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (c *CLI) overrides() config.Overrides {
	o := config.Overrides{
		Server:    c.flags.server,
		BaseURL:   c.flags.baseURL,
		Extension: c.flags.extension,
		Output:    c.flags.output,
		NoCache:   c.flags.noCache,
	}
	switch {
	case c.flags.clean:
		clean := true
		o.Clean = &clean
	case c.flags.noClean:
		clean := false
		o.Clean = &clean
	}
	return o
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	cch, err := openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cfg, cch, nil, c.Logger), nil
}

// execute runs the selected stages with a fresh runner.
func (c *CLI) execute(ctx context.Context, stages ...string) (*pipeline.PageData, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	if !shouldColorize(os.Stderr) {
		return runner.Execute(ctx, pipeline.Options{Stages: stages, Refresh: c.flags.refresh})
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s...", strings.Join(stages, ", ")))
	spinner.Start()
	data, err := runner.Execute(ctx, pipeline.Options{Stages: stages, Refresh: c.flags.refresh})
	if err != nil {
		spinner.StopWithError("Fetching failed")
		return nil, err
	}
	spinner.Stop()
	return data, nil
}

func openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	cch, err := cache.Open(ctx, cache.Options{
		Backend: cfg.Cache.Backend,
		Dir:     cfg.Cache.Dir,
		URL:     cfg.Cache.URL,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	return cch, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/sitegen/).
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

// acquireLock takes the run lock in dir. It fails immediately when another
// run holds it.
func acquireLock(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another %s run holds %s", appName, lock.Path())
	}
	return lock, nil
}
