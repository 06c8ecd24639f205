package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sitegen/pkg/cache"
	"github.com/matzehuels/sitegen/pkg/config"
	"github.com/matzehuels/sitegen/pkg/observability"
	"github.com/matzehuels/sitegen/pkg/records"
	"github.com/matzehuels/sitegen/pkg/registry"
	"github.com/matzehuels/sitegen/pkg/source"
)

// Runner executes pipeline runs against one configuration.
//
// The Runner keeps no per-run state: every call to Execute builds its own
// parser and sources, so concurrent runs may share a Runner.
type Runner struct {
	Config config.Config
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Repository overrides the translation catalog repository. Nil means
	// the GitHub repository named by Config.Translations.
	Repository source.Repository
	// Registry overrides the lookup tables. Nil means Config.Registry().
	Registry *registry.Registry
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(cfg config.Config, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Config: cfg,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the selected stages in order and returns the collected page
// data. The first fatal stage error aborts the run.
func (r *Runner) Execute(ctx context.Context, opts Options) (*PageData, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	reg := r.Registry
	if reg == nil {
		var err error
		if reg, err = r.Config.Registry(); err != nil {
			return nil, fmt.Errorf("load registry: %w", err)
		}
	}

	client := source.NewClient(r.Cache, r.Config.Cache.TTL.Duration, nil).WithRefresh(opts.Refresh)
	run := &run{
		cfg:      r.Config,
		logger:   r.Logger,
		keyer:    r.Keyer,
		client:   client,
		feeds:    source.NewFeedCache(client, r.Keyer),
		parser:   records.NewParser(r.Config.ParserOptions(), reg, r.Logger),
		registry: reg,
		repo:     r.Repository,
	}

	data := &PageData{
		RunID:     uuid.NewString(),
		Generated: time.Now().UTC(),
		Site:      r.Config.Site,
	}
	r.Logger.Debug("starting run", "run", data.RunID, "stages", opts.Stages, "refresh", opts.Refresh)

	stages := []struct {
		name     string
		optional bool
		fn       func(context.Context, *PageData) (int, error)
	}{
		{StageSnapshots, true, run.snapshots},
		{StageReleases, false, run.releases},
		{StageThemes, false, run.themes},
		{StageNews, false, run.news},
		{StageSummary, false, run.summary},
		{StageDonations, false, run.donations},
		{StageTranslations, false, run.translations},
	}

	start := time.Now()
	for _, st := range stages {
		if !opts.Wants(st.name) {
			continue
		}
		stats, err := run.stage(ctx, st.name, st.optional, func(ctx context.Context) (int, error) {
			return st.fn(ctx, data)
		})
		if err != nil {
			return nil, err
		}
		data.Stats.Stages = append(data.Stats.Stages, stats)
	}
	data.Stats.Duration = time.Since(start)

	r.Logger.Debug("run complete", "run", data.RunID, "duration", data.Stats.Duration)
	return data, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *run) stage(ctx context.Context, name string, optional bool, fn func(context.Context) (int, error)) (StageStats, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)

	start := time.Now()
	n, err := fn(ctx)
	elapsed := time.Since(start)
	hooks.OnStageComplete(ctx, name, n, elapsed, err)

	stats := StageStats{Name: name, Records: n, Duration: elapsed}
	if err != nil {
		if optional && ctx.Err() == nil {
			r.logger.Warn("stage failed, continuing", "stage", name, "err", err)
			stats.Warning = err.Error()
			return stats, nil
		}
		return stats, fmt.Errorf("%s: %w", name, err)
	}

	r.logger.Info("processed "+name,
		"records", n,
		"duration", elapsed.Round(time.Millisecond))
	return stats, nil
}
