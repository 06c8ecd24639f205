// Package pipeline turns the upstream feeds and catalogs into the page data
// of the project home page.
//
// A run consists of independent stages executed in a fixed order:
//
//  1. snapshots: development snapshot lists (failure is only a warning)
//  2. releases: product releases, classified into current, beta and older
//  3. themes: theme releases from the same feed
//  4. news, summary, donations: the remaining project feeds
//  5. translations: per-language catalog statistics
//
// Every upstream read goes through the response cache, so the CLI, the
// preview server and tests share one code path:
//
//	runner := pipeline.NewRunner(cfg, cache, nil, logger)
//	data, err := runner.Execute(ctx, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(data.Featured.Version)
//
// Commands that only need part of the data select stages:
//
//	data, err := runner.Execute(ctx, pipeline.Options{Stages: []string{pipeline.StageThemes}})
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/sitegen/pkg/branch"
	"github.com/matzehuels/sitegen/pkg/config"
	"github.com/matzehuels/sitegen/pkg/errors"
	"github.com/matzehuels/sitegen/pkg/records"
	"github.com/matzehuels/sitegen/pkg/translation"
	"github.com/matzehuels/sitegen/pkg/version"
)

// Stage names.
const (
	StageSnapshots    = "snapshots"
	StageReleases     = "releases"
	StageThemes       = "themes"
	StageNews         = "news"
	StageSummary      = "summary"
	StageDonations    = "donations"
	StageTranslations = "translations"
)

// Stages lists every stage in execution order.
var Stages = []string{
	StageSnapshots,
	StageReleases,
	StageThemes,
	StageNews,
	StageSummary,
	StageDonations,
	StageTranslations,
}

// ValidateStage checks that a stage name is known.
func ValidateStage(stage string) error {
	if !slices.Contains(Stages, stage) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid stage: %q (must be one of: %s)", stage, strings.Join(Stages, ", "))
	}
	return nil
}

// Options selects what a run does.
type Options struct {
	// Stages to run; empty means all of them.
	Stages []string `json:"stages,omitempty"`
	// Refresh bypasses cached upstream responses. Fresh responses are still
	// stored.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks the stage names.
func (o Options) Validate() error {
	for _, s := range o.Stages {
		if err := ValidateStage(s); err != nil {
			return err
		}
	}
	return nil
}

// Wants reports whether stage is part of the run.
func (o Options) Wants(stage string) bool {
	return len(o.Stages) == 0 || slices.Contains(o.Stages, stage)
}

// PageData is everything the page templates consume.
type PageData struct {
	RunID     string      `json:"run_id"`
	Generated time.Time   `json:"generated"`
	Site      config.Site `json:"site"`

	Releases      []records.ReleaseRecord `json:"releases"`
	Featured      *records.ReleaseRecord  `json:"releases_featured,omitempty"`
	Beta          []records.ReleaseRecord `json:"releases_beta"`
	Older         []records.ReleaseRecord `json:"releases_older"`
	Decisions     []branch.Decision       `json:"-"`
	Disagreements []version.Pair          `json:"-"`

	Themes       []records.ThemeRecord   `json:"themes"`
	News         []records.NewsItem      `json:"news"`
	Summary      *records.ProjectSummary `json:"summary,omitempty"`
	Donations    []records.Donation      `json:"donations"`
	Snapshots    []records.Snapshot      `json:"release_svn"`
	Translations []translation.Record    `json:"translations"`

	Stats Stats `json:"stats"`
}

// Stats contains run statistics.
type Stats struct {
	Stages   []StageStats  `json:"stages"`
	Duration time.Duration `json:"duration"`
}

// StageStats describes one executed stage.
type StageStats struct {
	Name     string        `json:"name"`
	Records  int           `json:"records"`
	Duration time.Duration `json:"duration"`
	Warning  string        `json:"warning,omitempty"`
}

// Stage returns the statistics of the named stage, if it ran.
func (s Stats) Stage(name string) (StageStats, bool) {
	for _, st := range s.Stages {
		if st.Name == name {
			return st, true
		}
	}
	return StageStats{}, false
}
