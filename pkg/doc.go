// Package pkg provides the core libraries of sitegen, the data generator of
// the phpMyAdmin home page.
//
// # Overview
//
// Sitegen reads the project's syndication feeds and translation catalogs and
// turns them into the structured data the page templates render. The pkg
// directory is organized into three main areas:
//
//  1. Domain logic ([version], [records], [branch], [translation])
//  2. Infrastructure ([source], [cache], [config], [registry], [observability])
//  3. Orchestration ([pipeline])
//
// # Architecture
//
// The typical data flow of one run:
//
//	Release / news / summary / donation feeds      Catalog repository
//	         ↓                                             ↓
//	    [source] package (fetch through [cache])    [source] Repository
//	         ↓                                             ↓
//	    [feed] package (explicit entry schema)      [translation] statistics
//	         ↓                                             ↓
//	    [records] package (typed records)                  │
//	         ↓                                             │
//	    [branch] package (current / beta / older)          │
//	         ↓                                             ↓
//	    [pipeline] PageData  →  JSON for the page templates
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/sitegen/pkg/cache"
//	    "github.com/matzehuels/sitegen/pkg/config"
//	    "github.com/matzehuels/sitegen/pkg/pipeline"
//	)
//
//	cfg := config.Default()
//	c, _ := cache.Open(ctx, cache.Options{Backend: cache.BackendFile, Dir: dir})
//	runner := pipeline.NewRunner(cfg, c, nil, logger)
//	data, err := runner.Execute(ctx, pipeline.Options{})
//
// # Main Packages
//
// ## Domain Logic
//
// [version] - Release version ordering. Versions compare as raw strings; the
// semantic order is only used to report disagreements.
//
// [records] - Feed entries to release, theme, news, donation, summary and
// snapshot records, including download file listings.
//
// [branch] - Classification of releases into the featured stable release,
// other current branches, beta releases and older releases.
//
// [translation] - Per-language catalog statistics: translated message counts,
// completion percentage, translators and last update date.
//
// ## Infrastructure
//
// [source] - HTTP access to feeds, text lists and the GitHub catalog
// repository, with retries and response caching.
//
// [cache] - Response cache backends: file, sqlite, redis, mongo and none.
//
// [config] - TOML configuration with defaults and command-line overrides.
//
// [registry] - Static metadata the feeds do not carry: themes, support tiers,
// language codes and file checksums.
//
// [observability] - Hooks for cache, HTTP and pipeline events.
//
// [errors] - Coded errors shared by every package.
//
// ## Orchestration
//
// [pipeline] - Runs the stages of a generator run and assembles the page
// data. Used by every CLI command.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/branch/...             # Specific package
//
// [version]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/version
// [records]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/records
// [branch]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/branch
// [translation]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/translation
// [source]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/config
// [registry]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/registry
// [observability]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/errors
// [feed]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/feed
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sitegen/pkg/pipeline
package pkg
