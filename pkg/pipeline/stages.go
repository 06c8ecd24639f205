package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sitegen/pkg/branch"
	"github.com/matzehuels/sitegen/pkg/cache"
	"github.com/matzehuels/sitegen/pkg/config"
	"github.com/matzehuels/sitegen/pkg/feed"
	"github.com/matzehuels/sitegen/pkg/records"
	"github.com/matzehuels/sitegen/pkg/registry"
	"github.com/matzehuels/sitegen/pkg/source"
	"github.com/matzehuels/sitegen/pkg/translation"
	"github.com/matzehuels/sitegen/pkg/version"
)

// run holds the collaborators of one Execute call.
type run struct {
	cfg      config.Config
	logger   *log.Logger
	keyer    cache.Keyer
	client   *source.Client
	feeds    *source.FeedCache
	parser   *records.Parser
	registry *registry.Registry
	repo     source.Repository

	releasesDoc *feed.Document
}

// loadFeed fetches a feed; ok is false when the feed is not configured.
func (r *run) loadFeed(ctx context.Context, name, url string) (doc *feed.Document, ok bool, err error) {
	if url == "" {
		r.logger.Debug("feed disabled", "feed", name)
		return nil, false, nil
	}
	doc, err = r.feeds.Load(ctx, name, url)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// releaseFeed is shared by the releases and themes stages.
func (r *run) releaseFeed(ctx context.Context) (*feed.Document, bool, error) {
	if r.releasesDoc != nil {
		return r.releasesDoc, true, nil
	}
	doc, ok, err := r.loadFeed(ctx, StageReleases, r.cfg.Feeds.Releases)
	if ok {
		r.releasesDoc = doc
	}
	return doc, ok, err
}

func (r *run) snapshots(ctx context.Context, data *PageData) (int, error) {
	s := r.cfg.Snapshots
	if s.MD5URL == "" || s.SizesURL == "" {
		return 0, nil
	}
	sums, err := r.feeds.Text(ctx, s.MD5URL)
	if err != nil {
		return 0, err
	}
	sizes, err := r.feeds.Text(ctx, s.SizesURL)
	if err != nil {
		return 0, err
	}
	snaps, err := r.parser.ParseSnapshots(sums, sizes, s.DownloadBase)
	if err != nil {
		return 0, err
	}
	data.Snapshots = snaps
	return len(snaps), nil
}

func (r *run) releases(ctx context.Context, data *PageData) (int, error) {
	doc, ok, err := r.releaseFeed(ctx)
	if err != nil || !ok {
		return 0, err
	}
	rels, err := r.parser.ParseReleases(doc)
	if err != nil {
		return 0, err
	}
	res, err := branch.Classify(rels)
	if err != nil {
		return 0, err
	}
	for _, d := range res.Decisions {
		r.logger.Debug("classified release", "version", d.Version, "outcome", d.Outcome, "reason", d.Reason)
	}

	data.Releases = res.Current
	data.Featured = res.Featured
	data.Beta = res.Beta
	data.Older = res.Older
	data.Decisions = res.Decisions

	versions := make([]string, len(rels))
	for i, rel := range rels {
		versions[i] = rel.Version
	}
	data.Disagreements = version.Disagreements(versions)
	for _, p := range data.Disagreements {
		r.logger.Warn("version order differs from semantic order", "first", p.Lexical[0], "second", p.Lexical[1])
	}
	return len(rels), nil
}

func (r *run) themes(ctx context.Context, data *PageData) (int, error) {
	doc, ok, err := r.releaseFeed(ctx)
	if err != nil || !ok {
		return 0, err
	}
	themes, err := r.parser.ParseThemes(doc)
	if err != nil {
		return 0, err
	}
	data.Themes = themes
	return len(themes), nil
}

func (r *run) news(ctx context.Context, data *PageData) (int, error) {
	doc, ok, err := r.loadFeed(ctx, StageNews, r.cfg.Feeds.News)
	if err != nil || !ok {
		return 0, err
	}
	items, err := r.parser.ParseNews(doc)
	if err != nil {
		return 0, err
	}
	data.News = items
	return len(items), nil
}

func (r *run) summary(ctx context.Context, data *PageData) (int, error) {
	doc, ok, err := r.loadFeed(ctx, StageSummary, r.cfg.Feeds.Summary)
	if err != nil || !ok {
		return 0, err
	}
	s, err := r.parser.ParseSummary(doc)
	if err != nil {
		return 0, err
	}
	data.Summary = s
	return len(s.Trackers), nil
}

func (r *run) donations(ctx context.Context, data *PageData) (int, error) {
	doc, ok, err := r.loadFeed(ctx, StageDonations, r.cfg.Feeds.Donations)
	if err != nil || !ok {
		return 0, err
	}
	items, err := r.parser.ParseDonations(doc)
	if err != nil {
		return 0, err
	}
	data.Donations = items
	return len(items), nil
}

func (r *run) translations(ctx context.Context, data *PageData) (int, error) {
	repo := r.repo
	if repo == nil {
		if !r.cfg.Translations.Enabled() {
			r.logger.Debug("translations disabled")
			return 0, nil
		}
		repo = source.NewGitHubCatalog(r.client, r.keyer, r.cfg.GitHubOptions())
	}

	page, err := repo.File(ctx, r.cfg.Translations.TranslatorsPath)
	if err != nil {
		return 0, err
	}
	dir, err := translation.ParseDirectory(page)
	if err != nil {
		return 0, err
	}
	recs, err := translation.NewComputer(r.cfg.TranslationOptions(), r.registry, r.logger).Compute(ctx, repo, dir)
	if err != nil {
		return 0, err
	}
	data.Translations = recs
	return len(recs), nil
}
