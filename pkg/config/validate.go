package config

import (
	"strings"

	"github.com/matzehuels/sitegen/pkg/cache"
	"github.com/matzehuels/sitegen/pkg/errors"
)

// Validate ensures the configuration is usable. Failures are INVALID_CONFIG
// errors naming the offending key.
func (c Config) Validate() error {
	for _, validate := range []func() error{
		c.validateSite,
		c.validateProject,
		c.validateFeeds,
		c.validateSnapshots,
		c.validateTranslations,
		c.validateCache,
		c.validateSeries,
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) validateSite() error {
	if err := errors.ValidateURL(c.Site.Server); err != nil {
		return invalid("site.server", err)
	}
	if !strings.HasPrefix(c.Site.BaseURL, "/") {
		return errors.New(errors.ErrCodeInvalidConfig, "site.base_url must start with /")
	}
	if c.Site.Extension == "" || strings.ContainsAny(c.Site.Extension, "/\\") {
		return errors.New(errors.ErrCodeInvalidConfig, "site.extension must be a bare file extension, got %q", c.Site.Extension)
	}
	if strings.TrimSpace(c.Site.Output) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "site.output is required")
	}
	return nil
}

func (c Config) validateProject() error {
	if c.Project.Product == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "project.product is required")
	}
	if c.Project.ThemePrefix == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "project.theme_prefix is required")
	}
	if strings.Count(c.Project.DownloadURL, "%s") != 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "project.download_url must contain exactly one %%s")
	}
	if c.Project.ThemeImage != "" && strings.Count(c.Project.ThemeImage, "%s") != 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "project.theme_image must contain exactly one %%s")
	}
	return nil
}

func (c Config) validateFeeds() error {
	feeds := []struct{ key, url string }{
		{"feeds.releases", c.Feeds.Releases},
		{"feeds.news", c.Feeds.News},
		{"feeds.summary", c.Feeds.Summary},
		{"feeds.donations", c.Feeds.Donations},
	}
	for _, f := range feeds {
		if f.url == "" {
			continue
		}
		if err := errors.ValidateURL(f.url); err != nil {
			return invalid(f.key, err)
		}
	}
	return nil
}

func (c Config) validateSnapshots() error {
	s := c.Snapshots
	if s.MD5URL == "" && s.SizesURL == "" {
		return nil
	}
	if s.MD5URL == "" || s.SizesURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "snapshots.md5_url and snapshots.sizes_url must be set together")
	}
	for key, url := range map[string]string{
		"snapshots.md5_url":       s.MD5URL,
		"snapshots.sizes_url":     s.SizesURL,
		"snapshots.download_base": s.DownloadBase,
	} {
		if err := errors.ValidateURL(url); err != nil {
			return invalid(key, err)
		}
	}
	return nil
}

func (c Config) validateTranslations() error {
	t := c.Translations
	if t.Owner == "" && t.Repo == "" {
		return nil
	}
	if err := errors.ValidateRepoSlug(t.Owner); err != nil {
		return invalid("translations.owner", err)
	}
	if err := errors.ValidateRepoSlug(t.Repo); err != nil {
		return invalid("translations.repo", err)
	}
	if err := errors.ValidatePath(t.LangPath); err != nil {
		return invalid("translations.lang_path", err)
	}
	if t.TranslatorsPath == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "translations.translators_path is required")
	}
	if err := errors.ValidatePath(t.TranslatorsPath); err != nil {
		return invalid("translations.translators_path", err)
	}
	if t.Suffix == "" || t.Reference == "" || t.MessagePrefix == "" || t.MissingMarker == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "translations: suffix, reference, message_prefix and missing_marker are required")
	}
	return nil
}

func (c Config) validateCache() error {
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone, cache.BackendSQLite:
	case cache.BackendRedis, cache.BackendMongo:
		if c.Cache.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.url is required for the %s backend", c.Cache.Backend)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

func (c Config) validateSeries() error {
	for i, s := range c.Series {
		if s.Prefix == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "series[%d].prefix is required", i)
		}
	}
	return nil
}

func invalid(key string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", key)
}
