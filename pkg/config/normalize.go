package config

import (
	"os"
	"strings"

	"github.com/matzehuels/sitegen/pkg/cache"
)

func (c *Config) normalize() {
	c.Site.Server = strings.TrimSuffix(strings.TrimSpace(c.Site.Server), "/")
	c.Site.BaseURL = strings.TrimSpace(c.Site.BaseURL)
	if !strings.HasSuffix(c.Site.BaseURL, "/") {
		c.Site.BaseURL += "/"
	}
	c.Site.Extension = strings.TrimPrefix(strings.TrimSpace(c.Site.Extension), ".")

	c.Translations.LangPath = strings.Trim(c.Translations.LangPath, "/")
	c.Translations.TranslatorsPath = strings.Trim(c.Translations.TranslatorsPath, "/")
	if c.Translations.Token == "" {
		c.Translations.Token = os.Getenv("GITHUB_TOKEN")
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendFile
	}
}
