// Package config holds the generator settings.
//
// A [Config] is built once from [Default], optionally overlaid with a TOML file
// through [Load] and with command-line flags through [Config.WithOverrides].
// Components never read globals: they receive the Config or one of the option
// values derived from it ([Config.ParserOptions], [Config.TranslationOptions]).
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sitegen/pkg/cache"
	"github.com/matzehuels/sitegen/pkg/errors"
	"github.com/matzehuels/sitegen/pkg/records"
	"github.com/matzehuels/sitegen/pkg/registry"
	"github.com/matzehuels/sitegen/pkg/source"
	"github.com/matzehuels/sitegen/pkg/translation"
	"github.com/matzehuels/sitegen/pkg/version"
)

// Site describes where the generated pages are served from.
type Site struct {
	Server    string `toml:"server" json:"server"`
	BaseURL   string `toml:"base_url" json:"base_url"`
	Extension string `toml:"extension" json:"extension"`
	Output    string `toml:"output" json:"-"`
	Clean     bool   `toml:"clean" json:"-"`
}

// Project identifies the product inside the release feeds.
type Project struct {
	Name        string `toml:"name"`
	Product     string `toml:"product"`
	ThemePrefix string `toml:"theme_prefix"`
	FilesMark   string `toml:"files_mark"`
	DownloadURL string `toml:"download_url"`
	ThemeImage  string `toml:"theme_image"`
}

// Feeds lists the syndication feed URLs. An empty URL disables the feed.
type Feeds struct {
	Releases  string `toml:"releases"`
	News      string `toml:"news"`
	Summary   string `toml:"summary"`
	Donations string `toml:"donations"`
}

// Snapshots locates the development snapshot lists.
type Snapshots struct {
	MD5URL       string `toml:"md5_url"`
	SizesURL     string `toml:"sizes_url"`
	DownloadBase string `toml:"download_base"`
}

// Translations locates the message catalogs in a GitHub repository.
type Translations struct {
	Owner           string `toml:"owner"`
	Repo            string `toml:"repo"`
	Ref             string `toml:"ref"`
	LangPath        string `toml:"lang_path"`
	TranslatorsPath string `toml:"translators_path"`
	Token           string `toml:"token"`

	translation.Options
}

// Enabled reports whether a catalog repository is configured.
func (t Translations) Enabled() bool {
	return t.Owner != "" && t.Repo != ""
}

// Cache selects the response cache backend.
type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	URL     string   `toml:"url"`
	TTL     Duration `toml:"ttl"`
}

// Data points at optional files overriding the embedded registry.
type Data struct {
	Registry  string `toml:"registry"`
	Checksums string `toml:"checksums"`
}

// Config is the full generator configuration. Treat it as a value: use
// [Config.WithOverrides] instead of mutating a shared copy.
type Config struct {
	Site         Site             `toml:"site"`
	Project      Project          `toml:"project"`
	Feeds        Feeds            `toml:"feeds"`
	Snapshots    Snapshots        `toml:"snapshots"`
	Translations Translations     `toml:"translations"`
	Cache        Cache            `toml:"cache"`
	Data         Data             `toml:"data"`
	Series       []version.Series `toml:"series"`
}

// Duration is a time.Duration decoded from strings such as "6h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings of the phpMyAdmin home page.
func Default() Config {
	parser := records.DefaultOptions()
	return Config{
		Site: Site{
			Server:    defaultServer,
			BaseURL:   defaultBaseURL,
			Extension: defaultExtension,
			Output:    defaultOutput,
			Clean:     true,
		},
		Project: Project{
			Name:        "phpMyAdmin",
			Product:     parser.Product,
			ThemePrefix: parser.ThemePrefix,
			FilesMark:   parser.FilesMark,
			DownloadURL: parser.DownloadURL,
			ThemeImage:  parser.ThemeImage,
		},
		Feeds: Feeds{
			Releases:  fmt.Sprintf(defaultReleasesFeed, defaultProjectID),
			News:      fmt.Sprintf(defaultNewsFeed, defaultProjectID),
			Summary:   fmt.Sprintf(defaultSummaryFeed, defaultProjectID),
			Donations: fmt.Sprintf(defaultDonationsFeed, defaultProjectID),
		},
		Snapshots: Snapshots{
			MD5URL:       defaultSnapshotBase + "md5.sums",
			SizesURL:     defaultSnapshotBase + "files.list",
			DownloadBase: defaultSnapshotBase,
		},
		Translations: Translations{
			Owner:           "phpmyadmin",
			Repo:            "phpmyadmin",
			LangPath:        "lang",
			TranslatorsPath: "translators.html",
			Options:         translation.DefaultOptions(),
		},
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     Duration{defaultCacheTTL},
		},
		Series: slices.Clone(version.DefaultSeries),
	}
}

// Load reads the TOML file at path on top of [Default]. Keys missing from the
// file keep their default value. The result is normalized and validated.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Overrides are command-line settings applied on top of a loaded Config.
// Nil pointers and empty strings leave the value unchanged.
type Overrides struct {
	Server    string
	BaseURL   string
	Extension string
	Output    string
	Clean     *bool
	NoCache   bool
	CacheDir  string
}

// WithOverrides returns a copy of c with o applied.
func (c Config) WithOverrides(o Overrides) Config {
	out := c
	out.Series = slices.Clone(c.Series)
	if o.Server != "" {
		out.Site.Server = o.Server
	}
	if o.BaseURL != "" {
		out.Site.BaseURL = o.BaseURL
	}
	if o.Extension != "" {
		out.Site.Extension = o.Extension
	}
	if o.Output != "" {
		out.Site.Output = o.Output
	}
	if o.Clean != nil {
		out.Site.Clean = *o.Clean
	}
	if o.NoCache {
		out.Cache.Backend = cache.BackendNone
	}
	if o.CacheDir != "" {
		out.Cache.Dir = o.CacheDir
	}
	out.normalize()
	return out
}

// ParserOptions derives the feed parser settings.
func (c Config) ParserOptions() records.Options {
	return records.Options{
		Product:     c.Project.Product,
		ThemePrefix: c.Project.ThemePrefix,
		FilesMark:   c.Project.FilesMark,
		DownloadURL: c.Project.DownloadURL,
		ThemeImage:  c.Project.ThemeImage,
		Series:      slices.Clone(c.Series),
	}
}

// TranslationOptions derives the catalog statistics settings.
func (c Config) TranslationOptions() translation.Options {
	return c.Translations.Options
}

// GitHubOptions derives the catalog repository location.
func (c Config) GitHubOptions() source.GitHubOptions {
	return source.GitHubOptions{
		Owner: c.Translations.Owner,
		Repo:  c.Translations.Repo,
		Ref:   c.Translations.Ref,
		Dir:   c.Translations.LangPath,
		Token: c.Translations.Token,
	}
}

// Registry returns the embedded registry merged with the configured data
// files.
func (c Config) Registry() (*registry.Registry, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	if c.Data.Registry != "" {
		extra, err := registry.Load(c.Data.Registry)
		if err != nil {
			return nil, err
		}
		reg = reg.Merge(extra)
	}
	if c.Data.Checksums != "" {
		data, err := os.ReadFile(c.Data.Checksums)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read checksums")
		}
		sums, err := registry.ParseChecksums(string(data))
		if err != nil {
			return nil, err
		}
		reg = reg.WithChecksums(sums)
	}
	return reg, nil
}
