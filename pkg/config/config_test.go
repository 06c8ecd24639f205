package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/sitegen/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Site.Server != "http://www.phpmyadmin.net" {
		t.Errorf("Server = %q", cfg.Site.Server)
	}
	if cfg.Site.BaseURL != "/home_page/" || cfg.Site.Extension != "php" {
		t.Errorf("Site = %+v", cfg.Site)
	}
	if want := "https://sourceforge.net/export/rss2_projfiles.php?group_id=23067&rss_limit=100"; cfg.Feeds.Releases != want {
		t.Errorf("Feeds.Releases = %q, want %q", cfg.Feeds.Releases, want)
	}
	if cfg.Cache.TTL.Duration != 6*time.Hour {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if !cfg.Translations.Enabled() {
		t.Error("translations should be enabled by default")
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "sitegen.toml", `
[site]
server = "https://www.example.org/"
extension = ".html"
base_url = "/pma"

[translations]
owner = "acme"
repo = "catalogs"
missing_marker = "TODO"

[cache]
backend = "SQLite"
ttl = "30m"

[[series]]
prefix = "4."
text = "Version compatible with PHP 5.2 and MySQL 5."
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Site.Server != "https://www.example.org" {
		t.Errorf("Server = %q, want trailing slash trimmed", cfg.Site.Server)
	}
	if cfg.Site.Extension != "html" {
		t.Errorf("Extension = %q", cfg.Site.Extension)
	}
	if cfg.Site.BaseURL != "/pma/" {
		t.Errorf("BaseURL = %q", cfg.Site.BaseURL)
	}
	if cfg.Translations.Owner != "acme" || cfg.Translations.MissingMarker != "TODO" {
		t.Errorf("Translations = %+v", cfg.Translations)
	}
	if cfg.Translations.Suffix != "-utf-8.inc.php" {
		t.Errorf("Suffix = %q, want default kept", cfg.Translations.Suffix)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.TTL.Duration != 30*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if len(cfg.Series) != 1 || cfg.Series[0].Prefix != "4." {
		t.Errorf("Series = %+v", cfg.Series)
	}
	if cfg.Feeds.News != Default().Feeds.News {
		t.Errorf("Feeds.News = %q, want default", cfg.Feeds.News)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[site]\nservr = \"http://x\"\n"},
		{"bad ttl", "[cache]\nttl = \"forever\"\n"},
		{"syntax", "[site\n"},
		{"bad server", "[site]\nserver = \"ftp://x\"\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n"},
		{"bad download url", "[project]\ndownload_url = \"http://x/\"\n"},
		{"bad repo", "[translations]\nowner = \"../etc\"\n"},
		{"half snapshots", "[snapshots]\nmd5_url = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.toml", tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %q, want INVALID_CONFIG (%v)", errors.GetCode(err), err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v", err)
	}
}

func TestWithOverrides(t *testing.T) {
	base := Default()
	no := false
	cfg := base.WithOverrides(Overrides{
		Server:    "https://mirror.example.net/",
		Extension: "html",
		Clean:     &no,
		NoCache:   true,
	})

	if cfg.Site.Server != "https://mirror.example.net" {
		t.Errorf("Server = %q", cfg.Site.Server)
	}
	if cfg.Site.Extension != "html" || cfg.Site.Clean {
		t.Errorf("Site = %+v", cfg.Site)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Site.BaseURL != base.Site.BaseURL {
		t.Errorf("BaseURL changed to %q", cfg.Site.BaseURL)
	}

	if base.Site.Server != "http://www.phpmyadmin.net" || !base.Site.Clean || base.Cache.Backend != "file" {
		t.Errorf("original modified: %+v %+v", base.Site, base.Cache)
	}
	cfg.Series[0].Text = "changed"
	if base.Series[0].Text == "changed" {
		t.Error("series shared between copies")
	}
}

func TestDerivedOptions(t *testing.T) {
	cfg := Default()
	cfg.Project.Product = "MyProduct"

	p := cfg.ParserOptions()
	if p.Product != "MyProduct" || p.DownloadURL != cfg.Project.DownloadURL {
		t.Errorf("ParserOptions = %+v", p)
	}
	if len(p.Series) != len(cfg.Series) {
		t.Errorf("Series len = %d, want %d", len(p.Series), len(cfg.Series))
	}

	if got := cfg.TranslationOptions().Reference; got != "english" {
		t.Errorf("Reference = %q", got)
	}

	gh := cfg.GitHubOptions()
	if gh.Owner != "phpmyadmin" || gh.Dir != "lang" {
		t.Errorf("GitHubOptions = %+v", gh)
	}
}

func TestRegistryDataFiles(t *testing.T) {
	cfg := Default()
	cfg.Data.Registry = writeFile(t, "registry.toml", "[languages]\nklingon = \"tlh\"\n")
	cfg.Data.Checksums = writeFile(t, "md5.sums", "0123abcd  phpMyAdmin-9.9.9-all-languages.zip\n")

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	if code, err := reg.Language("klingon"); err != nil || code != "tlh" {
		t.Errorf("Language(klingon) = %q, %v", code, err)
	}
	if sum, err := reg.Checksum("phpMyAdmin-9.9.9-all-languages.zip"); err != nil || sum != "0123abcd" {
		t.Errorf("Checksum = %q, %v", sum, err)
	}
	if _, err := reg.Language("english"); err != nil {
		t.Errorf("embedded entries lost: %v", err)
	}
}

func TestRegistryMissingDataFile(t *testing.T) {
	cfg := Default()
	cfg.Data.Checksums = filepath.Join(t.TempDir(), "nope")
	if _, err := cfg.Registry(); err == nil {
		t.Fatal("expected error")
	}
}
