package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/sitegen/pkg/errors"
)

func TestDefault(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if r.Languages["czech"] != "cs" {
		t.Errorf("czech = %q, want cs", r.Languages["czech"])
	}
	if _, ok := r.CSS[SupportNA]; !ok {
		t.Error("default CSS table must style the N/A tier")
	}
	for key, theme := range r.Themes {
		if _, err := r.CSSClass(theme.Support); err != nil {
			t.Errorf("theme %s has unstyled tier %q", key, theme.Support)
		}
	}
}

func TestTheme(t *testing.T) {
	r, _ := Default()

	theme, err := r.Theme("darkblue_orange", "2.11")
	if err != nil {
		t.Fatalf("Theme() error: %v", err)
	}
	if theme.Name != "Darkblue/orange" || theme.Support != "2.11" {
		t.Errorf("Theme() = %+v", theme)
	}

	_, err = r.Theme("darkblue_orange", "9.9")
	if !errors.Is(err, errors.ErrCodeLookup) {
		t.Errorf("missing theme should be LOOKUP_ERROR, got %v", err)
	}
}

func TestCSSClass_UnknownTier(t *testing.T) {
	r, _ := Default()
	_, err := r.CSSClass("legacy")
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("unknown tier should be PARSE_ERROR, got %v", err)
	}
}

func TestChecksum(t *testing.T) {
	r, _ := Default()
	r = r.WithChecksums(map[string]string{"phpMyAdmin-3.1.0-all-languages.zip": "abc123"})

	sum, err := r.Checksum("phpMyAdmin-3.1.0-all-languages.zip")
	if err != nil || sum != "abc123" {
		t.Errorf("Checksum() = %q, %v", sum, err)
	}

	sum, err = r.Checksum("missing.zip")
	if sum != ChecksumNA {
		t.Errorf("missing checksum = %q, want %q", sum, ChecksumNA)
	}
	if !errors.Is(err, errors.ErrCodeLookup) {
		t.Errorf("missing checksum should be LOOKUP_ERROR, got %v", err)
	}
}

func TestLanguage(t *testing.T) {
	r, _ := Default()
	if code, err := r.Language("german"); err != nil || code != "de" {
		t.Errorf("Language(german) = %q, %v", code, err)
	}
	code, err := r.Language("klingon")
	if code != "klingon" || !errors.Is(err, errors.ErrCodeLookup) {
		t.Errorf("Language(klingon) = %q, %v", code, err)
	}
}

func TestMerge(t *testing.T) {
	base, _ := Default()
	other, err := Parse([]byte(`
[css]
"3.3" = "support-next"

[themes."original-3.3"]
name = "Original"
support = "3.3"
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	merged := base.Merge(other)
	if _, err := merged.Theme("original", "3.3"); err != nil {
		t.Errorf("merged registry should know original-3.3: %v", err)
	}
	if _, err := merged.Theme("original", "3.1"); err != nil {
		t.Errorf("merged registry should keep base themes: %v", err)
	}
	if _, err := base.Theme("original", "3.3"); err == nil {
		t.Error("Merge must not modify the receiver")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.toml")
	if err := os.WriteFile(path, []byte("[languages]\nesperanto = \"eo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if r.Languages["esperanto"] != "eo" {
		t.Errorf("Languages = %v", r.Languages)
	}
	if r.Themes == nil || r.Checksums == nil {
		t.Error("Load should initialize empty tables")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseChecksums(t *testing.T) {
	text := "d41d8cd98f00b204e9800998ecf8427e  phpMyAdmin-3.1.0-all-languages.zip\n\n" +
		"0cc175b9c0f1b6a831c399e269772661 *phpMyAdmin-3.1.0-english.tar.gz\n"
	sums, err := ParseChecksums(text)
	if err != nil {
		t.Fatalf("ParseChecksums() error: %v", err)
	}
	if sums["phpMyAdmin-3.1.0-all-languages.zip"] != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("sums = %v", sums)
	}
	if sums["phpMyAdmin-3.1.0-english.tar.gz"] != "0cc175b9c0f1b6a831c399e269772661" {
		t.Errorf("binary-mode entry not parsed: %v", sums)
	}

	if _, err := ParseChecksums("garbage"); !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("expected PARSE_ERROR, got %v", err)
	}
}
