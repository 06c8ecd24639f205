// Package registry holds the static metadata the upstream feeds do not
// carry: theme names and support tiers, the support tier to CSS class table,
// catalog language codes and release file checksums.
//
// A default registry is embedded in the binary. Sites override parts of it
// with their own TOML files or md5sum-style checksum lists.
package registry

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sitegen/pkg/errors"
)

//go:embed registry.toml
var defaultRegistry []byte

// ChecksumNA is the checksum shown when a file has no known checksum.
const ChecksumNA = "N/A"

// SupportNA is the support tier of themes without registry metadata.
const SupportNA = "N/A"

// Theme is the descriptive metadata of one theme release.
type Theme struct {
	Name    string `toml:"name" json:"name"`
	Support string `toml:"support" json:"support"`
	Info    string `toml:"info" json:"info"`
}

// Registry is read-only after construction.
type Registry struct {
	CSS       map[string]string `toml:"css"`
	Themes    map[string]Theme  `toml:"themes"`
	Languages map[string]string `toml:"languages"`
	Checksums map[string]string `toml:"checksums"`
}

// Default returns the embedded registry.
func Default() (*Registry, error) {
	return Parse(defaultRegistry)
}

// Parse decodes a registry from TOML.
func Parse(data []byte) (*Registry, error) {
	var r Registry
	if _, err := toml.Decode(string(data), &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode registry")
	}
	r.init()
	return &r, nil
}

// Load reads the registry file at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	return Parse(data)
}

func (r *Registry) init() {
	if r.CSS == nil {
		r.CSS = map[string]string{}
	}
	if r.Themes == nil {
		r.Themes = map[string]Theme{}
	}
	if r.Languages == nil {
		r.Languages = map[string]string{}
	}
	if r.Checksums == nil {
		r.Checksums = map[string]string{}
	}
}

// Merge returns a new registry where entries of other replace entries of r.
func (r *Registry) Merge(other *Registry) *Registry {
	out := &Registry{
		CSS:       maps.Clone(r.CSS),
		Themes:    maps.Clone(r.Themes),
		Languages: maps.Clone(r.Languages),
		Checksums: maps.Clone(r.Checksums),
	}
	out.init()
	if other == nil {
		return out
	}
	maps.Copy(out.CSS, other.CSS)
	maps.Copy(out.Themes, other.Themes)
	maps.Copy(out.Languages, other.Languages)
	maps.Copy(out.Checksums, other.Checksums)
	return out
}

// WithChecksums returns a copy of r with sums added.
func (r *Registry) WithChecksums(sums map[string]string) *Registry {
	return r.Merge(&Registry{Checksums: sums})
}

// Theme looks up "{short}-{version}". A miss is a LOOKUP_ERROR.
func (r *Registry) Theme(short, version string) (Theme, error) {
	key := short + "-" + version
	if t, ok := r.Themes[key]; ok {
		return t, nil
	}
	return Theme{}, errors.New(errors.ErrCodeLookup, "no metadata for theme %s", key)
}

// CSSClass maps a support tier to its CSS class. Unknown tiers are a
// PARSE_ERROR: every tier shown on the site must be styled.
func (r *Registry) CSSClass(support string) (string, error) {
	if c, ok := r.CSS[support]; ok {
		return c, nil
	}
	return "", errors.New(errors.ErrCodeParse, "unknown support tier %q", support)
}

// Checksum returns the checksum of a released file. A miss is a
// LOOKUP_ERROR and the returned value is [ChecksumNA].
func (r *Registry) Checksum(filename string) (string, error) {
	if sum, ok := r.Checksums[filename]; ok {
		return sum, nil
	}
	return ChecksumNA, errors.New(errors.ErrCodeLookup, "no checksum for %s", filename)
}

// Language returns the short code of a catalog language.
func (r *Registry) Language(name string) (string, error) {
	if code, ok := r.Languages[name]; ok {
		return code, nil
	}
	return name, errors.New(errors.ErrCodeLookup, "no short name for language %s", name)
}

// ParseChecksums reads md5sum output: one "<sum>  <name>" pair per line.
// Blank lines are skipped; anything else that does not split in two is a
// PARSE_ERROR.
func ParseChecksums(text string) (map[string]string, error) {
	sums := map[string]string{}
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sum, name, ok := strings.Cut(line, "  ")
		if !ok {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, errors.New(errors.ErrCodeParse, "checksum line %d: %q", i+1, line)
			}
			sum, name = fields[0], fields[1]
		}
		sums[strings.TrimPrefix(strings.TrimSpace(name), "*")] = strings.TrimSpace(sum)
	}
	return sums, nil
}
