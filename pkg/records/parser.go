package records

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sitegen/pkg/errors"
	"github.com/matzehuels/sitegen/pkg/feed"
	"github.com/matzehuels/sitegen/pkg/registry"
	"github.com/matzehuels/sitegen/pkg/version"
)

// Options configures a [Parser].
type Options struct {
	Product     string           // title token identifying product releases, e.g. "phpMyAdmin"
	ThemePrefix string           // title prefix identifying theme releases, e.g. "theme-"
	FilesMark   string           // file name marker of the featured download, e.g. "all-languages."
	DownloadURL string           // download URL pattern with one %s for the file name
	ThemeImage  string           // theme screenshot path pattern with one %s for the short name
	Series      []version.Series // release descriptions by version prefix
}

// DefaultOptions returns the settings used by the phpMyAdmin site.
func DefaultOptions() Options {
	return Options{
		Product:     "phpMyAdmin",
		ThemePrefix: "theme-",
		FilesMark:   "all-languages.",
		DownloadURL: "http://prdownloads.sourceforge.net/phpmyadmin/%s?download",
		ThemeImage:  "images/themes/%s.png",
		Series:      version.DefaultSeries,
	}
}

// Parser extracts typed records from feed entries.
// It holds no mutable state and may be reused across feeds.
type Parser struct {
	opts     Options
	registry *registry.Registry
	logger   *log.Logger
}

// NewParser creates a parser. A nil registry means an empty one; a nil
// logger means log.Default().
func NewParser(opts Options, reg *registry.Registry, logger *log.Logger) *Parser {
	if reg == nil {
		reg = (&registry.Registry{}).Merge(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{opts: opts, registry: reg, logger: logger}
}

// ParseRelease converts one entry into a release. ok is false when the entry
// belongs to another product.
func (p *Parser) ParseRelease(entry feed.Entry) (rel *ReleaseRecord, ok bool, err error) {
	if err := entry.Require(feed.FieldTitle); err != nil {
		return nil, false, err
	}
	tokens := entry.Tokens()
	if tokens[0] != p.opts.Product {
		return nil, false, nil
	}
	if len(tokens) < 2 {
		return nil, false, errors.New(errors.ErrCodeParse, "release %q: no version in title", entry.Title)
	}
	v := tokens[1]
	if !version.Valid(v) {
		return nil, false, errors.New(errors.ErrCodeParse, "release %q: malformed version %q", entry.Title, v)
	}
	if err := entry.Require(feed.FieldLink, feed.FieldSummary, feed.FieldUpdated); err != nil {
		return nil, false, err
	}
	date, err := entry.Time()
	if err != nil {
		return nil, false, err
	}

	info, generic := version.Describe(v, p.opts.Series)
	if generic {
		p.logger.Warn("generic pre-release description", "version", v)
	}

	files, err := p.parseListing(entry)
	if err != nil {
		return nil, false, err
	}

	return &ReleaseRecord{
		ProductType: tokens[0],
		Version:     v,
		Date:        date,
		NotesLink:   entry.Link,
		Info:        info,
		Files:       files,
	}, true, nil
}

// ParseReleases parses every product release of doc, in feed order.
// The first malformed entry aborts parsing.
func (p *Parser) ParseReleases(doc *feed.Document) ([]ReleaseRecord, error) {
	p.logger.Debug("processing file releases", "entries", len(doc.Entries))
	var out []ReleaseRecord
	for _, entry := range doc.Entries {
		rel, ok, err := p.ParseRelease(entry)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, *rel)
		}
	}
	return out, nil
}

// ParseTheme converts one entry into a theme release. ok is false when the
// entry is not a theme.
func (p *Parser) ParseTheme(entry feed.Entry) (theme *ThemeRecord, ok bool, err error) {
	if err := entry.Require(feed.FieldTitle); err != nil {
		return nil, false, err
	}
	tokens := entry.Tokens()
	short, isTheme := strings.CutPrefix(tokens[0], p.opts.ThemePrefix)
	if !isTheme || p.opts.ThemePrefix == "" {
		return nil, false, nil
	}
	if len(tokens) < 2 {
		return nil, false, errors.New(errors.ErrCodeParse, "theme %q: no version in title", entry.Title)
	}
	v := tokens[1]
	if err := entry.Require(feed.FieldLink, feed.FieldSummary, feed.FieldUpdated); err != nil {
		return nil, false, err
	}
	date, err := entry.Time()
	if err != nil {
		return nil, false, err
	}

	t := &ThemeRecord{
		ShortName: short,
		Version:   v,
		Date:      date,
		NotesLink: entry.Link,
		ImagePath: fmt.Sprintf(p.opts.ThemeImage, short),
	}
	if meta, err := p.registry.Theme(short, v); err == nil {
		t.DisplayName, t.SupportLevel, t.Info = meta.Name, meta.Support, meta.Info
	} else {
		p.logger.Warn("no metadata for theme", "theme", short, "version", v)
		t.DisplayName, t.SupportLevel = short, registry.SupportNA
	}
	if t.CSSClass, err = p.registry.CSSClass(t.SupportLevel); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeParse, err, "theme %s-%s", short, v)
	}

	files, err := p.parseListing(entry)
	if err != nil {
		return nil, false, err
	}
	if len(files) > 1 {
		return nil, false, errors.New(errors.ErrCodeParse, "theme %s-%s: %d files, want one", short, v, len(files))
	}
	t.File = files[0]
	return t, true, nil
}

// ParseThemes parses every theme release of doc, newest first.
func (p *Parser) ParseThemes(doc *feed.Document) ([]ThemeRecord, error) {
	p.logger.Debug("processing theme releases", "entries", len(doc.Entries))
	var out []ThemeRecord
	for _, entry := range doc.Entries {
		t, ok, err := p.ParseTheme(entry)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, *t)
		}
	}
	slices.SortStableFunc(out, func(a, b ThemeRecord) int {
		return cmp.Compare(b.Date.Unix(), a.Date.Unix())
	})
	return out, nil
}
