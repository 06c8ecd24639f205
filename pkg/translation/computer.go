package translation

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/matzehuels/sitegen/pkg/errors"
	"github.com/matzehuels/sitegen/pkg/observability"
	"github.com/matzehuels/sitegen/pkg/registry"
	"github.com/matzehuels/sitegen/pkg/source"
)

// Options describes the catalog layout.
type Options struct {
	Suffix        string `toml:"suffix"`         // catalog file name suffix
	Reference     string `toml:"reference"`      // language defining the message total
	MessagePrefix string `toml:"message_prefix"` // start of a message definition line
	MissingMarker string `toml:"missing_marker"` // marker of an untranslated message
}

// DefaultOptions matches the phpMyAdmin lang/ directory.
func DefaultOptions() Options {
	return Options{
		Suffix:        "-utf-8.inc.php",
		Reference:     "english",
		MessagePrefix: "$str",
		MissingMarker: "to translate",
	}
}

// Record is the statistics of one catalog.
type Record struct {
	Language    string    `json:"name"`
	ShortName   string    `json:"short"`
	DisplayName string    `json:"display,omitempty"`
	Translators []string  `json:"translators"`
	Translator  string    `json:"translator"`
	Translated  int       `json:"translated"`
	Total       int       `json:"total"`
	Percent     float64   `json:"-"`
	PercentText string    `json:"percent"`
	LastUpdate  time.Time `json:"updated,omitzero"`
	Severity    string    `json:"css"`
}

// Computer builds translation records from a catalog.
type Computer struct {
	opts     Options
	registry *registry.Registry
	logger   *log.Logger
}

// NewComputer creates a Computer. reg supplies the catalog language to short
// code map.
func NewComputer(opts Options, reg *registry.Registry, logger *log.Logger) *Computer {
	if reg == nil {
		reg = (&registry.Registry{}).Merge(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Computer{opts: opts, registry: reg, logger: logger}
}

// Compute returns one record per catalog file, in listing order. Missing
// translators or language names are logged and replaced by defaults; a
// reference catalog without messages is a PARSE_ERROR.
func (c *Computer) Compute(ctx context.Context, catalog source.Catalog, dir *Directory) ([]Record, error) {
	c.logger.Debug("processing translation stats")

	names, err := catalog.Ls(ctx)
	if err != nil {
		return nil, err
	}
	refText, err := catalog.Cat(ctx, c.opts.Reference+c.opts.Suffix)
	if err != nil {
		return nil, err
	}
	total := CountMessages(refText, c.opts.MessagePrefix)
	if total == 0 {
		return nil, errors.New(errors.ErrCodeParse, "reference catalog %s%s has no messages", c.opts.Reference, c.opts.Suffix)
	}

	var out []Record
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lang, base, ok := SplitName(name, c.opts.Suffix)
		if !ok {
			continue
		}
		rec, err := c.computeOne(ctx, catalog, dir, name, lang, base, total)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c *Computer) computeOne(ctx context.Context, catalog source.Catalog, dir *Directory, name, lang, base string, total int) (Record, error) {
	hooks := observability.Pipeline()

	short, err := c.registry.Language(lang)
	if err != nil {
		c.logger.Warn("no short name for language", "lang", lang)
		hooks.OnLookupMiss(ctx, "language", lang)
	}
	c.logger.Debug("translation", "lang", lang, "short", short)

	raw := dir.Lookup(lang, base)
	if raw == "" {
		c.logger.Warn("no translator", "lang", lang)
		hooks.OnLookupMiss(ctx, "translator", lang)
	}
	translators := FormatTranslators(raw)

	commits, err := catalog.Log(ctx, name)
	if err != nil {
		return Record{}, err
	}
	var updated time.Time
	if lang == c.opts.Reference {
		if len(commits) > 0 {
			updated = commits[0].Date
		}
	} else {
		updated, _ = LastUpdate(commits, UpdatePattern(lang, short, base))
	}

	content, err := catalog.Cat(ctx, name)
	if err != nil {
		return Record{}, err
	}
	missing := CountMissing(content, c.opts.MessagePrefix, c.opts.MissingMarker)
	translated := total - missing
	percent := Percent(translated, total)

	return Record{
		Language:    lang,
		ShortName:   short,
		DisplayName: DisplayName(short),
		Translators: translators,
		Translator:  strings.Join(translators, ", "),
		Translated:  translated,
		Total:       total,
		Percent:     percent,
		PercentText: FormatPercent(percent),
		LastUpdate:  updated,
		Severity:    Severity(percent),
	}, nil
}

// DisplayName returns the English name of a short language code such as
// "de" or "pt_BR", or "" when the code is not a valid language tag.
func DisplayName(short string) string {
	code, _, _ := strings.Cut(short, "@")
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(tag)
}
