package records

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/sitegen/pkg/errors"
	"github.com/matzehuels/sitegen/pkg/feed"
)

const (
	listingMarker    = "Includes files:"
	listingSeparator = "),"
)

var (
	sizeRE        = regexp.MustCompile(`\(([0-9]+) bytes, ([0-9]+) downloads to date`)
	lineBreakMark = []string{"<br />", "<br/>", "<br>", "\n"}
)

// FileListing returns the raw per-file tokens of a release summary: the text
// between "Includes files:" and the first line break, split on "),".
func FileListing(summary string) ([]string, error) {
	idx := strings.Index(summary, listingMarker)
	if idx < 0 {
		return nil, errors.New(errors.ErrCodeParse, "no %q marker in summary", listingMarker)
	}
	rest := summary[idx+len(listingMarker):]
	end := len(rest)
	for _, br := range lineBreakMark {
		if i := strings.Index(rest, br); i >= 0 && i < end {
			end = i
		}
	}
	return strings.Split(rest[:end], listingSeparator), nil
}

// ParseFileToken parses one file of a listing, e.g.
// "phpMyAdmin-3.1.0-all-languages.zip (4212345 bytes, 120 downloads to date".
func (p *Parser) ParseFileToken(text string) (FileRecord, error) {
	m := sizeRE.FindStringSubmatch(text)
	if m == nil {
		return FileRecord{}, errors.New(errors.ErrCodeParse, "file token %q: no size and download count", strings.TrimSpace(text))
	}
	fields := strings.Fields(text)
	name := fields[0]
	size, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return FileRecord{}, errors.Wrap(errors.ErrCodeParse, err, "file %s: size", name)
	}
	downloads, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return FileRecord{}, errors.Wrap(errors.ErrCodeParse, err, "file %s: download count", name)
	}

	sum, err := p.registry.Checksum(name)
	if err != nil {
		p.logger.Warn("no checksum", "file", name)
	}

	return FileRecord{
		Name:          name,
		DownloadURL:   strings.Replace(p.opts.DownloadURL, "%s", name, 1),
		Extension:     path.Ext(name),
		IsFeatured:    p.opts.FilesMark != "" && strings.Contains(name, p.opts.FilesMark),
		SizeBytes:     size,
		HumanSize:     humanize.IBytes(uint64(size)),
		DownloadCount: downloads,
		Checksum:      sum,
	}, nil
}

func (p *Parser) parseListing(entry feed.Entry) ([]FileRecord, error) {
	tokens, err := FileListing(entry.Summary)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "entry %q", entry.Title)
	}
	files := make([]FileRecord, 0, len(tokens))
	for _, tok := range tokens {
		f, err := p.ParseFileToken(tok)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "entry %q", entry.Title)
		}
		files = append(files, f)
	}
	return files, nil
}
