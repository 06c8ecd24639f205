// Package feed defines the explicit schema of syndication feed entries and
// decodes RSS 2.0 documents into it.
//
// Entries are plain values. Parsers that need a field ask for it through
// [Entry.Require], which fails with a PARSE_ERROR naming the entry instead of
// letting a zero value flow into the records.
package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/sitegen/pkg/errors"
)

// Field names accepted by [Entry.Require].
const (
	FieldTitle   = "title"
	FieldLink    = "link"
	FieldSummary = "summary"
	FieldUpdated = "updated"
)

// Entry is one item of a feed.
type Entry struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Summary string `json:"summary"`
	Updated string `json:"updated"`
}

// Document is an ordered sequence of entries as published by the feed.
type Document struct {
	Title   string  `json:"title"`
	Link    string  `json:"link"`
	Entries []Entry `json:"entries"`
}

// Require checks that the named fields are non-empty.
func (e Entry) Require(fields ...string) error {
	for _, f := range fields {
		var v string
		switch f {
		case FieldTitle:
			v = e.Title
		case FieldLink:
			v = e.Link
		case FieldSummary:
			v = e.Summary
		case FieldUpdated:
			v = e.Updated
		default:
			return errors.New(errors.ErrCodeInternal, "unknown feed field %q", f)
		}
		if strings.TrimSpace(v) == "" {
			return errors.New(errors.ErrCodeParse, "feed entry %q: missing %s", e.Title, f)
		}
	}
	return nil
}

// Tokens splits the title on whitespace.
func (e Entry) Tokens() []string {
	return strings.Fields(e.Title)
}

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

// Time parses the entry's updated field.
func (e Entry) Time() (time.Time, error) {
	s := strings.TrimSpace(e.Updated)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeParse, "feed entry %q: unparseable date %q", e.Title, e.Updated)
}

type rss struct {
	Channel channel `xml:"channel"`
}

type channel struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
	Items []item `xml:"item"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Date        string `xml:"http://purl.org/dc/elements/1.1/ date"`
}

// ParseRSS decodes an RSS 2.0 document. The item description becomes the
// entry summary; pubDate (or dc:date) becomes the updated field.
func ParseRSS(data []byte) (*Document, error) {
	var doc rss
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "decode rss")
	}

	out := &Document{
		Title:   strings.TrimSpace(doc.Channel.Title),
		Link:    strings.TrimSpace(doc.Channel.Link),
		Entries: make([]Entry, 0, len(doc.Channel.Items)),
	}
	for _, it := range doc.Channel.Items {
		updated := it.PubDate
		if strings.TrimSpace(updated) == "" {
			updated = it.Date
		}
		out.Entries = append(out.Entries, Entry{
			Title:   strings.TrimSpace(it.Title),
			Link:    strings.TrimSpace(it.Link),
			Summary: strings.TrimSpace(it.Description),
			Updated: strings.TrimSpace(updated),
		})
	}
	return out, nil
}

// String renders a short description used in log lines.
func (d *Document) String() string {
	return fmt.Sprintf("%s (%d entries)", d.Title, len(d.Entries))
}
