package translation

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/sitegen/pkg/errors"
)

// Directory is the parsed translators page: an HTML table with one row per
// language, the row id being the catalog language and the second cell
// listing its translators.
type Directory struct {
	doc *goquery.Document
}

// ParseDirectory parses the translators page.
func ParseDirectory(html string) (*Directory, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse translators page")
	}
	return &Directory{doc: doc}, nil
}

// Translators returns the raw translator field of lang, one contributor per
// line, or "" when the page has no such row. Line breaks in the cell
// separate contributors.
func (d *Directory) Translators(lang string) string {
	if d == nil || d.doc == nil {
		return ""
	}
	row := d.doc.Find("tr").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		return id == lang
	}).First()
	cell := row.ChildrenFiltered("td").Eq(1).Clone()
	cell.Find("br").ReplaceWithHtml("\n")

	var lines []string
	for _, line := range strings.Split(cell.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Lookup returns the translator field of lang, falling back to base.
func (d *Directory) Lookup(lang, base string) string {
	if t := d.Translators(lang); t != "" {
		return t
	}
	if base == lang {
		return ""
	}
	return d.Translators(base)
}
