package version

import "strings"

// Series maps a version prefix to the compatibility sentence shown next to
// every release of that series.
type Series struct {
	Prefix string `toml:"prefix" json:"prefix"`
	Text   string `toml:"text" json:"text"`
}

// DefaultSeries describes the release series known at build time.
var DefaultSeries = []Series{
	{Prefix: "2.", Text: "Version compatible with PHP 4+ and MySQL 3+."},
	{Prefix: "3.", Text: "Version compatible with PHP 5 and MySQL 5."},
}

// RecommendedNote is appended to the description of the featured release.
const RecommendedNote = "Currently recommended version."

var stageNotes = []struct {
	tag  string
	note string
}{
	{"beta1", "First beta version."},
	{"beta2", "Second beta version."},
	{"beta", "Beta version."},
	{"rc1", "First release candidate."},
	{"rc2", "Second release candidate."},
	{"rc3", "Third release candidate."},
	{"rc", "Release candidate."},
}

// Describe builds the human readable description of v. The returned generic
// flag is set when v is a beta or rc whose number has no dedicated wording,
// which callers usually want to log.
func Describe(v string, series []Series) (text string, generic bool) {
	var parts []string
	for _, s := range series {
		if strings.HasPrefix(v, s.Prefix) {
			parts = append(parts, s.Text)
			break
		}
	}
	for _, sn := range stageNotes {
		if strings.Contains(v, sn.tag) {
			parts = append(parts, sn.note)
			generic = sn.tag == "beta" || sn.tag == "rc"
			break
		}
	}
	return strings.Join(parts, " "), generic
}

// Recommend appends [RecommendedNote] to text unless it is already present.
func Recommend(text string) string {
	if strings.HasSuffix(text, RecommendedNote) {
		return text
	}
	if text == "" {
		return RecommendedNote
	}
	return text + " " + RecommendedNote
}
