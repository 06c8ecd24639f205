// Package translation computes per-language completion statistics of the
// message catalogs.
//
// The reference catalog defines the total number of messages. Every other
// catalog marks untranslated messages with a fixed marker comment, which
// gives the translated count and the completion percentage. The last
// meaningful update of a catalog is guessed from its commit log: the newest
// commit whose message looks like a translation update for that language.
package translation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/matzehuels/sitegen/pkg/source"
)

// Severity classes of the completion ratio.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityNone   = ""
)

// CountMessages counts message definition lines: lines starting with prefix.
func CountMessages(text, prefix string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

// CountMissing counts message lines that carry the marker.
func CountMissing(text, prefix, marker string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) && strings.Contains(line, marker) {
			n++
		}
	}
	return n
}

// Percent returns 100*translated/total. total must be positive.
func Percent(translated, total int) float64 {
	return 100 * float64(translated) / float64(total)
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

// Severity classifies a completion percentage: below 50 is low, below 80 is
// medium, anything else is not flagged.
func Severity(percent float64) string {
	switch {
	case percent < 50:
		return SeverityLow
	case percent < 80:
		return SeverityMedium
	default:
		return SeverityNone
	}
}

// FormatTranslators extracts contributor names from a translator field with
// one contributor per line, each optionally followed by "(email)".
func FormatTranslators(text string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		name, _, _ := strings.Cut(line, "(")
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

const updatePattern = `(?i)((translation|lang|%[1]s).*update|update.*(translation|lang|%[1]s)|^updated?$|new lang|better word|fix.*translation)`

// UpdatePattern matches commit messages that look like a translation update
// for the given language identifiers (catalog name, short code, base
// language). Empty identifiers are ignored.
func UpdatePattern(codes ...string) *regexp.Regexp {
	var quoted []string
	for _, c := range codes {
		if c != "" {
			quoted = append(quoted, regexp.QuoteMeta(c))
		}
	}
	alt := strings.Join(quoted, "|")
	if alt == "" {
		alt = "translation"
	}
	return regexp.MustCompile(fmt.Sprintf(updatePattern, alt))
}

// LastUpdate returns the date of the first commit (log is newest first)
// whose message matches re.
func LastUpdate(log []source.Commit, re *regexp.Regexp) (time.Time, bool) {
	for _, c := range log {
		if re.MatchString(strings.TrimSpace(c.Message)) {
			return c.Date, true
		}
	}
	return time.Time{}, false
}

// SplitName derives the language of a catalog file name. ok is false when the
// name does not end in suffix. base is the part of lang before the first
// underscore, or lang itself.
func SplitName(name, suffix string) (lang, base string, ok bool) {
	lang, ok = strings.CutSuffix(name, suffix)
	if !ok || lang == "" {
		return "", "", false
	}
	base, _, _ = strings.Cut(lang, "_")
	return lang, base, true
}
