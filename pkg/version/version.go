package version

import (
	"regexp"
	"strings"
)

var (
	branchRE     = regexp.MustCompile(`^([0-9]+\.[0-9]+)`)
	majorRE      = regexp.MustCompile(`^([0-9]+)\.`)
	prereleaseRE = regexp.MustCompile(`(?i)(beta|alpha|rc)`)
	validRE      = regexp.MustCompile(`(?i)^[0-9]+(\.[0-9]+)+(-?(alpha|beta|rc)[0-9]*)?$`)
)

// Compare returns -1, 0 or +1 depending on the lexicographic order of a and b.
func Compare(a, b string) int {
	return strings.Compare(a, b)
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return a < b
}

// IsPrerelease reports whether v carries a beta, alpha or rc tag.
func IsPrerelease(v string) bool {
	return prereleaseRE.MatchString(v)
}

// Base strips a pre-release suffix: everything from the first "-" on.
func Base(v string) string {
	base, _, _ := strings.Cut(v, "-")
	return base
}

// BranchKey returns the leading "major.minor" prefix of v.
func BranchKey(v string) (string, bool) {
	m := branchRE.FindStringSubmatch(v)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MajorKey returns the leading major component of v.
func MajorKey(v string) (string, bool) {
	m := majorRE.FindStringSubmatch(v)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Valid reports whether v is a dotted numeric version with an optional
// pre-release suffix such as "-rc1", "beta2" or "-alpha".
func Valid(v string) bool {
	return validRE.MatchString(v)
}
