package version

import (
	"slices"

	"github.com/Masterminds/semver/v3"
)

// Pair is two versions whose lexicographic and semantic order disagree.
// Lexical holds them in the order the site uses.
type Pair struct {
	Lexical [2]string
}

// Disagreements sorts versions lexicographically (descending, as the
// classifier does) and returns the adjacent pairs that semantic version
// ordering would swap. Pre-releases are left out since the classifier
// keeps them apart anyway; versions semver cannot parse are skipped.
func Disagreements(versions []string) []Pair {
	sorted := slices.Clone(versions)
	slices.SortStableFunc(sorted, func(a, b string) int { return Compare(b, a) })

	var out []Pair
	var prev string
	var prevSem *semver.Version
	for _, v := range sorted {
		if IsPrerelease(v) {
			continue
		}
		sv, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		if prevSem != nil && prevSem.LessThan(sv) {
			out = append(out, Pair{Lexical: [2]string{prev, v}})
		}
		prev, prevSem = v, sv
	}
	return out
}
