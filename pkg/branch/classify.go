// Package branch splits parsed releases into the current, beta and older
// partitions shown on the download page.
//
// Releases are grouped by their "major.minor" branch key. Each branch keeps
// its highest stable release and its highest pre-release; a pre-release is
// dropped once a stable release of the same branch reaches its base version,
// and only the newest branch of every major version stays current. The
// current release with the greatest branch key is the featured one.
//
// All comparisons use [version.Compare], so branch "10.0" sorts below "9.0".
package branch

import (
	"slices"

	"github.com/matzehuels/sitegen/pkg/errors"
	"github.com/matzehuels/sitegen/pkg/records"
	"github.com/matzehuels/sitegen/pkg/version"
)

// Outcome is the partition a release was assigned to.
type Outcome string

const (
	OutcomeFeatured Outcome = "featured"
	OutcomeCurrent  Outcome = "current"
	OutcomeBeta     Outcome = "beta"
	OutcomeOlder    Outcome = "older"
)

// Decision records why a release ended up in its partition.
type Decision struct {
	Version string
	Outcome Outcome
	Reason  string
}

// Result holds three disjoint partitions, each sorted descending by version.
// Featured points into Current.
type Result struct {
	Current   []records.ReleaseRecord
	Beta      []records.ReleaseRecord
	Older     []records.ReleaseRecord
	Featured  *records.ReleaseRecord
	Decisions []Decision
}

// All returns every classified release, current first.
func (r *Result) All() []records.ReleaseRecord {
	out := make([]records.ReleaseRecord, 0, len(r.Current)+len(r.Beta)+len(r.Older))
	out = append(out, r.Current...)
	out = append(out, r.Beta...)
	return append(out, r.Older...)
}

type slot struct {
	rel     records.ReleaseRecord
	branch  string
	outcome Outcome
	reason  string
}

// Classify partitions releases. The input slice and its records are left
// untouched; the featured copy gets Featured set and the recommended note
// appended to its Info exactly once, so classifying an earlier result again
// yields the same partitions.
//
// A release set without any stable release is a CLASSIFICATION_AMBIGUITY
// error.
func Classify(releases []records.ReleaseRecord) (*Result, error) {
	slots := make([]slot, len(releases))
	for i, rel := range releases {
		rel.Featured = false
		slots[i] = slot{rel: rel, outcome: OutcomeOlder}
	}
	slices.SortStableFunc(slots, func(a, b slot) int {
		return version.Compare(b.rel.Version, a.rel.Version)
	})

	stable := map[string]int{}
	beta := map[string]int{}
	for i := range slots {
		s := &slots[i]
		branch, ok := version.BranchKey(s.rel.Version)
		if !ok {
			s.reason = "no branch key"
			continue
		}
		s.branch = branch

		best := stable
		if version.IsPrerelease(s.rel.Version) {
			best = beta
		}
		cur, seen := best[branch]
		if !seen || version.Compare(s.rel.Version, slots[cur].rel.Version) > 0 {
			if seen {
				slots[cur].reason = "superseded by " + s.rel.Version
			}
			best[branch] = i
			continue
		}
		s.reason = "superseded by " + slots[cur].rel.Version
	}

	for branch, bi := range beta {
		si, ok := stable[branch]
		if ok && version.Compare(slots[si].rel.Version, version.Base(slots[bi].rel.Version)) >= 0 {
			slots[bi].reason = "obsoleted by stable " + slots[si].rel.Version
			delete(beta, branch)
		}
	}

	majorBest := map[string]int{}
	for _, si := range stable {
		major, ok := version.MajorKey(slots[si].rel.Version)
		if !ok {
			continue
		}
		cur, seen := majorBest[major]
		if !seen || version.Compare(slots[si].rel.Version, slots[cur].rel.Version) > 0 {
			majorBest[major] = si
		}
	}
	for branch, si := range stable {
		major, ok := version.MajorKey(slots[si].rel.Version)
		if !ok {
			continue
		}
		if top := majorBest[major]; top != si {
			slots[si].reason = "demoted by " + slots[top].rel.Version
			delete(stable, branch)
		}
	}

	featured := -1
	for _, si := range stable {
		slots[si].outcome = OutcomeCurrent
		slots[si].reason = "newest of major line"
		if featured < 0 || version.Compare(slots[si].branch, slots[featured].branch) > 0 {
			featured = si
		}
	}
	if featured < 0 {
		return nil, errors.New(errors.ErrCodeClassification, "no stable release among %d releases", len(releases))
	}
	for _, bi := range beta {
		slots[bi].outcome = OutcomeBeta
		slots[bi].reason = "newest pre-release of branch " + slots[bi].branch
	}

	f := &slots[featured]
	f.outcome = OutcomeFeatured
	f.reason = "greatest branch " + f.branch
	f.rel.Featured = true
	f.rel.Info = version.Recommend(f.rel.Info)

	res := &Result{Decisions: make([]Decision, 0, len(slots))}
	for _, s := range slots {
		switch s.outcome {
		case OutcomeFeatured, OutcomeCurrent:
			res.Current = append(res.Current, s.rel)
		case OutcomeBeta:
			res.Beta = append(res.Beta, s.rel)
		default:
			res.Older = append(res.Older, s.rel)
		}
		res.Decisions = append(res.Decisions, Decision{Version: s.rel.Version, Outcome: s.outcome, Reason: s.reason})
	}
	for i := range res.Current {
		if res.Current[i].Featured {
			res.Featured = &res.Current[i]
			break
		}
	}
	return res, nil
}
