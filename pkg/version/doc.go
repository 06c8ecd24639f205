// Package version orders and classifies release version strings.
//
// Ordering is plain lexicographic comparison of the raw strings. This is the
// ordering the download pages have always used and featured-release selection
// depends on it, so "9.0" sorts after "10.0". [Disagreements] reports the
// places where a semantic ordering would differ, for logging only.
//
// Pre-release versions carry a beta, alpha or rc tag anywhere in the string.
// The base version of a pre-release is the part before the first "-", which
// is what gets compared against stable releases of the same branch.
package version
