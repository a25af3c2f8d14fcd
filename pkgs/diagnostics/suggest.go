package diagnostics

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxEditDistance bounds how different a suggestion may be from the input
const maxEditDistance = 2

// Suggest returns the candidate closest to name, preferring candidates that
// contain name as an ordered subsequence and falling back to edit distance.
func Suggest(name string, candidates []string) (string, bool) {
	if name == "" || len(candidates) == 0 {
		return "", false
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target, true
	}

	best, bestDist := "", maxEditDistance+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// DidYouMean attaches a suggestion help line when one is close enough
func (d *Diagnostic) DidYouMean(name string, candidates []string) *Diagnostic {
	if s, ok := Suggest(name, candidates); ok && s != name {
		d.Help = "did you mean '" + s + "'?"
	}
	return d
}
