package match

import (
	"slices"
	"strings"

	"dto-generator/internal/common"
)

// DefaultThreshold is the minimum Similarity for a name to be suggested.
const DefaultThreshold = 0.6

// Suggestion is a known name ranked against an unknown one.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name, best first. Ties are broken by
// candidate name so the order is deterministic.
func Rank(name string, candidates []string) []Suggestion {
	out := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Suggestion{Name: c, Score: Similarity(name, c)})
	}

	slices.SortFunc(out, func(a, b Suggestion) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return strings.Compare(a.Name, b.Name)
		}
	})

	return out
}

// Suggest returns up to limit candidates whose similarity to name reaches
// DefaultThreshold.
func Suggest(name string, candidates []string, limit int) []string {
	var out []string

	for _, s := range Rank(name, candidates) {
		if s.Score < DefaultThreshold || len(out) == limit {
			break
		}

		out = append(out, s.Name)
	}

	return out
}

// FindNormalized returns the candidate that normalizes to the same
// identifier as name, if exactly one does.
func FindNormalized(name string, candidates []string) (string, bool) {
	norm := NormalizeIdent(name)

	var found []string

	for _, c := range candidates {
		if NormalizeIdent(c) == norm {
			found = append(found, c)
		}
	}

	if !common.IsSingle(found) {
		return "", false
	}

	return common.First(found)
}
