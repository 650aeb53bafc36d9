// Package match finds the closest string in a candidate set using
// normalized Levenshtein similarity.
package match

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// ErrNoCandidates is returned when a best match is requested against an empty set.
var ErrNoCandidates = errors.New("match: no candidates")

// Similarity returns 1 - distance/longer length, in [0,1]. Identical strings score 1.
func Similarity(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// BestMatch returns the candidate with the strictly greatest similarity to query.
// The first candidate wins ties.
func BestMatch(query string, candidates []string) (string, error) {
	return best(query, candidates, func(s string) string { return s })
}

// BestMatchFold is BestMatch with case-insensitive scoring. The returned
// string is the candidate as given.
func BestMatchFold(query string, candidates []string) (string, error) {
	return best(query, candidates, strings.ToLower)
}

func best(query string, candidates []string, norm func(string) string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}
	q := norm(query)
	bestIdx, bestScore := 0, -1.0
	for i, c := range candidates {
		if score := Similarity(q, norm(c)); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	return candidates[bestIdx], nil
}
