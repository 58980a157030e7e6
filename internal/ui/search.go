package ui

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// nearestTerm picks the card whose term best matches query. Prefix matches
// beat substring matches, which beat edit distance. Ties go to the earliest
// card.
func nearestTerm(query string, terms []string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(terms) == 0 {
		return 0, false
	}
	best, bestScore := -1, 0
	for i, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		var score int
		switch {
		case t == q:
			score = 0
		case strings.HasPrefix(t, q):
			score = 1
		case strings.Contains(t, q):
			score = 2
		default:
			score = 3 + levenshtein.ComputeDistance(q, t)
		}
		if best < 0 || score < bestScore {
			best, bestScore = i, score
		}
	}
	// An edit distance as long as the query shares nothing with it.
	if bestScore >= 3 && bestScore-3 >= len([]rune(q)) {
		return 0, false
	}
	return best, true
}
