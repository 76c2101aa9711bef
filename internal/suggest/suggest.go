package suggest

import (
	"fmt"
	"strings"
)

// minSimilarity is the lowest similarity a suggestion may have.
const minSimilarity = 0.6

// Distance returns the edit distance between a and b: the fewest
// single-byte insertions, deletions or substitutions turning one into the
// other.
func Distance(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	// One row of the matrix, indexed by position in the shorter string.
	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(a); i++ {
			sub := diag
			if a[i-1] != b[j-1] {
				sub++
			}

			diag = row[i]
			row[i] = min(row[i]+1, row[i-1]+1, sub)
		}
	}

	return row[len(a)]
}

// Similarity scores two names between 0 (unrelated) and 1 (equal after
// normalization).
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)

	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(a, b))/float64(longest)
}

// Normalize lower-cases s and drops '_', '-', '.' and spaces.
func Normalize(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		switch r {
		case '_', '-', '.', ' ':
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Closest returns the candidate most similar to name, or false when none
// is similar enough. Ties keep the earlier candidate.
func Closest(name string, candidates []string) (string, bool) {
	best, bestScore, found := "", 0.0, false

	for _, c := range candidates {
		score := Similarity(name, c)
		if score >= minSimilarity && (!found || score > bestScore) {
			best, bestScore, found = c, score, true
		}
	}

	return best, found
}

// Hint returns " (did you mean %q?)" for the closest candidate, or an empty
// string when there is none.
func Hint(name string, candidates []string) string {
	if c, ok := Closest(name, candidates); ok {
		return fmt.Sprintf(" (did you mean %q?)", c)
	}

	return ""
}
