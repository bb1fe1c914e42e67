// Package match implements the string-similarity scoring used to reconcile
// candidate records against catalog rows.
package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ratio returns a normalized edit-distance similarity between two strings,
// computed on their lower-cased forms. 1.0 means identical, 0.0 disjoint.
func Ratio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}
