// Package distance implements the edit-distance primitives used by the
// cryptanalysis engine.
package distance

import (
	"errors"
	"math/bits"
)

// ErrLengthMismatch is returned when Hamming is given buffers of different lengths.
var ErrLengthMismatch = errors.New("buffers must have equal length")

// Hamming returns the number of differing bits between two equal-length buffers.
func Hamming(a, b []byte) (int, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}
	dist := 0
	for i := range a {
		dist += bits.OnesCount8(a[i] ^ b[i])
	}
	return dist, nil
}

// Levenshtein returns the minimum number of single-rune insertions, deletions
// and substitutions needed to turn a into b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	// Two rolling rows of the usual DP table.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(prev[j], curr[j-1], prev[j-1])
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
