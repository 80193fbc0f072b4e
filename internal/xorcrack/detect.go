package xorcrack

import (
	"errors"
	"fmt"
)

// ErrNoCandidates is returned by Detect when it is given nothing to search.
var ErrNoCandidates = errors.New("no candidate ciphertexts")

// Detection identifies the candidate most likely to be single-byte XORed English.
type Detection struct {
	Index int    `json:"index"`
	Input []byte `json:"input"`
	Result
}

// Detect cracks every candidate and returns the one with the globally lowest
// score. Ties go to the earliest candidate. When no candidate yields a viable
// key, the returned Detection points at index 0 and Found reports false.
func Detect(candidates [][]byte, printable bool) (Detection, error) {
	if len(candidates) == 0 {
		return Detection{}, fmt.Errorf("detect: %w", ErrNoCandidates)
	}

	best := Detection{Index: 0, Input: candidates[0], Result: noResult()}
	for i, candidate := range candidates {
		res := Crack(candidate, printable)
		if res.Score < best.Score {
			best = Detection{Index: i, Input: candidate, Result: res}
		}
	}

	return best, nil
}
