package xorcrack

import (
	"math"
	"unicode/utf8"

	"github.com/RowanDark/xorcrack/internal/frequency"
)

// Result is the outcome of a single-byte crack.
type Result struct {
	Key       byte    `json:"key"`
	Plaintext []byte  `json:"plaintext"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}

// Found reports whether a viable key was recovered. A Result with an infinite
// score means every candidate key was filtered out.
func (r Result) Found() bool {
	return !math.IsInf(r.Score, 1)
}

func noResult() Result {
	return Result{Score: math.Inf(1)}
}

// Crack tries every key byte against ciphertext and returns the decryption with
// the lowest frequency score.
//
// Candidates that are not valid UTF-8 are skipped. With printable set, candidates
// containing anything other than newline or 0x20-0x7F are skipped too. Ties go
// to the lowest key byte. If nothing survives, the returned Result has an
// infinite score and Found reports false.
func Crack(ciphertext []byte, printable bool) Result {
	best := noResult()

	for k := 0; k <= math.MaxUint8; k++ {
		key := byte(k)
		candidate, text, ok := decode(ciphertext, key, printable)
		if !ok {
			continue
		}

		score := frequency.Score(text)
		if score < best.Score {
			best = Result{Key: key, Plaintext: candidate, Text: text, Score: score}
		}
	}

	return best
}

// decode decrypts ciphertext with key and reports whether the result is an
// acceptable candidate.
func decode(ciphertext []byte, key byte, printable bool) ([]byte, string, bool) {
	candidate := XORSingle(ciphertext, key)
	if !utf8.Valid(candidate) {
		return nil, "", false
	}
	if printable && !isPrintable(candidate) {
		return nil, "", false
	}
	return candidate, string(candidate), true
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c != '\n' && (c < 0x20 || c > 0x7f) {
			return false
		}
	}
	return true
}
