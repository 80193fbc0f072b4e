package xorcrack

import (
	"slices"

	"github.com/RowanDark/xorcrack/internal/distance"
)

const (
	// MinKeyLength is the shortest repeating key considered.
	MinKeyLength = 2
	// MaxKeyLength is the default upper bound on the key lengths searched.
	MaxKeyLength = 40
)

// KeyLengthRange bounds the key lengths searched by CrackRepeatingKeyRange.
// Both ends are inclusive.
type KeyLengthRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// DefaultKeyLengthRange is the search range used by CrackRepeatingKey.
var DefaultKeyLengthRange = KeyLengthRange{Min: MinKeyLength, Max: MaxKeyLength}

// clamp fits r to a ciphertext of n bytes. Two full blocks must fit, so the
// upper bound never exceeds n/2.
func (r KeyLengthRange) clamp(n int) KeyLengthRange {
	out := r
	if out.Min < MinKeyLength {
		out.Min = MinKeyLength
	}
	if out.Max > n/2 {
		out.Max = n / 2
	}
	return out
}

// KeyLengthCandidate pairs a key length with its normalized block distance.
type KeyLengthCandidate struct {
	Length   int     `json:"length"`
	Distance float64 `json:"distance"`
}

// RankKeyLengths scores every length in r by the Hamming distance between the
// first two blocks of that length, divided by the length. The result is sorted
// by ascending distance. Equal distances keep ascending length order.
// Only the first two blocks are compared.
func RankKeyLengths(ciphertext []byte, r KeyLengthRange) []KeyLengthCandidate {
	r = r.clamp(len(ciphertext))
	if r.Max < r.Min {
		return nil
	}

	ranked := make([]KeyLengthCandidate, 0, r.Max-r.Min+1)
	for length := r.Min; length <= r.Max; length++ {
		dist, err := distance.Hamming(ciphertext[:length], ciphertext[length:2*length])
		if err != nil {
			continue
		}
		ranked = append(ranked, KeyLengthCandidate{
			Length:   length,
			Distance: float64(dist) / float64(length),
		})
	}

	slices.SortStableFunc(ranked, func(a, b KeyLengthCandidate) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// Transpose splits buf into n columns, sending byte i to column i mod n.
// Each column keeps the original byte order.
func Transpose(buf []byte, n int) [][]byte {
	if n <= 0 {
		return nil
	}
	columns := make([][]byte, n)
	for i := range columns {
		columns[i] = make([]byte, 0, len(buf)/n+1)
	}
	for i, c := range buf {
		columns[i%n] = append(columns[i%n], c)
	}
	return columns
}

// CrackRepeatingKey recovers a repeating XOR key using DefaultKeyLengthRange.
// It reports false when no length in range decrypts every column to printable
// text. That includes ciphertexts shorter than four bytes.
func CrackRepeatingKey(ciphertext []byte) ([]byte, bool) {
	return CrackRepeatingKeyRange(ciphertext, DefaultKeyLengthRange)
}

// CrackRepeatingKeyRange is CrackRepeatingKey with explicit length bounds.
func CrackRepeatingKeyRange(ciphertext []byte, r KeyLengthRange) ([]byte, bool) {
	for _, candidate := range RankKeyLengths(ciphertext, r) {
		if key, ok := solveColumns(ciphertext, candidate.Length); ok {
			return key, true
		}
	}
	return nil, false
}

// solveColumns cracks each column for the given key length, giving up at the
// first column without a viable key byte.
func solveColumns(ciphertext []byte, length int) ([]byte, bool) {
	key := make([]byte, 0, length)
	for _, column := range Transpose(ciphertext, length) {
		res := Crack(column, true)
		if !res.Found() {
			return nil, false
		}
		key = append(key, res.Key)
	}
	return key, true
}
