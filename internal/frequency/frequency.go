// Package frequency provides English letter-frequency analysis used to score
// candidate plaintexts.
package frequency

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EnglishLetters lists the reference alphabet in the same order as EnglishFrequencies.
const EnglishLetters = "abcdefghijklmnopqrstuvwxyz"

// EnglishFrequencies holds the expected relative frequency of each letter in
// EnglishLetters, taken from published corpus counts.
var EnglishFrequencies = [26]float64{
	0.08167, // a
	0.01492, // b
	0.02782, // c
	0.04253, // d
	0.12702, // e
	0.02228, // f
	0.02015, // g
	0.06094, // h
	0.06966, // i
	0.00153, // j
	0.00772, // k
	0.04025, // l
	0.02406, // m
	0.06749, // n
	0.07507, // o
	0.01929, // p
	0.00095, // q
	0.05987, // r
	0.06327, // s
	0.09056, // t
	0.02758, // u
	0.00978, // v
	0.02361, // w
	0.00150, // x
	0.01974, // y
	0.00074, // z
}

// LowerEnglishOnly lowercases s and drops every rune that is not 'a' through 'z'.
func LowerEnglishOnly(s string) string {
	// Casers are stateful, so each call gets its own.
	lower := cases.Lower(language.Und).String(s)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LetterFrequencies counts every rune in s and returns the total alongside
// the per-rune counts.
func LetterFrequencies(s string) (int, map[rune]int) {
	total := 0
	counts := make(map[rune]int)
	for _, r := range s {
		counts[r]++
		total++
	}
	return total, counts
}

// Score measures how far text is from English. Lower is more English-like.
//
// For each reference letter it adds |expected - observed|. The observed
// frequency is the letter's share of the filtered letters, or 0 when the letter
// is absent. Text with no letters at all scores the sum of the whole table.
func Score(text string) float64 {
	total, counts := LetterFrequencies(LowerEnglishOnly(text))

	score := 0.0
	for i, letter := range EnglishLetters {
		observed := 0.0
		if n, ok := counts[letter]; ok {
			observed = float64(n) / float64(total)
		}
		score += math.Abs(EnglishFrequencies[i] - observed)
	}
	return score
}
