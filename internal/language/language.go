// Package language runs a statistical language identification over recovered
// plaintext. The result is informational: it never changes which key the
// cracker selects.
package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DefaultLanguages are the candidates English is weighed against.
var DefaultLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
}

// Assessment is the language verdict for one plaintext.
type Assessment struct {
	Language  string  `json:"language,omitempty"`
	English   float64 `json:"english_confidence"`
	IsEnglish bool    `json:"is_english"`
}

// Checker wraps a lingua detector. Building one loads language models, so
// callers should reuse it. A Checker is safe for concurrent use.
type Checker struct {
	detector lingua.LanguageDetector
}

// NewChecker builds a checker over languages, or DefaultLanguages when none are
// given. English is always included.
func NewChecker(languages ...lingua.Language) *Checker {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	set := []lingua.Language{lingua.English}
	for _, l := range languages {
		if l != lingua.English {
			set = append(set, l)
		}
	}
	if len(set) < 2 {
		// lingua needs at least two candidates.
		set = append(set, lingua.French)
	}

	return &Checker{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(set...).
			WithPreloadedLanguageModels().
			Build(),
	}
}

// Assess reports the detected language of text and its English confidence.
func (c *Checker) Assess(text string) Assessment {
	text = strings.TrimSpace(text)
	if text == "" {
		return Assessment{}
	}

	var a Assessment
	a.English = c.detector.ComputeLanguageConfidence(text, lingua.English)
	if detected, ok := c.detector.DetectLanguageOf(text); ok {
		a.Language = strings.ToLower(detected.String())
		a.IsEnglish = detected == lingua.English
	}
	return a
}
