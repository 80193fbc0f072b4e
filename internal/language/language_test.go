package language

import (
	"testing"

	"github.com/pemistahl/lingua-go"
	"github.com/stretchr/testify/assert"
)

func TestAssess(t *testing.T) {
	checker := NewChecker()

	tests := []struct {
		name      string
		text      string
		isEnglish bool
		language  string
	}{
		{
			name:      "english",
			text:      "Now that the party is jumping, everybody get up on the floor",
			isEnglish: true,
			language:  "english",
		},
		{
			name:      "french",
			text:      "Ceci est une phrase écrite en français, merci beaucoup pour votre patience",
			isEnglish: false,
			language:  "french",
		},
		{
			name: "empty",
			text: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.Assess(tt.text)
			assert.Equal(t, tt.isEnglish, got.IsEnglish)
			assert.Equal(t, tt.language, got.Language)
			assert.GreaterOrEqual(t, got.English, 0.0)
			assert.LessOrEqual(t, got.English, 1.0)
		})
	}
}

func TestAssessEnglishConfidenceOrdering(t *testing.T) {
	checker := NewChecker(lingua.English, lingua.German)

	english := checker.Assess("The keeper of the old harbor light climbed the stairs every evening")
	german := checker.Assess("Der alte Leuchtturmwärter stieg jeden Abend die Treppe hinauf")

	assert.Greater(t, english.English, german.English)
	assert.Greater(t, english.English, 0.5)
}

func TestNewCheckerAlwaysIncludesEnglish(t *testing.T) {
	checker := NewChecker(lingua.Spanish)

	got := checker.Assess("This sentence is plainly written in the English language")
	assert.True(t, got.IsEnglish)
}
