package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercase", "Whole Milk", "whole milk"},
		{"underscore as space", "soy_sauce", "soy sauce"},
		{"strips parenthetical note", "닭고기(국내산)", "닭고기"},
		{"collapses symbol runs", "new!!york--cheese", "new york cheese"},
		{"trims edges", "  우유  ", "우유"},
		{"keeps digits", "우유 2개", "우유 2개"},
		{"strips bom", "\uFEFF우유", "우유"},
		{"strips zero width space", "우\u200B유", "우유"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Whole Milk", "닭고기(국내산) 300g", "soy_sauce!!", "  우유  "}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokenize(t *testing.T) {
	t.Run("splits on non letter digit boundaries", func(t *testing.T) {
		assert.Equal(t, []string{"soy", "sauce"}, Tokenize("Soy, Sauce!"))
	})

	t.Run("dedupes keeping first seen order", func(t *testing.T) {
		assert.Equal(t, []string{"새우", "밥"}, Tokenize("새우 밥 새우"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Tokenize(""))
	})

	t.Run("only separators", func(t *testing.T) {
		assert.Empty(t, Tokenize(",,, !!!"))
	})
}
