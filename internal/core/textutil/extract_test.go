package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIngredientNames(t *testing.T) {
	t.Run("strips quantities and units", func(t *testing.T) {
		got := ExtractIngredientNames("새우 100g, 밥 200g, 간장 10ml")
		assert.Equal(t, []string{"새우", "밥", "간장"}, got)
	})

	t.Run("keeps multi word names", func(t *testing.T) {
		got := ExtractIngredientNames("soy sauce 10ml, fish cake 50g")
		assert.Equal(t, []string{"soy sauce", "fish cake"}, got)
	})

	t.Run("removes parenthetical notes", func(t *testing.T) {
		got := ExtractIngredientNames("닭고기(국내산) 300g, 마늘(다진 것) 1큰술")
		assert.Equal(t, []string{"닭고기", "마늘"}, got)
	})

	t.Run("supports fullwidth comma", func(t *testing.T) {
		got := ExtractIngredientNames("우유 200ml，계란 2개")
		assert.Equal(t, []string{"우유", "계란"}, got)
	})

	t.Run("dedupes keeping first seen order", func(t *testing.T) {
		got := ExtractIngredientNames("마늘 1쪽, 양파 1개, 마늘 2쪽")
		assert.Equal(t, []string{"마늘", "양파"}, got)
	})

	t.Run("empty and blank input", func(t *testing.T) {
		assert.Nil(t, ExtractIngredientNames(""))
		assert.Nil(t, ExtractIngredientNames("   "))
	})

	t.Run("segment without leading letters is dropped", func(t *testing.T) {
		got := ExtractIngredientNames("100g, 소금 약간")
		assert.Equal(t, []string{"소금 약간"}, got)
	})
}
