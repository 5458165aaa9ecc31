package allergen

import (
	"testing"

	"recipe-compliance/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectMatch(t *testing.T) {
	m := NewMatcher(nil)

	t.Run("korean literal", func(t *testing.T) {
		c, ok := m.DirectMatch("우유")
		require.True(t, ok)
		assert.Equal(t, common.AllergenMilk, c)
	})

	t.Run("english literal", func(t *testing.T) {
		c, ok := m.DirectMatch("shrimp")
		require.True(t, ok)
		assert.Equal(t, common.AllergenCrustaceans, c)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		c, ok := m.DirectMatch("  계란  ")
		require.True(t, ok)
		assert.Equal(t, common.AllergenEgg, c)
	})

	t.Run("compound word does not match literally", func(t *testing.T) {
		_, ok := m.DirectMatch("우유식빵")
		assert.False(t, ok)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, ok := m.DirectMatch("간장")
		assert.False(t, ok)
	})
}

func TestCatalogMatch(t *testing.T) {
	m := NewMatcher(newTestStore(t))

	t.Run("dairy processed food yields milk", func(t *testing.T) {
		c, ok := m.CatalogMatch("체다치즈")
		require.True(t, ok)
		assert.Equal(t, common.AllergenMilk, c)
	})

	t.Run("shrimp bucket yields crustaceans", func(t *testing.T) {
		c, ok := m.CatalogMatch("대하")
		require.True(t, ok)
		assert.Equal(t, common.AllergenCrustaceans, c)
	})

	t.Run("mollusc bucket yields molluscs", func(t *testing.T) {
		c, ok := m.CatalogMatch("홍합")
		require.True(t, ok)
		assert.Equal(t, common.AllergenMolluscs, c)
	})

	t.Run("fish bucket yields fish", func(t *testing.T) {
		c, ok := m.CatalogMatch("갈치")
		require.True(t, ok)
		assert.Equal(t, common.AllergenFish, c)
	})

	t.Run("non dairy processed food does not match", func(t *testing.T) {
		_, ok := m.CatalogMatch("양조간장")
		assert.False(t, ok)
	})

	t.Run("nil store never matches", func(t *testing.T) {
		_, ok := NewMatcher(nil).CatalogMatch("체다치즈")
		assert.False(t, ok)
	})
}

func TestMatchTiering(t *testing.T) {
	m := NewMatcher(newTestStore(t))

	t.Run("direct tier wins first", func(t *testing.T) {
		c, tier, ok := m.Match("우유")
		require.True(t, ok)
		assert.Equal(t, common.AllergenMilk, c)
		assert.Equal(t, TierDirect, tier)
	})

	t.Run("catalog tier as fallback", func(t *testing.T) {
		c, tier, ok := m.Match("체다치즈")
		require.True(t, ok)
		assert.Equal(t, common.AllergenMilk, c)
		assert.Equal(t, TierCatalog, tier)
	})

	t.Run("no tier matches", func(t *testing.T) {
		_, _, ok := m.Match("고추장")
		assert.False(t, ok)
	})
}

func TestExtractCanonicalFromDeclarationText(t *testing.T) {
	t.Run("comma separated with contains marker", func(t *testing.T) {
		got := ExtractCanonicalFromDeclarationText("대두,계란,밀 함유")
		assert.Equal(t, []common.CanonicalAllergen{
			common.AllergenSoybean,
			common.AllergenEgg,
			common.AllergenWheat,
		}, got)
	})

	t.Run("synonyms map to one identifier", func(t *testing.T) {
		got := ExtractCanonicalFromDeclarationText("난류, 달걀")
		assert.Equal(t, []common.CanonicalAllergen{common.AllergenEgg}, got)
	})

	t.Run("mixed separators", func(t *testing.T) {
		got := ExtractCanonicalFromDeclarationText("우유/새우·토마토")
		assert.Equal(t, []common.CanonicalAllergen{
			common.AllergenMilk,
			common.AllergenCrustaceans,
			common.AllergenTomato,
		}, got)
	})

	t.Run("unknown words are ignored", func(t *testing.T) {
		got := ExtractCanonicalFromDeclarationText("카라멜색소, 밀 함유")
		assert.Equal(t, []common.CanonicalAllergen{common.AllergenWheat}, got)
	})

	t.Run("blank text", func(t *testing.T) {
		assert.Nil(t, ExtractCanonicalFromDeclarationText(""))
		assert.Nil(t, ExtractCanonicalFromDeclarationText("   "))
	})
}

func TestFilterByCountryObligation(t *testing.T) {
	usObligations := []string{"Milk", "Eggs", "Fish", "Crustacean shellfish", "Wheat", "Soybeans", "Sesame"}

	t.Run("exact label passes through", func(t *testing.T) {
		got := FilterByCountryObligation([]common.CanonicalAllergen{common.AllergenMilk}, usObligations)
		assert.Equal(t, []string{"Milk"}, got)
	})

	t.Run("renamed to country label", func(t *testing.T) {
		got := FilterByCountryObligation([]common.CanonicalAllergen{common.AllergenCrustaceans}, usObligations)
		assert.Equal(t, []string{"Crustacean shellfish"}, got)
	})

	t.Run("candidate outside the obligation list is dropped", func(t *testing.T) {
		got := FilterByCountryObligation([]common.CanonicalAllergen{common.AllergenPork}, usObligations)
		assert.Empty(t, got)
	})

	t.Run("order preserved and deduped", func(t *testing.T) {
		got := FilterByCountryObligation([]common.CanonicalAllergen{
			common.AllergenSoybean,
			common.AllergenEgg,
			common.AllergenSoybean,
			common.AllergenWheat,
		}, usObligations)
		assert.Equal(t, []string{"Soybeans", "Eggs", "Wheat"}, got)
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Nil(t, FilterByCountryObligation(nil, usObligations))
		assert.Nil(t, FilterByCountryObligation([]common.CanonicalAllergen{common.AllergenMilk}, nil))
	})
}
