package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"recipe-compliance/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testObligations = `{
  "KR": ["Milk", "Egg", "Wheat", "Soybean", "Crustaceans"],
  "US": ["Milk", "Eggs", "Wheat", "Soybeans", "Crustacean shellfish"]
}`

const testProcessedFoods = `[
  {"processed_name": "체다치즈", "representative_name": "치즈", "major_category": "유가공품류", "minor_category": "자연치즈"},
  {"processed_name": "가공버터", "representative_name": "버터", "major_category": "유가공품류", "minor_category": "버터류"},
  {"processed_name": "양조간장", "representative_name": "간장", "major_category": "장류", "minor_category": "간장"},
  {"processed_name": "진간장", "representative_name": "간장", "major_category": "장류", "minor_category": "간장"},
  {"processed_name": "고추장", "representative_name": "고추장", "major_category": "장류", "minor_category": "고추장"}
]`

const testRawProduce = "쌀\n밥\n감자\n"

const testSeafood = `{
  "shrimp": "새우,대하",
  "crab": "게,꽃게",
  "mollusc": "오징어,조개",
  "fish": "고등어,갈치"
}`

func writeTestCatalog(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"obligations.json": testObligations,
		"processed.json":   testProcessedFoods,
		"raw.txt":          testRawProduce,
		"seafood.json":     testSeafood,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	return Paths{
		Obligations:    filepath.Join(dir, "obligations.json"),
		ProcessedFoods: filepath.Join(dir, "processed.json"),
		RawProduce:     filepath.Join(dir, "raw.txt"),
		Seafood:        filepath.Join(dir, "seafood.json"),
	}
}

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Load(writeTestCatalog(t), DefaultOptions())
	require.NoError(t, err)
	return store
}

func TestLoad(t *testing.T) {
	store := loadTestStore(t)
	assert.Equal(t, 2, store.Countries())
	assert.Equal(t, 5, store.Entries())
	assert.Equal(t, 3, store.RawProduceCount())
}

func TestLoadMissingFile(t *testing.T) {
	paths := writeTestCatalog(t)
	paths.ProcessedFoods = filepath.Join(t.TempDir(), "absent.json")

	_, err := Load(paths, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processed food catalog")
}

func TestLoadUnknownSeafoodBucket(t *testing.T) {
	paths := writeTestCatalog(t)
	bad := filepath.Join(t.TempDir(), "seafood.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"lobster": "랍스터"}`), 0644))
	paths.Seafood = bad

	_, err := Load(paths, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown seafood bucket")
}

func TestObligations(t *testing.T) {
	store := loadTestStore(t)

	t.Run("known country", func(t *testing.T) {
		assert.Contains(t, store.Obligations("US"), "Crustacean shellfish")
	})

	t.Run("country code is case insensitive", func(t *testing.T) {
		assert.Equal(t, store.Obligations("US"), store.Obligations(" us "))
	})

	t.Run("unknown country yields empty list", func(t *testing.T) {
		assert.Empty(t, store.Obligations("JP"))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		first := store.Obligations("KR")
		first[0] = "tampered"
		assert.NotContains(t, store.Obligations("KR"), "tampered")
	})
}

func TestMatchDirectProcessedFood(t *testing.T) {
	store := loadTestStore(t)

	t.Run("dairy category yields milk", func(t *testing.T) {
		c, ok := store.MatchDirectProcessedFood("체다치즈")
		require.True(t, ok)
		assert.Equal(t, common.AllergenMilk, c)
	})

	t.Run("representative name also matches", func(t *testing.T) {
		c, ok := store.MatchDirectProcessedFood("버터")
		require.True(t, ok)
		assert.Equal(t, common.AllergenMilk, c)
	})

	t.Run("non dairy entry does not match", func(t *testing.T) {
		_, ok := store.MatchDirectProcessedFood("양조간장")
		assert.False(t, ok)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, ok := store.MatchDirectProcessedFood("초콜릿")
		assert.False(t, ok)
	})

	t.Run("empty name", func(t *testing.T) {
		_, ok := store.MatchDirectProcessedFood("")
		assert.False(t, ok)
	})
}

func TestBuildFuzzySearchPlan(t *testing.T) {
	store := loadTestStore(t)

	t.Run("exact name scores highest", func(t *testing.T) {
		plan := store.BuildFuzzySearchPlan("간장")
		require.NotEmpty(t, plan.Representative)
		assert.Equal(t, "간장", plan.Representative[0].Name)
		assert.Equal(t, 1.0, plan.Representative[0].Score)
	})

	t.Run("exact processed name scores highest", func(t *testing.T) {
		plan := store.BuildFuzzySearchPlan("양조간장")
		require.NotEmpty(t, plan.Processed)
		assert.Equal(t, "양조간장", plan.Processed[0].Name)
		assert.Equal(t, 1.0, plan.Processed[0].Score)
	})

	t.Run("containment reaches processed names", func(t *testing.T) {
		plan := store.BuildFuzzySearchPlan("간장")
		names := make([]string, 0, len(plan.Processed))
		for _, c := range plan.Processed {
			names = append(names, c.Name)
		}
		assert.Contains(t, names, "양조간장")
		assert.Contains(t, names, "진간장")
	})

	t.Run("duplicate names are merged", func(t *testing.T) {
		// 양조간장/진간장 share representative 간장
		plan := store.BuildFuzzySearchPlan("간장")
		seen := make(map[string]int)
		for _, c := range plan.Representative {
			seen[c.Name]++
		}
		for name, count := range seen {
			assert.Equal(t, 1, count, "candidate %q appears more than once", name)
		}
	})

	t.Run("unrelated name yields empty plan", func(t *testing.T) {
		plan := store.BuildFuzzySearchPlan("바닐라아이스크림토핑")
		assert.Empty(t, plan.Processed)
		assert.Empty(t, plan.Representative)
	})

	t.Run("blank name yields empty plan", func(t *testing.T) {
		plan := store.BuildFuzzySearchPlan("   ")
		assert.Empty(t, plan.Processed)
		assert.Empty(t, plan.Representative)
	})
}

func TestCandidateLimit(t *testing.T) {
	paths := writeTestCatalog(t)
	opts := DefaultOptions()
	opts.CandidateLimit = 1
	store, err := Load(paths, opts)
	require.NoError(t, err)

	plan := store.BuildFuzzySearchPlan("간장")
	assert.LessOrEqual(t, len(plan.Processed), 1)
	assert.LessOrEqual(t, len(plan.Representative), 1)
}

func TestIsRawProduce(t *testing.T) {
	store := loadTestStore(t)
	assert.True(t, store.IsRawProduce("밥"))
	assert.True(t, store.IsRawProduce(" 감자 "), "lookup is normalized")
	assert.False(t, store.IsRawProduce("간장"))
}

func TestMatchSeafoodCategory(t *testing.T) {
	store := loadTestStore(t)

	cat, ok := store.MatchSeafoodCategory("새우")
	require.True(t, ok)
	assert.Equal(t, SeafoodShrimp, cat)

	cat, ok = store.MatchSeafoodCategory("오징어")
	require.True(t, ok)
	assert.Equal(t, SeafoodMollusc, cat)

	_, ok = store.MatchSeafoodCategory("소고기")
	assert.False(t, ok)
}
