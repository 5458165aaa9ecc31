package allergen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"recipe-compliance/internal/core/catalog"
	"recipe-compliance/internal/infrastructure/config"

	"github.com/stretchr/testify/require"
)

const testObligations = `{
  "KR": ["Milk", "Egg", "Wheat", "Soybean", "Crustaceans", "Squid", "Shellfish", "Fish", "Sulfites"],
  "US": ["Milk", "Eggs", "Fish", "Crustacean shellfish", "Tree nuts", "Peanuts", "Wheat", "Soybeans", "Sesame"]
}`

const testProcessedFoods = `[
  {"processed_name": "체다치즈", "representative_name": "치즈", "major_category": "유가공품류", "minor_category": "자연치즈"},
  {"processed_name": "가공버터", "representative_name": "버터", "major_category": "유가공품류", "minor_category": "버터류"},
  {"processed_name": "양조간장", "representative_name": "간장", "major_category": "장류", "minor_category": "간장"},
  {"processed_name": "고추장", "representative_name": "고추장", "major_category": "장류", "minor_category": "고추장"}
]`

const testRawProduce = "쌀\n밥\n감자\n"

const testSeafood = `{
  "shrimp": "새우,대하",
  "crab": "게,꽃게",
  "mollusc": "조개,홍합",
  "fish": "갈치,멸치"
}`

func newTestStore(t *testing.T) *catalog.Store {
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

	store, err := catalog.Load(catalog.Paths{
		Obligations:    filepath.Join(dir, "obligations.json"),
		ProcessedFoods: filepath.Join(dir, "processed.json"),
		RawProduce:     filepath.Join(dir, "raw.txt"),
		Seafood:        filepath.Join(dir, "seafood.json"),
	}, catalog.DefaultOptions())
	require.NoError(t, err)
	return store
}

func newTestConfig(baseURL string) *config.Config {
	return &config.Config{
		Directory: config.DirectoryConfig{
			BaseURL:  baseURL,
			APIKey:   "test-key",
			PageSize: 20,
			Timeout:  5 * time.Second,
		},
		Harvest: config.HarvestConfig{
			Workers:                 2,
			EvidenceCap:             5,
			ProcessedThreshold:      0.80,
			RepresentativeThreshold: 0.75,
			CandidateLimit:          5,
		},
		Cache: config.CacheConfig{Enabled: false},
	}
}
