package allergen

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-compliance/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := newTestConfig(server.URL)
	store := newTestStore(t)
	matcher := NewMatcher(store)
	harvester := NewHarvester(NewDirectoryClient(cfg), store, nil, cfg)
	return NewService(store, matcher, harvester, cfg)
}

func TestAnalyzeShrimpFriedRice(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		// 간장만 命中，其餘關鍵字零筆
		if r.URL.Query().Get("prdkind") != "간장" {
			fmt.Fprint(w, directoryJSON(`null`))
			return
		}
		fmt.Fprint(w, directoryJSON(`[{"item": [
			{"prdlstReportNo": "R1", "prdlstNm": "양조간장", "prdkind": "간장", "allergy": "대두,밀 함유", "rawmtrl": "대두, 밀"}
		]}]`))
	})

	result := svc.Analyze(context.Background(), "새우볶음밥: 새우 100g, 밥 200g, 간장 10ml", "us")

	assert.Equal(t, "US", result.Country)
	assert.Contains(t, result.Ingredients, "새우")
	assert.Contains(t, result.Ingredients, "밥")
	assert.Contains(t, result.Ingredients, "간장")

	// 새우 直接命中並改寫為美國用語
	assert.Equal(t, "새우", result.DirectMatches["Crustacean shellfish"])

	// 간장 靠證據採集取得 Soybeans 與 Wheat
	assert.Contains(t, result.Allergens, "Crustacean shellfish")
	assert.Contains(t, result.Allergens, "Soybeans")
	assert.Contains(t, result.Allergens, "Wheat")

	// 已確認者必須排在採集結果之前
	assert.Equal(t, "Crustacean shellfish", result.Allergens[0])

	assert.Equal(t, common.DisclosureNotice, result.Notice)
}

func TestAnalyzeEvidenceOrderFollowsIngredients(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directoryJSON(`null`))
	})

	result := svc.Analyze(context.Background(), "고추장 50g, 밥 100g", "US")

	require.Len(t, result.Evidence, 2)
	assert.Equal(t, "고추장", result.Evidence[0].Ingredient)
	assert.Equal(t, "밥", result.Evidence[1].Ingredient)
	for _, ev := range result.Evidence {
		assert.Equal(t, common.EvidenceNotFound, ev.Status)
	}
	assert.Empty(t, result.Allergens)
}

func TestAnalyzeUnknownCountry(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directoryJSON(`null`))
	})

	// 未知國碼不是錯誤：義務清單為空，所有食材都走採集
	result := svc.Analyze(context.Background(), "우유 200ml, 계란 2개", "JP")

	assert.Equal(t, "JP", result.Country)
	assert.Empty(t, result.DirectMatches)
	assert.Len(t, result.Evidence, 2)
	assert.Empty(t, result.Allergens)
}

func TestAnalyzeDirectMatchesSkipHarvest(t *testing.T) {
	var harvested []string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		harvested = append(harvested, r.URL.Query().Get("prdkind"))
		fmt.Fprint(w, directoryJSON(`null`))
	})

	result := svc.Analyze(context.Background(), "우유 200ml, 계란 2개", "KR")

	assert.Equal(t, []string{"Milk", "Egg"}, result.Allergens)
	assert.Empty(t, result.Evidence)
	assert.Empty(t, harvested, "confirmed ingredients must not hit the directory")
}

func TestAnalyzeDuplicateAllergenConfirmedOnce(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directoryJSON(`null`))
	})

	// 새우와 대하 都對應 Crustaceans，最終清單只得一筆
	result := svc.Analyze(context.Background(), "새우 100g, 대하 50g", "KR")

	assert.Equal(t, []string{"Crustaceans"}, result.Allergens)
}

func TestAnalyzeEmptyRecipe(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directoryJSON(`null`))
	})

	result := svc.Analyze(context.Background(), "", "US")

	assert.Empty(t, result.Ingredients)
	assert.Empty(t, result.Evidence)
	assert.Empty(t, result.Allergens)
}
