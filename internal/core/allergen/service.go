package allergen

import (
	"context"
	"strings"
	"sync"

	"recipe-compliance/internal/core/catalog"
	"recipe-compliance/internal/core/textutil"
	"recipe-compliance/internal/infrastructure/config"
	"recipe-compliance/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 過敏原分析服務：驅動食材萃取 → 直接比對 →
// 證據採集遞補 → 國別義務過濾 → 結果組裝。
type Service struct {
	store     *catalog.Store
	matcher   *Matcher
	harvester *Harvester
	workers   int
}

// NewService 創建過敏原分析服務
func NewService(store *catalog.Store, matcher *Matcher, harvester *Harvester, cfg *config.Config) *Service {
	workers := cfg.Harvest.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		store:     store,
		matcher:   matcher,
		harvester: harvester,
		workers:   workers,
	}
}

// Analyze 對食譜文字與目標國家執行過敏原分析。
// 無法辨識的國碼不是錯誤：義務清單為空，分析照常進行。
// 單一食材的採集失敗以 NOT_FOUND 吸收，不中斷整體分析。
func (s *Service) Analyze(ctx context.Context, recipeText, targetCountry string) *common.AllergenAnalysis {
	country := strings.ToUpper(strings.TrimSpace(targetCountry))
	obligations := s.store.Obligations(country)

	// 「產品名: 食材清單」格式時剝除產品名前綴，無冒號則整串視為食材文字
	ingredientText := recipeText
	if idx := strings.Index(recipeText, ":"); idx >= 0 {
		ingredientText = recipeText[idx+1:]
	}
	ingredients := textutil.ExtractIngredientNames(ingredientText)

	common.LogInfo("開始過敏原分析",
		zap.String("國家", country),
		zap.Int("義務項目數", len(obligations)),
		zap.Int("食材數", len(ingredients)),
	)

	// 第一階段：字面詞典與分類表比對。
	// 命中且屬目標國義務者記為已確認；命中但與該國義務無關的食材
	// 不丟棄，仍交給證據採集（可能帶出其他證據）。
	confirmed := make(map[string]string, len(ingredients))
	var confirmedOrder []string
	var unconfirmed []string
	for _, ing := range ingredients {
		canonical, _, ok := s.matcher.Match(ing)
		if ok {
			labels := FilterByCountryObligation([]common.CanonicalAllergen{canonical}, obligations)
			if len(labels) > 0 {
				label := labels[0]
				if _, dup := confirmed[label]; !dup {
					confirmed[label] = ing
					confirmedOrder = append(confirmedOrder, label)
				}
				continue
			}
		}
		unconfirmed = append(unconfirmed, ing)
	}

	// 第二階段：對未確認食材並行採集證據。
	// 各 goroutine 寫入各自的索引位置，合併延後到全部完成之後，
	// 不做並發的就地修改；結果順序即食材順序。
	evidence := make([]common.IngredientEvidence, len(unconfirmed))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, ing := range unconfirmed {
		wg.Add(1)
		go func(idx int, ingredient string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			evidence[idx] = s.harvester.Harvest(ctx, ingredient, country, obligations)
		}(i, ing)
	}
	wg.Wait()

	// 最終清單：已確認者先行，其後依食材順序併入採集命中，保序去重
	seen := make(map[string]struct{}, len(confirmedOrder))
	final := make([]string, 0, len(confirmedOrder))
	for _, label := range confirmedOrder {
		seen[label] = struct{}{}
		final = append(final, label)
	}
	for _, ev := range evidence {
		for _, label := range ev.MatchedAllergens {
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			final = append(final, label)
		}
	}

	common.LogInfo("過敏原分析完成",
		zap.String("國家", country),
		zap.Int("直接確認數", len(confirmedOrder)),
		zap.Int("採集食材數", len(unconfirmed)),
		zap.Int("最終過敏原數", len(final)),
	)

	return &common.AllergenAnalysis{
		Country:       country,
		Ingredients:   ingredients,
		DirectMatches: confirmed,
		Evidence:      evidence,
		Allergens:     final,
		Notice:        common.DisclosureNotice,
	}
}
