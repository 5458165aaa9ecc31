package allergen

import (
	"strings"

	"recipe-compliance/internal/core/catalog"
	"recipe-compliance/internal/pkg/common"
)

// 標示文字的分隔符：逗號、斜線、分號、頓號與中點
const declarationSeparators = ",，/;；·、"

// 標示文字中的「含有」標記，僅為語助詞，剝除後再查表
const containsMarker = "함유"

// MatchTier 命中層級
type MatchTier string

const (
	TierDirect  MatchTier = "direct"  // 字面名稱直接命中
	TierCatalog MatchTier = "catalog" // 分類表輔助命中
)

// Matcher 過敏原比對器
type Matcher struct {
	store *catalog.Store
}

// NewMatcher 創建過敏原比對器
func NewMatcher(store *catalog.Store) *Matcher {
	return &Matcher{store: store}
}

// DirectMatch 以字面名稱查詢固定詞典，只做 trim 不做完整正規化：
// 此層要求食材名稱逐字等於已知的過敏原食材，用於確認無歧義的情況。
func (m *Matcher) DirectMatch(name string) (common.CanonicalAllergen, bool) {
	c, ok := directLexicon[strings.TrimSpace(name)]
	return c, ok
}

// CatalogMatch 分類表輔助比對：
// 先以乳製品分類規則比對加工食品表，再以水產分類表比對。
// 兩者皆為明確登錄的對應，不屬於推論。
func (m *Matcher) CatalogMatch(name string) (common.CanonicalAllergen, bool) {
	if m.store == nil {
		return "", false
	}
	if c, ok := m.store.MatchDirectProcessedFood(name); ok {
		return c, true
	}
	if cat, ok := m.store.MatchSeafoodCategory(name); ok {
		switch cat {
		case catalog.SeafoodShrimp, catalog.SeafoodCrab, catalog.SeafoodCrustaceanOther:
			return common.AllergenCrustaceans, true
		case catalog.SeafoodMollusc:
			return common.AllergenMolluscs, true
		case catalog.SeafoodFish:
			return common.AllergenFish, true
		}
	}
	return "", false
}

// Match 依序嘗試字面詞典與分類表，回傳命中的標準識別字與層級。
func (m *Matcher) Match(name string) (common.CanonicalAllergen, MatchTier, bool) {
	if c, ok := m.DirectMatch(name); ok {
		return c, TierDirect, true
	}
	if c, ok := m.CatalogMatch(name); ok {
		return c, TierCatalog, true
	}
	return "", "", false
}

// ExtractCanonicalFromDeclarationText 從自由文字的過敏原標示萃取標準識別字集合。
// 以分隔符與「함유」標記切分後逐詞查表；
// 不在詞典中的詞彙靜默略過，絕不猜測。回傳保序去重的集合。
func ExtractCanonicalFromDeclarationText(text string) []common.CanonicalAllergen {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// 「함유」視為分隔標記剝除
	cleaned := strings.ReplaceAll(text, containsMarker, " ")

	tokens := strings.FieldsFunc(cleaned, func(r rune) bool {
		return strings.ContainsRune(declarationSeparators, r) || r == ' ' || r == '\t' || r == '\n'
	})

	seen := make(map[common.CanonicalAllergen]struct{})
	var result []common.CanonicalAllergen
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		c, ok := declarationLexicon[tok]
		if !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result
}

// FilterByCountryObligation 只保留義務清單中的候選。
// 候選不在清單時查用語對照表：若其對應的國別標示名稱在清單中，
// 即以該國用語輸出（改名，不新增）。回傳保序去重清單。
func FilterByCountryObligation(candidates []common.CanonicalAllergen, obligations []string) []string {
	if len(candidates) == 0 || len(obligations) == 0 {
		return nil
	}

	obligated := make(map[string]struct{}, len(obligations))
	for _, label := range obligations {
		obligated[label] = struct{}{}
	}

	seen := make(map[string]struct{})
	var result []string
	appendLabel := func(label string) {
		if _, dup := seen[label]; dup {
			return
		}
		seen[label] = struct{}{}
		result = append(result, label)
	}

	for _, c := range candidates {
		if _, ok := obligated[string(c)]; ok {
			appendLabel(string(c))
			continue
		}
		for _, label := range countryLabelEquivalents[c] {
			if _, ok := obligated[label]; ok {
				appendLabel(label)
				break
			}
		}
	}
	return result
}
