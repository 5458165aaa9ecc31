package regulation

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"

	"recipe-compliance/internal/core/textutil"
	"recipe-compliance/internal/infrastructure/config"
	"recipe-compliance/internal/pkg/common"

	"go.uber.org/zap"
)

// IngredientType 搜尋索引中關鍵字的類型
type IngredientType string

const (
	TypeFinishedProduct     IngredientType = "완제품"  // 完成品
	TypeProcessedIngredient IngredientType = "가공원료" // 加工原料
	TypeOther               IngredientType = "기타"
)

// searchRow 搜尋索引的一列
type searchRow struct {
	CaseID  string
	Country string
	Keyword string
	Type    IngredientType
}

// detailRow 詳情索引的一列，以 case_id 為合併鍵
type detailRow struct {
	CaseID      string
	Country     string
	PublishedAt string
	Ingredient  string
	Reason      string
	Action      string
}

// Matcher 違規案例比對器。
// 兩份 CSV 索引在首次使用時載入並於行程生命週期內快取，
// 併發首次存取下也保證只解析一次。
type Matcher struct {
	config config.RegulationConfig

	once    sync.Once
	loadErr error
	rows    []searchRow
	details map[string]detailRow
}

// NewMatcher 創建違規案例比對器（索引延遲載入）
func NewMatcher(cfg config.RegulationConfig) *Matcher {
	return &Matcher{config: cfg}
}

// ensureLoaded 首次使用時載入索引。
// 載入失敗只回傳給本管線的呼叫端，不影響行程其他部分。
func (m *Matcher) ensureLoaded() error {
	m.once.Do(func() {
		m.loadErr = m.load()
	})
	return m.loadErr
}

func (m *Matcher) load() error {
	details, err := loadDetailIndex(m.config.DetailIndexPath)
	if err != nil {
		return fmt.Errorf("failed to load case detail index: %w", err)
	}

	rows, err := loadSearchIndex(m.config.SearchIndexPath)
	if err != nil {
		return fmt.Errorf("failed to load case search index: %w", err)
	}

	// 無詳情對應的搜尋列靜默剔除
	kept := rows[:0]
	for _, row := range rows {
		if _, ok := details[row.CaseID]; ok {
			kept = append(kept, row)
		}
	}

	m.rows = kept
	m.details = details

	common.LogInfo("違規案例索引已載入",
		zap.Int("搜尋列數", len(kept)),
		zap.Int("詳情筆數", len(details)),
	)
	return nil
}

// loadSearchIndex 讀取搜尋索引 CSV：case_id,country,keyword,ingredient_type
func loadSearchIndex(path string) ([]searchRow, error) {
	records, err := readCSV(path, 4)
	if err != nil {
		return nil, err
	}

	rows := make([]searchRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, searchRow{
			CaseID:  strings.TrimSpace(rec[0]),
			Country: strings.TrimSpace(rec[1]),
			Keyword: strings.TrimSpace(rec[2]),
			Type:    parseIngredientType(rec[3]),
		})
	}
	return rows, nil
}

// loadDetailIndex 讀取詳情索引 CSV：
// case_id,country,published_at,ingredient,reason,action
func loadDetailIndex(path string) (map[string]detailRow, error) {
	records, err := readCSV(path, 6)
	if err != nil {
		return nil, err
	}

	details := make(map[string]detailRow, len(records))
	for _, rec := range records {
		row := detailRow{
			CaseID:      strings.TrimSpace(rec[0]),
			Country:     strings.TrimSpace(rec[1]),
			PublishedAt: strings.TrimSpace(rec[2]),
			Ingredient:  strings.TrimSpace(rec[3]),
			Reason:      strings.TrimSpace(rec[4]),
			Action:      strings.TrimSpace(rec[5]),
		}
		details[row.CaseID] = row
	}
	return details, nil
}

// readCSV 讀取含表頭的 UTF-8 CSV，驗證欄位數
func readCSV(path string, minFields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s is empty", path)
	}

	// 略過表頭
	var rows [][]string
	for _, rec := range records[1:] {
		if len(rec) < minFields {
			return nil, fmt.Errorf("csv %s has a row with %d fields, want %d", path, len(rec), minFields)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func parseIngredientType(s string) IngredientType {
	switch IngredientType(strings.TrimSpace(s)) {
	case TypeFinishedProduct:
		return TypeFinishedProduct
	case TypeProcessedIngredient:
		return TypeProcessedIngredient
	default:
		return TypeOther
	}
}

// MatchCases 比對食譜與歷史違規案例。
// 食譜字串以第一個冒號切分：左側為產品名，右側為食材文字；
// 無冒號時整串視為產品名。索引載入失敗回傳錯誤給本管線呼叫端。
func (m *Matcher) MatchCases(recipeText, recipeID string) (*common.CaseMatchResult, error) {
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	productName, ingredientText := splitRecipe(recipeText)
	ingredients := textutil.ExtractIngredientNames(ingredientText)

	result := &common.CaseMatchResult{
		RecipeID:        recipeID,
		ProductName:     productName,
		ProductCases:    m.matchProduct(productName),
		IngredientCases: m.matchIngredients(ingredients),
	}

	common.LogInfo("違規案例比對完成",
		zap.String("產品名", productName),
		zap.Int("產品層級命中", len(result.ProductCases)),
		zap.Int("食材數", len(ingredients)),
	)
	return result, nil
}

// splitRecipe 以第一個冒號切分產品名與食材文字
func splitRecipe(text string) (string, string) {
	idx := strings.Index(text, ":")
	if idx < 0 {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(text[:idx]), text[idx+1:]
}

// matchProduct 產品層級比對：只考慮完成品與加工原料類型的關鍵字，
// 生鮮原料關鍵字不應命中產品名。只要有任一共同 token 即成立
// （純重疊，與順序無關）。
func (m *Matcher) matchProduct(productName string) []common.CaseRecord {
	productTokens := textutil.Tokenize(productName)
	if len(productTokens) == 0 {
		return nil
	}

	tokenSet := make(map[string]struct{}, len(productTokens))
	for _, t := range productTokens {
		tokenSet[t] = struct{}{}
	}

	var cases []common.CaseRecord
	for _, row := range m.rows {
		if row.Type != TypeFinishedProduct && row.Type != TypeProcessedIngredient {
			continue
		}
		if !anyTokenIn(textutil.Tokenize(row.Keyword), tokenSet) {
			continue
		}
		cases = append(cases, m.caseRecord(row))
	}
	return cases
}

// matchIngredients 食材層級比對：不過濾類型。
// 單一 token 的食材只需出現在關鍵字 token 中即可；
// 多 token 食材要求其 token 序列以連續且保序的方式
// 出現在關鍵字 token 序列中。
// 零命中的食材以空清單呈現，屬可回報的有效結果。
func (m *Matcher) matchIngredients(ingredients []string) []common.IngredientCaseGroup {
	groups := make([]common.IngredientCaseGroup, 0, len(ingredients))
	for _, ing := range ingredients {
		group := common.IngredientCaseGroup{Ingredient: ing, Cases: []common.CaseRecord{}}
		ingTokens := textutil.Tokenize(ing)
		if len(ingTokens) == 0 {
			groups = append(groups, group)
			continue
		}

		for _, row := range m.rows {
			keywordTokens := textutil.Tokenize(row.Keyword)
			if len(ingTokens) == 1 {
				if !containsToken(keywordTokens, ingTokens[0]) {
					continue
				}
			} else if !containsSubsequence(keywordTokens, ingTokens) {
				continue
			}
			group.Cases = append(group.Cases, m.caseRecord(row))
		}
		groups = append(groups, group)
	}
	return groups
}

// caseRecord 將搜尋列與詳情合併為輸出紀錄，帶上命中的關鍵字
func (m *Matcher) caseRecord(row searchRow) common.CaseRecord {
	detail := m.details[row.CaseID]
	return common.CaseRecord{
		CaseID:         detail.CaseID,
		Country:        detail.Country,
		PublishedAt:    detail.PublishedAt,
		Ingredient:     detail.Ingredient,
		Reason:         detail.Reason,
		Action:         detail.Action,
		MatchedKeyword: row.Keyword,
	}
}

func anyTokenIn(tokens []string, set map[string]struct{}) bool {
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func containsToken(tokens []string, target string) bool {
	for _, t := range tokens {
		if t == target {
			return true
		}
	}
	return false
}

// containsSubsequence 判斷 needle 是否為 haystack 的連續保序子序列
func containsSubsequence(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
