package catalog

import (
	"sort"
	"strings"

	"recipe-compliance/internal/core/textutil"
	"recipe-compliance/internal/pkg/common"
)

// SeafoodCategory 水產分類桶
type SeafoodCategory string

const (
	SeafoodShrimp          SeafoodCategory = "shrimp"
	SeafoodCrab            SeafoodCategory = "crab"
	SeafoodCrustaceanOther SeafoodCategory = "crustacean_other"
	SeafoodMollusc         SeafoodCategory = "mollusc"
	SeafoodFish            SeafoodCategory = "fish"
	SeafoodOther           SeafoodCategory = "other"
)

// ProcessedFoodEntry 加工食品分類表的單筆資料，任一欄位皆可能為空。
// 只用於相似度比對，除正規化等值外不做其他識別。
type ProcessedFoodEntry struct {
	ProcessedName      string `json:"processed_name"`
	RepresentativeName string `json:"representative_name"`
	MajorCategory      string `json:"major_category"`
	MinorCategory      string `json:"minor_category"`
}

// Candidate 模糊搜尋候選
type Candidate struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SearchPlan 模糊搜尋計畫：加工名稱與代表名稱兩組候選
type SearchPlan struct {
	Processed      []Candidate `json:"processed"`
	Representative []Candidate `json:"representative"`
}

// Options 閾值設定。數值為經驗值，保留為可覆寫選項而非重新推導：
// 代表名稱較短且雜訊較多，因此閾值低於加工名稱。
type Options struct {
	ProcessedThreshold      float64
	RepresentativeThreshold float64
	CandidateLimit          int
	DairyHints              []string
}

// DefaultOptions 預設閾值
func DefaultOptions() Options {
	return Options{
		ProcessedThreshold:      0.80,
		RepresentativeThreshold: 0.75,
		CandidateLimit:          5,
		DairyHints:              []string{"유가공", "우유류", "치즈", "버터"},
	}
}

type processedEntry struct {
	ProcessedFoodEntry
	normProcessed      string
	normRepresentative string
}

// Store 啟動時一次建立的唯讀參考資料索引，可供任意數量的並發讀取。
type Store struct {
	obligations map[string][]string
	entries     []processedEntry
	byNormName  map[string]int // 正規化名稱 → entries 索引，先登錄者優先
	rawProduce  map[string]struct{}
	seafood     map[string]SeafoodCategory
	opts        Options
}

// Obligations 回傳目標國家的強制揭示清單，未知國家回傳空清單而非錯誤。
func (s *Store) Obligations(countryCode string) []string {
	list, ok := s.obligations[strings.ToUpper(strings.TrimSpace(countryCode))]
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Countries 回傳已登錄義務清單的國家數
func (s *Store) Countries() int {
	return len(s.obligations)
}

// Entries 回傳加工食品分類表筆數
func (s *Store) Entries() int {
	return len(s.entries)
}

// MatchDirectProcessedFood 以正規化等值比對加工名稱／代表名稱。
// 僅當命中項目的分類文字含乳製品提示詞時回傳 Milk：
// 乳製品加工名稱多半不含「우유」字面，只能靠分類判定。
// 這是唯一允許以分類規則（而非字面名稱）產生過敏原的地方。
func (s *Store) MatchDirectProcessedFood(name string) (common.CanonicalAllergen, bool) {
	n := textutil.Normalize(name)
	if n == "" {
		return "", false
	}
	idx, ok := s.byNormName[n]
	if !ok {
		return "", false
	}
	category := s.entries[idx].MajorCategory + " " + s.entries[idx].MinorCategory
	for _, hint := range s.opts.DairyHints {
		if hint != "" && strings.Contains(category, hint) {
			return common.AllergenMilk, true
		}
	}
	return "", false
}

// BuildFuzzySearchPlan 將輸入與全部分類表項目逐一計分，
// 加工名稱保留 >= ProcessedThreshold、代表名稱保留 >= RepresentativeThreshold，
// 同名候選取最高分去重，各取前 CandidateLimit 名，由高至低，同分依首見順序。
func (s *Store) BuildFuzzySearchPlan(name string) SearchPlan {
	var processed, representative []Candidate
	if textutil.Normalize(name) == "" {
		return SearchPlan{}
	}

	for _, e := range s.entries {
		if e.ProcessedName != "" {
			if sc := textutil.Score(name, e.ProcessedName); sc >= s.opts.ProcessedThreshold {
				processed = appendCandidate(processed, e.ProcessedName, sc)
			}
		}
		if e.RepresentativeName != "" {
			if sc := textutil.Score(name, e.RepresentativeName); sc >= s.opts.RepresentativeThreshold {
				representative = appendCandidate(representative, e.RepresentativeName, sc)
			}
		}
	}

	return SearchPlan{
		Processed:      topCandidates(processed, s.opts.CandidateLimit),
		Representative: topCandidates(representative, s.opts.CandidateLimit),
	}
}

// appendCandidate 同名候選只保留最高分
func appendCandidate(list []Candidate, name string, score float64) []Candidate {
	for i := range list {
		if list[i].Name == name {
			if score > list[i].Score {
				list[i].Score = score
			}
			return list
		}
	}
	return append(list, Candidate{Name: name, Score: score})
}

// topCandidates 穩定排序取前 limit 名（同分維持首見順序）
func topCandidates(list []Candidate, limit int) []Candidate {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Score > list[j].Score
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

// RawProduceCount 回傳未加工食品名單筆數
func (s *Store) RawProduceCount() int {
	return len(s.rawProduce)
}

// IsRawProduce 判斷是否為已知的未加工食品名稱，僅做正規化等值查詢。
func (s *Store) IsRawProduce(name string) bool {
	_, ok := s.rawProduce[textutil.Normalize(name)]
	return ok
}

// MatchSeafoodCategory 以正規化等值查詢水產分類，無模糊比對。
func (s *Store) MatchSeafoodCategory(name string) (SeafoodCategory, bool) {
	cat, ok := s.seafood[textutil.Normalize(name)]
	return cat, ok
}
