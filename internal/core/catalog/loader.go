package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"recipe-compliance/internal/core/textutil"
	"recipe-compliance/internal/pkg/common"

	"go.uber.org/zap"
)

// 水產分類桶的固定登錄順序，名稱衝突時先登錄者優先
var seafoodBucketOrder = []SeafoodCategory{
	SeafoodShrimp,
	SeafoodCrab,
	SeafoodCrustaceanOther,
	SeafoodMollusc,
	SeafoodFish,
	SeafoodOther,
}

// Paths 參考資料檔案位置
type Paths struct {
	Obligations    string
	ProcessedFoods string
	RawProduce     string
	Seafood        string
}

// Load 讀取全部參考資料並建立唯讀索引。
// 任一檔案讀取或解析失敗即回傳錯誤：引擎缺少參考資料無法運作，
// 絕不退回空目錄。
func Load(paths Paths, opts Options) (*Store, error) {
	if opts.CandidateLimit <= 0 {
		opts = DefaultOptions()
	}

	obligations, err := loadObligations(paths.Obligations)
	if err != nil {
		return nil, fmt.Errorf("failed to load allergen obligations: %w", err)
	}

	entries, byNormName, err := loadProcessedFoods(paths.ProcessedFoods)
	if err != nil {
		return nil, fmt.Errorf("failed to load processed food catalog: %w", err)
	}

	rawProduce, err := loadRawProduce(paths.RawProduce)
	if err != nil {
		return nil, fmt.Errorf("failed to load raw produce list: %w", err)
	}

	seafood, err := loadSeafood(paths.Seafood)
	if err != nil {
		return nil, fmt.Errorf("failed to load seafood categories: %w", err)
	}

	store := &Store{
		obligations: obligations,
		entries:     entries,
		byNormName:  byNormName,
		rawProduce:  rawProduce,
		seafood:     seafood,
		opts:        opts,
	}

	common.LogInfo("參考資料已載入",
		zap.Int("國家數", len(obligations)),
		zap.Int("加工食品筆數", len(entries)),
		zap.Int("未加工食品筆數", len(rawProduce)),
		zap.Int("水產名稱筆數", len(seafood)),
	)

	return store, nil
}

// loadObligations 載入國家別強制揭示清單
func loadObligations(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw map[string][]string
	if err := common.DecodeJSON(f, &raw); err != nil {
		return nil, err
	}

	obligations := make(map[string][]string, len(raw))
	for country, list := range raw {
		code := strings.ToUpper(strings.TrimSpace(country))
		if code == "" {
			return nil, fmt.Errorf("empty country code in obligations table")
		}
		obligations[code] = list
	}
	return obligations, nil
}

// loadProcessedFoods 載入加工食品分類表並預先計算正規化名稱
func loadProcessedFoods(path string) ([]processedEntry, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var raw []ProcessedFoodEntry
	if err := common.DecodeJSON(f, &raw); err != nil {
		return nil, nil, err
	}

	entries := make([]processedEntry, 0, len(raw))
	byNormName := make(map[string]int, len(raw)*2)
	for _, e := range raw {
		entry := processedEntry{
			ProcessedFoodEntry: e,
			normProcessed:      textutil.Normalize(e.ProcessedName),
			normRepresentative: textutil.Normalize(e.RepresentativeName),
		}
		idx := len(entries)
		entries = append(entries, entry)

		// 先登錄者優先
		if entry.normProcessed != "" {
			if _, ok := byNormName[entry.normProcessed]; !ok {
				byNormName[entry.normProcessed] = idx
			}
		}
		if entry.normRepresentative != "" {
			if _, ok := byNormName[entry.normRepresentative]; !ok {
				byNormName[entry.normRepresentative] = idx
			}
		}
	}
	return entries, byNormName, nil
}

// loadRawProduce 載入未加工食品名稱清單，一行一筆
func loadRawProduce(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := textutil.Normalize(scanner.Text())
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// loadSeafood 載入水產分類：桶名 → 逗號分隔的名稱清單
func loadSeafood(path string) (map[string]SeafoodCategory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw map[string]string
	if err := common.DecodeJSON(f, &raw); err != nil {
		return nil, err
	}

	seafood := make(map[string]SeafoodCategory)
	for _, bucket := range seafoodBucketOrder {
		names, ok := raw[string(bucket)]
		if !ok {
			continue
		}
		for _, name := range strings.Split(names, ",") {
			n := textutil.Normalize(name)
			if n == "" {
				continue
			}
			// 名稱衝突時先登錄的分類優先
			if _, exists := seafood[n]; exists {
				continue
			}
			seafood[n] = bucket
		}
	}

	for bucket := range raw {
		if !isKnownBucket(bucket) {
			return nil, fmt.Errorf("unknown seafood bucket %q", bucket)
		}
	}
	return seafood, nil
}

func isKnownBucket(name string) bool {
	for _, b := range seafoodBucketOrder {
		if string(b) == name {
			return true
		}
	}
	return false
}
