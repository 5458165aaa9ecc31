package allergen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-compliance/internal/core/catalog"
	"recipe-compliance/internal/infrastructure/config"
	"recipe-compliance/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 採集策略標籤：記錄證據由哪一層關鍵字查得
const (
	StrategyIngredientName = "INGREDIENT_NAME"
	StrategyProcessedName  = "PROCESSED_CANDIDATE"
	StrategyRepresentative = "REPRESENTATIVE_CANDIDATE"
	StrategyNone           = "NONE"
)

// DirectoryRecord 認證產品目錄回傳的單筆紀錄
type DirectoryRecord struct {
	ReportNo        string `json:"prdlstReportNo"`
	ProductName     string `json:"prdlstNm"`
	FoodType        string `json:"prdkind"`
	AllergyText     string `json:"allergy"`
	RawMaterialText string `json:"rawmtrl"`
}

// recordList 容許「單一物件或陣列」兩種序列化形狀的紀錄清單。
// 供應商在恰好一筆命中時會把清單序列化成單一物件，
// 這裡在邊界一次吸收掉形狀歧義，後續管線只看見 slice。
type recordList []DirectoryRecord

func (l *recordList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var arr []DirectoryRecord
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*l = arr
		return nil
	}
	var single DirectoryRecord
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = recordList{single}
	return nil
}

// itemWrapper 目錄 API 的 items[i].item 包裝層
type itemWrapper struct {
	Item recordList `json:"item"`
}

// itemList items 本身同樣容許單一物件或陣列
type itemList []itemWrapper

func (l *itemList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var arr []itemWrapper
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*l = arr
		return nil
	}
	var single itemWrapper
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = itemList{single}
	return nil
}

// directoryResponse header/body/items 巢狀結構
type directoryResponse struct {
	Header struct {
		ResultCode string `json:"resultCode"`
		ResultMsg  string `json:"resultMsg"`
	} `json:"header"`
	Body struct {
		Items itemList `json:"items"`
	} `json:"body"`
}

// DirectoryClient 認證產品目錄 API 客戶端
type DirectoryClient struct {
	config *config.Config
	client *resty.Client
}

// NewDirectoryClient 創建目錄客戶端
func NewDirectoryClient(cfg *config.Config) *DirectoryClient {
	client := resty.New().
		SetBaseURL(cfg.Directory.BaseURL).
		SetTimeout(cfg.Directory.Timeout)

	return &DirectoryClient{
		config: cfg,
		client: client,
	}
}

// Search 以食品類型關鍵字查詢目錄。近似比對由外部 API 負責，
// 這裡只傳原始關鍵字與筆數上限。
// 超時、非 2xx 與不可解析的回應在呼叫端一律視同零筆命中。
func (c *DirectoryClient) Search(ctx context.Context, foodType string) ([]DirectoryRecord, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"serviceKey": c.config.Directory.APIKey,
			"returnType": "json",
			"pageNo":     "1",
			"numOfRows":  fmt.Sprintf("%d", c.config.Directory.PageSize),
			"prdkind":    foodType,
		}).
		Get("/getCertImgListServiceV3")

	if err != nil {
		return nil, fmt.Errorf("failed to query product directory: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("product directory returned status %d", resp.StatusCode())
	}

	return decodeDirectoryBody(resp.Body())
}

// decodeDirectoryBody 解析目錄回應並攤平巢狀包裝。
// 回應可能多包一層 {"response": {...}}；其他無法辨識的形狀視為零筆。
func decodeDirectoryBody(body []byte) ([]DirectoryRecord, error) {
	var envelope struct {
		Response *directoryResponse `json:"response"`
	}
	var parsed directoryResponse

	if err := common.ParseJSONBytes(body, &envelope); err == nil && envelope.Response != nil {
		parsed = *envelope.Response
	} else if err := common.ParseJSONBytes(body, &parsed); err != nil {
		// 無法辨識的形狀視為零筆，不往上拋
		return nil, nil
	}

	var records []DirectoryRecord
	for _, wrapper := range parsed.Body.Items {
		records = append(records, wrapper.Item...)
	}
	return records, nil
}

// Harvester 證據採集器：對未能直接確認的食材查詢外部認證產品目錄。
type Harvester struct {
	directory *DirectoryClient
	store     *catalog.Store
	cache     *HarvestCache
	config    *config.Config
}

// NewHarvester 創建證據採集器
func NewHarvester(directory *DirectoryClient, store *catalog.Store, cache *HarvestCache, cfg *config.Config) *Harvester {
	return &Harvester{
		directory: directory,
		store:     store,
		cache:     cache,
		config:    cfg,
	}
}

// keywordTier 一層查詢關鍵字與其策略標籤
type keywordTier struct {
	strategy string
	keywords []string
}

// buildKeywordPlan 依序產生查詢關鍵字：
// 先用食材原名；非未加工食品再退而使用模糊搜尋計畫的
// 加工名稱與代表名稱候選。未加工食品不展開加工品候選，
// 分類表的模糊命中對生鮮名稱只會是雜訊。
func (h *Harvester) buildKeywordPlan(ingredient string) []keywordTier {
	tiers := []keywordTier{
		{strategy: StrategyIngredientName, keywords: []string{ingredient}},
	}

	if h.store == nil || h.store.IsRawProduce(ingredient) {
		return tiers
	}

	plan := h.store.BuildFuzzySearchPlan(ingredient)
	if len(plan.Processed) > 0 {
		names := make([]string, 0, len(plan.Processed))
		for _, c := range plan.Processed {
			names = append(names, c.Name)
		}
		tiers = append(tiers, keywordTier{strategy: StrategyProcessedName, keywords: names})
	}
	if len(plan.Representative) > 0 {
		names := make([]string, 0, len(plan.Representative))
		for _, c := range plan.Representative {
			names = append(names, c.Name)
		}
		tiers = append(tiers, keywordTier{strategy: StrategyRepresentative, keywords: names})
	}
	return tiers
}

// Harvest 為單一食材採集過敏原證據。
// 查詢失敗與零筆命中一律以 NOT_FOUND 終結，屬有效結果而非錯誤，
// 絕不讓單一食材的失敗影響整體分析。
func (h *Harvester) Harvest(ctx context.Context, ingredient, country string, obligations []string) common.IngredientEvidence {
	if cached, ok := h.cache.Get(ctx, country, ingredient); ok {
		return *cached
	}

	start := time.Now()
	records, strategy := h.searchWithPlan(ctx, ingredient)
	common.LogHarvest(ingredient, time.Since(start), nil)

	if len(records) == 0 {
		ev := notFoundEvidence(ingredient)
		_ = h.cache.Set(ctx, country, ingredient, &ev)
		return ev
	}

	// 證據上限：僅保留供應商順序的前 N 筆
	if len(records) > h.config.Harvest.EvidenceCap {
		records = records[:h.config.Harvest.EvidenceCap]
	}

	var products []common.ProductEvidence
	var candidates []common.CanonicalAllergen
	seen := make(map[common.CanonicalAllergen]struct{})
	for _, r := range records {
		products = append(products, common.ProductEvidence{
			ReportNo:        r.ReportNo,
			ProductName:     r.ProductName,
			FoodType:        r.FoodType,
			AllergyText:     r.AllergyText,
			RawMaterialText: r.RawMaterialText,
		})

		// 只有過敏原標示欄位可產生候選。標示為空時即使有
		// 原材料欄位也不得解析：原材料組成不是過敏原標示，
		// 從中推論違反以證據為本的原則。
		if strings.TrimSpace(r.AllergyText) == "" {
			continue
		}
		for _, c := range ExtractCanonicalFromDeclarationText(r.AllergyText) {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			candidates = append(candidates, c)
		}
	}

	ev := common.IngredientEvidence{
		Ingredient:       ingredient,
		Strategy:         strategy,
		Products:         products,
		MatchedAllergens: FilterByCountryObligation(candidates, obligations),
		Status:           common.EvidenceFound,
	}
	_ = h.cache.Set(ctx, country, ingredient, &ev)
	return ev
}

// searchWithPlan 依關鍵字計畫逐層查詢，第一個有命中的關鍵字勝出
func (h *Harvester) searchWithPlan(ctx context.Context, ingredient string) ([]DirectoryRecord, string) {
	for _, tier := range h.buildKeywordPlan(ingredient) {
		for _, keyword := range tier.keywords {
			records, err := h.directory.Search(ctx, keyword)
			if err != nil {
				// 查詢失敗視同零筆命中，僅記錄，繼續下一個關鍵字
				common.LogWarn("目錄查詢失敗，視同零筆",
					zap.String("食材", ingredient),
					zap.String("關鍵字", keyword),
					zap.Error(err),
				)
				continue
			}
			if len(records) > 0 {
				return records, tier.strategy
			}
		}
	}
	return nil, StrategyNone
}

// notFoundEvidence NOT_FOUND 終結狀態：證據與命中清單必為空
func notFoundEvidence(ingredient string) common.IngredientEvidence {
	return common.IngredientEvidence{
		Ingredient:       ingredient,
		Strategy:         StrategyNone,
		Products:         nil,
		MatchedAllergens: nil,
		Status:           common.EvidenceNotFound,
	}
}
