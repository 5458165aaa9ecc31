package common

// CanonicalAllergen 標準過敏原識別字，固定詞彙表，
// 不論來源語言拼寫一律轉為此識別字後才進行比對。
type CanonicalAllergen string

// 固定詞彙表（封閉集合，等值比較區分大小寫）
const (
	AllergenMilk        CanonicalAllergen = "Milk"
	AllergenEgg         CanonicalAllergen = "Egg"
	AllergenWheat       CanonicalAllergen = "Wheat"
	AllergenSoybean     CanonicalAllergen = "Soybean"
	AllergenPeanut      CanonicalAllergen = "Peanut"
	AllergenSesame      CanonicalAllergen = "Sesame"
	AllergenWalnut      CanonicalAllergen = "Walnut"
	AllergenCrustaceans CanonicalAllergen = "Crustaceans"
	AllergenMolluscs    CanonicalAllergen = "Molluscs"
	AllergenFish        CanonicalAllergen = "Fish"
	AllergenBuckwheat   CanonicalAllergen = "Buckwheat"
	AllergenPork        CanonicalAllergen = "Pork"
	AllergenPeach       CanonicalAllergen = "Peach"
	AllergenTomato      CanonicalAllergen = "Tomato"
	AllergenPineNut     CanonicalAllergen = "Pine nut"
	AllergenChicken     CanonicalAllergen = "Chicken"
	AllergenBeef        CanonicalAllergen = "Beef"
	AllergenSquid       CanonicalAllergen = "Squid"
	AllergenShellfish   CanonicalAllergen = "Shellfish"
	AllergenSulfites    CanonicalAllergen = "Sulfites"
)

// EvidenceStatus 證據採集結果狀態
type EvidenceStatus string

const (
	EvidenceFound    EvidenceStatus = "FOUND"
	EvidenceNotFound EvidenceStatus = "NOT_FOUND"
)

// ProductEvidence 一筆被查閱的外部認證產品紀錄。
// 過敏原標示與原材料欄位各自可能為空。
type ProductEvidence struct {
	ReportNo        string `json:"report_no"`
	ProductName     string `json:"product_name"`
	FoodType        string `json:"food_type"`
	AllergyText     string `json:"allergy_text,omitempty"`
	RawMaterialText string `json:"raw_material_text,omitempty"`
}

// IngredientEvidence 單一食材的證據採集結果。
// Status 為 NOT_FOUND 時 Products 與 MatchedAllergens 必為空。
type IngredientEvidence struct {
	Ingredient       string            `json:"ingredient"`
	Strategy         string            `json:"strategy"`
	Products         []ProductEvidence `json:"products"`
	MatchedAllergens []string          `json:"matched_allergens"`
	Status           EvidenceStatus    `json:"status"`
}

// AllergenAnalysis 過敏原分析結果
type AllergenAnalysis struct {
	Country       string               `json:"country"`
	Ingredients   []string             `json:"ingredients"`
	DirectMatches map[string]string    `json:"direct_matches"` // 各國標示名稱 → 原始食材文字
	Evidence      []IngredientEvidence `json:"evidence"`
	Allergens     []string             `json:"allergens"` // 去重後的最終過敏原清單（保序）
	Notice        string               `json:"notice"`
}

// DisclosureNotice 固定揭露聲明：結果以明確證據為依據，
// 查無結果代表「未查得」而非「確認不含」。
const DisclosureNotice = "본 분석 결과는 등록된 원료 분류표와 인증 제품의 알레르기 표시 정보 등 명시적 근거에 기반합니다. " +
	"결과가 없는 항목은 '근거를 찾지 못함'을 의미하며 해당 성분이 없음을 보증하지 않습니다."

// CaseRecord 一筆歷史違規案例（已與詳情索引合併）
type CaseRecord struct {
	CaseID         string `json:"case_id"`
	Country        string `json:"country"`
	PublishedAt    string `json:"published_at"`
	Ingredient     string `json:"ingredient"`
	Reason         string `json:"reason"`
	Action         string `json:"action"`
	MatchedKeyword string `json:"matched_keyword"`
}

// IngredientCaseGroup 依食材分組的案例清單，
// 無任何案例的食材以空清單呈現，屬有效結果而非遺漏。
type IngredientCaseGroup struct {
	Ingredient string       `json:"ingredient"`
	Cases      []CaseRecord `json:"cases"`
}

// CaseMatchResult 違規案例比對結果
type CaseMatchResult struct {
	RecipeID        string                `json:"recipe_id"`
	ProductName     string                `json:"product_name"`
	ProductCases    []CaseRecord          `json:"product_cases"`
	IngredientCases []IngredientCaseGroup `json:"ingredient_cases"`
}
