package allergen

import "recipe-compliance/internal/pkg/common"

// 本檔案的三張對照表為封閉詞彙，行程啟動後不再變動。
// 比對一律以這些明確對應為依據，缺字即視為未知，不做推論。

// directLexicon 字面即過敏原食材的名稱 → 標準識別字。
// 僅收錄無歧義的字面名稱，此層刻意不做模糊比對。
var directLexicon = map[string]common.CanonicalAllergen{
	// 乳蛋類
	"우유":   common.AllergenMilk,
	"milk": common.AllergenMilk,
	"계란":   common.AllergenEgg,
	"달걀":   common.AllergenEgg,
	"egg":  common.AllergenEgg,

	// 穀豆類
	"밀":       common.AllergenWheat,
	"밀가루":     common.AllergenWheat,
	"wheat":   common.AllergenWheat,
	"대두":      common.AllergenSoybean,
	"콩":       common.AllergenSoybean,
	"soybean": common.AllergenSoybean,
	"메밀":      common.AllergenBuckwheat,

	// 堅果種子類
	"참깨":     common.AllergenSesame,
	"깨":      common.AllergenSesame,
	"sesame": common.AllergenSesame,
	"땅콩":     common.AllergenPeanut,
	"peanut": common.AllergenPeanut,
	"호두":     common.AllergenWalnut,
	"walnut": common.AllergenWalnut,
	"잣":      common.AllergenPineNut,

	// 水產類
	"새우":     common.AllergenCrustaceans,
	"shrimp": common.AllergenCrustaceans,
	"게":      common.AllergenCrustaceans,
	"꽃게":     common.AllergenCrustaceans,
	"crab":   common.AllergenCrustaceans,
	"오징어":    common.AllergenSquid,
	"고등어":    common.AllergenFish,
	"조개":     common.AllergenShellfish,
	"굴":      common.AllergenShellfish,
	"홍합":     common.AllergenShellfish,
	"전복":     common.AllergenShellfish,

	// 肉果類
	"돼지고기": common.AllergenPork,
	"쇠고기":  common.AllergenBeef,
	"소고기":  common.AllergenBeef,
	"닭고기":  common.AllergenChicken,
	"복숭아":  common.AllergenPeach,
	"토마토":  common.AllergenTomato,
}

// declarationLexicon 過敏原標示文字中的詞彙 → 標準識別字。
// 同一識別字允許多個同義詞（계란/달걀/난백 皆為 Egg）。
// 不在表中的詞彙一律忽略，絕不猜測。
var declarationLexicon = map[string]common.CanonicalAllergen{
	"우유":    common.AllergenMilk,
	"유제품":   common.AllergenMilk,
	"계란":    common.AllergenEgg,
	"달걀":    common.AllergenEgg,
	"난류":    common.AllergenEgg,
	"알류":    common.AllergenEgg,
	"난백":    common.AllergenEgg,
	"난황":    common.AllergenEgg,
	"밀":     common.AllergenWheat,
	"대두":    common.AllergenSoybean,
	"콩":     common.AllergenSoybean,
	"메밀":    common.AllergenBuckwheat,
	"참깨":    common.AllergenSesame,
	"깨":     common.AllergenSesame,
	"땅콩":    common.AllergenPeanut,
	"호두":    common.AllergenWalnut,
	"잣":     common.AllergenPineNut,
	"새우":    common.AllergenCrustaceans,
	"게":     common.AllergenCrustaceans,
	"오징어":   common.AllergenSquid,
	"고등어":   common.AllergenFish,
	"조개류":   common.AllergenShellfish,
	"굴":     common.AllergenShellfish,
	"홍합":    common.AllergenShellfish,
	"전복":    common.AllergenShellfish,
	"돼지고기":  common.AllergenPork,
	"쇠고기":   common.AllergenBeef,
	"소고기":   common.AllergenBeef,
	"닭고기":   common.AllergenChicken,
	"복숭아":   common.AllergenPeach,
	"토마토":   common.AllergenTomato,
	"아황산류":  common.AllergenSulfites,
	"아황산염":  common.AllergenSulfites,
}

// countryLabelEquivalents 跨國用語對照表 v1：
// 通用識別字 → 各國義務清單可能採用的標示名稱。
// 僅用於把「已確認」的過敏原改寫為目標國家的用語，
// 絕不用於推論新的過敏原。新增對應屬資料變更，不改程式。
var countryLabelEquivalents = map[common.CanonicalAllergen][]string{
	common.AllergenCrustaceans: {"Crustacean shellfish", "Crustaceans"},
	common.AllergenEgg:         {"Eggs"},
	common.AllergenMilk:        {"Milk"},
	common.AllergenPeanut:      {"Peanuts"},
	common.AllergenSoybean:     {"Soybeans", "Soy"},
	common.AllergenWalnut:      {"Tree nuts", "Nuts"},
	common.AllergenWheat:       {"Cereals containing gluten"},
	common.AllergenSesame:      {"Sesame seeds"},
	common.AllergenSquid:       {"Molluscs"},
	common.AllergenShellfish:   {"Molluscs", "Shellfish"},
	common.AllergenMolluscs:    {"Molluscs"},
	common.AllergenSulfites:    {"Sulphur dioxide and sulphites"},
}
