package textutil

import (
	"strings"
	"unicode"
)

// ExtractIngredientNames 從食譜文字萃取食材名稱：
// 以逗號切段，移除括號備註，每段取開頭連續的字母（含內部空白）作為名稱，
// 後方的數量單位（如「100g」「10ml」）自此截斷。保留首見順序並去重。
func ExtractIngredientNames(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	cleaned := parenPattern.ReplaceAllString(text, " ")
	segments := strings.FieldsFunc(cleaned, func(r rune) bool {
		return r == ',' || r == '，'
	})

	seen := make(map[string]struct{}, len(segments))
	var names []string
	for _, seg := range segments {
		name := leadingLetterRun(strings.TrimSpace(seg))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// leadingLetterRun 取開頭連續的字母區段，允許名稱內部的空白
// （多詞名稱如「soy sauce」），遇到數字或其他符號即截斷。
func leadingLetterRun(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || r == ' ' {
			b.WriteRune(r)
			continue
		}
		break
	}
	return strings.TrimSpace(b.String())
}
