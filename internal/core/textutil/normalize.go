package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// 括號內容為備註性質（例如產地、含量），比對前一律移除
var parenPattern = regexp.MustCompile(`\([^)]*\)`)

// isZeroWidth 判斷是否為 BOM 或零寬字元
func isZeroWidth(r rune) bool {
	switch r {
	case '\uFEFF', '\u200B', '\u200C', '\u200D':
		return true
	}
	return false
}

// Normalize 將名稱轉為標準比對形式：
// 移除 BOM/零寬字元與括號備註，底線視為空白，轉小寫，
// 非字母數字的連續區段壓縮為單一空白，並去除前後空白。
// 空字串輸入回傳空字串，不產生錯誤。
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// 移除零寬字元
	var cleaned strings.Builder
	for _, r := range s {
		if isZeroWidth(r) {
			continue
		}
		if r == '_' {
			cleaned.WriteRune(' ')
			continue
		}
		cleaned.WriteRune(r)
	}

	// 移除括號備註
	text := parenPattern.ReplaceAllString(cleaned.String(), " ")
	text = strings.ToLower(text)

	// 非字母數字區段壓縮為單一空白
	var b strings.Builder
	pendingSpace := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}

	return b.String()
}

// Tokenize 以非字母數字邊界切分字串，保留首見順序並去除重複。
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}

	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}
