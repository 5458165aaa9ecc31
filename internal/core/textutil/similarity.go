package textutil

import "strings"

// 包含關係視為強訊號，給固定高分（複合詞常見，如「새우」與「새우살」）
const containmentScore = 0.9

// Score 計算兩個名稱的綜合相似度，回傳 [0,1]。
// 取包含關係、token Jaccard、正規化編輯距離三者的最大值：
// 包含關係便宜地處理複合詞，Jaccard 處理多詞語序不同，
// 編輯距離處理拼寫變體。取最大值而非加權平均，
// 避免單一維度的強訊號被其他維度稀釋。
func Score(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	best := 0.0
	if contains(na, nb) {
		best = containmentScore
	}
	if j := tokenJaccard(na, nb); j > best {
		best = j
	}
	if e := editSimilarity(na, nb); e > best {
		best = e
	}
	return best
}

// contains 判斷其中一方是否包含另一方
func contains(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// tokenJaccard 計算 token 集合的 Jaccard 相似度
func tokenJaccard(a, b string) float64 {
	ta := Tokenize(a)
	tb := Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}

	intersection := 0
	for _, t := range tb {
		if _, ok := set[t]; ok {
			intersection++
		}
	}

	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// editSimilarity 以正規化編輯距離計算相似度：1 - lev/maxLen
func editSimilarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein(ra, rb)
	return 1 - float64(dist)/float64(maxLen)
}

// levenshtein 經典動態規劃編輯距離，僅保留兩列滾動陣列
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, minInt(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
