package search

import (
	"regexp"
	"strconv"
	"strings"
)

// articleRole is the detected structural role of a page, derived from its
// leading article marker and topic keywords.
type articleRole int

const (
	roleGeneral articleRole = iota
	rolePurpose
	roleTarget
	roleLeave       // annual paid leave articles
	roleFamilyLeave // childcare / nursing-care leave articles
	roleProcedure
	rolePeriod
)

type articleInfo struct {
	number int // 0 when no article marker was found
	role   articleRole
}

var articleNumberPattern = regexp.MustCompile(`第([0-9]{1,3}|[一二三四五六七八九十]{1,3})条`)

const (
	articleScanRunes = 1000
	roleScanRunes    = 200
)

// extractArticleInfo reads the first article marker (第N条, Arabic or kanji
// numerals) out of the leading portion of the page and classifies the
// page's structural role from its opening topic keywords.
func extractArticleInfo(text string) articleInfo {
	head := headRunes(text, articleScanRunes)

	info := articleInfo{role: roleGeneral}
	if m := articleNumberPattern.FindStringSubmatch(head); m != nil {
		info.number = parseArticleNumber(m[1])
	}

	preview := headRunes(head, roleScanRunes)
	switch {
	case strings.Contains(preview, "目的"):
		info.role = rolePurpose
	case strings.Contains(preview, "年次有給休暇"), strings.Contains(preview, "有給休暇"):
		info.role = roleLeave
	case strings.Contains(preview, "育児休業"), strings.Contains(preview, "介護休業"):
		info.role = roleFamilyLeave
	case strings.Contains(preview, "対象"), strings.Contains(preview, "できる"):
		info.role = roleTarget
	case strings.Contains(preview, "手続"), strings.Contains(preview, "申請"), strings.Contains(preview, "申出"):
		info.role = roleProcedure
	case strings.Contains(preview, "期間"):
		info.role = rolePeriod
	}
	return info
}

func parseArticleNumber(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return kanjiNumber(s)
}

var kanjiDigits = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

// kanjiNumber converts composite kanji numerals up to 99 (十, 二十, 三十五 …).
// Unrecognized input yields 0.
func kanjiNumber(s string) int {
	tens, ones := 0, 0
	sawTen := false
	for _, r := range s {
		switch {
		case r == '十':
			sawTen = true
			if ones > 0 {
				tens = ones
				ones = 0
			} else {
				tens = 1
			}
		case kanjiDigits[r] != 0:
			ones = kanjiDigits[r]
		default:
			return 0
		}
	}
	if sawTen {
		return tens*10 + ones
	}
	return ones
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
