package search

import (
	"regexp"
	"strings"
)

// Keyword shapes worth matching: runs of two or more ideographs or katakana,
// Latin runs and digit runs, in source order.
var keywordPattern = regexp.MustCompile(`[\p{Han}ー]{2,}|[ァ-ヶー]{2,}|[a-zA-Z]+|[0-9]+`)

// Function words that fit the keyword shapes but carry no search signal.
// Hiragana fragments (する, こと, …) need no entry: the pattern above never
// matches hiragana.
var stopwords = map[string]struct{}{
	"場合": {}, "上記": {}, "下記": {}, "以下": {},
}

// Intent pattern groups in priority order: a query matching several groups
// is classified by the first one that fires.
var intentPatterns = []struct {
	queryType QueryType
	markers   []string
}{
	{TypeCondition, []string{"条件", "要件", "資格", "対象", "できる", "場合"}},
	{TypeProcedure, []string{"手続き", "手続", "申請", "方法", "やり方", "どうやって", "どのように"}},
	{TypeDefinition, []string{"とは", "について", "教えて", "説明", "意味", "定義"}},
	{TypePeriod, []string{"期間", "いつまで", "何日", "何ヶ月", "何年", "どのくらい", "期限"}},
	{TypeBenefit, []string{"給付", "手当", "給与", "お金", "支給", "いくら", "金額"}},
}

const (
	maxContextEntries         = 3
	maxKeywordsPerContextLine = 2
)

// Analyze derives keywords, synonym sets, an intent classification and
// context keywords from a raw query. It is total: unparseable input yields
// an intent with empty keyword sets and general type.
func (e *Engine) Analyze(query string, context []string) QueryIntent {
	normalized := e.Normalize(query, false)
	keywords := extractKeywords(normalized)

	synonyms := make(map[string][]string, len(keywords))
	for _, keyword := range keywords {
		synonyms[keyword] = e.table.Related(keyword)
	}

	return QueryIntent{
		OriginalQuery:   query,
		NormalizedQuery: normalized,
		Keywords:        keywords,
		Synonyms:        synonyms,
		Type:            classifyQuery(normalized),
		ContextKeywords: e.contextKeywords(context),
	}
}

func extractKeywords(normalized string) []string {
	matches := keywordPattern.FindAllString(normalized, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	keywords := make([]string, 0, len(matches))
	for _, match := range matches {
		if _, stop := stopwords[match]; stop {
			continue
		}
		if _, dup := seen[match]; dup {
			continue
		}
		seen[match] = struct{}{}
		keywords = append(keywords, match)
	}
	return keywords
}

func classifyQuery(normalized string) QueryType {
	for _, group := range intentPatterns {
		for _, marker := range group.markers {
			if strings.Contains(normalized, marker) {
				return group.queryType
			}
		}
	}
	return TypeGeneral
}

// contextKeywords pulls at most two keywords from each of the last three
// prior queries, newest last, deduplicated.
func (e *Engine) contextKeywords(context []string) []string {
	if len(context) == 0 {
		return nil
	}
	if len(context) > maxContextEntries {
		context = context[len(context)-maxContextEntries:]
	}

	seen := make(map[string]struct{})
	var out []string
	for _, entry := range context {
		keywords := extractKeywords(e.Normalize(entry, false))
		if len(keywords) > maxKeywordsPerContextLine {
			keywords = keywords[:maxKeywordsPerContextLine]
		}
		for _, keyword := range keywords {
			if _, dup := seen[keyword]; dup {
				continue
			}
			seen[keyword] = struct{}{}
			out = append(out, keyword)
		}
	}
	return out
}
