package search

import (
	"fmt"
	"strings"

	"github.com/harunao/regulation-assistant/internal/core/domain"
)

// preparedQuery caches the per-query work shared by every page scored
// against the same intent: expanded query variants and the topical family.
type preparedQuery struct {
	intent   QueryIntent
	variants []string
	topic    queryTopic
}

const maxQueryVariants = 16

func (e *Engine) prepare(intent QueryIntent) *preparedQuery {
	base := intent.NormalizedQuery
	variants := []string{}
	seen := map[string]struct{}{}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || len(variants) >= maxQueryVariants {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	add(base)
	for _, keyword := range intent.Keywords {
		if !strings.Contains(base, keyword) {
			continue
		}
		for _, synonym := range intent.Synonyms[keyword] {
			add(strings.ReplaceAll(base, keyword, synonym))
		}
	}

	// A variant stripped of intent markers ("…について教えて") lets the
	// bare subject match on its own.
	if cleaned := stripIntentMarkers(base); cleaned != base {
		add(cleaned)
		for _, keyword := range intent.Keywords {
			if !strings.Contains(cleaned, keyword) {
				continue
			}
			for _, synonym := range intent.Synonyms[keyword] {
				add(strings.ReplaceAll(cleaned, keyword, synonym))
			}
		}
	}

	return &preparedQuery{
		intent:   intent,
		variants: variants,
		topic:    identifyQueryTopic(base),
	}
}

func stripIntentMarkers(query string) string {
	out := query
	for _, group := range intentPatterns {
		for _, marker := range group.markers {
			out = strings.ReplaceAll(out, marker, "")
		}
	}
	return strings.TrimSpace(out)
}

// Score computes the additive relevance of one page against one analyzed
// query. Pure function of its inputs; it cannot fail. A page with no
// textual overlap lands at the base-match floor and is dropped later by
// the ranker's threshold.
func (e *Engine) Score(page domain.PageRecord, intent QueryIntent) ScoredCandidate {
	return e.scorePrepared(page, e.prepare(intent))
}

func (e *Engine) scorePrepared(page domain.PageRecord, prep *preparedQuery) ScoredCandidate {
	w := e.weights
	textNorm := e.Normalize(page.Text, true)
	sectionNorm := e.Normalize(page.Section, false)

	matched := newTermSet()
	var reasons []string

	// 1-2. Best variant: approximate match plus literal-containment bonus.
	var base float64
	for _, variant := range prep.variants {
		score := partialRatio(variant, textNorm)
		if count := strings.Count(textNorm, variant); count > 0 {
			score += w.ExactMatch
			matched.add(variant)
			if count > 1 {
				extra := float64(count-1) * w.OccurrenceBonus
				if extra > w.OccurrenceCap {
					extra = w.OccurrenceCap
				}
				score += extra
			}
		}
		if score > base {
			base = score
		}
	}
	if matched.len() > 0 {
		reasons = append(reasons, fmt.Sprintf("contains %q", matched.terms[0]))
	}

	// 3. Distinct keywords literally present.
	var keywordBonus float64
	for _, keyword := range prep.intent.Keywords {
		if len([]rune(keyword)) < 2 {
			continue
		}
		if strings.Contains(textNorm, keyword) {
			keywordBonus += w.KeywordMatch
			if matched.add(keyword) {
				reasons = append(reasons, fmt.Sprintf("keyword %q", keyword))
			}
		}
	}

	// Synonyms found literally count as matched terms; their score effect
	// already flows through the expanded variants above.
	for _, keyword := range prep.intent.Keywords {
		for _, synonym := range prep.intent.Synonyms[keyword] {
			if strings.Contains(textNorm, strings.ToLower(synonym)) {
				matched.add(synonym)
				break
			}
		}
	}

	// 4. Section label carrying a query term outranks body text.
	var sectionBonus float64
	if sectionNorm != "" {
		for _, term := range append(append([]string{}, prep.variants...), prep.intent.Keywords...) {
			if term != "" && strings.Contains(sectionNorm, term) {
				sectionBonus = w.SectionMatch
				reasons = append(reasons, "section match")
				break
			}
		}
	}

	// 5-6. Structural alignment and article-position weighting.
	info := extractArticleInfo(page.Text)
	hasMatched := matched.len() > 0
	intentBonus, relevanceType := e.intentAlignment(prep, info, textNorm, hasMatched)
	if intentBonus > 0 && relevanceType != TypeGeneral {
		reasons = append(reasons, string(relevanceType)+" article")
	}
	articleBonus := e.articleWeighting(info, hasMatched)

	// 7. Source-file topic affinity.
	fileBonus := topicAffinity(prep.topic, page.FileName, &w)
	if fileBonus > 0 {
		reasons = append(reasons, "topic file match")
	}

	// 8. Matched keywords close together read as one statement.
	proximity := e.proximityBonus(textNorm, prep.intent.Keywords)
	if proximity > 0 {
		reasons = append(reasons, "keywords adjacent")
	}

	// 9. Heavy repetition signals boilerplate unless a procedure was asked.
	var frequencyPenalty float64
	if prep.intent.Type != TypeProcedure {
		for _, term := range matched.terms {
			if strings.Count(textNorm, strings.ToLower(term)) > w.FrequencyThreshold {
				frequencyPenalty = w.FrequencyPenalty
				break
			}
		}
	}

	// Context keywords from the conversation nudge follow-up questions.
	var contextBonus float64
	for _, keyword := range prep.intent.ContextKeywords {
		if strings.Contains(textNorm, keyword) {
			contextBonus += w.ContextKeyword
		}
	}

	total := base + keywordBonus + sectionBonus + intentBonus + articleBonus +
		fileBonus + proximity + frequencyPenalty + contextBonus
	if total < 0 {
		total = 0
	}

	reason := "partial match"
	if len(reasons) > 0 {
		if len(reasons) > 3 {
			reasons = reasons[:3]
		}
		reason = strings.Join(reasons, "; ")
	}

	return ScoredCandidate{
		Page:            page,
		Score:           total,
		MatchedTerms:    matched.terms,
		RelevanceReason: reason,
		RelevanceType:   relevanceType,
	}
}

// intentAlignment rewards pages whose structural role answers the query's
// intent and suppresses the opposite pairing (procedural boilerplate for a
// definitional question and vice versa).
func (e *Engine) intentAlignment(prep *preparedQuery, info articleInfo, textNorm string, hasMatched bool) (float64, QueryType) {
	w := e.weights
	var bonus float64
	relevanceType := TypeGeneral

	switch prep.intent.Type {
	case TypeDefinition, TypeCondition:
		switch {
		case info.role == roleLeave:
			bonus = w.IntentLeaveArticle
			relevanceType = TypeDefinition
		case info.role == roleFamilyLeave && strings.Contains(prep.intent.NormalizedQuery, "休"):
			bonus = w.IntentLeaveArticle - 10
			relevanceType = TypeDefinition
		case info.number >= 1 && info.number <= 3:
			if hasMatched {
				bonus = w.IntentWeakAligned
			} else {
				bonus = w.IntentUnmatchedLow
			}
			relevanceType = TypeDefinition
		}
		switch info.role {
		case rolePurpose, roleTarget:
			if hasMatched {
				bonus += w.IntentAligned / 2
			}
			relevanceType = TypeDefinition
		case roleProcedure:
			bonus += w.IntentMismatch
		}

	case TypeProcedure:
		switch info.role {
		case roleProcedure:
			bonus = w.IntentAligned
			relevanceType = TypeProcedure
		case rolePurpose, roleTarget:
			bonus = w.IntentMismatch / 2
		}

	case TypePeriod:
		if strings.Contains(textNorm, "期間") || strings.Contains(textNorm, "日") || strings.Contains(textNorm, "ヶ月") {
			bonus = w.PeriodContentBonus
			relevanceType = TypePeriod
		}

	case TypeBenefit:
		if strings.Contains(textNorm, "支給") || strings.Contains(textNorm, "手当") || strings.Contains(textNorm, "給付") {
			bonus = w.PeriodContentBonus
			relevanceType = TypeBenefit
		}
	}

	return bonus, relevanceType
}

// articleWeighting favors the low-numbered foundational articles only when
// they actually carry matched content, and de-prioritizes the appendix
// range at the back of a regulation.
func (e *Engine) articleWeighting(info articleInfo, hasMatched bool) float64 {
	w := e.weights
	if info.number == 0 {
		return 0
	}
	if !hasMatched {
		if info.number == 1 {
			return w.ArticleUnmatched
		}
		return 0
	}
	switch {
	case info.number == 1 && info.role == rolePurpose:
		return w.ArticleEarly
	case info.number == 2:
		return w.ArticleDefinition
	case info.number <= 5:
		return w.ArticleEarly
	case info.number >= 30 && info.number <= 35 &&
		(info.role == roleLeave || info.role == roleFamilyLeave):
		return w.ArticleLeaveBand
	case info.number > 50:
		return w.ArticleLatePenalty
	}
	return 0
}

// proximityBonus pays out when at least two query keywords land within the
// proximity window, scaled down linearly with their distance.
func (e *Engine) proximityBonus(textNorm string, keywords []string) float64 {
	w := e.weights
	if len(keywords) < 2 || w.ProximityWindow <= 0 {
		return 0
	}

	var positions []int
	for i, keyword := range keywords {
		if i >= 3 {
			break
		}
		idx := strings.Index(textNorm, keyword)
		if idx < 0 {
			continue
		}
		positions = append(positions, len([]rune(textNorm[:idx])))
	}
	if len(positions) < 2 {
		return 0
	}

	minDistance := -1
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			d := positions[i] - positions[j]
			if d < 0 {
				d = -d
			}
			if minDistance < 0 || d < minDistance {
				minDistance = d
			}
		}
	}

	if minDistance > w.ProximityWindow {
		return 0
	}
	bonus := w.ProximityMax - float64(minDistance)/float64(w.ProximityWindow)*(w.ProximityMax/2)
	if bonus < 0 {
		return 0
	}
	return bonus
}

// termSet preserves discovery order while deduplicating.
type termSet struct {
	terms []string
	seen  map[string]struct{}
}

func newTermSet() *termSet {
	return &termSet{seen: make(map[string]struct{})}
}

func (s *termSet) add(term string) bool {
	if term == "" {
		return false
	}
	if _, dup := s.seen[term]; dup {
		return false
	}
	s.seen[term] = struct{}{}
	s.terms = append(s.terms, term)
	return true
}

func (s *termSet) len() int { return len(s.terms) }
