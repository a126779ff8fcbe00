package search

// Weights names every scoring signal so behavioral variants are presets
// of one scorer instead of parallel code paths. All bonuses are additive;
// penalty fields hold negative values.
type Weights struct {
	// Literal containment of an expanded query variant.
	ExactMatch      float64
	OccurrenceBonus float64 // per extra occurrence beyond the first
	OccurrenceCap   float64

	// Per distinct query keyword literally present in the page text.
	KeywordMatch float64
	// Per context keyword literally present (follow-up questions).
	ContextKeyword float64

	// Query term appearing in the page's section label.
	SectionMatch float64

	// Intent/structure alignment between query type and article role.
	IntentLeaveArticle float64 // leave articles answering definition/condition
	IntentAligned      float64 // role matches the query type
	IntentWeakAligned  float64 // low-numbered article with matched content
	IntentUnmatchedLow float64 // low-numbered article without matched content
	IntentMismatch     float64 // negative; role contradicts the query type
	PeriodContentBonus float64 // period queries against duration-bearing text

	// Article-position weighting.
	ArticleDefinition  float64 // article 2, definitions/target
	ArticleEarly       float64 // articles <= 5
	ArticleLeaveBand   float64 // leave-section band (30-35) on leave articles
	ArticleLatePenalty float64 // negative; articles beyond 50
	ArticleUnmatched   float64 // negative; article 1 without matched content

	// Source-file topic affinity.
	TopicAffinity float64
	TopicConflict float64 // negative

	// Matched keywords within ProximityWindow runes of each other.
	ProximityMax    float64
	ProximityWindow int

	// Abnormally frequent matched term outside procedure queries.
	FrequencyPenalty   float64 // negative
	FrequencyThreshold int
}

// DefaultWeights is the consolidated preset: one coherent set in the middle
// of the ranges the tuning history converged on.
func DefaultWeights() Weights {
	return Weights{
		ExactMatch:      50,
		OccurrenceBonus: 5,
		OccurrenceCap:   30,

		KeywordMatch:   10,
		ContextKeyword: 5,

		SectionMatch: 15,

		IntentLeaveArticle: 60,
		IntentAligned:      40,
		IntentWeakAligned:  40,
		IntentUnmatchedLow: 5,
		IntentMismatch:     -20,
		PeriodContentBonus: 30,

		ArticleDefinition:  15,
		ArticleEarly:       10,
		ArticleLeaveBand:   20,
		ArticleLatePenalty: -10,
		ArticleUnmatched:   -20,

		TopicAffinity: 30,
		TopicConflict: -30,

		ProximityMax:    20,
		ProximityWindow: 50,

		FrequencyPenalty:   -10,
		FrequencyThreshold: 15,
	}
}

// ConservativeWeights favors literal containment over heuristics; paired
// with the strict ranking policy for restricted corpora where a wrong
// answer is worse than no answer.
func ConservativeWeights() Weights {
	w := DefaultWeights()
	w.ExactMatch = 30
	w.IntentLeaveArticle = 40
	w.IntentAligned = 25
	w.IntentWeakAligned = 20
	w.TopicAffinity = 20
	w.TopicConflict = -20
	return w
}

// WeightsPreset resolves a preset by name; unknown names fall back to the
// default preset.
func WeightsPreset(name string) Weights {
	switch name {
	case "conservative":
		return ConservativeWeights()
	default:
		return DefaultWeights()
	}
}
