package domain

import "time"

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SourceRef identifies where an answer excerpt came from.
type SourceRef struct {
	File          string  `json:"file"`
	Page          int     `json:"page"`
	Section       string  `json:"section,omitempty"`
	Score         float64 `json:"score"`
	RelevanceType string  `json:"relevance_type,omitempty"`
}

// Answer is the user-facing result of one question: the highlighted excerpt
// with provenance, or a no-answer message with search suggestions.
type Answer struct {
	Found        bool        `json:"found"`
	Intent       string      `json:"intent,omitempty"`
	Text         string      `json:"answer"`
	Confidence   Confidence  `json:"confidence,omitempty"`
	Source       *SourceRef  `json:"source,omitempty"`
	Alternatives []SourceRef `json:"all_results,omitempty"`
	Suggestions  []string    `json:"suggestions,omitempty"`
}

// AskOptions tunes one question: result budget, strict no-guess mode and
// an optional restriction to specific source files.
type AskOptions struct {
	ConversationID string
	TopK           int
	MinScore       float64
	Strict         bool
	Files          []string
}

// ConversationEntry is one prior question in a conversation. Recent entries
// feed context keyword extraction for follow-up questions.
type ConversationEntry struct {
	ConversationID string    `json:"conversation_id"`
	Question       string    `json:"question"`
	AskedAt        time.Time `json:"asked_at"`
}
