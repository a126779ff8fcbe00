// Package search implements the lexical relevance ranking engine behind the
// regulation assistant: query analysis, multi-signal candidate scoring,
// ranking with thresholds and strict-mode truncation, and boundary-aware
// snippet extraction. The engine is pure and deterministic; it performs no
// I/O and never fails — degenerate input produces empty results.
package search

import (
	"github.com/harunao/regulation-assistant/internal/core/domain"
)

type QueryType string

const (
	TypeDefinition QueryType = "definition"
	TypeCondition  QueryType = "condition"
	TypeProcedure  QueryType = "procedure"
	TypePeriod     QueryType = "period"
	TypeBenefit    QueryType = "benefit"
	TypeGeneral    QueryType = "general"
)

// QueryIntent is the analyzed form of one user question. Produced by
// Engine.Analyze, consumed by the scorer; never persisted.
type QueryIntent struct {
	OriginalQuery   string
	NormalizedQuery string
	Keywords        []string
	Synonyms        map[string][]string
	Type            QueryType
	ContextKeywords []string
}

// ScoredCandidate is one page scored against one query. RelevanceReason and
// RelevanceType explain which signals fired; they are display-only and take
// no part in ordering.
type ScoredCandidate struct {
	Page            domain.PageRecord
	Score           float64
	MatchedTerms    []string
	RelevanceReason string
	RelevanceType   QueryType
}

// Snippet is a bounded excerpt of page text surrounding a match. Start and
// End are rune offsets into the source text.
type Snippet struct {
	Excerpt string
	Start   int
	End     int
}

// Config assembles an Engine. Zero values select the built-in synonym
// table, the default weight preset and a scoring fan-out of one worker
// per logical CPU.
type Config struct {
	Synonyms *SynonymTable
	Weights  *Weights
	Workers  int
}

// Engine ties the synonym table and scoring weights together. It holds no
// mutable state: one engine may serve concurrent queries.
type Engine struct {
	table   *SynonymTable
	weights Weights
	workers int
}

func NewEngine(cfg Config) *Engine {
	table := cfg.Synonyms
	if table == nil {
		table = DefaultSynonymTable()
	}
	weights := DefaultWeights()
	if cfg.Weights != nil {
		weights = *cfg.Weights
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 0 // resolved per Rank call
	}
	return &Engine{
		table:   table,
		weights: weights,
		workers: workers,
	}
}
