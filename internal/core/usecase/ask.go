package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harunao/regulation-assistant/internal/core/domain"
	"github.com/harunao/regulation-assistant/internal/core/ports"
	"github.com/harunao/regulation-assistant/internal/search"
)

const (
	defaultAskTopK     = 5
	defaultAskMinScore = 30

	historyLimit = 3

	confidenceHighScore   = 100
	confidenceMediumScore = 70

	snippetWindow    = 100
	snippetMaxLength = 300
)

type AskUseCase struct {
	pages    ports.PageStore
	history  ports.ConversationStore
	engine   *search.Engine
	defaults AskDefaults
}

// AskDefaults overrides the built-in per-question defaults. Zero fields keep
// the built-ins.
type AskDefaults struct {
	TopK       int
	MinScore   float64
	StrictHigh float64
	StrictLow  float64
}

func NewAskUseCase(pages ports.PageStore, history ports.ConversationStore, engine *search.Engine) *AskUseCase {
	return NewAskUseCaseWithDefaults(pages, history, engine, AskDefaults{})
}

func NewAskUseCaseWithDefaults(
	pages ports.PageStore,
	history ports.ConversationStore,
	engine *search.Engine,
	defaults AskDefaults,
) *AskUseCase {
	if defaults.TopK <= 0 {
		defaults.TopK = defaultAskTopK
	}
	if defaults.MinScore <= 0 {
		defaults.MinScore = defaultAskMinScore
	}
	return &AskUseCase{
		pages:    pages,
		history:  history,
		engine:   engine,
		defaults: defaults,
	}
}

// Ask runs the full question pipeline: analyze with conversation context,
// rank the page snapshot, and compose either a sourced excerpt or a
// no-answer response with reformulation suggestions.
func (uc *AskUseCase) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", errors.New("empty question"))
	}
	if opts.TopK <= 0 {
		opts.TopK = uc.defaults.TopK
	}
	if opts.MinScore <= 0 {
		opts.MinScore = uc.defaults.MinScore
	}

	intent := uc.engine.Analyze(question, uc.priorQuestions(ctx, opts.ConversationID))

	pages, err := uc.pages.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	strict := search.StrictDisabled
	if opts.Strict {
		strict = search.StrictCapped
	}
	candidates := uc.engine.Rank(ctx, pages, intent, search.RankOptions{
		TopK:         opts.TopK,
		MinScore:     opts.MinScore,
		Strict:       strict,
		StrictHigh:   uc.defaults.StrictHigh,
		StrictLow:    uc.defaults.StrictLow,
		AllowedFiles: opts.Files,
	})

	uc.rememberQuestion(ctx, opts.ConversationID, question)

	if len(candidates) == 0 {
		return uc.noAnswer(intent), nil
	}
	return uc.compose(intent, candidates), nil
}

// priorQuestions loads recent conversation history. History is an optional
// quality signal; a failing store degrades to a context-free question.
func (uc *AskUseCase) priorQuestions(ctx context.Context, conversationID string) []string {
	if uc.history == nil || conversationID == "" {
		return nil
	}
	entries, err := uc.history.RecentQuestions(ctx, conversationID, historyLimit)
	if err != nil {
		return nil
	}
	questions := make([]string, 0, len(entries))
	for _, entry := range entries {
		questions = append(questions, entry.Question)
	}
	return questions
}

func (uc *AskUseCase) rememberQuestion(ctx context.Context, conversationID, question string) {
	if uc.history == nil || conversationID == "" {
		return
	}
	_ = uc.history.AppendQuestion(ctx, domain.ConversationEntry{
		ConversationID: conversationID,
		Question:       question,
		AskedAt:        time.Now().UTC(),
	})
}

func (uc *AskUseCase) compose(intent search.QueryIntent, candidates []search.ScoredCandidate) *domain.Answer {
	top := candidates[0]

	terms := top.MatchedTerms
	if len(terms) == 0 {
		terms = intent.Keywords
	}
	snippet := uc.engine.MakeSnippet(top.Page.Text, terms, search.SnippetOptions{
		Window:    snippetWindow,
		MaxLength: snippetMaxLength,
		Highlight: true,
	})

	answer := &domain.Answer{
		Found:      true,
		Intent:     string(intent.Type),
		Text:       snippet.Excerpt,
		Confidence: confidenceFor(top.Score),
		Source:     sourceRef(top),
	}
	for _, candidate := range candidates {
		ref := sourceRef(candidate)
		answer.Alternatives = append(answer.Alternatives, *ref)
	}
	return answer
}

func (uc *AskUseCase) noAnswer(intent search.QueryIntent) *domain.Answer {
	return &domain.Answer{
		Found:       false,
		Intent:      string(intent.Type),
		Text:        "該当する規定が見つかりませんでした。表現を変えてもう一度お試しください。",
		Confidence:  domain.ConfidenceLow,
		Suggestions: suggestionsFor(intent),
	}
}

func confidenceFor(score float64) domain.Confidence {
	switch {
	case score >= confidenceHighScore:
		return domain.ConfidenceHigh
	case score >= confidenceMediumScore:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func sourceRef(candidate search.ScoredCandidate) *domain.SourceRef {
	return &domain.SourceRef{
		File:          candidate.Page.FileName,
		Page:          candidate.Page.PageNo,
		Section:       candidate.Page.Section,
		Score:         candidate.Score,
		RelevanceType: string(candidate.RelevanceType),
	}
}

// suggestionsFor proposes alternative phrasings: known aliases of the query
// keywords first, then a hint tied to the question type.
func suggestionsFor(intent search.QueryIntent) []string {
	const maxSuggestions = 5

	var out []string
	seen := map[string]bool{}
	for _, keyword := range intent.Keywords {
		for _, synonym := range intent.Synonyms[keyword] {
			if len(out) >= maxSuggestions {
				break
			}
			if seen[synonym] {
				continue
			}
			seen[synonym] = true
			out = append(out, synonym)
		}
	}

	if hint := typeHint(intent.Type); hint != "" {
		out = append(out, hint)
	}
	return out
}

func typeHint(queryType search.QueryType) string {
	switch queryType {
	case search.TypeProcedure:
		return "申請書や届出の名称で検索すると見つかることがあります"
	case search.TypePeriod:
		return "「期間」「期限」などの語を含めてお試しください"
	case search.TypeBenefit:
		return "手当の正式名称で検索すると見つかることがあります"
	default:
		return ""
	}
}
