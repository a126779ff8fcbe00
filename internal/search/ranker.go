package search

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/harunao/regulation-assistant/internal/core/domain"
)

// StrictPolicy controls how aggressively low-confidence results are
// suppressed. StrictCapped expresses "don't answer when unsure": a single
// result above the high threshold, at most two in the middle band, nothing
// below it.
type StrictPolicy int

const (
	StrictDisabled StrictPolicy = iota
	StrictSingle
	StrictCapped
)

type RankOptions struct {
	TopK     int
	MinScore float64
	Strict   StrictPolicy

	// AllowedFiles, when set, restricts candidates to pages whose file
	// name contains one of the given substrings.
	AllowedFiles []string

	// Strict-band thresholds; zero values take the defaults below.
	StrictHigh float64
	StrictLow  float64
}

const (
	defaultTopK       = 5
	defaultStrictHigh = 80
	defaultStrictLow  = 70
)

// Rank scores every page in the snapshot against the intent, filters by
// MinScore, sorts by descending score with enumeration order preserved on
// ties, and applies the strict policy or TopK truncation. Cancelling ctx
// truncates the set of pages scored — lower recall, never an error.
func (e *Engine) Rank(ctx context.Context, pages []domain.PageRecord, intent QueryIntent, opts RankOptions) []ScoredCandidate {
	if len(pages) == 0 {
		return nil
	}
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}
	if opts.StrictHigh <= 0 {
		opts.StrictHigh = defaultStrictHigh
	}
	if opts.StrictLow <= 0 {
		opts.StrictLow = defaultStrictLow
	}

	prep := e.prepare(intent)
	scored := make([]*ScoredCandidate, len(pages))

	workers := e.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Pages are read-only and per-page scores are independent, so the
	// snapshot fans out across workers; the slice is merged by index to
	// keep enumeration order deterministic.
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i := range pages {
		if groupCtx.Err() != nil {
			break
		}
		i := i
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			if !fileAllowed(pages[i].FileName, opts.AllowedFiles) {
				return nil
			}
			candidate := e.scorePrepared(pages[i], prep)
			scored[i] = &candidate
			return nil
		})
	}
	_ = group.Wait()

	candidates := make([]ScoredCandidate, 0, len(pages))
	for _, candidate := range scored {
		if candidate == nil || candidate.Score < opts.MinScore {
			continue
		}
		candidates = append(candidates, *candidate)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if opts.Strict != StrictDisabled {
		return applyStrictPolicy(candidates, opts)
	}
	if len(candidates) > opts.TopK {
		candidates = candidates[:opts.TopK]
	}
	return candidates
}

func applyStrictPolicy(candidates []ScoredCandidate, opts RankOptions) []ScoredCandidate {
	top := candidates[0].Score
	switch {
	case top >= opts.StrictHigh:
		return candidates[:1]
	case opts.Strict == StrictCapped && top >= opts.StrictLow:
		out := make([]ScoredCandidate, 0, 2)
		for _, candidate := range candidates {
			if candidate.Score < opts.StrictLow || len(out) == 2 {
				break
			}
			out = append(out, candidate)
		}
		return out
	default:
		return nil
	}
}

func fileAllowed(fileName string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, fragment := range allowed {
		if fragment != "" && strings.Contains(fileName, fragment) {
			return true
		}
	}
	return false
}
