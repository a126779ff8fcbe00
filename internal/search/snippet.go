package search

import (
	"sort"
	"strings"
)

type SnippetOptions struct {
	// Window is the number of runes taken on each side of the first match.
	Window int
	// MaxLength caps the excerpt in runes, ellipsis excluded.
	MaxLength int
	Highlight bool
}

const (
	defaultSnippetWindow = 100
	defaultSnippetMax    = 300

	// How far a window edge may move to land on a sentence boundary.
	sentenceSlack = 50
	// A second occurrence this far past the primary window gets its own
	// half-size window instead of stretching the first.
	secondaryGap = 50
	// Windows closer than this merge into one span.
	mergeGap = 10

	ellipsis = "…"
)

var sentenceEnders = map[rune]bool{'。': true, '．': true, '！': true, '？': true, '\n': true}

// MakeSnippet extracts an excerpt of text centered on the first occurrence
// of the anchor term, snapped to sentence boundaries where one is close
// enough. Terms are tried in the order given: the first term that occurs in
// the text anchors the window, so a fallback term cannot displace the
// primary one. When a later occurrence of the anchor term falls well past
// the first window a second, smaller window is added and the two are joined
// with an ellipsis. Offsets are rune indexes into the original text.
func (e *Engine) MakeSnippet(text string, terms []string, opts SnippetOptions) Snippet {
	if opts.Window <= 0 {
		opts.Window = defaultSnippetWindow
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = defaultSnippetMax
	}

	runes := []rune(text)
	var hits []int
	for _, term := range terms {
		if hits = termOccurrences(runes, term); len(hits) > 0 {
			break
		}
	}
	if len(hits) == 0 {
		return headSnippet(runes, opts)
	}

	spans := buildSpans(runes, hits, opts.Window)
	excerpt, start, end := assembleExcerpt(runes, spans, opts.MaxLength)
	if opts.Highlight {
		excerpt = HighlightTerms(excerpt, terms)
	}
	return Snippet{Excerpt: excerpt, Start: start, End: end}
}

func headSnippet(runes []rune, opts SnippetOptions) Snippet {
	end := len(runes)
	excerpt := string(runes)
	if end > opts.MaxLength {
		end = opts.MaxLength
		excerpt = string(runes[:end]) + ellipsis
	}
	return Snippet{Excerpt: excerpt, Start: 0, End: end}
}

// termOccurrences returns the rune offsets of every case-insensitive
// occurrence of one term, ascending.
func termOccurrences(runes []rune, term string) []int {
	needle := []rune(strings.ToLower(term))
	if len(runes) == 0 || len(needle) == 0 {
		return nil
	}
	lowerRunes := []rune(strings.ToLower(string(runes)))
	var positions []int
	for i := 0; i+len(needle) <= len(lowerRunes); i++ {
		if string(lowerRunes[i:i+len(needle)]) == string(needle) {
			positions = append(positions, i)
		}
	}
	return positions
}

type snippetSpan struct{ start, end int }

func buildSpans(runes []rune, hits []int, window int) []snippetSpan {
	primary := windowAround(runes, hits[0], window)
	spans := []snippetSpan{primary}

	for _, hit := range hits[1:] {
		if hit <= primary.end+secondaryGap {
			continue
		}
		secondary := windowAround(runes, hit, window/2)
		spans = append(spans, secondary)
		break
	}

	if len(spans) == 2 && spans[1].start-spans[0].end <= mergeGap {
		spans = []snippetSpan{{start: spans[0].start, end: spans[1].end}}
	}
	return spans
}

// windowAround takes window runes on each side of pos and snaps each edge
// to the nearest sentence boundary within the slack.
func windowAround(runes []rune, pos, window int) snippetSpan {
	start := pos - window
	if start < 0 {
		start = 0
	}
	end := pos + window
	if end > len(runes) {
		end = len(runes)
	}

	// Walk back from the start edge: an ender just before a boundary
	// means the sentence begins right after it.
	for back := start; back > start-sentenceSlack && back > 0; back-- {
		if sentenceEnders[runes[back-1]] {
			start = back
			break
		}
	}
	for fwd := end; fwd < end+sentenceSlack && fwd < len(runes); fwd++ {
		if sentenceEnders[runes[fwd]] {
			end = fwd + 1
			break
		}
	}
	if start > pos {
		start = pos
	}
	return snippetSpan{start: start, end: end}
}

// assembleExcerpt joins spans under the rune budget, trimming the final span
// and appending an ellipsis when it would overflow.
func assembleExcerpt(runes []rune, spans []snippetSpan, maxLength int) (string, int, int) {
	var parts []string
	budget := maxLength
	start := spans[0].start
	end := spans[0].end
	truncated := false

	for i, span := range spans {
		if budget <= 0 {
			break
		}
		length := span.end - span.start
		if length > budget {
			span.end = span.start + budget
			length = budget
			truncated = true
		}
		parts = append(parts, string(runes[span.start:span.end]))
		budget -= length
		end = span.end
		if i > 0 && span.end < spans[i].end {
			break
		}
	}

	excerpt := strings.Join(parts, " "+ellipsis+" ")
	if start > 0 {
		excerpt = ellipsis + excerpt
	}
	if truncated || end < len(runes) {
		excerpt += ellipsis
	}
	return excerpt, start, end
}

type lockedRegion struct{ start, end int }

// HighlightTerms wraps each occurrence of the terms in **…** markers,
// longest term first so shorter terms cannot split a longer match. Spans
// already wrapped are left alone, which makes the function idempotent.
func HighlightTerms(text string, terms []string) string {
	ordered := make([]string, 0, len(terms))
	seen := map[string]bool{}
	for _, term := range terms {
		t := strings.TrimSpace(term)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		ordered = append(ordered, t)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len([]rune(ordered[i])) > len([]rune(ordered[j]))
	})

	runes := []rune(text)
	locked := existingMarkerSpans(runes)

	for _, term := range ordered {
		needle := []rune(strings.ToLower(term))
		lowerRunes := []rune(strings.ToLower(string(runes)))
		if len(lowerRunes) != len(runes) {
			// Case folding changed rune counts; match on the original.
			lowerRunes = runes
		}
		for i := 0; i+len(needle) <= len(lowerRunes); {
			if string(lowerRunes[i:i+len(needle)]) != string(needle) || overlapsLocked(locked, i, i+len(needle)) {
				i++
				continue
			}
			var out []rune
			out = append(out, runes[:i]...)
			out = append(out, []rune("**")...)
			out = append(out, runes[i:i+len(needle)]...)
			out = append(out, []rune("**")...)
			out = append(out, runes[i+len(needle):]...)
			runes = out
			locked = shiftLocked(locked, i, 4)
			locked = append(locked, lockedRegion{start: i, end: i + len(needle) + 4})
			lowerRunes = []rune(strings.ToLower(string(runes)))
			if len(lowerRunes) != len(runes) {
				lowerRunes = runes
			}
			i += len(needle) + 4
		}
	}
	return string(runes)
}

// existingMarkerSpans records **…** spans already present in the text so a
// second highlighting pass leaves them untouched.
func existingMarkerSpans(runes []rune) []lockedRegion {
	var spans []lockedRegion
	open := -1
	for i := 0; i+1 < len(runes); i++ {
		if runes[i] != '*' || runes[i+1] != '*' {
			continue
		}
		if open < 0 {
			open = i
		} else {
			spans = append(spans, lockedRegion{start: open, end: i + 2})
			open = -1
		}
		i++
	}
	return spans
}

func overlapsLocked(locked []lockedRegion, start, end int) bool {
	for _, region := range locked {
		if start < region.end && end > region.start {
			return true
		}
	}
	return false
}

func shiftLocked(locked []lockedRegion, from, by int) []lockedRegion {
	for i := range locked {
		if locked[i].start >= from {
			locked[i].start += by
			locked[i].end += by
		}
	}
	return locked
}
