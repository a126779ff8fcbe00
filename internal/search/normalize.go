package search

import (
	"strings"

	"golang.org/x/text/width"
)

// Punctuation and brackets that carry no lexical signal in regulation text.
const strippedPunctuation = "、。！？「」『』（）()[]【】・：；，．!?\"'"

// Normalize canonicalizes text for substring and similarity comparison:
// full-width Latin and digits fold to half-width, everything lowercases,
// punctuation becomes a single space and whitespace runs collapse.
//
// With expandSynonyms, every synonym of a canonical term found in the
// normalized text is appended at the end, so a later substring or fuzzy
// pass sees alias forms without re-scanning the original. Expansion is
// deliberately not idempotent; normalize each input exactly once.
func (e *Engine) Normalize(text string, expandSynonyms bool) string {
	if text == "" {
		return ""
	}

	folded := width.Fold.String(text)
	folded = strings.ToLower(folded)
	folded = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedPunctuation, r) {
			return ' '
		}
		return r
	}, folded)
	normalized := strings.Join(strings.Fields(folded), " ")

	if expandSynonyms {
		var extra strings.Builder
		e.table.forEach(func(canonical string, related []string) {
			if strings.Contains(normalized, canonical) {
				for _, synonym := range related {
					extra.WriteByte(' ')
					extra.WriteString(synonym)
				}
			}
		})
		normalized += extra.String()
	}
	return normalized
}
