package search

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SynonymTable maps a canonical term to its known aliases and spelling
// variants. The table is loaded once at startup and read-only afterwards;
// lookups work in both directions (canonical -> aliases, alias -> rest).
type SynonymTable struct {
	entries []synonymEntry
}

type synonymEntry struct {
	canonical string
	related   []string
}

// Abbreviations and spelling variants common in Japanese workplace
// regulations. Mirrors the vocabulary of the indexed corpus.
var defaultSynonyms = map[string][]string{
	"有給":  {"有給休暇", "年次有給休暇", "有休", "年休"},
	"有休":  {"有給休暇", "年次有給休暇", "有給"},
	"育休":  {"育児休業", "育児休暇"},
	"産休":  {"産前産後休業", "産前産後休暇", "出産休暇"},
	"介護休": {"介護休業", "介護休暇"},
	"時短":  {"短時間勤務", "時短勤務", "時間短縮"},
	"残業":  {"時間外労働", "時間外勤務", "超過勤務"},
	"パート": {"パートタイマー", "パートタイム"},
	"給与":  {"給料", "賃金", "報酬"},
	"賞与":  {"ボーナス", "賞与金", "特別手当"},
	"申請":  {"申し込み", "届出", "届け出"},
	"締切":  {"締め切り", "期限", "締切日"},
	"退職":  {"辞職", "離職", "退社"},
	"遅刻":  {"遅参", "遅れ"},
	"早退":  {"早引け", "早帰り"},
	"欠勤":  {"欠席", "休み"},
	"振替":  {"振り替え", "代休", "振替休日"},
}

func NewSynonymTable(mapping map[string][]string) *SynonymTable {
	canonicals := make([]string, 0, len(mapping))
	for canonical := range mapping {
		canonicals = append(canonicals, canonical)
	}
	// Deterministic entry order keeps normalization and lookups reproducible.
	sort.Strings(canonicals)

	entries := make([]synonymEntry, 0, len(canonicals))
	for _, canonical := range canonicals {
		related := append([]string(nil), mapping[canonical]...)
		entries = append(entries, synonymEntry{canonical: canonical, related: related})
	}
	return &SynonymTable{entries: entries}
}

func DefaultSynonymTable() *SynonymTable {
	return NewSynonymTable(defaultSynonyms)
}

// LoadSynonymTable reads a canonical->aliases mapping from a YAML file.
// Malformed entries are a startup error, not a query-time concern.
func LoadSynonymTable(path string) (*SynonymTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonym table: %w", err)
	}

	mapping := make(map[string][]string)
	if err := yaml.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("parse synonym table: %w", err)
	}

	for canonical, related := range mapping {
		if strings.TrimSpace(canonical) == "" {
			return nil, fmt.Errorf("synonym table: empty canonical term")
		}
		if len(related) == 0 {
			return nil, fmt.Errorf("synonym table: %q has no related terms", canonical)
		}
		for _, term := range related {
			if strings.TrimSpace(term) == "" {
				return nil, fmt.Errorf("synonym table: %q has an empty related term", canonical)
			}
		}
	}
	return NewSynonymTable(mapping), nil
}

// Related aggregates every term connected to keyword: exact hits in either
// direction, plus conservative substring hits for keywords of length >= 2
// runes. The keyword itself is excluded; no match yields an empty slice.
func (t *SynonymTable) Related(keyword string) []string {
	if keyword == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var related []string
	add := func(term string) {
		if term == keyword {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		related = append(related, term)
	}

	substringOK := len([]rune(keyword)) >= 2
	for _, entry := range t.entries {
		exact := entry.canonical == keyword
		if !exact {
			for _, term := range entry.related {
				if term == keyword {
					exact = true
					break
				}
			}
		}
		if exact || (substringOK && strings.Contains(entry.canonical, keyword)) {
			add(entry.canonical)
			for _, term := range entry.related {
				add(term)
			}
		}
	}
	return related
}

func (t *SynonymTable) forEach(fn func(canonical string, related []string)) {
	for _, entry := range t.entries {
		fn(entry.canonical, entry.related)
	}
}
