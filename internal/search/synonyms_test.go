package search

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelatedBidirectional(t *testing.T) {
	table := DefaultSynonymTable()

	forward := table.Related("有給")
	if !containsTerm(forward, "有給休暇") || !containsTerm(forward, "年休") {
		t.Fatalf("Related(有給) missing aliases: %v", forward)
	}
	if containsTerm(forward, "有給") {
		t.Fatalf("Related must exclude the keyword itself: %v", forward)
	}

	backward := table.Related("有給休暇")
	if !containsTerm(backward, "有給") {
		t.Fatalf("reverse lookup failed: %v", backward)
	}
}

func TestRelatedUnknownKeyword(t *testing.T) {
	table := DefaultSynonymTable()
	if got := table.Related("存在しない語"); len(got) != 0 {
		t.Fatalf("expected no relations, got %v", got)
	}
	if got := table.Related(""); got != nil {
		t.Fatalf("expected nil for empty keyword, got %v", got)
	}
}

func TestRelatedDeterministicOrder(t *testing.T) {
	table := DefaultSynonymTable()
	first := table.Related("有給")
	for i := 0; i < 10; i++ {
		again := table.Related("有給")
		if len(again) != len(first) {
			t.Fatalf("lookup order changed: %v vs %v", first, again)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("lookup order changed at %d: %v vs %v", j, first, again)
			}
		}
	}
}

func TestLoadSynonymTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	content := "有給:\n  - 有給休暇\n  - 年休\n残業:\n  - 時間外労働\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := LoadSynonymTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := table.Related("年休"); !containsTerm(got, "有給") {
		t.Fatalf("loaded table missing relation: %v", got)
	}
}

func TestLoadSynonymTableRejectsEmptyAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	if err := os.WriteFile(path, []byte("有給: []\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadSynonymTable(path); err == nil {
		t.Fatal("expected validation error for empty alias list")
	}
}

func TestLoadSynonymTableMissingFile(t *testing.T) {
	if _, err := LoadSynonymTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func containsTerm(terms []string, want string) bool {
	for _, term := range terms {
		if term == want {
			return true
		}
	}
	return false
}
