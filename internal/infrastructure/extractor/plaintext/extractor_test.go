package plaintext

import (
	"context"
	"strings"
	"testing"

	"github.com/harunao/regulation-assistant/internal/core/domain"
)

func testDoc() *domain.Document {
	return &domain.Document{
		ID:          "doc-1",
		Filename:    "就業規則.txt",
		MimeType:    "text/plain",
		StoragePath: "documents/doc-1/rules.txt",
	}
}

func TestExtractPagesSingle(t *testing.T) {
	e := NewExtractor()

	pages, err := e.ExtractPages(context.Background(), testDoc(),
		strings.NewReader("第1条（目的）この規則は労働条件を定める。"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	page := pages[0]
	if page.FileName != "就業規則.txt" || page.PageNo != 1 {
		t.Fatalf("unexpected page identity: %+v", page)
	}
	if page.Section != "第1条" {
		t.Fatalf("section = %q, want 第1条", page.Section)
	}
}

func TestExtractPagesFormFeedBoundaries(t *testing.T) {
	e := NewExtractor()

	pages, err := e.ExtractPages(context.Background(), testDoc(),
		strings.NewReader("第1条 目的\f第2条 適用範囲"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(pages) != 2 || pages[1].PageNo != 2 {
		t.Fatalf("expected 2 numbered pages, got %+v", pages)
	}
}

func TestExtractPagesRejectsBinary(t *testing.T) {
	e := NewExtractor()

	_, err := e.ExtractPages(context.Background(), testDoc(),
		strings.NewReader("\xff\xfe\x00broken"))
	if !domain.IsKind(err, domain.ErrUnsupportedType) {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}

func TestExtractPagesEmptyInput(t *testing.T) {
	e := NewExtractor()

	pages, err := e.ExtractPages(context.Background(), testDoc(), strings.NewReader("   \n\n"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("expected no pages from blank input, got %d", len(pages))
	}
}
