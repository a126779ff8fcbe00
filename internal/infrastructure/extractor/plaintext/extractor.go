package plaintext

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/harunao/regulation-assistant/internal/core/domain"
	"github.com/harunao/regulation-assistant/internal/infrastructure/extractor/pagesplit"
)

// Extractor turns UTF-8 text documents into page records. Form feeds mark
// page boundaries; most plain regulations are a single page.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) ExtractPages(_ context.Context, doc *domain.Document, body io.Reader) ([]domain.PageRecord, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}
	if !utf8.Valid(raw) {
		return nil, domain.WrapError(domain.ErrUnsupportedType, "extract plaintext",
			fmt.Errorf("%s is not valid UTF-8", doc.Filename))
	}

	chunks := pagesplit.SplitPages(string(raw))
	pages := make([]domain.PageRecord, 0, len(chunks))
	for i, text := range chunks {
		pages = append(pages, domain.PageRecord{
			FileName: doc.Filename,
			FilePath: doc.StoragePath,
			PageNo:   i + 1,
			Text:     text,
			Section:  pagesplit.DetectSection(text),
		})
	}
	return pages, nil
}
