package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/harunao/regulation-assistant/internal/core/domain"
	"github.com/harunao/regulation-assistant/internal/infrastructure/extractor/pagesplit"
)

// Extractor produces one page record per PDF page. Pages whose text layer
// is empty (scanned images) are skipped rather than failing the document.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) ExtractPages(ctx context.Context, doc *domain.Document, body io.Reader) ([]domain.PageRecord, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, domain.WrapError(domain.ErrUnsupportedType, "parse pdf",
			fmt.Errorf("%s: %w", doc.Filename, err))
	}

	var pages []domain.PageRecord
	for pageNo := 1; pageNo <= reader.NumPage(); pageNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(pageNo)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract pdf page %d: %w", pageNo, err)
		}
		text := pagesplit.CleanText(content)
		if text == "" {
			continue
		}

		pages = append(pages, domain.PageRecord{
			FileName: doc.Filename,
			FilePath: doc.StoragePath,
			PageNo:   pageNo,
			Text:     text,
			Section:  pagesplit.DetectSection(text),
		})
	}
	return pages, nil
}
