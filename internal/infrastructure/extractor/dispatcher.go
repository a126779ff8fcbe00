// Package extractor routes stored documents to the extractor matching
// their MIME type.
package extractor

import (
	"context"
	"fmt"
	"io"

	"github.com/harunao/regulation-assistant/internal/core/domain"
	"github.com/harunao/regulation-assistant/internal/core/ports"
)

type Dispatcher struct {
	pdf   ports.PageExtractor
	plain ports.PageExtractor
}

func NewDispatcher(pdfExtractor, plainExtractor ports.PageExtractor) *Dispatcher {
	return &Dispatcher{pdf: pdfExtractor, plain: plainExtractor}
}

func (d *Dispatcher) ExtractPages(ctx context.Context, doc *domain.Document, body io.Reader) ([]domain.PageRecord, error) {
	switch doc.MimeType {
	case "application/pdf":
		return d.pdf.ExtractPages(ctx, doc, body)
	case "text/plain", "text/markdown":
		return d.plain.ExtractPages(ctx, doc, body)
	default:
		return nil, domain.WrapError(domain.ErrUnsupportedType, "extract pages",
			fmt.Errorf("mime type %q", doc.MimeType))
	}
}
