package ports

import (
	"context"
	"io"

	"github.com/harunao/regulation-assistant/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// QuestionAnswerer is the inbound contract for natural-language Q&A over
// the indexed regulation corpus.
type QuestionAnswerer interface {
	Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous page extraction.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}
