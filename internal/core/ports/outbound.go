package ports

import (
	"context"
	"io"

	"github.com/harunao/regulation-assistant/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SetPageCount(ctx context.Context, id string, pageCount int) error
}

// PageStore persists extracted pages and serves the read snapshot the
// search engine ranks over.
type PageStore interface {
	ReplacePages(ctx context.Context, documentID string, pages []domain.PageRecord) error
	ListPages(ctx context.Context) ([]domain.PageRecord, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// PageExtractor turns a stored document into page records.
type PageExtractor interface {
	ExtractPages(ctx context.Context, doc *domain.Document, body io.Reader) ([]domain.PageRecord, error)
}

// ConversationStore keeps recent questions per conversation for follow-up
// context.
type ConversationStore interface {
	AppendQuestion(ctx context.Context, entry domain.ConversationEntry) error
	RecentQuestions(ctx context.Context, conversationID string, limit int) ([]domain.ConversationEntry, error)
}
