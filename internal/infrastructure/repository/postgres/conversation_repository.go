package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harunao/regulation-assistant/internal/core/domain"
)

// ConversationRepository keeps the short question history used for
// follow-up context. Only questions are stored; answers are reproducible
// from the corpus.
type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) AppendQuestion(ctx context.Context, entry domain.ConversationEntry) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO conversation_questions (conversation_id, question, asked_at)
VALUES ($1,$2,$3)
`, entry.ConversationID, entry.Question, entry.AskedAt)
	if err != nil {
		return fmt.Errorf("insert conversation question: %w", err)
	}
	return nil
}

// RecentQuestions returns up to limit prior questions, oldest first, so the
// analyzer weighs the latest entry last.
func (r *ConversationRepository) RecentQuestions(ctx context.Context, conversationID string, limit int) ([]domain.ConversationEntry, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT conversation_id, question, asked_at
FROM (
	SELECT conversation_id, question, asked_at
	FROM conversation_questions
	WHERE conversation_id = $1
	ORDER BY asked_at DESC
	LIMIT $2
) recent
ORDER BY asked_at ASC
`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query conversation questions: %w", err)
	}
	defer rows.Close()

	var entries []domain.ConversationEntry
	for rows.Next() {
		var entry domain.ConversationEntry
		if err := rows.Scan(&entry.ConversationID, &entry.Question, &entry.AskedAt); err != nil {
			return nil, fmt.Errorf("scan conversation question: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversation questions: %w", err)
	}
	return entries, nil
}
