package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harunao/regulation-assistant/internal/core/domain"
)

// PageRepository serves the page snapshot the search engine ranks over.
// Reprocessing a document swaps its pages atomically so concurrent queries
// see either the old set or the new set, never a mix.
type PageRepository struct {
	db *sql.DB
}

func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{db: db}
}

func (r *PageRepository) ReplacePages(ctx context.Context, documentID string, pages []domain.PageRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pages tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete old pages: %w", err)
	}

	for _, page := range pages {
		_, err := tx.ExecContext(ctx, `
INSERT INTO pages (document_id, file_name, file_path, page_no, text, section)
VALUES ($1,$2,$3,$4,$5,$6)
`, documentID, page.FileName, page.FilePath, page.PageNo, page.Text, page.Section)
		if err != nil {
			return fmt.Errorf("insert page %d: %w", page.PageNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pages tx: %w", err)
	}
	return nil
}

func (r *PageRepository) ListPages(ctx context.Context) ([]domain.PageRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT file_name, file_path, page_no, text, section
FROM pages
ORDER BY file_name, page_no
`)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer rows.Close()

	var pages []domain.PageRecord
	for rows.Next() {
		var page domain.PageRecord
		if err := rows.Scan(&page.FileName, &page.FilePath, &page.PageNo, &page.Text, &page.Section); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}
	return pages, nil
}
