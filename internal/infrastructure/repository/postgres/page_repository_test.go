package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/harunao/regulation-assistant/internal/core/domain"
)

func newPageRepoWithMock(t *testing.T) (*PageRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &PageRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestReplacePagesSwapsInOneTransaction(t *testing.T) {
	repo, mock, done := newPageRepoWithMock(t)
	defer done()

	pages := []domain.PageRecord{
		{FileName: "就業規則.pdf", FilePath: "documents/doc-1/rules.pdf", PageNo: 1, Text: "第1条（目的）", Section: "第1条"},
		{FileName: "就業規則.pdf", FilePath: "documents/doc-1/rules.pdf", PageNo: 2, Text: "第32条 有給休暇", Section: "第32条"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM pages").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	for _, page := range pages {
		mock.ExpectExec("INSERT INTO pages").
			WithArgs("doc-1", page.FileName, page.FilePath, page.PageNo, page.Text, page.Section).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	if err := repo.ReplacePages(context.Background(), "doc-1", pages); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReplacePagesRollsBackOnInsertFailure(t *testing.T) {
	repo, mock, done := newPageRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM pages").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO pages").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.ReplacePages(context.Background(), "doc-1", []domain.PageRecord{
		{FileName: "就業規則.pdf", PageNo: 1, Text: "x"},
	})
	if err == nil {
		t.Fatal("expected insert error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListPagesOrdersByFileAndPage(t *testing.T) {
	repo, mock, done := newPageRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"file_name", "file_path", "page_no", "text", "section"}).
		AddRow("就業規則.pdf", "documents/doc-1/rules.pdf", 1, "第1条（目的）", "").
		AddRow("就業規則.pdf", "documents/doc-1/rules.pdf", 2, "第32条 有給休暇", "第32条")

	mock.ExpectQuery("SELECT file_name, file_path, page_no, text, section").
		WillReturnRows(rows)

	pages, err := repo.ListPages(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pages) != 2 || pages[1].PageNo != 2 {
		t.Fatalf("unexpected pages: %+v", pages)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
