package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/harunao/regulation-assistant/internal/core/domain"
	"github.com/harunao/regulation-assistant/internal/core/ports"
)

type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	extractor ports.PageExtractor
	pages     ports.PageStore
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	extractor ports.PageExtractor,
	pages ports.PageStore,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		pages:     pages,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	pageCount, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SetPageCount(ctx, documentID, pageCount); err != nil {
		return fmt.Errorf("save page count: %w", err)
	}
	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (int, error) {
	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return 0, err
	}

	body, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return 0, fmt.Errorf("open stored document: %w", err)
	}
	defer body.Close()

	pages, err := uc.extractPages(ctx, doc, body)
	if err != nil {
		return 0, err
	}

	if err := uc.pages.ReplacePages(ctx, doc.ID, pages); err != nil {
		return 0, fmt.Errorf("store extracted pages: %w", err)
	}
	return len(pages), nil
}

func (uc *ProcessDocumentUseCase) loadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *ProcessDocumentUseCase) extractPages(ctx context.Context, doc *domain.Document, body io.Reader) ([]domain.PageRecord, error) {
	pages, err := uc.extractor.ExtractPages(ctx, doc, body)
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract pages", errors.New("no extractable text"))
	}
	return pages, nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
