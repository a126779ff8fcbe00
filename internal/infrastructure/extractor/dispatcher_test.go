package extractor

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/harunao/regulation-assistant/internal/core/domain"
)

type extractorFake struct {
	called bool
	pages  []domain.PageRecord
}

func (f *extractorFake) ExtractPages(context.Context, *domain.Document, io.Reader) ([]domain.PageRecord, error) {
	f.called = true
	return f.pages, nil
}

func TestDispatcherRoutesByMimeType(t *testing.T) {
	pdfFake := &extractorFake{pages: []domain.PageRecord{{PageNo: 1}}}
	plainFake := &extractorFake{pages: []domain.PageRecord{{PageNo: 1}}}
	d := NewDispatcher(pdfFake, plainFake)

	_, err := d.ExtractPages(context.Background(),
		&domain.Document{MimeType: "application/pdf"}, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("pdf dispatch: %v", err)
	}
	if !pdfFake.called || plainFake.called {
		t.Fatal("pdf document routed to wrong extractor")
	}

	if _, err := d.ExtractPages(context.Background(),
		&domain.Document{MimeType: "text/plain"}, strings.NewReader("x")); err != nil {
		t.Fatalf("plaintext dispatch: %v", err)
	}
	if !plainFake.called {
		t.Fatal("plaintext document not routed")
	}
}

func TestDispatcherRejectsUnknownType(t *testing.T) {
	d := NewDispatcher(&extractorFake{}, &extractorFake{})
	_, err := d.ExtractPages(context.Background(),
		&domain.Document{MimeType: "image/png"}, strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrUnsupportedType) {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}
