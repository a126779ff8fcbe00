package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harunao/regulation-assistant/internal/config"
	"github.com/harunao/regulation-assistant/internal/core/ports"
	"github.com/harunao/regulation-assistant/internal/core/usecase"
	"github.com/harunao/regulation-assistant/internal/infrastructure/extractor"
	"github.com/harunao/regulation-assistant/internal/infrastructure/extractor/pdf"
	"github.com/harunao/regulation-assistant/internal/infrastructure/extractor/plaintext"
	"github.com/harunao/regulation-assistant/internal/infrastructure/queue/nats"
	"github.com/harunao/regulation-assistant/internal/infrastructure/repository/postgres"
	"github.com/harunao/regulation-assistant/internal/infrastructure/resilience"
	"github.com/harunao/regulation-assistant/internal/infrastructure/storage/localfs"
	"github.com/harunao/regulation-assistant/internal/search"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	AskUC     ports.QuestionAnswerer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	pageRepo := postgres.NewPageRepository(db)
	conversations := postgres.NewConversationRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.QueueConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	engine, err := newSearchEngine(cfg)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, err
	}

	dispatcher := extractor.NewDispatcher(pdf.NewExtractor(), plaintext.NewExtractor())

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, storage, dispatcher, pageRepo)
	askUC := usecase.NewAskUseCaseWithDefaults(pageRepo, conversations, engine, usecase.AskDefaults{
		TopK:       cfg.SearchTopK,
		MinScore:   cfg.SearchMinScore,
		StrictHigh: cfg.SearchStrictHigh,
		StrictLow:  cfg.SearchStrictLow,
	})

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		AskUC:     askUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func newSearchEngine(cfg config.Config) (*search.Engine, error) {
	table := search.DefaultSynonymTable()
	if cfg.SynonymTablePath != "" {
		loaded, err := search.LoadSynonymTable(cfg.SynonymTablePath)
		if err != nil {
			return nil, fmt.Errorf("load synonym table %s: %w", cfg.SynonymTablePath, err)
		}
		table = loaded
		slog.Info("synonym table loaded", "path", cfg.SynonymTablePath)
	}

	weights := search.WeightsPreset(cfg.SearchPreset)
	return search.NewEngine(search.Config{
		Synonyms: table,
		Weights:  &weights,
		Workers:  cfg.SearchWorkers,
	}), nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
