package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	httpadapter "github.com/harunao/regulation-assistant/internal/adapters/http"
	"github.com/harunao/regulation-assistant/internal/bootstrap"
	"github.com/harunao/regulation-assistant/internal/config"
	"github.com/harunao/regulation-assistant/internal/observability/logging"
	"github.com/harunao/regulation-assistant/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	var limiter *rate.Limiter
	if cfg.APIRateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.APIRateLimitRPS), cfg.APIRateLimitBurst)
	}

	router := httpadapter.NewRouter(app.IngestUC, app.AskUC, app.Repo, httpadapter.RouterOptions{
		Service: "api",
		Metrics: metrics.NewHTTPServerMetrics("api"),
		Limiter: limiter,
	}).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("api shutdown incomplete", "error", err)
	}
}
