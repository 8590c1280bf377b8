package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"

	"custodia/internal/api"
	"custodia/internal/config"
	"custodia/internal/database"
	"custodia/internal/events"
	"custodia/internal/logging"
	"custodia/internal/metrics"
	"custodia/internal/pdf"
	"custodia/internal/qr"
	"custodia/internal/repository"
	"custodia/internal/service"
	"custodia/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := pflag.StringP("config", "c", "", "path to config file")
	pflag.Parse()

	cfg, logger, closer, err := loadConfigAndLogger(*configPath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	dbLogger := logging.Component(&logger, "database")
	db, err := database.NewDB(cfg.Database.Path, &dbLogger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	var usage *repository.RedisUsageRepository
	if cfg.Redis.Address != "" {
		redisClient := repository.NewRedisClient(cfg.Redis)
		defer redisClient.Close()
		usage = repository.NewRedisUsageRepository(redisClient)
	}

	renderer := pdf.NewRodRenderer(cfg.PDF.BrowserBin, cfg.PDF.NoSandbox,
		time.Duration(cfg.PDF.TimeoutSeconds)*time.Second)
	resolver := qr.NewImageResolver(cfg.QR.BaseURL)
	eventBus := events.NewEventBus()

	svcLogger := logging.Component(&logger, "checklist")
	checklists := service.NewChecklistService(db, resolver, renderer, eventBus, usage, qr.Size(cfg.QR.Size), &svcLogger)

	workerLogger := logging.Component(&logger, "export-worker")
	exportWorker := worker.NewExportWorker(checklists, db, eventBus, cfg.Exports.Path, &workerLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go exportWorker.Start(ctx)

	startMetrics(ctx, cfg, &logger)

	apiLogger := logging.Component(&logger, "http-api")
	httpServer := api.NewHTTPServer(cfg.API, checklists, exportWorker, &apiLogger)

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("shutdown complete")
	return nil
}

func loadConfigAndLogger(configPath string) (*config.Config, zerolog.Logger, io.Closer, error) {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
