package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/calibration"
	"github.com/mamadbah2/tanksounding/internal/config"
	"github.com/mamadbah2/tanksounding/internal/export"
	"github.com/mamadbah2/tanksounding/internal/repository"
	"github.com/mamadbah2/tanksounding/internal/repository/sheets"
	"github.com/mamadbah2/tanksounding/internal/scheduler"
	"github.com/mamadbah2/tanksounding/internal/server/handlers"
	"github.com/mamadbah2/tanksounding/internal/server/router"
	recordsvc "github.com/mamadbah2/tanksounding/internal/service/records"
	reportingsvc "github.com/mamadbah2/tanksounding/internal/service/reporting"
	soundingsvc "github.com/mamadbah2/tanksounding/internal/service/soundings"
	"github.com/mamadbah2/tanksounding/pkg/clients/notify"
	"github.com/mamadbah2/tanksounding/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	tables, err := calibration.Load()
	if err != nil {
		baseLogger.Fatal("failed to load calibration tables", zap.Error(err))
	}

	backends, err := repository.Open(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to open record storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer func() {
		if err := backends.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close record storage", zap.Error(err))
		}
	}()

	var storeOpts []recordsvc.Option
	if backends.Cache != nil {
		storeOpts = append(storeOpts, recordsvc.WithCache(backends.Cache))
	}
	recordSvc := recordsvc.NewService(backends.Primary, logger.Named(baseLogger, "svc.records"), storeOpts...)
	soundingSvc := soundingsvc.NewService(tables, recordSvc, loc, logger.Named(baseLogger, "svc.soundings"))
	reportingSvc := reportingsvc.NewService(recordSvc, tables, logger.Named(baseLogger, "svc.reporting"))

	var publisher export.Publisher
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		publisher = export.NewSheetPublisher(sheetsRepo, cfg.Sheets.Range, logger.Named(baseLogger, "export.sheets"))
		baseLogger.Info("google sheets publishing enabled")
	}
	exportSvc := export.NewService(recordSvc, export.DirLocator{Dir: cfg.Export.Dir}, publisher, logger.Named(baseLogger, "svc.export"))

	var notifier notify.Client
	webhook, err := notify.NewClient(cfg.Notify)
	switch {
	case errors.Is(err, notify.ErrNotConfigured):
		baseLogger.Warn("notification webhook missing, weekly reports will only be logged")
	case err != nil:
		baseLogger.Fatal("failed to init notification client", zap.Error(err))
	default:
		notifier = webhook
	}

	handler := handlers.NewHandler(tables, soundingSvc, recordSvc, reportingSvc, exportSvc, logger.Named(baseLogger, "handlers"))
	engine := router.New(handler, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, exportSvc, notifier, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", backends.Name),
			zap.Bool("cache", backends.Cache != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
