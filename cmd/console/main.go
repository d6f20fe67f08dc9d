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

	"github.com/mamadbah2/mfgconsole/internal/config"
	"github.com/mamadbah2/mfgconsole/internal/repository/filestore"
	"github.com/mamadbah2/mfgconsole/internal/repository/mongodb"
	"github.com/mamadbah2/mfgconsole/internal/repository/sheets"
	"github.com/mamadbah2/mfgconsole/internal/scheduler"
	"github.com/mamadbah2/mfgconsole/internal/server/handlers"
	"github.com/mamadbah2/mfgconsole/internal/server/router"
	"github.com/mamadbah2/mfgconsole/internal/service/console"
	reportingsvc "github.com/mamadbah2/mfgconsole/internal/service/reporting"
	"github.com/mamadbah2/mfgconsole/internal/session"
	"github.com/mamadbah2/mfgconsole/pkg/clients/mfgapi"
	"github.com/mamadbah2/mfgconsole/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := filestore.New(cfg.Session.StorePath, logger.Named(baseLogger, "repo.session"))
	if err != nil {
		baseLogger.Fatal("failed to open session store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			baseLogger.Error("failed to close session store", zap.Error(err))
		}
	}()

	sessionMgr := session.NewManager(store, logger.Named(baseLogger, "session"))
	go sessionMgr.Watch(ctx)

	apiClient := mfgapi.NewClient(cfg.API.BaseURL, sessionMgr, logger.Named(baseLogger, "client.mfgapi"))
	pages := console.New(sessionMgr, apiClient, logger.Named(baseLogger, "svc.console"))
	defer pages.Close()

	var (
		sinks   []reportingsvc.Sink
		history handlers.SnapshotHistory
	)

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sinks = append(sinks, sheets.NewKPISink(sheetsRepo))
	}

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		sinks = append(sinks, mongoRepo)
		history = mongoRepo
	}

	reportingSvc := reportingsvc.NewService(apiClient, sinks, logger.Named(baseLogger, "svc.reporting"))
	if reportingSvc.Enabled() {
		sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, logger.Named(baseLogger, "scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	} else {
		baseLogger.Warn("no kpi snapshot sink configured, snapshots disabled")
	}

	consoleHandler := handlers.NewConsoleHandler(pages, apiClient, history, logger.Named(baseLogger, "handlers.console"))
	engine := router.New(consoleHandler, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("console starting",
			zap.String("port", cfg.Server.Port),
			zap.String("backend", cfg.API.BaseURL),
			zap.String("session_store", cfg.Session.StorePath))
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
