package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/inventra-io/inventra/internal/config"
	"github.com/inventra-io/inventra/internal/repository/mongodb"
	"github.com/inventra-io/inventra/internal/repository/sheets"
	"github.com/inventra-io/inventra/internal/scheduler"
	"github.com/inventra-io/inventra/internal/server/handlers"
	"github.com/inventra-io/inventra/internal/server/router"
	adminsvc "github.com/inventra-io/inventra/internal/service/admin"
	catalogsvc "github.com/inventra-io/inventra/internal/service/catalog"
	"github.com/inventra-io/inventra/internal/service/ident"
	ledgersvc "github.com/inventra-io/inventra/internal/service/ledger"
	statssvc "github.com/inventra-io/inventra/internal/service/stats"
	"github.com/inventra-io/inventra/pkg/clients/webhook"
	"github.com/inventra-io/inventra/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	allocator := ident.NewAllocator(repo)
	statsSvc := statssvc.NewService(repo, baseLogger.Named("svc.stats"))
	catalogSvc := catalogsvc.NewService(repo, allocator, statsSvc, baseLogger.Named("svc.catalog"))
	ledgerSvc := ledgersvc.NewService(repo, allocator, statsSvc, cfg.Ledger.RestockOnInvoiceDelete, baseLogger.Named("svc.ledger"))
	adminSvc := adminsvc.NewService(repo, baseLogger.Named("svc.admin"))

	var exporter sheets.Exporter
	if cfg.Sheets.Enabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("snapshot spreadsheet export enabled")
	}

	var alerts webhook.Client
	if cfg.Alerts.Enabled() {
		alerts = webhook.NewClient(cfg.Alerts)
		baseLogger.Info("stock alert webhook enabled")
	}

	engine := router.New(
		handlers.NewProductHandler(catalogSvc, ledgerSvc, baseLogger.Named("handlers.product")),
		handlers.NewInvoiceHandler(ledgerSvc, statsSvc, baseLogger.Named("handlers.invoice")),
		handlers.NewStatsHandler(statsSvc, baseLogger.Named("handlers.stats")),
		handlers.NewAdminHandler(adminSvc, baseLogger.Named("handlers.admin")),
		baseLogger.Named("router"),
	)

	sched := scheduler.NewScheduler(cfg.Scheduler, catalogSvc, statsSvc, exporter, alerts, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
