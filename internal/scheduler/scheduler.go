package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/inventra-io/inventra/internal/config"
	"github.com/inventra-io/inventra/internal/repository/sheets"
	"github.com/inventra-io/inventra/internal/service/catalog"
	"github.com/inventra-io/inventra/internal/service/stats"
	"github.com/inventra-io/inventra/pkg/clients/webhook"
)

const maintenanceTimeout = 2 * time.Minute

// Scheduler runs the daily maintenance pass: availability refresh, snapshot
// recomputation and archiving, optional spreadsheet export and low-stock
// alerting. The archive is what makes the week-over-week deltas on the
// inventory overview meaningful.
type Scheduler struct {
	cron       *cron.Cron
	catalogSvc *catalog.Service
	statsSvc   *stats.Service
	exporter   sheets.Exporter
	alerts     webhook.Client
	cfg        config.SchedulerConfig
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance. exporter and alerts may be nil
// when the corresponding integrations are not configured.
func NewScheduler(cfg config.SchedulerConfig, catalogSvc *catalog.Service, statsSvc *stats.Service, exporter sheets.Exporter, alerts webhook.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to UTC", zap.String("timezone", cfg.Timezone))
		loc = time.UTC
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		catalogSvc: catalogSvc,
		statsSvc:   statsSvc,
		exporter:   exporter,
		alerts:     alerts,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the maintenance job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runMaintenance); err != nil {
		s.logger.Error("failed to schedule maintenance job", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runMaintenance() {
	s.logger.Info("running inventory maintenance")
	ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
	defer cancel()

	changed, err := s.catalogSvc.RefreshAvailability(ctx)
	if err != nil {
		s.logger.Error("availability refresh failed", zap.Error(err))
		return
	}
	s.logger.Info("availability refreshed", zap.Int("changed", changed))

	if _, err := s.statsSvc.RecomputeOverallSnapshot(ctx); err != nil {
		s.logger.Error("overall snapshot recompute failed", zap.Error(err))
	}

	snapshot, err := s.statsSvc.Archive(ctx)
	if err != nil {
		s.logger.Error("snapshot archive failed", zap.Error(err))
		return
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSnapshot(ctx, *snapshot); err != nil {
			s.logger.Error("snapshot export failed", zap.Error(err))
		}
	}

	if s.alerts != nil {
		s.sendStockAlert(ctx)
	}
}

func (s *Scheduler) sendStockAlert(ctx context.Context) {
	products, err := s.catalogSvc.List(ctx)
	if err != nil {
		s.logger.Error("stock alert product scan failed", zap.Error(err))
		return
	}

	alert := webhook.NewStockAlert(products, time.Now())
	if len(alert.Products) == 0 {
		return
	}

	if err := s.alerts.SendStockAlert(ctx, alert); err != nil {
		s.logger.Error("stock alert delivery failed", zap.Error(err))
	} else {
		s.logger.Info("stock alert sent", zap.Int("products", len(alert.Products)))
	}
}
