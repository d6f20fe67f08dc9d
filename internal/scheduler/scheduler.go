package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/mfgconsole/internal/config"
	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

const snapshotTimeout = 2 * time.Minute

// SnapshotTaker is the job run on every tick.
type SnapshotTaker interface {
	TakeSnapshot(ctx context.Context) (models.KPISnapshot, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	snapshots SnapshotTaker
	logger    *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone. The schedule uses
// the standard five-field cron syntax.
func NewScheduler(cfg config.ReportingConfig, snapshots SnapshotTaker, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  cfg.CronSchedule,
		snapshots: snapshots,
		logger:    logger,
	}, nil
}

// Start registers the KPI snapshot job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.takeSnapshot); err != nil {
		return fmt.Errorf("schedule kpi snapshot %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) takeSnapshot() {
	s.logger.Info("taking kpi snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	if _, err := s.snapshots.TakeSnapshot(ctx); err != nil {
		s.logger.Error("kpi snapshot failed", zap.Error(err))
	}
}
