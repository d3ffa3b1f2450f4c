package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/config"
	"github.com/mamadbah2/tanksounding/pkg/clients/notify"
)

const jobTimeout = 2 * time.Minute

// Reporter renders the periodic usage digest.
type Reporter interface {
	WeeklyReport(ctx context.Context) (string, error)
}

// Snapshotter saves and publishes a copy of the records.
type Snapshotter interface {
	Snapshot(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	reporter  Reporter
	snapshots Snapshotter
	notifier  notify.Client
	cfg       config.ReportingConfig
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. notifier and snapshots may be
// nil; the report is then only logged and no snapshot job is registered.
func NewScheduler(cfg config.ReportingConfig, reporter Reporter, snapshots Snapshotter, notifier notify.Client, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("scheduler timezone: %w", err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reporter:  reporter,
		snapshots: snapshots,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("report_schedule", s.cfg.CronSchedule),
		zap.String("snapshot_schedule", s.cfg.SnapshotSchedule),
		zap.String("timezone", s.cfg.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendWeeklyReport); err != nil {
		return fmt.Errorf("schedule weekly report: %w", err)
	}

	if s.snapshots != nil && s.cfg.SnapshotSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.SnapshotSchedule, s.takeSnapshot); err != nil {
			return fmt.Errorf("schedule snapshot: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendWeeklyReport() {
	s.logger.Info("generating weekly report")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.reporter.WeeklyReport(ctx)
	if err != nil {
		s.logger.Error("failed to generate weekly report", zap.Error(err))
		return
	}

	if s.notifier == nil {
		s.logger.Info("weekly report", zap.String("report", report))
		return
	}

	if err := s.notifier.SendText(ctx, report); err != nil {
		s.logger.Error("failed to send weekly report", zap.Error(err))
	} else {
		s.logger.Info("weekly report sent successfully")
	}
}

func (s *Scheduler) takeSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.snapshots.Snapshot(ctx); err != nil {
		s.logger.Error("snapshot failed", zap.Error(err))
		return
	}
	s.logger.Debug("snapshot finished")
}
