package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-dashboard/internal/config"
)

const runTimeout = 2 * time.Minute

// Dispatcher sends the low-stock digest.
type Dispatcher interface {
	Dispatch(ctx context.Context, now time.Time) (int, error)
}

// Scheduler runs the low-stock digest on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher Dispatcher
	cfg        config.AlertsConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewScheduler creates a scheduler evaluating cfg.CronSchedule in cfg.Timezone.
func NewScheduler(cfg config.AlertsConfig, dispatcher Dispatcher, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	// Standard 5-field cron spec (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:       c,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule), zap.String("timezone", s.cfg.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendLowStockDigest); err != nil {
		return fmt.Errorf("schedule low stock digest: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendLowStockDigest() {
	s.logger.Info("generating low stock digest")
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	sent, err := s.dispatcher.Dispatch(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to send low stock digest", zap.Int("sent", sent), zap.Error(err))
		return
	}
	s.logger.Info("low stock digest sent successfully", zap.Int("sent", sent))
}
