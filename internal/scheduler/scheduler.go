// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/application"
	"github.com/vitesse-mobility/service-rental/internal/config"
)

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	cron     *cron.Cron
	bookings *application.BookingService
	cfg      config.SchedulerConfig
	log      *zap.Logger
}

// New creates the scheduler. Cron specs include a seconds field.
func New(bookings *application.BookingService, cfg config.SchedulerConfig, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		bookings: bookings,
		cfg:      cfg,
		log:      log,
	}
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.ExpireStaleBookings, s.expireStaleBookings)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started",
		zap.String("expire_spec", s.cfg.ExpireStaleBookings),
		zap.Int("stale_after_hours", s.cfg.StaleAfterHours),
	)
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// expireStaleBookings cancels DRAFT and PENDING bookings that were never
// verified or paid, freeing their calendar slots.
func (s *Scheduler) expireStaleBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	olderThan := time.Duration(s.cfg.StaleAfterHours) * time.Hour
	expired, err := s.bookings.ExpireStaleBookings(ctx, olderThan)
	if err != nil {
		s.log.Error("stale booking expiry failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.log.Info("expired stale bookings", zap.Int("count", expired))
	}
}
