package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/costaendriw/delivery-system/services"

	"go.uber.org/zap"
)

// ReminderScheduler runs the reminder batch once a day at a fixed hour and
// minute, on its own goroutine so it never blocks request handling.
type ReminderScheduler struct {
	reminders *services.ReminderService
	hour      int
	minute    int
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewReminderScheduler(reminders *services.ReminderService, hour, minute int, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		reminders: reminders,
		hour:      hour,
		minute:    minute,
		logger:    logger,
	}
}

// Start launches the scheduling loop. Calling Start twice is a caller bug.
func (s *ReminderScheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("reminder scheduler started",
		zap.Int("hour", s.hour),
		zap.Int("minute", s.minute),
	)
}

// Stop cancels future ticks and waits for an in-flight run to finish.
func (s *ReminderScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.logger.Info("reminder scheduler stopped")
}

func (s *ReminderScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	for {
		timer := time.NewTimer(time.Until(s.nextRun(time.Now())))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.runOnce()
		}
	}
}

// runOnce executes the batch with its own timeout so a Stop during a run
// lets the scan finish instead of cutting it off.
func (s *ReminderScheduler) runOnce() {
	runCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	s.logger.Info("starting reminder check")
	result, err := s.reminders.CheckAndSendReminders(runCtx)
	if err != nil {
		s.logger.Error("reminder check failed", zap.Error(err))
		return
	}
	s.logger.Info("reminder check finished", zap.Int("reminders_sent", result.RemindersSent))
}

// nextRun returns the next occurrence of hour:minute strictly after now.
func (s *ReminderScheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
