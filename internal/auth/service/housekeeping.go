package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/observability"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/aussiebroadwan/otpauth/pkg/slogx"
)

const housekeepingTimeout = 30 * time.Second

// HousekeepingService prunes expired challenge ledger records so the table
// does not grow without bound.
type HousekeepingService struct {
	Ledger   store.Challenges
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the worker. A non-positive interval
// defaults to one hour.
func NewHousekeepingService(ledger store.Challenges, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Ledger:   ledger,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop signals the worker and waits for an in-progress sweep to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Sweep()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopCh:
			return
		}
	}
}

// Sweep deletes expired ledger records once.
func (s *HousekeepingService) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), housekeepingTimeout)
	defer cancel()

	n, err := s.Ledger.DeleteExpired(ctx, s.Now())
	if err != nil {
		slogx.LogError(s.Logger, "failed to prune challenge ledger", err)
		return
	}
	s.Metrics.Pruned(n)
	s.Logger.Debug("pruned challenge ledger", "deleted", n)
}
