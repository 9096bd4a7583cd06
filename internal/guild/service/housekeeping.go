package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/metrics"
	"github.com/aussiebroadwan/guild/internal/guild/store"
)

// HousekeepingService periodically counts invitations that expired without
// being redeemed and publishes the count as a gauge. Expired invitations
// are kept; they are what makes a late redemption fail with a clear answer.
type HousekeepingService struct {
	Store    store.Store
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewHousekeepingService creates a housekeeping worker. If interval is 0 or
// negative, defaults to 1 hour.
func NewHousekeepingService(s store.Store, m *metrics.Metrics, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    s,
		Metrics:  m,
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
	s.Logger.Info("housekeeping service started", slog.Duration("interval", s.Interval))
}

// Stop blocks until any in-progress sweep has finished. Safe to call twice.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Sweep once on startup.
	s.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep(ctx context.Context) {
	n, err := s.CountExpired(ctx)
	if err != nil {
		s.Logger.Error("failed to count expired invitations", slog.Any("error", err))
		return
	}
	s.Metrics.SetExpiredInvitations(n)
	s.Logger.Debug("housekeeping sweep completed", slog.Int("expired_invitations", n))
}

// CountExpired returns the number of unused invitations past their expiry.
func (s *HousekeepingService) CountExpired(ctx context.Context) (int, error) {
	invs, err := s.Store.Invitations().ListUnusedInvitations(ctx)
	if err != nil {
		return 0, err
	}
	now := s.Now().UTC()
	n := 0
	for _, inv := range invs {
		if inv.Expired(now) {
			n++
		}
	}
	return n, nil
}
