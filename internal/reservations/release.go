// Package reservations returns rooms held by finished or rejected trips to the available pool.
package reservations

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/metrics"
)

// Releaser is the repository call the service runs each tick
type Releaser interface {
	ReleaseRooms(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReleaseService periodically releases reserved rooms
type ReleaseService struct {
	rooms    Releaser
	interval time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReleaseService creates a release service running every interval
func NewReleaseService(rooms Releaser, interval time.Duration) *ReleaseService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ReleaseService{
		rooms:    rooms,
		interval: interval,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins the periodic release process
func (s *ReleaseService) Start() {
	logger.Log.Info("Starting room release service", zap.Duration("interval", s.interval))
	go s.run()
}

// Stop stops the service and waits for an in-flight run to finish
func (s *ReleaseService) Stop() {
	logger.Log.Info("Stopping room release service")
	s.cancel()
	<-s.done
}

func (s *ReleaseService) run() {
	defer close(s.done)

	// Run immediately on startup
	s.ReleaseOnce(s.ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.ReleaseOnce(s.ctx)
		case <-s.ctx.Done():
			return
		}
	}
}

// ReleaseOnce frees rooms whose trips ended before today (UTC) or were rejected
func (s *ReleaseService) ReleaseOnce(ctx context.Context) int64 {
	start := time.Now()
	y, m, d := s.now().UTC().Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	released, err := s.rooms.ReleaseRooms(ctx, cutoff)
	if err != nil {
		logger.Log.Error("Room release failed", zap.Error(err))
		return 0
	}

	metrics.RecordRoomsReleased(released)
	if released > 0 {
		logger.Log.Info("Released reserved rooms",
			zap.Int64("rooms", released),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return released
}
