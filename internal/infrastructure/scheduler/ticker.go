package scheduler

import (
	"context"
	"sync"
	"time"

	"TrendDeck/internal/ports"
)

// TickerScheduler runs a job immediately and then on every interval tick.
type TickerScheduler struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ ports.Scheduler = (*TickerScheduler)(nil)

// NewTickerScheduler builds a scheduler firing every interval.
// Non-positive intervals run the job once at start only.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	return &TickerScheduler{interval: interval}
}

// Start launches the background loop. Calling Start twice is a no-op.
func (s *TickerScheduler) Start(ctx context.Context, job func(ctx context.Context)) error {
	if job == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(loopCtx, job)
	}()

	return nil
}

func (s *TickerScheduler) loop(ctx context.Context, job func(ctx context.Context)) {
	job(ctx)
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			job(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels the loop and waits for an in-flight job, bounded by ctx.
func (s *TickerScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
