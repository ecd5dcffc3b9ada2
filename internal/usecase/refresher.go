package usecase

import (
	"context"
	"sync"
	"time"

	applogger "FinSignal/pkg/logger"
)

// Refresher periodically recomputes the timelines of a fixed symbol list. It is the
// only timer in the service; the use case itself holds none.
type Refresher struct {
	uc       *SignalsUseCase
	targets  []RefreshParams
	interval time.Duration
	l        *applogger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRefresher(uc *SignalsUseCase, targets []RefreshParams, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Refresher{uc: uc, targets: targets, interval: interval}
}

// SetLogger injects a structured logger.
func (r *Refresher) SetLogger(l *applogger.Logger) { r.l = l }

// Start refreshes every target once, then on every tick until ctx is done or
// Shutdown is called. It blocks.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()
	defer close(done)

	r.RefreshAll(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.RefreshAll(ctx)
		}
	}
}

// RefreshAll refreshes every target sequentially. Failures are logged, never fatal.
func (r *Refresher) RefreshAll(ctx context.Context) {
	for _, t := range r.targets {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.uc.Refresh(ctx, t); err != nil && r.l != nil {
			r.l.Warn("refresher: refresh failed",
				applogger.String("symbol", t.Symbol),
				applogger.String("interval", t.Interval),
				applogger.Error(err),
			)
		}
	}
}

// Shutdown stops the loop and waits for the in-flight round to finish.
func (r *Refresher) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
