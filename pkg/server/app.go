package server

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"FinSignal/internal/service/ratelimit"
	"FinSignal/internal/usecase"
	"FinSignal/pkg/config"
	xhttp "FinSignal/pkg/http"
	applogger "FinSignal/pkg/logger"
)

const limiterIdle = 10 * time.Minute

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	refresher  *usecase.Refresher
	limiter    *ratelimit.Limiter
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	refresher *usecase.Refresher,
	limiter *ratelimit.Limiter,
	httpServer *xhttp.Server,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		l:          l,
		refresher:  refresher,
		limiter:    limiter,
		httpServer: httpServer,
	}
}

// Run starts the refresher and the HTTP server and blocks until ctx is done or
// SIGINT/SIGTERM arrives, then shuts both down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		if err := a.refresher.Start(ctx); err != nil {
			a.l.Error("refresher error", applogger.Error(err))
		}
	}()
	a.l.Info("refresher started",
		applogger.Strings("symbols", a.cfg.Refresh.Symbols),
		applogger.String("interval", a.cfg.Refresh.CandleKey),
		applogger.Duration("every", a.cfg.Refresh.Interval),
	)

	if a.limiter != nil {
		go a.pruneLimiter(ctx)
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown(refreshDone)
}

func (a *App) pruneLimiter(ctx context.Context) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.limiter.Prune(limiterIdle); n > 0 {
				a.l.Debug("rate limiter pruned", applogger.Int("keys", n))
			}
		}
	}
}

// shutdown gracefully stops all services. Infrastructure clients are released by
// the DI cleanup after Run returns.
func (a *App) shutdown(refreshDone <-chan struct{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	if err := a.refresher.Shutdown(ctx); err != nil {
		a.l.Warn("refresher stop error", applogger.Error(err))
		errs = append(errs, err)
	}
	select {
	case <-refreshDone:
	case <-ctx.Done():
	}

	a.l.Info("shutdown complete")
	return errors.Join(errs...)
}
