package api

import (
	"context"
	"errors"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/services/strategy"
	"FinSignal/internal/usecase"
	xhttp "FinSignal/pkg/http"
	xlogger "FinSignal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsService is the use case surface the HTTP layer depends on.
type SignalsService interface {
	Refresh(ctx context.Context, p usecase.RefreshParams) (*models.Timeline, error)
	Timeline(symbol, interval string) (*models.Timeline, error)
	ChartMarkers(symbol, interval string) ([]models.ChartMarker, error)
	Strategies() []models.StrategySettings
	UpdateStrategy(id string, u models.SettingsUpdate) (models.StrategySettings, error)
}

// SignalsEchoHandler exposes timelines, chart markers and strategy settings over HTTP.
type SignalsEchoHandler struct {
	logger       *xlogger.Logger
	uc           SignalsService
	refreshGuard echo.MiddlewareFunc
}

func NewSignalsEchoHandler(logger *xlogger.Logger, uc SignalsService) *SignalsEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &SignalsEchoHandler{logger: logger, uc: uc}
}

// SetRefreshGuard installs a middleware (typically a rate limiter) on the refresh route.
func (h *SignalsEchoHandler) SetRefreshGuard(m echo.MiddlewareFunc) { h.refreshGuard = m }

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	if h.refreshGuard != nil {
		g.POST("/signals/refresh", h.Refresh, h.refreshGuard)
	} else {
		g.POST("/signals/refresh", h.Refresh)
	}
	g.GET("/markers", h.Markers)
	g.GET("/strategies", h.Strategies)
	g.PATCH("/strategies/:id", h.UpdateStrategy)
}

// Signals returns the current timeline, computing it first if none exists yet.
func (h *SignalsEchoHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	tl, err := h.uc.Timeline(req.Symbol, req.Interval)
	if errors.Is(err, usecase.ErrNoTimeline) {
		tl, err = h.uc.Refresh(c.Request().Context(), refreshParams(req))
	}
	if err != nil {
		return h.fail(c, "signals", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, tl)
}

// Refresh forces a recompute and returns the new timeline.
func (h *SignalsEchoHandler) Refresh(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	tl, err := h.uc.Refresh(c.Request().Context(), refreshParams(req))
	if err != nil {
		return h.fail(c, "refresh", err)
	}
	return xhttp.SuccessResponse(c, tl)
}

// Markers returns chart markers in ascending time order.
func (h *SignalsEchoHandler) Markers(c echo.Context) error {
	req := &models.MarkersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cms, err := h.uc.ChartMarkers(req.Symbol, req.Interval)
	if err != nil {
		return h.fail(c, "markers", err)
	}
	return xhttp.ListResponse(c, cms, int64(len(cms)))
}

func (h *SignalsEchoHandler) Strategies(c echo.Context) error {
	ss := h.uc.Strategies()
	return xhttp.ListResponse(c, ss, int64(len(ss)))
}

// UpdateStrategy applies a partial update. Thresholds are clamped, never rejected.
func (h *SignalsEchoHandler) UpdateStrategy(c echo.Context) error {
	req := &models.UpdateStrategyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	s, err := h.uc.UpdateStrategy(req.ID, req.Update())
	if err != nil {
		return h.fail(c, "update_strategy", err)
	}
	return xhttp.SuccessResponse(c, s)
}

func refreshParams(req *models.SignalsRequest) usecase.RefreshParams {
	p := usecase.RefreshParams{Symbol: req.Symbol, Interval: req.Interval, Limit: req.Limit, HistoryLimit: req.History}
	if req.Live {
		p.HistoryLimit = 0
	}
	return p
}

// fail maps use case errors onto AppErrors.
func (h *SignalsEchoHandler) fail(c echo.Context, op string, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, usecase.ErrNoTimeline):
		appErr = xhttp.NotFoundError("no timeline computed for this symbol yet")
	case errors.Is(err, usecase.ErrNoCandles):
		appErr = xhttp.NotFoundError("no candles available for this symbol")
	case errors.Is(err, strategy.ErrStrategyNotFound):
		appErr = xhttp.NotFoundErrorf("strategy %q not found", c.Param("id"))
	case errors.Is(err, usecase.ErrSymbolNeeded):
		appErr = xhttp.BadRequestError(err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		appErr = xhttp.GatewayTimeoutError("upstream timed out")
	default:
		h.logger.Error("signals usecase error", xlogger.String("op", op), xlogger.Error(err))
		appErr = xhttp.BadGatewayError("failed to fetch market data")
	}
	return xhttp.AppErrorResponse(c, appErr.WithError(err))
}
