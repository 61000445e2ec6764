package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"PortfolioOne/internal/domain/models"
	drepo "PortfolioOne/internal/domain/repository"
	"PortfolioOne/internal/service/marketdata"
	"PortfolioOne/internal/services/engine"
	"PortfolioOne/internal/usecase"
	xhttp "PortfolioOne/pkg/http"
	xlogger "PortfolioOne/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler exposes the allocation engine over HTTP.
type PortfolioHandler struct {
	logger  *xlogger.Logger
	dash    *usecase.DashboardUsecase
	alloc   *usecase.AllocationUsecase
	history drepo.EvaluationHistory // optional
	stream  drepo.MarketStream      // optional
}

func NewPortfolioHandler(logger *xlogger.Logger, dash *usecase.DashboardUsecase, alloc *usecase.AllocationUsecase) *PortfolioHandler {
	return &PortfolioHandler{logger: logger, dash: dash, alloc: alloc}
}

// SetHistory wires the optional evaluation history for health and queries.
func (h *PortfolioHandler) SetHistory(hist drepo.EvaluationHistory) { h.history = hist }

// SetStream wires the optional live stream for health reporting.
func (h *PortfolioHandler) SetStream(s drepo.MarketStream) { h.stream = s }

func (h *PortfolioHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/dashboard", h.Dashboard)
	g.POST("/allocate", h.Allocate)
	g.POST("/simulate", h.Simulate)
	g.GET("/reference", h.Reference)
	g.GET("/history", h.History)
	g.POST("/weights", h.SaveWeights)
	g.DELETE("/weights", h.ClearWeights)

	e.GET("/healthz", h.Health)
}

func (h *PortfolioHandler) Dashboard(c echo.Context) error {
	res, err := h.dash.Build(c.Request().Context())
	if err != nil {
		h.logger.Error("dashboard usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioHandler) Allocate(c echo.Context) error {
	req := &models.AllocateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.alloc.AllocateLive(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("allocate usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioHandler) Simulate(c echo.Context) error {
	req := &models.SimulateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.alloc.Simulate(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("simulate usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioHandler) Reference(c echo.Context) error {
	res, err := h.alloc.Reference(c.Request().Context())
	if err != nil {
		h.logger.Error("reference usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// History returns recent monitor evaluations when ClickHouse is wired.
func (h *PortfolioHandler) History(c echo.Context) error {
	if h.history == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("evaluation history not configured"))
	}
	ticker := c.QueryParam("ticker")
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 100)
	if limit < 1 || limit > 1000 {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("limit must be between 1 and 1000"))
	}

	res, err := h.history.Recent(c.Request().Context(), ticker, limit)
	if err != nil {
		h.logger.Error("history query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("history query failed"))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioHandler) SaveWeights(c echo.Context) error {
	req := &models.WeightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.alloc.SaveWeights(c.Request().Context(), req); err != nil {
		h.logger.Error("save weights error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.SuccessResponse(c, map[string]bool{"saved": true})
}

func (h *PortfolioHandler) ClearWeights(c echo.Context) error {
	if err := h.alloc.ClearWeights(c.Request().Context()); err != nil {
		h.logger.Error("clear weights error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.SuccessResponse(c, map[string]bool{"cleared": true})
}

// Health reports component status. Degraded components do not fail the probe;
// only a dead history backend does.
func (h *PortfolioHandler) Health(c echo.Context) error {
	status := http.StatusOK
	components := map[string]string{"engine": "ok"}

	if h.history != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.history.Health(ctx); err != nil {
			components["history"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			components["history"] = "ok"
		}
	}
	if h.stream != nil {
		if h.stream.IsConnected() {
			components["stream"] = "connected"
		} else {
			components["stream"] = "disconnected"
		}
	}

	return c.JSON(status, map[string]interface{}{
		"status":     http.StatusText(status),
		"components": components,
	})
}

// mapError translates domain failures into HTTP-status-carrying errors.
// Engine input errors are the caller's fault; upstream data failures are a
// gateway problem.
func (h *PortfolioHandler) mapError(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidPortfolioValue),
		errors.Is(err, engine.ErrInvalidWeights),
		errors.Is(err, engine.ErrInvalidPrice),
		errors.Is(err, engine.ErrInsufficientData):
		return xhttp.BadRequestError(err.Error())
	case errors.Is(err, marketdata.ErrUnavailable):
		return xhttp.NewAppError("ERR_UPSTREAM", "", err.Error(), http.StatusBadGateway).WithError(err)
	default:
		return xhttp.InternalError("Something went wrong")
	}
}
