package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skymike/crypto-risk-dashboard/internal/domain/models"
	domrepo "github.com/skymike/crypto-risk-dashboard/internal/domain/repository"
	"github.com/skymike/crypto-risk-dashboard/internal/repository"
	"github.com/skymike/crypto-risk-dashboard/internal/usecase"
	xhttp "github.com/skymike/crypto-risk-dashboard/pkg/http"
	xlogger "github.com/skymike/crypto-risk-dashboard/pkg/logger"
	"github.com/skymike/crypto-risk-dashboard/pkg/util"
)

const (
	defaultTimeseriesWindow = 30 * 24 * time.Hour
)

// SignalsHandler serves the read-side API over stored market data and
// signal verdicts.
type SignalsHandler struct {
	logger *xlogger.Logger
	store  domrepo.MarketStore
	cache  *repository.VerdictCache // optional
}

func NewSignalsHandler(logger *xlogger.Logger, store domrepo.MarketStore, cache *repository.VerdictCache) *SignalsHandler {
	return &SignalsHandler{logger: logger, store: store, cache: cache}
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/pairs", h.Pairs)
	e.GET("/signals", h.Signals)
	e.GET("/signals/explanations", h.Explanations)
	e.GET("/timeseries/:metric", h.Timeseries)
}

func (h *SignalsHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *SignalsHandler) Pairs(c echo.Context) error {
	pairs, err := h.store.Pairs(c.Request().Context())
	if err != nil {
		h.logger.Error("list pairs failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, pairs, int64(len(pairs)))
}

// Signals returns the latest verdict per pair. A single-pair request is
// served from the verdict cache when fresh.
func (h *SignalsHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()

	if req.Pair != "" && h.cache != nil {
		if v, ok, err := h.cache.Get(ctx, req.Pair); err == nil && ok {
			return xhttp.ListResponse(c, []models.SignalVerdict{v}, 1)
		}
	}

	var filter []string
	if req.Pair != "" {
		filter = []string{req.Pair}
	}
	verdicts, err := h.store.LatestVerdicts(ctx, filter)
	if err != nil {
		h.logger.Error("latest verdicts failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, verdicts, int64(len(verdicts)))
}

func (h *SignalsHandler) Explanations(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	profile := models.ResolveProfile(req.Profile)
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"profile":      profile.Name,
		"explanations": usecase.Explanations(req.Profile),
	})
}

// Timeseries serves stored observations of one metric for one pair,
// ascending by timestamp.
func (h *SignalsHandler) Timeseries(c echo.Context) error {
	req := &models.TimeseriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()
	from := util.AlignHour(util.ParseTimeDefault(req.From, time.Now().Add(-defaultTimeseriesWindow)))

	var (
		rows interface{}
		n    int
		err  error
	)
	switch c.Param("metric") {
	case "candles":
		var out []models.Candle
		out, err = h.store.CandlesLastN(ctx, req.Pair, req.Limit)
		rows, n = out, len(out)
	case "funding":
		var out []models.FundingObservation
		out, err = h.store.FundingSince(ctx, req.Pair, from)
		rows, n = out, len(out)
	case "open_interest":
		var out []models.OpenInterestObservation
		out, err = h.store.OpenInterestSince(ctx, req.Pair, from)
		rows, n = out, len(out)
	case "volatility":
		var out []models.VolatilityObservation
		out, err = h.store.VolatilitySince(ctx, req.Pair, from)
		rows, n = out, len(out)
	case "sentiment":
		var out []models.SentimentObservation
		out, err = h.store.SentimentSince(ctx, req.Pair, from)
		rows, n = out, len(out)
	default:
		return xhttp.BadRequestResponse(c, xhttp.BadRequestErrorf("unknown metric %q", c.Param("metric")))
	}
	if err != nil {
		h.logger.Error("timeseries query failed",
			xlogger.String("metric", c.Param("metric")),
			xlogger.String("pair", req.Pair),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(n))
}
