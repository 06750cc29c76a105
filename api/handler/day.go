package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/httpcontext"
	"github.com/mo-tomi/nowtask8/usecase/planner"
	"github.com/mo-tomi/nowtask8/usecase/stats"
)

// DayHandler serves the derived views: day timeline, statistics and calendar.
type DayHandler struct {
	baseHandler
	uc *planner.UseCase
}

func NewDayHandler(uc *planner.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DayHandler {
	return &DayHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Day timeline with overlap groups and gauge
// @Tags days
// @Router /api/v1/days/{date} [get]
func (h *DayHandler) GetDay(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := h.uc.DayView(h.dateParam(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

// @Summary Generate recurring tasks for a day
// @Tags days
// @Router /api/v1/days/{date}/generate [post]
func (h *DayHandler) Generate(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	plan, err := h.uc.GenerateForDate(stdCtx, h.dateParam(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, plan)
}

// @Summary Statistics for a period
// @Tags stats
// @Param period query string false "today, week or month"
// @Param date query string false "reference date YYYY-MM-DD"
// @Router /api/v1/stats [get]
func (h *DayHandler) GetStats(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	period, err := stats.ParsePeriod(string(ctx.QueryArgs().Peek("period")))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	var ref time.Time
	if key := string(ctx.QueryArgs().Peek("date")); key != "" {
		day, err := h.uc.Zone().ParseDateKey(key)
		if err != nil {
			h.respondError(ctx, stdCtx, domain.Invalid(domain.ErrInvalidDate, key))
			return
		}
		// Today keeps the zero ref so the gauge measures from now.
		if key != h.uc.Today() {
			ref = day
		}
	}
	h.respondSuccess(ctx, http.StatusOK, h.uc.Stats(period, ref))
}

// @Summary Month calendar grid
// @Tags calendar
// @Router /api/v1/calendar/{year}/{month} [get]
func (h *DayHandler) GetCalendar(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	year, yerr := strconv.Atoi(param(ctx, "year"))
	month, merr := strconv.Atoi(param(ctx, "month"))
	if yerr != nil || merr != nil {
		h.respondError(ctx, stdCtx, domain.Invalid(domain.ErrInvalidDate, "year and month must be numbers"))
		return
	}

	grid, err := h.uc.Calendar(year, time.Month(month))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, grid)
}

// dateParam resolves "today" to the current date key.
func (h *DayHandler) dateParam(ctx *fasthttp.RequestCtx) string {
	key := param(ctx, "date")
	if key == "today" {
		return h.uc.Today()
	}
	return key
}
