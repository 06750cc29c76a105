package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/api/transport"
	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/httpcontext"
	"github.com/mo-tomi/nowtask8/usecase/planner"
)

// ShiftHandler serves shift presets and per-date assignments.
type ShiftHandler struct {
	baseHandler
	uc *planner.UseCase
}

func NewShiftHandler(uc *planner.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ShiftHandler {
	return &ShiftHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List shift presets
// @Tags shifts
// @Router /api/v1/shift-presets [get]
func (h *ShiftHandler) GetPresets(ctx *fasthttp.RequestCtx) {
	presets := h.uc.ListPresets()
	h.respondList(ctx, presets, len(presets))
}

// @Summary Create shift preset
// @Tags shifts
// @Router /api/v1/shift-presets [post]
func (h *ShiftHandler) CreatePreset(ctx *fasthttp.RequestCtx) {
	var req transport.PresetRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreatePreset(stdCtx, req.ToPreset())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update shift preset
// @Tags shifts
// @Router /api/v1/shift-presets/{id} [put]
func (h *ShiftHandler) UpdatePreset(ctx *fasthttp.RequestCtx) {
	var req transport.PresetRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdatePreset(stdCtx, param(ctx, "id"), req.ToPreset())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete shift preset
// @Tags shifts
// @Router /api/v1/shift-presets/{id} [delete]
func (h *ShiftHandler) DeletePreset(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeletePreset(stdCtx, param(ctx, "id")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Shifts applied to a date
// @Tags shifts
// @Router /api/v1/shifts/{date} [get]
func (h *ShiftHandler) GetShifts(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	shifts, err := h.uc.Shifts(param(ctx, "date"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondList(ctx, shifts, len(shifts))
}

// @Summary Append a shift to a date
// @Tags shifts
// @Router /api/v1/shifts/{date} [post]
func (h *ShiftHandler) AssignShift(ctx *fasthttp.RequestCtx) {
	var req transport.ShiftsRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	shifts, err := h.uc.AssignShift(stdCtx, param(ctx, "date"), req.PresetID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, shifts)
}

// @Summary Replace the shifts of a date
// @Tags shifts
// @Router /api/v1/shifts/{date} [put]
func (h *ShiftHandler) SetShifts(ctx *fasthttp.RequestCtx) {
	var req transport.ShiftsRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	shifts := []domain.AppliedShift{}
	var err error
	if len(req.PresetIDs) == 0 {
		err = h.uc.ClearShifts(stdCtx, param(ctx, "date"))
	} else {
		shifts, err = h.uc.SetShifts(stdCtx, param(ctx, "date"), req.PresetIDs)
	}
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondList(ctx, shifts, len(shifts))
}

// @Summary Clear the shifts of a date
// @Tags shifts
// @Router /api/v1/shifts/{date} [delete]
func (h *ShiftHandler) ClearShifts(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ClearShifts(stdCtx, param(ctx, "date")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}
