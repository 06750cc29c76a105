package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/api/transport"
	"github.com/mo-tomi/nowtask8/pkg/httpcontext"
	"github.com/mo-tomi/nowtask8/usecase/planner"
)

type RoutineHandler struct {
	baseHandler
	uc *planner.UseCase
}

func NewRoutineHandler(uc *planner.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *RoutineHandler {
	return &RoutineHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List routines
// @Tags routines
// @Router /api/v1/routines [get]
func (h *RoutineHandler) GetRoutines(ctx *fasthttp.RequestCtx) {
	routines := h.uc.ListRoutines()
	h.respondList(ctx, routines, len(routines))
}

// @Summary Create routine
// @Tags routines
// @Router /api/v1/routines [post]
func (h *RoutineHandler) CreateRoutine(ctx *fasthttp.RequestCtx) {
	var req transport.RoutineRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateRoutine(stdCtx, req.ToRoutine())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update routine
// @Tags routines
// @Router /api/v1/routines/{id} [put]
func (h *RoutineHandler) UpdateRoutine(ctx *fasthttp.RequestCtx) {
	var req transport.RoutineRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateRoutine(stdCtx, param(ctx, "id"), req.ToRoutine())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete routine
// @Tags routines
// @Router /api/v1/routines/{id} [delete]
func (h *RoutineHandler) DeleteRoutine(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteRoutine(stdCtx, param(ctx, "id")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Exclude a date from a routine
// @Tags routines
// @Router /api/v1/routines/{id}/exclusions/{date} [post]
func (h *RoutineHandler) AddExclusion(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	routine, err := h.uc.AddExcludeDate(stdCtx, param(ctx, "id"), param(ctx, "date"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, routine)
}

// @Summary Remove a date exclusion
// @Tags routines
// @Router /api/v1/routines/{id}/exclusions/{date} [delete]
func (h *RoutineHandler) RemoveExclusion(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	routine, err := h.uc.RemoveExcludeDate(stdCtx, param(ctx, "id"), param(ctx, "date"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, routine)
}
