package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/api/transport"
	"github.com/mo-tomi/nowtask8/pkg/httpcontext"
	"github.com/mo-tomi/nowtask8/usecase/planner"
)

// TemplateHandler serves task templates and multi-day patterns.
type TemplateHandler struct {
	baseHandler
	uc *planner.UseCase
}

func NewTemplateHandler(uc *planner.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List templates
// @Tags templates
// @Router /api/v1/templates [get]
func (h *TemplateHandler) GetTemplates(ctx *fasthttp.RequestCtx) {
	templates := h.uc.ListTemplates()
	h.respondList(ctx, templates, len(templates))
}

// @Summary Create template
// @Tags templates
// @Router /api/v1/templates [post]
func (h *TemplateHandler) CreateTemplate(ctx *fasthttp.RequestCtx) {
	var req transport.TemplateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTemplate(stdCtx, req.ToTemplate())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update template
// @Tags templates
// @Router /api/v1/templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(ctx *fasthttp.RequestCtx) {
	var req transport.TemplateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTemplate(stdCtx, param(ctx, "id"), req.ToTemplate())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete template
// @Tags templates
// @Router /api/v1/templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTemplate(stdCtx, param(ctx, "id")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Create a task from a template
// @Tags templates
// @Router /api/v1/templates/{id}/apply [post]
func (h *TemplateHandler) ApplyTemplate(ctx *fasthttp.RequestCtx) {
	var req transport.ApplyRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.ApplyTemplate(stdCtx, param(ctx, "id"), h.dateOrToday(req.Date), req.StartTime)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, task)
}

// @Summary List multi-day patterns
// @Tags templates
// @Router /api/v1/patterns [get]
func (h *TemplateHandler) GetPatterns(ctx *fasthttp.RequestCtx) {
	patterns := h.uc.ListPatterns()
	h.respondList(ctx, patterns, len(patterns))
}

// @Summary Create multi-day pattern
// @Tags templates
// @Router /api/v1/patterns [post]
func (h *TemplateHandler) CreatePattern(ctx *fasthttp.RequestCtx) {
	var req transport.PatternRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreatePattern(stdCtx, req.ToPattern())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Delete multi-day pattern
// @Tags templates
// @Router /api/v1/patterns/{id} [delete]
func (h *TemplateHandler) DeletePattern(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeletePattern(stdCtx, param(ctx, "id")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Lay a pattern out from a date
// @Tags templates
// @Router /api/v1/patterns/{id}/apply [post]
func (h *TemplateHandler) ApplyPattern(ctx *fasthttp.RequestCtx) {
	var req transport.ApplyRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	res, err := h.uc.ApplyPattern(stdCtx, param(ctx, "id"), h.dateOrToday(req.Date))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, res)
}

func (h *TemplateHandler) dateOrToday(key string) string {
	if key == "" {
		return h.uc.Today()
	}
	return key
}
