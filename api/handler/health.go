package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/api/transport"
	"github.com/mo-tomi/nowtask8/internal/infrastructure/monitor"
	"github.com/mo-tomi/nowtask8/pkg/httpcontext"
)

// StatusSource is satisfied by *monitor.Monitor.
type StatusSource interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusSource
	today   func() string
	details func() any
}

type HealthOption func(*HealthHandler)

// WithStorageDetails adds backend-specific figures under "storage_details".
func WithStorageDetails(fn func() any) HealthOption {
	return func(h *HealthHandler) { h.details = fn }
}

func NewHealthHandler(mon StatusSource, today func() string, adapter *httpcontext.Adapter, logger *zap.Logger, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		today:       today,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]any{
		"timestamp": time.Now().UTC(),
		"today":     h.today(),
		"storage":   status,
	}
	if h.details != nil {
		payload["storage_details"] = h.details()
	}

	if status.Storage {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "storage unavailable", payload))
}
