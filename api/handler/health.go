package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/api/transport"
	"github.com/shxlzz/To-Do-List/internal/infrastructure/monitor"
	"github.com/shxlzz/To-Do-List/pkg/httpcontext"
)

// StatusSource reports backend health.
type StatusSource interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusSource
}

func NewHealthHandler(mon StatusSource, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(nil, adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	storage := map[string]interface{}{
		"backend":    status.Backend,
		"online":     status.Online,
		"last_check": status.LastCheck,
	}
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"storage":   storage,
		"buffer": map[string]interface{}{
			"online": status.Buffer,
			"size":   status.BufferSize,
		},
	}

	if status.Online {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	storage["last_error"] = status.LastError
	storage["offline_since"] = status.OfflineSince
	env := transport.NewError("DEGRADED", "storage backend unreachable")
	env.Data = payload
	h.respondJSON(ctx, http.StatusServiceUnavailable, env)
}
