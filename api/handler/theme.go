package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/api/transport"
	"github.com/shxlzz/To-Do-List/pkg/httpcontext"
	"github.com/shxlzz/To-Do-List/usecase"
	"github.com/shxlzz/To-Do-List/usecase/app"
)

// ThemeHandler exposes the theme catalog. HTTP clients answer the premium prompt up front
// through the confirm field.
type ThemeHandler struct {
	baseHandler
}

func NewThemeHandler(application Application, adapter *httpcontext.Adapter, logger *zap.Logger) *ThemeHandler {
	return &ThemeHandler{
		baseHandler: newBaseHandler(application, adapter, logger),
	}
}

// @Summary Theme catalog with lock state
// @Tags themes
// @Router /api/v1/themes [get]
func (h *ThemeHandler) ListThemes(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, ok := h.sessionContext(ctx)
	if !ok {
		return
	}
	defer cancel()

	res, err := h.app.Snapshot(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"active":  res.Snapshot.Theme,
		"premium": res.Snapshot.IsPremium,
		"themes":  res.Snapshot.Themes,
	})
}

// @Summary Select the active theme
// @Tags themes
// @Router /api/v1/themes/active [put]
func (h *ThemeHandler) SelectTheme(ctx *fasthttp.RequestCtx) {
	var req transport.ThemeRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel, ok := h.sessionContext(ctx)
	if !ok {
		return
	}
	defer cancel()

	h.execute(ctx, stdCtx, http.StatusOK, app.CmdSelectTheme, app.SelectThemeInput{
		Theme:     req.Theme,
		Confirmer: usecase.Answer(req.Confirm),
	})
}

// @Summary Unlock every premium theme
// @Tags themes
// @Router /api/v1/themes/unlock [post]
func (h *ThemeHandler) UnlockAll(ctx *fasthttp.RequestCtx) {
	var req transport.UnlockRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel, ok := h.sessionContext(ctx)
	if !ok {
		return
	}
	defer cancel()

	h.execute(ctx, stdCtx, http.StatusOK, app.CmdUnlockAllThemes, app.UnlockInput{
		Confirmer: usecase.Answer(req.Confirm),
	})
}
