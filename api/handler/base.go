package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/api/transport"
	"github.com/shxlzz/To-Do-List/domain"
	"github.com/shxlzz/To-Do-List/pkg/httpcontext"
	appLogger "github.com/shxlzz/To-Do-List/pkg/logger"
	"github.com/shxlzz/To-Do-List/usecase/app"
)

// Application is the slice of *app.App the handlers drive.
type Application interface {
	Execute(ctx context.Context, name string, payload interface{}) (*app.Result, error)
	Snapshot(ctx context.Context) (*app.Result, error)
	CurrentUser(ctx context.Context) string
}

var _ Application = (*app.App)(nil)

type baseHandler struct {
	app     Application
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(application Application, adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return baseHandler{app: application, adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return h.adapter.Attach(ctx)
}

// sessionContext opens a request context and checks the token belongs to the active session.
// The returned context is bound to the token's user so the check is repeated when the command runs.
func (h baseHandler) sessionContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc, bool) {
	stdCtx, cancel := h.requestContext(ctx)
	username := httpcontext.Username(stdCtx)
	if username == "" || h.app.CurrentUser(stdCtx) != username {
		cancel()
		appLogger.WithContext(stdCtx, h.logger).Info("token does not match active session")
		h.respondError(ctx, domain.ErrNoActiveSession)
		return nil, nil, false
	}
	return app.ForUser(stdCtx, username), cancel, true
}

func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload"))
		return false
	}
	return true
}

// execute runs a command and writes its result.
func (h baseHandler) execute(ctx *fasthttp.RequestCtx, stdCtx context.Context, status int, name string, payload interface{}) {
	res, err := h.app.Execute(stdCtx, name, payload)
	if err != nil {
		appLogger.WithContext(stdCtx, h.logger).Debug("command failed", zap.String("command", name), zap.Error(err))
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, status, res)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload.WithRequestID(string(ctx.Response.Header.Peek(httpcontext.HeaderRequestID))))
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, err.Error()))
}

var statusByCode = map[domain.ErrorCode]int{
	domain.ErrCodeConflict:     http.StatusConflict,
	domain.ErrCodeUnauthorized: http.StatusUnauthorized,
	domain.ErrCodeNoSession:    http.StatusUnauthorized,
	domain.ErrCodeOutOfRange:   http.StatusNotFound,
	domain.ErrCodeNotFound:     http.StatusNotFound,
	domain.ErrCodeInvalid:      http.StatusBadRequest,
}

// mapError picks the HTTP status for err. Unclassified and storage failures are internal errors.
func mapError(err error) (int, string) {
	code := domain.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
	return status, string(code)
}
