package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/api/transport"
	"github.com/shxlzz/To-Do-List/internal/middleware"
	"github.com/shxlzz/To-Do-List/pkg/httpcontext"
	"github.com/shxlzz/To-Do-List/usecase/app"
)

// TokenConfig controls the bearer tokens issued on login.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type AuthHandler struct {
	baseHandler
	tokens TokenConfig
}

func NewAuthHandler(application Application, tokens TokenConfig, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	if tokens.TTL <= 0 {
		tokens.TTL = time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(application, adapter, logger),
		tokens:      tokens,
	}
}

// @Summary Register an account
// @Tags auth
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.CredentialsRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.execute(ctx, stdCtx, http.StatusCreated, app.CmdRegister, app.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
}

// @Summary Start the session and issue a bearer token
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.CredentialsRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	res, err := h.app.Execute(stdCtx, app.CmdAuthenticate, app.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	token, expiresAt, err := middleware.IssueToken(h.tokens.Secret, h.tokens.Issuer, req.Username, h.tokens.TTL)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Result:    res,
	})
}

// @Summary End the session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, ok := h.sessionContext(ctx)
	if !ok {
		return
	}
	defer cancel()

	h.execute(ctx, stdCtx, http.StatusOK, app.CmdLogout, nil)
}
