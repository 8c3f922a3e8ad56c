package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/shxlzz/To-Do-List/pkg/logger"
)

// HeaderRequestID is read from requests and echoed on responses.
const HeaderRequestID = "X-Request-ID"

// UserValueUsername is the fasthttp user value the auth middleware sets.
const UserValueUsername = "username"

// Adapter turns a fasthttp request into a deadline-bound context that carries the request id and
// the authenticated username.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach derives the request context. The caller must call the returned cancel func.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
	if ctx == nil {
		return appLogger.ContextWithRequestID(stdCtx, uuid.NewString()), cancel
	}

	reqID := requestID(&ctx.Request.Header)
	ctx.Response.Header.Set(HeaderRequestID, reqID)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)

	if username, _ := ctx.UserValue(UserValueUsername).(string); username != "" {
		stdCtx = appLogger.ContextWithUsername(stdCtx, username)
	}
	return stdCtx, cancel
}

// Username returns the authenticated username carried by ctx.
func Username(ctx context.Context) string {
	return appLogger.Username(ctx)
}

func requestID(h *fasthttp.RequestHeader) string {
	if id := strings.TrimSpace(string(h.Peek(HeaderRequestID))); id != "" {
		return id
	}
	return uuid.NewString()
}
