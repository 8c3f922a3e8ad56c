package router

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap/zaptest"

	apiHandler "github.com/shxlzz/To-Do-List/api/handler"
	"github.com/shxlzz/To-Do-List/internal/infrastructure/monitor"
	"github.com/shxlzz/To-Do-List/internal/middleware"
	"github.com/shxlzz/To-Do-List/internal/testutil"
	"github.com/shxlzz/To-Do-List/pkg/httpcontext"
	"github.com/shxlzz/To-Do-List/repository"
	"github.com/shxlzz/To-Do-List/usecase/account"
	"github.com/shxlzz/To-Do-List/usecase/app"
)

const secret = "test-secret"

type staticStatus monitor.Status

func (s staticStatus) GetStatus() monitor.Status { return monitor.Status(s) }

type response struct {
	Status    string          `json:"status"`
	Code      string          `json:"code"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

type server struct {
	t       *testing.T
	handler fasthttp.RequestHandler
}

func newServer(t *testing.T, online bool) *server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	kv := testutil.NewMemStore()
	accounts, err := account.Open(context.Background(),
		repository.NewAccountRepository(kv),
		repository.NewSessionRepository(kv),
		account.PlainHasher{},
		logger,
	)
	if err != nil {
		t.Fatalf("open accounts: %v", err)
	}
	application := app.New(accounts, nil, logger)
	adapter := httpcontext.NewAdapter(time.Second)

	r := New(Handlers{
		Auth:   apiHandler.NewAuthHandler(application, apiHandler.TokenConfig{Secret: secret, Issuer: "todo"}, adapter, logger),
		Task:   apiHandler.NewTaskHandler(application, adapter, logger),
		Theme:  apiHandler.NewThemeHandler(application, adapter, logger),
		Health: apiHandler.NewHealthHandler(staticStatus{Backend: "bolt", Online: online}, adapter, logger),
	}, middleware.JWTAuth(secret, logger))
	return &server{t: t, handler: r.Handler}
}

func (s *server) do(method, path, token, body string) (int, response) {
	s.t.Helper()
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if token != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	s.handler(&ctx)

	var resp response
	if len(ctx.Response.Body()) > 0 {
		if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, ctx.Response.Body(), err)
		}
	}
	return ctx.Response.StatusCode(), resp
}

func (s *server) login(username string) string {
	s.t.Helper()
	creds := `{"username":"` + username + `","password":"pw"}`
	if status, _ := s.do("POST", "/api/v1/auth/register", "", creds); status != fasthttp.StatusCreated {
		s.t.Fatalf("register %s: status %d", username, status)
	}
	status, resp := s.do("POST", "/api/v1/auth/login", "", creds)
	if status != fasthttp.StatusOK {
		s.t.Fatalf("login %s: status %d", username, status)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &login); err != nil || login.Token == "" {
		s.t.Fatalf("login token missing: %s", resp.Data)
	}
	return login.Token
}

func snapshotOf(t *testing.T, resp response) app.Snapshot {
	t.Helper()
	var res app.Result
	if err := json.Unmarshal(resp.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return res.Snapshot
}

func TestTaskRoutes(t *testing.T) {
	s := newServer(t, true)
	token := s.login("alice")

	for _, text := range []string{"a", "b", "c", "d", "e"} {
		if status, _ := s.do("POST", "/api/v1/tasks", token, `{"text":"`+text+`"}`); status != fasthttp.StatusCreated {
			t.Fatalf("add %s: status %d", text, status)
		}
	}

	status, resp := s.do("GET", "/api/v1/tasks", token, "")
	if status != fasthttp.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	view := snapshotOf(t, resp).View
	if len(view.Items) != 3 || !view.ShowMore {
		t.Fatalf("expected truncated view, got %+v", view)
	}

	if status, _ := s.do("POST", "/api/v1/tasks/4/toggle", token, ""); status != fasthttp.StatusOK {
		t.Fatalf("toggle: status %d", status)
	}
	_, resp = s.do("POST", "/api/v1/tasks/expand", token, "")
	view = snapshotOf(t, resp).View
	if len(view.Items) != 5 || view.ShowMore || !view.Items[4].Task.Completed {
		t.Fatalf("unexpected expanded view %+v", view)
	}

	status, _ = s.do("DELETE", "/api/v1/tasks/0", token, "")
	if status != fasthttp.StatusOK {
		t.Fatalf("delete: status %d", status)
	}
	status, resp = s.do("DELETE", "/api/v1/tasks/9", token, "")
	if status != fasthttp.StatusNotFound || resp.Code != "OUT_OF_RANGE" {
		t.Fatalf("expected 404 OUT_OF_RANGE, got %d %s", status, resp.Code)
	}
	status, resp = s.do("DELETE", "/api/v1/tasks/first", token, "")
	if status != fasthttp.StatusBadRequest || resp.Code != "INVALID" {
		t.Fatalf("expected 400 INVALID, got %d %s", status, resp.Code)
	}
}

func TestAuthErrors(t *testing.T) {
	s := newServer(t, true)
	s.login("alice")

	status, resp := s.do("POST", "/api/v1/auth/register", "", `{"username":"alice","password":"x"}`)
	if status != fasthttp.StatusConflict || resp.Code != "CONFLICT" {
		t.Fatalf("expected 409, got %d %s", status, resp.Code)
	}
	status, resp = s.do("POST", "/api/v1/auth/login", "", `{"username":"alice","password":"x"}`)
	if status != fasthttp.StatusUnauthorized || resp.Code != "UNAUTHORIZED" {
		t.Fatalf("expected 401, got %d %s", status, resp.Code)
	}
	status, _ = s.do("POST", "/api/v1/auth/login", "", `not json`)
	if status != fasthttp.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	status, _ = s.do("GET", "/api/v1/tasks", "", "")
	if status != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
}

func TestTokenMustMatchActiveSession(t *testing.T) {
	s := newServer(t, true)
	aliceToken := s.login("alice")
	s.login("bob")

	status, resp := s.do("GET", "/api/v1/tasks", aliceToken, "")
	if status != fasthttp.StatusUnauthorized || resp.Code != "NO_SESSION" {
		t.Fatalf("expected stale token rejected, got %d %s", status, resp.Code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	s := newServer(t, true)
	token := s.login("alice")

	if status, _ := s.do("POST", "/api/v1/auth/logout", token, ""); status != fasthttp.StatusOK {
		t.Fatalf("logout: status %d", status)
	}
	status, _ := s.do("GET", "/api/v1/tasks", token, "")
	if status != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}

func TestThemeRoutes(t *testing.T) {
	s := newServer(t, true)
	token := s.login("alice")

	status, resp := s.do("PUT", "/api/v1/themes/active", token, `{"theme":"premium-gold","confirm":false}`)
	if status != fasthttp.StatusOK {
		t.Fatalf("select: status %d", status)
	}
	if snap := snapshotOf(t, resp); snap.Theme != "default" || snap.IsPremium {
		t.Fatalf("declined unlock changed state: %+v", snap)
	}

	status, resp = s.do("PUT", "/api/v1/themes/active", token, `{"theme":"neon"}`)
	if status != fasthttp.StatusBadRequest || resp.Code != "INVALID" {
		t.Fatalf("expected unknown theme rejected, got %d %s", status, resp.Code)
	}

	_, resp = s.do("POST", "/api/v1/themes/unlock", token, `{"confirm":true}`)
	if snap := snapshotOf(t, resp); !snap.IsPremium {
		t.Fatalf("unlock did not grant premium: %+v", snap)
	}

	status, resp = s.do("GET", "/api/v1/themes", token, "")
	if status != fasthttp.StatusOK {
		t.Fatalf("themes: status %d", status)
	}
	var themes struct {
		Premium bool `json:"premium"`
		Themes  []struct {
			Locked bool `json:"locked"`
		} `json:"themes"`
	}
	if err := json.Unmarshal(resp.Data, &themes); err != nil {
		t.Fatalf("decode themes: %v", err)
	}
	if !themes.Premium || len(themes.Themes) != 10 {
		t.Fatalf("unexpected catalog %+v", themes)
	}
	for _, th := range themes.Themes {
		if th.Locked {
			t.Fatal("premium account still sees locked themes")
		}
	}
}

func TestHealth(t *testing.T) {
	if status, resp := newServer(t, true).do("GET", "/health", "", ""); status != fasthttp.StatusOK || resp.Status != "success" {
		t.Fatalf("expected healthy, got %d %s", status, resp.Status)
	}
	if status, resp := newServer(t, false).do("GET", "/health", "", ""); status != fasthttp.StatusServiceUnavailable || resp.Code != "DEGRADED" {
		t.Fatalf("expected degraded, got %d %s", status, resp.Code)
	}
}

func TestResponsesCarryRequestID(t *testing.T) {
	s := newServer(t, true)
	status, resp := s.do("POST", "/api/v1/auth/register", "", `{"username":"ann","password":"pw"}`)
	if status != fasthttp.StatusCreated {
		t.Fatalf("register: status %d", status)
	}
	if resp.RequestID == "" {
		t.Fatal("expected request id in envelope")
	}
}
