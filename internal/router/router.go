package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/shxlzz/To-Do-List/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Theme  *apiHandler.ThemeHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)

	// Protected routes
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.POST("/api/v1/tasks/expand", authMiddleware(handlers.Task.ExpandView))
	r.POST("/api/v1/tasks/{position}/toggle", authMiddleware(handlers.Task.ToggleTask))
	r.DELETE("/api/v1/tasks/{position}", authMiddleware(handlers.Task.DeleteTask))

	r.GET("/api/v1/themes", authMiddleware(handlers.Theme.ListThemes))
	r.PUT("/api/v1/themes/active", authMiddleware(handlers.Theme.SelectTheme))
	r.POST("/api/v1/themes/unlock", authMiddleware(handlers.Theme.UnlockAll))

	return r
}
