package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/api/transport"
	"github.com/shxlzz/To-Do-List/domain"
	"github.com/shxlzz/To-Do-List/pkg/httpcontext"
	"github.com/shxlzz/To-Do-List/usecase/app"
)

type TaskHandler struct {
	baseHandler
}

func NewTaskHandler(application Application, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(application, adapter, logger),
	}
}

// @Summary Current render list
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
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
	h.respondSuccess(ctx, http.StatusOK, res)
}

// @Summary Add task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.TaskRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel, ok := h.sessionContext(ctx)
	if !ok {
		return
	}
	defer cancel()

	h.execute(ctx, stdCtx, http.StatusCreated, app.CmdAddTask, app.AddTaskInput{Text: req.Text})
}

// @Summary Show the whole list
// @Tags tasks
// @Router /api/v1/tasks/expand [post]
func (h *TaskHandler) ExpandView(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel, ok := h.sessionContext(ctx)
	if !ok {
		return
	}
	defer cancel()

	h.execute(ctx, stdCtx, http.StatusOK, app.CmdExpandView, nil)
}

// @Summary Toggle completion
// @Tags tasks
// @Router /api/v1/tasks/{position}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	h.positional(ctx, app.CmdToggle)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{position} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	h.positional(ctx, app.CmdDelete)
}

func (h *TaskHandler) positional(ctx *fasthttp.RequestCtx, command string) {
	position, err := positionParam(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	stdCtx, cancel, ok := h.sessionContext(ctx)
	if !ok {
		return
	}
	defer cancel()

	h.execute(ctx, stdCtx, http.StatusOK, command, app.PositionInput{Position: position})
}

func positionParam(ctx *fasthttp.RequestCtx) (int, error) {
	raw, _ := ctx.UserValue("position").(string)
	position, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.WrapError(domain.ErrCodeInvalid, "position must be an integer", err)
	}
	return position, nil
}
