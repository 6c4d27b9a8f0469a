package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/listline/engine/api/transport"
	"github.com/listline/engine/domain"
	"github.com/listline/engine/pkg/httpcontext"
	"github.com/listline/engine/usecase/tasklist"
)

type TaskHandler struct {
	baseHandler
	model *tasklist.Model
}

func NewTaskHandler(model *tasklist.Model, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		model:       model,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	includeArchived := string(ctx.QueryArgs().Peek("include_archived")) == "true"

	if term := string(ctx.QueryArgs().Peek("q")); term != "" {
		h.respondSuccess(ctx, http.StatusOK, h.model.Search(term, includeArchived))
		return
	}

	switch string(ctx.QueryArgs().Peek("filter")) {
	case "all":
		h.respondSuccess(ctx, http.StatusOK, h.model.All())
	case "archived":
		h.respondSuccess(ctx, http.StatusOK, h.model.Archived())
	default:
		h.respondSuccess(ctx, http.StatusOK, h.model.Active())
	}
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseTaskRequest(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.model.Add(stdCtx, req.Text)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, task)
}

// @Summary Edit task text
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}
	req, ok := h.parseTaskRequest(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.model.Edit(stdCtx, id, req.Text)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	if task == nil {
		h.respondNotFound(ctx)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Toggle completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	h.mutateByID(ctx, h.model.ToggleComplete)
}

// @Summary Archive task
// @Tags tasks
// @Router /api/v1/tasks/{id}/archive [post]
func (h *TaskHandler) ArchiveTask(ctx *fasthttp.RequestCtx) {
	h.mutateByID(ctx, h.model.Archive)
}

// @Summary Unarchive task
// @Tags tasks
// @Router /api/v1/tasks/{id}/unarchive [post]
func (h *TaskHandler) UnarchiveTask(ctx *fasthttp.RequestCtx) {
	h.mutateByID(ctx, h.model.Unarchive)
}

// @Summary Archive all completed tasks
// @Tags tasks
// @Router /api/v1/tasks/archive-completed [post]
func (h *TaskHandler) ArchiveCompleted(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	count := h.model.ArchiveCompleted(stdCtx)
	h.respondSuccess(ctx, http.StatusOK, transport.ArchiveCompletedResponse{Archived: count})
}

// @Summary Move task within display order
// @Tags tasks
// @Router /api/v1/tasks/{id}/position [post]
func (h *TaskHandler) MoveTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	var req transport.PositionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if !h.model.Reorder(stdCtx, id, req.Index) {
		if h.model.Get(id) == nil {
			h.respondNotFound(ctx)
			return
		}
		h.respondInvalid(ctx, "target index out of range")
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if !h.model.Delete(stdCtx, id) {
		h.respondNotFound(ctx)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Collection statistics
// @Tags tasks
// @Router /api/v1/tasks/stats [get]
func (h *TaskHandler) GetStats(ctx *fasthttp.RequestCtx) {
	includeArchived := string(ctx.QueryArgs().Peek("include_archived")) == "true"
	h.respondSuccess(ctx, http.StatusOK, h.model.Stats(includeArchived))
}

func (h *TaskHandler) mutateByID(ctx *fasthttp.RequestCtx, op func(ctx context.Context, id string) *domain.Task) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task := op(stdCtx, id)
	if task == nil {
		h.respondNotFound(ctx)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

func (h *TaskHandler) parseTaskRequest(ctx *fasthttp.RequestCtx) (transport.TaskRequest, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return req, false
	}
	return req, true
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return "", false
	}
	return id, true
}
