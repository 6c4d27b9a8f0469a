package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/listline/engine/domain"
	"github.com/listline/engine/repository/memory"
	"github.com/listline/engine/usecase/tasklist"
)

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func newTestHandler(t *testing.T) (*TaskHandler, *tasklist.Model) {
	t.Helper()
	model := tasklist.New(memory.New(), nil, nil, tasklist.Config{})
	return NewTaskHandler(model, nil, nil), model
}

func newRequestCtx(method, uri, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	return &ctx
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	return env
}

func TestCreateTask(t *testing.T) {
	h, model := newTestHandler(t)

	ctx := newRequestCtx(http.MethodPost, "/api/v1/tasks", `{"text":"  write report  "}`)
	h.CreateTask(ctx)

	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	env := decodeEnvelope(t, ctx)
	assert.Equal(t, "success", env.Status)

	var task domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "write report", task.Text)
	assert.NotNil(t, model.Get(task.ID))
}

func TestCreateTaskRejectsBlankText(t *testing.T) {
	h, model := newTestHandler(t)

	ctx := newRequestCtx(http.MethodPost, "/api/v1/tasks", `{"text":"   "}`)
	h.CreateTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	env := decodeEnvelope(t, ctx)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, string(domain.ErrCodeInvalid), env.Code)
	assert.NotEmpty(t, env.Error)
	assert.Equal(t, 0, model.Len())
}

func TestCreateTaskRejectsMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)

	ctx := newRequestCtx(http.MethodPost, "/api/v1/tasks", `{"text":`)
	h.CreateTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, string(domain.ErrCodeInvalid), decodeEnvelope(t, ctx).Code)
}

func TestUpdateTaskUnknownID(t *testing.T) {
	h, _ := newTestHandler(t)

	ctx := newRequestCtx(http.MethodPut, "/api/v1/tasks/missing", `{"text":"new"}`)
	ctx.SetUserValue("id", "missing")
	h.UpdateTask(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, string(domain.ErrCodeNotFound), decodeEnvelope(t, ctx).Code)
}

func TestDeleteTaskReturnsBareNoContent(t *testing.T) {
	h, model := newTestHandler(t)

	task, err := model.Add(context.Background(), "doomed")
	require.NoError(t, err)

	ctx := newRequestCtx(http.MethodDelete, "/api/v1/tasks/"+task.ID, "")
	ctx.SetUserValue("id", task.ID)
	h.DeleteTask(ctx)

	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Response.Body(), "204 responses must not carry a body")
	assert.Nil(t, model.Get(task.ID))
}

func TestDeleteTaskUnknownID(t *testing.T) {
	h, _ := newTestHandler(t)

	ctx := newRequestCtx(http.MethodDelete, "/api/v1/tasks/missing", "")
	ctx.SetUserValue("id", "missing")
	h.DeleteTask(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

func TestMoveTaskReturnsBareNoContent(t *testing.T) {
	h, model := newTestHandler(t)
	bg := context.Background()

	_, err := model.Add(bg, "first")
	require.NoError(t, err)
	task, err := model.Add(bg, "second")
	require.NoError(t, err)

	ctx := newRequestCtx(http.MethodPost, "/api/v1/tasks/"+task.ID+"/position", `{"index":1}`)
	ctx.SetUserValue("id", task.ID)
	h.MoveTask(ctx)

	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Response.Body(), "204 responses must not carry a body")
	assert.Equal(t, task.ID, model.All()[1].ID)
}

func TestMoveTaskOutOfRange(t *testing.T) {
	h, model := newTestHandler(t)

	task, err := model.Add(context.Background(), "only one")
	require.NoError(t, err)

	ctx := newRequestCtx(http.MethodPost, "/api/v1/tasks/"+task.ID+"/position", `{"index":5}`)
	ctx.SetUserValue("id", task.ID)
	h.MoveTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, string(domain.ErrCodeInvalid), decodeEnvelope(t, ctx).Code)
}

func TestToggleArchiveUnarchiveFlow(t *testing.T) {
	h, model := newTestHandler(t)

	task, err := model.Add(context.Background(), "todo")
	require.NoError(t, err)

	ctx := newRequestCtx(http.MethodPost, "/api/v1/tasks/"+task.ID+"/toggle", "")
	ctx.SetUserValue("id", task.ID)
	h.ToggleTask(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = newRequestCtx(http.MethodPost, "/api/v1/tasks/"+task.ID+"/archive", "")
	ctx.SetUserValue("id", task.ID)
	h.ArchiveTask(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var archived domain.Task
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, ctx).Data, &archived))
	assert.True(t, archived.Completed)
	assert.True(t, archived.Archived)

	ctx = newRequestCtx(http.MethodPost, "/api/v1/tasks/missing/unarchive", "")
	ctx.SetUserValue("id", "missing")
	h.UnarchiveTask(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

func TestGetTasksFiltersAndSearch(t *testing.T) {
	h, model := newTestHandler(t)
	bg := context.Background()

	kept, err := model.Add(bg, "buy coffee")
	require.NoError(t, err)
	gone, err := model.Add(bg, "old coffee note")
	require.NoError(t, err)
	require.NotNil(t, model.Archive(bg, gone.ID))

	ctx := newRequestCtx(http.MethodGet, "/api/v1/tasks?q=coffee", "")
	h.GetTasks(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, ctx).Data, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, kept.ID, tasks[0].ID)

	ctx = newRequestCtx(http.MethodGet, "/api/v1/tasks?q=coffee&include_archived=true", "")
	h.GetTasks(ctx)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, ctx).Data, &tasks))
	assert.Len(t, tasks, 2)

	ctx = newRequestCtx(http.MethodGet, "/api/v1/tasks?filter=archived", "")
	h.GetTasks(ctx)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, ctx).Data, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, gone.ID, tasks[0].ID)
}

func TestGetStats(t *testing.T) {
	h, model := newTestHandler(t)
	bg := context.Background()

	task, err := model.Add(bg, "a")
	require.NoError(t, err)
	require.NotNil(t, model.ToggleComplete(bg, task.ID))

	ctx := newRequestCtx(http.MethodGet, "/api/v1/tasks/stats", "")
	h.GetStats(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var stats tasklist.Stats
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, ctx).Data, &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 0, stats.Pending)
}
