package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/listline/engine/api/handler"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/v1/tasks", handlers.Task.GetTasks)
	r.POST("/api/v1/tasks", handlers.Task.CreateTask)
	r.GET("/api/v1/tasks/stats", handlers.Task.GetStats)
	r.POST("/api/v1/tasks/archive-completed", handlers.Task.ArchiveCompleted)
	r.PUT("/api/v1/tasks/{id}", handlers.Task.UpdateTask)
	r.DELETE("/api/v1/tasks/{id}", handlers.Task.DeleteTask)
	r.POST("/api/v1/tasks/{id}/toggle", handlers.Task.ToggleTask)
	r.POST("/api/v1/tasks/{id}/archive", handlers.Task.ArchiveTask)
	r.POST("/api/v1/tasks/{id}/unarchive", handlers.Task.UnarchiveTask)
	r.POST("/api/v1/tasks/{id}/position", handlers.Task.MoveTask)

	return r
}
