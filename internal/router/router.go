package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/mo-tomi/nowtask8/api/handler"
	"github.com/mo-tomi/nowtask8/internal/middleware"
)

type Handlers struct {
	Task     *apiHandler.TaskHandler
	Day      *apiHandler.DayHandler
	Routine  *apiHandler.RoutineHandler
	Shift    *apiHandler.ShiftHandler
	Template *apiHandler.TemplateHandler
	Health   *apiHandler.HealthHandler
}

// New mounts the API. auth guards every route under /api/v1; nil means none.
func New(handlers Handlers, auth middleware.Middleware) *router.Router {
	if auth == nil {
		auth = middleware.None
	}
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	v1 := r.Group("/api/v1")

	v1.GET("/tasks", auth(handlers.Task.GetTasks))
	v1.POST("/tasks", auth(handlers.Task.CreateTask))
	v1.GET("/tasks/{id}", auth(handlers.Task.GetTask))
	v1.PUT("/tasks/{id}", auth(handlers.Task.UpdateTask))
	v1.DELETE("/tasks/{id}", auth(handlers.Task.DeleteTask))
	v1.POST("/tasks/{id}/toggle", auth(handlers.Task.ToggleTask))
	v1.POST("/tasks/{id}/subtasks", auth(handlers.Task.AddSubtask))
	v1.PUT("/tasks/{id}/subtasks/{subtaskID}", auth(handlers.Task.UpdateSubtask))
	v1.DELETE("/tasks/{id}/subtasks/{subtaskID}", auth(handlers.Task.DeleteSubtask))
	v1.POST("/tasks/{id}/subtasks/{subtaskID}/toggle", auth(handlers.Task.ToggleSubtask))
	v1.GET("/tags", auth(handlers.Task.GetTags))

	v1.GET("/days/{date}", auth(handlers.Day.GetDay))
	v1.POST("/days/{date}/generate", auth(handlers.Day.Generate))
	v1.GET("/stats", auth(handlers.Day.GetStats))
	v1.GET("/calendar/{year}/{month}", auth(handlers.Day.GetCalendar))

	v1.GET("/routines", auth(handlers.Routine.GetRoutines))
	v1.POST("/routines", auth(handlers.Routine.CreateRoutine))
	v1.PUT("/routines/{id}", auth(handlers.Routine.UpdateRoutine))
	v1.DELETE("/routines/{id}", auth(handlers.Routine.DeleteRoutine))
	v1.POST("/routines/{id}/exclusions/{date}", auth(handlers.Routine.AddExclusion))
	v1.DELETE("/routines/{id}/exclusions/{date}", auth(handlers.Routine.RemoveExclusion))

	v1.GET("/shift-presets", auth(handlers.Shift.GetPresets))
	v1.POST("/shift-presets", auth(handlers.Shift.CreatePreset))
	v1.PUT("/shift-presets/{id}", auth(handlers.Shift.UpdatePreset))
	v1.DELETE("/shift-presets/{id}", auth(handlers.Shift.DeletePreset))
	v1.GET("/shifts/{date}", auth(handlers.Shift.GetShifts))
	v1.POST("/shifts/{date}", auth(handlers.Shift.AssignShift))
	v1.PUT("/shifts/{date}", auth(handlers.Shift.SetShifts))
	v1.DELETE("/shifts/{date}", auth(handlers.Shift.ClearShifts))

	v1.GET("/templates", auth(handlers.Template.GetTemplates))
	v1.POST("/templates", auth(handlers.Template.CreateTemplate))
	v1.PUT("/templates/{id}", auth(handlers.Template.UpdateTemplate))
	v1.DELETE("/templates/{id}", auth(handlers.Template.DeleteTemplate))
	v1.POST("/templates/{id}/apply", auth(handlers.Template.ApplyTemplate))
	v1.GET("/patterns", auth(handlers.Template.GetPatterns))
	v1.POST("/patterns", auth(handlers.Template.CreatePattern))
	v1.DELETE("/patterns/{id}", auth(handlers.Template.DeletePattern))
	v1.POST("/patterns/{id}/apply", auth(handlers.Template.ApplyPattern))

	return r
}
