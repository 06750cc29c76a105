package handler

import (
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/api/transport"
	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/pkg/httpcontext"
	"github.com/mo-tomi/nowtask8/repository"
	"github.com/mo-tomi/nowtask8/usecase/planner"
)

type TaskHandler struct {
	baseHandler
	uc *planner.UseCase
}

func NewTaskHandler(uc *planner.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// groupedTasks is the list response when tasks are grouped by day.
type groupedTasks struct {
	Groups    []repository.DateGroup `json:"groups"`
	Completed []domain.Task          `json:"completed"`
}

// @Summary List tasks
// @Tags tasks
// @Param search query string false "name substring"
// @Param priority query string false "comma separated priorities"
// @Param tag query string false "comma separated tags"
// @Param status query string false "completed or incomplete"
// @Param group query string false "date"
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	filter, err := parseFilter(ctx.QueryArgs())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	if string(ctx.QueryArgs().Peek("group")) == "date" {
		groups, completed := h.uc.GroupByDate(filter)
		h.respondList(ctx, groupedTasks{Groups: groups, Completed: completed}, len(groups))
		return
	}
	tasks := h.uc.ListTasks(filter)
	h.respondList(ctx, tasks, len(tasks))
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(param(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	task, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	task, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, param(ctx, "id"), task)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, param(ctx, "id")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Toggle task completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.ToggleComplete(stdCtx, param(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Add subtask
// @Tags tasks
// @Router /api/v1/tasks/{id}/subtasks [post]
func (h *TaskHandler) AddSubtask(ctx *fasthttp.RequestCtx) {
	var req transport.SubtaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.AddSubtask(stdCtx, param(ctx, "id"), req.ParentID, req.ToSubtask())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, task)
}

// @Summary Update subtask
// @Tags tasks
// @Router /api/v1/tasks/{id}/subtasks/{subtaskID} [put]
func (h *TaskHandler) UpdateSubtask(ctx *fasthttp.RequestCtx) {
	var req transport.SubtaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.UpdateSubtask(stdCtx, param(ctx, "id"), param(ctx, "subtaskID"), req.Name, req.Duration)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Toggle subtask completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/subtasks/{subtaskID}/toggle [post]
func (h *TaskHandler) ToggleSubtask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.ToggleSubtask(stdCtx, param(ctx, "id"), param(ctx, "subtaskID"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Delete subtask
// @Tags tasks
// @Router /api/v1/tasks/{id}/subtasks/{subtaskID} [delete]
func (h *TaskHandler) DeleteSubtask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.RemoveSubtask(stdCtx, param(ctx, "id"), param(ctx, "subtaskID"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary List tags
// @Tags tasks
// @Router /api/v1/tags [get]
func (h *TaskHandler) GetTags(ctx *fasthttp.RequestCtx) {
	tags := h.uc.Tags()
	h.respondList(ctx, tags, len(tags))
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx) (domain.Task, bool) {
	var req transport.TaskRequest
	if !h.decode(ctx, &req) {
		return domain.Task{}, false
	}
	task, err := req.ToTask()
	if err != nil {
		h.respondError(ctx, ctx, err)
		return domain.Task{}, false
	}
	return task, true
}

func parseFilter(args *fasthttp.Args) (repository.TaskFilter, error) {
	filter := repository.TaskFilter{
		Search: string(args.Peek("search")),
		Tags:   splitList(args.PeekMulti("tag")),
	}
	for _, label := range splitList(args.PeekMulti("priority")) {
		p, err := domain.ParsePriority(label)
		if err != nil {
			return repository.TaskFilter{}, err
		}
		filter.Priorities = append(filter.Priorities, p)
	}
	for _, s := range splitList(args.PeekMulti("status")) {
		status := repository.Status(strings.ToLower(s))
		if status != repository.StatusCompleted && status != repository.StatusIncomplete {
			return repository.TaskFilter{}, domain.Invalid(domain.ErrInvalidPayload, "status must be completed or incomplete")
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	return filter, nil
}

// splitList flattens repeated and comma separated query values.
func splitList(values [][]byte) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(string(v), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
