package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/mo-tomi/nowtask8/api/handler"
	"github.com/mo-tomi/nowtask8/internal/infrastructure/monitor"
	"github.com/mo-tomi/nowtask8/internal/middleware"
	"github.com/mo-tomi/nowtask8/pkg/httpcontext"
	"github.com/mo-tomi/nowtask8/pkg/timeutil"
	"github.com/mo-tomi/nowtask8/repository/memory"
	"github.com/mo-tomi/nowtask8/usecase/planner"
)

type staticStatus struct{ online bool }

func (s staticStatus) GetStatus() monitor.Status {
	return monitor.Status{Driver: "memory", Storage: s.online}
}

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Meta   json.RawMessage `json:"meta"`
}

type api struct {
	t       *testing.T
	handler fasthttp.RequestHandler
}

func newAPI(t *testing.T, auth middleware.Middleware) *api {
	t.Helper()
	zone := timeutil.NewZone(time.UTC)
	clock := timeutil.NewFakeClock(time.Date(2024, time.March, 13, 8, 0, 0, 0, time.UTC))
	n := 0
	uc := planner.New(memory.NewTaskStore(zone), memory.NewSnapshotRepository(), zone, clock, nil,
		planner.WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }))
	adapter := httpcontext.NewAdapter(time.Second)

	r := New(Handlers{
		Task:     apiHandler.NewTaskHandler(uc, adapter, nil),
		Day:      apiHandler.NewDayHandler(uc, adapter, nil),
		Routine:  apiHandler.NewRoutineHandler(uc, adapter, nil),
		Shift:    apiHandler.NewShiftHandler(uc, adapter, nil),
		Template: apiHandler.NewTemplateHandler(uc, adapter, nil),
		Health:   apiHandler.NewHealthHandler(staticStatus{online: true}, uc.Today, adapter, nil),
	}, auth)
	return &api{t: t, handler: r.Handler}
}

func (a *api) do(method, path, body string) (int, envelope) {
	a.t.Helper()
	var rc fasthttp.RequestCtx
	rc.Request.Header.SetMethod(method)
	rc.Request.SetRequestURI(path)
	if body != "" {
		rc.Request.Header.SetContentType("application/json")
		rc.Request.SetBodyString(body)
	}
	a.handler(&rc)

	var env envelope
	if len(rc.Response.Body()) > 0 {
		require.NoError(a.t, json.Unmarshal(rc.Response.Body(), &env))
	}
	return rc.Response.StatusCode(), env
}

func TestTaskLifecycle(t *testing.T) {
	a := newAPI(t, nil)

	status, env := a.do("POST", "/api/v1/tasks", `{"name":"write","start_time":"2024-03-13T09:00:00Z","end_time":"2024-03-13T10:00:00Z","duration":60,"priority":"high","tags":["work"]}`)
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		ID       string `json:"id"`
		Priority string `json:"priority"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "high", created.Priority)

	status, _ = a.do("POST", "/api/v1/tasks/"+created.ID+"/toggle", "")
	assert.Equal(t, http.StatusOK, status)

	status, env = a.do("GET", "/api/v1/tasks?status=completed&priority=high,low", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"count":1}`, string(env.Meta))

	status, _ = a.do("DELETE", "/api/v1/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, env = a.do("DELETE", "/api/v1/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestErrorMapping(t *testing.T) {
	a := newAPI(t, nil)

	status, env := a.do("POST", "/api/v1/tasks", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID", env.Code)

	status, _ = a.do("POST", "/api/v1/tasks", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do("GET", "/api/v1/tasks?status=maybe", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do("GET", "/api/v1/days/13-03-2024", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do("GET", "/api/v1/stats?period=year", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEndTimeWithoutStartIsDropped(t *testing.T) {
	a := newAPI(t, nil)

	status, env := a.do("POST", "/api/v1/tasks", `{"name":"read","end_time":"2024-03-13T10:00:00Z","duration":30}`)
	require.Equal(t, http.StatusCreated, status)
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotContains(t, created, "end_time")
	assert.NotContains(t, created, "start_time")
	assert.Equal(t, "read", created["name"])

	id, _ := created["id"].(string)
	status, env = a.do("PUT", "/api/v1/tasks/"+id, `{"name":"read more","end_time":"2024-03-13T11:00:00Z"}`)
	require.Equal(t, http.StatusOK, status)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.NotContains(t, updated, "end_time")
	assert.Equal(t, "read more", updated["name"])
}

func TestShiftLimitConflict(t *testing.T) {
	a := newAPI(t, nil)

	status, env := a.do("POST", "/api/v1/shift-presets", `{"name":"work","start_time":"09:00","end_time":"18:00","break_time":60,"create_task":true}`)
	require.Equal(t, http.StatusCreated, status)
	var preset struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &preset))

	body := fmt.Sprintf(`{"preset_id":%q}`, preset.ID)
	for i := 0; i < 2; i++ {
		status, _ = a.do("POST", "/api/v1/shifts/2024-03-13", body)
		require.Equal(t, http.StatusOK, status)
	}
	status, env = a.do("POST", "/api/v1/shifts/2024-03-13", body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Code)

	status, env = a.do("GET", "/api/v1/days/2024-03-13", "")
	require.Equal(t, http.StatusOK, status)
	var day struct {
		Shifts []string `json:"shifts"`
		Groups []struct {
			IsOverlap bool `json:"is_overlap"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &day))
	assert.Equal(t, []string{"work", "work"}, day.Shifts)
	require.Len(t, day.Groups, 1)
	assert.True(t, day.Groups[0].IsOverlap)
}

func TestRoutineGenerateAndCalendar(t *testing.T) {
	a := newAPI(t, nil)

	status, _ := a.do("POST", "/api/v1/routines", `{"name":"breakfast","start_time":"07:00","duration":30}`)
	require.Equal(t, http.StatusCreated, status)

	status, env := a.do("POST", "/api/v1/days/today/generate", "")
	require.Equal(t, http.StatusOK, status)
	var plan struct {
		Date string            `json:"date"`
		Add  []json.RawMessage `json:"add"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	assert.Equal(t, "2024-03-13", plan.Date)
	assert.Len(t, plan.Add, 1)

	status, env = a.do("GET", "/api/v1/calendar/2024/3", "")
	require.Equal(t, http.StatusOK, status)
	var month struct {
		Cells []struct {
			Date      string `json:"date"`
			TaskCount int    `json:"task_count"`
		} `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &month))
	assert.Len(t, month.Cells, 42)

	status, _ = a.do("GET", "/api/v1/calendar/2024/13", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthAndAuth(t *testing.T) {
	a := newAPI(t, middleware.JWTAuth("secret", "", nil))

	status, env := a.do("GET", "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", env.Status)

	status, env = a.do("GET", "/api/v1/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
}

func TestHealthIncludesStorageDetails(t *testing.T) {
	adapter := httpcontext.NewAdapter(time.Second)
	h := apiHandler.NewHealthHandler(staticStatus{online: false}, func() string { return "2024-03-13" }, adapter, nil,
		apiHandler.WithStorageDetails(func() any { return map[string]int{"read_tx": 3} }))

	var rc fasthttp.RequestCtx
	rc.Request.Header.SetMethod("GET")
	rc.Request.SetRequestURI("/health")
	h.Check(&rc)

	assert.Equal(t, http.StatusServiceUnavailable, rc.Response.StatusCode())
	var body struct {
		Code string `json:"code"`
		Meta struct {
			Today   string         `json:"today"`
			Details map[string]int `json:"storage_details"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rc.Response.Body(), &body))
	assert.Equal(t, "DEGRADED", body.Code)
	assert.Equal(t, "2024-03-13", body.Meta.Today)
	assert.Equal(t, 3, body.Meta.Details["read_tx"])
}
