package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/model"
	"todo-api/internal/domain/usecase/health"
	"todo-api/internal/domain/usecase/task"
	"todo-api/pkg/msg"
)

func TestMain(m *testing.M) {
	if err := msg.Init("../../../configs/messages.yml"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gateway := db.NewGormTaskGateway(conn)
	require.NoError(t, gateway.Migrate(context.Background()))

	e := echo.New()
	api := e.Group("/api")
	NewTaskController(api, task.NewTaskUseCase(gateway, nil, "")).InitTaskRoutes()
	NewHealthController(api, health.NewHealthUseCase(db.NewGormHealthDBGateway(conn), nil)).InitHealthRoutes()
	return e, conn
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) entity.Task {
	t.Helper()
	var result entity.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestTaskLifecycle(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeTask(t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, entity.PriorityLow, created.Priority)
	assert.False(t, created.IsCompleted)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	rec = doRequest(e, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []entity.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)

	rec = doRequest(e, http.MethodPut, "/api/tasks/"+created.ID, `{"isCompleted":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeTask(t, rec)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	rec = doRequest(e, http.MethodDelete, "/api/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateAcceptsTrailingWhitespace(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/tasks", "{\"title\":\"Buy milk\"}\n  \n")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCreatedDueDateMatchesStoredValue(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/tasks", `{"title":"Buy milk","dueDate":"2024-07-01T09:30:00.123456789-03:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeTask(t, rec)
	require.NotNil(t, created.DueDate)

	rec = doRequest(e, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []entity.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].DueDate)

	assert.True(t, created.DueDate.Equal(*listed[0].DueDate), "created %s listed %s", created.DueDate, listed[0].DueDate)
	assert.Equal(t, 123456000, created.DueDate.Nanosecond())
}

func TestUpdateUnknownTaskAnswersNull(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPut, "/api/tasks/3f2b8a2e-4a4c-4a8e-9d1e-2c6a9c0b7e11", `{"isCompleted":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestDeleteUnknownTaskAnswersMessage(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodDelete, "/api/tasks/3f2b8a2e-4a4c-4a8e-9d1e-2c6a9c0b7e11", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, rec.Body.String())
}

func TestCreateEchoedReadOnlyFieldsAreIgnored(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/tasks",
		`{"id":"mine","_id":"mine","title":"Buy milk","createdAt":"2000-01-01T00:00:00Z","__v":0,"priority":"High"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeTask(t, rec)
	assert.NotEqual(t, "mine", created.ID)
	assert.Equal(t, entity.PriorityHigh, created.Priority)
	assert.NotEqual(t, 2000, created.CreatedAt.Year())
}

func TestBadRequests(t *testing.T) {
	e, _ := newTestServer(t)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		message string
	}{
		{name: "malformed json", method: http.MethodPost, target: "/api/tasks", body: `{"title":`, message: "Invalid request body"},
		{name: "trailing data", method: http.MethodPost, target: "/api/tasks", body: `{"title":"a"}garbage`, message: "Invalid request body"},
		{name: "two documents", method: http.MethodPut, target: "/api/tasks/3f2b8a2e-4a4c-4a8e-9d1e-2c6a9c0b7e11", body: `{"title":"a"} {"title":"b"}`, message: "Invalid request body"},
		{name: "unknown field", method: http.MethodPost, target: "/api/tasks", body: `{"title":"t","color":"red"}`, message: "Invalid request body"},
		{name: "missing title", method: http.MethodPost, target: "/api/tasks", body: `{"priority":"High"}`, message: "title is required"},
		{name: "empty body", method: http.MethodPost, target: "/api/tasks", body: "", message: "title is required"},
		{name: "bad priority", method: http.MethodPost, target: "/api/tasks", body: `{"title":"t","priority":"Urgent"}`, message: "priority must be one of High, Medium, Low, got Urgent"},
		{name: "null title on update", method: http.MethodPut, target: "/api/tasks/3f2b8a2e-4a4c-4a8e-9d1e-2c6a9c0b7e11", body: `{"title":null}`, message: "title cannot be null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestMalformedIDIsPersistenceError(t *testing.T) {
	e, _ := newTestServer(t)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		body := ""
		if method == http.MethodPut {
			body = `{"isCompleted":true}`
		}
		rec := doRequest(e, method, "/api/tasks/not-an-id", body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, method)
		assert.JSONEq(t, `{"error":"Fail to access the task store"}`, rec.Body.String(), method)
	}
}

func TestStoreUnavailable(t *testing.T) {
	e, conn := newTestServer(t)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec := doRequest(e, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var response model.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, model.StatusDown, response.Status)
	assert.Equal(t, model.StatusUnknown, response.Cache.Status)
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response model.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, model.StatusUp, response.Status)
	assert.Equal(t, model.StatusUp, response.Database.Status)
}

type failingUseCase struct {
	task.UseCase
}

func (failingUseCase) FindAll(context.Context) ([]entity.Task, error) {
	return nil, errors.New("boom")
}

func TestUnexpectedErrorIsInternal(t *testing.T) {
	e := echo.New()
	NewTaskController(e.Group("/api"), failingUseCase{}).InitTaskRoutes()

	rec := doRequest(e, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
