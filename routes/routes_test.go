package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Aditya0Kumar/trackr-sub000/config"
	"github.com/Aditya0Kumar/trackr-sub000/models"
	"github.com/Aditya0Kumar/trackr-sub000/services"
	"github.com/Aditya0Kumar/trackr-sub000/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.MigrateDB(db))

	require.NoError(t, db.Create(&[]models.User{
		{ID: "admin", Email: "admin@example.com"},
		{ID: "worker", Email: "worker@example.com"},
	}).Error)
	require.NoError(t, db.Create(&[]models.WorkspaceMember{
		{WorkspaceID: "site-1", UserID: "admin", Role: models.MemberRoleAdmin},
		{WorkspaceID: "site-1", UserID: "worker", Role: models.MemberRoleMember},
	}).Error)

	settings := services.DefaultSettings()
	settings.Now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return &api{t: t, router: NewRouter(db, services.NopPublisher(), settings, "internal-secret")}
}

func (a *api) do(method, path, uid string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		token, err := utils.GenerateToken(uid, time.Hour)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *api) createTask(items ...string) models.Task {
	a.t.Helper()
	todos := make([]gin.H, 0, len(items))
	for _, text := range items {
		todos = append(todos, gin.H{"text": text})
	}
	w := a.do(http.MethodPost, "/api/v1/tasks", "admin", gin.H{
		"workspaceId":   "site-1",
		"title":         "Column casting",
		"priority":      "High",
		"assignedTo":    []string{"worker"},
		"todoChecklist": todos,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Task](a.t, w)
}

func TestPing(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskVerificationOverHTTP(t *testing.T) {
	a := newAPI(t)
	task := a.createTask("rebar", "pour")
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityHigh, task.Priority)

	path := "/api/v1/tasks/" + task.ID
	for _, item := range task.Checklist {
		w := a.do(http.MethodPut, path+"/todo", "worker", gin.H{"todoId": item.ID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := a.do(http.MethodPut, path+"/todo/verify", "worker", gin.H{"todoId": task.Checklist[0].ID, "verified": true})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode[models.ErrorResponse](t, w).Code)

	w = a.do(http.MethodPut, path+"/status", "worker", gin.H{"status": "Completed"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decode[models.ErrorResponse](t, w).Code)

	for _, item := range task.Checklist {
		w = a.do(http.MethodPut, path+"/todo/verify", "admin", gin.H{"todoId": item.ID, "verified": true})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	done := decode[models.Task](t, w)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.False(t, done.CompletionOverride)

	w = a.do(http.MethodGet, path, "worker", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Task](t, w)
	require.NotEmpty(t, got.ActivityLog)
	assert.Equal(t, models.ActionChangedStatus, got.ActivityLog[0].Action)

	w = a.do(http.MethodGet, path+"/activity?order=oldest", "worker", nil)
	require.Equal(t, http.StatusOK, w.Code)
	log := decode[struct {
		ActivityLog []models.ActivityEntry `json:"activityLog"`
	}](t, w)
	assert.Equal(t, models.ActionCreatedTask, log.ActivityLog[0].Action)

	w = a.do(http.MethodGet, path+"/activity?order=sideways", "worker", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decode[models.ErrorResponse](t, w).Code)
}

func TestChecklistEditingOverHTTP(t *testing.T) {
	a := newAPI(t)
	task := a.createTask("a")
	path := "/api/v1/tasks/" + task.ID

	w := a.do(http.MethodPost, path+"/todo/items", "admin", gin.H{"text": "b"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	task = decode[models.Task](t, w)
	require.Len(t, task.Checklist, 2)

	w = a.do(http.MethodPut, path+"/todo", "worker", gin.H{"todoChecklist": []gin.H{
		{"text": "a", "completed": true},
		{"text": "b", "completed": false},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.StatusInProgress, decode[models.Task](t, w).Status)

	w = a.do(http.MethodPut, path+"/todo", "worker", gin.H{"todoChecklist": []gin.H{{"text": "a", "completed": true}}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPut, path+"/todo", "worker", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decode[models.ErrorResponse](t, w).Code)

	w = a.do(http.MethodDelete, path+"/todo/items/"+task.Checklist[1].ID, "worker", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodDelete, path+"/todo/items/"+task.Checklist[1].ID, "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusAwaitingVerification, decode[models.Task](t, w).Status)

	w = a.do(http.MethodPut, path+"/assignees", "admin", gin.H{"assignedTo": []string{"worker", "admin"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, path+"/comments", "worker", gin.H{"text": "ready for inspection"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRequestValidation(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/v1/tasks", "admin", `{"title": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decode[models.ErrorResponse](t, w).Code)

	w = a.do(http.MethodPost, "/api/v1/tasks", "admin", gin.H{"title": "x", "priority": "Urgent", "assignedTo": []string{"worker"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/v1/tasks?workspaceId=site-1&status=Done", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decode[models.ErrorResponse](t, w).Code)

	w = a.do(http.MethodGet, "/api/v1/tasks/missing", "admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, "/api/v1/attendance/mark", "admin", gin.H{
		"workspaceId":       "site-1",
		"date":              "2024-03-15",
		"attendanceRecords": []gin.H{{"userId": "worker", "status": "Sick"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTasksOverHTTP(t *testing.T) {
	a := newAPI(t)
	a.createTask("a")

	w := a.do(http.MethodGet, "/api/v1/tasks?workspaceId=site-1&status=Pending", "worker", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Tasks []models.Task `json:"tasks"`
	}](t, w)
	assert.Len(t, body.Tasks, 1)
}

func TestRectificationQuotaOverHTTP(t *testing.T) {
	a := newAPI(t)
	mark := func(date string) *httptest.ResponseRecorder {
		return a.do(http.MethodPost, "/api/v1/attendance/mark", "admin", gin.H{
			"workspaceId":       "site-1",
			"date":              date,
			"attendanceRecords": []gin.H{{"userId": "worker", "status": "Present"}, {"userId": "admin", "status": "Present"}},
		})
	}

	w := mark("2024-03-15")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[models.MarkAttendanceResponse](t, w).Rectification)

	for i, date := range []string{"2024-03-11", "2024-03-12", "2024-03-13"} {
		w = mark(date)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[models.MarkAttendanceResponse](t, w)
		assert.True(t, resp.Rectification)
		assert.Equal(t, 2-i, resp.RemainingAttempts)
	}

	w = mark("2024-03-14")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "QUOTA_EXCEEDED", decode[models.ErrorResponse](t, w).Code)

	w = a.do(http.MethodGet, "/api/v1/rectifications/attempts?workspaceId=site-1&month=2024-03", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	quota := decode[models.QuotaResponse](t, w)
	assert.Equal(t, 3, quota.AttemptsUsed)
	assert.Zero(t, quota.RemainingAttempts)

	w = a.do(http.MethodGet, "/api/v1/attendance?workspaceId=site-1&date=2024-03-14", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := decode[struct {
		Records []models.AttendanceRecord `json:"records"`
	}](t, w)
	assert.Empty(t, records.Records, "rejected submission wrote nothing")

	w = a.do(http.MethodPost, "/api/v1/attendance/mark", "worker", gin.H{
		"workspaceId":       "site-1",
		"date":              "2024-03-15",
		"attendanceRecords": []gin.H{{"userId": "worker", "status": "Present"}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func (a *api) internal(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Auth", token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestInternalProvisioning(t *testing.T) {
	a := newAPI(t)

	w := a.internal(http.MethodPost, "/internal/users", "wrong", gin.H{"email": "mason@example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.internal(http.MethodPost, "/internal/users", "internal-secret", gin.H{"id": "mason", "name": "Mason", "email": "Mason@Example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](t, w)
	assert.Equal(t, "mason@example.com", created.User.Email)
	claims, err := utils.ParseToken(created.Token)
	require.NoError(t, err)
	assert.Equal(t, "mason", claims.UserID)

	w = a.internal(http.MethodPost, "/internal/users", "internal-secret", gin.H{"email": "mason@example.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.internal(http.MethodPut, "/internal/workspaces/site-1/members", "internal-secret", gin.H{"userId": "mason", "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.internal(http.MethodPut, "/internal/workspaces/site-1/members", "internal-secret", gin.H{"userId": "mason", "role": "manager"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.internal(http.MethodPut, "/internal/workspaces/site-1/members", "internal-secret", gin.H{"userId": "ghost", "role": "member"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the new manager can now mark attendance for the site
	w = a.do(http.MethodPost, "/api/v1/attendance/mark", "mason", gin.H{
		"workspaceId":       "site-1",
		"date":              "2024-03-15",
		"attendanceRecords": []gin.H{{"userId": "worker", "status": "Present"}},
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.internal(http.MethodPost, "/internal/users/mason/token", "internal-secret", gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
}
