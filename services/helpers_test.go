package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Aditya0Kumar/trackr-sub000/config"
	"github.com/Aditya0Kumar/trackr-sub000/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const site = "site-1"

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db         *gorm.DB
	settings   Settings
	tasks      *TaskService
	attendance *AttendanceService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.MigrateDB(db))
	return db
}

// newFixture seeds a workspace with an admin, a manager and two members, plus a global admin
// and an outsider with no membership.
func newFixture(t *testing.T, publisher ActivityPublisher) *fixture {
	t.Helper()
	db := newTestDB(t)
	settings := DefaultSettings()
	settings.MaxRetries = 10
	settings.Now = func() time.Time { return testNow }

	users := []models.User{
		{ID: "admin", Name: "Site Admin", Email: "admin@example.com"},
		{ID: "manager", Name: "Foreman", Email: "manager@example.com"},
		{ID: "worker", Name: "Worker", Email: "worker@example.com"},
		{ID: "worker2", Name: "Second Worker", Email: "worker2@example.com"},
		{ID: "outsider", Name: "Outsider", Email: "outsider@example.com"},
		{ID: "root", Name: "Root", Email: "root@example.com", Role: models.UserRoleAdmin},
	}
	require.NoError(t, db.Create(&users).Error)
	members := []models.WorkspaceMember{
		{WorkspaceID: site, UserID: "admin", Role: models.MemberRoleAdmin},
		{WorkspaceID: site, UserID: "manager", Role: models.MemberRoleManager},
		{WorkspaceID: site, UserID: "worker", Role: models.MemberRoleMember},
		{WorkspaceID: site, UserID: "worker2", Role: models.MemberRoleMember},
	}
	require.NoError(t, db.Create(&members).Error)

	directory := NewDirectory(db, settings)
	return &fixture{
		db:         db,
		settings:   settings,
		tasks:      NewTaskService(db, directory, publisher, settings),
		attendance: NewAttendanceService(db, directory, settings),
	}
}

func (f *fixture) createTask(t *testing.T, items ...string) *models.Task {
	t.Helper()
	ws := site
	req := models.CreateTaskRequest{
		WorkspaceID: &ws,
		Title:       "Formwork level 2",
		AssignedTo:  []string{"worker"},
	}
	for _, text := range items {
		req.TodoChecklist = append(req.TodoChecklist, models.NewChecklistItem{Text: text})
	}
	task, err := f.tasks.CreateTask(context.Background(), "admin", req)
	require.NoError(t, err)
	return task
}

func (f *fixture) activity(t *testing.T, taskID string) []models.ActivityEntry {
	t.Helper()
	entries, err := f.tasks.activity.List(context.Background(), taskID, false)
	require.NoError(t, err)
	return entries
}

func actions(entries []models.ActivityEntry) []models.ActivityAction {
	out := make([]models.ActivityAction, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

// newTask builds an in-memory task for the pure lifecycle functions.
func newTask(texts ...string) *models.Task {
	task := &models.Task{ID: "t1", Status: models.StatusPending, AssignedTo: []string{"worker"}}
	for i, text := range texts {
		task.Checklist = append(task.Checklist, models.ChecklistItem{ID: fmt.Sprintf("i%d", i+1), Text: text})
	}
	return task
}

// checkInvariants asserts the document rules that must hold after every operation.
func checkInvariants(t *testing.T, task *models.Task) {
	t.Helper()
	for _, item := range task.Checklist {
		if item.Verified {
			require.True(t, item.Completed, "item %s verified but not completed", item.ID)
		}
	}
	if task.Status == models.StatusCompleted && !task.CompletionOverride {
		require.True(t, task.AllVerified(), "completed without override but not all verified")
	}
	require.NoError(t, task.Validate())
}
