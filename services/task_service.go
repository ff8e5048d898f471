package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aditya0Kumar/trackr-sub000/config"
	"github.com/Aditya0Kumar/trackr-sub000/models"
	"github.com/Aditya0Kumar/trackr-sub000/utils"

	"gorm.io/gorm"
)

var errVersionMismatch = errors.New("task version changed")

// mutation computes the change for one attempt against a freshly read task. It returns the
// entries to append; none means the request was a no-op and nothing is written.
type mutation func(task *models.Task, role Role, now time.Time) ([]models.ActivityEntry, error)

// TaskService applies every task mutation under optimistic concurrency: read, compute, then
// write only if the stored version is unchanged, retrying up to Settings.MaxRetries times.
type TaskService struct {
	db        *gorm.DB
	roles     RoleProvider
	activity  *ActivityLog
	publisher ActivityPublisher
	settings  Settings
	newID     func() string
}

func NewTaskService(db *gorm.DB, roles RoleProvider, publisher ActivityPublisher, settings Settings) *TaskService {
	if publisher == nil {
		publisher = NopPublisher()
	}
	if settings.MaxRetries < 1 {
		settings.MaxRetries = 1
	}
	return &TaskService{
		db:        db,
		roles:     roles,
		activity:  NewActivityLog(db, settings),
		publisher: publisher,
		settings:  settings,
		newID:     utils.GenerateID,
	}
}

func workspaceKey(workspaceID *string) string {
	if workspaceID == nil {
		return ""
	}
	return *workspaceID
}

func (s *TaskService) load(ctx context.Context, taskID string) (*models.Task, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	var task models.Task
	if err := s.db.WithContext(ctx).Where("id = ?", taskID).First(&task).Error; err != nil {
		return nil, storageError(err, "task "+taskID)
	}
	if err := task.Validate(); err != nil {
		config.Logger.Errorw("corrupt task document", "taskID", taskID, "version", task.Version, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return &task, nil
}

func (s *TaskService) roleFor(ctx context.Context, actor models.User, task *models.Task) (Role, error) {
	memberRole, err := s.roles.WorkspaceRole(ctx, workspaceKey(task.WorkspaceID), actor.ID)
	if err != nil {
		return RoleOther, err
	}
	return TaskRole(actor, memberRole, task), nil
}

// commit writes the task if its version is still prev and appends entries in the same transaction.
func (s *TaskService) commit(ctx context.Context, task *models.Task, entries []models.ActivityEntry, now time.Time) error {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	prev := task.Version
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Task{}).
			Where("id = ? AND version = ?", task.ID, prev).
			Updates(map[string]interface{}{
				"status":              task.Status,
				"assigned_to":         task.AssignedTo,
				"checklist":           task.Checklist,
				"completion_override": task.CompletionOverride,
				"completed_at":        task.CompletedAt,
				"version":             prev + 1,
				"updated_at":          now,
			})
		if res.Error != nil {
			return storageError(res.Error, "task "+task.ID)
		}
		if res.RowsAffected == 0 {
			return errVersionMismatch
		}
		return appendActivity(tx, entries)
	})
	if err != nil {
		return err
	}
	task.Version = prev + 1
	task.UpdatedAt = now
	return nil
}

func (s *TaskService) mutate(ctx context.Context, taskID, actorID string, fn mutation) (*models.Task, error) {
	actor, err := s.roles.User(ctx, actorID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= s.settings.MaxRetries; attempt++ {
		task, err := s.load(ctx, taskID)
		if err != nil {
			return nil, err
		}
		role, err := s.roleFor(ctx, actor, task)
		if err != nil {
			return nil, err
		}

		now := s.settings.now()
		entries, err := fn(task, role, now)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return task, nil
		}

		err = s.commit(ctx, task, entries, now)
		if errors.Is(err, errVersionMismatch) {
			config.Logger.Debugw("task version conflict, retrying", "taskID", taskID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publisher.Publish(ctx, entries)
		return task, nil
	}

	config.Logger.Warnw("task update gave up after concurrent writes", "taskID", taskID, "actorID", actorID, "attempts", s.settings.MaxRetries)
	return nil, newError(CodeConflict, "task %s was modified concurrently, retry the request", taskID)
}

// CreateTask stores a new Pending task. Workspace tasks need a workspace admin or manager.
func (s *TaskService) CreateTask(ctx context.Context, actorID string, req models.CreateTaskRequest) (*models.Task, error) {
	actor, err := s.roles.User(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if req.WorkspaceID != nil && *req.WorkspaceID == "" {
		req.WorkspaceID = nil
	}
	if req.WorkspaceID != nil {
		memberRole, err := s.roles.WorkspaceRole(ctx, *req.WorkspaceID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !memberRole.CanSupervise() {
			return nil, newError(CodeForbidden, "only a workspace admin or manager can create tasks")
		}
	}

	assignees := normalizeIDs(req.AssignedTo)
	if len(assignees) == 0 {
		return nil, newError(CodeInvalidState, "a task needs at least one assignee")
	}
	for _, id := range assignees {
		if _, err := s.roles.User(ctx, id); err != nil {
			return nil, err
		}
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, newError(CodeInvalidState, "unknown priority %q", priority)
	}

	now := s.settings.now()
	task := &models.Task{
		ID:          s.newID(),
		WorkspaceID: req.WorkspaceID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      models.StatusPending,
		Priority:    priority,
		AssignedTo:  assignees,
		Checklist:   make([]models.ChecklistItem, 0, len(req.TodoChecklist)),
		CreatedBy:   actor.ID,
		DueDate:     req.DueDate,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, item := range req.TodoChecklist {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			return nil, newError(CodeInvalidState, "checklist item text is required")
		}
		task.Checklist = append(task.Checklist, models.ChecklistItem{ID: s.newID(), Text: text})
	}

	entry := newEntry(task, models.ActionCreatedTask, actor.ID,
		fmt.Sprintf("created task %q with %d checklist items, assigned to %s", task.Title, len(task.Checklist), strings.Join(assignees, ", ")), now)

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return storageError(err, "task")
		}
		return appendActivity(tx, []models.ActivityEntry{entry})
	})
	if err != nil {
		return nil, err
	}
	config.Logger.Infow("task created", "taskID", task.ID, "actorID", actor.ID, "workspaceID", workspaceKey(task.WorkspaceID))
	return task, nil
}

// GetTask returns the task with its activity log, newest entry first.
func (s *TaskService) GetTask(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	task, err := s.GetTaskSummary(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}
	task.ActivityLog, err = s.activity.List(ctx, task.ID, true)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Activity returns the task's audit trail in the requested order.
func (s *TaskService) Activity(ctx context.Context, taskID, actorID string, newestFirst bool) ([]models.ActivityEntry, error) {
	if _, err := s.GetTaskSummary(ctx, taskID, actorID); err != nil {
		return nil, err
	}
	return s.activity.List(ctx, taskID, newestFirst)
}

// GetTaskSummary is GetTask without the activity log.
func (s *TaskService) GetTaskSummary(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	actor, err := s.roles.User(ctx, actorID)
	if err != nil {
		return nil, err
	}
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.canRead(ctx, actor, task); err != nil {
		return nil, err
	}
	return task, nil
}

// canRead lets admins, assignees and any member of the task's workspace see it.
func (s *TaskService) canRead(ctx context.Context, actor models.User, task *models.Task) error {
	memberRole, err := s.roles.WorkspaceRole(ctx, workspaceKey(task.WorkspaceID), actor.ID)
	if err != nil {
		return err
	}
	if TaskRole(actor, memberRole, task) != RoleOther || memberRole != "" {
		return nil
	}
	return newError(CodeForbidden, "task %s is not visible to you", task.ID)
}

// ListTasks lists the tasks of a workspace, or the actor's personal tasks when workspaceID is empty.
// Plain workspace members only see tasks assigned to them.
func (s *TaskService) ListTasks(ctx context.Context, actorID, workspaceID string, status models.TaskStatus) ([]models.Task, error) {
	actor, err := s.roles.User(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, newError(CodeInvalidState, "unknown status %q", status)
	}

	memberRole, err := s.roles.WorkspaceRole(ctx, workspaceID, actor.ID)
	if err != nil {
		return nil, err
	}
	if workspaceID != "" && memberRole == "" {
		return nil, newError(CodeForbidden, "you are not a member of workspace %s", workspaceID)
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	q := s.db.WithContext(ctx).Model(&models.Task{})
	if workspaceID != "" {
		q = q.Where("workspace_id = ?", workspaceID)
	} else {
		q = q.Where("workspace_id IS NULL").
			Where("created_by = ? OR assigned_to LIKE ?", actor.ID, "%\""+actor.ID+"\"%")
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, storageError(err, "tasks")
	}

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if TaskRole(actor, memberRole, &t) == RoleOther {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ToggleCompletion flips one checklist item.
func (s *TaskService) ToggleCompletion(ctx context.Context, taskID, itemID, actorID string) (*models.Task, error) {
	return s.mutate(ctx, taskID, actorID, func(task *models.Task, role Role, now time.Time) ([]models.ActivityEntry, error) {
		return toggleCompletion(task, itemID, actorID, role, now)
	})
}

// UpdateChecklist reconciles completion flags with a full submitted checklist.
func (s *TaskService) UpdateChecklist(ctx context.Context, taskID, actorID string, states []models.ChecklistItemState) (*models.Task, error) {
	return s.mutate(ctx, taskID, actorID, func(task *models.Task, role Role, now time.Time) ([]models.ActivityEntry, error) {
		return applyChecklistState(task, states, actorID, role, now)
	})
}

// SetVerification verifies or unverifies one checklist item.
func (s *TaskService) SetVerification(ctx context.Context, taskID, itemID, actorID string, verified bool) (*models.Task, error) {
	return s.mutate(ctx, taskID, actorID, func(task *models.Task, role Role, now time.Time) ([]models.ActivityEntry, error) {
		return setVerification(task, itemID, actorID, role, verified, now)
	})
}

func (s *TaskService) AddChecklistItem(ctx context.Context, taskID, actorID, text string) (*models.Task, error) {
	itemID := s.newID()
	return s.mutate(ctx, taskID, actorID, func(task *models.Task, role Role, now time.Time) ([]models.ActivityEntry, error) {
		return addChecklistItem(task, itemID, text, actorID, role, now)
	})
}

func (s *TaskService) RemoveChecklistItem(ctx context.Context, taskID, itemID, actorID string) (*models.Task, error) {
	return s.mutate(ctx, taskID, actorID, func(task *models.Task, role Role, now time.Time) ([]models.ActivityEntry, error) {
		return removeChecklistItem(task, itemID, actorID, role, now)
	})
}

// RequestStatusChange applies an explicit status change.
func (s *TaskService) RequestStatusChange(ctx context.Context, taskID, actorID string, status models.TaskStatus) (*models.Task, error) {
	return s.mutate(ctx, taskID, actorID, func(task *models.Task, role Role, now time.Time) ([]models.ActivityEntry, error) {
		entry, err := applyStatusRequest(task, actorID, role, status, now)
		if err != nil || entry == nil {
			return nil, err
		}
		return []models.ActivityEntry{*entry}, nil
	})
}

// UpdateAssignees replaces the assignee set, logging one entry per added or removed user.
func (s *TaskService) UpdateAssignees(ctx context.Context, taskID, actorID string, assignees []string) (*models.Task, error) {
	next := normalizeIDs(assignees)
	for _, id := range next {
		if _, err := s.roles.User(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.mutate(ctx, taskID, actorID, func(task *models.Task, role Role, now time.Time) ([]models.ActivityEntry, error) {
		return updateAssignees(task, next, actorID, role, now)
	})
}

// AddComment appends a comment to the activity log.
func (s *TaskService) AddComment(ctx context.Context, taskID, actorID, text string) (*models.Task, error) {
	return s.mutate(ctx, taskID, actorID, func(task *models.Task, role Role, now time.Time) ([]models.ActivityEntry, error) {
		if err := canComment(role); err != nil {
			return nil, err
		}
		body := strings.TrimSpace(text)
		if body == "" {
			return nil, newError(CodeInvalidState, "comment text is required")
		}
		return []models.ActivityEntry{newEntry(task, models.ActionAddedComment, actorID, body, now)}, nil
	})
}

func updateAssignees(task *models.Task, next []string, actorID string, role Role, now time.Time) ([]models.ActivityEntry, error) {
	if err := canAssign(role); err != nil {
		return nil, err
	}
	if len(next) == 0 && task.Status != models.StatusPending {
		return nil, newError(CodeInvalidState, "a %s task needs at least one assignee", task.Status)
	}

	var entries []models.ActivityEntry
	for _, id := range next {
		if !task.IsAssignee(id) {
			e := newEntry(task, models.ActionAssignedUser, actorID, "assigned user "+id, now)
			e.TargetUserID = id
			entries = append(entries, e)
		}
	}
	nextSet := make(map[string]bool, len(next))
	for _, id := range next {
		nextSet[id] = true
	}
	for _, id := range task.AssignedTo {
		if !nextSet[id] {
			e := newEntry(task, models.ActionUnassignedUser, actorID, "unassigned user "+id, now)
			e.TargetUserID = id
			entries = append(entries, e)
		}
	}
	task.AssignedTo = next
	return entries, nil
}

// normalizeIDs trims, drops blanks and de-duplicates while keeping order.
func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
