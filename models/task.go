package models

import (
	"fmt"
	"slices"
	"time"

	"gorm.io/datatypes"
)

// TaskStatus is the closed set of lifecycle states
type TaskStatus string

const (
	StatusPending              TaskStatus = "Pending"
	StatusInProgress           TaskStatus = "In Progress"
	StatusAwaitingVerification TaskStatus = "Awaiting Verification"
	StatusCompleted            TaskStatus = "Completed"
)

var statusRank = map[TaskStatus]int{
	StatusPending:              0,
	StatusInProgress:           1,
	StatusAwaitingVerification: 2,
	StatusCompleted:            3,
}

func (s TaskStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Before reports whether s comes earlier than other in the forward lifecycle
func (s TaskStatus) Before(other TaskStatus) bool {
	return statusRank[s] < statusRank[other]
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is stored as a single document row; checklist and assignees live in JSON columns so a
// versioned update covers the whole document.
type Task struct {
	ID                 string                             `gorm:"type:varchar(50);primaryKey" json:"id"`
	WorkspaceID        *string                            `gorm:"type:varchar(50);index" json:"workspaceId"`
	Title              string                             `gorm:"type:varchar(200)" json:"title"`
	Description        string                             `gorm:"type:text" json:"description"`
	Status             TaskStatus                         `gorm:"type:varchar(30);index" json:"status"`
	Priority           TaskPriority                       `gorm:"type:varchar(10)" json:"priority"`
	AssignedTo         datatypes.JSONSlice[string]        `json:"assignedTo"`
	Checklist          datatypes.JSONSlice[ChecklistItem] `json:"todoChecklist"`
	CreatedBy          string                             `gorm:"type:varchar(50)" json:"createdBy"`
	CompletionOverride bool                               `gorm:"default:false" json:"completionOverride"`
	DueDate            *time.Time                         `json:"dueDate"`
	CompletedAt        *time.Time                         `json:"completedAt"`
	Version            int                                `gorm:"not null;default:1" json:"version"`
	CreatedAt          time.Time                          `json:"createdAt"`
	UpdatedAt          time.Time                          `json:"updatedAt"`

	ActivityLog []ActivityEntry `gorm:"-" json:"activityLog,omitempty"`
}

// IsAssignee reports whether userID is in the task's assignee set
func (t *Task) IsAssignee(userID string) bool {
	return slices.Contains(t.AssignedTo, userID)
}

// FindItem returns the index of the checklist item with the given id, or -1
func (t *Task) FindItem(itemID string) int {
	for i := range t.Checklist {
		if t.Checklist[i].ID == itemID {
			return i
		}
	}
	return -1
}

// ChecklistProgress summarises the checklist. With no items every flag is false.
func (t *Task) ChecklistProgress() (anyCompleted, allCompleted, allVerified bool) {
	if len(t.Checklist) == 0 {
		return false, false, false
	}
	allCompleted, allVerified = true, true
	for _, item := range t.Checklist {
		if item.Completed {
			anyCompleted = true
		} else {
			allCompleted = false
		}
		if !item.Verified {
			allVerified = false
		}
	}
	return anyCompleted, allCompleted, allVerified
}

// AllVerified is true for an empty checklist
func (t *Task) AllVerified() bool {
	for _, item := range t.Checklist {
		if !item.Verified {
			return false
		}
	}
	return true
}

// SetStatus moves the task to next and keeps completedAt and the override flag consistent
func (t *Task) SetStatus(next TaskStatus, override bool, now time.Time) {
	if next == StatusCompleted {
		if t.Status != StatusCompleted || t.CompletedAt == nil {
			completedAt := now
			t.CompletedAt = &completedAt
		}
		t.CompletionOverride = override
	} else {
		t.CompletedAt = nil
		t.CompletionOverride = false
	}
	t.Status = next
}

// Validate checks the invariants a stored task must satisfy
func (t *Task) Validate() error {
	if !t.Status.Valid() {
		return fmt.Errorf("task %s has unknown status %q", t.ID, t.Status)
	}
	for i := range t.Checklist {
		if err := t.Checklist[i].Validate(); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}
	if t.Status == StatusCompleted && !t.CompletionOverride && !t.AllVerified() {
		return fmt.Errorf("task %s is completed without override but has unverified items", t.ID)
	}
	return nil
}
