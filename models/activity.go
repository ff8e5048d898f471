package models

import "time"

// ActivityAction is the closed set of audit actions
type ActivityAction string

const (
	ActionCreatedTask     ActivityAction = "created_task"
	ActionChangedStatus   ActivityAction = "changed_status"
	ActionCompletedTodo   ActivityAction = "completed_todo"
	ActionUncompletedTodo ActivityAction = "uncompleted_todo"
	ActionVerifiedTodo    ActivityAction = "verified_todo"
	ActionUnverifiedTodo  ActivityAction = "unverified_todo"
	ActionAddedTodo       ActivityAction = "added_todo"
	ActionRemovedTodo     ActivityAction = "removed_todo"
	ActionAssignedUser    ActivityAction = "assigned_user"
	ActionUnassignedUser  ActivityAction = "unassigned_user"
	ActionAddedComment    ActivityAction = "added_comment"
)

// ActivityEntry is one append-only audit record. ID is the insertion sequence.
type ActivityEntry struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID       string         `gorm:"type:varchar(50);index;not null" json:"taskId"`
	Action       ActivityAction `gorm:"type:varchar(30);not null" json:"action"`
	ActorID      string         `gorm:"type:varchar(50);not null" json:"actorId"`
	Details      string         `gorm:"type:text" json:"details"`
	Override     bool           `gorm:"default:false" json:"override"`
	FromStatus   TaskStatus     `gorm:"type:varchar(30)" json:"fromStatus,omitempty"`
	ToStatus     TaskStatus     `gorm:"type:varchar(30)" json:"toStatus,omitempty"`
	TodoID       string         `gorm:"type:varchar(50)" json:"todoId,omitempty"`
	TargetUserID string         `gorm:"type:varchar(50)" json:"targetUserId,omitempty"`
	Timestamp    time.Time      `gorm:"not null" json:"timestamp"`
}

func (ActivityEntry) TableName() string {
	return "activity_entries"
}
