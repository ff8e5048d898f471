package models

import "time"

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	WorkspaceID   *string            `json:"workspaceId"`
	Title         string             `json:"title" binding:"required"`
	Description   string             `json:"description"`
	Priority      TaskPriority       `json:"priority" binding:"omitempty,task_priority"`
	DueDate       *time.Time         `json:"dueDate"`
	AssignedTo    []string           `json:"assignedTo" binding:"required,min=1,dive,required"`
	TodoChecklist []NewChecklistItem `json:"todoChecklist" binding:"dive"`
}

type NewChecklistItem struct {
	Text string `json:"text" binding:"required"`
}

// ChecklistItemState is one entry of the full-list form of PUT /tasks/:id/todo
type ChecklistItemState struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// UpdateChecklistRequest toggles a single item (TodoID) or reconciles the whole list (TodoChecklist)
type UpdateChecklistRequest struct {
	TodoID        string               `json:"todoId"`
	TodoChecklist []ChecklistItemState `json:"todoChecklist"`
}

type VerifyTodoRequest struct {
	TodoID   string `json:"todoId" binding:"required"`
	Verified *bool  `json:"verified" binding:"required"`
}

type UpdateStatusRequest struct {
	Status TaskStatus `json:"status" binding:"required"`
}

type UpdateAssigneesRequest struct {
	AssignedTo []string `json:"assignedTo" binding:"dive,required"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type AttendanceEntry struct {
	UserID string           `json:"userId" binding:"required"`
	Status AttendanceStatus `json:"status" binding:"required,attendance_status"`
}

// MarkAttendanceRequest is the body of POST /attendance/mark
type MarkAttendanceRequest struct {
	WorkspaceID       string            `json:"workspaceId"`
	Date              string            `json:"date" binding:"required"`
	AttendanceRecords []AttendanceEntry `json:"attendanceRecords" binding:"required,min=1,dive"`
}

// ListTasksQuery is the query string of GET /tasks
type ListTasksQuery struct {
	WorkspaceID string     `form:"workspaceId"`
	Status      TaskStatus `form:"status" binding:"omitempty,task_status"`
}

// CreateUserRequest is the body of POST /internal/users
type CreateUserRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=admin member"`
}

// SetMemberRequest is the body of PUT /internal/workspaces/:id/members
type SetMemberRequest struct {
	UserID string     `json:"userId" binding:"required"`
	Role   MemberRole `json:"role" binding:"required,member_role"`
}
