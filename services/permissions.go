package services

import (
	"github.com/Aditya0Kumar/trackr-sub000/models"
)

// Role is the actor's relationship to one task.
type Role int

const (
	RoleOther Role = iota
	RoleAssignee
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleAssignee:
		return "assignee"
	default:
		return "other"
	}
}

// TaskRole resolves the actor's role on task. Workspace admins and managers administer workspace
// tasks; personal tasks are administered by their creator and by global admins.
func TaskRole(actor models.User, memberRole models.MemberRole, task *models.Task) Role {
	if task.WorkspaceID != nil {
		if memberRole.CanSupervise() {
			return RoleAdmin
		}
	} else if actor.IsAdmin() || task.CreatedBy == actor.ID {
		return RoleAdmin
	}
	if task.IsAssignee(actor.ID) {
		return RoleAssignee
	}
	return RoleOther
}

func canToggleCompletion(role Role) error {
	if role == RoleAdmin || role == RoleAssignee {
		return nil
	}
	return newError(CodeForbidden, "only an admin or an assignee can update the checklist")
}

func canVerify(role Role) error {
	if role == RoleAdmin {
		return nil
	}
	return newError(CodeForbidden, "only an admin can verify checklist items")
}

func canEditChecklist(role Role) error {
	if role == RoleAdmin {
		return nil
	}
	return newError(CodeForbidden, "only an admin can add or remove checklist items")
}

func canAssign(role Role) error {
	if role == RoleAdmin {
		return nil
	}
	return newError(CodeForbidden, "only an admin can change assignees")
}

func canComment(role Role) error {
	if role == RoleAdmin || role == RoleAssignee {
		return nil
	}
	return newError(CodeForbidden, "only an admin or an assignee can comment")
}

func canRequestStatus(role Role) error {
	if role == RoleAdmin || role == RoleAssignee {
		return nil
	}
	return newError(CodeForbidden, "only an admin or an assignee can change the status")
}

// allowedStatusChange decides whether role may move a task from current to next.
// Assignees only move forward and never complete; admins may set anything.
func allowedStatusChange(role Role, current, next models.TaskStatus) error {
	if role == RoleAdmin {
		return nil
	}
	if next == models.StatusCompleted {
		return newError(CodeInvalidTransition, "only an admin can mark a task %s", models.StatusCompleted)
	}
	if current == models.StatusCompleted || !current.Before(next) {
		return newError(CodeInvalidTransition, "an assignee cannot move a task from %s back to %s", current, next)
	}
	return nil
}

// canMarkAttendance checks the marker's role for a workspace submission, or ownership for a
// personal one.
func canMarkAttendance(markerID string, memberRole models.MemberRole, workspaceID string, userIDs []string) error {
	if workspaceID != "" {
		if memberRole.CanSupervise() {
			return nil
		}
		return newError(CodeForbidden, "only a workspace admin or manager can mark attendance")
	}
	for _, id := range userIDs {
		if id != markerID {
			return newError(CodeForbidden, "personal attendance can only be marked for yourself")
		}
	}
	return nil
}
