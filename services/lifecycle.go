package services

import (
	"fmt"
	"time"

	"github.com/Aditya0Kumar/trackr-sub000/models"
)

func newEntry(task *models.Task, action models.ActivityAction, actorID, details string, now time.Time) models.ActivityEntry {
	return models.ActivityEntry{
		TaskID:    task.ID,
		Action:    action,
		ActorID:   actorID,
		Details:   details,
		Timestamp: now,
	}
}

func statusEntry(task *models.Task, actorID string, from, to models.TaskStatus, override bool, reason string, now time.Time) models.ActivityEntry {
	details := fmt.Sprintf("changed status from %s to %s", from, to)
	if reason != "" {
		details += " (" + reason + ")"
	}
	e := newEntry(task, models.ActionChangedStatus, actorID, details, now)
	e.FromStatus = from
	e.ToStatus = to
	e.Override = override
	return e
}

func unverifiedCount(task *models.Task) int {
	n := 0
	for _, item := range task.Checklist {
		if !item.Verified {
			n++
		}
	}
	return n
}

// applyStatusRequest handles an explicit status change. A nil entry with a nil error means the
// task already had the requested status.
func applyStatusRequest(task *models.Task, actorID string, role Role, next models.TaskStatus, now time.Time) (*models.ActivityEntry, error) {
	if err := canRequestStatus(role); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, newError(CodeInvalidTransition, "unknown status %q", next)
	}
	if task.Status == next {
		return nil, nil
	}
	if err := allowedStatusChange(role, task.Status, next); err != nil {
		return nil, err
	}
	if next != models.StatusPending && len(task.AssignedTo) == 0 {
		return nil, newError(CodeInvalidState, "task must have at least one assignee before leaving %s", models.StatusPending)
	}

	from := task.Status
	override := next == models.StatusCompleted && !task.AllVerified()
	reason := ""
	switch {
	case override:
		reason = fmt.Sprintf("admin override, %d of %d items unverified", unverifiedCount(task), len(task.Checklist))
	case next.Before(from):
		reason = "moved back by admin"
	}
	task.SetStatus(next, override, now)
	entry := statusEntry(task, actorID, from, next, override, reason, now)
	return &entry, nil
}

// reconcileStatus derives the status implied by the checklist after a checklist mutation.
// It returns the resulting changed_status entry, attributed to the actor of the checklist
// action, or nil when the status stays.
func reconcileStatus(task *models.Task, actorID string, now time.Time) *models.ActivityEntry {
	if len(task.Checklist) == 0 || len(task.AssignedTo) == 0 {
		return nil
	}
	anyCompleted, allCompleted, allVerified := task.ChecklistProgress()

	next := task.Status
	switch task.Status {
	case models.StatusCompleted:
		if task.CompletionOverride {
			return nil
		}
		if !allCompleted {
			next = models.StatusInProgress
		} else if !allVerified {
			next = models.StatusAwaitingVerification
		}
	case models.StatusAwaitingVerification:
		if !allCompleted {
			next = models.StatusInProgress
		} else if allVerified {
			next = models.StatusCompleted
		}
	case models.StatusPending, models.StatusInProgress:
		switch {
		case allCompleted && allVerified:
			next = models.StatusCompleted
		case allCompleted:
			next = models.StatusAwaitingVerification
		case anyCompleted && task.Status == models.StatusPending:
			next = models.StatusInProgress
		}
	}
	if next == task.Status {
		return nil
	}

	from := task.Status
	task.SetStatus(next, false, now)
	var reason string
	switch next {
	case models.StatusCompleted:
		reason = "all checklist items verified"
	case models.StatusAwaitingVerification:
		if from == models.StatusCompleted {
			reason = "checklist item no longer verified"
		} else {
			reason = "all checklist items completed"
		}
	case models.StatusInProgress:
		reason = "checklist reopened"
		if from == models.StatusPending {
			reason = "checklist work started"
		}
	}
	entry := statusEntry(task, actorID, from, next, false, reason, now)
	return &entry
}
