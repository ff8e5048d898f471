package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aditya0Kumar/trackr-sub000/models"
)

func itemLabel(task *models.Task, idx int) string {
	return fmt.Sprintf("#%d %q", idx+1, task.Checklist[idx].Text)
}

func findItem(task *models.Task, itemID string) (int, error) {
	idx := task.FindItem(itemID)
	if idx < 0 {
		return -1, newError(CodeNotFound, "checklist item %s not found", itemID)
	}
	return idx, nil
}

// withReconcile appends the auto-transition entry, if any, after the checklist entries.
func withReconcile(task *models.Task, actorID string, entries []models.ActivityEntry, now time.Time) []models.ActivityEntry {
	if len(entries) == 0 {
		return entries
	}
	if e := reconcileStatus(task, actorID, now); e != nil {
		entries = append(entries, *e)
	}
	return entries
}

func toggleItem(task *models.Task, idx int, actorID string, now time.Time) models.ActivityEntry {
	item := &task.Checklist[idx]
	item.ToggleCompletion(actorID)
	action, verb := models.ActionCompletedTodo, "completed"
	if !item.Completed {
		action, verb = models.ActionUncompletedTodo, "reopened"
	}
	e := newEntry(task, action, actorID, fmt.Sprintf("%s todo %s", verb, itemLabel(task, idx)), now)
	e.TodoID = item.ID
	return e
}

// toggleCompletion flips one item and runs the auto-transition check.
func toggleCompletion(task *models.Task, itemID, actorID string, role Role, now time.Time) ([]models.ActivityEntry, error) {
	if err := canToggleCompletion(role); err != nil {
		return nil, err
	}
	idx, err := findItem(task, itemID)
	if err != nil {
		return nil, err
	}
	entries := []models.ActivityEntry{toggleItem(task, idx, actorID, now)}
	return withReconcile(task, actorID, entries, now), nil
}

// applyChecklistState toggles every stored item whose completion differs from the submitted list.
// Items are matched by id when given, otherwise by position, and the text must agree.
func applyChecklistState(task *models.Task, states []models.ChecklistItemState, actorID string, role Role, now time.Time) ([]models.ActivityEntry, error) {
	if err := canToggleCompletion(role); err != nil {
		return nil, err
	}
	if len(states) != len(task.Checklist) {
		return nil, newError(CodeInvalidState, "checklist has %d items, got %d; items are added or removed individually", len(task.Checklist), len(states))
	}

	targets := make([]int, len(states))
	seen := make(map[int]bool, len(states))
	for i, st := range states {
		idx := i
		if st.ID != "" {
			idx = task.FindItem(st.ID)
			if idx < 0 {
				return nil, newError(CodeNotFound, "checklist item %s not found", st.ID)
			}
		}
		if seen[idx] {
			return nil, newError(CodeInvalidState, "checklist item %s listed twice", task.Checklist[idx].ID)
		}
		if st.Text != "" && strings.TrimSpace(st.Text) != task.Checklist[idx].Text {
			return nil, newError(CodeInvalidState, "checklist item text is immutable; remove and re-add item %s", itemLabel(task, idx))
		}
		seen[idx] = true
		targets[i] = idx
	}

	var entries []models.ActivityEntry
	for i, st := range states {
		idx := targets[i]
		if task.Checklist[idx].Completed != st.Completed {
			entries = append(entries, toggleItem(task, idx, actorID, now))
		}
	}
	return withReconcile(task, actorID, entries, now), nil
}

// setVerification verifies or unverifies one item. Setting the current value is a no-op.
func setVerification(task *models.Task, itemID, actorID string, role Role, desired bool, now time.Time) ([]models.ActivityEntry, error) {
	if err := canVerify(role); err != nil {
		return nil, err
	}
	idx, err := findItem(task, itemID)
	if err != nil {
		return nil, err
	}
	item := &task.Checklist[idx]
	changed, err := item.SetVerification(actorID, desired)
	if errors.Is(err, models.ErrVerifyIncomplete) {
		return nil, newError(CodeInvalidState, "cannot verify an incomplete item: %s", itemLabel(task, idx))
	}
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}

	action, verb := models.ActionVerifiedTodo, "verified"
	if !desired {
		action, verb = models.ActionUnverifiedTodo, "unverified"
	}
	e := newEntry(task, action, actorID, fmt.Sprintf("%s todo %s", verb, itemLabel(task, idx)), now)
	e.TodoID = item.ID
	return withReconcile(task, actorID, []models.ActivityEntry{e}, now), nil
}

func addChecklistItem(task *models.Task, itemID, text, actorID string, role Role, now time.Time) ([]models.ActivityEntry, error) {
	if err := canEditChecklist(role); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, newError(CodeInvalidState, "checklist item text is required")
	}
	task.Checklist = append(task.Checklist, models.ChecklistItem{ID: itemID, Text: text})
	idx := len(task.Checklist) - 1
	e := newEntry(task, models.ActionAddedTodo, actorID, "added todo "+itemLabel(task, idx), now)
	e.TodoID = itemID
	return withReconcile(task, actorID, []models.ActivityEntry{e}, now), nil
}

func removeChecklistItem(task *models.Task, itemID, actorID string, role Role, now time.Time) ([]models.ActivityEntry, error) {
	if err := canEditChecklist(role); err != nil {
		return nil, err
	}
	idx, err := findItem(task, itemID)
	if err != nil {
		return nil, err
	}
	label := itemLabel(task, idx)
	task.Checklist = append(task.Checklist[:idx:idx], task.Checklist[idx+1:]...)
	e := newEntry(task, models.ActionRemovedTodo, actorID, "removed todo "+label, now)
	e.TodoID = itemID
	return withReconcile(task, actorID, []models.ActivityEntry{e}, now), nil
}
