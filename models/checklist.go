package models

import (
	"errors"
	"fmt"
)

// ErrVerifyIncomplete is returned when verification is requested for an item that is not done
var ErrVerifyIncomplete = errors.New("cannot verify an incomplete item")

// ChecklistItem is one todo entry nested in a task. Text never changes after creation.
type ChecklistItem struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	Completed   bool    `json:"completed"`
	CompletedBy *string `json:"completedBy"`
	Verified    bool    `json:"verified"`
	VerifiedBy  *string `json:"verifiedBy"`
}

// ToggleCompletion flips the completed flag. Un-completing an item also drops its verification.
func (i *ChecklistItem) ToggleCompletion(actorID string) {
	if i.Completed {
		i.Completed = false
		i.CompletedBy = nil
		i.Verified = false
		i.VerifiedBy = nil
		return
	}
	i.Completed = true
	i.CompletedBy = &actorID
}

// SetVerification sets the verified flag; it reports whether anything changed.
func (i *ChecklistItem) SetVerification(actorID string, verified bool) (bool, error) {
	if verified && !i.Completed {
		return false, ErrVerifyIncomplete
	}
	if i.Verified == verified {
		return false, nil
	}
	i.Verified = verified
	if verified {
		i.VerifiedBy = &actorID
	} else {
		i.VerifiedBy = nil
	}
	return true, nil
}

// Validate checks the item invariants on a stored document
func (i *ChecklistItem) Validate() error {
	if i.Verified && !i.Completed {
		return fmt.Errorf("checklist item %s is verified but not completed", i.ID)
	}
	if i.Completed && i.CompletedBy == nil {
		return fmt.Errorf("checklist item %s is completed without completedBy", i.ID)
	}
	if i.Verified && i.VerifiedBy == nil {
		return fmt.Errorf("checklist item %s is verified without verifiedBy", i.ID)
	}
	return nil
}
