package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/Aditya0Kumar/trackr-sub000/models"

	"gorm.io/gorm"
)

// ActivityLog reads the append-only audit trail. Writes only happen through appendActivity,
// inside the transaction that commits the task version the entries describe.
type ActivityLog struct {
	db       *gorm.DB
	settings Settings
}

func NewActivityLog(db *gorm.DB, settings Settings) *ActivityLog {
	return &ActivityLog{db: db, settings: settings}
}

// List returns the task's entries in insertion order, or newest first when asked.
// The stored order is never changed.
func (l *ActivityLog) List(ctx context.Context, taskID string, newestFirst bool) ([]models.ActivityEntry, error) {
	ctx, cancel := l.settings.withTimeout(ctx)
	defer cancel()

	var entries []models.ActivityEntry
	if err := l.db.WithContext(ctx).Where("task_id = ?", taskID).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, storageError(err, "activity log")
	}
	if newestFirst {
		slices.Reverse(entries)
	}
	return entries, nil
}

func appendActivity(tx *gorm.DB, entries []models.ActivityEntry) error {
	for i := range entries {
		if entries[i].ID != 0 {
			return fmt.Errorf("activity entry %d already stored", entries[i].ID)
		}
		if entries[i].TaskID == "" || entries[i].Action == "" || entries[i].ActorID == "" {
			return fmt.Errorf("activity entry missing task, action or actor: %+v", entries[i])
		}
	}
	if err := tx.Create(&entries).Error; err != nil {
		return storageError(err, "activity entry")
	}
	return nil
}
