package services

import (
	"context"
	"errors"
	"time"

	"github.com/Aditya0Kumar/trackr-sub000/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// RectificationGuard bounds how often a marker may edit past attendance in a calendar month.
// There is no reset job: a month without a quota row simply has its full allowance.
type RectificationGuard struct {
	db       *gorm.DB
	settings Settings
}

func NewRectificationGuard(db *gorm.DB, settings Settings) *RectificationGuard {
	return &RectificationGuard{db: db, settings: settings}
}

// Today is the current calendar day in the reference timezone
func (g *RectificationGuard) Today() time.Time {
	now := g.settings.now().In(g.settings.location())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// ParseDay parses a YYYY-MM-DD date in the reference timezone
func (g *RectificationGuard) ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, day, g.settings.location())
	if err != nil {
		return time.Time{}, newError(CodeInvalidState, "invalid date %q, expected YYYY-MM-DD", day)
	}
	return t, nil
}

// IsRectification reports whether targetDate lies strictly before today
func (g *RectificationGuard) IsRectification(targetDate time.Time) bool {
	t := targetDate.In(g.settings.location())
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.Before(g.Today())
}

// CheckAndConsume takes one rectification attempt for a past-date submission, inside tx.
// Present and future dates never touch the quota. The quota belongs to the marker when an admin
// marks on behalf of others, otherwise to userID. The increment is a single conditional update,
// so concurrent submissions cannot both take the last slot.
func (g *RectificationGuard) CheckAndConsume(ctx context.Context, tx *gorm.DB, userID, workspaceID string, targetDate time.Time, markerID string, isAdminMarking bool) (bool, error) {
	if !g.IsRectification(targetDate) {
		return false, nil
	}
	owner := userID
	if isAdminMarking {
		owner = markerID
	}
	month := targetDate.In(g.settings.location()).Format(monthLayout)
	tx = tx.WithContext(ctx)

	quota := models.RectificationQuota{
		UserID:      owner,
		WorkspaceID: workspaceID,
		YearMonth:   month,
		MaxAttempts: g.settings.MaxRectificationAttempts,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&quota).Error; err != nil {
		return false, storageError(err, "rectification quota")
	}

	res := tx.Model(&models.RectificationQuota{}).
		Where("user_id = ? AND workspace_id = ? AND quota_month = ? AND attempts_used < max_attempts", owner, workspaceID, month).
		Updates(map[string]interface{}{
			"attempts_used": gorm.Expr("attempts_used + ?", 1),
			"updated_at":    g.settings.now(),
		})
	if res.Error != nil {
		return false, storageError(res.Error, "rectification quota")
	}
	if res.RowsAffected == 0 {
		var stamped models.RectificationQuota
		err := tx.Where("user_id = ? AND workspace_id = ? AND quota_month = ?", owner, workspaceID, month).First(&stamped).Error
		if err != nil {
			return false, storageError(err, "rectification quota")
		}
		return false, newError(CodeQuotaExceeded, "rectification limit reached: %d attempts per month already used for %s", stamped.MaxAttempts, month)
	}
	return true, nil
}

// Remaining reports the quota state of one marker, scope and month ("YYYY-MM", empty = current month).
func (g *RectificationGuard) Remaining(ctx context.Context, userID, workspaceID, month string) (models.QuotaResponse, error) {
	if month == "" {
		month = g.Today().Format(monthLayout)
	} else if _, err := time.Parse(monthLayout, month); err != nil {
		return models.QuotaResponse{}, newError(CodeInvalidState, "invalid month %q, expected YYYY-MM", month)
	}

	ctx, cancel := g.settings.withTimeout(ctx)
	defer cancel()

	resp := models.QuotaResponse{
		YearMonth:   month,
		MaxAttempts: g.settings.MaxRectificationAttempts,
	}
	var quota models.RectificationQuota
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND workspace_id = ? AND quota_month = ?", userID, workspaceID, month).
		First(&quota).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return models.QuotaResponse{}, storageError(err, "rectification quota")
	default:
		resp.AttemptsUsed = quota.AttemptsUsed
		resp.MaxAttempts = quota.MaxAttempts
	}
	resp.RemainingAttempts = resp.MaxAttempts - resp.AttemptsUsed
	if resp.RemainingAttempts < 0 {
		resp.RemainingAttempts = 0
	}
	return resp, nil
}
