package services

import (
	"context"
	"fmt"

	"github.com/Aditya0Kumar/trackr-sub000/config"
	"github.com/Aditya0Kumar/trackr-sub000/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceService struct {
	db       *gorm.DB
	roles    RoleProvider
	guard    *RectificationGuard
	settings Settings
}

func NewAttendanceService(db *gorm.DB, roles RoleProvider, settings Settings) *AttendanceService {
	return &AttendanceService{
		db:       db,
		roles:    roles,
		guard:    NewRectificationGuard(db, settings),
		settings: settings,
	}
}

func (s *AttendanceService) Guard() *RectificationGuard {
	return s.guard
}

// MarkAttendance writes one submission. A past date costs the marker exactly one rectification
// attempt however many users it covers; when the quota is spent nothing is written.
func (s *AttendanceService) MarkAttendance(ctx context.Context, markerID string, req models.MarkAttendanceRequest) (*models.MarkAttendanceResponse, error) {
	marker, err := s.roles.User(ctx, markerID)
	if err != nil {
		return nil, err
	}
	day, err := s.guard.ParseDay(req.Date)
	if err != nil {
		return nil, err
	}
	if len(req.AttendanceRecords) == 0 {
		return nil, newError(CodeInvalidState, "no attendance records submitted")
	}

	userIDs := make([]string, 0, len(req.AttendanceRecords))
	seen := make(map[string]bool, len(req.AttendanceRecords))
	for _, r := range req.AttendanceRecords {
		if !r.Status.Valid() {
			return nil, newError(CodeInvalidState, "unknown attendance status %q", r.Status)
		}
		if r.UserID == "" || seen[r.UserID] {
			return nil, newError(CodeInvalidState, "attendance for user %q submitted twice or without id", r.UserID)
		}
		seen[r.UserID] = true
		userIDs = append(userIDs, r.UserID)
	}

	memberRole, err := s.roles.WorkspaceRole(ctx, req.WorkspaceID, marker.ID)
	if err != nil {
		return nil, err
	}
	if err := canMarkAttendance(marker.ID, memberRole, req.WorkspaceID, userIDs); err != nil {
		return nil, err
	}
	if req.WorkspaceID != "" {
		for _, id := range userIDs {
			role, err := s.roles.WorkspaceRole(ctx, req.WorkspaceID, id)
			if err != nil {
				return nil, err
			}
			if role == "" {
				return nil, newError(CodeNotFound, "user %s is not a member of workspace %s", id, req.WorkspaceID)
			}
		}
	}

	now := s.settings.now()
	dateKey := day.Format(dayLayout)
	records := make([]models.AttendanceRecord, 0, len(req.AttendanceRecords))
	for _, r := range req.AttendanceRecords {
		records = append(records, models.AttendanceRecord{
			UserID:      r.UserID,
			WorkspaceID: req.WorkspaceID,
			Date:        dateKey,
			Status:      r.Status,
			MarkedBy:    marker.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	isAdminMarking := req.WorkspaceID != ""
	var rectification bool

	txCtx, cancel := s.settings.withTimeout(ctx)
	defer cancel()
	err = s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		var err error
		rectification, err = s.guard.CheckAndConsume(txCtx, tx, userIDs[0], req.WorkspaceID, day, marker.ID, isAdminMarking)
		if err != nil {
			return err
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "workspace_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "marked_by", "updated_at"}),
		}).Create(&records).Error
		return storageError(err, "attendance records")
	})
	if err != nil {
		if CodeOf(err) == CodeQuotaExceeded {
			config.Logger.Infow("attendance rectification rejected", "markerID", marker.ID, "workspaceID", req.WorkspaceID, "date", dateKey)
		}
		return nil, err
	}

	owner := userIDs[0]
	if isAdminMarking {
		owner = marker.ID
	}
	quota, err := s.guard.Remaining(ctx, owner, req.WorkspaceID, day.Format(monthLayout))
	if err != nil {
		return nil, err
	}

	config.Logger.Infow("attendance marked",
		"markerID", marker.ID,
		"workspaceID", req.WorkspaceID,
		"date", dateKey,
		"records", len(records),
		"rectification", rectification,
	)
	msg := "Attendance marked successfully"
	if rectification {
		msg = fmt.Sprintf("Attendance rectified, %d of %d attempts left this month", quota.RemainingAttempts, quota.MaxAttempts)
	}
	return &models.MarkAttendanceResponse{
		Message:           msg,
		Date:              dateKey,
		Marked:            len(records),
		Rectification:     rectification,
		RemainingAttempts: quota.RemainingAttempts,
		MaxAttempts:       quota.MaxAttempts,
	}, nil
}

// ListAttendance returns the records of one day. Supervisors see the whole workspace, everyone
// else only their own record.
func (s *AttendanceService) ListAttendance(ctx context.Context, actorID, workspaceID, date string) ([]models.AttendanceRecord, error) {
	actor, err := s.roles.User(ctx, actorID)
	if err != nil {
		return nil, err
	}
	day, err := s.guard.ParseDay(date)
	if err != nil {
		return nil, err
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

	q := s.db.WithContext(ctx).Where("workspace_id = ? AND date = ?", workspaceID, day.Format(dayLayout))
	if !memberRole.CanSupervise() {
		q = q.Where("user_id = ?", actor.ID)
	}
	var records []models.AttendanceRecord
	if err := q.Order("user_id ASC").Find(&records).Error; err != nil {
		return nil, storageError(err, "attendance records")
	}
	return records, nil
}

// RemainingAttempts reports the actor's own quota for a scope and month.
func (s *AttendanceService) RemainingAttempts(ctx context.Context, actorID, workspaceID, month string) (models.QuotaResponse, error) {
	if _, err := s.roles.User(ctx, actorID); err != nil {
		return models.QuotaResponse{}, err
	}
	return s.guard.Remaining(ctx, actorID, workspaceID, month)
}
