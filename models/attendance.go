package models

import (
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLeave   AttendanceStatus = "Leave"
)

func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent || s == AttendanceLeave
}

// AttendanceRecord is one user's attendance for one day. WorkspaceID "" is personal attendance.
type AttendanceRecord struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	UserID      string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_attendance_user_ws_date" json:"userId"`
	WorkspaceID string           `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_attendance_user_ws_date" json:"workspaceId"`
	Date        string           `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_user_ws_date" json:"date"`
	Status      AttendanceStatus `gorm:"type:varchar(10);not null" json:"status"`
	MarkedBy    string           `gorm:"type:varchar(50);not null" json:"markedBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// RectificationQuota counts past-date attendance edits for one marker, scope and month.
// A missing row for a month means nothing has been used yet.
type RectificationQuota struct {
	UserID       string    `gorm:"type:varchar(50);primaryKey" json:"userId"`
	WorkspaceID  string    `gorm:"type:varchar(50);primaryKey" json:"workspaceId"`
	YearMonth    string    `gorm:"column:quota_month;type:varchar(7);primaryKey" json:"yearMonth"`
	AttemptsUsed int       `gorm:"not null;default:0" json:"attemptsUsed"`
	MaxAttempts  int       `gorm:"not null" json:"maxAttempts"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (RectificationQuota) TableName() string {
	return "rectification_quotas"
}
