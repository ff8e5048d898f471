package models

import "time"

// MemberRole is a user's role inside one workspace
type MemberRole string

const (
	MemberRoleAdmin   MemberRole = "admin"
	MemberRoleManager MemberRole = "manager"
	MemberRoleMember  MemberRole = "member"
)

func (r MemberRole) Valid() bool {
	return r == MemberRoleAdmin || r == MemberRoleManager || r == MemberRoleMember
}

// CanSupervise reports whether the role may verify work and mark attendance
func (r MemberRole) CanSupervise() bool {
	return r == MemberRoleAdmin || r == MemberRoleManager
}

// WorkspaceMember links a user to a workspace (construction site)
type WorkspaceMember struct {
	WorkspaceID string     `gorm:"type:varchar(50);primaryKey" json:"workspaceId"`
	UserID      string     `gorm:"type:varchar(50);primaryKey" json:"userId"`
	Role        MemberRole `gorm:"type:varchar(20)" json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
}
