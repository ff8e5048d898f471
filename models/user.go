package models

import (
	"time"
)

// Global user roles. A global admin administers personal tasks of any user.
const (
	UserRoleAdmin  = "admin"
	UserRoleMember = "member"
)

// User is the identity record an actor id resolves to
type User struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100)" json:"name"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Role      string    `gorm:"type:varchar(20);default:member" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// GetDisplayName falls back to the email when no name is set
func (u *User) GetDisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
