package services

import (
	"slices"
	"testing"

	"github.com/Aditya0Kumar/trackr-sub000/models"

	"github.com/stretchr/testify/assert"
)

func TestTaskRole(t *testing.T) {
	ws := site
	workspaceTask := &models.Task{WorkspaceID: &ws, CreatedBy: "admin", AssignedTo: []string{"worker"}}
	personalTask := &models.Task{CreatedBy: "owner", AssignedTo: []string{"worker"}}

	tests := []struct {
		name       string
		actor      models.User
		memberRole models.MemberRole
		task       *models.Task
		want       Role
	}{
		{"workspace admin", models.User{ID: "admin"}, models.MemberRoleAdmin, workspaceTask, RoleAdmin},
		{"workspace manager", models.User{ID: "manager"}, models.MemberRoleManager, workspaceTask, RoleAdmin},
		{"assigned member", models.User{ID: "worker"}, models.MemberRoleMember, workspaceTask, RoleAssignee},
		{"unassigned member", models.User{ID: "worker2"}, models.MemberRoleMember, workspaceTask, RoleOther},
		{"global admin outside workspace", models.User{ID: "root", Role: models.UserRoleAdmin}, "", workspaceTask, RoleOther},
		{"personal creator", models.User{ID: "owner"}, "", personalTask, RoleAdmin},
		{"personal assignee", models.User{ID: "worker"}, "", personalTask, RoleAssignee},
		{"global admin on personal task", models.User{ID: "root", Role: models.UserRoleAdmin}, "", personalTask, RoleAdmin},
		{"stranger", models.User{ID: "x"}, "", personalTask, RoleOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TaskRole(tt.actor, tt.memberRole, tt.task))
		})
	}
}

func TestOperationPermissions(t *testing.T) {
	checks := map[string]func(Role) error{
		"toggle":  canToggleCompletion,
		"verify":  canVerify,
		"edit":    canEditChecklist,
		"assign":  canAssign,
		"comment": canComment,
		"status":  canRequestStatus,
	}
	allowed := map[string][]Role{
		"toggle":  {RoleAdmin, RoleAssignee},
		"verify":  {RoleAdmin},
		"edit":    {RoleAdmin},
		"assign":  {RoleAdmin},
		"comment": {RoleAdmin, RoleAssignee},
		"status":  {RoleAdmin, RoleAssignee},
	}
	for name, check := range checks {
		for _, role := range []Role{RoleAdmin, RoleAssignee, RoleOther} {
			err := check(role)
			if slices.Contains(allowed[name], role) {
				assert.NoError(t, err, "%s as %s", name, role)
			} else {
				assert.ErrorIs(t, err, ErrForbidden, "%s as %s", name, role)
			}
		}
	}
}

func TestCanMarkAttendance(t *testing.T) {
	assert.NoError(t, canMarkAttendance("admin", models.MemberRoleAdmin, site, []string{"worker", "worker2"}))
	assert.NoError(t, canMarkAttendance("manager", models.MemberRoleManager, site, []string{"worker"}))
	assert.ErrorIs(t, canMarkAttendance("worker", models.MemberRoleMember, site, []string{"worker"}), ErrForbidden)
	assert.NoError(t, canMarkAttendance("worker", "", "", []string{"worker"}))
	assert.ErrorIs(t, canMarkAttendance("worker", "", "", []string{"worker2"}), ErrForbidden)
}
