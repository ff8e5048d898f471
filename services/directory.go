package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Aditya0Kumar/trackr-sub000/config"
	"github.com/Aditya0Kumar/trackr-sub000/models"
	"github.com/Aditya0Kumar/trackr-sub000/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleProvider resolves actors and their workspace roles.
type RoleProvider interface {
	User(ctx context.Context, userID string) (models.User, error)
	// WorkspaceRole returns "" when the user is not a member.
	WorkspaceRole(ctx context.Context, workspaceID, userID string) (models.MemberRole, error)
}

// Directory is the database-backed RoleProvider.
type Directory struct {
	db       *gorm.DB
	settings Settings
}

func NewDirectory(db *gorm.DB, settings Settings) *Directory {
	return &Directory{db: db, settings: settings}
}

func (d *Directory) User(ctx context.Context, userID string) (models.User, error) {
	ctx, cancel := d.settings.withTimeout(ctx)
	defer cancel()

	var user models.User
	if err := d.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return models.User{}, storageError(err, "user "+userID)
	}
	return user, nil
}

func (d *Directory) WorkspaceRole(ctx context.Context, workspaceID, userID string) (models.MemberRole, error) {
	if workspaceID == "" {
		return "", nil
	}
	ctx, cancel := d.settings.withTimeout(ctx)
	defer cancel()

	var member models.WorkspaceMember
	err := d.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", storageError(err, "workspace membership")
	}
	return member.Role, nil
}

// CreateUser registers an identity. An empty id gets a generated one.
func (d *Directory) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	ctx, cancel := d.settings.withTimeout(ctx)
	defer cancel()

	user := models.User{
		ID:        strings.TrimSpace(req.ID),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Role:      req.Role,
		CreatedAt: d.settings.now(),
	}
	if user.ID == "" {
		user.ID = utils.GenerateID()
	}
	if user.Role == "" {
		user.Role = models.UserRoleMember
	}

	var count int64
	err := d.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? OR email = ?", user.ID, user.Email).
		Count(&count).Error
	if err != nil {
		return models.User{}, storageError(err, "users")
	}
	if count > 0 {
		return models.User{}, newError(CodeInvalidState, "user %s or email %s already registered", user.ID, user.Email)
	}
	if err := d.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, storageError(err, "user")
	}

	config.Logger.Infow("user registered", "userID", user.ID, "name", user.GetDisplayName(), "role", user.Role)
	return user, nil
}

// SetMember adds userID to workspaceID or changes their role there.
func (d *Directory) SetMember(ctx context.Context, workspaceID, userID string, role models.MemberRole) (models.WorkspaceMember, error) {
	if workspaceID == "" {
		return models.WorkspaceMember{}, newError(CodeInvalidState, "workspace id is required")
	}
	if !role.Valid() {
		return models.WorkspaceMember{}, newError(CodeInvalidState, "unknown workspace role %q", role)
	}
	if _, err := d.User(ctx, userID); err != nil {
		return models.WorkspaceMember{}, err
	}

	ctx, cancel := d.settings.withTimeout(ctx)
	defer cancel()

	member := models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		CreatedAt:   d.settings.now(),
	}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(&member).Error
	if err != nil {
		return models.WorkspaceMember{}, storageError(err, "workspace membership")
	}

	config.Logger.Infow("workspace member set", "workspaceID", workspaceID, "userID", userID, "role", role)
	return member, nil
}

// tokenTTL is how long tokens issued by IssueToken stay valid
const tokenTTL = 30 * 24 * time.Hour

// IssueToken signs a bearer token for an existing user.
func (d *Directory) IssueToken(ctx context.Context, userID string) (string, error) {
	if _, err := d.User(ctx, userID); err != nil {
		return "", err
	}
	return utils.GenerateToken(userID, tokenTTL)
}
