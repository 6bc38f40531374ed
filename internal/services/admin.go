package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

var (
	// ErrNotAdmin is returned when a non-admin calls an admin operation.
	ErrNotAdmin = errors.New("admins only")
	// ErrInvalidRole is returned when a role is not one of user or admin.
	ErrInvalidRole = errors.New("invalid role specified")
	// ErrLastAdmin is returned when a role change would leave the system
	// without any admin.
	ErrLastAdmin = errors.New("cannot demote the only admin")
)

// AdminUserReader defines read operations used by the role guard.
type AdminUserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	List(ctx context.Context) ([]models.UserDB, error)
}

// AdminUserWriter defines write operations used by the role guard.
// UpdateRole with guardLastAdmin set only applies while more than one admin
// exists and reports a blocked update as sql.ErrNoRows.
type AdminUserWriter interface {
	Create(ctx context.Context, username, passwordHash, role string) (*models.UserDB, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string, guardLastAdmin bool) (*models.UserDB, error)
}

// AdminService manages user accounts and roles.
type AdminService struct {
	reader AdminUserReader
	writer AdminUserWriter
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(reader AdminUserReader, writer AdminUserWriter) *AdminService {
	return &AdminService{reader: reader, writer: writer}
}

// ListUsers returns all users. Admin only.
func (svc *AdminService) ListUsers(ctx context.Context, caller models.Caller) ([]models.UserDB, error) {
	if !caller.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return svc.reader.List(ctx)
}

// CreateUser creates a user with an explicit role. Admin only.
func (svc *AdminService) CreateUser(ctx context.Context, caller models.Caller, username, password, role string) (*models.UserDB, error) {
	if !caller.IsAdmin() {
		return nil, ErrNotAdmin
	}
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	existing, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Create(ctx, username, string(hashedPassword), role)
	if err != nil {
		logger.Log.Errorw("failed to create user", "err", err)
		return nil, err
	}
	return user, nil
}

// SetRole changes the role of the target user. Admin only.
//
// A self-demotion carries the last-admin guard down into the UPDATE itself,
// so the admin count is read at decision time and two concurrent
// self-demotions cannot both pass. Demoting a different admin is never
// guarded; only the subsequent attempt to demote the last remaining admin is.
func (svc *AdminService) SetRole(ctx context.Context, caller models.Caller, targetID uuid.UUID, newRole string) (*models.UserDB, error) {
	if !caller.IsAdmin() {
		return nil, ErrNotAdmin
	}
	if !models.IsValidRole(newRole) {
		return nil, ErrInvalidRole
	}

	guard := targetID == caller.ID && caller.Role == models.RoleAdmin && newRole != models.RoleAdmin

	updated, err := svc.writer.UpdateRole(ctx, targetID, newRole, guard)
	if errors.Is(err, sql.ErrNoRows) {
		if !guard {
			return nil, ErrUserNotFound
		}
		// The guarded update matched nothing: either the target is gone or
		// the caller is the only admin left.
		target, getErr := svc.reader.GetByID(ctx, targetID)
		if getErr != nil {
			logger.Log.Errorw("failed to get user", "err", getErr)
			return nil, getErr
		}
		if target == nil {
			return nil, ErrUserNotFound
		}
		return nil, ErrLastAdmin
	}
	if err != nil {
		logger.Log.Errorw("failed to update role", "err", err)
		return nil, err
	}
	return updated, nil
}
