package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

const userColumns = `id, username, password_hash, role, avatar_url, bio, instagram_url, created_at, updated_at`

// UserReadRepository handles user read operations
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByID returns the user with the given id, or nil if no such user exists.
func (r *UserReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id)

	logger.Log.Infow("user get by id",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns the user with the given username, or nil if no such user exists.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username)

	logger.Log.Infow("user get by username",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users ordered by creation time.
func (r *UserReadRepository) List(ctx context.Context) ([]models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at ASC
	`

	var users []models.UserDB
	err := r.db.SelectContext(ctx, &users, query)

	logger.Log.Infow("user list",
		"query", strings.Join(strings.Fields(query), " "),
		"count", len(users),
		"error", err,
	)

	return users, err
}

// CountAdmins returns the current number of users with the admin role.
func (r *UserReadRepository) CountAdmins(ctx context.Context) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM users
		WHERE role = 'admin'
	`

	var count int
	err := r.db.GetContext(ctx, &count, query)

	logger.Log.Infow("admin count",
		"query", strings.Join(strings.Fields(query), " "),
		"result", count,
		"error", err,
	)

	return count, err
}

// UserWriteRepository handles user write operations
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

func (r *UserWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Create inserts a new user and returns the stored row.
func (r *UserWriteRepository) Create(ctx context.Context, username, passwordHash, role string) (*models.UserDB, error) {
	query := `
		INSERT INTO users (id, username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + userColumns + `
	`
	args := []any{uuid.New(), username, passwordHash, role}

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, args...)

	logger.Log.Infow("user create",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, role},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword replaces the password hash of the given user.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, passwordHash, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("user update password",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateProfile updates the optional display fields of a user.
// Nil fields are left unchanged.
func (r *UserWriteRepository) UpdateProfile(ctx context.Context, id uuid.UUID, avatarURL, bio, instagramURL *string) (*models.UserDB, error) {
	query := `
		UPDATE users
		SET avatar_url = COALESCE($1, avatar_url),
		    bio = COALESCE($2, bio),
		    instagram_url = COALESCE($3, instagram_url),
		    updated_at = NOW()
		WHERE id = $4
		RETURNING ` + userColumns + `
	`
	args := []any{avatarURL, bio, instagramURL, id}

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, args...)

	logger.Log.Infow("user update profile",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRole sets the role of the given user and returns the updated row.
// When guardLastAdmin is true the update only applies while more than one
// admin exists, so the last admin cannot be demoted even under concurrent
// requests; a guarded update that matches no rows returns sql.ErrNoRows.
func (r *UserWriteRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string, guardLastAdmin bool) (*models.UserDB, error) {
	query := `
		UPDATE users
		SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns + `
	`
	if guardLastAdmin {
		query = `
		UPDATE users
		SET role = $1, updated_at = NOW()
		WHERE id = $2
		  AND (SELECT COUNT(*) FROM users WHERE role = 'admin') > 1
		RETURNING ` + userColumns + `
	`
	}

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, role, id)

	logger.Log.Infow("user update role",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, role, guardLastAdmin},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &user, nil
}
