package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-book-rental/internal/jwt"
	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

// Error variables
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, username, passwordHash, role string) (*models.UserDB, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// JWTGenerator defines an interface for generating session tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, caller models.Caller) (string, error)
}

// ClaimsParser extracts claims from a session token.
type ClaimsParser interface {
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TokenRevoker stores revoked session tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// AuthService handles signup, login, logout and password changes.
type AuthService struct {
	reader  UserReader
	writer  UserWriter
	jwt     JWTGenerator
	claims  ClaimsParser
	revoker TokenRevoker
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt JWTGenerator, claims ClaimsParser, revoker TokenRevoker) *AuthService {
	return &AuthService{
		reader:  reader,
		writer:  writer,
		jwt:     jwt,
		claims:  claims,
		revoker: revoker,
	}
}

// Register creates a new user with the default role and returns the user
// together with a session token.
func (svc *AuthService) Register(ctx context.Context, username, password string) (*models.UserDB, string, error) {
	existing, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, "", err
	}

	user, err := svc.writer.Create(ctx, username, string(hashedPassword), models.RoleUser)
	if err != nil {
		logger.Log.Errorw("failed to create user", "err", err)
		return nil, "", err
	}

	token, err := svc.jwt.Generate(ctx, models.Caller{ID: user.UserID, Username: user.Username, Role: user.Role})
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates a user and returns the user together with a session token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (*models.UserDB, string, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, models.Caller{ID: user.UserID, Username: user.Username, Role: user.Role})
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return nil, "", err
	}

	return user, token, nil
}

// Logout revokes the presented session token for its remaining lifetime.
func (svc *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := svc.claims.GetClaims(ctx, token)
	if err != nil {
		// An invalid or expired token needs no revocation.
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := svc.revoker.Revoke(ctx, token, ttl); err != nil {
		logger.Log.Errorw("failed to revoke token", "err", err)
		return err
	}
	return nil
}

// ChangePassword replaces the caller's password after verifying the current one.
func (svc *AuthService) ChangePassword(ctx context.Context, caller models.Caller, currentPassword, newPassword string) error {
	user, err := svc.reader.GetByID(ctx, caller.ID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.UpdatePassword(ctx, caller.ID, string(hashedPassword)); err != nil {
		logger.Log.Errorw("failed to update password", "err", err)
		return err
	}
	return nil
}
