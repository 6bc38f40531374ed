package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

// AvatarStorer saves an uploaded avatar and returns its public URL.
type AvatarStorer interface {
	Store(ctx context.Context, filename string, contents io.Reader) (string, error)
}

// ProfileWriter defines write operations for profile display fields.
type ProfileWriter interface {
	UpdateProfile(ctx context.Context, id uuid.UUID, avatarURL, bio, instagramURL *string) (*models.UserDB, error)
}

// ProfileService updates display-only profile fields and avatar uploads.
type ProfileService struct {
	writer  ProfileWriter
	storage AvatarStorer
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(writer ProfileWriter, storage AvatarStorer) *ProfileService {
	return &ProfileService{writer: writer, storage: storage}
}

// UpdateProfile updates the caller's bio, Instagram link and avatar.
// Nil fields are left unchanged; avatar is optional.
func (svc *ProfileService) UpdateProfile(ctx context.Context, caller models.Caller, bio, instagramURL *string, avatarName string, avatar io.Reader) (*models.UserDB, error) {
	var avatarURL *string

	if avatar != nil {
		url, err := svc.storage.Store(ctx, avatarName, avatar)
		if err != nil {
			logger.Log.Errorw("failed to store avatar", "err", err)
			return nil, err
		}
		avatarURL = &url
	}

	user, err := svc.writer.UpdateProfile(ctx, caller.ID, avatarURL, bio, instagramURL)
	if err != nil {
		logger.Log.Errorw("failed to update profile", "err", err)
		return nil, err
	}
	return user, nil
}
