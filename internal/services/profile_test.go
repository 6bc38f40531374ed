package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-book-rental/internal/models"
	"github.com/sbilibin2017/gw-book-rental/internal/services"
)

func TestProfileService_UpdateProfile(t *testing.T) {
	userID := uuid.New()
	caller := models.Caller{ID: userID, Username: "alice", Role: models.RoleUser}
	bio := "book lover"
	instagram := "https://instagram.com/alice"

	t.Run("updates fields without avatar", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockWriter := services.NewMockProfileWriter(ctrl)
		svc := services.NewProfileService(mockWriter, nil)

		updated := &models.UserDB{UserID: userID, Username: "alice", Bio: &bio, InstagramURL: &instagram}
		mockWriter.EXPECT().
			UpdateProfile(gomock.Any(), userID, nil, &bio, &instagram).
			Return(updated, nil)

		got, err := svc.UpdateProfile(context.Background(), caller, &bio, &instagram, "", nil)
		assert.NoError(t, err)
		assert.Equal(t, &bio, got.Bio)
	})

	t.Run("stores avatar and saves its url", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockWriter := services.NewMockProfileWriter(ctrl)
		mockStorage := services.NewMockAvatarStorer(ctrl)
		svc := services.NewProfileService(mockWriter, mockStorage)

		avatar := strings.NewReader("png bytes")
		url := "/media/abc.png"
		mockStorage.EXPECT().Store(gomock.Any(), "me.png", avatar).Return(url, nil)
		mockWriter.EXPECT().
			UpdateProfile(gomock.Any(), userID, &url, nil, nil).
			Return(&models.UserDB{UserID: userID, Username: "alice", AvatarURL: &url}, nil)

		got, err := svc.UpdateProfile(context.Background(), caller, nil, nil, "me.png", avatar)
		assert.NoError(t, err)
		assert.Equal(t, &url, got.AvatarURL)
	})

	t.Run("storage error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockWriter := services.NewMockProfileWriter(ctrl)
		mockStorage := services.NewMockAvatarStorer(ctrl)
		svc := services.NewProfileService(mockWriter, mockStorage)

		avatar := strings.NewReader("png bytes")
		mockStorage.EXPECT().Store(gomock.Any(), "me.png", avatar).Return("", errors.New("disk full"))

		got, err := svc.UpdateProfile(context.Background(), caller, nil, nil, "me.png", avatar)
		assert.EqualError(t, err, "disk full")
		assert.Nil(t, got)
	})

	t.Run("writer error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockWriter := services.NewMockProfileWriter(ctrl)
		svc := services.NewProfileService(mockWriter, nil)

		mockWriter.EXPECT().
			UpdateProfile(gomock.Any(), userID, nil, &bio, nil).
			Return(nil, errors.New("db error"))

		got, err := svc.UpdateProfile(context.Background(), caller, &bio, nil, "", nil)
		assert.EqualError(t, err, "db error")
		assert.Nil(t, got)
	})
}
