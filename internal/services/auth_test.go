package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-book-rental/internal/jwt"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
	"github.com/sbilibin2017/gw-book-rental/internal/services"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, nil, nil)

	tests := []struct {
		name         string
		username     string
		password     string
		existingUser *models.UserDB
		readerErr    error
		writerErr    error
		wantErr      error
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "pass123",
		},
		{
			name:         "username taken",
			username:     "bob",
			password:     "pass123",
			existingUser: &models.UserDB{UserID: uuid.New(), Username: "bob"},
			wantErr:      services.ErrUsernameTaken,
		},
		{
			name:      "reader error",
			username:  "eve",
			password:  "pass123",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "writer error",
			username:  "carol",
			password:  "pass123",
			writerErr: errors.New("save error"),
			wantErr:   errors.New("save error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().
				GetByUsername(gomock.Any(), tt.username).
				Return(tt.existingUser, tt.readerErr)

			if tt.existingUser == nil && tt.readerErr == nil {
				created := &models.UserDB{UserID: uuid.New(), Username: tt.username, Role: models.RoleUser}
				mockWriter.EXPECT().
					Create(gomock.Any(), tt.username, gomock.Any(), models.RoleUser).
					Return(created, tt.writerErr)
				if tt.writerErr == nil {
					mockJWT.EXPECT().
						Generate(gomock.Any(), models.Caller{ID: created.UserID, Username: created.Username, Role: created.Role}).
						Return("token123", nil)
				}
			}

			user, token, err := svc.Register(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, models.RoleUser, user.Role)
				assert.Equal(t, "token123", token)
			}
		})
	}
}

func TestAuthService_Register_CreateReturnsNilOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, nil, nil)

	mockReader.EXPECT().GetByUsername(gomock.Any(), "dave").Return(nil, nil)
	mockWriter.EXPECT().Create(gomock.Any(), "dave", gomock.Any(), models.RoleUser).
		Return(&models.UserDB{UserID: uuid.New(), Username: "dave", Role: models.RoleUser}, nil)
	mockJWT.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", errors.New("sign error"))

	user, token, err := svc.Register(context.Background(), "dave", "pw")
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, nil, nil)

	password := "secret"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userID := uuid.New()
	stored := &models.UserDB{UserID: userID, Username: "alice", PasswordHash: string(hashed), Role: models.RoleUser}

	t.Run("success", func(t *testing.T) {
		mockReader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(stored, nil)
		mockJWT.EXPECT().
			Generate(gomock.Any(), models.Caller{ID: userID, Username: "alice", Role: models.RoleUser}).
			Return("token123", nil)

		user, token, err := svc.Login(context.Background(), "alice", password)
		assert.NoError(t, err)
		assert.Equal(t, userID, user.UserID)
		assert.Equal(t, "token123", token)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockReader.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, nil)

		user, token, err := svc.Login(context.Background(), "ghost", password)
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		assert.Nil(t, user)
		assert.Empty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockReader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(stored, nil)

		user, token, err := svc.Login(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		assert.Nil(t, user)
		assert.Empty(t, token)
	})

	t.Run("reader error", func(t *testing.T) {
		mockReader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, errors.New("db error"))

		_, _, err := svc.Login(context.Background(), "alice", password)
		assert.EqualError(t, err, "db error")
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClaims := services.NewMockClaimsParser(ctrl)
	mockRevoker := services.NewMockTokenRevoker(ctrl)

	svc := services.NewAuthService(nil, nil, nil, mockClaims, mockRevoker)

	t.Run("revokes for remaining lifetime", func(t *testing.T) {
		claims := &jwt.Claims{
			UserID: uuid.New(),
			RegisteredClaims: gojwt.RegisteredClaims{
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		mockClaims.EXPECT().GetClaims(gomock.Any(), "tok").Return(claims, nil)
		mockRevoker.EXPECT().Revoke(gomock.Any(), "tok", gomock.Any()).Return(nil)

		err := svc.Logout(context.Background(), "tok")
		assert.NoError(t, err)
	})

	t.Run("invalid token is a no-op", func(t *testing.T) {
		mockClaims.EXPECT().GetClaims(gomock.Any(), "bad").Return(nil, errors.New("invalid token"))

		err := svc.Logout(context.Background(), "bad")
		assert.NoError(t, err)
	})

	t.Run("revoker error", func(t *testing.T) {
		claims := &jwt.Claims{
			UserID: uuid.New(),
			RegisteredClaims: gojwt.RegisteredClaims{
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		mockClaims.EXPECT().GetClaims(gomock.Any(), "tok").Return(claims, nil)
		mockRevoker.EXPECT().Revoke(gomock.Any(), "tok", gomock.Any()).Return(errors.New("redis down"))

		err := svc.Logout(context.Background(), "tok")
		assert.EqualError(t, err, "redis down")
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, nil, nil, nil)

	current := "oldpass"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(current), bcrypt.DefaultCost)
	userID := uuid.New()
	caller := models.Caller{ID: userID, Username: "alice", Role: models.RoleUser}
	stored := &models.UserDB{UserID: userID, Username: "alice", PasswordHash: string(hashed)}

	t.Run("success", func(t *testing.T) {
		mockReader.EXPECT().GetByID(gomock.Any(), userID).Return(stored, nil)
		mockWriter.EXPECT().UpdatePassword(gomock.Any(), userID, gomock.Any()).Return(nil)

		err := svc.ChangePassword(context.Background(), caller, current, "newpass")
		assert.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		mockReader.EXPECT().GetByID(gomock.Any(), userID).Return(stored, nil)

		err := svc.ChangePassword(context.Background(), caller, "nope", "newpass")
		assert.ErrorIs(t, err, services.ErrWrongPassword)
	})

	t.Run("user gone", func(t *testing.T) {
		mockReader.EXPECT().GetByID(gomock.Any(), userID).Return(nil, nil)

		err := svc.ChangePassword(context.Background(), caller, current, "newpass")
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}
