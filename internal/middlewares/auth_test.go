package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-book-rental/internal/jwt"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	claims := &jwt.Claims{UserID: userID, Username: "alice", Role: models.RoleUser}

	tests := []struct {
		name             string
		mockSetup        func(m *MockTokener, rc *MockRevocationChecker)
		expectedStatus   int
		expectNextCalled bool
	}{
		{
			name: "NoToken",
			mockSetup: func(m *MockTokener, rc *MockRevocationChecker) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("no token"))
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "InvalidToken",
			mockSetup: func(m *MockTokener, rc *MockRevocationChecker) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				m.EXPECT().GetClaims(gomock.Any(), "sometoken").
					Return(nil, errors.New("invalid token"))
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "RevokedToken",
			mockSetup: func(m *MockTokener, rc *MockRevocationChecker) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("revokedtoken", nil)
				m.EXPECT().GetClaims(gomock.Any(), "revokedtoken").
					Return(claims, nil)
				rc.EXPECT().IsRevoked(gomock.Any(), "revokedtoken").
					Return(true, nil)
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "RevocationCheckFails",
			mockSetup: func(m *MockTokener, rc *MockRevocationChecker) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				m.EXPECT().GetClaims(gomock.Any(), "sometoken").
					Return(claims, nil)
				rc.EXPECT().IsRevoked(gomock.Any(), "sometoken").
					Return(false, errors.New("redis down"))
			},
			expectedStatus:   http.StatusInternalServerError,
			expectNextCalled: false,
		},
		{
			name: "ValidToken",
			mockSetup: func(m *MockTokener, rc *MockRevocationChecker) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				m.EXPECT().GetClaims(gomock.Any(), "validtoken").
					Return(claims, nil)
				rc.EXPECT().IsRevoked(gomock.Any(), "validtoken").
					Return(false, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockTokener(ctrl)
			mockRevocation := NewMockRevocationChecker(ctrl)
			tt.mockSetup(mockTokener, mockRevocation)

			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true

				caller, ok := GetCallerFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, userID, caller.ID)
				assert.Equal(t, "alice", caller.Username)

				token, ok := GetTokenFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "validtoken", token)

				w.WriteHeader(http.StatusOK)
			})

			handler := AuthMiddleware(mockTokener, mockRevocation)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
		})
	}
}

func TestAuthMiddleware_NilRevocationChecker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTokener := NewMockTokener(ctrl)
	mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("validtoken", nil)
	mockTokener.EXPECT().GetClaims(gomock.Any(), "validtoken").
		Return(&jwt.Claims{UserID: uuid.New(), Username: "alice", Role: models.RoleUser}, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := AuthMiddleware(mockTokener, nil)(next)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(next)

	t.Run("AdminPasses", func(t *testing.T) {
		caller := models.Caller{ID: uuid.New(), Username: "root", Role: models.RoleAdmin}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(SetCallerToContext(req.Context(), caller))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("UserForbidden", func(t *testing.T) {
		caller := models.Caller{ID: uuid.New(), Username: "bob", Role: models.RoleUser}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(SetCallerToContext(req.Context(), caller))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "Forbidden: Admins only")
	})

	t.Run("NoCallerUnauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
