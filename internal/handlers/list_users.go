package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/middlewares"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
	"github.com/sbilibin2017/gw-book-rental/internal/services"
)

// UserLister defines the interface that the admin service must implement.
type UserLister interface {
	ListUsers(ctx context.Context, caller models.Caller) ([]models.UserDB, error)
}

// UserResponse represents a user as exposed on the admin surface
// swagger:model UserResponse
type UserResponse struct {
	// User ID
	ID uuid.UUID `json:"id"`

	// Username
	// default: john_doe
	Username string `json:"username"`

	// Role
	// default: user
	Role string `json:"role"`

	// Creation timestamp
	CreatedAt time.Time `json:"created_at"`
}

// AdminErrorResponse represents an error response for admin endpoints
// swagger:model AdminErrorResponse
type AdminErrorResponse struct {
	// Error message
	// default: Forbidden: Admins only
	Error string `json:"error"`
}

// NewListUsersHandler returns an HTTP handler listing all users. Admin only.
// @Summary List users
// @Description Returns all user accounts. Admin only.
// @Tags admin
// @Produce json
// @Success 200 {array} handlers.UserResponse "Users"
// @Failure 401 {object} handlers.AdminErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.AdminErrorResponse "Admins only"
// @Router /admin/users [get]
// @Security BearerAuth
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middlewares.GetCallerFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Not authenticated"})
			return
		}

		users, err := svc.ListUsers(r.Context(), caller)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotAdmin):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Forbidden: Admins only"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Internal server error"})
			}
			return
		}

		resp := make([]UserResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, UserResponse{
				ID:        u.UserID,
				Username:  u.Username,
				Role:      u.Role,
				CreatedAt: u.CreatedAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
