package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/middlewares"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
	"github.com/sbilibin2017/gw-book-rental/internal/services"
)

// UserCreator defines the interface that the admin service must implement.
type UserCreator interface {
	CreateUser(ctx context.Context, caller models.Caller, username, password, role string) (*models.UserDB, error)
}

// CreateUserRequest represents the JSON body for admin user creation
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username" validate:"required"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password" validate:"required"`

	// Role: user or admin
	// required: true
	// default: user
	Role string `json:"role" validate:"required"`
}

// NewCreateUserHandler returns an HTTP handler for admin user creation.
// @Summary Create a user
// @Description Creates a user account with an explicit role. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Param createUserRequest body handlers.CreateUserRequest true "User creation request"
// @Success 201 {object} handlers.UserResponse "Created user"
// @Failure 400 {object} handlers.AdminErrorResponse "Missing fields or invalid role"
// @Failure 401 {object} handlers.AdminErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.AdminErrorResponse "Admins only"
// @Failure 409 {object} handlers.AdminErrorResponse "Username already taken"
// @Router /admin/users [post]
// @Security BearerAuth
func NewCreateUserHandler(svc UserCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middlewares.GetCallerFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Not authenticated"})
			return
		}

		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(AdminErrorResponse{Error: "invalid request body"})
			return
		}
		if err := validate.Struct(req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Username, password, and role are required"})
			return
		}

		user, err := svc.CreateUser(r.Context(), caller, req.Username, req.Password, req.Role)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotAdmin):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Forbidden: Admins only"})
			case errors.Is(err, services.ErrInvalidRole):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Invalid role specified"})
			case errors.Is(err, services.ErrUsernameTaken):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Username already taken"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(UserResponse{
			ID:        user.UserID,
			Username:  user.Username,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		})
	}
}
