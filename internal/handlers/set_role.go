package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/middlewares"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
	"github.com/sbilibin2017/gw-book-rental/internal/services"
)

// RoleSetter defines the interface that the admin service must implement.
type RoleSetter interface {
	SetRole(ctx context.Context, caller models.Caller, targetID uuid.UUID, newRole string) (*models.UserDB, error)
}

// SetRoleRequest represents the JSON body for a role change
// swagger:model SetRoleRequest
type SetRoleRequest struct {
	// Role: user or admin
	// required: true
	// default: admin
	Role string `json:"role" validate:"required"`
}

// NewSetRoleHandler returns an HTTP handler changing a user's role. Admin only.
// @Summary Change a user's role
// @Description Sets the target user's role. The last remaining admin cannot demote themselves.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param setRoleRequest body handlers.SetRoleRequest true "Role change request"
// @Success 200 {object} handlers.UserResponse "Updated user"
// @Failure 400 {object} handlers.AdminErrorResponse "Invalid role or last-admin demotion"
// @Failure 401 {object} handlers.AdminErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.AdminErrorResponse "Admins only"
// @Failure 404 {object} handlers.AdminErrorResponse "User not found"
// @Router /admin/users/{id} [put]
// @Security BearerAuth
func NewSetRoleHandler(svc RoleSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middlewares.GetCallerFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Not authenticated"})
			return
		}

		targetID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(AdminErrorResponse{Error: "User not found"})
			return
		}

		var req SetRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(AdminErrorResponse{Error: "invalid request body"})
			return
		}
		if err := validate.Struct(req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Role is required"})
			return
		}

		user, err := svc.SetRole(r.Context(), caller, targetID, req.Role)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotAdmin):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Forbidden: Admins only"})
			case errors.Is(err, services.ErrInvalidRole):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Invalid role specified"})
			case errors.Is(err, services.ErrLastAdmin):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Cannot demote the only admin."})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(AdminErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UserResponse{
			ID:        user.UserID,
			Username:  user.Username,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		})
	}
}
