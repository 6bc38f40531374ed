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

// PasswordChanger defines the interface that the password service must implement.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, caller models.Caller, currentPassword, newPassword string) error
}

// ChangePasswordRequest represents the JSON body for a password change
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// Current password
	// required: true
	CurrentPassword string `json:"current_password" validate:"required"`

	// New password
	// required: true
	NewPassword string `json:"new_password" validate:"required"`
}

// ChangePasswordResponse represents a successful password change
// swagger:model ChangePasswordResponse
type ChangePasswordResponse struct {
	// Success message
	// default: Password updated successfully
	Message string `json:"message"`
}

// ChangePasswordErrorResponse represents an error response for a password change
// swagger:model ChangePasswordErrorResponse
type ChangePasswordErrorResponse struct {
	// Error message
	// default: Current password is incorrect
	Error string `json:"error"`
}

// NewChangePasswordHandler returns an HTTP handler for changing the caller's password.
// @Summary Change password
// @Description Replaces the caller's password after verifying the current one.
// @Tags auth
// @Accept json
// @Produce json
// @Param changePasswordRequest body handlers.ChangePasswordRequest true "Password change request"
// @Success 200 {object} handlers.ChangePasswordResponse "Password updated"
// @Failure 400 {object} handlers.ChangePasswordErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ChangePasswordErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.ChangePasswordErrorResponse "Current password is incorrect"
// @Router /auth/change-password [post]
// @Security BearerAuth
func NewChangePasswordHandler(svc PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middlewares.GetCallerFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ChangePasswordErrorResponse{Error: "Not authenticated"})
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ChangePasswordErrorResponse{Error: "invalid request body"})
			return
		}
		if err := validate.Struct(req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ChangePasswordErrorResponse{Error: "Current and new passwords are required"})
			return
		}

		err := svc.ChangePassword(r.Context(), caller, req.CurrentPassword, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrWrongPassword):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(ChangePasswordErrorResponse{Error: "Current password is incorrect"})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ChangePasswordErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ChangePasswordErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ChangePasswordResponse{Message: "Password updated successfully"})
	}
}
