package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/middlewares"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

// maxAvatarSize bounds the multipart form held in memory.
const maxAvatarSize = 8 << 20

// ProfileUpdater defines the interface that the profile service must implement.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, caller models.Caller, bio, instagramURL *string, avatarName string, avatar io.Reader) (*models.UserDB, error)
}

// ProfileErrorResponse represents an error response for a profile update
// swagger:model ProfileErrorResponse
type ProfileErrorResponse struct {
	// Error message
	// default: Error processing form data
	Error string `json:"error"`
}

// NewUpdateProfileHandler returns an HTTP handler for profile updates.
// Accepts a multipart form with optional bio, instagram_url and avatar fields.
// @Summary Update profile
// @Description Updates display-only profile fields and an optional avatar image.
// @Tags profile
// @Accept mpfd
// @Produce json
// @Success 200 {object} models.UserDB "Updated user"
// @Failure 400 {object} handlers.ProfileErrorResponse "Malformed form data"
// @Failure 401 {object} handlers.ProfileErrorResponse "Not authenticated"
// @Router /profile [post]
// @Security BearerAuth
func NewUpdateProfileHandler(svc ProfileUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middlewares.GetCallerFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ProfileErrorResponse{Error: "Not authenticated"})
			return
		}

		if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ProfileErrorResponse{Error: "Error processing form data"})
			return
		}

		var bio, instagramURL *string
		if v := r.FormValue("bio"); v != "" {
			bio = &v
		}
		if v := r.FormValue("instagram_url"); v != "" {
			instagramURL = &v
		}

		var avatar io.Reader
		var avatarName string
		if file, header, err := r.FormFile("avatar"); err == nil {
			defer file.Close()
			avatar = file
			avatarName = header.Filename
		}

		user, err := svc.UpdateProfile(r.Context(), caller, bio, instagramURL, avatarName, avatar)
		if err != nil {
			logger.Log.Errorw("profile update failed", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ProfileErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(user)
	}
}
