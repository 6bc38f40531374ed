package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-book-rental/internal/middlewares"
)

// NewCurrentUserHandler returns an HTTP handler reporting the caller identity.
// @Summary Current user
// @Description Returns the authenticated caller's id, username and role.
// @Tags auth
// @Produce json
// @Success 200 {object} models.Caller "Caller identity"
// @Failure 401 {object} handlers.LoginErrorResponse "Not authenticated"
// @Router /auth/user [get]
// @Security BearerAuth
func NewCurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middlewares.GetCallerFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Not authenticated"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(caller)
	}
}
