package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-book-rental/internal/handlers"
	"github.com/sbilibin2017/gw-book-rental/internal/middlewares"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

func TestCurrentUserHandler(t *testing.T) {
	handler := handlers.NewCurrentUserHandler()

	t.Run("returns the caller identity", func(t *testing.T) {
		caller := models.Caller{ID: uuid.New(), Username: "alice", Role: models.RoleAdmin}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/user", nil)
		req = req.WithContext(middlewares.SetCallerToContext(req.Context(), caller))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.Caller
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, caller, got)
	})

	t.Run("no caller in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/user", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
