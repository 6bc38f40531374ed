package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-book-rental/internal/handlers"
	"github.com/sbilibin2017/gw-book-rental/internal/middlewares"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
	"github.com/sbilibin2017/gw-book-rental/internal/services"
)

func TestDeleteBookHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := handlers.NewMockBookDeleter(ctrl)

	caller := models.Caller{ID: uuid.New(), Username: "alice", Role: models.RoleUser}
	bookID := uuid.New()

	router := chi.NewRouter()
	router.Delete("/books/{id}", handlers.NewDeleteBookHandler(mockSvc))

	do := func(id string, withCaller bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/books/"+id, nil)
		if withCaller {
			req = req.WithContext(middlewares.SetCallerToContext(req.Context(), caller))
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("deletes a book", func(t *testing.T) {
		mockSvc.EXPECT().DeleteBook(gomock.Any(), caller, bookID).Return(nil)

		rr := do(bookID.String(), true)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("not authenticated", func(t *testing.T) {
		rr := do(bookID.String(), false)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		rr := do("not-a-uuid", true)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unknown book", func(t *testing.T) {
		mockSvc.EXPECT().DeleteBook(gomock.Any(), caller, bookID).Return(services.ErrBookNotFound)

		rr := do(bookID.String(), true)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("not the owner", func(t *testing.T) {
		mockSvc.EXPECT().DeleteBook(gomock.Any(), caller, bookID).Return(services.ErrNotOwner)

		rr := do(bookID.String(), true)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
