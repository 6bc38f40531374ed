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

// BookDeleter defines the interface that the rental service must implement.
type BookDeleter interface {
	DeleteBook(ctx context.Context, caller models.Caller, bookID uuid.UUID) error
}

// NewDeleteBookHandler returns an HTTP handler removing a book listing.
// @Summary Delete a book
// @Description Removes a listing permanently. Only the owner or an admin may delete.
// @Tags books
// @Param id path string true "Book ID"
// @Success 204 "Book removed"
// @Failure 401 {object} handlers.BooksErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.BooksErrorResponse "Caller is not the owner"
// @Failure 404 {object} handlers.BooksErrorResponse "Book not found"
// @Router /books/{id} [delete]
// @Security BearerAuth
func NewDeleteBookHandler(svc BookDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middlewares.GetCallerFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Not authenticated"})
			return
		}

		bookID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Book not found"})
			return
		}

		if err := svc.DeleteBook(r.Context(), caller, bookID); err != nil {
			switch {
			case errors.Is(err, services.ErrBookNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Book not found"})
			case errors.Is(err, services.ErrNotOwner):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(BooksErrorResponse{Error: "You are not the owner of this book"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
