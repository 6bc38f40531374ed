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

// BookActioner defines the interface that the rental service must implement.
type BookActioner interface {
	ApplyAction(ctx context.Context, caller models.Caller, bookID uuid.UUID, action models.BookAction) (*models.BookDB, error)
}

// BookActionRequest represents the JSON body for a book state transition
// swagger:model BookActionRequest
type BookActionRequest struct {
	// Action: rent, return or mark_available
	// required: true
	// default: rent
	Action string `json:"action" validate:"required"`
}

// NewBookActionHandler returns an HTTP handler applying a lifecycle action to a book.
// @Summary Apply a book action
// @Description Applies rent, return or mark_available to the target book.
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param bookActionRequest body handlers.BookActionRequest true "Action request"
// @Success 200 {object} models.BookDB "Updated book"
// @Failure 400 {object} handlers.BooksErrorResponse "Unknown action or illegal transition"
// @Failure 401 {object} handlers.BooksErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.BooksErrorResponse "Caller lacks permission"
// @Failure 404 {object} handlers.BooksErrorResponse "Book not found"
// @Router /books/{id} [put]
// @Security BearerAuth
func NewBookActionHandler(svc BookActioner) http.HandlerFunc {
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

		var req BookActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(BooksErrorResponse{Error: "invalid request body"})
			return
		}

		action, err := models.ParseBookAction(req.Action)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Invalid action"})
			return
		}

		book, err := svc.ApplyAction(r.Context(), caller, bookID, action)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrBookNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Book not found"})
			case errors.Is(err, services.ErrCannotRent):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Cannot rent this book"})
			case errors.Is(err, services.ErrNotRenter):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(BooksErrorResponse{Error: "You are not the renter of this book"})
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

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(book)
	}
}
