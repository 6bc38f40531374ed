package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

// BookLister defines the interface that the listing service must implement.
type BookLister interface {
	ListBooks(ctx context.Context, filter string) ([]models.BookDB, error)
}

// BooksErrorResponse represents an error response for book endpoints
// swagger:model BooksErrorResponse
type BooksErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewListBooksHandler returns an HTTP handler listing book listings newest first.
// @Summary List books
// @Description Returns all book listings, optionally filtered by a title/author substring.
// @Tags books
// @Produce json
// @Param q query string false "Substring filter over title and author"
// @Success 200 {array} models.BookDB "Book listings"
// @Failure 401 {object} handlers.BooksErrorResponse "Not authenticated"
// @Router /books [get]
// @Security BearerAuth
func NewListBooksHandler(svc BookLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		books, err := svc.ListBooks(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			logger.Log.Errorw("failed to list books", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Internal server error"})
			return
		}

		if books == nil {
			books = []models.BookDB{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(books)
	}
}
