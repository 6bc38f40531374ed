package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/middlewares"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
	"github.com/sbilibin2017/gw-book-rental/internal/services"
)

// BookCreator defines the interface that the listing service must implement.
type BookCreator interface {
	CreateBook(ctx context.Context, caller models.Caller, title, author string, pricePerDay decimal.Decimal) (*models.BookDB, error)
}

// CreateBookRequest represents the JSON body for listing a book
// swagger:model CreateBookRequest
type CreateBookRequest struct {
	// Title
	// required: true
	// default: The Great Gatsby
	Title string `json:"title" validate:"required"`

	// Author
	// required: true
	// default: F. Scott Fitzgerald
	Author string `json:"author" validate:"required"`

	// Daily rental price
	// required: true
	// default: 1.50
	PricePerDay decimal.Decimal `json:"price_per_day" validate:"required"`
}

// NewCreateBookHandler returns an HTTP handler for listing a new book.
// @Summary Create a book listing
// @Description Lists a new book owned by the caller, available for rent.
// @Tags books
// @Accept json
// @Produce json
// @Param createBookRequest body handlers.CreateBookRequest true "Book listing request"
// @Success 201 {object} models.BookDB "Created book"
// @Failure 400 {object} handlers.BooksErrorResponse "Missing fields or non-positive price"
// @Failure 401 {object} handlers.BooksErrorResponse "Not authenticated"
// @Router /books [post]
// @Security BearerAuth
func NewCreateBookHandler(svc BookCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middlewares.GetCallerFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Not authenticated"})
			return
		}

		var req CreateBookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(BooksErrorResponse{Error: "invalid request body"})
			return
		}
		if err := validate.Struct(req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Title, author and price_per_day are required"})
			return
		}

		book, err := svc.CreateBook(r.Context(), caller, req.Title, req.Author, req.PricePerDay)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidBook):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(BooksErrorResponse{Error: err.Error()})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(BooksErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(book)
	}
}
