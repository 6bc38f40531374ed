package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

const bookColumns = `id, title, author, price_per_day, is_available, owner_id, renter_id, rented_until, created_at, updated_at`

// BookReadRepository handles book read operations
type BookReadRepository struct {
	db *sqlx.DB
}

func NewBookReadRepository(db *sqlx.DB) *BookReadRepository {
	return &BookReadRepository{db: db}
}

// GetByID returns the book with the given id, or nil if no such book exists.
func (r *BookReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BookDB, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1
	`

	var book models.BookDB
	err := r.db.GetContext(ctx, &book, query, id)

	logger.Log.Infow("book get by id",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns books newest first. A non-empty filter restricts results to
// books whose title or author contains the filter substring.
func (r *BookReadRepository) List(ctx context.Context, filter string) ([]models.BookDB, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		ORDER BY created_at DESC
	`
	args := []any{}

	if filter != "" {
		query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`
		args = append(args, filter)
	}

	var books []models.BookDB
	err := r.db.SelectContext(ctx, &books, query, args...)

	logger.Log.Infow("book list",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"count", len(books),
		"error", err,
	)

	return books, err
}

// BookWriteRepository handles book write operations
type BookWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewBookWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *BookWriteRepository {
	return &BookWriteRepository{db: db, txGetter: txGetter}
}

func (r *BookWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Create inserts a new available book and returns the stored row.
func (r *BookWriteRepository) Create(ctx context.Context, title, author string, pricePerDay decimal.Decimal, ownerID uuid.UUID) (*models.BookDB, error) {
	query := `
		INSERT INTO books (id, title, author, price_per_day, is_available, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, NOW(), NOW())
		RETURNING ` + bookColumns + `
	`
	args := []any{uuid.New(), title, author, pricePerDay, ownerID}

	var book models.BookDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &book, query, args...)

	logger.Log.Infow("book create",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{title, author, pricePerDay, ownerID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Rent marks the book as rented by renterID for the standard rental period.
// The update is conditional on the book still being available and not owned
// by the renter, so two concurrent rents cannot both succeed; a lost race
// surfaces as sql.ErrNoRows.
func (r *BookWriteRepository) Rent(ctx context.Context, id, renterID uuid.UUID) (*models.BookDB, error) {
	query := `
		UPDATE books
		SET is_available = FALSE,
		    renter_id = $1,
		    rented_until = NOW() + INTERVAL '7 days',
		    updated_at = NOW()
		WHERE id = $2
		  AND is_available = TRUE
		  AND owner_id <> $1
		RETURNING ` + bookColumns + `
	`

	var book models.BookDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &book, query, renterID, id)

	logger.Log.Infow("book rent",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, renterID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Return releases the book held by renterID. The update is conditional on
// renterID being the current renter; a mismatch surfaces as sql.ErrNoRows.
func (r *BookWriteRepository) Return(ctx context.Context, id, renterID uuid.UUID) (*models.BookDB, error) {
	query := `
		UPDATE books
		SET is_available = TRUE,
		    renter_id = NULL,
		    rented_until = NULL,
		    updated_at = NOW()
		WHERE id = $1
		  AND renter_id = $2
		RETURNING ` + bookColumns + `
	`

	var book models.BookDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &book, query, id, renterID)

	logger.Log.Infow("book return",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, renterID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &book, nil
}

// MakeAvailable forces the book back to the available state regardless of any
// active rental. Idempotent.
func (r *BookWriteRepository) MakeAvailable(ctx context.Context, id uuid.UUID) (*models.BookDB, error) {
	query := `
		UPDATE books
		SET is_available = TRUE,
		    renter_id = NULL,
		    rented_until = NULL,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookColumns + `
	`

	var book models.BookDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &book, query, id)

	logger.Log.Infow("book make available",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Delete removes the book permanently. Returns sql.ErrNoRows if no such book.
func (r *BookWriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM books
		WHERE id = $1
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("book delete",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
