package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-book-rental/internal/logger"
	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

var (
	// ErrBookNotFound is returned when the target book id does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrCannotRent is returned when a rent is not legal from the book's
	// current state: the book is already rented or the caller owns it.
	ErrCannotRent = errors.New("cannot rent this book")
	// ErrNotRenter is returned when someone other than the current renter
	// tries to return a book.
	ErrNotRenter = errors.New("caller is not the renter of this book")
	// ErrNotOwner is returned when someone other than the owner (or an
	// admin) tries to manage a book.
	ErrNotOwner = errors.New("caller is not the owner of this book")
	// ErrInvalidBook is returned when a listing is created with missing
	// fields or a non-positive price.
	ErrInvalidBook = errors.New("title, author and a positive price are required")
)

// BookReader defines read operations for books.
type BookReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.BookDB, error)
	List(ctx context.Context, filter string) ([]models.BookDB, error)
}

// BookWriter defines write operations for books. Rent and Return are
// conditional updates that report a lost race or failed precondition
// as sql.ErrNoRows.
type BookWriter interface {
	Create(ctx context.Context, title, author string, pricePerDay decimal.Decimal, ownerID uuid.UUID) (*models.BookDB, error)
	Rent(ctx context.Context, id, renterID uuid.UUID) (*models.BookDB, error)
	Return(ctx context.Context, id, renterID uuid.UUID) (*models.BookDB, error)
	MakeAvailable(ctx context.Context, id uuid.UUID) (*models.BookDB, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// rentalEvent is the message published after every successful transition.
type rentalEvent struct {
	BookID     uuid.UUID `json:"book_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RentalService applies the book lifecycle transitions.
type RentalService struct {
	reader      BookReader
	writer      BookWriter
	kafkaWriter KafkaWriter
}

// NewRentalService creates a new RentalService. kafkaWriter may be nil, in
// which case no events are published.
func NewRentalService(reader BookReader, writer BookWriter, kafkaWriter KafkaWriter) *RentalService {
	return &RentalService{
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
	}
}

// CreateBook lists a new book owned by the caller.
func (svc *RentalService) CreateBook(ctx context.Context, caller models.Caller, title, author string, pricePerDay decimal.Decimal) (*models.BookDB, error) {
	if title == "" || author == "" || !pricePerDay.IsPositive() {
		return nil, ErrInvalidBook
	}
	book, err := svc.writer.Create(ctx, title, author, pricePerDay, caller.ID)
	if err != nil {
		logger.Log.Errorw("failed to create book", "err", err)
		return nil, err
	}
	return book, nil
}

// ListBooks returns all listings, optionally filtered by a title/author substring.
func (svc *RentalService) ListBooks(ctx context.Context, filter string) ([]models.BookDB, error) {
	return svc.reader.List(ctx, filter)
}

// ApplyAction validates and applies a lifecycle transition on a book.
// The target book is re-read before validation, and the write itself is a
// conditional update, so a transition that loses a race with a concurrent
// request fails instead of clobbering it.
func (svc *RentalService) ApplyAction(ctx context.Context, caller models.Caller, bookID uuid.UUID, action models.BookAction) (*models.BookDB, error) {
	book, err := svc.reader.GetByID(ctx, bookID)
	if err != nil {
		logger.Log.Errorw("failed to get book", "err", err)
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	var updated *models.BookDB

	switch action {
	case models.ActionRent:
		if !book.IsAvailable || book.OwnerID == caller.ID {
			return nil, ErrCannotRent
		}
		updated, err = svc.writer.Rent(ctx, bookID, caller.ID)
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race to another renter.
			return nil, ErrCannotRent
		}

	case models.ActionReturn:
		if book.RenterID == nil || *book.RenterID != caller.ID {
			return nil, ErrNotRenter
		}
		updated, err = svc.writer.Return(ctx, bookID, caller.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotRenter
		}

	case models.ActionMarkAvailable:
		if book.OwnerID != caller.ID && !caller.IsAdmin() {
			return nil, ErrNotOwner
		}
		updated, err = svc.writer.MakeAvailable(ctx, bookID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}

	default:
		return nil, models.ErrUnknownAction
	}

	if err != nil {
		logger.Log.Errorw("failed to apply book action", "action", action.String(), "err", err)
		return nil, err
	}

	svc.publishEvent(ctx, updated.BookID, caller.ID, action)
	return updated, nil
}

// DeleteBook removes a listing. Only the owner or an admin may delete.
func (svc *RentalService) DeleteBook(ctx context.Context, caller models.Caller, bookID uuid.UUID) error {
	book, err := svc.reader.GetByID(ctx, bookID)
	if err != nil {
		logger.Log.Errorw("failed to get book", "err", err)
		return err
	}
	if book == nil {
		return ErrBookNotFound
	}

	if book.OwnerID != caller.ID && !caller.IsAdmin() {
		return ErrNotOwner
	}

	if err := svc.writer.Delete(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookNotFound
		}
		logger.Log.Errorw("failed to delete book", "err", err)
		return err
	}
	return nil
}

// publishEvent writes a rental event to Kafka. Failures are logged and never
// fail the request.
func (svc *RentalService) publishEvent(ctx context.Context, bookID, actorID uuid.UUID, action models.BookAction) {
	if svc.kafkaWriter == nil {
		return
	}

	event := rentalEvent{
		BookID:     bookID,
		ActorID:    actorID,
		Action:     action.String(),
		OccurredAt: time.Now(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal rental event", "err", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(bookID.String()),
		Value: value,
	}
	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish rental event", "err", err)
	}
}
