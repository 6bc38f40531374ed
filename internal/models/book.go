package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalPeriod is how long a rental lasts once a book is rented.
const RentalPeriod = 7 * 24 * time.Hour

// BookAction is the closed set of state transitions on a book.
type BookAction int

const (
	ActionRent BookAction = iota + 1
	ActionReturn
	ActionMarkAvailable
)

// ErrUnknownAction is returned when an action string does not name a known transition.
var ErrUnknownAction = errors.New("unknown book action")

// ParseBookAction converts a wire-level action string into a BookAction.
func ParseBookAction(s string) (BookAction, error) {
	switch s {
	case "rent":
		return ActionRent, nil
	case "return":
		return ActionReturn, nil
	case "mark_available":
		return ActionMarkAvailable, nil
	default:
		return 0, ErrUnknownAction
	}
}

// String returns the wire-level name of the action.
func (a BookAction) String() string {
	switch a {
	case ActionRent:
		return "rent"
	case ActionReturn:
		return "return"
	case ActionMarkAvailable:
		return "mark_available"
	default:
		return "unknown"
	}
}

// BookDB represents a book listing in the database.
// Invariant: IsAvailable is false exactly when RenterID is set.
type BookDB struct {
	BookID      uuid.UUID       `json:"id" db:"id"`                       // Primary key
	Title       string          `json:"title" db:"title"`                 // Book title
	Author      string          `json:"author" db:"author"`               // Book author
	PricePerDay decimal.Decimal `json:"price_per_day" db:"price_per_day"` // Daily rental price
	IsAvailable bool            `json:"is_available" db:"is_available"`   // Whether the book can currently be rented
	OwnerID     uuid.UUID       `json:"owner_id" db:"owner_id"`           // The user who listed the book
	RenterID    *uuid.UUID      `json:"renter_id" db:"renter_id"`         // Current renter, nil when available
	RentedUntil *time.Time      `json:"rented_until" db:"rented_until"`   // End of the current rental, nil when available
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`       // Creation timestamp
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`       // Last update timestamp
}
