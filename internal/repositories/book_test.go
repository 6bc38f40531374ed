package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sbilibin2017/gw-book-rental/internal/models"
)

func setupBookPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	schema := `
	CREATE EXTENSION IF NOT EXISTS pgcrypto;

	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username VARCHAR(50) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(10) NOT NULL DEFAULT 'user',
		avatar_url TEXT,
		bio TEXT,
		instagram_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS books (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title VARCHAR(255) NOT NULL,
		author VARCHAR(255) NOT NULL,
		price_per_day NUMERIC(10, 2) NOT NULL,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		renter_id UUID REFERENCES users(id) ON DELETE SET NULL,
		rented_until TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func createTestUser(t *testing.T, db *sqlx.DB, username string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.Get(&id, "INSERT INTO users (username, password_hash) VALUES ($1, 'hash') RETURNING id", username)
	assert.NoError(t, err)
	return id
}

func TestBookWriteRepository_Create(t *testing.T) {
	db, teardown := setupBookPostgresContainer(t)
	defer teardown()

	repo := NewBookWriteRepository(db, nil)
	ctx := context.Background()

	ownerID := createTestUser(t, db, "alice")
	price := decimal.RequireFromString("1.50")

	book, err := repo.Create(ctx, "Dune", "Frank Herbert", price, ownerID)
	assert.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.True(t, book.IsAvailable)
	assert.Equal(t, ownerID, book.OwnerID)
	assert.Nil(t, book.RenterID)
	assert.True(t, price.Equal(book.PricePerDay))
}

func TestBookReadRepository_List(t *testing.T) {
	db, teardown := setupBookPostgresContainer(t)
	defer teardown()

	writeRepo := NewBookWriteRepository(db, nil)
	readRepo := NewBookReadRepository(db)
	ctx := context.Background()

	ownerID := createTestUser(t, db, "alice")
	price := decimal.RequireFromString("2.00")

	_, err := writeRepo.Create(ctx, "Dune", "Frank Herbert", price, ownerID)
	assert.NoError(t, err)
	_, err = writeRepo.Create(ctx, "Neuromancer", "William Gibson", price, ownerID)
	assert.NoError(t, err)

	t.Run("All", func(t *testing.T) {
		books, err := readRepo.List(ctx, "")
		assert.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("FilterByTitle", func(t *testing.T) {
		books, err := readRepo.List(ctx, "dune")
		assert.NoError(t, err)
		assert.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("FilterByAuthor", func(t *testing.T) {
		books, err := readRepo.List(ctx, "gibson")
		assert.NoError(t, err)
		assert.Len(t, books, 1)
		assert.Equal(t, "Neuromancer", books[0].Title)
	})

	t.Run("NoMatch", func(t *testing.T) {
		books, err := readRepo.List(ctx, "tolkien")
		assert.NoError(t, err)
		assert.Empty(t, books)
	})
}

func TestBookWriteRepository_RentAndReturn(t *testing.T) {
	db, teardown := setupBookPostgresContainer(t)
	defer teardown()

	writeRepo := NewBookWriteRepository(db, nil)
	readRepo := NewBookReadRepository(db)
	ctx := context.Background()

	ownerID := createTestUser(t, db, "alice")
	renterID := createTestUser(t, db, "bob")
	otherID := createTestUser(t, db, "carol")
	price := decimal.RequireFromString("1.00")

	book, err := writeRepo.Create(ctx, "Dune", "Frank Herbert", price, ownerID)
	assert.NoError(t, err)

	t.Run("OwnerCannotRent", func(t *testing.T) {
		rented, err := writeRepo.Rent(ctx, book.BookID, ownerID)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, rented)
	})

	t.Run("Rent", func(t *testing.T) {
		rented, err := writeRepo.Rent(ctx, book.BookID, renterID)
		assert.NoError(t, err)
		assert.False(t, rented.IsAvailable)
		assert.Equal(t, renterID, *rented.RenterID)
		assert.NotNil(t, rented.RentedUntil)
		assert.WithinDuration(t, time.Now().Add(models.RentalPeriod), *rented.RentedUntil, time.Minute)
	})

	t.Run("SecondRentLosesTheRace", func(t *testing.T) {
		rented, err := writeRepo.Rent(ctx, book.BookID, otherID)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, rented)
	})

	t.Run("ReturnByNonRenter", func(t *testing.T) {
		returned, err := writeRepo.Return(ctx, book.BookID, otherID)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, returned)
	})

	t.Run("Return", func(t *testing.T) {
		returned, err := writeRepo.Return(ctx, book.BookID, renterID)
		assert.NoError(t, err)
		assert.True(t, returned.IsAvailable)
		assert.Nil(t, returned.RenterID)
		assert.Nil(t, returned.RentedUntil)

		stored, err := readRepo.GetByID(ctx, book.BookID)
		assert.NoError(t, err)
		assert.True(t, stored.IsAvailable)
	})
}

func TestBookWriteRepository_MakeAvailable(t *testing.T) {
	db, teardown := setupBookPostgresContainer(t)
	defer teardown()

	writeRepo := NewBookWriteRepository(db, nil)
	ctx := context.Background()

	ownerID := createTestUser(t, db, "alice")
	renterID := createTestUser(t, db, "bob")
	price := decimal.RequireFromString("1.00")

	book, err := writeRepo.Create(ctx, "Dune", "Frank Herbert", price, ownerID)
	assert.NoError(t, err)

	_, err = writeRepo.Rent(ctx, book.BookID, renterID)
	assert.NoError(t, err)

	reset, err := writeRepo.MakeAvailable(ctx, book.BookID)
	assert.NoError(t, err)
	assert.True(t, reset.IsAvailable)
	assert.Nil(t, reset.RenterID)

	// Idempotent on an already available book.
	again, err := writeRepo.MakeAvailable(ctx, book.BookID)
	assert.NoError(t, err)
	assert.True(t, again.IsAvailable)

	_, err = writeRepo.MakeAvailable(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestBookWriteRepository_Delete(t *testing.T) {
	db, teardown := setupBookPostgresContainer(t)
	defer teardown()

	writeRepo := NewBookWriteRepository(db, nil)
	readRepo := NewBookReadRepository(db)
	ctx := context.Background()

	ownerID := createTestUser(t, db, "alice")
	price := decimal.RequireFromString("1.00")

	book, err := writeRepo.Create(ctx, "Dune", "Frank Herbert", price, ownerID)
	assert.NoError(t, err)

	assert.NoError(t, writeRepo.Delete(ctx, book.BookID))

	stored, err := readRepo.GetByID(ctx, book.BookID)
	assert.NoError(t, err)
	assert.Nil(t, stored)

	assert.ErrorIs(t, writeRepo.Delete(ctx, book.BookID), sql.ErrNoRows)
}
