package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides client master data lookups.
type Store struct {
	db DB
}

// NewStore creates a clients store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// FindByPhone returns the client with the given normalized phone, or nil when
// no record exists.
func (s *Store) FindByPhone(ctx context.Context, phone string) (*Client, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, phone, email, created_at
		FROM clients
		WHERE phone = $1`, phone)
	var c Client
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("clients: find by phone: %w", err)
	}
	return &c, nil
}

// GetByID fetches one client.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, phone, email, created_at
		FROM clients
		WHERE id = $1`, id)
	var c Client
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("clients: select: %w", err)
	}
	return &c, nil
}

// Create inserts a minimal client record.
func (s *Store) Create(ctx context.Context, name, phone, email string) (*Client, error) {
	c := Client{
		ID:        uuid.New(),
		Name:      name,
		Phone:     phone,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO clients (id, name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Phone, c.Email, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("clients: insert: %w", err)
	}
	return &c, nil
}
