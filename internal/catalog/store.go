package catalog

import (
	"context"
	"errors"
	"fmt"

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

// Store reads the services table.
type Store struct {
	db DB
}

// NewStore creates a catalog store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// GetByID fetches one service.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, category, duration_minutes, price_cents, currency, active
		FROM services
		WHERE id = $1`, id)
	var svc Service
	if err := row.Scan(&svc.ID, &svc.Name, &svc.Category, &svc.DurationMinutes, &svc.PriceCents, &svc.Currency, &svc.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: select service: %w", err)
	}
	return &svc, nil
}

// ListActive returns all bookable services.
func (s *Store) ListActive(ctx context.Context) ([]Service, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, category, duration_minutes, price_cents, currency, active
		FROM services
		WHERE active
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list active: %w", err)
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Category, &svc.DurationMinutes, &svc.PriceCents, &svc.Currency, &svc.Active); err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		result = append(result, svc)
	}
	return result, rows.Err()
}
