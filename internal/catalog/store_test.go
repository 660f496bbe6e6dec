package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestStoreGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	id := uuid.New()
	mock.ExpectQuery("SELECT id, name, category").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "duration_minutes", "price_cents", "currency", "active"}).
			AddRow(id, "Full Color", "coloring", 90, int64(12000), "USD", true))

	svc, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if svc.DurationMinutes != 90 || svc.Category != "coloring" {
		t.Fatalf("unexpected service: %+v", svc)
	}
}

func TestStoreGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	id := uuid.New()
	mock.ExpectQuery("SELECT id, name, category").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	if _, err := store.GetByID(context.Background(), id); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestStoreListActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	mock.ExpectQuery("SELECT id, name, category").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "duration_minutes", "price_cents", "currency", "active"}).
			AddRow(uuid.New(), "Cut", "styling", 45, int64(6000), "USD", true).
			AddRow(uuid.New(), "Perm", "chemical_treatment", 120, int64(18000), "USD", true))

	services, err := store.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}
}
