package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier abstracts a pgx connection, pool, or transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxPool is the pool surface the store needs; pgxmock satisfies it in tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists bookings in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a bookings store.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &Store{pool: pool}
}

const bookingColumns = `id, booking_number, confirmation_code, client_id, service_id,
		start_time, end_time, status,
		original_price_cents, final_price_cents, currency,
		calendar_event_id, calendar_platform,
		notes, client_notes, staff_notes, cancellation_reason,
		created_at, updated_at, cancelled_at, completed_at`

// Create inserts a booking after re-checking the window inside the same
// transaction. The schema's exclusion constraint over active bookings is the
// backstop for two concurrent check-then-insert races: the second committer
// fails with an exclusion violation and maps to ErrSlotUnavailable.
func (s *Store) Create(ctx context.Context, b *Booking) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("bookings: begin create: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	conflicts, err := s.CountOverlapping(ctx, tx, b.StartTime, b.EndTime, nil)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrSlotUnavailable
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		b.ID, b.BookingNumber, b.ConfirmationCode, b.ClientID, b.ServiceID,
		b.StartTime, b.EndTime, string(b.Status),
		b.OriginalPriceCents, b.FinalPriceCents, b.Currency,
		b.CalendarEventID, b.CalendarPlatform,
		b.Notes, b.ClientNotes, b.StaffNotes, b.CancellationReason,
		b.CreatedAt, b.UpdatedAt, b.CancelledAt, b.CompletedAt,
	)
	if err != nil {
		return mapInsertError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapInsertError(err)
	}
	return nil
}

func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01": // exclusion_violation on the active-window constraint
			return ErrSlotUnavailable
		case "23505": // unique_violation on booking number or confirmation code
			return errCodeCollision
		}
	}
	return fmt.Errorf("bookings: insert: %w", err)
}

// CountOverlapping counts active bookings whose half-open window intersects
// [start, end), optionally excluding one booking id (reschedules).
func (s *Store) CountOverlapping(ctx context.Context, q Querier, start, end time.Time, exclude *uuid.UUID) (int, error) {
	if q == nil {
		q = s.pool
	}
	var count int
	var err error
	if exclude != nil {
		err = q.QueryRow(ctx, `
			SELECT COUNT(*) FROM bookings
			WHERE status = ANY($1)
			  AND start_time < $3 AND end_time > $2
			  AND id <> $4`,
			ActiveStatuses, start, end, *exclude).Scan(&count)
	} else {
		err = q.QueryRow(ctx, `
			SELECT COUNT(*) FROM bookings
			WHERE status = ANY($1)
			  AND start_time < $3 AND end_time > $2`,
			ActiveStatuses, start, end).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("bookings: count overlapping: %w", err)
	}
	return count, nil
}

// GetByID fetches one booking.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

// GetByConfirmationCode fetches a booking by its client-facing code.
func (s *Store) GetByConfirmationCode(ctx context.Context, code string) (*Booking, error) {
	return s.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE confirmation_code = $1`, code)
}

func (s *Store) getOne(ctx context.Context, query string, arg any) (*Booking, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("bookings: select: %w", err)
	}
	defer rows.Close()
	result, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrBookingNotFound
	}
	return &result[0], nil
}

// UpdateStatus transitions a booking from one of the expected statuses to
// target, stamping the matching terminal timestamp. Zero rows affected means
// the booking is missing or a concurrent writer got there first; both surface
// as ErrBookingNotFound and the caller re-fetches.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, expected []Status, target Status, reason string) error {
	now := time.Now().UTC()
	exp := make([]string, len(expected))
	for i, st := range expected {
		exp[i] = string(st)
	}

	var tag pgconn.CommandTag
	var err error
	switch target {
	case StatusCancelled:
		tag, err = s.pool.Exec(ctx, `
			UPDATE bookings
			SET status = $1, cancellation_reason = $2, cancelled_at = $3, updated_at = $3
			WHERE id = $4 AND status = ANY($5)`,
			string(target), reason, now, id, exp)
	case StatusCompleted, StatusNoShow:
		tag, err = s.pool.Exec(ctx, `
			UPDATE bookings
			SET status = $1, completed_at = $2, updated_at = $2
			WHERE id = $3 AND status = ANY($4)`,
			string(target), now, id, exp)
	default:
		tag, err = s.pool.Exec(ctx, `
			UPDATE bookings
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status = ANY($4)`,
			string(target), now, id, exp)
	}
	if err != nil {
		return fmt.Errorf("bookings: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// Reschedule moves an active booking to a new window after re-checking
// conflicts (excluding the booking itself) inside the same transaction.
// Per the lifecycle rules the status resets to confirmed.
func (s *Store) Reschedule(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("bookings: begin reschedule: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	conflicts, err := s.CountOverlapping(ctx, tx, start, end, &id)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrSlotUnavailable
	}

	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET start_time = $1, end_time = $2, status = $3, updated_at = $4
		WHERE id = $5 AND status = ANY($6)`,
		start, end, string(StatusConfirmed), time.Now().UTC(), id, ActiveStatuses)
	if err != nil {
		return mapInsertError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return mapInsertError(err)
	}
	return nil
}

// SetCalendarEvent records the external calendar twin after a successful mirror.
func (s *Store) SetCalendarEvent(ctx context.Context, id uuid.UUID, eventID, platform string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE bookings
		SET calendar_event_id = $1, calendar_platform = $2, updated_at = $3
		WHERE id = $4`,
		eventID, platform, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("bookings: set calendar event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// OverrideFinalPrice is the one sanctioned way to change a price snapshot.
func (s *Store) OverrideFinalPrice(ctx context.Context, id uuid.UUID, finalPriceCents int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE bookings
		SET final_price_cents = $1, updated_at = $2
		WHERE id = $3`,
		finalPriceCents, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("bookings: override final price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ListStartingBetween returns active bookings whose start falls in [from, to),
// ordered by start. The notification scan uses this to find upcoming work.
func (s *Store) ListStartingBetween(ctx context.Context, from, to time.Time) ([]Booking, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE status = ANY($1) AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC`,
		ActiveStatuses, from, to)
	if err != nil {
		return nil, fmt.Errorf("bookings: list starting between: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// ListConfirmedWithoutCalendarEvent returns upcoming confirmed bookings whose
// calendar mirror has not succeeded yet; the resync pass retries them.
func (s *Store) ListConfirmedWithoutCalendarEvent(ctx context.Context, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE status = $1 AND calendar_event_id = '' AND start_time > now()
		ORDER BY start_time ASC
		LIMIT $2`,
		string(StatusConfirmed), limit)
	if err != nil {
		return nil, fmt.Errorf("bookings: list unmirrored: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]Booking, error) {
	var result []Booking
	for rows.Next() {
		var b Booking
		var status string
		err := rows.Scan(
			&b.ID, &b.BookingNumber, &b.ConfirmationCode, &b.ClientID, &b.ServiceID,
			&b.StartTime, &b.EndTime, &status,
			&b.OriginalPriceCents, &b.FinalPriceCents, &b.Currency,
			&b.CalendarEventID, &b.CalendarPlatform,
			&b.Notes, &b.ClientNotes, &b.StaffNotes, &b.CancellationReason,
			&b.CreatedAt, &b.UpdatedAt, &b.CancelledAt, &b.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("bookings: scan: %w", err)
		}
		b.Status = Status(status)
		result = append(result, b)
	}
	return result, rows.Err()
}
