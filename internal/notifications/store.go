package notifications

import (
	"context"
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

// Store provides CRUD operations for notification_records.
type Store struct {
	db DB
}

// NewStore creates a notification record store.
func NewStore(db DB) *Store {
	if db == nil {
		panic("notifications: db required")
	}
	return &Store{db: db}
}

const recordColumns = `id, booking_id, client_id, notification_type, status, channel,
		recipient, body, last_error, scheduled_for, sent_at, created_at, updated_at`

// Insert persists a new record. The unique index on
// (booking_id, client_id, notification_type) makes a concurrent duplicate fail;
// the caller treats that as already handled.
func (s *Store) Insert(ctx context.Context, r *Record) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.Channel == "" {
		r.Channel = ChannelSMS
	}
	if r.ScheduledFor.IsZero() {
		r.ScheduledFor = now
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO notification_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		r.ID, r.BookingID, r.ClientID, string(r.Type), string(r.Status), string(r.Channel),
		r.Recipient, r.Body, r.LastError, r.ScheduledFor, r.SentAt, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("notifications: insert record: %w", err)
	}
	return nil
}

// Exists reports whether any record covers (booking, client, type). Status is
// deliberately ignored: even a failed record means the notification was
// handled once and must not be re-derived by a later scan.
func (s *Store) Exists(ctx context.Context, bookingID, clientID uuid.UUID, typ Type) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notification_records
			WHERE booking_id = $1 AND client_id = $2 AND notification_type = $3
		)`, bookingID, clientID, string(typ)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("notifications: exists: %w", err)
	}
	return exists, nil
}

// GetByID fetches one record.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+recordColumns+` FROM notification_records WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("notifications: get record: %w", err)
	}
	defer rows.Close()
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("notifications: record %s not found", id)
	}
	return &records[0], nil
}

// ListByBooking returns all records for a booking, oldest first.
func (s *Store) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+recordColumns+` FROM notification_records
		WHERE booking_id = $1
		ORDER BY created_at ASC`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("notifications: list by booking: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// MarkSent stamps a record sent.
func (s *Store) MarkSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE notification_records SET status = 'sent', sent_at = $1, updated_at = $1
		WHERE id = $2`, now, id)
	if err != nil {
		return fmt.Errorf("notifications: mark sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notifications: mark sent: no record with id %s", id)
	}
	return nil
}

// MarkFailed records a delivery failure. Terminal=true writes the
// failed_max_retries status the retry queue uses when it gives up.
func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID, cause string, terminal bool) error {
	status := StatusFailed
	if terminal {
		status = StatusFailedMaxRetries
	}
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE notification_records SET status = $1, last_error = $2, updated_at = $3
		WHERE id = $4`, string(status), cause, now, id)
	if err != nil {
		return fmt.Errorf("notifications: mark failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notifications: mark failed: no record with id %s", id)
	}
	return nil
}

// PurgeOlderThan deletes records created before the cutoff and returns how
// many rows went away. Dedup only needs records young enough to matter: a
// purged record's booking is long past its notification windows.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM notification_records WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("notifications: purge: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var result []Record
	for rows.Next() {
		var r Record
		var typ, status, channel string
		err := rows.Scan(
			&r.ID, &r.BookingID, &r.ClientID, &typ, &status, &channel,
			&r.Recipient, &r.Body, &r.LastError, &r.ScheduledFor, &r.SentAt, &r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("notifications: scan record: %w", err)
		}
		r.Type = Type(typ)
		r.Status = Status(status)
		r.Channel = Channel(channel)
		result = append(result, r)
	}
	return result, rows.Err()
}
