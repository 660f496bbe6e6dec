package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestInsertDefaults(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	r := &Record{
		BookingID: uuid.New(),
		ClientID:  uuid.New(),
		Type:      TypeReminder24h,
		Recipient: "+15551234567",
		Body:      "see you tomorrow",
	}

	mock.ExpectExec("INSERT INTO notification_records").
		WithArgs(pgxmock.AnyArg(), r.BookingID, r.ClientID, string(TypeReminder24h),
			string(StatusPending), string(ChannelSMS),
			r.Recipient, r.Body, "", pgxmock.AnyArg(), (*time.Time)(nil), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := store.Insert(context.Background(), r); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if r.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}
	if r.Status != StatusPending {
		t.Fatalf("expected pending default, got %s", r.Status)
	}
}

func TestExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	bookingID, clientID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(bookingID, clientID, string(TypeReminder2h)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.Exists(context.Background(), bookingID, clientID, TypeReminder2h)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected exists")
	}
}

func TestMarkSent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE notification_records SET status = 'sent'").
		WithArgs(pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := store.MarkSent(context.Background(), id); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
}

func TestMarkFailedTerminal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE notification_records SET status =").
		WithArgs(string(StatusFailedMaxRetries), "provider down", pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := store.MarkFailed(context.Background(), id, "provider down", true); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
}

func TestMarkSentMissingRecord(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE notification_records SET status = 'sent'").
		WithArgs(pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := store.MarkSent(context.Background(), id); err == nil {
		t.Fatal("expected error for missing record")
	}
}

func TestPurgeOlderThan(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	cutoff := time.Date(2025, 2, 8, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM notification_records").
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 12))

	purged, err := store.PurgeOlderThan(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 12 {
		t.Fatalf("expected 12 purged, got %d", purged)
	}
}
