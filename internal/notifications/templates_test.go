package notifications

import (
	"strings"
	"testing"
	"time"
)

func messageInput() MessageInput {
	return MessageInput{
		ClientName:       "Dana",
		ServiceName:      "Balayage",
		ServiceCategory:  "coloring",
		SalonName:        "Studio North",
		StartTime:        time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
		ConfirmationCode: "A1B2C3",
	}
}

func TestConfirmationIncludesCode(t *testing.T) {
	msg := BuildMessage(TypeConfirmation, messageInput())
	if !strings.Contains(msg, "A1B2C3") {
		t.Errorf("confirmation missing code: %q", msg)
	}
	if !strings.Contains(msg, "Balayage") || !strings.Contains(msg, "Studio North") {
		t.Errorf("confirmation missing booking details: %q", msg)
	}
}

func TestReminderMentionsTiming(t *testing.T) {
	msg24 := BuildMessage(TypeReminder24h, messageInput())
	if !strings.Contains(msg24, "tomorrow") {
		t.Errorf("24h reminder should say tomorrow: %q", msg24)
	}
	msg2 := BuildMessage(TypeReminder2h, messageInput())
	if !strings.Contains(msg2, "soon") {
		t.Errorf("2h reminder should say soon: %q", msg2)
	}
}

func TestPreparationVariesByCategory(t *testing.T) {
	in := messageInput()
	coloring := BuildMessage(TypePreparation, in)
	if !strings.Contains(coloring, "unwashed hair") {
		t.Errorf("coloring prep missing guidance: %q", coloring)
	}

	in.ServiceCategory = "chemical treatment"
	chemical := BuildMessage(TypePreparation, in)
	if !strings.Contains(chemical, "chemical services") {
		t.Errorf("chemical prep missing guidance: %q", chemical)
	}
	if coloring == chemical {
		t.Error("prep templates should differ by category")
	}
}

func TestMissingNameFallsBack(t *testing.T) {
	in := messageInput()
	in.ClientName = ""
	msg := BuildMessage(TypeConfirmation, in)
	if !strings.HasPrefix(msg, "Hi there!") {
		t.Errorf("expected fallback greeting: %q", msg)
	}
}

func TestEmailSubjects(t *testing.T) {
	if got := EmailSubject(TypeConfirmation); !strings.Contains(got, "confirmed") {
		t.Errorf("unexpected subject: %q", got)
	}
	if got := EmailSubject(TypeReminder24h); !strings.Contains(got, "Reminder") {
		t.Errorf("unexpected subject: %q", got)
	}
}
