package notifications

import (
	"fmt"
	"strings"
	"time"
)

// MessageInput carries the booking context the templates interpolate.
type MessageInput struct {
	ClientName       string
	ServiceName      string
	ServiceCategory  string
	SalonName        string
	StartTime        time.Time
	ConfirmationCode string
}

// BuildMessage renders the text for a notification type.
func BuildMessage(typ Type, in MessageInput) string {
	name := in.ClientName
	if name == "" {
		name = "there"
	}
	salon := in.SalonName
	if salon == "" {
		salon = "the salon"
	}
	when := in.StartTime.Format("Mon Jan 2 at 3:04 PM")

	switch typ {
	case TypeConfirmation:
		return fmt.Sprintf(
			"Hi %s! Your %s at %s is booked for %s. Your confirmation code is %s. Reply to this message if you need to make changes.",
			name, in.ServiceName, salon, when, in.ConfirmationCode,
		)
	case TypeReminder24h:
		return fmt.Sprintf(
			"Hi %s! A reminder that your %s at %s is tomorrow, %s. See you then!",
			name, in.ServiceName, salon, when,
		)
	case TypeReminder2h:
		return fmt.Sprintf(
			"Hi %s! Your %s at %s starts soon, at %s. See you shortly!",
			name, in.ServiceName, salon, in.StartTime.Format("3:04 PM"),
		)
	case TypePreparation:
		return preparationTemplate(name, in)
	default:
		return fmt.Sprintf("Hi %s! Update about your %s at %s on %s.", name, in.ServiceName, salon, when)
	}
}

func preparationTemplate(name string, in MessageInput) string {
	switch normalizeCategory(in.ServiceCategory) {
	case "coloring":
		return fmt.Sprintf(
			"Hi %s! Getting ready for your %s tomorrow: please arrive with dry, unwashed hair (24-48h since last wash works best) and avoid heavy styling products. See you soon!",
			name, in.ServiceName,
		)
	case "chemical_treatment":
		return fmt.Sprintf(
			"Hi %s! Before your %s tomorrow: skip washing your hair today, avoid other chemical services this week, and let us know about any scalp sensitivity when you arrive.",
			name, in.ServiceName,
		)
	default:
		return fmt.Sprintf(
			"Hi %s! A quick note before your %s tomorrow: arrive a few minutes early so we can get started on time.",
			name, in.ServiceName,
		)
	}
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(category, " ", "_")))
}

// EmailSubject renders the subject line for email delivery of a type.
func EmailSubject(typ Type) string {
	switch typ {
	case TypeConfirmation:
		return "Your booking is confirmed"
	case TypeReminder24h, TypeReminder2h:
		return "Reminder: your upcoming appointment"
	case TypePreparation:
		return "Preparing for your appointment"
	default:
		return "Your upcoming appointment"
	}
}
