package catalog

import (
	"errors"

	"github.com/google/uuid"
)

// ErrServiceNotFound is returned when a service id is unknown.
var ErrServiceNotFound = errors.New("service not found")

// Service is a bookable offering from the salon's master data.
type Service struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	Currency        string    `json:"currency"`
	Active          bool      `json:"active"`
}
