package clients

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrClientNotFound is returned when a client id is unknown.
var ErrClientNotFound = errors.New("client not found")

// Client is a salon customer from master data. The booking engine only ever
// reads clients, except for creating a minimal record when a booking request
// arrives with an unknown phone number.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
