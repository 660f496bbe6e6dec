package bookings

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const confirmationAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewBookingNumber builds the human-facing booking code:
// "BK" + last 8 digits of the millisecond timestamp + 3-digit random suffix.
// The format is load-bearing for existing client lookup flows.
func NewBookingNumber(now time.Time) string {
	return fmt.Sprintf("BK%08d%03d", now.UnixMilli()%100_000_000, rand.IntN(1000))
}

// NewConfirmationCode returns a 6-character uppercase base-36 code clients use
// for self-serve lookups. Global uniqueness is enforced by the database; on a
// collision the caller regenerates.
func NewConfirmationCode() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = confirmationAlphabet[rand.IntN(len(confirmationAlphabet))]
	}
	return string(code)
}
