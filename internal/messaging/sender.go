package messaging

import (
	"context"

	"github.com/salonops/booking-engine/pkg/logging"
)

// SMS is a single outbound text message.
type SMS struct {
	To   string
	Body string
	// Metadata receives provider ids after a successful send when non-nil.
	Metadata map[string]string
}

// Sender dispatches SMS messages through a provider.
type Sender interface {
	Send(ctx context.Context, msg SMS) error
}

// StubSender logs instead of sending; used in tests and local development.
type StubSender struct {
	logger *logging.Logger
	Sent   []SMS
}

// NewStubSender creates a logging stub sender.
func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

func (s *StubSender) Send(ctx context.Context, msg SMS) error {
	s.Sent = append(s.Sent, msg)
	s.logger.Info("stub sms sender: would send", "to", msg.To, "chars", len(msg.Body))
	return nil
}

var _ Sender = (*StubSender)(nil)
