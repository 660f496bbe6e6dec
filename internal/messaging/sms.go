package messaging

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/salonops/booking-engine/internal/messaging/smsclient"
	"github.com/salonops/booking-engine/pkg/logging"
)

var smsTracer = otel.Tracer("bookingengine.internal.messaging.sms")

// smsAPI is the provider surface SMSSender drives; smsclient.Client satisfies it.
type smsAPI interface {
	Send(ctx context.Context, from, to, text string) (*smsclient.SendResult, error)
}

// SMSSender dispatches texts through the provider client from a fixed number.
type SMSSender struct {
	client smsAPI
	from   string
	logger *logging.Logger
}

// NewSMSSender wraps a provider client with the outbound number.
func NewSMSSender(client *smsclient.Client, from string, logger *logging.Logger) *SMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SMSSender{client: client, from: NormalizeE164(from), logger: logger}
}

var _ Sender = (*SMSSender)(nil)

// Send normalizes the recipient and posts the message. Provider ids land in
// msg.Metadata when the caller supplies one.
func (s *SMSSender) Send(ctx context.Context, msg SMS) error {
	if s.client == nil {
		return errors.New("messaging: sms client not configured")
	}
	to := NormalizeE164(msg.To)
	if to == "" {
		return errors.New("messaging: to required")
	}

	ctx, span := smsTracer.Start(ctx, "messaging.sms.send")
	defer span.End()
	span.SetAttributes(attribute.String("sms.to", to))

	result, err := s.client.Send(ctx, s.from, to, msg.Body)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if msg.Metadata != nil && result != nil {
		if result.MessageID != "" {
			msg.Metadata["provider_message_id"] = result.MessageID
		}
		if result.Status != "" {
			msg.Metadata["provider_status"] = result.Status
		}
	}
	s.logger.Info("sms sent", "to", to, "from", s.from)
	return nil
}

// FailoverSender attempts a primary send, then falls back to a secondary
// provider on error.
type FailoverSender struct {
	primary       Sender
	secondary     Sender
	primaryName   string
	secondaryName string
	logger        *logging.Logger
}

// NewFailoverSender builds a failover sender with named providers.
func NewFailoverSender(primary Sender, primaryName string, secondary Sender, secondaryName string, logger *logging.Logger) *FailoverSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &FailoverSender{
		primary:       primary,
		secondary:     secondary,
		primaryName:   primaryName,
		secondaryName: secondaryName,
		logger:        logger,
	}
}

var _ Sender = (*FailoverSender)(nil)

// Send tries the primary provider first, then the secondary on failure.
func (f *FailoverSender) Send(ctx context.Context, msg SMS) error {
	if f == nil || f.primary == nil {
		return errors.New("messaging: failover primary sender not configured")
	}
	err := f.primary.Send(ctx, msg)
	if err == nil {
		return nil
	}
	if f.secondary == nil {
		return err
	}
	f.logger.Warn("primary sms send failed; attempting fallback",
		"provider", f.primaryName,
		"fallback", f.secondaryName,
		"error", err,
		"to", msg.To,
	)
	if fallbackErr := f.secondary.Send(ctx, msg); fallbackErr != nil {
		f.logger.Error("fallback sms send failed",
			"provider", f.secondaryName,
			"error", fallbackErr,
			"to", msg.To,
		)
		return fallbackErr
	}
	return nil
}
