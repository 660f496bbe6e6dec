// Package mainconfig centralizes client construction shared by the API server
// and the notifier worker, so both binaries wire SMS, email, Redis and the
// calendar the same way.
package mainconfig

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"

	"github.com/salonops/booking-engine/internal/calendar"
	appconfig "github.com/salonops/booking-engine/internal/config"
	"github.com/salonops/booking-engine/internal/messaging"
	"github.com/salonops/booking-engine/internal/messaging/smsclient"
	"github.com/salonops/booking-engine/pkg/logging"
)

// BuildSMSSender constructs the outbound SMS path, or a logging stub when no
// gateway is configured so development runs never hit a provider. When a
// fallback gateway is configured the primary is wrapped in a failover pair.
func BuildSMSSender(cfg *appconfig.Config, logger *logging.Logger) (messaging.Sender, error) {
	if cfg.SMSAPIKey == "" {
		logger.Warn("SMS gateway not configured, using stub sender")
		return messaging.NewStubSender(logger), nil
	}
	primary, err := buildGatewaySender(cfg.SMSBaseURL, cfg.SMSAPIKey, cfg.SMSFromNumber, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("mainconfig: sms client: %w", err)
	}
	if cfg.SMSFallbackAPIKey == "" {
		return primary, nil
	}
	fallbackFrom := cfg.SMSFallbackFromNumber
	if fallbackFrom == "" {
		fallbackFrom = cfg.SMSFromNumber
	}
	secondary, err := buildGatewaySender(cfg.SMSFallbackBaseURL, cfg.SMSFallbackAPIKey, fallbackFrom, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("mainconfig: fallback sms client: %w", err)
	}
	return messaging.NewFailoverSender(primary, "primary", secondary, "fallback", logger), nil
}

func buildGatewaySender(baseURL, apiKey, from string, cfg *appconfig.Config, logger *logging.Logger) (*messaging.SMSSender, error) {
	client, err := smsclient.New(smsclient.Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: cfg.SMSTimeout,
		Logger:  logger.Logger,
	})
	if err != nil {
		return nil, err
	}
	return messaging.NewSMSSender(client, from, logger), nil
}

// BuildEmailSender constructs the email channel named by EMAIL_PROVIDER.
// Returns nil (email disabled) for "none" or when the provider is missing its
// credentials.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (messaging.EmailSender, error) {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := messaging.NewSendGridSender(messaging.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("sendgrid selected but SENDGRID_API_KEY missing, email disabled")
			return nil, nil
		}
		return sender, nil
	case "ses":
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("mainconfig: aws config: %w", err)
		}
		sender := messaging.NewSESSender(sesv2.NewFromConfig(awsCfg), messaging.SESConfig{
			FromEmail: cfg.SESFromEmail,
		}, logger)
		if sender == nil {
			return nil, nil
		}
		return sender, nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("mainconfig: unknown email provider %q", cfg.EmailProvider)
	}
}

// BuildCalendar constructs the Google Calendar mirror, or nil when mirroring
// is not configured.
func BuildCalendar(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (calendar.Sync, error) {
	if cfg.GoogleCredentialsJSONPath == "" || cfg.GoogleCalendarID == "" {
		return nil, nil
	}
	return calendar.NewGoogleSync(ctx, calendar.GoogleConfig{
		CredentialsFile: cfg.GoogleCredentialsJSONPath,
		CalendarID:      cfg.GoogleCalendarID,
		Timeout:         cfg.CalendarTimeout,
	}, logger)
}

// OpenRedis opens the Redis client used for task leases, or nil when no
// address is configured (single-replica deployments run leaseless).
func OpenRedis(cfg *appconfig.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}

func loadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, loaders...)
}
