package handler

import (
	"context"
	"log/slog"

	"github.com/isometry/merchant-webhook/internal/validation"
	"github.com/isometry/merchant-webhook/internal/webhook"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithContext sets the context for the handler.
func WithContext(ctx context.Context) Option {
	return func(h *Handler) {
		h.ctx = ctx
	}
}

// WithWebhookSecret configures the handler with a webhook secret for request validation.
func WithWebhookSecret(secret string) Option {
	return func(h *Handler) {
		h.webhookSecret = validation.NewWebhookSecret(secret)
	}
}

// WithSecretSource selects where the webhook secret comes from: 'static' or 'ssm'.
func WithSecretSource(source string) Option {
	return func(h *Handler) {
		h.secretSource = source
	}
}

// WithSSMKey sets the SSM parameter holding the webhook secret.
func WithSSMKey(key string) Option {
	return func(h *Handler) {
		h.ssmKey = key
	}
}

// WithSecretStore overrides the store the SSM secret is fetched from.
func WithSecretStore(store SecretStore) Option {
	return func(h *Handler) {
		h.secretStore = store
	}
}

// WithEvents restricts the accepted events. Unset means every known event.
func WithEvents(events ...string) Option {
	return func(h *Handler) {
		h.events = h.events[:0]
		for _, e := range events {
			h.events = append(h.events, webhook.Event(e))
		}
	}
}

// WithMaxBodySize sets the largest accepted delivery in bytes.
func WithMaxBodySize(size int64) Option {
	return func(h *Handler) {
		h.maxBodySize = size
	}
}

// WithArchive enables archiving of verified deliveries into bucket under prefix.
func WithArchive(bucket, prefix string) Option {
	return func(h *Handler) {
		h.archiveBucket = bucket
		h.archivePrefix = prefix
	}
}

// WithArchiver overrides the archive backend.
func WithArchiver(archiver Archiver) Option {
	return func(h *Handler) {
		h.archiver = archiver
	}
}

// WithLambdaPayloadType sets the lambda payload type for a Handler instance.
func WithLambdaPayloadType(payloadType string) Option {
	return func(h *Handler) {
		h.lambdaPayloadType = payloadType
	}
}
