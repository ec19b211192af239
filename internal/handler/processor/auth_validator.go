package processor

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/isometry/merchant-webhook/internal/validation"
)

// SecretProvider resolves the webhook secret used to authenticate deliveries.
type SecretProvider interface {
	WebhookSecret() (*validation.WebhookSecret, error)
}

type authValidatorProcessor struct {
	secrets SecretProvider
}

// NewAuthValidatorProcessor initializes and returns a new Processor validating the envelope signature
// against the secret resolved by secrets.
func NewAuthValidatorProcessor(secrets SecretProvider) Processor {
	return &authValidatorProcessor{secrets: secrets}
}

func (p *authValidatorProcessor) Name() string {
	return "auth-validator"
}

func (p *authValidatorProcessor) Process(bus *Bus) error {
	secret, err := p.secrets.WebhookSecret()
	if err != nil {
		bus.Logger.Error("webhook secret unavailable", slog.Any("error", err))
		return WrapRequestError(http.StatusInternalServerError, err)
	}

	envelope, err := secret.VerifyEnvelope(bus.Body, bus.Headers)
	switch {
	case err == nil:
		bus.Logger.Debug("request body is valid")
		bus.Envelope = &envelope
		return nil
	case errors.Is(err, validation.ErrMissingSecret):
		bus.Logger.Error("webhook secret unavailable", slog.Any("error", err))
		return WrapRequestError(http.StatusInternalServerError, err)
	case errors.Is(err, validation.ErrUnsupportedContentType):
		bus.Logger.Warn("validating content type", slog.Any("error", err))
		return WrapRequestError(http.StatusUnsupportedMediaType, err)
	default:
		bus.Logger.Warn("validating signature", slog.Any("error", err))
		return WrapRequestError(http.StatusForbidden, err)
	}
}
