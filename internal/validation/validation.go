// Package validation provides functionality for validating webhook signatures to verify request authenticity.
package validation

import (
	"errors"
	"fmt"
	"mime"

	"github.com/isometry/merchant-webhook/internal/canonical"
	"github.com/isometry/merchant-webhook/internal/signature"
)

var (
	// ErrMissingSecret is returned when no webhook secret is configured.
	ErrMissingSecret = errors.New("missing webhook secret")
	// ErrInvalidSignature is returned when a delivery does not carry a valid signature.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrUnsupportedContentType is returned when a delivery declares a non-JSON body.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// WebhookSecret represents a secret used to validate webhook signatures for verifying request authenticity.
type WebhookSecret string

// NewWebhookSecret creates a new WebhookSecret instance from the provided secret string and returns its address.
// An empty secret yields nil.
func NewWebhookSecret(secret string) *WebhookSecret {
	if secret == "" {
		return nil
	}
	s := WebhookSecret(secret)
	return &s
}

// String hides the secret from logs.
func (s *WebhookSecret) String() string {
	if s == nil {
		return "<unset>"
	}
	return "<redacted>"
}

// ValidateEnvelope validates the HMAC-SHA512 signature embedded in a webhook envelope.
// Malformed envelopes and signature mismatches are both reported as ErrInvalidSignature.
func (s *WebhookSecret) ValidateEnvelope(body []byte, headers map[string]string) error {
	_, err := s.VerifyEnvelope(body, headers)
	return err
}

// VerifyEnvelope is ValidateEnvelope returning the parsed envelope once its signature has
// been verified. Callers should read the delivery from the returned value rather than
// parsing body again.
func (s *WebhookSecret) VerifyEnvelope(body []byte, headers map[string]string) (canonical.Value, error) {
	if s == nil || *s == "" {
		return canonical.Value{}, ErrMissingSecret
	}

	if contentType, found := headers["content-type"]; found {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != "application/json" {
			return canonical.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
		}
	}

	if len(body) > signature.MaxEnvelopeSize {
		return canonical.Value{}, ErrInvalidSignature
	}
	v, err := canonical.ParseDepth(body, canonical.MaxDepth+1)
	if err != nil || !signature.Verify(v, string(*s)) {
		return canonical.Value{}, ErrInvalidSignature
	}
	return v, nil
}
