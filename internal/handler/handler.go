// Package handler authenticates, decodes and archives merchant webhook deliveries.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync"

	"github.com/isometry/merchant-webhook/internal/config"
	"github.com/isometry/merchant-webhook/internal/controllers/aws"
	"github.com/isometry/merchant-webhook/internal/handler/processor"
	"github.com/isometry/merchant-webhook/internal/helpers"
	"github.com/isometry/merchant-webhook/internal/models"
	"github.com/isometry/merchant-webhook/internal/signature"
	"github.com/isometry/merchant-webhook/internal/validation"
	"github.com/isometry/merchant-webhook/internal/webhook"
	"github.com/pkg/errors"
)

// SecretStore fetches secrets from a parameter store.
type SecretStore interface {
	GetSecret(key string, encrypted bool) (string, error)
}

// Archiver stores verified deliveries.
type Archiver = processor.Archiver

// Option configures a Handler.
type Option func(*Handler)

// Handler runs deliveries through the processing chain.
type Handler struct {
	ctx    context.Context
	logger *slog.Logger

	webhookSecret *validation.WebhookSecret
	secretSource  string
	ssmKey        string
	secretStore   SecretStore

	events        []webhook.Event
	maxBodySize   int64
	archiver      Archiver
	archiveBucket string
	archivePrefix string

	lambdaPayloadType string

	secretMu   sync.Mutex
	rejectMu   sync.Mutex
	rejections map[int]int
	processors []processor.Processor
}

// Result is the outcome of processing one delivery.
type Result struct {
	Response models.Response
	// Delivery is nil unless the delivery was authenticated and decoded.
	Delivery   *webhook.Delivery
	ArchiveKey string
}

// NewHandler returns a Handler. An AWS controller is created when SSM secrets or
// archiving are configured without an explicit SecretStore or Archiver.
func NewHandler(opts ...Option) (*Handler, error) {
	_inst := &Handler{
		secretSource: config.SecretSourceStatic,
		maxBodySize:  1 << 20,
		rejections:   make(map[int]int),
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if len(_inst.events) == 0 {
		_inst.events = webhook.DefaultEvents
	}
	if _inst.maxBodySize <= 0 || _inst.maxBodySize > signature.MaxEnvelopeSize {
		return nil, fmt.Errorf("max body size must be between 1 and %d bytes, got %d",
			signature.MaxEnvelopeSize, _inst.maxBodySize)
	}

	switch _inst.secretSource {
	case config.SecretSourceStatic:
		if _inst.webhookSecret == nil {
			return nil, validation.ErrMissingSecret
		}
	case config.SecretSourceSSM:
		if _inst.ssmKey == "" {
			return nil, errors.New("an SSM key is required when the webhook secret source is 'ssm'")
		}
	default:
		return nil, fmt.Errorf("unsupported webhook secret source: %s", _inst.secretSource)
	}

	needSecretStore := _inst.secretSource == config.SecretSourceSSM && _inst.secretStore == nil
	needArchiver := _inst.archiveBucket != "" && _inst.archiver == nil
	if needSecretStore || needArchiver {
		awsCtl, err := aws.NewController(
			aws.WithLogger(_inst.logger.With("component", "aws-controller")),
			aws.WithContext(_inst.ctx),
			aws.WithKeyPrefix(_inst.archivePrefix))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS controller")
		}
		if needSecretStore {
			_inst.secretStore = awsCtl
		}
		if needArchiver {
			_inst.archiver = awsCtl
		}
	}

	_inst.processors = []processor.Processor{
		processor.NewSizeLimitProcessor(_inst.maxBodySize),
		processor.NewAuthValidatorProcessor(_inst),
		processor.NewDecoderProcessor(_inst.events),
		processor.NewS3UploaderProcessor(_inst.archiver, _inst.archiveBucket),
	}
	return _inst, nil
}

// WebhookSecret returns the secret deliveries are signed with. SSM secrets are fetched on
// first use and kept for the lifetime of the handler; failed fetches are retried.
func (h *Handler) WebhookSecret() (*validation.WebhookSecret, error) {
	if h.secretSource != config.SecretSourceSSM {
		return h.webhookSecret, nil
	}

	h.secretMu.Lock()
	defer h.secretMu.Unlock()
	if h.webhookSecret != nil {
		return h.webhookSecret, nil
	}
	h.logger.Debug("retrieving webhook secret from SSM...", slog.String("key", h.ssmKey))
	value, err := h.secretStore.GetSecret(h.ssmKey, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve webhook secret")
	}
	secret := validation.NewWebhookSecret(value)
	if secret == nil {
		return nil, errors.Wrapf(validation.ErrMissingSecret, "SSM parameter %s is empty", h.ssmKey)
	}
	h.webhookSecret = secret
	return secret, nil
}

// Process authenticates, decodes and archives a delivery. The returned Result is never nil;
// its Response carries the status code for the sender, and the error is a *RequestError
// whenever the delivery was rejected.
func (h *Handler) Process(body []byte, headers map[string]string) (*Result, error) {
	logger := h.logger
	logger.Info("processing request...", slog.Int("size", len(body)))

	bus := &processor.Bus{Logger: logger, Body: body, Headers: headers}
	if err := processor.Process(bus, h.processors...); err != nil {
		statusCode := http.StatusInternalServerError
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			statusCode = reqErr.StatusCode
		}
		h.reject(statusCode)
		return &Result{
			Response: models.Response{Body: http.StatusText(statusCode), StatusCode: statusCode},
			Delivery: bus.Delivery,
		}, err
	}

	event := bus.Delivery.Event
	logger.Info("accepted delivery", slog.String("event", event.String()), slog.String("archiveKey", bus.ArchiveKey))
	return &Result{
		Response: models.Response{
			Body:       fmt.Sprintf("accepted %s delivery", event),
			StatusCode: http.StatusAccepted,
		},
		Delivery:   bus.Delivery,
		ArchiveKey: bus.ArchiveKey,
	}, nil
}

// Rejections returns the number of rejected deliveries per status code.
func (h *Handler) Rejections() map[int]int {
	h.rejectMu.Lock()
	defer h.rejectMu.Unlock()
	return maps.Clone(h.rejections)
}

func (h *Handler) reject(statusCode int) {
	h.rejectMu.Lock()
	h.rejections[statusCode]++
	h.rejectMu.Unlock()

	helpers.OnceAMinute.Do(func() {
		h.logger.Info("rejected deliveries", slog.Any("byStatus", h.Rejections()))
	})
}

// GetLambdaPayloadType returns the payload type expected in lambda mode.
func (h *Handler) GetLambdaPayloadType() string {
	return h.lambdaPayloadType
}

// MaxBodySize returns the largest accepted delivery in bytes.
func (h *Handler) MaxBodySize() int64 {
	return h.maxBodySize
}
