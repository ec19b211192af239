package processor

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/isometry/merchant-webhook/internal/helpers"
	"github.com/isometry/merchant-webhook/internal/webhook"
)

type decoderProcessor struct {
	accepted []webhook.Event
}

// NewDecoderProcessor decodes authenticated deliveries and rejects events outside accepted.
// The delivery is read from the verified envelope when one is on the bus.
func NewDecoderProcessor(accepted []webhook.Event) Processor {
	return &decoderProcessor{accepted: accepted}
}

func (p *decoderProcessor) Name() string {
	return "decoder"
}

func (p *decoderProcessor) Process(bus *Bus) error {
	var (
		delivery *webhook.Delivery
		err      error
	)
	if bus.Envelope != nil {
		delivery, err = webhook.DecodeValue(*bus.Envelope)
	} else {
		delivery, err = webhook.Decode(bus.Body)
	}
	if err != nil {
		bus.Logger.Warn("decoding delivery", slog.Any("error", err))
		return WrapRequestError(http.StatusUnprocessableEntity, err)
	}

	logger := bus.Logger.With(slog.String("event", delivery.Event.String()),
		slog.String("signature", helpers.Truncate(delivery.Signature, 16)))
	if !slices.Contains(p.accepted, delivery.Event) {
		logger.Info("rejecting unhandled event")
		return NewRequestError(http.StatusUnprocessableEntity, "unhandled event: %s", delivery.Event)
	}
	if !delivery.Event.Known() {
		logger.Info("accepting event without typed payload")
	}

	logger.Debug("decoded delivery")
	bus.Delivery = delivery
	return nil
}
