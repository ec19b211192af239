// Package processor provides the chain of steps a webhook delivery goes through before it is accepted.
package processor

import (
	"log/slog"

	"github.com/isometry/merchant-webhook/internal/canonical"
	"github.com/isometry/merchant-webhook/internal/models"
	"github.com/isometry/merchant-webhook/internal/webhook"
)

// Processor is an interface that defines a method to process a delivery.
type Processor interface {
	Name() string
	Process(bus *Bus) error
}

// Bus carries a delivery through the processors.
type Bus struct {
	Logger  *slog.Logger
	Body    []byte
	Headers map[string]string

	// Envelope is the parsed envelope, set once its signature has been verified.
	Envelope *canonical.Value
	// Delivery is set once the envelope has been authenticated and decoded.
	Delivery *webhook.Delivery
	// ArchiveKey is the object key of the archived delivery, if any.
	ArchiveKey string
	Response   models.Response
}

// Process runs the processors in order and stops at the first error.
func Process(bus *Bus, processors ...Processor) error {
	logger := bus.Logger
	for _, p := range processors {
		bus.Logger = logger.With(slog.String("processor", p.Name()))
		if err := p.Process(bus); err != nil {
			bus.Logger = logger
			return err
		}
	}
	bus.Logger = logger
	return nil
}
