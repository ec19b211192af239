package webhook

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/isometry/merchant-webhook/internal/canonical"
	"github.com/isometry/merchant-webhook/internal/signature"
)

var (
	// ErrMissingEvent is returned when a delivery does not carry an event label.
	ErrMissingEvent = errors.New("missing event")
	// ErrMissingData is returned when a delivery does not carry a data member.
	ErrMissingData = errors.New("missing data")
)

// Delivery is a decoded webhook delivery.
type Delivery struct {
	Event Event
	// Payload is *Order, *StoreAvailability, or nil for unknown events.
	Payload any
	// Data is the signed payload in canonical form.
	Data json.RawMessage
	// Signature is the claimed signature as delivered.
	Signature string
}

// Order returns the order payload, if any.
func (d *Delivery) Order() (*Order, bool) {
	o, ok := d.Payload.(*Order)
	return o, ok
}

// StoreAvailability returns the store availability payload, if any.
func (d *Delivery) StoreAvailability() (*StoreAvailability, bool) {
	s, ok := d.Payload.(*StoreAvailability)
	return s, ok
}

// Decode decodes a delivery document and its payload. The document is expected to have
// been authenticated already; Decode does not check the signature.
func Decode(body []byte) (*Delivery, error) {
	// the envelope object itself is one level above data
	v, err := canonical.ParseDepth(body, canonical.MaxDepth+1)
	if err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return DecodeValue(v)
}

// DecodeValue decodes a parsed delivery document. Envelope members are matched by exact
// key, and the typed payload is read from the canonical form of the data member, so only
// the bytes a signature covers reach the payload.
func DecodeValue(v canonical.Value) (*Delivery, error) {
	if v.Kind() != canonical.KindObject {
		return nil, fmt.Errorf("failed to decode envelope: expected object, got %s", v.Kind())
	}
	var event string
	if e, ok := v.Get(signature.FieldEvent); ok {
		event, _ = e.AsString()
	}
	if event == "" {
		return nil, ErrMissingEvent
	}
	data, ok := v.Get(signature.FieldData)
	if !ok {
		return nil, ErrMissingData
	}
	raw, err := canonical.Serialize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", event, err)
	}

	d := &Delivery{Event: Event(event), Data: raw}
	if sig, found := v.Get(signature.FieldSignature); found {
		d.Signature, _ = sig.AsString()
	}

	var target any
	switch d.Event {
	case OrderNew, OrderItemChanged, OrderStatusChanged, OrderCourierAssigned:
		target = new(Order)
	case StoreAvailabilityChanged:
		target = new(StoreAvailability)
	default:
		return d, nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", d.Event, err)
	}
	d.Payload = target
	return d, nil
}
