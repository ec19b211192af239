package signature

import (
	"github.com/isometry/merchant-webhook/internal/canonical"
)

// Envelope members.
const (
	FieldEvent     = "event"
	FieldData      = "data"
	FieldSignature = "signature"
)

// Envelope is a view over a delivered webhook document.
type Envelope struct {
	// Event is the informational event label. It is not covered by the signature.
	Event string
	// Data is the signed payload.
	Data canonical.Value
	// Signature is the claimed signature as delivered.
	Signature string
}

// ExtractEnvelope reads the envelope members of v. It reports false when v is not an
// object, when data or signature is missing, or when signature is not a string.
// A missing or non-string event leaves Event empty.
func ExtractEnvelope(v canonical.Value) (Envelope, bool) {
	if v.Kind() != canonical.KindObject {
		return Envelope{}, false
	}
	data, ok := v.Get(FieldData)
	if !ok {
		return Envelope{}, false
	}
	sigValue, ok := v.Get(FieldSignature)
	if !ok {
		return Envelope{}, false
	}
	sig, ok := sigValue.AsString()
	if !ok {
		return Envelope{}, false
	}

	env := Envelope{Data: data, Signature: sig}
	if event, found := v.Get(FieldEvent); found {
		env.Event, _ = event.AsString()
	}
	return env, true
}
