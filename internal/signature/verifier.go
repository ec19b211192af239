package signature

import (
	"crypto/hmac"
	"strings"

	"github.com/isometry/merchant-webhook/internal/canonical"
)

// MaxEnvelopeSize is the largest raw envelope, in bytes, that VerifyJSON will parse.
const MaxEnvelopeSize = 4 << 20

// Verify reports whether the signature carried by envelope matches its data member under secret.
// Only the data member is signed. Any structural problem yields false.
func Verify(envelope canonical.Value, secret string) bool {
	env, ok := ExtractEnvelope(envelope)
	if !ok {
		return false
	}
	return VerifyData(env.Data, env.Signature, secret)
}

// VerifyJSON parses raw as an envelope and verifies it. Unparseable input yields false.
func VerifyJSON(raw []byte, secret string) bool {
	if len(raw) > MaxEnvelopeSize {
		return false
	}
	// the envelope object itself is one level above data
	v, err := canonical.ParseDepth(raw, canonical.MaxDepth+1)
	if err != nil {
		return false
	}
	return Verify(v, secret)
}

// VerifyString is VerifyJSON for text input.
func VerifyString(raw string, secret string) bool {
	return VerifyJSON([]byte(raw), secret)
}

// VerifyData reports whether claimed is the signature of data under secret.
// The claimed value is compared case-insensitively, ignoring surrounding whitespace,
// in time independent of where it differs from the expected signature.
func VerifyData(data canonical.Value, claimed string, secret string) bool {
	claimed = strings.ToLower(strings.TrimSpace(claimed))
	if len(claimed) != Length {
		return false
	}
	expected, err := Generate(data, secret)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(claimed))
}
