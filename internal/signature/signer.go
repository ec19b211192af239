// Package signature signs and verifies webhook payloads with HMAC-SHA512 over their canonical JSON encoding.
package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"unicode/utf8"

	"github.com/isometry/merchant-webhook/internal/canonical"
)

// Length is the number of hexadecimal characters in a signature.
const Length = sha512.Size * 2

// ErrInvalidSecret is returned when the secret key is not valid UTF-8.
var ErrInvalidSecret = errors.New("secret key is not valid utf-8")

// Sign returns the lowercase hexadecimal HMAC-SHA512 of msg keyed with secret.
func Sign(msg []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	_, _ = mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}

// Generate returns the signature of data: the HMAC-SHA512 of its canonical encoding.
func Generate(data canonical.Value, secret string) (string, error) {
	if !utf8.ValidString(secret) {
		return "", ErrInvalidSecret
	}
	msg, err := canonical.Serialize(data)
	if err != nil {
		return "", err
	}
	return Sign(msg, secret), nil
}

// GenerateJSON parses data and returns its signature.
func GenerateJSON(data []byte, secret string) (string, error) {
	v, err := canonical.Parse(data)
	if err != nil {
		return "", err
	}
	return Generate(v, secret)
}
