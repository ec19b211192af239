package signature_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/isometry/merchant-webhook/internal/canonical"
	"github.com/isometry/merchant-webhook/internal/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const complexData = `{
	"id": "550e8400-e29b-41d4-a716-446655440000",
	"number": "ORD-001",
	"storeId": "store-123",
	"status": "new",
	"listPrice": {
		"value": 100.50,
		"currency": "UAH"
	},
	"items": [
		{
			"id": "item-1",
			"name": "Піца Маргарита",
			"quantityOrdered": 2
		}
	],
	"customer": {
		"firstName": "John",
		"lastName": "Doe",
		"phone": "+380501234567"
	}
}`

func envelope(event, data, sig string) string {
	return fmt.Sprintf(`{"event":%q,"data":%s,"signature":%q}`, event, data, sig)
}

func TestVerifyJSON(t *testing.T) {
	complexSig, err := signature.GenerateJSON([]byte(complexData), testSecret)
	require.NoError(t, err)

	testCases := []struct {
		Name     string
		Envelope string
		Secret   string
		Expected bool
	}{
		{
			Name:     "valid",
			Envelope: envelope("order.new", `{"orderId":"123"}`, testOrderSignature),
			Secret:   testSecret,
			Expected: true,
		},
		{
			Name:     "modified_data",
			Envelope: envelope("order.new", `{"orderId":"456"}`, testOrderSignature),
			Secret:   testSecret,
		},
		{
			Name:     "different_secret",
			Envelope: envelope("order.new", `{"orderId":"123"}`, testOrderSignature),
			Secret:   "different-secret",
		},
		{
			Name:     "zero_signature",
			Envelope: envelope("order.new", `{"orderId":"123"}`, strings.Repeat("0", signature.Length)),
			Secret:   testSecret,
		},
		{
			Name:     "event_not_signed",
			Envelope: envelope("order.status.changed", `{"orderId":"123"}`, testOrderSignature),
			Secret:   testSecret,
			Expected: true,
		},
		{
			Name:     "missing_event",
			Envelope: fmt.Sprintf(`{"data":{"orderId":"123"},"signature":%q}`, testOrderSignature),
			Secret:   testSecret,
			Expected: true,
		},
		{
			Name:     "extra_members_not_signed",
			Envelope: fmt.Sprintf(`{"signature":%q,"deliveredAt":"2024-01-01","data":{"orderId":"123"},"event":"order.new"}`, testOrderSignature),
			Secret:   testSecret,
			Expected: true,
		},
		{
			Name:     "reordered_data",
			Envelope: envelope("order.new", `{"b":2,"a":1}`, "8ddb2298e9b3b47aed2715e811b64c33867fed8f91e553d0f09f9049893dc473848a35ae229dde45c8bb26c78ffec39dadcd8ca9f4e391301b00fd811edeab65"),
			Secret:   testSecret,
			Expected: true,
		},
		{
			Name:     "uppercase_signature",
			Envelope: envelope("order.new", `{"orderId":"123"}`, strings.ToUpper(testOrderSignature)),
			Secret:   testSecret,
			Expected: true,
		},
		{
			Name:     "padded_signature",
			Envelope: envelope("order.new", `{"orderId":"123"}`, "  "+testOrderSignature+"\n"),
			Secret:   testSecret,
			Expected: true,
		},
		{
			Name:     "complex_payload",
			Envelope: envelope("order.new", complexData, complexSig),
			Secret:   testSecret,
			Expected: true,
		},
		{
			Name:     "missing_data",
			Envelope: fmt.Sprintf(`{"event":"order.new","signature":%q}`, testOrderSignature),
			Secret:   testSecret,
		},
		{
			Name:     "missing_signature",
			Envelope: `{"event":"order.new","data":{"orderId":"123"}}`,
			Secret:   testSecret,
		},
		{
			Name:     "empty_signature",
			Envelope: envelope("order.new", `{"orderId":"123"}`, ""),
			Secret:   testSecret,
		},
		{
			Name:     "short_signature",
			Envelope: envelope("order.new", `{"orderId":"123"}`, "abc123"),
			Secret:   testSecret,
		},
		{
			Name:     "long_signature",
			Envelope: envelope("order.new", `{"orderId":"123"}`, testOrderSignature+"0"),
			Secret:   testSecret,
		},
		{
			Name:     "non_string_signature",
			Envelope: `{"event":"order.new","data":{"orderId":"123"},"signature":123}`,
			Secret:   testSecret,
		},
		{
			Name:     "null_signature",
			Envelope: `{"event":"order.new","data":{"orderId":"123"},"signature":null}`,
			Secret:   testSecret,
		},
		{
			Name:     "envelope_not_object",
			Envelope: fmt.Sprintf(`[%q]`, testOrderSignature),
			Secret:   testSecret,
		},
		{
			Name:     "invalid_json",
			Envelope: `{"event":"order.new","data":`,
			Secret:   testSecret,
		},
		{
			Name:     "empty_input",
			Envelope: ``,
			Secret:   testSecret,
		},
		{
			Name:     "duplicate_signature_member",
			Envelope: fmt.Sprintf(`{"data":{"orderId":"123"},"signature":%q,"signature":"x"}`, testOrderSignature),
			Secret:   testSecret,
		},
		{
			Name:     "duplicate_data_key",
			Envelope: envelope("order.new", `{"orderId":"123","orderId":"123"}`, testOrderSignature),
			Secret:   testSecret,
		},
		{
			Name:     "too_deep",
			Envelope: envelope("order.new", strings.Repeat("[", canonical.MaxDepth+1)+strings.Repeat("]", canonical.MaxDepth+1), testOrderSignature),
			Secret:   testSecret,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, signature.VerifyJSON([]byte(tc.Envelope), tc.Secret))
			assert.Equal(t, tc.Expected, signature.VerifyString(tc.Envelope, tc.Secret))
		})
	}
}

func TestVerifyDataAtMaxDepth(t *testing.T) {
	data := strings.Repeat("[", canonical.MaxDepth) + strings.Repeat("]", canonical.MaxDepth)
	sig, err := signature.GenerateJSON([]byte(data), testSecret)
	require.NoError(t, err)

	assert.True(t, signature.VerifyString(envelope("order.new", data, sig), testSecret))
}

func TestVerifyOversized(t *testing.T) {
	data := fmt.Sprintf(`{"blob":%q}`, strings.Repeat("x", signature.MaxEnvelopeSize))
	sig, err := signature.GenerateJSON([]byte(data), testSecret)
	require.NoError(t, err)

	assert.False(t, signature.VerifyString(envelope("order.new", data, sig), testSecret))
}

func TestVerify(t *testing.T) {
	data := mustParse(t, `{"orderId":"123"}`)
	sig, err := signature.Generate(data, testSecret)
	require.NoError(t, err)
	assert.Equal(t, testOrderSignature, sig)

	env := canonical.Object(
		canonical.Member{Key: signature.FieldEvent, Value: canonical.String("order.new")},
		canonical.Member{Key: signature.FieldData, Value: data},
		canonical.Member{Key: signature.FieldSignature, Value: canonical.String(sig)},
	)
	assert.True(t, signature.Verify(env, testSecret))
	assert.False(t, signature.Verify(env, "different-secret"))
	assert.False(t, signature.Verify(canonical.Null(), testSecret))
}

func TestVerifyTamperSensitivity(t *testing.T) {
	data := `{"orderId":"123","total":100.50}`
	sig, err := signature.GenerateJSON([]byte(data), testSecret)
	require.NoError(t, err)

	mutations := []string{
		`{"orderId":"124","total":100.50}`,
		`{"orderId":"123","total":100.5}`,
		`{"orderId":"123","total":"100.50"}`,
		`{"orderId":"123"}`,
		`{"orderId":"123","total":100.50,"x":null}`,
		`{"orderid":"123","total":100.50}`,
	}
	for _, m := range mutations {
		t.Run(m, func(t *testing.T) {
			assert.False(t, signature.VerifyString(envelope("order.new", m, sig), testSecret))
		})
	}
}

func TestVerifyConcurrent(t *testing.T) {
	valid := envelope("order.new", `{"orderId":"123"}`, testOrderSignature)
	invalid := envelope("order.new", `{"orderId":"456"}`, testOrderSignature)

	var wg sync.WaitGroup
	results := make(chan bool, 64)
	for range 32 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			results <- signature.VerifyString(valid, testSecret)
		}()
		go func() {
			defer wg.Done()
			results <- !signature.VerifyString(invalid, testSecret)
		}()
	}
	wg.Wait()
	close(results)

	for ok := range results {
		assert.True(t, ok)
	}
}

func TestExtractEnvelope(t *testing.T) {
	env, ok := signature.ExtractEnvelope(mustParse(t, `{"event":"order.new","data":[1],"signature":"abc"}`))
	require.True(t, ok)
	assert.Equal(t, "order.new", env.Event)
	assert.Equal(t, "abc", env.Signature)
	assert.Equal(t, canonical.KindArray, env.Data.Kind())

	env, ok = signature.ExtractEnvelope(mustParse(t, `{"event":7,"data":null,"signature":""}`))
	require.True(t, ok)
	assert.Empty(t, env.Event)
	assert.True(t, env.Data.IsNull())

	_, ok = signature.ExtractEnvelope(mustParse(t, `{"data":{}}`))
	assert.False(t, ok)
}
