package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/isometry/merchant-webhook/internal/config"
	"github.com/isometry/merchant-webhook/internal/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
global:
  mode: lambda
  logging:
    verbosity: 2
webhook:
  secretSource: ssm
  ssmKey: /merchant/webhook-secret
  events: ["order.new"]
archive:
  enabled: true
  bucketName: deliveries
service:
  port: "9090"
  timeout: 10s
`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	require.NoError(t, config.LoadFromFile(path))
	require.NoError(t, config.SetDefaults())

	assert.Equal(t, config.ModeLambda, config.Global.Mode)
	assert.Equal(t, 2, config.Global.Logging.Verbosity)
	assert.Equal(t, config.SecretSourceSSM, config.Webhook.SecretSource)
	assert.Equal(t, "/merchant/webhook-secret", config.Webhook.SSMKey)
	assert.Equal(t, []string{"order.new"}, config.Webhook.Events)
	assert.Equal(t, int64(1<<20), config.Webhook.MaxBodySize)
	assert.True(t, config.Archive.Enabled)
	assert.Equal(t, "deliveries", config.Archive.BucketName)
	assert.Equal(t, "webhooks/", config.Archive.Prefix)
	assert.Equal(t, "9090", config.Service.Port)
	assert.Equal(t, "/", config.Service.Path)
	assert.Equal(t, 10*time.Second, config.Service.Timeout)
	assert.Equal(t, "api-gateway-v2", config.Lambda.PayloadType)
	assert.NoError(t, config.Validate())
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, config.LoadFromFile(""))
	assert.NoError(t, config.LoadFromFile(filepath.Join(dir, "missing.yaml")))
	assert.Error(t, config.LoadFromFile(dir))

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("webhook: [unterminated"), 0o600))
	assert.Error(t, config.LoadFromFile(path))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		Name        string
		Mutate      func()
		ExpectError bool
	}{
		{
			Name:   "defaults",
			Mutate: func() {},
		},
		{
			Name:        "unknown_secret_source",
			Mutate:      func() { config.Webhook.SecretSource = "vault" },
			ExpectError: true,
		},
		{
			Name:        "ssm_without_key",
			Mutate:      func() { config.Webhook.SecretSource = config.SecretSourceSSM },
			ExpectError: true,
		},
		{
			Name:        "zero_max_body_size",
			Mutate:      func() { config.Webhook.MaxBodySize = 0 },
			ExpectError: true,
		},
		{
			Name:   "max_body_size_at_envelope_limit",
			Mutate: func() { config.Webhook.MaxBodySize = signature.MaxEnvelopeSize },
		},
		{
			Name:        "max_body_size_overflow",
			Mutate:      func() { config.Webhook.MaxBodySize = math.MaxInt64 },
			ExpectError: true,
		},
		{
			Name:        "archive_without_bucket",
			Mutate:      func() { config.Archive.Enabled = true },
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			resetConfig(t)
			tc.Mutate()
			if err := config.Validate(); (err != nil) != tc.ExpectError {
				t.Errorf("config.Validate() error = %v, expectError %v", err, tc.ExpectError)
			}
		})
	}
}

func resetConfig(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	require.NoError(t, config.LoadFromFile(path))
	require.NoError(t, config.SetDefaults())
}
