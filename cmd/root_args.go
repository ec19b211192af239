package cmd

import (
	"time"

	"github.com/isometry/merchant-webhook/internal/config"
	"github.com/isometry/merchant-webhook/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda' and 'service'",
		Short:       helpers.Ptr("m"),
	},
	&config.Webhook.SecretSource: {
		Name:        "webhook-secret-source",
		Description: "Where the webhook secret is read from. Supported values are 'static' and 'ssm'",
	},
	&config.Webhook.Secret: {
		Name:        "webhook-secret",
		Description: "The shared secret used to sign and verify webhook deliveries",
		Short:       helpers.Ptr("s"),
		Env:         helpers.Ptr("WEBHOOK_SECRET"),
	},
	&config.Webhook.SSMKey: {
		Name:        "webhook-secret-ssm-key",
		Description: "The SSM parameter holding the webhook secret when the secret source is 'ssm'",
	},
	&config.Archive.BucketName: {
		Name:        "archive-s3-bucket",
		Description: "The S3 bucket receiving verified deliveries",
		Env:         helpers.Ptr("ARCHIVE_S3_BUCKET"),
	},
	&config.Archive.Prefix: {
		Name:        "archive-s3-prefix",
		Description: "The key prefix of archived deliveries",
	},
	&config.Service.Addr: {
		Name:        "service-host-addr",
		Description: "The address to serve the service on (default all interfaces in dual-stack mode)",
		Short:       helpers.Ptr("H"),
	},
	&config.Service.Port: {
		Name:        "service-host-port",
		Description: "The port to serve the service on",
		Short:       helpers.Ptr("p"),
	},
	&config.Service.Path: {
		Name:        "service-host-path",
		Description: "The path to serve the service on",
		Short:       helpers.Ptr("P"),
	},
	&config.Lambda.PayloadType: {
		Name:        "lambda-payload-type",
		Description: "The payload type to expect when running in Lambda mode. Supported values are 'api-gateway-v1', 'api-gateway-v2' and 'lambda-url'",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Archive.Enabled: {
		Name:        "archive-s3",
		Description: "Enable S3 archiving of verified deliveries",
		Env:         helpers.Ptr("ARCHIVE_S3"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapStringSlice = map[*[]string]boundEnvVar[[]string]{
	&config.Webhook.Events: {
		Name:        "webhook-events",
		Description: "The webhook events to accept",
	},
}

var envMapInt64 = map[*int64]boundEnvVar[int64]{
	&config.Webhook.MaxBodySize: {
		Name:        "webhook-max-body-size",
		Description: "The largest accepted delivery in bytes",
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Service.Timeout: {
		Name:        "service-io-timeout",
		Description: "The timeout for I/O operations",
		Short:       helpers.Ptr("t"),
	},
}
