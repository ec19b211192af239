// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/isometry/merchant-webhook/internal/signature"
	"go.yaml.in/yaml/v3"
)

const (
	// ModeService runs the receiver as a standalone HTTP service.
	ModeService = "service"
	// ModeLambda runs the receiver as an AWS Lambda function.
	ModeLambda = "lambda"

	// SecretSourceStatic reads the webhook secret from the configuration.
	SecretSourceStatic = "static"
	// SecretSourceSSM reads the webhook secret from an SSM parameter.
	SecretSourceSSM = "ssm"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Webhook is a struct that contains the configuration for webhook authentication.
	Webhook webhook
	// Archive is a struct that contains the configuration for archiving verified deliveries.
	Archive archive
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type webhook struct {
	// SecretSource selects where the shared secret comes from: 'static' or 'ssm'.
	SecretSource string `yaml:"secretSource,omitempty" default:"static"`
	// Secret is the shared secret used when SecretSource is 'static'.
	Secret string `yaml:"secret,omitempty"`
	// SSMKey is the SSM parameter holding the shared secret when SecretSource is 'ssm'.
	SSMKey string `yaml:"ssmKey,omitempty"`
	// Events is a slice of webhook events to accept.
	Events []string `yaml:"events,omitempty" default:"[\"order.new\", \"order.item.changed\", \"order.status.changed\", \"order.courier.assigned\"]"`
	// MaxBodySize is the largest accepted delivery in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty" default:"1048576"`
}

type archive struct {
	// Enabled turns on S3 archiving of verified deliveries.
	Enabled bool `yaml:"enabled,omitempty"`
	// BucketName is the S3 bucket receiving the archive.
	BucketName string `yaml:"bucketName,omitempty"`
	// Prefix is prepended to every archived object key.
	Prefix string `yaml:"prefix,omitempty" default:"webhooks/"`
}

type service struct {
	Path    string        `yaml:"path,omitempty" default:"/"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Webhook),
		defaults.Set(&Archive),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// Validate checks the configuration for inconsistent settings.
func Validate() error {
	var errs []error
	switch Webhook.SecretSource {
	case SecretSourceStatic:
	case SecretSourceSSM:
		if Webhook.SSMKey == "" {
			errs = append(errs, errors.New("webhook secret source 'ssm' requires an SSM parameter key"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported webhook secret source: %s", Webhook.SecretSource))
	}
	if Webhook.MaxBodySize <= 0 || Webhook.MaxBodySize > signature.MaxEnvelopeSize {
		errs = append(errs, fmt.Errorf("invalid webhook max body size: %d (must be between 1 and %d)",
			Webhook.MaxBodySize, signature.MaxEnvelopeSize))
	}
	if Archive.Enabled && Archive.BucketName == "" {
		errs = append(errs, errors.New("archive requires a bucket name"))
	}
	return errors.Join(errs...)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global  global  `yaml:"global,omitempty"`
		Webhook webhook `yaml:"webhook,omitempty"`
		Archive archive `yaml:"archive,omitempty"`
		Service service `yaml:"service,omitempty"`
		Lambda  lambda  `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Webhook = a.Webhook
	Archive = a.Archive
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
