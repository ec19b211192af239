package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/merchant-webhook/internal/config"
	"github.com/isometry/merchant-webhook/internal/handler"
	"github.com/isometry/merchant-webhook/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run the webhook receiver as an AWS Lambda function",
	}
	cmd.AddCommand(cmdLambdaHTTP())
	return cmd
}

// cmdLambdaHTTP is the command for running the lambda behind API Gateway or a function URL.
func cmdLambdaHTTP() *cobra.Command {
	cmd := &cobra.Command{
		Use: "http",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeLambda)
			rt, err := newRuntime(cmd)
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}
			fn, err := rt.Lambda()
			if err != nil {
				return err
			}

			logger.Info("lambda starting...", "payloadType", config.Lambda.PayloadType)
			lambda.StartWithOptions(fn, lambda.WithContext(cmd.Context()))
			return nil
		},
	}

	return cmd
}

// newRuntime validates the configuration and builds the webhook handler and its runtime.
func newRuntime(cmd *cobra.Command) (*runtime.Runtime, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	opts := []handler.Option{
		handler.WithContext(cmd.Context()),
		handler.WithLogger(withComponent("webhook-handler")),
		handler.WithSecretSource(config.Webhook.SecretSource),
		handler.WithEvents(config.Webhook.Events...),
		handler.WithMaxBodySize(config.Webhook.MaxBodySize),
		handler.WithLambdaPayloadType(config.Lambda.PayloadType),
	}
	switch config.Webhook.SecretSource {
	case config.SecretSourceSSM:
		opts = append(opts, handler.WithSSMKey(config.Webhook.SSMKey))
	default:
		opts = append(opts, handler.WithWebhookSecret(config.Webhook.Secret))
	}
	if config.Archive.Enabled {
		opts = append(opts, handler.WithArchive(config.Archive.BucketName, config.Archive.Prefix))
	}

	logger.Debug("creating webhook handler...")
	hdl, err := handler.NewHandler(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create webhook handler")
	}
	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl, runtime.WithLogger(withComponent("runtime"))), nil
}
