package cmd

import (
	"fmt"

	"github.com/isometry/merchant-webhook/internal/canonical"
	"github.com/isometry/merchant-webhook/internal/config"
	"github.com/isometry/merchant-webhook/internal/signature"
	"github.com/isometry/merchant-webhook/internal/validation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdSign() *cobra.Command {
	var (
		printCanonical bool
		event          string
	)

	cmd := &cobra.Command{
		Use:   "sign [file]",
		Short: "Sign a webhook data document read from a file or stdin",
		Long: `Sign prints the signature of a data document. With --canonical it prints the
canonical form that is signed instead; with --event it prints a complete signed envelope.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return errors.Wrap(err, "failed to read input")
			}
			data, err := canonical.Parse(input)
			if err != nil {
				return errors.Wrap(err, "failed to parse data document")
			}

			if printCanonical {
				out, err := canonical.Serialize(data)
				if err != nil {
					return errors.Wrap(err, "failed to serialize data document")
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}

			if config.Webhook.Secret == "" {
				return validation.ErrMissingSecret
			}
			sig, err := signature.Generate(data, config.Webhook.Secret)
			if err != nil {
				return errors.Wrap(err, "failed to sign data document")
			}
			if event == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), sig)
				return err
			}

			out, err := canonical.Serialize(canonical.Object(
				canonical.Member{Key: signature.FieldEvent, Value: canonical.String(event)},
				canonical.Member{Key: signature.FieldData, Value: data},
				canonical.Member{Key: signature.FieldSignature, Value: canonical.String(sig)},
			))
			if err != nil {
				return errors.Wrap(err, "failed to serialize envelope")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().BoolVar(&printCanonical, "canonical", false, "print the canonical form instead of the signature")
	cmd.Flags().StringVarP(&event, "event", "e", "", "print a signed envelope carrying this event")
	cmd.MarkFlagsMutuallyExclusive("canonical", "event")
	return cmd
}
