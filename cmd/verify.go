package cmd

import (
	"fmt"

	"github.com/isometry/merchant-webhook/internal/config"
	"github.com/isometry/merchant-webhook/internal/signature"
	"github.com/isometry/merchant-webhook/internal/validation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var errInvalidEnvelope = errors.New("envelope signature is invalid")

func cmdVerify() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "verify [file]",
		Short:        "Verify a signed webhook envelope read from a file or stdin",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return errors.Wrap(err, "failed to read input")
			}
			if config.Webhook.Secret == "" {
				return validation.ErrMissingSecret
			}

			if !signature.VerifyJSON(input, config.Webhook.Secret) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return errInvalidEnvelope
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return err
		},
	}

	return cmd
}
