package cmd

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/isometry/merchant-webhook/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		Short:   "Serve the webhook receiver over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeService)
			logger.Info("spawning...")

			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			logger.Debug("creating HTTP server...")
			mux := http.NewServeMux()
			mux.Handle(config.Service.Path, rt)

			s := &http.Server{
				Handler:           mux,
				Addr:              net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout:      config.Service.Timeout,
				ReadTimeout:       config.Service.Timeout,
				ReadHeaderTimeout: config.Service.Timeout,
				IdleTimeout:       config.Service.Timeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("serving...", "address", s.Addr, "path", config.Service.Path, "timeout", config.Service.Timeout.String())
				serveErr <- s.ListenAndServe()
			}()

			select {
			case err = <-serveErr:
				return errors.Wrap(err, "server stopped")
			case <-ctx.Done():
			}

			logger.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Service.Timeout)
			defer cancel()
			if err = s.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, "failed to shut down server")
			}
			return nil
		},
	}

	return cmd
}
