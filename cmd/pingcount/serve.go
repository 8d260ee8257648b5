package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codewandler/mailbox-go/adapters/nats"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the counter mailbox on a NATS subject",
		Long: `serve exposes the counter mailbox on --subject until interrupted.
NATS requests are answered with a Pong, plain publishes are counted
fire-and-forget.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(v, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.NatsURL == "" {
				return errors.New("serve requires --nats-url")
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			log := cfg.Logger()
			metrics, stopMetrics := startMetrics(cfg, log)
			defer stopMetrics()

			mb := newCounter(ctx, log, metrics)
			defer mb.Close()

			bridge, err := nats.Serve(ctx, nats.BridgeConfig{
				Connect: nats.ConnectURL(cfg.NatsURL),
				Subject: cfg.Subject,
				Log:     log,
			}, mb)
			if err != nil {
				return err
			}
			defer bridge.Close()

			log.Info("serving counter", slog.String("subject", cfg.Subject), slog.String("nats", cfg.NatsURL))
			<-ctx.Done()
			log.Info("shutting down")
			return nil
		},
	}
}
