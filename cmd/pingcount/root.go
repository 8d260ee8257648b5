package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	promadapter "github.com/codewandler/mailbox-go/adapters/prometheus"
	"github.com/codewandler/mailbox-go/core/mailbox"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "pingcount",
		Short: "Count pings through a single mailbox",
		Long: `pingcount starts one counter mailbox and lets a number of concurrent
producers emit pings into it. Every producer awaits each reply. The final
count must equal producers * events.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(v, cmd.Flags())
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return runCount(ctx, cfg, cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (yaml)")
	pf.String("log-level", DefaultConfig().LogLevel, "log level (debug, info, warn, error)")
	pf.String("metrics-addr", "", "serve prometheus metrics on this address, e.g. :2121")
	pf.String("subject", DefaultConfig().Subject, "NATS subject of the counter mailbox")
	pf.String("nats-url", "", "NATS server URL")

	root.Flags().IntP("producers", "p", DefaultConfig().Producers, "number of concurrent producers")
	root.Flags().IntP("events", "n", DefaultConfig().Events, "pings per producer")

	root.AddCommand(newServeCmd(v))
	return root
}

func runCount(ctx context.Context, cfg Config, cmd *cobra.Command) error {
	log := cfg.Logger()

	metrics, stopMetrics := startMetrics(cfg, log)
	defer stopMetrics()

	mb := newCounter(ctx, log, metrics)
	defer mb.Close()

	start := time.Now()
	res, err := runProducers(ctx, mb, cfg.Producers, cfg.Events)
	if err != nil {
		return err
	}

	log.Info("run finished",
		slog.Int("sent", res.Sent),
		slog.Int("pongs", res.Pongs),
		slog.Int("count", res.MaxCount),
		slog.Duration("took", time.Since(start)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "count=%d pongs=%d\n", res.MaxCount, res.Pongs)

	if want := cfg.Producers * cfg.Events; res.MaxCount != want {
		return fmt.Errorf("lost updates: count=%d want=%d", res.MaxCount, want)
	}
	return nil
}

// startMetrics registers mailbox metrics on a fresh registry and, if
// configured, serves them over HTTP.
func startMetrics(cfg Config, log *slog.Logger) (mailbox.Metrics, func()) {
	if cfg.MetricsAddr == "" {
		return mailbox.NopMetrics(), func() {}
	}

	reg := prometheus.NewRegistry()
	metrics := promadapter.NewMailboxMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		log.Info("prometheus metrics server starting", slog.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("prometheus server error", slog.Any("error", err))
		}
	}()

	return metrics, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
