package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nidus-labs/nanobot-launcher/internal/health"
	"github.com/nidus-labs/nanobot-launcher/internal/leads"
)

// newSidecarCmd is the hidden child process spawned by `run` right before
// the exec handoff. It owns everything that must outlive the launcher:
// the health endpoint, the metrics heartbeat, and the optional realtime
// leads watcher.
func newSidecarCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:    "sidecar",
		Short:  "Health endpoint and leads watcher (spawned by run)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			log = log.With("component", "sidecar")

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return health.NewServer(cfg.Port, log).Run(ctx)
			})

			g.Go(func() error {
				health.NewMonitor("/").Heartbeat(ctx, cfg.HeartbeatInterval, log)
				return nil
			})

			if cfg.LeadsWatch && cfg.SupabaseEnabled() {
				watcher := leads.NewWatcher(cfg.SupabaseURL, cfg.SupabaseKey, cfg.LeadsTable,
					func(ctx context.Context) {
						if err := refreshMemory(ctx, cfg, log); err != nil {
							log.Error("memory refresh failed", "err", err)
						}
					}, log)
				g.Go(func() error {
					watcher.Run(ctx)
					return nil
				})
			}

			err = g.Wait()
			log.Info("sidecar stopped")
			return err
		},
	}
}
