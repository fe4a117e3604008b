package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nidus-labs/nanobot-launcher/internal/botcfg"
	"github.com/nidus-labs/nanobot-launcher/internal/config"
	"github.com/nidus-labs/nanobot-launcher/internal/launch"
	"github.com/nidus-labs/nanobot-launcher/internal/leads"
	"github.com/nidus-labs/nanobot-launcher/internal/memory"
)

func newRunCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Full boot sequence: config, memory, sidecar, exec nanobot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			log.Info("nanobot launcher starting", "version", Version, "port", cfg.Port)

			// Config and memory writes are fatal: nanobot cannot run
			// without them.
			if err := botcfg.Materialize(cfg); err != nil {
				return err
			}
			log.Info("nanobot config written", "path", cfg.ConfigPath)

			if err := refreshMemory(cmd.Context(), cfg, log); err != nil {
				return err
			}

			binPath, err := launch.Ensure(cfg, log)
			if err != nil {
				return err
			}

			// The sidecar carries the health endpoint; if it fails to
			// start the gateway still boots, mirroring how a failed
			// background job never stopped the old shell entrypoint.
			if err := launch.SpawnSidecar(log); err != nil {
				log.Error("sidecar failed to start", "err", err)
			}

			log.Info("handing off to nanobot", "bin", binPath)
			return launch.Exec(cfg, binPath)
		},
	}
}

// refreshMemory rebuilds the memory file from scratch: seed document, then
// the leads index (and report, when enabled) if Supabase is configured.
// Only the seed write can fail the boot; the leads fetch never does.
func refreshMemory(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	now := time.Now()
	if err := memory.Seed(cfg.MemoryPath, now); err != nil {
		return err
	}
	log.Info("memory file seeded", "path", cfg.MemoryPath)

	if !cfg.SupabaseEnabled() {
		log.Info("supabase credentials absent, skipping leads index")
		return nil
	}

	client := leads.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.LeadsTable, cfg.LeadsLimit)
	rows, err := client.Fetch(ctx)
	if err != nil {
		// Non-fatal by contract: the agent boots without the snapshot.
		log.Error("leads fetch failed, continuing without index", "err", err)
		return nil
	}

	section := leads.IndexTable(rows, now)
	if cfg.LeadsReport {
		section += leads.Report(rows, now)
	}
	if err := memory.Append(cfg.MemoryPath, section); err != nil {
		log.Error("leads index append failed, continuing", "err", err)
		return nil
	}
	log.Info("leads index appended", "rows", len(rows))
	return nil
}
