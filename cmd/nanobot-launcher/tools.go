package main

import (
	"github.com/spf13/cobra"

	"github.com/nidus-labs/nanobot-launcher/internal/botcfg"
)

// newRenderCmd writes the nanobot config and stops. Useful for inspecting
// what a given environment would produce.
func newRenderCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Materialize the nanobot config file and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			if err := botcfg.Materialize(cfg); err != nil {
				return err
			}
			log.Info("nanobot config written", "path", cfg.ConfigPath)
			return nil
		},
	}
}

// newSeedCmd seeds the memory file (with leads, when configured) and exits.
func newSeedCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the agent memory file and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			return refreshMemory(cmd.Context(), cfg, log)
		},
	}
}
