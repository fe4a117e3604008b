package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nidus-labs/nanobot-launcher/internal/config"
)

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "nanobot-launcher",
		Short:         "Configure and launch the nanobot agent gateway",
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Optional launcher config file (env vars take precedence)")

	root.AddCommand(newRunCmd(&configFile))
	root.AddCommand(newRenderCmd(&configFile))
	root.AddCommand(newSeedCmd(&configFile))
	root.AddCommand(newSidecarCmd(&configFile))

	return root
}

// loadConfig is the shared front half of every subcommand.
func loadConfig(configFile string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, newLogger(cfg.LogLevel), nil
}

// newLogger builds the JSON stderr logger. Every boot gets a run_id so
// interleaved launcher and sidecar lines can be told apart in the
// platform's log stream.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	return slog.New(h).With("run_id", uuid.NewString())
}
