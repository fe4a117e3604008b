// Command nanobot-launcher is the container entrypoint for the nanobot
// agent gateway. It materializes the nanobot config from the environment,
// seeds the agent memory file (optionally with a Supabase leads snapshot),
// spawns a health-endpoint sidecar, and then execs nanobot in place.
package main

import "os"

// Version and BuildTime are set via ldflags at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
