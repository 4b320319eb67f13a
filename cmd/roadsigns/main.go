// Command roadsigns is the backend for the road-sign learning app.
//
// Usage:
//
//	roadsigns serve
//	roadsigns migrate [up|down|status]
//	roadsigns seed [--file catalogue.json] [--dry-run]
//	roadsigns cleanup-tokens
//	roadsigns version
//
// Configuration is read from --config, then CONFIG_PATH, then ./config.yaml,
// with environment variables taking priority.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
