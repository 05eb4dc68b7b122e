// Command demoserver serves fixture pages for trying pagesource locally.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/raysh454/pagesource/internal/demoserver"
	"github.com/raysh454/pagesource/internal/logging"
)

func main() {
	logger := logging.NewFromEnv(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], logger)
	stop()
	if err != nil {
		logger.Error("demo server failed", logging.Field{Key: "error", Value: err})
		os.Exit(1)
	}
}

// parseConfig reads the optional port argument.
func parseConfig(args []string) (demoserver.Config, error) {
	cfg := demoserver.DefaultConfig()
	if len(args) == 0 {
		return cfg, nil
	}
	if len(args) > 1 {
		return cfg, fmt.Errorf("usage: demoserver [port]")
	}
	port, err := strconv.Atoi(args[0])
	if err != nil || port < 1 || port > 65535 {
		return cfg, fmt.Errorf("invalid port: %s", args[0])
	}
	cfg.Port = port
	return cfg, nil
}

// run serves until ctx is cancelled.
func run(ctx context.Context, args []string, logger logging.Logger) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	server := demoserver.NewDemoServer(cfg, logger)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
