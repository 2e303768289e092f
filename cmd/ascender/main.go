package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/ascender/adapter/cli"
	"github.com/felixgeelhaar/ascender/pkg/config"
	"github.com/felixgeelhaar/ascender/pkg/observability"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development", LogLevel: "info", LogFormat: "text"}
	}

	// Setup logger
	logCfg := observability.DefaultLogConfig()
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logCfg.Format = observability.LogFormat(cfg.LogFormat)
	logCfg.ServiceVersion = cli.Version
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Execute CLI
	cli.Execute(ctx)
}
