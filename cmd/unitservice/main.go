package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/unit-service/internal/app"
	"github.com/Adda-Baaj/unit-service/internal/config"
	"github.com/Adda-Baaj/unit-service/internal/logger"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "unitservice start failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("unitservice", pflag.ContinueOnError)
	fs.String("listen-addr", "", "address to listen on (default :5278)")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("log-output", "", "stdout or stderr")
	fs.String("storage-type", "", "conversion cache backend: none or bbolt")
	fs.String("bbolt-path", "", "bbolt database file")
	fs.String("zipkin-url", "", "zipkin span endpoint; empty disables export")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("unitservice starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := app.NewService(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize service", "error", err)
		return err
	}

	if err := svc.Run(ctx); err != nil {
		return fmt.Errorf("service run: %w", err)
	}

	return nil
}
