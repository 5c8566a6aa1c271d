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
		fmt.Fprintf(os.Stderr, "testclient start failed: %v\n", err)
		os.Exit(1)
	}
}

// run exits cleanly whatever the checks report; only setup problems are errors.
func run(args []string) error {
	fs := pflag.NewFlagSet("testclient", pflag.ContinueOnError)
	fs.String("base-url", "", "unit service base endpoint")
	fs.Int64("timeout", 0, "per-request timeout in seconds; 0 waits indefinitely")
	fs.String("checks-file", "", "YAML/JSON check plan; empty runs the demo plan")
	fs.String("publishers-file", "", "YAML/JSON report publishers")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("log-output", "", "stdout or stderr (default stderr)")
	value := fs.Float64("value", 0, "value for single conversion checks")
	from := fs.String("from", "", "source unit for single conversion checks")
	to := fs.String("to", "", "target unit for single conversion checks")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Check output owns stdout.
	if !fs.Changed("log-output") && os.Getenv("LOG_OUTPUT") == "" {
		cfg.LogOutput = "stderr"
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("testclient starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := app.NewSmokeTest(ctx, cfg, log, os.Stdout)
	if err != nil {
		logger.ErrorObj("failed to initialize smoke test", "error", err)
		return err
	}
	var override *float64
	if fs.Changed("value") {
		override = value
	}
	st.OverrideSingle(override, *from, *to)

	if _, err := st.Run(ctx); err != nil {
		return fmt.Errorf("smoke run: %w", err)
	}
	return nil
}
