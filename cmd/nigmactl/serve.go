package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/api"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/config"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/logging"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "listen address (default from config)")
	token := fs.String("token", "", "static service token (default from config)")
	eventLog := fs.String("event-log", "", "JSONL file for analysis events (default <output_dir>/events.jsonl)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "serve takes no positional arguments")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if *addr == "" {
		*addr = cfg.Service.Addr
	}
	if *token == "" {
		*token = cfg.Service.Token
	}
	if *token == "" {
		fmt.Fprintln(os.Stderr, "serve requires a service token (--token, config, or NIGMA_SERVICE_TOKEN)")
		return 2
	}
	logPath := *eventLog
	if logPath == "" {
		logPath = filepath.Join(cfg.OutputDir, "events.jsonl")
	}

	logger, err := logging.NewAnalysisLogger("nigma-api", logging.WithFile(logPath), logging.WithoutStdout())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open event log: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Close()
	}()

	server, err := api.NewServer(api.Config{
		Addr:     *addr,
		Token:    *token,
		Language: cfg.Language,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "build service: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "service stopped: %v\n", err)
		return 1
	}
	return 0
}
