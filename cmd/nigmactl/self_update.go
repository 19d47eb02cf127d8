package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/config"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/env"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/logging"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/updater"
)

func runSelfUpdate(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "channel":
			return runSelfUpdateChannel(args[1:])
		}
	}

	fs := flag.NewFlagSet("self-update", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	channelFlag := fs.String("channel", "", "update channel to use for this invocation (stable or beta)")
	rollback := fs.Bool("rollback", false, "restore the previous nigmactl binary")
	eventLog := fs.String("event-log", "", "JSONL file for update events (default <output_dir>/events.jsonl)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "self-update takes no positional arguments")
		return 2
	}

	store, err := updater.NewStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "prepare updater config: %v\n", err)
		return 1
	}
	cfg, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load updater config: %v\n", err)
		return 1
	}

	channel := cfg.Channel
	if channel == "" {
		channel = updater.ChannelStable
	}
	persist := true
	if *channelFlag != "" {
		normalized, err := updater.NormalizeChannel(*channelFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid channel %q: %v\n", *channelFlag, err)
			return 2
		}
		channel = normalized
		persist = false
	}

	baseURL := ""
	if val, ok := env.Lookup("NIGMA_UPDATER_BASE_URL", "NIGMAJS_UPDATER_BASE_URL"); ok {
		baseURL = strings.TrimSpace(val)
	}

	logger := openUpdateEventLog(*eventLog)
	defer func() {
		_ = logger.Close()
	}()

	client := &updater.Client{
		Store:          store,
		BaseURL:        baseURL,
		CurrentVersion: version,
		Out:            os.Stdout,
		Logger:         logger,
	}

	ctx := context.Background()
	if *rollback {
		if err := client.Rollback(ctx, updater.RollbackOptions{ForceStable: true}); err != nil {
			fmt.Fprintf(os.Stderr, "rollback failed: %v\n", err)
			return 1
		}
		return 0
	}

	if err := client.Update(ctx, updater.UpdateOptions{Channel: channel, PersistChannel: persist}); err != nil {
		fmt.Fprintf(os.Stderr, "update failed: %v\n", err)
		return 1
	}
	return 0
}

// openUpdateEventLog attaches self-update runs to the same JSONL event
// stream the rest of the tool writes. A broken log never blocks an
// update, so failures only warn and the client runs without a logger.
func openUpdateEventLog(path string) *logging.AnalysisLogger {
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: load config: %v; update events will not be recorded\n", err)
			return nil
		}
		path = filepath.Join(cfg.OutputDir, "events.jsonl")
	}
	logger, err := logging.NewAnalysisLogger("nigma-updater", logging.WithFile(path), logging.WithoutStdout())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: open event log: %v; update events will not be recorded\n", err)
		return nil
	}
	return logger
}

func runSelfUpdateChannel(args []string) int {
	fs := flag.NewFlagSet("self-update channel", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, err := updater.NewStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "prepare updater config: %v\n", err)
		return 1
	}
	cfg, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load updater config: %v\n", err)
		return 1
	}

	switch fs.NArg() {
	case 0:
		ch := cfg.Channel
		if ch == "" {
			ch = updater.ChannelStable
		}
		fmt.Fprintln(os.Stdout, ch)
		return 0
	case 1:
		channel, err := updater.NormalizeChannel(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid channel %q: %v\n", fs.Arg(0), err)
			return 2
		}
		cfg.Channel = channel
		if err := store.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "persist updater config: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "default channel set to %s\n", channel)
		return 0
	default:
		fmt.Fprintln(os.Stderr, "self-update channel accepts at most one argument")
		return 2
	}
}
