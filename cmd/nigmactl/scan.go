package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/config"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/report"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/scan"
)

func runScan(args []string) int {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	language := fs.String("lang", "", "reference language for region classification (empty for automatic)")
	out := fs.String("out", "", "JSONL file findings are appended to (default <output_dir>/findings.jsonl)")
	allow := fs.String("allow", "", "comma-separated allowlist entries (text or family:<name>)")
	minLetters := fs.Int("min-letters", 0, "minimum letters a region needs before classification")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "scan requires at least one file argument")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	var allowlist []string
	for _, entry := range strings.Split(*allow, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			allowlist = append(allowlist, entry)
		}
	}
	scanner, err := scan.New(scan.Config{
		Language:   *language,
		MinLetters: *minLetters,
		Allowlist:  allowlist,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "build scanner: %v\n", err)
		return 1
	}

	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(cfg.OutputDir, "findings.jsonl")
	}
	writer := report.NewWriter(outPath)

	total := 0
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			return 1
		}
		records := scanner.Scan(path, string(data))
		for _, record := range records {
			if err := writer.Write(record); err != nil {
				fmt.Fprintf(os.Stderr, "write finding: %v\n", err)
				return 1
			}
		}
		total += len(records)
		fmt.Printf("%s: %d finding(s)\n", path, len(records))
	}
	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close findings file: %v\n", err)
		return 1
	}
	fmt.Printf("wrote %d finding(s) to %s\n", total, outPath)
	return 0
}
