package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/report"
)

func TestRunScanFindsCiphertextRegion(t *testing.T) {
	restore := silenceOutput(t)
	defer restore()
	isolateEnv(t)

	doc := strings.Join([]string{
		"Meeting notes, nothing unusual here.",
		"",
		caesarShift(englishSample, 7),
		"",
		"Regards, someone.",
	}, "\n")
	docPath := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(docPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}

	out := filepath.Join(t.TempDir(), "findings.jsonl")
	if code := runScan([]string{"--out", out, docPath}); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	records, err := report.ReadFile(out)
	if err != nil {
		t.Fatalf("read findings: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("expected at least one finding for an embedded Caesar region")
	}
	if records[0].Subject != docPath {
		t.Errorf("subject = %q, want %q", records[0].Subject, docPath)
	}
}

func TestRunScanRequiresFiles(t *testing.T) {
	restore := silenceOutput(t)
	defer restore()

	if code := runScan(nil); code != 2 {
		t.Fatalf("expected exit code 2 without files, got %d", code)
	}
}
