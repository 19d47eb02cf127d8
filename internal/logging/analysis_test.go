package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalysisLoggerEmit(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAnalysisLogger("classifier", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAnalysisLogger: %v", err)
	}

	event := AnalysisEvent{EventType: EventClassification, Decision: DecisionInfo, Subject: "stdin"}
	if err := logger.Emit(event); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var decoded AnalysisEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded.Component != "classifier" {
		t.Fatalf("expected component 'classifier', got %q", decoded.Component)
	}
	if decoded.EventType != EventClassification {
		t.Fatalf("expected event type %q, got %q", EventClassification, decoded.EventType)
	}
	if decoded.Subject != "stdin" {
		t.Fatalf("expected subject 'stdin', got %q", decoded.Subject)
	}
	if decoded.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}

func TestAnalysisLoggerRedacts(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAnalysisLogger("service", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAnalysisLogger: %v", err)
	}

	err = logger.Emit(AnalysisEvent{
		EventType: EventServiceDenied,
		Decision:  DecisionDeny,
		Reason:    "token=abcdef1234567890 rejected",
		Metadata: map[string]any{
			"client_token":  "very-secret-value",
			"never_persist": "client_token",
			"sample":        strings.Repeat("KHOORZRUOG", 5),
		},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	line := buf.String()
	if strings.Contains(line, "abcdef1234567890") || strings.Contains(line, "very-secret-value") {
		t.Fatalf("secret leaked into log line: %s", line)
	}
	if strings.Contains(line, "KHOORZRUOG") {
		t.Fatalf("raw document leaked into log line: %s", line)
	}
	if !strings.Contains(line, "[REDACTED_SECRET]") {
		t.Fatalf("expected redaction marker in %s", line)
	}
}

func TestAnalysisLoggerWithComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAnalysisLogger("root", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAnalysisLogger: %v", err)
	}

	child := logger.WithComponent("scanner")
	if err := child.Emit(AnalysisEvent{EventType: EventScanFinding}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var decoded AnalysisEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded.Component != "scanner" {
		t.Fatalf("expected component 'scanner', got %q", decoded.Component)
	}
}

func TestAnalysisLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	logger, err := NewAnalysisLogger("trainer", WithoutStdout(), WithFile(path))
	if err != nil {
		t.Fatalf("NewAnalysisLogger: %v", err)
	}

	if err := logger.Emit(AnalysisEvent{EventType: EventPackTrain, Subject: "corpus/en"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), string(EventPackTrain)) {
		t.Fatalf("log file missing event: %s", data)
	}
}

func TestAnalysisLoggerRequiresWriter(t *testing.T) {
	if _, err := NewAnalysisLogger("x", WithoutStdout()); err == nil {
		t.Fatal("expected error when no writers remain")
	}
	if _, err := NewAnalysisLogger("x", WithWriter(nil)); err == nil {
		t.Fatal("expected error for nil writer")
	}
}
