package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriterWritesRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analyses.jsonl")
	writer := NewWriter(path)
	defer func() {
		_ = writer.Close()
	}()

	rec := New("analyze", "classification", "top family caesar-shift", 0.693)
	rec.Language = "english"
	rec.Family = "caesar-shift"
	if err := writer.Write(rec); err != nil {
		t.Fatalf("write record: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if count := strings.Count(string(data), "\n"); count != 1 {
		t.Fatalf("expected 1 line, got %d", count)
	}
	if !strings.Contains(string(data), `"family":"caesar-shift"`) {
		t.Fatalf("record body missing family: %s", data)
	}
}

func TestWriterFillsVersion(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(filepath.Join(dir, "analyses.jsonl"))
	defer func() {
		_ = writer.Close()
	}()

	rec := New("scan", "region", "suspected ciphertext region", 0.61)
	rec.Version = ""
	if err := writer.Write(rec); err != nil {
		t.Fatalf("write record: %v", err)
	}
}

func TestWriterRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analyses.jsonl")
	writer := NewWriter(path, WithMaxBytes(256), WithMaxRotations(2))
	defer func() {
		_ = writer.Close()
	}()

	for i := 0; i < 10; i++ {
		rec := New("scan", "region", "suspected ciphertext region", 0.61)
		rec.Subject = "document.txt"
		if err := writer.Write(rec); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "analyses.jsonl.*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected rotated files to exist")
	}
	if len(matches) > 2 {
		t.Fatalf("expected at most 2 rotated files, got %d", len(matches))
	}
}

func TestWriterRejectsInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(filepath.Join(dir, "analyses.jsonl"))
	defer func() {
		_ = writer.Close()
	}()

	if err := writer.Write(Record{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDefaultPathHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NIGMA_OUT", dir)
	w := NewWriter("")
	defer func() {
		_ = w.Close()
	}()

	if err := w.Write(New("analyze", "classification", "m", 0.5)); err != nil {
		t.Fatalf("write record: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "analyses.jsonl")); err != nil {
		t.Fatalf("expected records under %s: %v", dir, err)
	}
}

func TestDefaultPathHonoursLegacyEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NIGMAJS_OUT", dir)
	w := NewWriter("")
	defer func() {
		_ = w.Close()
	}()

	if got, want := w.Path(), filepath.Join(dir, "analyses.jsonl"); got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}

func BenchmarkWriter(b *testing.B) {
	dir := b.TempDir()
	writer := NewWriter(filepath.Join(dir, "analyses.jsonl"))
	defer func() {
		_ = writer.Close()
	}()

	rec := New("analyze", "classification", "top family monoalphabetic-substitution", 0.729)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec.ID = NewID()
		if err := writer.Write(rec); err != nil {
			b.Fatalf("write: %v", err)
		}
	}
}
