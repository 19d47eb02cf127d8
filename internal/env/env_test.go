package env

import (
	"fmt"
	"testing"
	"time"
)

func TestLookupPrefersNewKey(t *testing.T) {
	t.Setenv("NIGMA_HOME", "/tmp/new")
	t.Setenv("NIGMAJS_HOME", "/tmp/old")

	got, ok := Lookup("NIGMA_HOME", "NIGMAJS_HOME")
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if got != "/tmp/new" {
		t.Fatalf("expected /tmp/new, got %q", got)
	}
}

func TestLookupFallsBackWithWarning(t *testing.T) {
	ResetWarningsForTesting()
	var warnings []string
	restore := SetWarnLoggerForTesting(func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	})
	defer restore()

	t.Setenv("NIGMAJS_PACKS_DIR", "/tmp/packs")

	got, ok := Lookup("NIGMA_PACKS_DIR", "NIGMAJS_PACKS_DIR")
	if !ok || got != "/tmp/packs" {
		t.Fatalf("expected legacy value, got %q ok=%v", got, ok)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one deprecation warning, got %d: %v", len(warnings), warnings)
	}

	// Second lookup must not warn again.
	Lookup("NIGMA_PACKS_DIR", "NIGMAJS_PACKS_DIR")
	if len(warnings) != 1 {
		t.Fatalf("expected warning to fire once, got %d", len(warnings))
	}
}

func TestLookupMissing(t *testing.T) {
	if v, ok := Lookup("NIGMA_DOES_NOT_EXIST", "NIGMAJS_DOES_NOT_EXIST"); ok {
		t.Fatalf("expected miss, got %q", v)
	}
}

func TestTypedHelpers(t *testing.T) {
	t.Setenv("NIGMA_ENABLED", "true")
	t.Setenv("NIGMA_WORKERS", "8")
	t.Setenv("NIGMA_TIMEOUT", "45s")
	t.Setenv("NIGMA_BROKEN", "not-a-number")

	if got := Bool("NIGMA_ENABLED", "", false); !got {
		t.Error("Bool should parse true")
	}
	if got := Int("NIGMA_WORKERS", "", 1); got != 8 {
		t.Errorf("Int = %d, want 8", got)
	}
	if got := Duration("NIGMA_TIMEOUT", "", time.Second); got != 45*time.Second {
		t.Errorf("Duration = %v, want 45s", got)
	}
	if got := Int("NIGMA_BROKEN", "", 3); got != 3 {
		t.Errorf("unparseable Int should fall back to default, got %d", got)
	}
	if got := String("NIGMA_UNSET_KEY", "", "fallback"); got != "fallback" {
		t.Errorf("String = %q, want fallback", got)
	}
}
