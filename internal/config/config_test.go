package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrecedence(t *testing.T) {
	tempDir := t.TempDir()

	// Configure HOME to a temp directory containing only the legacy ~/.nigmajs/config.toml.
	homeDir := filepath.Join(tempDir, "home")
	if err := os.Mkdir(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	legacyDir := filepath.Join(homeDir, ".nigmajs")
	if err := os.Mkdir(legacyDir, 0o755); err != nil {
		t.Fatalf("mkdir .nigmajs: %v", err)
	}
	tomlPath := filepath.Join(legacyDir, "config.toml")
	tomlConfig := []byte(`language = "french"
output_dir = "/custom"
[tolerance]
k_sigma = 3.5
`)
	if err := os.WriteFile(tomlPath, tomlConfig, 0o644); err != nil {
		t.Fatalf("write toml config: %v", err)
	}

	// Provide a local YAML config overriding the TOML file.
	workDir := filepath.Join(tempDir, "work")
	if err := os.Mkdir(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	yamlPath := filepath.Join(workDir, "nigma.yml")
	yamlConfig := []byte(`language: spanish
tolerance:
  min_percent: 10
service:
  addr: 127.0.0.1:9999
`)
	if err := os.WriteFile(yamlPath, yamlConfig, 0o644); err != nil {
		t.Fatalf("write yaml config: %v", err)
	}

	// Ensure env overrides beat file configuration.
	t.Setenv("NIGMA_LANGUAGE", "german")
	t.Setenv("NIGMA_SERVICE_TOKEN", "env-token")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer func() {
		_ = os.Chdir(cwd)
	}()
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Language != "german" {
		t.Fatalf("expected env override for language, got %s", cfg.Language)
	}
	if cfg.OutputDir != "/custom" {
		t.Fatalf("expected TOML output dir, got %s", cfg.OutputDir)
	}
	if cfg.Tolerance.KSigma != 3.5 {
		t.Fatalf("expected TOML k_sigma, got %v", cfg.Tolerance.KSigma)
	}
	if cfg.Tolerance.MinPercent != 10 {
		t.Fatalf("expected YAML min_percent, got %v", cfg.Tolerance.MinPercent)
	}
	if cfg.Tolerance.MaxPercent != 60 {
		t.Fatalf("expected default max_percent, got %v", cfg.Tolerance.MaxPercent)
	}
	if cfg.Service.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected YAML service addr, got %s", cfg.Service.Addr)
	}
	if cfg.Service.Token != "env-token" {
		t.Fatalf("expected env token override, got %s", cfg.Service.Token)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	defaults := Default()
	if cfg != defaults {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadPrefersModernConfig(t *testing.T) {
	tempDir := t.TempDir()

	homeDir := filepath.Join(tempDir, "home")
	if err := os.Mkdir(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	legacyDir := filepath.Join(homeDir, ".nigmajs")
	if err := os.Mkdir(legacyDir, 0o755); err != nil {
		t.Fatalf("mkdir legacy dir: %v", err)
	}
	legacyConfig := []byte(`output_dir = "/legacy"`)
	if err := os.WriteFile(filepath.Join(legacyDir, "config.toml"), legacyConfig, 0o644); err != nil {
		t.Fatalf("write legacy config: %v", err)
	}

	modernDir := filepath.Join(homeDir, ".nigma")
	if err := os.Mkdir(modernDir, 0o755); err != nil {
		t.Fatalf("mkdir modern dir: %v", err)
	}
	modernConfig := []byte(`output_dir = "/modern"`)
	if err := os.WriteFile(filepath.Join(modernDir, "config.toml"), modernConfig, 0o644); err != nil {
		t.Fatalf("write modern config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.OutputDir != "/modern" {
		t.Fatalf("expected modern config to take precedence, got %s", cfg.OutputDir)
	}
}

func TestLoadLegacyEnvOverride(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	t.Setenv("NIGMAJS_LANGUAGE", "italian")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Language != "italian" {
		t.Fatalf("expected legacy env override, got %s", cfg.Language)
	}
}

func TestLoadRejectsInvalidTolerance(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", filepath.Join(tempDir, "home"))

	workDir := filepath.Join(tempDir, "work")
	if err := os.Mkdir(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	yamlConfig := []byte(`tolerance:
  k_sigma: 0
`)
	if err := os.WriteFile(filepath.Join(workDir, "nigma.yml"), yamlConfig, 0o644); err != nil {
		t.Fatalf("write yaml config: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer func() {
		_ = os.Chdir(cwd)
	}()
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero k_sigma")
	} else if !strings.Contains(err.Error(), "k_sigma") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", filepath.Join(tempDir, "home"))

	workDir := filepath.Join(tempDir, "work")
	if err := os.Mkdir(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	if err := os.WriteFile(filepath.Join(workDir, "nigma.yml"), []byte("not a mapping"), 0o644); err != nil {
		t.Fatalf("write yaml config: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer func() {
		_ = os.Chdir(cwd)
	}()
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestICOptions(t *testing.T) {
	cfg := Default()
	cfg.Tolerance.KSigma = 3.0
	cfg.Tolerance.MinPercent = 8
	cfg.Tolerance.MaxPercent = 50

	opts := cfg.ICOptions()
	if opts.KSigma != 3.0 || opts.MinPercent != 8 || opts.MaxPercent != 50 {
		t.Fatalf("unexpected options: %#v", opts)
	}
}
