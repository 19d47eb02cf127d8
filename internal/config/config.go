// Package config resolves the nigma configuration from defaults, optional
// files, and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/env"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

// Config captures the resolved configuration for the CLI and the analysis
// service.
type Config struct {
	Language    string          `yaml:"language" toml:"language"`
	PackDir     string          `yaml:"pack_dir" toml:"pack_dir"`
	WordlistDir string          `yaml:"wordlist_dir" toml:"wordlist_dir"`
	OutputDir   string          `yaml:"output_dir" toml:"output_dir"`
	Tolerance   ToleranceConfig `yaml:"tolerance" toml:"tolerance"`
	Service     ServiceConfig   `yaml:"service" toml:"service"`
}

// ToleranceConfig tunes index-of-coincidence validation bands.
type ToleranceConfig struct {
	KSigma     float64 `yaml:"k_sigma" toml:"k_sigma"`
	MinPercent float64 `yaml:"min_percent" toml:"min_percent"`
	MaxPercent float64 `yaml:"max_percent" toml:"max_percent"`
}

// ServiceConfig controls the HTTP analysis service. An empty token keeps
// the service from starting; there is no built-in credential.
type ServiceConfig struct {
	Addr  string `yaml:"addr" toml:"addr"`
	Token string `yaml:"token" toml:"token"`
}

// Default returns the built-in configuration. An empty PackDir or
// WordlistDir means only the embedded packs and their seed words are used.
func Default() Config {
	return Config{
		Language:    "english",
		PackDir:     "",
		WordlistDir: "",
		OutputDir:   "out",
		Tolerance: ToleranceConfig{
			KSigma:     2.5,
			MinPercent: 5,
			MaxPercent: 60,
		},
		Service: ServiceConfig{
			Addr:  "127.0.0.1:8750",
			Token: "",
		},
	}
}

// ICOptions converts the tolerance settings into validation options.
func (c Config) ICOptions() textstat.ICOptions {
	return textstat.ICOptions{
		KSigma:     c.Tolerance.KSigma,
		MinPercent: c.Tolerance.MinPercent,
		MaxPercent: c.Tolerance.MaxPercent,
	}
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. The lookup order for configuration files is:
//  1. ~/.nigma/config.toml (TOML)
//  2. ~/.nigmajs/config.toml (TOML, legacy)
//  3. ./nigma.yml (YAML)
//
// Environment variables prefixed with NIGMA_ have the highest precedence;
// the legacy NIGMAJS_ spellings still work.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Tolerance.KSigma <= 0 {
		return fmt.Errorf("tolerance k_sigma must be positive, got %v", c.Tolerance.KSigma)
	}
	if c.Tolerance.MinPercent <= 0 || c.Tolerance.MinPercent > c.Tolerance.MaxPercent {
		return fmt.Errorf("tolerance percent clamp [%v, %v] is not a valid range",
			c.Tolerance.MinPercent, c.Tolerance.MaxPercent)
	}
	return nil
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("determine home directory: %w", err)
	}

	newPath := filepath.Join(home, ".nigma", "config.toml")
	data, err := os.ReadFile(newPath)
	if err == nil {
		if err := applyFileConfig(cfg, data, "toml"); err != nil {
			return fmt.Errorf("parse config %s: %w", newPath, err)
		}
		return nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", newPath, err)
	}

	legacyPath := filepath.Join(home, ".nigmajs", "config.toml")
	data, err = os.ReadFile(legacyPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", legacyPath, err)
	}
	log.Println("Using legacy nigmajs config")
	if err := applyFileConfig(cfg, data, "toml"); err != nil {
		return fmt.Errorf("parse config %s: %w", legacyPath, err)
	}
	return nil
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	path := filepath.Join(wd, "nigma.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data, "yaml"); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type fileConfig struct {
	Language    *string              `yaml:"language" toml:"language"`
	PackDir     *string              `yaml:"pack_dir" toml:"pack_dir"`
	WordlistDir *string              `yaml:"wordlist_dir" toml:"wordlist_dir"`
	OutputDir   *string              `yaml:"output_dir" toml:"output_dir"`
	Tolerance   *fileToleranceConfig `yaml:"tolerance" toml:"tolerance"`
	Service     *fileServiceConfig   `yaml:"service" toml:"service"`
}

type fileToleranceConfig struct {
	KSigma     *float64 `yaml:"k_sigma" toml:"k_sigma"`
	MinPercent *float64 `yaml:"min_percent" toml:"min_percent"`
	MaxPercent *float64 `yaml:"max_percent" toml:"max_percent"`
}

type fileServiceConfig struct {
	Addr  *string `yaml:"addr" toml:"addr"`
	Token *string `yaml:"token" toml:"token"`
}

func applyFileConfig(cfg *Config, data []byte, format string) error {
	var fc fileConfig
	var err error
	switch format {
	case "yaml":
		fc, err = parseYAML(data)
	case "toml":
		fc, err = parseTOML(data)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return err
	}

	if fc.Language != nil {
		cfg.Language = strings.TrimSpace(*fc.Language)
	}
	if fc.PackDir != nil {
		cfg.PackDir = strings.TrimSpace(*fc.PackDir)
	}
	if fc.WordlistDir != nil {
		cfg.WordlistDir = strings.TrimSpace(*fc.WordlistDir)
	}
	if fc.OutputDir != nil {
		cfg.OutputDir = strings.TrimSpace(*fc.OutputDir)
	}
	if fc.Tolerance != nil {
		if fc.Tolerance.KSigma != nil {
			cfg.Tolerance.KSigma = *fc.Tolerance.KSigma
		}
		if fc.Tolerance.MinPercent != nil {
			cfg.Tolerance.MinPercent = *fc.Tolerance.MinPercent
		}
		if fc.Tolerance.MaxPercent != nil {
			cfg.Tolerance.MaxPercent = *fc.Tolerance.MaxPercent
		}
	}
	if fc.Service != nil {
		if fc.Service.Addr != nil {
			cfg.Service.Addr = strings.TrimSpace(*fc.Service.Addr)
		}
		if fc.Service.Token != nil {
			cfg.Service.Token = strings.TrimSpace(*fc.Service.Token)
		}
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if val := strings.TrimSpace(env.String("NIGMA_LANGUAGE", "NIGMAJS_LANGUAGE", "")); val != "" {
		cfg.Language = val
	}
	if val := strings.TrimSpace(env.String("NIGMA_PACK_DIR", "NIGMAJS_PACK_DIR", "")); val != "" {
		cfg.PackDir = val
	}
	if val := strings.TrimSpace(env.String("NIGMA_WORDLIST_DIR", "NIGMAJS_WORDLIST_DIR", "")); val != "" {
		cfg.WordlistDir = val
	}
	if val := strings.TrimSpace(env.String("NIGMA_OUT", "NIGMAJS_OUT", "")); val != "" {
		cfg.OutputDir = val
	}
	if val, ok := env.Lookup("NIGMA_TOLERANCE_SIGMA", "NIGMAJS_TOLERANCE_SIGMA"); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			cfg.Tolerance.KSigma = parsed
		}
	}
	if val, ok := env.Lookup("NIGMA_TOLERANCE_MIN_PERCENT", "NIGMAJS_TOLERANCE_MIN_PERCENT"); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			cfg.Tolerance.MinPercent = parsed
		}
	}
	if val, ok := env.Lookup("NIGMA_TOLERANCE_MAX_PERCENT", "NIGMAJS_TOLERANCE_MAX_PERCENT"); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			cfg.Tolerance.MaxPercent = parsed
		}
	}
	if val := strings.TrimSpace(env.String("NIGMA_SERVICE_ADDR", "NIGMAJS_SERVICE_ADDR", "")); val != "" {
		cfg.Service.Addr = val
	}
	if val := strings.TrimSpace(env.String("NIGMA_SERVICE_TOKEN", "NIGMAJS_SERVICE_TOKEN", "")); val != "" {
		cfg.Service.Token = val
	}
}

func parseYAML(data []byte) (fileConfig, error) {
	lines := strings.Split(string(data), "\n")
	var fc fileConfig
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasSuffix(trimmed, ":") {
			section := strings.TrimSuffix(trimmed, ":")
			pairs, last, err := yamlSectionPairs(lines, i)
			if err != nil {
				return fileConfig{}, err
			}
			i = last
			switch section {
			case "tolerance":
				tol := &fileToleranceConfig{}
				for _, pair := range pairs {
					parsed, err := parseFloat(pair[1])
					if err != nil {
						return fileConfig{}, err
					}
					switch pair[0] {
					case "k_sigma":
						tol.KSigma = &parsed
					case "min_percent":
						tol.MinPercent = &parsed
					case "max_percent":
						tol.MaxPercent = &parsed
					}
				}
				fc.Tolerance = tol
			case "service":
				svc := &fileServiceConfig{}
				for _, pair := range pairs {
					value := pair[1]
					switch pair[0] {
					case "addr":
						svc.Addr = &value
					case "token":
						svc.Token = &value
					}
				}
				fc.Service = svc
			}
			continue
		}
		parts := strings.SplitN(trimmed, ":", 2)
		if len(parts) != 2 {
			return fileConfig{}, fmt.Errorf("invalid yaml line: %q", trimmed)
		}
		key := strings.TrimSpace(parts[0])
		value := trimQuotes(strings.TrimSpace(parts[1]))
		switch key {
		case "language":
			fc.Language = &value
		case "pack_dir":
			fc.PackDir = &value
		case "wordlist_dir":
			fc.WordlistDir = &value
		case "output_dir":
			fc.OutputDir = &value
		default:
			// ignore unknown keys
		}
	}
	return fc, nil
}

// yamlSectionPairs collects the indented key/value lines following a section
// header and reports the index of the last line consumed.
func yamlSectionPairs(lines []string, start int) ([][2]string, int, error) {
	var pairs [][2]string
	last := start
	for j := start + 1; j < len(lines); j++ {
		nested := lines[j]
		if indentation(nested) == 0 && strings.TrimSpace(nested) != "" {
			break
		}
		trimmed := strings.TrimSpace(nested)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			last = j
			continue
		}
		parts := strings.SplitN(trimmed, ":", 2)
		if len(parts) != 2 {
			return nil, 0, fmt.Errorf("invalid section entry: %q", trimmed)
		}
		key := strings.TrimSpace(parts[0])
		value := trimQuotes(strings.TrimSpace(parts[1]))
		pairs = append(pairs, [2]string{key, value})
		last = j
	}
	return pairs, last, nil
}

func parseTOML(data []byte) (fileConfig, error) {
	lines := strings.Split(string(data), "\n")
	var fc fileConfig
	section := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") { // # comment
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]")
			continue
		}
		parts := strings.SplitN(trimmed, "=", 2)
		if len(parts) != 2 {
			return fileConfig{}, fmt.Errorf("invalid toml line: %q", trimmed)
		}
		key := strings.TrimSpace(parts[0])
		value := trimQuotes(strings.TrimSpace(parts[1]))
		switch section {
		case "":
			switch key {
			case "language":
				fc.Language = &value
			case "pack_dir":
				fc.PackDir = &value
			case "wordlist_dir":
				fc.WordlistDir = &value
			case "output_dir":
				fc.OutputDir = &value
			}
		case "tolerance":
			if fc.Tolerance == nil {
				fc.Tolerance = &fileToleranceConfig{}
			}
			parsed, err := parseFloat(value)
			if err != nil {
				return fileConfig{}, err
			}
			switch key {
			case "k_sigma":
				fc.Tolerance.KSigma = &parsed
			case "min_percent":
				fc.Tolerance.MinPercent = &parsed
			case "max_percent":
				fc.Tolerance.MaxPercent = &parsed
			}
		case "service":
			if fc.Service == nil {
				fc.Service = &fileServiceConfig{}
			}
			switch key {
			case "addr":
				fc.Service.Addr = &value
			case "token":
				fc.Service.Token = &value
			}
		}
	}
	return fc, nil
}

func parseFloat(val string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %q", val)
	}
	return parsed, nil
}

func trimQuotes(val string) string {
	if len(val) >= 2 {
		if (strings.HasPrefix(val, "\"") && strings.HasSuffix(val, "\"")) ||
			(strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'")) {
			return val[1 : len(val)-1]
		}
	}
	return val
}

func indentation(line string) int {
	count := 0
	for _, r := range line {
		switch r {
		case ' ':
			count++
		case '\t':
			count++
		default:
			return count
		}
	}
	return count
}
