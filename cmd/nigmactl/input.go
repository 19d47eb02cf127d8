package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/config"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/dictionary"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/langpack"
)

// readInput resolves the text a subcommand operates on: the --file flag
// ("-" for stdin) wins, otherwise the positional arguments are joined with
// spaces. Empty input is an error so every command fails loudly instead of
// analysing nothing.
func readInput(file string, args []string) (string, error) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	}
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", errors.New("no input: pass text as arguments or use --file")
	}
	return text, nil
}

// loadDictionary resolves the word list for a language: an explicit
// --wordlist path wins, then <wordlist_dir>/<language>.txt from the
// configuration, then the language pack's seed words.
func loadDictionary(cfg config.Config, wordlist, language string) (*dictionary.Dictionary, error) {
	if wordlist != "" {
		return dictionary.Load(wordlist)
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" || language == "auto" {
		language = cfg.Language
	}
	if cfg.WordlistDir != "" {
		path := filepath.Join(cfg.WordlistDir, language+".txt")
		if _, err := os.Stat(path); err == nil {
			return dictionary.Load(path)
		}
	}
	manager, err := langpack.NewManager()
	if err != nil {
		return nil, err
	}
	pack, err := manager.Get(language)
	if err != nil {
		return nil, fmt.Errorf("no word list for %q: %w", language, err)
	}
	if len(pack.Words) == 0 {
		return nil, fmt.Errorf("language pack %q carries no seed words", language)
	}
	return dictionary.FromPack(pack), nil
}
