package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/config"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/dictionary"
)

func runWords(args []string) int {
	fs := flag.NewFlagSet("words", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	language := fs.String("lang", "", "language whose word list to validate against (default from config)")
	wordlist := fs.String("wordlist", "", "path to a word list file (one word per line, overrides --lang)")
	file := fs.String("file", "", "read the text from a file (\"-\" for stdin)")
	asJSON := fs.Bool("json", false, "emit the validation as JSON")
	minCount := fs.Int("min", 0, "exit non-zero unless at least this many valid words are present")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	text, err := readInput(*file, fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	dict, err := loadDictionary(cfg, *wordlist, *language)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	validator := dictionary.NewValidator(dict)

	result := validator.Validate(text)
	if *asJSON {
		if code := encodeJSON(result); code != 0 {
			return code
		}
	} else {
		if result.Error != "" {
			fmt.Printf("invalid input: %s\n", result.Error)
		} else {
			verdict := "does not read as dictionary text"
			if result.Valid {
				verdict = "reads as dictionary text"
			}
			fmt.Printf("%s (confidence %.2f)\n", verdict, result.Confidence)
			fmt.Printf("words: %d  valid: %d  word coverage: %.0f%%  char coverage: %.0f%%\n",
				result.WordCount, result.ValidWords,
				result.WordCoverage*100, result.CharCoverage*100)
		}
	}

	if *minCount > 0 && !validator.HasValidWords(text, *minCount) {
		return 1
	}
	return 0
}
