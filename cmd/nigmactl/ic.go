package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/config"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

func runIC(args []string) int {
	fs := flag.NewFlagSet("ic", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	language := fs.String("lang", "", "language whose expected IC band to validate against (default from config)")
	file := fs.String("file", "", "read the text from a file (\"-\" for stdin)")
	asJSON := fs.Bool("json", false, "emit the validation as JSON")
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
	lang := *language
	if lang == "" {
		lang = cfg.Language
	}

	normalized := textstat.Normalize(text)
	observed := textstat.IndexOfCoincidence(text)
	validation := textstat.ValidateIC(observed, len(normalized), lang, cfg.ICOptions())

	if *asJSON {
		return encodeJSON(validation)
	}

	band := textstat.ExpectedRange(len(normalized), lang, cfg.ICOptions())
	fmt.Printf("letters: %d\n", len(normalized))
	fmt.Printf("observed ic: %.4f\n", observed)
	fmt.Printf("expected ic: %.4f (%s), band [%.4f, %.4f]\n", validation.ExpectedIC, lang, band.Min, band.Max)
	fmt.Printf("difference: %.4f  z-score: %.2f\n", validation.Difference, validation.ZScore)
	if validation.Valid {
		fmt.Println("verdict: inside the expected band")
	} else {
		fmt.Println("verdict: outside the expected band")
	}
	return 0
}
