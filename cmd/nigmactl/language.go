package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/langid"
)

func runLanguage(args []string) int {
	fs := flag.NewFlagSet("language", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	file := fs.String("file", "", "read the text from a file (\"-\" for stdin)")
	asJSON := fs.Bool("json", false, "emit the candidates as JSON")
	margin := fs.Float64("margin", langid.DefaultAmbiguityMargin, "score margin under which the top two candidates are reported as ambiguous")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	text, err := readInput(*file, fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	detector, err := langid.NewBuiltinDetector()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load language packs: %v\n", err)
		return 1
	}
	candidates := detector.Detect(text)
	if len(candidates) == 0 {
		fmt.Fprintln(os.Stderr, "no letters to identify a language from")
		return 1
	}

	if *asJSON {
		return encodeJSON(candidates)
	}

	for _, c := range candidates {
		fmt.Printf("%-12s %10.2f", c.Language, c.Score)
		if c.Rotation != 0 {
			fmt.Printf("  (rotation %d)", c.Rotation)
		}
		fmt.Println()
	}
	if langid.Ambiguous(candidates, *margin) {
		fmt.Printf("\nnote: %s and %s are too close to call (margin < %.1f)\n",
			candidates[0].Language, candidates[1].Language, *margin)
	}
	return 0
}
