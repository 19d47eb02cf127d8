package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/classify"
)

func runTransposition(args []string) int {
	fs := flag.NewFlagSet("transposition", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	language := fs.String("lang", "auto", "reference language pack, or \"auto\" to identify one")
	file := fs.String("file", "", "read the text from a file (\"-\" for stdin)")
	compare := fs.String("compare", "", "second text to compare against the first")
	asJSON := fs.Bool("json", false, "emit the analysis as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	text, err := readInput(*file, fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	classifier, err := classify.NewClassifier()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load language packs: %v\n", err)
		return 1
	}

	if *compare != "" {
		comparison := classifier.CompareTransposition(text, *compare, *language)
		if *asJSON {
			return encodeJSON(comparison)
		}
		printTransposition("text1", comparison.Text1Analysis)
		printTransposition("text2", comparison.Text2Analysis)
		fmt.Printf("score difference: %.3f\n", comparison.Comparison.ScoreDifference)
		fmt.Printf("%s\n", comparison.Comparison.Interpretation)
		fmt.Printf("recommendation: %s\n", comparison.Recommendation)
		return 0
	}

	analysis := classifier.AnalyzeTransposition(text, *language)
	if *asJSON {
		return encodeJSON(analysis)
	}
	printTransposition("", analysis)
	return 0
}

func printTransposition(label string, a classify.TranspositionAnalysis) {
	if label != "" {
		fmt.Printf("[%s]\n", label)
	}
	if a.Language != "" {
		fmt.Printf("language: %s\n", a.Language)
	}
	fmt.Printf("transposition score: %.3f\n", a.TranspositionScore)
	if a.ChiSquaredLetters != nil {
		fmt.Printf("letter chi-squared:  %.2f\n", *a.ChiSquaredLetters)
	}
	if a.NGramScoreCipher != nil {
		fmt.Printf("n-gram naturalness:  %.3f\n", *a.NGramScoreCipher)
	}
	fmt.Printf("recommendation: %s\n\n", a.Recommendation)
}

func encodeJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		return 1
	}
	return 0
}
