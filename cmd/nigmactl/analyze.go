package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/classify"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/report"
)

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	language := fs.String("lang", "auto", "reference language pack, or \"auto\" to identify one")
	file := fs.String("file", "", "read the text from a file (\"-\" for stdin)")
	asJSON := fs.Bool("json", false, "emit the full result as JSON")
	jsonl := fs.String("jsonl", "", "append a report record to this JSONL file")
	subject := fs.String("subject", "", "subject label stored in the report record (defaults to the file name or \"text\")")
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
	result := classifier.Identify(text, *language)

	if *asJSON {
		if code := encodeJSON(result); code != 0 {
			return code
		}
	} else {
		printAnalysis(result)
	}

	if *jsonl != "" {
		label := *subject
		if label == "" {
			if *file != "" && *file != "-" {
				label = *file
			} else {
				label = "text"
			}
		}
		if err := appendAnalysisRecord(*jsonl, label, result); err != nil {
			fmt.Fprintf(os.Stderr, "write report: %v\n", err)
			return 1
		}
	}
	return 0
}

func printAnalysis(result classify.Result) {
	if result.Language != "" {
		fmt.Printf("language: %s\n", result.Language)
	}
	fmt.Printf("letters: %d  ic: %.3f\n\n", result.Stats.Length, result.Stats.IC)
	for _, candidate := range result.Families {
		fmt.Printf("%-28s %5.2f", string(candidate.Family), candidate.Confidence)
		if candidate.SuggestedKeyLength > 0 {
			fmt.Printf("  key length ~%d", candidate.SuggestedKeyLength)
		}
		fmt.Println()
		fmt.Printf("  %s\n", candidate.Reason)
	}
}

func appendAnalysisRecord(path, subject string, result classify.Result) error {
	best := result.Best()
	record := report.New("nigmactl", "classification", best.Reason, best.Confidence)
	record.Subject = subject
	record.Language = result.Language
	record.Family = string(best.Family)
	record.Metadata = map[string]string{
		"letters": fmt.Sprintf("%d", result.Stats.Length),
		"ic":      fmt.Sprintf("%.3f", result.Stats.IC),
	}

	writer := report.NewWriter(path)
	if err := writer.Write(record); err != nil {
		return err
	}
	return writer.Close()
}
