package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/config"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/dictionary"
)

func runSegment(args []string) int {
	fs := flag.NewFlagSet("segment", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	language := fs.String("lang", "", "language whose word list to segment with (default from config)")
	wordlist := fs.String("wordlist", "", "path to a word list file (one word per line, overrides --lang)")
	file := fs.String("file", "", "read the text from a file (\"-\" for stdin)")
	minWord := fs.Int("min-word", 0, "minimum dictionary word length considered")
	maxWord := fs.Int("max-word", 0, "maximum dictionary word length considered")
	strict := fs.Bool("strict", false, "fail instead of emitting unmatched letters when no full parse exists")
	withConfidence := fs.Bool("confidence", false, "report segmentation confidence metrics")
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

	opts := dictionary.DefaultSegmentOptions()
	if *minWord > 0 {
		opts.MinWordLength = *minWord
	}
	if *maxWord > 0 {
		opts.MaxWordLength = *maxWord
	}
	opts.PreserveUnknown = !*strict
	segmenter := dictionary.NewSegmenterOptions(dict, opts)

	if *withConfidence {
		result := segmenter.SegmentWithConfidence(text)
		fmt.Println(result.Text)
		fmt.Printf("confidence: %.3f  words: %d  valid: %d  word coverage: %.0f%%  char coverage: %.0f%%\n",
			result.Confidence, result.WordCount, result.ValidWords,
			result.WordCoverage*100, result.CharCoverage*100)
		return 0
	}

	segmented := segmenter.Segment(text)
	if segmented == "" {
		fmt.Fprintln(os.Stderr, "no dictionary parse found")
		return 1
	}
	fmt.Println(segmented)
	return 0
}
