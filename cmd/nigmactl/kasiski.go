package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

func runKasiski(args []string) int {
	fs := flag.NewFlagSet("kasiski", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	file := fs.String("file", "", "read the text from a file (\"-\" for stdin)")
	asJSON := fs.Bool("json", false, "emit the estimates as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	text, err := readInput(*file, fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	estimates := textstat.SuggestKeyLengths(text)
	if *asJSON {
		return encodeJSON(estimates)
	}
	if len(estimates) == 0 {
		fmt.Println("no repeated sequences long enough for a key-length estimate")
		return 0
	}
	fmt.Println("key length  support  ratio")
	for _, e := range estimates {
		fmt.Printf("%10d  %7d  %.2f\n", e.Length, e.Support, e.Ratio)
	}
	return 0
}
