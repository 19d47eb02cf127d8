package main

import (
	"flag"
	"fmt"
	"os"
)

var version = "dev"

var showVersion = flag.Bool("version", false, "Print nigmactl version and exit")

// maybePrintVersion writes the embedded version string to stdout when the
// global --version flag is provided. It returns true when the flag was
// handled so that main can exit early without dispatching a subcommand.
func maybePrintVersion() bool {
	if !*showVersion {
		return false
	}
	fmt.Println(version)
	return true
}

func runVersion(args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "version takes no arguments")
		return 2
	}
	fmt.Println(version)
	return 0
}
