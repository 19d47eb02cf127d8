package main

import (
	"flag"
	"fmt"
	"os"
)

const productName = "nigma"
const cliBanner = productName + " CLI (nigmactl)"

func init() {
	defaultUsage := flag.Usage
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), cliBanner)
		fmt.Fprintln(flag.CommandLine.Output())
		if defaultUsage != nil {
			defaultUsage()
		}
	}
}

func main() {
	flag.Parse()
	if maybePrintVersion() {
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "analyze":
		os.Exit(runAnalyze(args[1:]))
	case "language":
		os.Exit(runLanguage(args[1:]))
	case "transposition":
		os.Exit(runTransposition(args[1:]))
	case "ic":
		os.Exit(runIC(args[1:]))
	case "kasiski":
		os.Exit(runKasiski(args[1:]))
	case "segment":
		os.Exit(runSegment(args[1:]))
	case "words":
		os.Exit(runWords(args[1:]))
	case "scan":
		os.Exit(runScan(args[1:]))
	case "train":
		os.Exit(runTrain(args[1:]))
	case "packs":
		os.Exit(runPacks(args[1:]))
	case "serve":
		os.Exit(runServe(args[1:]))
	case "self-update":
		os.Exit(runSelfUpdate(args[1:]))
	case "version":
		os.Exit(runVersion(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
}
