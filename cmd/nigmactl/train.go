package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/corpus"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/langpack"
)

func runTrain(args []string) int {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "name of the pack to build (required)")
	script := fs.String("script", "", "letter repertoire: latin (default), cyrillic, or han")
	out := fs.String("out", "", "write the pack YAML to this path instead of the custom pack directory")
	minWord := fs.Int("min-word", 0, "minimum word length kept in the seed list")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "train requires --name")
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "train requires exactly one corpus directory argument")
		return 2
	}

	pack, err := corpus.Train(fs.Arg(0), corpus.TrainOptions{
		Name:          *name,
		Script:        *script,
		MinWordLength: *minWord,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "train pack: %v\n", err)
		return 1
	}

	if *out != "" {
		if err := langpack.WriteFile(pack, *out); err != nil {
			fmt.Fprintf(os.Stderr, "write pack: %v\n", err)
			return 1
		}
		fmt.Printf("wrote pack %q (%d letters observed) to %s\n", pack.Name, len(pack.Letters), *out)
		return 0
	}

	manager, err := langpack.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "open pack directory: %v\n", err)
		return 1
	}
	if err := manager.Save(pack); err != nil {
		fmt.Fprintf(os.Stderr, "save pack: %v\n", err)
		return 1
	}
	fmt.Printf("saved pack %q (%d letters observed)\n", pack.Name, len(pack.Letters))
	return 0
}
