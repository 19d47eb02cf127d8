package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/langpack"
)

func runPacks(args []string) int {
	fs := flag.NewFlagSet("packs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	manager, err := langpack.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "open pack directory: %v\n", err)
		return 1
	}

	if fs.NArg() > 0 {
		switch fs.Arg(0) {
		case "import":
			if fs.NArg() != 2 {
				fmt.Fprintln(os.Stderr, "packs import requires a pack file argument")
				return 2
			}
			if err := manager.Import(fs.Arg(1)); err != nil {
				fmt.Fprintf(os.Stderr, "import pack: %v\n", err)
				return 1
			}
			return 0
		case "export":
			if fs.NArg() != 3 {
				fmt.Fprintln(os.Stderr, "packs export requires a pack name and an output path")
				return 2
			}
			if err := manager.Export(fs.Arg(1), fs.Arg(2)); err != nil {
				fmt.Fprintf(os.Stderr, "export pack: %v\n", err)
				return 1
			}
			return 0
		case "delete":
			if fs.NArg() != 2 {
				fmt.Fprintln(os.Stderr, "packs delete requires a pack name")
				return 2
			}
			if err := manager.Delete(fs.Arg(1)); err != nil {
				fmt.Fprintf(os.Stderr, "delete pack: %v\n", err)
				return 1
			}
			return 0
		default:
			fmt.Fprintf(os.Stderr, "unknown packs subcommand: %s\n", fs.Arg(0))
			return 2
		}
	}

	packs, err := manager.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list packs: %v\n", err)
		return 1
	}
	fmt.Println("name          script     source   words")
	for _, pack := range packs {
		source := "builtin"
		if pack.IsCustom {
			source = "custom"
		}
		fmt.Printf("%-13s %-10s %-8s %5d\n", pack.Name, pack.Script, source, len(pack.Words))
	}
	return 0
}
