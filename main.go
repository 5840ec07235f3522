package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/chazu/vumesh/pkg/mesh"
	"github.com/chazu/vumesh/pkg/store"
)

func main() {
	dbDir := flag.String("db", "", "snapshot store directory (in-memory when empty)")
	save := flag.String("save", "", "store the evaluated graph under this name")
	load := flag.String("load", "", "load a stored graph instead of evaluating a recipe")
	list := flag.Bool("list", false, "list stored snapshots and exit")
	validate := flag.Bool("validate", false, "check graph invariants after every stage")
	verbose := flag.Bool("v", false, "log pipeline stages to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] recipe.lisp\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		mesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	st, err := store.Open(*dbDir)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	app := NewApp(st, mesh.WithValidation(*validate))

	if *list {
		names, err := app.Snapshots()
		if err != nil {
			log.Fatal(err)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	var result EvalResult
	switch {
	case *load != "":
		result = app.Load(*load)
	case flag.NArg() == 1:
		source, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		result = app.Evaluate(string(source))
	default:
		flag.Usage()
		os.Exit(2)
	}

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Fprintf(os.Stderr, "line %d: %s\n", e.Line, e.Message)
			} else {
				fmt.Fprintln(os.Stderr, e.Message)
			}
		}
		os.Exit(1)
	}

	if *save != "" {
		if err := app.Save(*save); err != nil {
			log.Fatal(err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal(err)
	}
}
