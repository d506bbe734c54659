package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hartkit/rvhart/insn"
	"github.com/hartkit/rvhart/priv"
)

type catalogEntry struct {
	Name     string     `json:"name"`
	Mnemonic string     `json:"mnemonic"`
	Group    priv.Group `json:"group"`
	Safe     bool       `json:"safe"`
	Word     HexU32     `json:"word"`
	NoMem    bool       `json:"nomem"`
	ReadOnly bool       `json:"readonly"`
}

func catalogEntries() []catalogEntry {
	var out []catalogEntry
	for _, e := range priv.Catalog() {
		out = append(out, catalogEntry{
			Name:     e.Name,
			Mnemonic: e.Mnemonic,
			Group:    e.Group,
			Safe:     e.Safe,
			Word:     HexU32(e.Template.Word),
			NoMem:    e.Template.Opts.Has(insn.NoMem),
			ReadOnly: e.Template.Opts.Has(insn.ReadOnly),
		})
	}
	return out
}

func runCatalog(ctx *cli.Context) error {
	entries := catalogEntries()

	if ctx.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	group := priv.Group("")
	for _, e := range entries {
		if e.Group != group {
			group = e.Group
			fmt.Printf("%s:\n", group)
		}
		safety := "unsafe"
		if e.Safe {
			safety = "safe"
		}
		fmt.Printf("  %-16s %s  %-24s %s\n", e.Name, e.Word, e.Mnemonic, safety)
	}
	return nil
}

var CatalogCommand = &cli.Command{
	Name:        "catalog",
	Usage:       "Print the instruction catalogue with its exact encodings.",
	Description: "Print every primitive of the catalogue: Go name, template instruction word, assembly mnemonic and safety classification.",
	Action:      runCatalog,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Emit the catalogue as JSON",
		},
	},
}
