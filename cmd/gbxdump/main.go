/*

gbxdump is a CLI to parse and display information about a TrackMania GBX
file (challenge, replay, or ghost) passed as a CLI argument.

*/
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gbxkit/gbx"
	"github.com/gbxkit/gbx/gbxparser"
)

const (
	appName    = "gbxdump"
	appVersion = gbxparser.Version
)

var (
	outFile             string
	indent              bool
	parseEmbeddedTracks bool
	maxRecursionDepth   int
	showDiagnostics     bool
)

func main() {
	root := &cobra.Command{
		Use:           appName + " [flags] file.Gbx",
		Short:         "Parse and dump a TrackMania GBX file as JSON",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVarP(&outFile, "outfile", "o", "", "optional output file name (default: stdout)")
	root.Flags().BoolVar(&indent, "indent", true, "use indentation when formatting output")
	root.Flags().BoolVar(&parseEmbeddedTracks, "embedded-track", true, "recursively parse a replay's embedded track")
	root.Flags().IntVar(&maxRecursionDepth, "max-depth", 0, "node reference recursion limit (0: parser default)")
	root.Flags().BoolVar(&showDiagnostics, "diagnostics", true, "include recoverable parse diagnostics in the output")
	root.Version = appVersion

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gbxdump:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := gbxparser.Config{
		MaxRecursionDepth:   maxRecursionDepth,
		ParseEmbeddedTracks: parseEmbeddedTracks,
	}

	result, err := gbxparser.ParseFileConfig(args[0], cfg)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(dumpOf(result))
}

// dump is the JSON-friendly projection of a parsed Gbx tree: the root class,
// every reachable entity, and (optionally) the diagnostics trail.
type dump struct {
	ClassID     string        `json:"classId"`
	ClassName   string        `json:"className"`
	Entities    []gbx.Entity  `json:"entities"`
	Diagnostics []gbx.Diagnostic `json:"diagnostics,omitempty"`
}

func dumpOf(g *gbx.Gbx) dump {
	d := dump{
		ClassID:   fmt.Sprintf("0x%08X", g.ClassID.ID),
		ClassName: g.ClassID.Name,
	}

	for _, e := range g.RootEntities {
		d.Entities = append(d.Entities, e)
	}
	for _, e := range g.Body {
		d.Entities = append(d.Entities, e)
	}

	if showDiagnostics {
		d.Diagnostics = g.Diagnostics
	}
	return d
}
