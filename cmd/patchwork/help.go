// ABOUTME: Help display for the patchwork CLI with usage patterns, flags, and examples.
// ABOUTME: Provides printHelp for formatted usage output on the given writer.
package main

import (
	"fmt"
	"io"
)

// printHelp writes a formatted help message to w, including usage patterns,
// flags, and examples.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "patchwork %s - declarative workflow graph patcher\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  patchwork -c wrapper.yml <inputs.json>       Generate a patched workflow")
	fmt.Fprintln(w, "  patchwork -c wrapper.yml -validate           Check the mapping against the base workflow")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c <file>       Mapping config YAML (required)")
	fmt.Fprintln(w, "  -b <file>       Base workflow JSON (default: workflow_file from config)")
	fmt.Fprintln(w, "  -o <dir>        Output directory (default: outputs/workflows)")
	fmt.Fprintln(w, "  -index <file>   Record generated artifacts in a SQLite index")
	fmt.Fprintln(w, "  -validate       Validate only, generate nothing")
	fmt.Fprintln(w, "  -verbose        Print each generated action")
	fmt.Fprintln(w, "  -version        Print version and exit")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  patchwork -c IMG_to_VIDEO.webui.yml inputs.json")
	fmt.Fprintln(w, "  patchwork -c wrapper.yml -b base_47e91030.json -o out/ -verbose inputs.json")
	fmt.Fprintln(w, "  patchwork -c wrapper.yml -index artifacts.db inputs.json")
}
