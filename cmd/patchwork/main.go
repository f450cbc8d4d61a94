// ABOUTME: CLI entrypoint for the patchwork workflow generator with generate and validate modes.
// ABOUTME: Wires together the mapping loader, input flattener, action interpreter, exporter, and artifact index.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389-research/patchwork/graph"
	"github.com/2389-research/patchwork/mapping"
	"github.com/2389-research/patchwork/patch"
	"github.com/2389-research/patchwork/store"
)

var version = "dev"

// config holds all CLI configuration parsed from flags and positional arguments.
type config struct {
	configFile   string
	baseWorkflow string
	outputDir    string
	indexPath    string
	validateOnly bool
	verbose      bool
	showVersion  bool
	inputsFile   string
}

func main() {
	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("patchwork %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("patchwork", flag.ContinueOnError)
	fs.StringVar(&cfg.configFile, "c", "", "Mapping config YAML file (required)")
	fs.StringVar(&cfg.baseWorkflow, "b", "", "Base workflow JSON (default: workflow_file from config)")
	fs.StringVar(&cfg.outputDir, "o", "outputs/workflows", "Output directory for generated workflows")
	fs.StringVar(&cfg.indexPath, "index", "", "SQLite artifact index path (optional)")
	fs.BoolVar(&cfg.validateOnly, "validate", false, "Check config against the base workflow without generating")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Print each action and diagnostic")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if fs.NArg() > 0 {
		cfg.inputsFile = fs.Arg(0)
	}

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	if cfg.configFile == "" {
		printHelp(os.Stderr, version)
		return 0
	}

	mapcfg, err := mapping.LoadFile(cfg.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	basePath := cfg.baseWorkflow
	if basePath == "" {
		basePath = mapcfg.WorkflowFile
	}
	if basePath == "" {
		fmt.Fprintln(os.Stderr, "error: no base workflow: pass -b or set workflow_file in the config")
		return 1
	}

	doc, err := graph.ParseFile(basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.validateOnly {
		return validateConfig(mapcfg, doc)
	}

	if cfg.inputsFile == "" {
		fmt.Fprintln(os.Stderr, "error: no inputs file given")
		return 1
	}

	return generate(cfg, mapcfg, doc)
}

// validateConfig checks the mapping against the base workflow and reports findings.
func validateConfig(mapcfg *mapping.Config, doc *graph.Document) int {
	findings := mapcfg.Check(doc)
	if len(findings) == 0 {
		fmt.Printf("✓ config ok: %d parameter(s) resolve against %d node(s)\n",
			len(mapcfg.Parameters), len(doc.Nodes))
		return 0
	}

	for _, f := range findings {
		fmt.Fprintf(os.Stderr, "warning [%s]: %s\n", f.Rule, f.Message)
		if f.Fix != "" {
			fmt.Fprintf(os.Stderr, "  fix: %s\n", f.Fix)
		}
	}
	fmt.Fprintf(os.Stderr, "%d finding(s)\n", len(findings))
	return 1
}

// generate runs the full interpretation pipeline: flatten, generate, apply,
// export, and optionally record the artifact in the index.
func generate(cfg config, mapcfg *mapping.Config, doc *graph.Document) int {
	nested, err := patch.DecodeInputsFile(cfg.inputsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	flat, err := patch.Flatten(nested, mapcfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	actions, genDiags := patch.Generate(flat, mapcfg)
	result, applyDiags := patch.Apply(doc, actions)
	diags := append(genDiags, applyDiags...)

	if cfg.verbose {
		for _, a := range actions {
			fmt.Fprintf(os.Stderr, "action: %s\n", a.Describe())
		}
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s\n", d)
	}

	baseName := mapcfg.Name
	if baseName == "" {
		baseName = strings.TrimSuffix(filepath.Base(cfg.inputsFile), filepath.Ext(cfg.inputsFile))
	}

	path, hash, err := graph.Export(result, cfg.outputDir, baseName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("✓ %d action(s), %d diagnostic(s)\n", len(actions), len(diags))
	fmt.Printf("✓ workflow %s written to %s\n", hash, path)

	if cfg.indexPath != "" {
		if err := recordArtifact(cfg, mapcfg, hash, path, len(actions), len(diags)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record artifact: %v\n", err)
		}
	}

	return 0
}

// recordArtifact stores the generated workflow in the artifact index,
// noting when an identical artifact already existed.
func recordArtifact(cfg config, mapcfg *mapping.Config, hash, path string, actionCount, warnings int) error {
	ix, err := store.Open(cfg.indexPath)
	if err != nil {
		return err
	}
	defer ix.Close()

	if prior, err := ix.FindByHash(hash); err == nil && prior != nil {
		fmt.Printf("  (identical workflow previously generated: %s)\n", prior.Path)
	}

	_, err = ix.Record(&store.Artifact{
		ConfigName:  mapcfg.Name,
		BaseHash:    mapcfg.BaseHash,
		Hash:        hash,
		Path:        path,
		ActionCount: actionCount,
		Warnings:    warnings,
	})
	return err
}
