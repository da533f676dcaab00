// Package main provides a generator that extracts CLI and lint rule
// metadata from ttcnlint and generates markdown documentation.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=lint -outdir=docs/rules
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, lint, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// generators maps a -gen value to its generator and default directory
// below docs/.
var generators = map[string]struct {
	dir string
	run func(outDir string) error
}{
	"cli":  {dir: "cli", run: generateCLIDocs},
	"lint": {dir: "rules", run: generateLintDocs},
}

func main() {
	flag.Parse()

	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	if err := run(*genFlag, *outDirFlag, projectRoot); err != nil {
		log.Fatal(err)
	}
	log.Println("Done!")
}

func run(gen, outDir, projectRoot string) error {
	names := []string{gen}
	if gen == "all" {
		if outDir != "" {
			return fmt.Errorf("-outdir cannot be combined with -gen=all")
		}
		names = []string{"cli", "lint"}
	}

	for _, name := range names {
		g, ok := generators[name]
		if !ok {
			return fmt.Errorf("unknown -gen value: %s (use: cli, lint, all)", name)
		}
		dir := outDir
		if dir == "" {
			dir = filepath.Join(projectRoot, "docs", g.dir)
		}
		if err := g.run(dir); err != nil {
			return fmt.Errorf("failed to generate %s docs: %w", name, err)
		}
	}
	return nil
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
