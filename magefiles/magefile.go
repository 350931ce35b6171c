//go:build mage

// Package main contains Mage build targets for mdrst developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "mdrst"
	cmdPkg  = "./cmd/mdrst"
)

var binPath = filepath.Join(binDir, binName)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	if err := sh.RunV("go", "build", "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Provision makes sure a pandoc binary is available, downloading one into
// the cache directory if needed.
func Provision() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "provision")
}

// Docs converts the Markdown user guide to reStructuredText. Run it from
// the Sphinx directory or point MDRST_CONVERSION_INPUT_DIR at the docs root.
func Docs() error {
	mg.SerialDeps(Build, Provision)
	return sh.RunV(binPath, "convert")
}

// Clean removes build output and generated docs.
func Clean() error {
	for _, dir := range []string{binDir, "generated_docs"} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
