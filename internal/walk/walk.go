// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package walk enumerates the Markdown documents to convert. Each configured
// subdirectory of the input tree is scanned (non-recursively) for files with
// the source extension, and the mirrored output subdirectory is created on
// demand.
package walk

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Document identifies one source file by subdirectory and base name.
type Document struct {
	Subdir    string
	BaseName  string
	InputDir  string
	OutputDir string
}

// InputPath returns the path of the source file with extension ext.
func (d Document) InputPath(ext string) string {
	return filepath.Join(d.InputDir, d.BaseName+ext)
}

// OutputPath returns the path of the converted file with extension ext.
func (d Document) OutputPath(ext string) string {
	return filepath.Join(d.OutputDir, d.BaseName+ext)
}

// Name returns "subdir/base", or just the base name for the root.
func (d Document) Name() string {
	if d.Subdir == "" {
		return d.BaseName
	}
	return d.Subdir + "/" + d.BaseName
}

// Options configures a walk.
type Options struct {
	// InputDir and OutputDir are the roots mirrored by each subdirectory.
	InputDir  string
	OutputDir string

	// Subdirs lists subdirectories in processing order; "" is the root.
	Subdirs []string

	// Extension is the source file extension including the dot (".md").
	Extension string

	// Skip holds base names that are never visited.
	Skip []string
}

// Stats counts what a walk visited.
type Stats struct {
	Visited     int
	Excluded    int
	MissingDirs int
	EmptyDirs   int
}

// VisitFunc handles one document. A non-nil error stops the walk.
type VisitFunc func(doc Document) error

// Walk visits every document under opts in subdirectory order. Missing
// subdirectories are reported to w and skipped; subdirectories without
// matching files are skipped silently and get no output directory. Errors
// from creating output directories or from visit are returned as-is after
// wrapping, ending the walk.
func Walk(opts Options, w io.Writer, visit VisitFunc) (Stats, error) {
	var stats Stats
	skip := make(map[string]bool, len(opts.Skip))
	for _, name := range opts.Skip {
		skip[name] = true
	}

	for _, subdir := range opts.Subdirs {
		fmt.Fprintf(w, ">>>> %s\n", subdir)
		inDir := filepath.Join(opts.InputDir, subdir)
		outDir := filepath.Join(opts.OutputDir, subdir)

		if info, err := os.Stat(inDir); err != nil || !info.IsDir() {
			fmt.Fprintf(w, "Directory %s does not exist. Skipping\n", inDir)
			stats.MissingDirs++
			continue
		}

		files, err := listFiles(inDir, opts.Extension)
		if err != nil {
			return stats, err
		}
		if len(files) == 0 {
			stats.EmptyDirs++
			continue
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return stats, fmt.Errorf("creating %s: %w", outDir, err)
		}

		for _, file := range files {
			base := strings.TrimSuffix(file, filepath.Ext(file))
			if skip[base] {
				stats.Excluded++
				continue
			}
			fmt.Fprintln(w, base, inDir, outDir)
			doc := Document{Subdir: subdir, BaseName: base, InputDir: inDir, OutputDir: outDir}
			if err := visit(doc); err != nil {
				return stats, err
			}
			stats.Visited++
		}
	}
	return stats, nil
}

// listFiles returns the names of files directly in dir matching "*"+ext,
// in lexical order. Symlinks count when their target is a regular file;
// dotfiles are ignored.
func listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	pattern := "*" + ext
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !isRegular(dir, entry) {
			continue
		}
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("matching %s in %s: %w", pattern, dir, err)
		}
		if ok {
			files = append(files, name)
		}
	}
	return files, nil
}

func isRegular(dir string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
