// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the documentation conversion: walk the Markdown tree,
// fix up each document and hand it to a Converter that writes the
// reStructuredText output.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/mdrst/internal/fixup"
	"github.com/pdiddy/mdrst/internal/walk"
	"github.com/pdiddy/mdrst/pkg/types"
)

// Formats names the pandoc source and target formats.
type Formats struct {
	From string
	To   string
}

// Converter turns source text into the target format and writes it to
// outputPath. Backends are pandoc on the host or pandoc in a container.
type Converter interface {
	ConvertText(ctx context.Context, text string, formats Formats, outputPath string) error
}

// BatchResult holds the outcome of a conversion run.
type BatchResult struct {
	Converted   int
	Excluded    int
	MissingDirs int
	EmptyDirs   int
}

// Runner converts every document selected by a ConversionConfig.
type Runner struct {
	cfg   types.ConversionConfig
	fixer *fixup.Transformer
	conv  Converter
	w     io.Writer
}

// NewRunner returns a Runner that reports progress to w.
func NewRunner(cfg types.ConversionConfig, conv Converter, w io.Writer) *Runner {
	return &Runner{
		cfg:   cfg,
		fixer: fixup.New(cfg.SnippetBaseURL),
		conv:  conv,
		w:     w,
	}
}

// Run walks the configured subdirectories and converts each document. The
// first error (unreadable file, banner mismatch, converter failure) stops
// the run; outputs already written are left in place.
func (r *Runner) Run(ctx context.Context) (BatchResult, error) {
	opts := walk.Options{
		InputDir:  r.cfg.InputDir,
		OutputDir: r.cfg.OutputDir,
		Subdirs:   r.cfg.Subdirs,
		Extension: r.cfg.SourceExt,
		Skip:      r.cfg.Skip,
	}
	stats, err := walk.Walk(opts, r.w, func(doc walk.Document) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return r.ConvertDocument(ctx, doc)
	})
	result := BatchResult{
		Converted:   stats.Visited,
		Excluded:    stats.Excluded,
		MissingDirs: stats.MissingDirs,
		EmptyDirs:   stats.EmptyDirs,
	}
	if err != nil {
		return result, err
	}
	fmt.Fprintf(r.w, "\nConversion summary: %d converted, %d excluded, %d missing directories, %d empty directories\n",
		result.Converted, result.Excluded, result.MissingDirs, result.EmptyDirs)
	return result, nil
}

// ConvertDocument reads doc, fixes it up and writes the converted output.
func (r *Runner) ConvertDocument(ctx context.Context, doc walk.Document) error {
	inPath := doc.InputPath(r.cfg.SourceExt)
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	content, err := r.fixer.Fixup(doc.Subdir, doc.BaseName, string(data))
	if err != nil {
		return fmt.Errorf("fixing up %s: %w", inPath, err)
	}

	outPath := doc.OutputPath(r.cfg.TargetExt)
	formats := Formats{From: r.cfg.SourceFormat, To: r.cfg.TargetFormat}
	if err := r.conv.ConvertText(ctx, content, formats, outPath); err != nil {
		return fmt.Errorf("converting %s: %w", inPath, err)
	}

	fmt.Fprintf(r.w, "converted: %s -> %s\n", doc.Name(), outPath)
	return nil
}

// Fixup applies the content fixups to one file without converting it. The
// document location is taken from subdir and the file's base name.
func Fixup(cfg types.ConversionConfig, subdir, baseName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return fixup.New(cfg.SnippetBaseURL).Fixup(subdir, baseName, string(data))
}
