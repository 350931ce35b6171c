// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mdrst/internal/container"
	"github.com/pdiddy/mdrst/internal/convert"
	"github.com/pdiddy/mdrst/internal/pandoc"
	"github.com/pdiddy/mdrst/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the Markdown docs tree to reStructuredText",
	Long: `Convert scans each configured subdirectory of the input tree for Markdown
files, removes generated-file banners, tables of contents, navigation footers
and snippet anchors, and writes one .rst file per page under the output tree.

The run stops at the first error. A page whose generated-file banner does not
match its location is an error: regenerate the Markdown before converting.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindConversionFlags(cmd)
		bindPandocFlags(cmd)
	},
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	conv, err := newConverter(ctx, cfg)
	if err != nil {
		return err
	}

	_, err = convert.NewRunner(cfg.Conversion, conv, cmd.OutOrStdout()).Run(ctx)
	return err
}

// newConverter provisions the configured backend. Provisioning failures end
// the run before any document is read.
func newConverter(ctx context.Context, cfg types.PipelineConfig) (convert.Converter, error) {
	switch cfg.Conversion.Backend {
	case types.BackendContainer:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		conv, err := convert.NewContainerConverter(ctx, rt, cfg.Pandoc.Image)
		if err != nil {
			return nil, err
		}
		return conv, nil
	case types.BackendPandoc:
		bin, err := pandoc.NewProvisioner(cfg.Pandoc, os.Stderr).Ensure(ctx)
		if err != nil {
			return nil, fmt.Errorf("provisioning pandoc: %w", err)
		}
		return convert.NewPandocConverter(bin), nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", cfg.Conversion.Backend)
	}
}

func bindConversionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	bindFlag(flags, "conversion.backend", "backend")
	bindFlag(flags, "conversion.input_dir", "input-dir")
	bindFlag(flags, "conversion.output_dir", "output-dir")
	bindFlag(flags, "conversion.subdirs", "subdirs")
	bindFlag(flags, "conversion.skip", "skip")
	bindFlag(flags, "conversion.snippet_base_url", "snippet-base-url")
}

func bindPandocFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	bindFlag(flags, "pandoc.binary", "pandoc")
	bindFlag(flags, "pandoc.version", "pandoc-version")
	bindFlag(flags, "pandoc.cache_dir", "cache-dir")
	bindFlag(flags, "pandoc.image", "image")
}

// addPandocFlags registers the flags shared by convert and provision.
func addPandocFlags(cmd *cobra.Command) {
	d := types.DefaultConfig().Pandoc
	cmd.Flags().String("pandoc", "", "pandoc binary path or command name on PATH (skips download)")
	cmd.Flags().String("pandoc-version", d.Version, "pandoc release to download when none is installed")
	cmd.Flags().String("cache-dir", d.CacheDir, "directory receiving downloaded pandoc releases")
	cmd.Flags().String("image", d.Image, "container image for the container backend")
}

func init() {
	d := types.DefaultConfig().Conversion
	convertCmd.Flags().String("backend", string(d.Backend), "conversion backend: pandoc or container")
	convertCmd.Flags().String("input-dir", d.InputDir, "documentation root holding the Markdown sources")
	convertCmd.Flags().String("output-dir", d.OutputDir, "directory the .rst tree is written under")
	convertCmd.Flags().StringSlice("subdirs", d.Subdirs, "subdirectories to scan, in order (empty entry = root)")
	convertCmd.Flags().StringSlice("skip", d.Skip, "base names never converted")
	convertCmd.Flags().String("snippet-base-url", d.SnippetBaseURL, "URL prefix for snippet source links")
	addPandocFlags(convertCmd)

	rootCmd.AddCommand(convertCmd)
}
