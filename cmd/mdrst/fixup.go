// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mdrst/internal/convert"
)

var fixupCmd = &cobra.Command{
	Use:   "fixup <file.md>",
	Short: "Print the cleaned Markdown for one file without converting it",
	Long: `Fixup applies the same banner, table-of-contents, footer, snippet and
code-fence rewrites as convert to a single file and prints the result. Use
it to inspect what pandoc will receive. Pass --subdir when the file lives in
a subdirectory of the docs root so the expected banner matches; use "-" to
read from stdin together with --name.`,
	Args: cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlag(cmd.Flags(), "conversion.snippet_base_url", "snippet-base-url")
	},
	RunE: runFixup,
}

func runFixup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	subdir, _ := cmd.Flags().GetString("subdir")
	name, _ := cmd.Flags().GetString("name")

	var r io.Reader
	if args[0] == "-" {
		if name == "" {
			return fmt.Errorf("--name is required when reading from stdin")
		}
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
		if name == "" {
			base := filepath.Base(args[0])
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}

	out, err := convert.Fixup(cfg.Conversion, subdir, name, r)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func init() {
	fixupCmd.Flags().String("subdir", "", "subdirectory of the docs root the file belongs to")
	fixupCmd.Flags().String("name", "", "base name used for the banner (default: file name without extension)")
	fixupCmd.Flags().String("snippet-base-url", "", "URL prefix for snippet source links")

	rootCmd.AddCommand(fixupCmd)
}
