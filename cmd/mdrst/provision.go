// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mdrst/internal/pandoc"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Locate pandoc, downloading a release when it is not installed",
	Long: `Provision runs the pandoc lookup convert performs: the --pandoc path,
then PATH, then the cache directory. When nothing is found the configured
release is downloaded from GitHub into the cache directory. The resolved
binary path is printed on stdout.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindPandocFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p := pandoc.NewProvisioner(cfg.Pandoc, os.Stderr)

		check, _ := cmd.Flags().GetBool("check")
		if check {
			bin, ok := p.Locate()
			if !ok {
				return fmt.Errorf("pandoc not found (run mdrst provision to download it)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), bin)
			return nil
		}

		bin, err := p.Ensure(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), bin)
		return nil
	},
}

func init() {
	addPandocFlags(provisionCmd)
	provisionCmd.Flags().Bool("check", false, "only report an installed pandoc; never download")

	rootCmd.AddCommand(provisionCmd)
}
