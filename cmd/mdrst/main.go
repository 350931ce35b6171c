// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mdrst CLI, which converts the
// MarkdownSnippets-generated user guide into reStructuredText for Sphinx.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mdrst/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the mdrst CLI.
var rootCmd = &cobra.Command{
	Use:   "mdrst",
	Short: "Convert generated Markdown docs to reStructuredText",
	Long: `mdrst prepares the Markdown user guide for Sphinx. It strips the
MarkdownSnippets banners, tables of contents, navigation footers and snippet
anchors, then converts each page to reStructuredText with pandoc.

pandoc is used from PATH when installed; otherwise a release is downloaded
into the cache directory on first use. Use --backend container to run pandoc
through docker or podman instead.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mdrst.yaml or ~/.config/mdrst/config.yaml)")
}

func initConfig() {
	setDefaults(types.DefaultConfig())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mdrst")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mdrst"))
		}
	}

	viper.SetEnvPrefix("MDRST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: could not read config %s: %v\n", cfgFile, err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
