// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mdrst/pkg/types"
)

const defaultConfigFile = "mdrst.yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration mdrst would run with after merging
defaults, the config file, MDRST_* environment variables and flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter mdrst.yaml with the default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		data, err := yaml.Marshal(types.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

// setDefaults registers every configuration key with viper so that config
// files and MDRST_* variables can override keys without a flag.
func setDefaults(cfg types.PipelineConfig) {
	c, p := cfg.Conversion, cfg.Pandoc
	viper.SetDefault("conversion.backend", string(c.Backend))
	viper.SetDefault("conversion.input_dir", c.InputDir)
	viper.SetDefault("conversion.output_dir", c.OutputDir)
	viper.SetDefault("conversion.subdirs", c.Subdirs)
	viper.SetDefault("conversion.skip", c.Skip)
	viper.SetDefault("conversion.source_ext", c.SourceExt)
	viper.SetDefault("conversion.target_ext", c.TargetExt)
	viper.SetDefault("conversion.source_format", c.SourceFormat)
	viper.SetDefault("conversion.target_format", c.TargetFormat)
	viper.SetDefault("conversion.snippet_base_url", c.SnippetBaseURL)

	viper.SetDefault("pandoc.timeout", p.Timeout)
	viper.SetDefault("pandoc.user_agent", p.UserAgent)
	viper.SetDefault("pandoc.max_retries", p.MaxRetries)
	viper.SetDefault("pandoc.binary", p.Binary)
	viper.SetDefault("pandoc.version", p.Version)
	viper.SetDefault("pandoc.release_url", p.ReleaseURL)
	viper.SetDefault("pandoc.cache_dir", p.CacheDir)
	viper.SetDefault("pandoc.image", p.Image)
}

// bindFlag binds a command flag to a viper key, ignoring a missing flag.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	if f := flags.Lookup(name); f != nil {
		_ = viper.BindPFlag(key, f)
	}
}

// loadConfig decodes the merged viper settings.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Conversion.Backend != types.BackendPandoc && cfg.Conversion.Backend != types.BackendContainer {
		return cfg, fmt.Errorf("unsupported backend %q: use %s or %s",
			cfg.Conversion.Backend, types.BackendPandoc, types.BackendContainer)
	}
	return cfg, nil
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
