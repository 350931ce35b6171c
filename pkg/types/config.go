package types

import "time"

// HTTPConfig holds HTTP settings used when provisioning pandoc.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "mdrst/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on 429 and transient 5xx responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ConversionBackend identifies the tool that turns fixed-up Markdown into
// reStructuredText.
type ConversionBackend string

const (
	// BackendPandoc runs a pandoc binary found on PATH or provisioned into
	// the cache directory.
	BackendPandoc ConversionBackend = "pandoc"
	// BackendContainer runs the pandoc image through docker or podman.
	BackendContainer ConversionBackend = "container"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// Backend selects the converter: pandoc or container.
	Backend ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// InputDir is the documentation root holding the Markdown sources.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir is the root the converted tree is written under.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Subdirs lists the subdirectories scanned in order. "" is the root.
	Subdirs []string `json:"subdirs" yaml:"subdirs" mapstructure:"subdirs"`

	// Skip lists base names never converted (e.g. "README").
	Skip []string `json:"skip" yaml:"skip" mapstructure:"skip"`

	// SourceExt and TargetExt are the input and output file extensions.
	SourceExt string `json:"source_ext" yaml:"source_ext" mapstructure:"source_ext"`
	TargetExt string `json:"target_ext" yaml:"target_ext" mapstructure:"target_ext"`

	// SourceFormat and TargetFormat are pandoc format names.
	SourceFormat string `json:"source_format" yaml:"source_format" mapstructure:"source_format"`
	TargetFormat string `json:"target_format" yaml:"target_format" mapstructure:"target_format"`

	// SnippetBaseURL is prepended to snippet source paths.
	SnippetBaseURL string `json:"snippet_base_url" yaml:"snippet_base_url" mapstructure:"snippet_base_url"`
}

// PandocConfig holds settings for locating or downloading pandoc.
type PandocConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Binary is an explicit pandoc path. When empty, PATH and the cache
	// directory are searched before downloading.
	Binary string `json:"binary,omitempty" yaml:"binary,omitempty" mapstructure:"binary"`

	// Version is the pandoc release to download (e.g. "3.1.11.1").
	Version string `json:"version" yaml:"version" mapstructure:"version"`

	// ReleaseURL is the base URL of the pandoc GitHub releases.
	ReleaseURL string `json:"release_url" yaml:"release_url" mapstructure:"release_url"`

	// CacheDir receives the downloaded binary.
	CacheDir string `json:"cache_dir" yaml:"cache_dir" mapstructure:"cache_dir"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// PipelineConfig groups all configuration sections.
type PipelineConfig struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Pandoc     PandocConfig     `json:"pandoc" yaml:"pandoc" mapstructure:"pandoc"`
}

// DefaultConfig returns the configuration used when no file, flag or
// environment variable overrides a value.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Conversion: ConversionConfig{
			Backend:        BackendPandoc,
			InputDir:       "../../doc",
			OutputDir:      "generated_docs",
			Subdirs:        []string{"", "how_tos", "explanations"},
			Skip:           []string{"README", "TemplatePage"},
			SourceExt:      ".md",
			TargetExt:      ".rst",
			SourceFormat:   "markdown",
			TargetFormat:   "rst",
			SnippetBaseURL: "https://github.com/approvals/ApprovalTests.cpp/blob/master",
		},
		Pandoc: PandocConfig{
			HTTPConfig: HTTPConfig{
				Timeout:    5 * time.Minute,
				UserAgent:  "mdrst/0.1",
				MaxRetries: 5,
			},
			Version:    "3.1.11.1",
			ReleaseURL: "https://github.com/jgm/pandoc/releases/download",
			CacheDir:   ".pandoc",
			Image:      "pandoc/core:latest",
		},
	}
}
