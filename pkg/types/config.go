package types

import "time"

// ConversionConfig holds settings for the legacy conversion stage.
type ConversionConfig struct {
	// Binary is the office executable (e.g. "soffice"). Empty means detect
	// soffice, then libreoffice, on PATH.
	Binary string `json:"binary" yaml:"binary" mapstructure:"binary"`

	// Retries is the number of conversion attempts per file (default 2).
	Retries int `json:"retries" yaml:"retries" mapstructure:"retries"`

	// RetryDelay is the pause between attempts, after the office session
	// has been torn down (default 2s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`

	// KeepOriginals disables removal of the .ppt file after a successful
	// conversion.
	KeepOriginals bool `json:"keep_originals" yaml:"keep_originals" mapstructure:"keep_originals"`
}

// GeneratorProvider selects the text-generation backend.
type GeneratorProvider string

const (
	// ProviderCommand runs the model through the ollama CLI, piping the
	// prompt on stdin and capturing stdout.
	ProviderCommand GeneratorProvider = "command"
	// ProviderOllama calls the Ollama HTTP API.
	ProviderOllama GeneratorProvider = "ollama"
	// ProviderGemini calls the Google Generative AI API.
	ProviderGemini GeneratorProvider = "gemini"
)

// AIConfig holds shared settings for a Generative AI backend.
type AIConfig struct {
	// Model is the model identifier (e.g. "llama2").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for hosted backends.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Endpoint is the base URL of the Ollama server (default
	// http://localhost:11434).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
}

// GenerationConfig holds settings for the flashcard generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the backend: command, ollama or gemini.
	Provider GeneratorProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Command is the CLI binary used by the command provider (default "ollama").
	Command string `json:"command" yaml:"command" mapstructure:"command"`

	// FallbackModel is the simpler model tried when the primary yields no
	// valid flashcards (default "orca-mini").
	FallbackModel string `json:"fallback_model" yaml:"fallback_model" mapstructure:"fallback_model"`

	// Timeout bounds each backend call (default 10m).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// Skip disables the generation stage.
	Skip bool `json:"skip" yaml:"skip" mapstructure:"skip"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a logrus level name (default "info").
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// CatalogConfig holds settings for the run catalog.
type CatalogConfig struct {
	// Disabled turns off run recording.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	// BaseDir is the user-supplied working directory.
	BaseDir string `json:"base_dir" yaml:"base_dir" mapstructure:"base_dir"`

	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
}

// Defaults used when a config field is left at its zero value.
const (
	DefaultRetries       = 2
	DefaultRetryDelay    = 2 * time.Second
	DefaultModel         = "llama2"
	DefaultFallbackModel = "orca-mini"
	DefaultCommand       = "ollama"
	DefaultTimeout       = 10 * time.Minute
)

// WithDefaults returns a copy of c with zero fields set to their defaults.
func (c PipelineConfig) WithDefaults() PipelineConfig {
	if c.Conversion.Retries <= 0 {
		c.Conversion.Retries = DefaultRetries
	}
	if c.Conversion.RetryDelay <= 0 {
		c.Conversion.RetryDelay = DefaultRetryDelay
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = ProviderCommand
	}
	if c.Generation.Model == "" {
		c.Generation.Model = DefaultModel
	}
	if c.Generation.FallbackModel == "" {
		c.Generation.FallbackModel = DefaultFallbackModel
	}
	if c.Generation.Command == "" {
		c.Generation.Command = DefaultCommand
	}
	if c.Generation.Timeout <= 0 {
		c.Generation.Timeout = DefaultTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return c
}
