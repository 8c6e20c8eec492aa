package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "typeschema.config.json"

// Environment variables that override file settings.
const (
	EnvInput  = "TYPESCHEMA_INPUT"
	EnvOutput = "TYPESCHEMA_OUTPUT"
	EnvFormat = "TYPESCHEMA_FORMAT"
	EnvStrict = "TYPESCHEMA_STRICT"
)

var envKeys = []string{EnvInput, EnvOutput, EnvFormat, EnvStrict}

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the typeschema configuration.
type Config struct {
	// Input is the type graph to read.
	Input string `json:"input"`
	// Output is where the schema document is written. Empty means stdout.
	Output string `json:"output,omitempty"`
	// Format is "json" or "yaml". Empty means inferred from Output.
	Format string `json:"format,omitempty"`

	OpenAPI     OpenAPIConfig     `json:"openapi"`
	Diagnostics DiagnosticsConfig `json:"diagnostics"`
	Naming      NamingConfig      `json:"naming"`
	Cache       CacheConfig       `json:"cache"`
}

// OpenAPIConfig holds the info block of the generated document.
type OpenAPIConfig struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
}

// DiagnosticsConfig controls how findings are reported.
type DiagnosticsConfig struct {
	Strict bool `json:"strict,omitempty"` // warnings fail the run
	Quiet  bool `json:"quiet,omitempty"`  // drop warnings and infos
}

// NamingConfig controls component name normalization.
type NamingConfig struct {
	AsyncWrapper string `json:"asyncWrapper,omitempty"`
}

// CacheConfig controls the build cache.
type CacheConfig struct {
	Enabled bool `json:"enabled"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Input:  "types.json",
		Output: "openapi.json",
		OpenAPI: OpenAPIConfig{
			Title:   "Schemas",
			Version: "1.0.0",
		},
		Naming: NamingConfig{AsyncWrapper: "Promise"},
		Cache:  CacheConfig{Enabled: true},
	}
}

// Load reads and parses a typeschema config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &config, nil
}

// Env returns the typeschema variables from the given dotenv files (".env"
// when none are given) overlaid with the non-empty process environment.
// Missing files are skipped.
func Env(files ...string) map[string]string {
	if len(files) == 0 {
		files = []string{".env"}
	}
	env := make(map[string]string)
	for _, f := range files {
		values, err := godotenv.Read(f)
		if err != nil {
			continue
		}
		for _, k := range envKeys {
			if v, ok := values[k]; ok {
				env[k] = v
			}
		}
	}
	for _, k := range envKeys {
		if v := os.Getenv(k); v != "" {
			env[k] = v
		}
	}
	return env
}

// ApplyEnv overrides settings with non-empty values from env and validates
// the result.
func (c *Config) ApplyEnv(env map[string]string) error {
	if v := strings.TrimSpace(env[EnvInput]); v != "" {
		c.Input = v
	}
	if v := strings.TrimSpace(env[EnvOutput]); v != "" {
		c.Output = v
	}
	if v := strings.TrimSpace(env[EnvFormat]); v != "" {
		c.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(env[EnvStrict]); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrict, err)
		}
		c.Diagnostics.Strict = strict
	}
	return c.Validate()
}

// OutputFormat returns the explicit format, or the one implied by the output
// extension, defaulting to JSON.
func (c *Config) OutputFormat() string {
	if c.Format != "" {
		return c.Format
	}
	switch strings.ToLower(filepath.Ext(c.Output)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Validate checks the config for logical errors.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input must not be empty")
	}

	if c.Format != "" && c.Format != FormatJSON && c.Format != FormatYAML {
		return fmt.Errorf("format must be %q or %q, got %q", FormatJSON, FormatYAML, c.Format)
	}

	// Ensure the output extension agrees with the format
	if c.Output != "" {
		ext := strings.ToLower(filepath.Ext(c.Output))
		switch c.OutputFormat() {
		case FormatJSON:
			if ext != ".json" {
				return fmt.Errorf("output must have a .json extension for JSON output, got %q", ext)
			}
		case FormatYAML:
			if ext != ".yaml" && ext != ".yml" {
				return fmt.Errorf("output must have a .yaml or .yml extension for YAML output, got %q", ext)
			}
		}
	}

	if c.Diagnostics.Strict && c.Diagnostics.Quiet {
		return fmt.Errorf("diagnostics.strict and diagnostics.quiet are mutually exclusive")
	}

	return nil
}
