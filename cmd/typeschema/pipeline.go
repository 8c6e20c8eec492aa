package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tsgonest/typeschema/internal/config"
)

// stdoutOutput is the --output value that writes the document to stdout.
const stdoutOutput = "-"

// generateFlags holds the flags shared by generate and watch.
type generateFlags struct {
	ConfigPath string
	Input      string
	Output     string
	Format     string
	Strict     bool
	Quiet      bool
	NoCache    bool
}

// parseGenerateArgs parses generate/watch flags. Unset string flags stay
// empty so they don't override the config file.
func parseGenerateArgs(name string, args []string) (*generateFlags, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f := &generateFlags{}

	fs.StringVar(&f.ConfigPath, "config", "", "Path to typeschema config file ("+config.DefaultFile+")")
	fs.StringVar(&f.Input, "input", "", "Type graph to read")
	fs.StringVar(&f.Output, "output", "", "Document to write (\"-\" for stdout)")
	fs.StringVar(&f.Format, "format", "", "Output format: json or yaml")
	fs.BoolVar(&f.Strict, "strict", false, "Treat warnings as errors")
	fs.BoolVar(&f.Quiet, "quiet", false, "Only report errors")
	fs.BoolVar(&f.NoCache, "no-cache", false, "Regenerate even if nothing changed")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: typeschema %s [flags]\n\nFlags:\n", name)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected argument: %s", fs.Arg(0))
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		return nil, err
	}
	return f, nil
}

// flagExitCode is the exit code after a flag parsing error, which the flag
// set has already reported.
func flagExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

// ConfigResult holds the effective configuration and where it came from.
type ConfigResult struct {
	Config *config.Config
	Path   string // resolved absolute path to config file (empty if none found)
	Dir    string // directory containing the config file (defaults to cwd)
}

// EnvFile is the dotenv file read next to the config.
func (r *ConfigResult) EnvFile() string {
	return filepath.Join(r.Dir, ".env")
}

// loadOrDiscoverConfig loads the config at configPath, or DefaultFile in cwd
// when configPath is empty. Without either, defaults apply.
func loadOrDiscoverConfig(configPath, cwd string) (*ConfigResult, error) {
	result := &ConfigResult{Dir: cwd}

	resolved := configPath
	if resolved == "" {
		resolved = filepath.Join(cwd, config.DefaultFile)
		if _, err := os.Stat(resolved); err != nil {
			cfg := config.DefaultConfig()
			result.Config = &cfg
			return result, nil
		}
	} else if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(cwd, resolved)
	}

	cfg, err := config.Load(resolved)
	if err != nil {
		return nil, err
	}
	result.Config = cfg
	result.Path = resolved
	result.Dir = filepath.Dir(resolved)

	// Paths in the file are relative to the file.
	cfg.Input = resolveFrom(result.Dir, cfg.Input)
	cfg.Output = resolveFrom(result.Dir, cfg.Output)
	return result, nil
}

// resolveConfig merges, in increasing precedence: defaults, the config file,
// .env next to it, the process environment and the command line flags.
func resolveConfig(f *generateFlags, cwd string) (*ConfigResult, error) {
	result, err := loadOrDiscoverConfig(f.ConfigPath, cwd)
	if err != nil {
		return nil, err
	}
	cfg := result.Config

	if err := cfg.ApplyEnv(config.Env(result.EnvFile())); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	// Defaults and environment values are relative to the working directory.
	cfg.Input = resolveFrom(cwd, cfg.Input)
	cfg.Output = resolveFrom(cwd, cfg.Output)

	if f.Input != "" {
		cfg.Input = resolveFrom(cwd, f.Input)
	}
	switch f.Output {
	case "":
	case stdoutOutput:
		cfg.Output = ""
	default:
		cfg.Output = resolveFrom(cwd, f.Output)
	}
	if f.Format != "" {
		cfg.Format = f.Format
	}
	if f.Strict {
		cfg.Diagnostics.Strict = true
	}
	if f.Quiet {
		cfg.Diagnostics.Quiet = true
	}
	if f.NoCache {
		cfg.Cache.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

func resolveFrom(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// TimingReport collects timing data for each generation phase.
type TimingReport struct {
	Load     time.Duration
	Describe time.Duration
	Write    time.Duration
	Total    time.Duration
}

// Print outputs the timing breakdown to stderr.
func (t *TimingReport) Print() {
	fmt.Fprintf(os.Stderr, "\n--- timing ---\n")
	fmt.Fprintf(os.Stderr, "  load:      %s\n", t.Load.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  describe:  %s\n", t.Describe.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  write:     %s\n", t.Write.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  total:     %s\n", t.Total.Round(time.Millisecond))
}
