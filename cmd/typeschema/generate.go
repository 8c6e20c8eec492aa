package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tsgonest/typeschema/internal/buildcache"
	"github.com/tsgonest/typeschema/internal/config"
	"github.com/tsgonest/typeschema/internal/diagnostic"
	"github.com/tsgonest/typeschema/internal/openapi"
	"github.com/tsgonest/typeschema/internal/typegraph"
)

// runGenerate implements "typeschema generate": load the type graph, resolve
// every root into a component schema and write the document.
func runGenerate(args []string) int {
	f, err := parseGenerateArgs("generate", args)
	if err != nil {
		return flagExitCode(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not get working directory: %v\n", err)
		return 1
	}

	res, err := resolveConfig(f, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if res.Path != "" {
		fmt.Fprintf(os.Stderr, "loaded config from %s\n", res.Path)
	}

	result, err := generate(context.Background(), res.Config, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return report(res.Config, result)
}

// generateResult describes one generation run.
type generateResult struct {
	Diagnostics *diagnostic.Collector
	// Cached is true when the previous output was still current and nothing was written.
	Cached     bool
	Components int
	Timing     TimingReport
}

// generate runs one generation for cfg. The document goes to cfg.Output, or
// to stdout when cfg.Output is empty. Findings are collected in the result;
// an error return means generation could not run at all. Nothing is written
// when the collected findings include errors.
func generate(ctx context.Context, cfg *config.Config, stdout io.Writer) (*generateResult, error) {
	start := time.Now()
	diags := diagnostic.NewCollector(cfg.Diagnostics.Strict, cfg.Diagnostics.Quiet)
	result := &generateResult{Diagnostics: diags}

	checked := cfg.ValidateDetailed()
	// Config advice is not about types, so strict mode doesn't promote it.
	for _, msg := range checked.Warnings {
		diags.Info(diagnostic.CategoryConfigInvalid, "", msg)
	}
	if !checked.IsValid() {
		for _, msg := range checked.Errors {
			diags.Error(diagnostic.CategoryConfigInvalid, "", msg)
		}
		return result, nil
	}

	// Build cache
	var cachePath, inputHash, configHash string
	if cfg.Cache.Enabled {
		cachePath = buildcache.CachePath(cfg.Output)
	}
	if cachePath != "" {
		inputHash = buildcache.HashFile(cfg.Input)
		h, err := buildcache.HashValue(cfg)
		if err != nil {
			return nil, err
		}
		configHash = h
		if buildcache.Load(cachePath).IsValid(inputHash, configHash) {
			result.Cached = true
			result.Timing.Total = time.Since(start)
			return result, nil
		}
	}

	// Load
	loadStart := time.Now()
	loaded, err := typegraph.Load(cfg.Input)
	if err != nil {
		return nil, err
	}
	if loaded.Repaired {
		diags.WarnWithHint(diagnostic.CategoryInputRepaired, "",
			fmt.Sprintf("%s is not valid JSON; it was repaired before decoding", cfg.Input),
			"regenerate the type graph or fix it by hand")
	}
	result.Timing.Load = time.Since(loadStart)

	// Describe
	describeStart := time.Now()
	gen := openapi.NewGenerator(
		openapi.WithDiagnostics(diags),
		openapi.WithAsyncWrapper(cfg.Naming.AsyncWrapper),
	)
	graph := loaded.Graph
	for _, name := range graph.RootNames() {
		t, ok := graph.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("root %q is not declared", name)
		}
		if _, err := gen.DescribeNamed(ctx, name, t); err != nil {
			return nil, fmt.Errorf("describing %s: %w", name, err)
		}
	}

	doc := gen.Document()
	doc.ApplyConfig(openapi.DocumentConfig{
		Title:       cfg.OpenAPI.Title,
		Description: cfg.OpenAPI.Description,
		Version:     cfg.OpenAPI.Version,
	})
	for _, e := range openapi.ValidateDocument(doc) {
		diags.Error(diagnostic.CategoryReferenceDangling, e.Path, e.Message)
	}
	result.Components = len(doc.Components.Schemas)
	result.Timing.Describe = time.Since(describeStart)

	if diags.HasErrors() {
		result.Timing.Total = time.Since(start)
		return result, nil
	}

	// Write
	writeStart := time.Now()
	var data []byte
	if cfg.OutputFormat() == config.FormatYAML {
		data, err = doc.ToYAML()
	} else {
		data, err = doc.ToJSON()
	}
	if err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}

	if cfg.Output == "" {
		if _, err := stdout.Write(data); err != nil {
			return nil, fmt.Errorf("writing document: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(cfg.Output, data, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", cfg.Output, err)
		}
	}
	result.Timing.Write = time.Since(writeStart)

	if cachePath != "" {
		if err := buildcache.Save(cachePath, buildcache.New(inputHash, configHash, []string{cfg.Output})); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	result.Timing.Total = time.Since(start)
	return result, nil
}

// report prints the findings and a summary line to stderr and returns the
// exit code for the run.
func report(cfg *config.Config, result *generateResult) int {
	diags := result.Diagnostics
	fmt.Fprint(os.Stderr, diags.FormatAll())

	switch {
	case result.Cached:
		fmt.Fprintf(os.Stderr, "%s is up to date\n", cfg.Output)
	case diags.HasErrors():
		fmt.Fprintf(os.Stderr, "generation failed: %s\n", diags.Summary())
		return 1
	default:
		dest := cfg.Output
		if dest == "" {
			dest = "stdout"
		}
		fmt.Fprintf(os.Stderr, "wrote %d schema(s) to %s in %s (%s)\n",
			result.Components, dest, result.Timing.Total.Round(time.Millisecond), diags.Summary())
	}

	if os.Getenv("TYPESCHEMA_TIMING") != "" {
		result.Timing.Print()
	}
	return 0
}
