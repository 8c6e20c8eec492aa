package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationResult holds config validation results.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// ValidateDetailed performs thorough config validation with suggestions.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	// Input
	if c.Input == "" {
		result.Errors = append(result.Errors, "input: a type graph file is required")
	} else if ext := filepath.Ext(c.Input); ext != ".json" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("input: extension %q is unusual for a type graph, expected .json", ext))
	}

	// Output and format
	if c.Format != "" && c.Format != FormatJSON && c.Format != FormatYAML {
		result.Errors = append(result.Errors,
			fmt.Sprintf("format: invalid value %q, must be json or yaml", c.Format))
	}
	if c.Output == "" {
		result.Warnings = append(result.Warnings, "output: empty, the document will be written to stdout")
	} else if c.Output == c.Input {
		result.Errors = append(result.Errors, "output: must not overwrite the input file")
	}

	// OpenAPI info
	if c.OpenAPI.Title == "" {
		result.Warnings = append(result.Warnings, "openapi.title: empty, the default title will be used")
	}

	// Naming
	if w := c.Naming.AsyncWrapper; w != "" && strings.ContainsAny(w, "<>., ") {
		result.Errors = append(result.Errors,
			fmt.Sprintf("naming.asyncWrapper: %q must be a bare type name such as Promise", w))
	}

	// Diagnostics
	if c.Diagnostics.Strict && c.Diagnostics.Quiet {
		result.Errors = append(result.Errors, "diagnostics: strict and quiet cannot both be set")
	}

	return result
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}
