// Package diagnostic collects non-fatal findings raised while turning types
// into schemas. Nothing recorded here aborts a run; callers decide what to do
// with the collected set once generation finishes.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category classifies diagnostics for filtering.
type Category string

const (
	CategoryTypeUnsupported   Category = "type-unsupported"
	CategoryTupleLossy        Category = "tuple-lossy"
	CategoryTagIgnored        Category = "tag-ignored"
	CategoryConfigInvalid     Category = "config-invalid"
	CategoryReferenceDangling Category = "reference-dangling"
	CategoryInputRepaired     Category = "input-repaired"
)

// Diagnostic is one finding about a type.
type Diagnostic struct {
	Severity Severity
	Category Category
	// Type is the display name of the type the finding is about.
	Type    string
	Message string
	Hint    string
}

// String formats the diagnostic as "Type - warning: [category] message".
func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Type != "" {
		sb.WriteString(d.Type)
		sb.WriteString(" - ")
	}
	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")
	if d.Category != "" {
		sb.WriteString("[")
		sb.WriteString(string(d.Category))
		sb.WriteString("] ")
	}
	sb.WriteString(d.Message)
	if d.Hint != "" {
		sb.WriteString("\n  hint: ")
		sb.WriteString(d.Hint)
	}
	return sb.String()
}

// Collector accumulates diagnostics. A nil *Collector discards everything, so
// components can take one unconditionally.
type Collector struct {
	diagnostics []Diagnostic
	strict      bool // warnings become errors
	quiet       bool // warnings and infos are dropped
}

// NewCollector creates a new diagnostic collector.
func NewCollector(strict, quiet bool) *Collector {
	return &Collector{strict: strict, quiet: quiet}
}

// Warn records a warning about typeName.
func (c *Collector) Warn(category Category, typeName, message string) {
	c.WarnWithHint(category, typeName, message, "")
}

// WarnWithHint records a warning with a suggestion for fixing it.
func (c *Collector) WarnWithHint(category Category, typeName, message, hint string) {
	if c == nil || c.quiet {
		return
	}
	sev := SeverityWarning
	if c.strict {
		sev = SeverityError
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: sev,
		Category: category,
		Type:     typeName,
		Message:  message,
		Hint:     hint,
	})
}

// Error records an error. Errors are kept even in quiet mode.
func (c *Collector) Error(category Category, typeName, message string) {
	if c == nil {
		return
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: SeverityError,
		Category: category,
		Type:     typeName,
		Message:  message,
	})
}

// Info records an informational note.
func (c *Collector) Info(category Category, typeName, message string) {
	if c == nil || c.quiet {
		return
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: SeverityInfo,
		Category: category,
		Type:     typeName,
		Message:  message,
	})
}

// Diagnostics returns all collected diagnostics in recording order.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	return c.diagnostics
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.diagnostics)
}

// HasErrors returns true if any error-level diagnostics exist.
func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0
}

// ErrorCount returns the number of error diagnostics.
func (c *Collector) ErrorCount() int {
	return c.count(SeverityError)
}

// WarningCount returns the number of warning diagnostics.
func (c *Collector) WarningCount() int {
	return c.count(SeverityWarning)
}

func (c *Collector) count(sev Severity) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, d := range c.diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// FormatAll formats all diagnostics, one per line.
func (c *Collector) FormatAll() string {
	if c == nil || len(c.diagnostics) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range c.diagnostics {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary returns a summary line like "1 error(s), 2 warning(s)".
func (c *Collector) Summary() string {
	if c == nil {
		return ""
	}
	var parts []string
	if n := c.ErrorCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", n))
	}
	if n := c.WarningCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", n))
	}
	if len(parts) == 0 {
		return "no issues"
	}
	return strings.Join(parts, ", ")
}
