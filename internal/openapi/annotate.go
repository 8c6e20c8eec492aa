package openapi

// Facets are schema keywords attached to a schema after it is built.
type Facets struct {
	Nullable    bool
	ReadOnly    bool
	Description string
	Pattern     string
	Format      string
	Example     string
	Minimum     *float64
	Maximum     *float64
}

// IsZero reports whether f would change nothing.
func (f Facets) IsZero() bool {
	return !f.Nullable && !f.ReadOnly && f.Description == "" && f.Pattern == "" &&
		f.Format == "" && f.Example == "" && f.Minimum == nil && f.Maximum == nil
}

// Annotate merges f into s and returns the result. A reference cannot carry
// sibling keywords, so a reference is first wrapped as {allOf: [ref]} and the
// facets go on the wrapper.
func Annotate(s *Schema, f Facets) *Schema {
	if f.IsZero() {
		return s
	}
	if s.IsRef() {
		s = &Schema{AllOf: []*Schema{s}}
	}
	if f.Nullable {
		s.Nullable = true
	}
	if f.ReadOnly {
		s.ReadOnly = true
	}
	if f.Description != "" {
		s.Description = f.Description
	}
	if f.Pattern != "" {
		s.Pattern = f.Pattern
	}
	if f.Format != "" {
		s.Format = f.Format
	}
	if f.Example != "" {
		s.Example = f.Example
	}
	if f.Minimum != nil {
		v := *f.Minimum
		s.Minimum = &v
	}
	if f.Maximum != nil {
		v := *f.Maximum
		s.Maximum = &v
	}
	return s
}
