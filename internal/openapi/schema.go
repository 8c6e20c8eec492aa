// Package openapi turns type descriptors into OpenAPI schema objects and
// collects the named ones under components/schemas.
package openapi

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RefPrefix is the JSON pointer prefix of every schema reference.
const RefPrefix = "#/components/schemas/"

// Properties maps property names to schemas in declaration order.
type Properties = orderedmap.OrderedMap[string, *Schema]

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return orderedmap.New[string, *Schema]()
}

// Schema is an OpenAPI 3.0 schema object. A schema with Ref set is a
// reference and carries no other keys.
type Schema struct {
	Ref         string   `json:"$ref,omitzero"`
	Type        string   `json:"type,omitzero"`
	Format      string   `json:"format,omitzero"`
	Description string   `json:"description,omitzero"`
	Nullable    bool     `json:"nullable,omitzero"`
	ReadOnly    bool     `json:"readOnly,omitzero"`
	Pattern     string   `json:"pattern,omitzero"`
	Example     string   `json:"example,omitzero"`
	Minimum     *float64 `json:"minimum,omitzero"`
	Maximum     *float64 `json:"maximum,omitzero"`
	Enum        []any    `json:"enum,omitzero"`

	Items                *Schema     `json:"items,omitzero"`
	Properties           *Properties `json:"properties,omitzero"`
	Required             []string    `json:"required,omitzero"`
	AdditionalProperties *Schema     `json:"additionalProperties,omitzero"`

	OneOf []*Schema `json:"oneOf,omitzero"`
	AllOf []*Schema `json:"allOf,omitzero"`
}

// Ref returns a reference to the component schema called name.
func Ref(name string) *Schema {
	return &Schema{Ref: RefPrefix + name}
}

// IsRef reports whether s is a reference object.
func (s *Schema) IsRef() bool {
	return s != nil && s.Ref != ""
}

// RefName returns the component name a reference points at, or "" when s is
// not a reference into components/schemas.
func (s *Schema) RefName() string {
	if !s.IsRef() || !strings.HasPrefix(s.Ref, RefPrefix) {
		return ""
	}
	return strings.TrimPrefix(s.Ref, RefPrefix)
}

// Property returns the schema of the named property.
func (s *Schema) Property(name string) (*Schema, bool) {
	if s == nil || s.Properties == nil {
		return nil, false
	}
	return s.Properties.Get(name)
}

// PropertyNames returns property names in declaration order.
func (s *Schema) PropertyNames() []string {
	if s == nil || s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// children returns every directly nested schema, for walkers.
func (s *Schema) children() []*Schema {
	var out []*Schema
	if s.Items != nil {
		out = append(out, s.Items)
	}
	if s.AdditionalProperties != nil {
		out = append(out, s.AdditionalProperties)
	}
	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, pair.Value)
		}
	}
	out = append(out, s.OneOf...)
	out = append(out, s.AllOf...)
	return out
}
