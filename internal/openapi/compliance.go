package openapi

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-json-experiment/json"
)

// ValidationError represents an OpenAPI compliance error.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateDocument checks a generated document for OpenAPI 3.0 compliance and
// reference integrity. Returns nil if the document is valid.
func ValidateDocument(doc *Document) []ValidationError {
	var errors []ValidationError

	if doc.OpenAPI == "" {
		errors = append(errors, ValidationError{Path: "openapi", Message: "required field missing"})
	} else if !strings.HasPrefix(doc.OpenAPI, "3.0") {
		errors = append(errors, ValidationError{Path: "openapi", Message: fmt.Sprintf("expected 3.0.x, got %q", doc.OpenAPI)})
	}

	if doc.Info.Title == "" {
		errors = append(errors, ValidationError{Path: "info.title", Message: "required field missing"})
	}
	if doc.Info.Version == "" {
		errors = append(errors, ValidationError{Path: "info.version", Message: "required field missing"})
	}

	// Map iteration order is random; sort so the report is stable.
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		errors = append(errors, validateSchema("components.schemas."+name, doc.Components.Schemas[name], doc.Components.Schemas)...)
	}

	return errors
}

// schemaTypes are the values "type" may take in OpenAPI 3.0.
var schemaTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"integer": true,
	"boolean": true,
	"array":   true,
	"object":  true,
}

func validateSchema(prefix string, schema *Schema, components map[string]*Schema) []ValidationError {
	if schema == nil {
		return []ValidationError{{Path: prefix, Message: "schema is null"}}
	}
	var errors []ValidationError

	if schema.Ref != "" {
		name := schema.RefName()
		switch {
		case name == "":
			errors = append(errors, ValidationError{Path: prefix, Message: fmt.Sprintf("$ref %q does not point into %s", schema.Ref, RefPrefix)})
		case components[name] == nil:
			errors = append(errors, ValidationError{Path: prefix, Message: fmt.Sprintf("$ref %q has no matching component", schema.Ref)})
		}
		if hasSiblings(schema) {
			errors = append(errors, ValidationError{Path: prefix, Message: "$ref must not have sibling keywords"})
		}
		return errors
	}

	if schema.Type != "" && !schemaTypes[schema.Type] {
		errors = append(errors, ValidationError{Path: prefix + ".type", Message: fmt.Sprintf("%q is not an OpenAPI 3.0 type", schema.Type)})
	}
	if schema.Type == "array" && schema.Items == nil {
		errors = append(errors, ValidationError{Path: prefix + ".items", Message: "required for type array"})
	}
	for _, req := range schema.Required {
		if _, ok := schema.Property(req); !ok {
			errors = append(errors, ValidationError{Path: prefix + ".required", Message: fmt.Sprintf("%q is not a declared property", req)})
		}
	}

	if schema.Items != nil {
		errors = append(errors, validateSchema(prefix+".items", schema.Items, components)...)
	}
	if schema.AdditionalProperties != nil {
		errors = append(errors, validateSchema(prefix+".additionalProperties", schema.AdditionalProperties, components)...)
	}
	for _, name := range schema.PropertyNames() {
		prop, _ := schema.Property(name)
		errors = append(errors, validateSchema(prefix+".properties."+name, prop, components)...)
	}
	for i, s := range schema.OneOf {
		errors = append(errors, validateSchema(fmt.Sprintf("%s.oneOf[%d]", prefix, i), s, components)...)
	}
	for i, s := range schema.AllOf {
		errors = append(errors, validateSchema(fmt.Sprintf("%s.allOf[%d]", prefix, i), s, components)...)
	}
	return errors
}

func hasSiblings(s *Schema) bool {
	return s.Type != "" || s.Format != "" || s.Description != "" || s.Nullable ||
		s.ReadOnly || s.Pattern != "" || s.Example != "" || s.Minimum != nil ||
		s.Maximum != nil || len(s.Enum) > 0 || len(s.Required) > 0 ||
		len(s.children()) > 0
}

// ValidateJSON validates a serialized document.
func ValidateJSON(jsonData []byte) ([]ValidationError, error) {
	var doc Document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return ValidateDocument(&doc), nil
}
