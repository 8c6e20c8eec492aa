package openapi

import (
	"strings"
	"testing"
)

func validDocument() *Document {
	return &Document{
		OpenAPI: Version,
		Info:    Info{Title: "Test API", Version: "1.0.0"},
		Components: Components{Schemas: map[string]*Schema{
			"User": {Type: "object", Properties: userProperties(), Required: []string{"id"}},
			"Role": {Type: "string", Enum: []any{"admin"}},
		}},
	}
}

func userProperties() *Properties {
	props := NewProperties()
	props.Set("id", &Schema{Type: "string"})
	props.Set("role", Ref("Role"))
	return props
}

func hasError(errs []ValidationError, path, fragment string) bool {
	for _, e := range errs {
		if e.Path == path && strings.Contains(e.Message, fragment) {
			return true
		}
	}
	return false
}

func TestValidateDocument_Valid(t *testing.T) {
	errs := ValidateDocument(validDocument())
	if len(errs) != 0 {
		t.Errorf("expected no validation errors, got %d:", len(errs))
		for _, e := range errs {
			t.Errorf("  %s", e.Error())
		}
	}
}

func TestValidateDocument_Header(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
		path   string
		msg    string
	}{
		{"missing openapi", func(d *Document) { d.OpenAPI = "" }, "openapi", "required field missing"},
		{"wrong version", func(d *Document) { d.OpenAPI = "3.1.0" }, "openapi", "expected 3.0.x"},
		{"missing title", func(d *Document) { d.Info.Title = "" }, "info.title", "required field missing"},
		{"missing version", func(d *Document) { d.Info.Version = "" }, "info.version", "required field missing"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := validDocument()
			tc.mutate(doc)
			if errs := ValidateDocument(doc); !hasError(errs, tc.path, tc.msg) {
				t.Errorf("expected %s error at %s, got %v", tc.msg, tc.path, errs)
			}
		})
	}
}

func TestValidateDocument_DanglingRef(t *testing.T) {
	doc := validDocument()
	delete(doc.Components.Schemas, "Role")

	errs := ValidateDocument(doc)
	if !hasError(errs, "components.schemas.User.properties.role", "no matching component") {
		t.Errorf("expected dangling reference error, got %v", errs)
	}
}

func TestValidateDocument_ExternalRef(t *testing.T) {
	doc := validDocument()
	doc.Components.Schemas["Link"] = &Schema{Ref: "https://example.com/schemas/Link"}

	if errs := ValidateDocument(doc); !hasError(errs, "components.schemas.Link", "does not point into") {
		t.Errorf("got %v", errs)
	}
}

func TestValidateDocument_RefWithSiblings(t *testing.T) {
	doc := validDocument()
	doc.Components.Schemas["Admin"] = &Schema{Ref: RefPrefix + "User", Nullable: true}

	if errs := ValidateDocument(doc); !hasError(errs, "components.schemas.Admin", "sibling") {
		t.Errorf("got %v", errs)
	}
}

func TestValidateDocument_ArrayWithoutItems(t *testing.T) {
	doc := validDocument()
	doc.Components.Schemas["List"] = &Schema{Type: "array"}

	if errs := ValidateDocument(doc); !hasError(errs, "components.schemas.List.items", "required") {
		t.Errorf("got %v", errs)
	}
}

func TestValidateDocument_TypeOutsideOpenAPI30(t *testing.T) {
	doc := validDocument()
	props := NewProperties()
	props.Set("nothing", &Schema{Type: "null"})
	doc.Components.Schemas["Box"] = &Schema{Type: "object", Properties: props}

	if errs := ValidateDocument(doc); !hasError(errs, "components.schemas.Box.properties.nothing.type", "not an OpenAPI 3.0 type") {
		t.Errorf("got %v", errs)
	}
}

func TestValidateDocument_UndeclaredRequired(t *testing.T) {
	doc := validDocument()
	doc.Components.Schemas["User"].Required = []string{"id", "email"}

	if errs := ValidateDocument(doc); !hasError(errs, "components.schemas.User.required", `"email"`) {
		t.Errorf("got %v", errs)
	}
}

func TestValidateDocument_NestedSchemas(t *testing.T) {
	doc := validDocument()
	doc.Components.Schemas["Wrapper"] = &Schema{
		Type: "object",
		AdditionalProperties: &Schema{
			OneOf: []*Schema{{Type: "string"}, Ref("Missing")},
		},
	}

	if errs := ValidateDocument(doc); !hasError(errs, "components.schemas.Wrapper.additionalProperties.oneOf[1]", "no matching component") {
		t.Errorf("got %v", errs)
	}
}

func TestValidateDocument_MultipleErrorsSorted(t *testing.T) {
	doc := validDocument()
	doc.Components.Schemas["B"] = &Schema{Type: "array"}
	doc.Components.Schemas["A"] = &Schema{Type: "array"}

	errs := ValidateDocument(doc)
	if len(errs) != 2 {
		t.Fatalf("got %d errors: %v", len(errs), errs)
	}
	if errs[0].Path != "components.schemas.A.items" || errs[1].Path != "components.schemas.B.items" {
		t.Errorf("errors not in name order: %v", errs)
	}
}

func TestValidateJSON_ValidJSON(t *testing.T) {
	data, err := validDocument().ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	errs, err := ValidateJSON(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateJSON_InvalidJSON(t *testing.T) {
	if _, err := ValidateJSON([]byte("{not json")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateJSON_MissingFields(t *testing.T) {
	errs, err := ValidateJSON([]byte(`{"paths": {}, "components": {"schemas": {}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) < 3 {
		t.Errorf("expected errors for openapi, info.title and info.version, got %v", errs)
	}
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Path: "info.title", Message: "required field missing"}
	if got := e.Error(); got != "info.title: required field missing" {
		t.Errorf("Error() = %q", got)
	}
}
