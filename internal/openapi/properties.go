package openapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsgonest/typeschema/internal/diagnostic"
	"github.com/tsgonest/typeschema/internal/typedesc"
)

// objectParts is the property section of an object schema.
type objectParts struct {
	properties           *Properties
	required             []string
	additionalProperties *Schema
}

// propertiesOf builds the properties of an object type in declaration order.
// An object without declared properties but with an index signature is a
// dictionary and gets additionalProperties instead.
func (r *Resolver) propertiesOf(t typedesc.Type) (objectParts, error) {
	props := t.Properties()
	if len(props) == 0 {
		for _, key := range []typedesc.IndexKey{typedesc.IndexString, typedesc.IndexNumber} {
			value := t.IndexSignature(key)
			if value == nil {
				continue
			}
			s, err := r.resolve(value, resolveOptions{})
			if err != nil {
				return objectParts{}, fmt.Errorf("index signature [key: %s] of %s: %w", key, t.Name(), err)
			}
			return objectParts{additionalProperties: s}, nil
		}
	}

	parts := objectParts{properties: NewProperties()}
	for _, p := range props {
		required := !p.Optional
		s, err := r.resolve(p.Type, resolveOptions{optional: func() { required = false }})
		if err != nil {
			return objectParts{}, fmt.Errorf("property %q of %s: %w", p.Name, t.Name(), err)
		}
		f, ignored, err := propertyFacets(p)
		if err != nil {
			return objectParts{}, err
		}
		for _, tag := range ignored {
			r.diagnostics.Info(diagnostic.CategoryTagIgnored, t.Name(),
				fmt.Sprintf("@%s on property %q has no schema keyword", tag, p.Name))
		}
		parts.properties.Set(p.Name, Annotate(s, f))
		if required {
			parts.required = append(parts.required, p.Name)
		}
	}
	return parts, nil
}

// propertyFacets reads the read-only flag and the documentation tags that
// map onto schema keywords. Names of unrecognized tags are returned in ignored.
func propertyFacets(p typedesc.Property) (f Facets, ignored []string, err error) {
	f.ReadOnly = p.Readonly || (p.Getter && !p.Setter)
	for _, tag := range p.Tags {
		switch normalizeTagName(tag.Name) {
		case "format":
			f.Format = tag.Text
		case "example":
			f.Example = tag.Text
		case "description":
			f.Description = tag.Text
		case "pattern":
			f.Pattern = tag.Text
		case "readonly":
			f.ReadOnly = true
		case "minimum":
			v, err := parseNumericTag(p.Name, tag)
			if err != nil {
				return Facets{}, nil, err
			}
			f.Minimum = &v
		case "maximum":
			v, err := parseNumericTag(p.Name, tag)
			if err != nil {
				return Facets{}, nil, err
			}
			f.Maximum = &v
		default:
			ignored = append(ignored, tag.Name)
		}
	}
	return f, ignored, nil
}

func parseNumericTag(prop string, tag typedesc.Tag) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(tag.Text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: @%s %q on property %q: %w", ErrInvalidTag, tag.Name, tag.Text, prop, err)
	}
	return v, nil
}

func normalizeTagName(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@"))
}
