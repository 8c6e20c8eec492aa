package openapi

import (
	"errors"
	"fmt"

	"github.com/tsgonest/typeschema/internal/diagnostic"
	"github.com/tsgonest/typeschema/internal/typedesc"
)

var (
	// ErrMissingSymbol means a type that must carry a declaration had none.
	// The descriptor broke its contract; the resolver does not guess a name.
	ErrMissingSymbol = errors.New("type has no symbol")
	// ErrInvalidTag means a documentation tag could not be read as its facet.
	ErrInvalidTag = errors.New("invalid documentation tag")
)

// maxResolveDepth bounds resolution nesting. In practice only a type that
// contains itself without a named object or enum in between gets there.
const maxResolveDepth = 256

// Resolver converts type descriptors to schemas, registering named types in
// its registry.
type Resolver struct {
	registry    *Registry
	diagnostics *diagnostic.Collector
	depth       int
}

// NewResolver creates a resolver. diags may be nil.
func NewResolver(registry *Registry, diags *diagnostic.Collector) *Resolver {
	return &Resolver{registry: registry, diagnostics: diags}
}

// Registry returns the registry named schemas are written to.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// resolveOptions tweak a single resolve call.
type resolveOptions struct {
	// optional, when set, is called instead of marking the schema nullable
	// if the type admits undefined. Property resolution uses it so that an
	// optional field is reported as not required rather than nullable.
	optional func()
}

// Resolve returns the schema for t: a reference for named classes,
// interfaces and enums, an inline schema for everything else.
// When resolution fails nothing it registered is kept.
func (r *Resolver) Resolve(t typedesc.Type) (*Schema, error) {
	m := r.registry.mark()
	s, err := r.resolve(t, resolveOptions{})
	if err != nil {
		r.registry.rollback(m)
		return nil, err
	}
	return s, nil
}

func (r *Resolver) resolve(t typedesc.Type, opts resolveOptions) (*Schema, error) {
	if r.depth >= maxResolveDepth {
		return r.unsupported(t, Unsupported{Reason: fmt.Sprintf("nesting deeper than %d levels", maxResolveDepth)}), nil
	}
	r.depth++
	defer func() { r.depth-- }()

	shape, err := Classify(t)
	if err != nil {
		return nil, err
	}

	switch s := shape.(type) {
	case AsyncWrapper:
		return r.resolve(s.Inner, opts)

	case Nullable:
		// Tags on the union itself are lost when a single member survives,
		// so they are applied again here.
		if s.Undefined && opts.optional != nil {
			opts.optional()
			inner, err := r.resolve(t.WithoutUndefined(), resolveOptions{})
			if err != nil || inner.IsRef() {
				return inner, err
			}
			return r.describe(inner, t), nil
		}
		inner, err := r.resolve(s.Remainder, resolveOptions{})
		if err != nil {
			return nil, err
		}
		return r.describe(Annotate(inner, Facets{Nullable: true}), t), nil

	case Array:
		items, err := r.resolve(s.Element, resolveOptions{})
		if err != nil {
			return nil, err
		}
		return r.describe(&Schema{Type: "array", Items: items}, t), nil

	case Boolean:
		return r.describe(&Schema{Type: "boolean"}, t), nil

	case Unknown:
		return r.describe(&Schema{Type: "object"}, t), nil

	case Tuple:
		return r.resolveTuple(s, t)

	case Date:
		return r.describe(&Schema{Type: "string", Format: "date-time"}, t), nil

	case AnonymousObject, GenericObject:
		schema := &Schema{}
		if err := r.fillObject(schema, t); err != nil {
			return nil, err
		}
		return r.describe(schema, t), nil

	case NamedObject:
		return r.resolveNamedObject(s, t)

	case Intersection:
		members, err := r.resolveAll(s.Members)
		if err != nil {
			return nil, err
		}
		return r.describe(&Schema{AllOf: members}, t), nil

	case EnumUnion:
		return r.resolveEnum(s, t)

	case PlainUnion:
		members, err := r.resolveAll(s.Members)
		if err != nil {
			return nil, err
		}
		return r.describe(&Schema{OneOf: members}, t), nil

	case Literal:
		return r.describe(literalSchema(s.Value), t), nil

	case Primitive:
		return r.describe(&Schema{Type: s.Name, Format: s.Format}, t), nil

	case Void:
		return &Schema{Type: "object"}, nil

	case Unsupported:
		return r.unsupported(t, s), nil

	default:
		panic(fmt.Sprintf("openapi: unhandled shape %T", shape))
	}
}

func (r *Resolver) unsupported(t typedesc.Type, s Unsupported) *Schema {
	r.diagnostics.WarnWithHint(diagnostic.CategoryTypeUnsupported, t.Name(),
		s.Reason+"; emitted as an unconstrained object",
		"describe the payload with an interface or a primitive type")
	return &Schema{Type: "object"}
}

func (r *Resolver) resolveAll(types []typedesc.Type) ([]*Schema, error) {
	out := make([]*Schema, 0, len(types))
	for _, t := range types {
		s, err := r.resolve(t, resolveOptions{})
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// resolveTuple has no exact OpenAPI 3.0 equivalent; the element types become
// alternatives of a plain array.
func (r *Resolver) resolveTuple(s Tuple, t typedesc.Type) (*Schema, error) {
	elems, err := r.resolveAll(s.Elements)
	if err != nil {
		return nil, err
	}
	r.diagnostics.WarnWithHint(diagnostic.CategoryTupleLossy, t.Text(),
		fmt.Sprintf("tuple of %d element(s) emitted as an array of oneOf; positions and length are not preserved", len(elems)),
		"use an object with named fields to keep the structure")
	return r.describe(&Schema{Type: "array", Items: &Schema{OneOf: elems}}, t), nil
}

// resolveNamedObject claims the name before resolving properties so that a
// property typed as the object itself resolves to a reference.
func (r *Resolver) resolveNamedObject(s NamedObject, t typedesc.Type) (*Schema, error) {
	name := r.registry.Normalize(s.Name)
	body, claimed := r.registry.Reserve(name)
	if claimed {
		if err := r.fillObject(body, t); err != nil {
			return nil, err
		}
		r.describe(body, t)
	}
	return Ref(name), nil
}

func (r *Resolver) fillObject(schema *Schema, t typedesc.Type) error {
	parts, err := r.propertiesOf(t)
	if err != nil {
		return err
	}
	schema.Type = "object"
	schema.Properties = parts.properties
	schema.Required = parts.required
	schema.AdditionalProperties = parts.additionalProperties
	return nil
}

// resolveEnum registers one schema holding every member value. The declared
// type comes from the first member.
func (r *Resolver) resolveEnum(s EnumUnion, t typedesc.Type) (*Schema, error) {
	name := r.registry.Normalize(s.Name)
	body, claimed := r.registry.Reserve(name)
	if !claimed {
		return Ref(name), nil
	}
	for _, m := range s.Members {
		ms, err := r.resolve(m, resolveOptions{})
		if err != nil {
			return nil, err
		}
		if body.Type == "" {
			body.Type = ms.Type
		}
		body.Enum = append(body.Enum, ms.Enum...)
	}
	r.describe(body, t)
	return Ref(name), nil
}

func literalSchema(v any) *Schema {
	switch v.(type) {
	case float64:
		return &Schema{Type: "number", Enum: []any{v}}
	case bool:
		return &Schema{Type: "boolean", Enum: []any{v}}
	default:
		return &Schema{Type: "string", Enum: []any{v}}
	}
}

// describe copies the description and pattern tags of t's own declaration
// onto s. Callers never pass references here; documentation lives on the
// inline schema or the registered definition, not at each use site.
func (r *Resolver) describe(s *Schema, t typedesc.Type) *Schema {
	sym := t.Symbol()
	if sym == nil {
		return s
	}
	var f Facets
	for _, tag := range sym.Tags {
		switch normalizeTagName(tag.Name) {
		case "description":
			f.Description = tag.Text
		case "pattern":
			f.Pattern = tag.Text
		}
	}
	return Annotate(s, f)
}
