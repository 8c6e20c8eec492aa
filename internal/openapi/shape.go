package openapi

import (
	"fmt"

	"github.com/tsgonest/typeschema/internal/typedesc"
)

// ShapeKind names a Shape variant.
type ShapeKind string

const (
	ShapeAsyncWrapper    ShapeKind = "async-wrapper"
	ShapeNullable        ShapeKind = "nullable"
	ShapeArray           ShapeKind = "array"
	ShapeBoolean         ShapeKind = "boolean"
	ShapeUnknown         ShapeKind = "unknown"
	ShapeTuple           ShapeKind = "tuple"
	ShapeDate            ShapeKind = "date"
	ShapeAnonymousObject ShapeKind = "anonymous-object"
	ShapeGenericObject   ShapeKind = "generic-object"
	ShapeNamedObject     ShapeKind = "named-object"
	ShapeIntersection    ShapeKind = "intersection"
	ShapeEnumUnion       ShapeKind = "enum-union"
	ShapePlainUnion      ShapeKind = "union"
	ShapeLiteral         ShapeKind = "literal"
	ShapePrimitive       ShapeKind = "primitive"
	ShapeVoid            ShapeKind = "void"
	ShapeUnsupported     ShapeKind = "unsupported"
)

// Shape is the classification of a type, carrying whatever the resolver needs
// to build its schema. The set of implementations is closed.
type Shape interface {
	Kind() ShapeKind
}

type AsyncWrapper struct{ Inner typedesc.Type }

// Nullable is a union with null and/or undefined members. Remainder is the
// type without them.
type Nullable struct {
	Remainder typedesc.Type
	Undefined bool
}

type Array struct{ Element typedesc.Type }

type Boolean struct{}

type Unknown struct{}

type Tuple struct{ Elements []typedesc.Type }

type Date struct{}

type AnonymousObject struct{}

type GenericObject struct {
	Name      string
	Arguments []typedesc.Type
}

type NamedObject struct{ Name string }

type Intersection struct{ Members []typedesc.Type }

type EnumUnion struct {
	Name    string
	Members []typedesc.Type
}

type PlainUnion struct{ Members []typedesc.Type }

type Literal struct{ Value any }

type Primitive struct {
	Name   string
	Format string
}

type Void struct{}

// Unsupported is the fallback arm; Reason ends up in a diagnostic.
type Unsupported struct{ Reason string }

func (AsyncWrapper) Kind() ShapeKind    { return ShapeAsyncWrapper }
func (Nullable) Kind() ShapeKind        { return ShapeNullable }
func (Array) Kind() ShapeKind           { return ShapeArray }
func (Boolean) Kind() ShapeKind         { return ShapeBoolean }
func (Unknown) Kind() ShapeKind         { return ShapeUnknown }
func (Tuple) Kind() ShapeKind           { return ShapeTuple }
func (Date) Kind() ShapeKind            { return ShapeDate }
func (AnonymousObject) Kind() ShapeKind { return ShapeAnonymousObject }
func (GenericObject) Kind() ShapeKind   { return ShapeGenericObject }
func (NamedObject) Kind() ShapeKind     { return ShapeNamedObject }
func (Intersection) Kind() ShapeKind    { return ShapeIntersection }
func (EnumUnion) Kind() ShapeKind       { return ShapeEnumUnion }
func (PlainUnion) Kind() ShapeKind      { return ShapePlainUnion }
func (Literal) Kind() ShapeKind         { return ShapeLiteral }
func (Primitive) Kind() ShapeKind       { return ShapePrimitive }
func (Void) Kind() ShapeKind            { return ShapeVoid }
func (Unsupported) Kind() ShapeKind     { return ShapeUnsupported }

// Classify maps t onto exactly one Shape. The descriptor's predicates overlap
// (a nullable union is also a union, boolean is also a union of literals), so
// the order of the checks below decides the result.
func Classify(t typedesc.Type) (Shape, error) {
	switch {
	case t.IsAsyncWrapper():
		args := t.TypeArguments()
		if len(args) == 0 {
			return Unsupported{Reason: "async wrapper without a type argument"}, nil
		}
		return AsyncWrapper{Inner: args[0]}, nil
	case t.IsNullable():
		return Nullable{Remainder: t.NonNullable(), Undefined: t.IncludesUndefined()}, nil
	case t.IsArray():
		elem := t.ElementType()
		if elem == nil {
			return Unsupported{Reason: "array without an element type"}, nil
		}
		return Array{Element: elem}, nil
	case t.IsBoolean():
		return Boolean{}, nil
	case t.IsUnknown():
		return Unknown{}, nil
	case t.IsTuple():
		return Tuple{Elements: t.TupleElements()}, nil
	case t.IsObject():
		return classifyObject(t)
	case t.IsIntersection():
		return Intersection{Members: t.Members()}, nil
	case t.IsUnion():
		if !t.IsEnum() {
			return PlainUnion{Members: t.Members()}, nil
		}
		sym := t.Symbol()
		if sym == nil || sym.Name == "" {
			return nil, fmt.Errorf("%w: enum %s", ErrMissingSymbol, t.Text())
		}
		return EnumUnion{Name: sym.Name, Members: t.Members()}, nil
	case t.IsLiteral():
		switch v := t.LiteralValue().(type) {
		case string, float64, bool:
			return Literal{Value: v}, nil
		default:
			return Unsupported{Reason: fmt.Sprintf("literal of type %T", v)}, nil
		}
	}
	return classifyPrimitive(t.Text()), nil
}

func classifyObject(t typedesc.Type) (Shape, error) {
	sym := t.Symbol()
	if sym == nil || sym.Name == "" {
		return nil, fmt.Errorf("%w: object type %s", ErrMissingSymbol, t.Text())
	}
	name := sym.Name
	if name == typedesc.AnonymousName && sym.Mapped {
		name = t.Text()
	}
	switch {
	case name == "Date":
		return Date{}, nil
	case name == typedesc.AnonymousName:
		return AnonymousObject{}, nil
	case len(t.TypeArguments()) > 0:
		return GenericObject{Name: name, Arguments: t.TypeArguments()}, nil
	default:
		return NamedObject{Name: name}, nil
	}
}

func classifyPrimitive(text string) Shape {
	switch text {
	case "void", "undefined":
		return Void{}
	case "string", "number", "integer", "boolean", "object":
		return Primitive{Name: text}
	case "null":
		// OpenAPI 3.0 has no null type, only nullable on another type.
		return Unsupported{Reason: "a bare null has no schema type"}
	case "bigint":
		return Primitive{Name: "integer", Format: "int64"}
	default:
		return Unsupported{Reason: fmt.Sprintf("type %q has no schema representation", text)}
	}
}
