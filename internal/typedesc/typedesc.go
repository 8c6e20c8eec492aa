// Package typedesc defines the read-only view of a type node that the schema
// resolver consumes. Implementations wrap whatever introspection layer produced
// the type graph (a compiler's type checker, a serialized metadata dump, ...).
package typedesc

// AnonymousName is the display name given to structural object types that have
// no declaration of their own (object literals, inline type literals).
const AnonymousName = "__type"

// IndexKey selects which index signature to look up on an object type.
type IndexKey int

const (
	IndexString IndexKey = iota
	IndexNumber
)

func (k IndexKey) String() string {
	switch k {
	case IndexString:
		return "string"
	case IndexNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Tag is a documentation annotation attached to a declaration, e.g. the pair
// ("format", "email") for `@format email`.
type Tag struct {
	Name string `json:"name"`
	Text string `json:"text,omitempty"`
}

// Symbol is the declaration a type was resolved from.
type Symbol struct {
	// Name is the declared name, or AnonymousName for structural types.
	Name string
	// Tags are the documentation tags on the declaration itself.
	Tags []Tag
	// Mapped is true when the declaration is a generic mapping construct
	// (Record<K, V>, Partial<T>, { [K in keyof T]: ... }).
	Mapped bool
}

// Property is one declared member of an object-like type.
type Property struct {
	Name string
	Type Type
	// Optional is true for members declared with `?`.
	Optional bool
	// Readonly is true for members with an explicit immutability modifier.
	Readonly bool
	// Getter and Setter describe accessor-only members.
	Getter bool
	Setter bool
	Tags   []Tag
}

// Type is a read-only handle over a single type node. Predicates are not
// mutually exclusive: a nullable union is also a union, a boolean is also a
// union of two literals. Callers decide precedence.
type Type interface {
	// Name is the raw display name ("User", "Promise<User>", "__type").
	Name() string
	// Text is the rendered type text ("{ id: number }", "void", "string").
	Text() string
	// Symbol returns the type's declaration, or nil if it has none.
	Symbol() *Symbol

	IsAsyncWrapper() bool
	// IsNullable reports whether the type is a union with a null or undefined member.
	IsNullable() bool
	// IncludesUndefined reports whether the type is a union with an undefined member.
	IncludesUndefined() bool
	IsArray() bool
	IsBoolean() bool
	// IsUnknown reports any/unknown types whose payload is unconstrained.
	IsUnknown() bool
	IsTuple() bool
	// IsObject reports classes, interfaces and structural object types.
	IsObject() bool
	IsIntersection() bool
	IsUnion() bool
	// IsEnum reports unions that originate from an enum declaration.
	IsEnum() bool
	IsLiteral() bool
	IsEnumMember() bool

	TypeArguments() []Type
	ElementType() Type
	TupleElements() []Type
	// Members returns union or intersection constituents.
	Members() []Type
	// NonNullable returns the type with null and undefined members removed.
	NonNullable() Type
	// WithoutUndefined returns the type with only undefined members removed.
	WithoutUndefined() Type
	Properties() []Property
	// IndexSignature returns the value type of the index signature keyed by
	// key, or nil when the type declares none.
	IndexSignature(key IndexKey) Type
	// LiteralValue is a string, float64 or bool for literal types.
	LiteralValue() any
}
