package typegraph

import "github.com/tsgonest/typeschema/internal/typedesc"

// Constructors for building graphs in code. They keep test fixtures and
// programmatic callers short.

func Primitive(name string) *Node { return &Node{Kind: KindPrimitive, Primitive: name} }

func String() *Node  { return Primitive("string") }
func Number() *Node  { return Primitive("number") }
func Boolean() *Node { return Primitive("boolean") }

func Null() *Node      { return &Node{Kind: KindNull} }
func Undefined() *Node { return &Node{Kind: KindUndefined} }
func Void() *Node      { return &Node{Kind: KindVoid} }
func Any() *Node       { return &Node{Kind: KindAny} }

func Literal(v any) *Node { return &Node{Kind: KindLiteral, Value: v} }

// EnumMember is a literal that belongs to the enum declared as enum.
func EnumMember(enum, member string, v any) *Node {
	return &Node{Kind: KindLiteral, Value: v, EnumMember: true, Text: enum + "." + member}
}

func Ref(name string) *Node { return &Node{Kind: KindRef, Ref: name} }

func Array(elem *Node) *Node { return &Node{Kind: KindArray, Element: elem} }

func Tuple(elems ...*Node) *Node { return &Node{Kind: KindTuple, Elements: elems} }

func Union(members ...*Node) *Node { return &Node{Kind: KindUnion, Members: members} }

func Intersection(members ...*Node) *Node { return &Node{Kind: KindIntersection, Members: members} }

func Promise(inner *Node) *Node { return &Node{Kind: KindPromise, TypeArguments: []*Node{inner}} }

// Enum is a union of enum members declared under name.
func Enum(name string, members ...*Node) *Node {
	return &Node{Kind: KindUnion, Enum: true, Name: name, Members: members}
}

// Object is an object type. An empty name makes it anonymous.
func Object(name string, props ...Property) *Node {
	return &Node{Kind: KindObject, Name: name, Properties: props}
}

// Generic is a named object instantiated with type arguments.
func Generic(name string, args []*Node, props ...Property) *Node {
	return &Node{Kind: KindObject, Name: name, TypeArguments: args, Properties: props}
}

// Prop is a required property.
func Prop(name string, t *Node, tags ...typedesc.Tag) Property {
	return Property{Name: name, Type: t, Tags: tags}
}

// OptionalProp is a property declared with `?`.
func OptionalProp(name string, t *Node, tags ...typedesc.Tag) Property {
	return Property{Name: name, Type: t, Optional: true, Tags: tags}
}

// Tag is shorthand for a documentation tag.
func Tag(name, text string) typedesc.Tag { return typedesc.Tag{Name: name, Text: text} }
