// Package typegraph is a serializable type graph that implements
// typedesc.Type. It is the normalized form a type-introspection pass dumps to
// disk, and the input the typeschema CLI reads.
//
// Named declarations live in Graph.Declarations; any node may point at one
// with {"kind": "ref", "ref": "Name"}, which is how self-referential and
// mutually-referential types are expressed.
package typegraph

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/tsgonest/typeschema/internal/typedesc"
)

// Kind identifies the primary kind of a node.
type Kind string

const (
	KindAny          Kind = "any"
	KindUnknown      Kind = "unknown"
	KindNever        Kind = "never"
	KindVoid         Kind = "void"
	KindNull         Kind = "null"
	KindUndefined    Kind = "undefined"
	KindPrimitive    Kind = "primitive"    // string, number, boolean, bigint
	KindLiteral      Kind = "literal"      // "a", 1, true, or an enum member
	KindObject       Kind = "object"       // class, interface, object literal
	KindArray        Kind = "array"        // T[]
	KindTuple        Kind = "tuple"        // [A, B]
	KindUnion        Kind = "union"        // A | B, enums
	KindIntersection Kind = "intersection" // A & B
	KindPromise      Kind = "promise"      // Promise<T>
	KindRef          Kind = "ref"          // reference to a declaration
)

// Graph is a set of named declarations plus the subset of them to describe.
type Graph struct {
	Declarations map[string]*Node `json:"declarations"`
	// Roots lists declarations to emit. Empty means all, in name order.
	Roots []string `json:"roots,omitzero"`
}

// Node is one type in the graph.
type Node struct {
	Kind Kind `json:"kind"`

	// Name is the declared name. Empty object nodes are anonymous.
	Name string `json:"name,omitzero"`
	// Text overrides the rendered type text.
	Text string `json:"text,omitzero"`

	// Primitive holds the primitive name for KindPrimitive.
	Primitive string `json:"primitive,omitzero"`
	// Value holds the literal value for KindLiteral.
	Value any `json:"value,omitzero"`
	// EnumMember marks a literal as a member of an enum declaration.
	EnumMember bool `json:"enumMember,omitzero"`
	// Enum marks a union as an enum declaration.
	Enum bool `json:"enum,omitzero"`
	// Mapped marks an object produced by a mapped type (Record, Partial, ...).
	Mapped bool `json:"mapped,omitzero"`

	Tags []typedesc.Tag `json:"tags,omitzero"`

	Element       *Node      `json:"element,omitzero"`
	Elements      []*Node    `json:"elements,omitzero"`
	Members       []*Node    `json:"members,omitzero"`
	TypeArguments []*Node    `json:"typeArguments,omitzero"`
	Properties    []Property `json:"properties,omitzero"`
	StringIndex   *Node      `json:"stringIndex,omitzero"`
	NumberIndex   *Node      `json:"numberIndex,omitzero"`

	// Ref names a declaration for KindRef.
	Ref string `json:"ref,omitzero"`
}

// Property is a declared member of an object node.
type Property struct {
	Name     string         `json:"name"`
	Type     *Node          `json:"type"`
	Optional bool           `json:"optional,omitzero"`
	Readonly bool           `json:"readonly,omitzero"`
	Getter   bool           `json:"getter,omitzero"`
	Setter   bool           `json:"setter,omitzero"`
	Tags     []typedesc.Tag `json:"tags,omitzero"`
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{Declarations: make(map[string]*Node)}
}

// Declare adds a named declaration. Unnamed object and enum nodes take the
// declaration name.
func (g *Graph) Declare(name string, n *Node) {
	if g.Declarations == nil {
		g.Declarations = make(map[string]*Node)
	}
	if n.Name == "" && (n.Kind == KindObject || (n.Kind == KindUnion && n.Enum)) {
		n.Name = name
	}
	g.Declarations[name] = n
}

// Lookup returns the declaration called name as a typedesc.Type.
func (g *Graph) Lookup(name string) (typedesc.Type, bool) {
	n, ok := g.Declarations[name]
	if !ok {
		return nil, false
	}
	return g.wrap(n), true
}

// RootNames returns the declarations to describe.
func (g *Graph) RootNames() []string {
	if len(g.Roots) > 0 {
		return g.Roots
	}
	names := make([]string, 0, len(g.Declarations))
	for name := range g.Declarations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Type wraps a free-standing node (one not stored in Declarations) so it can
// be resolved against the graph's declarations.
func (g *Graph) Type(n *Node) typedesc.Type {
	return g.wrap(n)
}

// Validate checks that every ref points at a declaration and every root exists.
func (g *Graph) Validate() error {
	for _, root := range g.Roots {
		if _, ok := g.Declarations[root]; !ok {
			return fmt.Errorf("root %q is not declared", root)
		}
	}
	names := make([]string, 0, len(g.Declarations))
	for name := range g.Declarations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := g.validateNode(g.Declarations[name], name); err != nil {
			return err
		}
	}
	return g.checkCycles(names)
}

// breaksCycle reports whether n is resolved to a reference. Named non-generic
// objects and enums are registered under their name before their body is
// built, so a cycle through one of them terminates.
func breaksCycle(n *Node) bool {
	switch n.Kind {
	case KindObject:
		return n.Name != "" && len(n.TypeArguments) == 0
	case KindUnion:
		return n.Enum
	}
	return false
}

// checkCycles rejects declarations that reach themselves only through nodes
// that are inlined (unions, arrays, tuples, intersections, promises, refs,
// anonymous or generic objects). Such a type has no finite schema.
func (g *Graph) checkCycles(names []string) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(names))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			i := slices.Index(stack, name)
			cycle := append(slices.Clone(stack[i:]), name)
			return fmt.Errorf("type %q refers to itself through %s with no named object or enum in between",
				name, strings.Join(cycle, " -> "))
		}
		state[name] = visiting
		stack = append(stack, name)
		var refs []string
		if decl := g.Declarations[name]; !breaksCycle(decl) {
			inlineRefs(decl, &refs)
		}
		for _, ref := range refs {
			if err := visit(ref); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// inlineRefs collects the declarations n refers to without passing through a
// node that breaks cycles.
func inlineRefs(n *Node, out *[]string) {
	if n == nil {
		return
	}
	if n.Kind == KindRef {
		*out = append(*out, n.Ref)
		return
	}
	if breaksCycle(n) {
		return
	}
	inlineRefs(n.Element, out)
	for _, group := range [][]*Node{n.Elements, n.Members, n.TypeArguments} {
		for _, c := range group {
			inlineRefs(c, out)
		}
	}
	for _, p := range n.Properties {
		inlineRefs(p.Type, out)
	}
	inlineRefs(n.StringIndex, out)
	inlineRefs(n.NumberIndex, out)
}

func (g *Graph) validateNode(n *Node, path string) error {
	if n == nil {
		return fmt.Errorf("%s: missing node", path)
	}
	switch n.Kind {
	case KindRef:
		if _, ok := g.Declarations[n.Ref]; !ok {
			return fmt.Errorf("%s: reference to undeclared type %q", path, n.Ref)
		}
	case KindArray:
		return g.validateNode(n.Element, path+".element")
	case "":
		return fmt.Errorf("%s: kind is required", path)
	}
	for i, c := range n.Elements {
		if err := g.validateNode(c, fmt.Sprintf("%s.elements[%d]", path, i)); err != nil {
			return err
		}
	}
	for i, c := range n.Members {
		if err := g.validateNode(c, fmt.Sprintf("%s.members[%d]", path, i)); err != nil {
			return err
		}
	}
	for i, c := range n.TypeArguments {
		if err := g.validateNode(c, fmt.Sprintf("%s.typeArguments[%d]", path, i)); err != nil {
			return err
		}
	}
	for _, p := range n.Properties {
		if err := g.validateNode(p.Type, path+"."+p.Name); err != nil {
			return err
		}
	}
	if n.StringIndex != nil {
		if err := g.validateNode(n.StringIndex, path+"[string]"); err != nil {
			return err
		}
	}
	if n.NumberIndex != nil {
		if err := g.validateNode(n.NumberIndex, path+"[number]"); err != nil {
			return err
		}
	}
	return nil
}

// wrap follows ref chains to the declaration they name. A dangling ref
// becomes a never node so resolution degrades instead of crashing.
func (g *Graph) wrap(n *Node) *nodeType {
	for hops := 0; n != nil && n.Kind == KindRef; hops++ {
		decl, ok := g.Declarations[n.Ref]
		if !ok || hops > len(g.Declarations) {
			n = &Node{Kind: KindNever, Text: "unresolved " + n.Ref}
			break
		}
		n = decl
	}
	if n == nil {
		n = &Node{Kind: KindNever}
	}
	return &nodeType{g: g, n: n}
}

// nodeType implements typedesc.Type over a Node.
type nodeType struct {
	g *Graph
	n *Node
}

var _ typedesc.Type = (*nodeType)(nil)

func (t *nodeType) Name() string {
	if t.n.Kind != KindObject {
		return t.Text()
	}
	if t.n.Name == "" {
		return typedesc.AnonymousName
	}
	if len(t.n.TypeArguments) == 0 {
		return t.n.Name
	}
	return t.n.Name + "<" + t.joinText(t.n.TypeArguments, ", ") + ">"
}

func (t *nodeType) Text() string {
	n := t.n
	if n.Text != "" {
		return n.Text
	}
	switch n.Kind {
	case KindPrimitive:
		return n.Primitive
	case KindLiteral:
		switch v := n.Value.(type) {
		case string:
			return strconv.Quote(v)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return fmt.Sprint(v)
		}
	case KindArray:
		return t.g.wrap(n.Element).Text() + "[]"
	case KindTuple:
		return "[" + t.joinText(n.Elements, ", ") + "]"
	case KindUnion:
		if n.Name != "" {
			return n.Name
		}
		return t.joinText(n.Members, " | ")
	case KindIntersection:
		return t.joinText(n.Members, " & ")
	case KindPromise:
		return "Promise<" + t.joinText(n.TypeArguments, ", ") + ">"
	case KindObject:
		if n.Name != "" {
			return t.Name()
		}
		return t.objectLiteralText()
	default:
		return string(n.Kind)
	}
}

func (t *nodeType) objectLiteralText() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, p := range t.n.Properties {
		if p.Readonly {
			sb.WriteString("readonly ")
		}
		sb.WriteString(p.Name)
		if p.Optional {
			sb.WriteString("?")
		}
		sb.WriteString(": ")
		sb.WriteString(t.g.wrap(p.Type).Text())
		sb.WriteString("; ")
	}
	if t.n.StringIndex != nil {
		sb.WriteString("[key: string]: " + t.g.wrap(t.n.StringIndex).Text() + "; ")
	}
	if t.n.NumberIndex != nil {
		sb.WriteString("[key: number]: " + t.g.wrap(t.n.NumberIndex).Text() + "; ")
	}
	sb.WriteString("}")
	return sb.String()
}

func (t *nodeType) joinText(nodes []*Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, c := range nodes {
		parts[i] = t.g.wrap(c).Text()
	}
	return strings.Join(parts, sep)
}

func (t *nodeType) Symbol() *typedesc.Symbol {
	n := t.n
	switch {
	case n.Kind == KindObject:
		name := n.Name
		if name == "" {
			name = typedesc.AnonymousName
		}
		return &typedesc.Symbol{Name: name, Tags: n.Tags, Mapped: n.Mapped}
	case n.Name != "" || len(n.Tags) > 0:
		return &typedesc.Symbol{Name: n.Name, Tags: n.Tags}
	default:
		return nil
	}
}

func (t *nodeType) IsAsyncWrapper() bool { return t.n.Kind == KindPromise }

func (t *nodeType) IsNullable() bool {
	return t.hasMember(KindNull) || t.hasMember(KindUndefined)
}

func (t *nodeType) IncludesUndefined() bool { return t.hasMember(KindUndefined) }

func (t *nodeType) hasMember(kind Kind) bool {
	if t.n.Kind != KindUnion {
		return false
	}
	for _, m := range t.n.Members {
		if t.g.wrap(m).n.Kind == kind {
			return true
		}
	}
	return false
}

func (t *nodeType) IsArray() bool { return t.n.Kind == KindArray }

// IsBoolean is true for the boolean primitive and for the true | false union
// a checker reports it as.
func (t *nodeType) IsBoolean() bool {
	n := t.n
	if n.Kind == KindPrimitive {
		return n.Primitive == "boolean"
	}
	if n.Kind != KindUnion || len(n.Members) != 2 {
		return false
	}
	seen := map[bool]bool{}
	for _, m := range n.Members {
		mn := t.g.wrap(m).n
		b, ok := mn.Value.(bool)
		if mn.Kind != KindLiteral || !ok {
			return false
		}
		seen[b] = true
	}
	return seen[true] && seen[false]
}

func (t *nodeType) IsUnknown() bool {
	return t.n.Kind == KindAny || t.n.Kind == KindUnknown
}

func (t *nodeType) IsTuple() bool        { return t.n.Kind == KindTuple }
func (t *nodeType) IsObject() bool       { return t.n.Kind == KindObject }
func (t *nodeType) IsIntersection() bool { return t.n.Kind == KindIntersection }
func (t *nodeType) IsUnion() bool        { return t.n.Kind == KindUnion }
func (t *nodeType) IsEnum() bool         { return t.n.Kind == KindUnion && t.n.Enum }
func (t *nodeType) IsLiteral() bool      { return t.n.Kind == KindLiteral }
func (t *nodeType) IsEnumMember() bool   { return t.n.Kind == KindLiteral && t.n.EnumMember }

func (t *nodeType) TypeArguments() []typedesc.Type { return t.wrapAll(t.n.TypeArguments) }
func (t *nodeType) TupleElements() []typedesc.Type { return t.wrapAll(t.n.Elements) }
func (t *nodeType) Members() []typedesc.Type       { return t.wrapAll(t.n.Members) }

func (t *nodeType) ElementType() typedesc.Type {
	if t.n.Element == nil {
		return nil
	}
	return t.g.wrap(t.n.Element)
}

func (t *nodeType) wrapAll(nodes []*Node) []typedesc.Type {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]typedesc.Type, len(nodes))
	for i, n := range nodes {
		out[i] = t.g.wrap(n)
	}
	return out
}

func (t *nodeType) NonNullable() typedesc.Type {
	return t.without(KindNull, KindUndefined)
}

func (t *nodeType) WithoutUndefined() typedesc.Type {
	return t.without(KindUndefined)
}

// without drops union members of the given kinds. A single survivor replaces
// the union entirely.
func (t *nodeType) without(kinds ...Kind) typedesc.Type {
	if t.n.Kind != KindUnion {
		return t
	}
	var kept []*Node
	for _, m := range t.n.Members {
		drop := false
		mk := t.g.wrap(m).n.Kind
		for _, k := range kinds {
			if mk == k {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, m)
		}
	}
	switch len(kept) {
	case len(t.n.Members):
		return t
	case 0:
		return t.g.wrap(&Node{Kind: KindNever})
	case 1:
		return t.g.wrap(kept[0])
	}
	clone := *t.n
	clone.Members = kept
	clone.Text = ""
	return &nodeType{g: t.g, n: &clone}
}

func (t *nodeType) Properties() []typedesc.Property {
	if len(t.n.Properties) == 0 {
		return nil
	}
	props := make([]typedesc.Property, len(t.n.Properties))
	for i, p := range t.n.Properties {
		props[i] = typedesc.Property{
			Name:     p.Name,
			Type:     t.g.wrap(p.Type),
			Optional: p.Optional,
			Readonly: p.Readonly,
			Getter:   p.Getter,
			Setter:   p.Setter,
			Tags:     p.Tags,
		}
	}
	return props
}

func (t *nodeType) IndexSignature(key typedesc.IndexKey) typedesc.Type {
	var n *Node
	switch key {
	case typedesc.IndexString:
		n = t.n.StringIndex
	case typedesc.IndexNumber:
		n = t.n.NumberIndex
	}
	if n == nil {
		return nil
	}
	return t.g.wrap(n)
}

func (t *nodeType) LiteralValue() any {
	switch v := t.n.Value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return v
	}
}
