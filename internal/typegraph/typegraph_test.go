package typegraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgonest/typeschema/internal/typedesc"
)

const usersGraph = `{
  "declarations": {
    "User": {
      "kind": "object",
      "tags": [{"name": "description", "text": "A user"}],
      "properties": [
        {"name": "id", "type": {"kind": "primitive", "primitive": "string"}, "readonly": true},
        {"name": "email", "type": {"kind": "union", "members": [
          {"kind": "primitive", "primitive": "string"},
          {"kind": "null"},
          {"kind": "undefined"}
        ]}, "optional": true},
        {"name": "status", "type": {"kind": "ref", "ref": "Status"}},
        {"name": "friends", "type": {"kind": "array", "element": {"kind": "ref", "ref": "User"}}}
      ]
    },
    "Status": {
      "kind": "union",
      "enum": true,
      "members": [
        {"kind": "literal", "value": "active", "enumMember": true, "text": "Status.Active"},
        {"kind": "literal", "value": "banned", "enumMember": true, "text": "Status.Banned"}
      ]
    }
  },
  "roots": ["User"]
}`

func TestParse(t *testing.T) {
	res, err := Parse([]byte(usersGraph))
	require.NoError(t, err)
	assert.False(t, res.Repaired)

	g := res.Graph
	assert.Equal(t, []string{"User"}, g.RootNames())

	user, ok := g.Lookup("User")
	require.True(t, ok)
	assert.True(t, user.IsObject())
	assert.Equal(t, "User", user.Name())
	require.NotNil(t, user.Symbol())
	assert.Equal(t, "User", user.Symbol().Name)
	assert.Equal(t, []typedesc.Tag{{Name: "description", Text: "A user"}}, user.Symbol().Tags)

	props := user.Properties()
	require.Len(t, props, 4)
	assert.Equal(t, "id", props[0].Name)
	assert.True(t, props[0].Readonly)
	assert.True(t, props[1].Optional)

	status := props[2].Type
	assert.True(t, status.IsEnum(), "refs resolve to their declaration")
	assert.Equal(t, "Status", status.Symbol().Name)
	members := status.Members()
	require.Len(t, members, 2)
	assert.True(t, members[0].IsEnumMember())
	assert.Equal(t, "active", members[0].LiteralValue())

	friends := props[3].Type
	require.True(t, friends.IsArray())
	assert.Equal(t, "User", friends.ElementType().Name())
	assert.Equal(t, "User[]", friends.Text())
}

func TestParse_RejectsUnknownMembers(t *testing.T) {
	_, err := Parse([]byte(`{"declarations": {"A": {"kind": "object", "propertys": []}}}`))
	assert.Error(t, err)
}

func TestParse_RejectsDanglingRef(t *testing.T) {
	_, err := Parse([]byte(`{"declarations": {"A": {"kind": "ref", "ref": "Missing"}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Missing"`)
}

func TestParse_RejectsUnknownRoot(t *testing.T) {
	_, err := Parse([]byte(`{"declarations": {}, "roots": ["Ghost"]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ghost")
}

func TestParse_RepairsBrokenInput(t *testing.T) {
	broken := `{
  // hand-written
  "declarations": {
    "Id": {"kind": "primitive", "primitive": "string",},
  },
}`
	res, err := Parse([]byte(broken))
	require.NoError(t, err)
	assert.True(t, res.Repaired)
	id, ok := res.Graph.Lookup("Id")
	require.True(t, ok)
	assert.Equal(t, "string", id.Text())
}

func TestParse_RepairDoesNotHideSchemaErrors(t *testing.T) {
	// Valid JSON with a structural problem is reported as-is.
	_, err := Parse([]byte(`{"declarations": {"A": {"kind": "ref", "ref": "B"}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared")
}

func TestParse_RejectsInlineCycles(t *testing.T) {
	tests := []struct {
		name  string
		graph string
		cycle string
	}{
		{
			name: "union through its own array",
			graph: `{"declarations": {"Json": {"kind": "union", "members": [
				{"kind": "primitive", "primitive": "string"},
				{"kind": "array", "element": {"kind": "ref", "ref": "Json"}}
			]}}}`,
			cycle: "Json -> Json",
		},
		{
			name: "two aliases",
			graph: `{"declarations": {
				"A": {"kind": "array", "element": {"kind": "ref", "ref": "B"}},
				"B": {"kind": "union", "members": [{"kind": "null"}, {"kind": "ref", "ref": "A"}]}
			}}`,
			cycle: "A -> B -> A",
		},
		{
			name: "generic object",
			graph: `{"declarations": {"Box<string>": {"kind": "object", "typeArguments": [{"kind": "primitive", "primitive": "string"}],
				"properties": [{"name": "next", "type": {"kind": "ref", "ref": "Box<string>"}}]}}}`,
			cycle: "Box<string> -> Box<string>",
		},
		{
			name: "anonymous object in an alias",
			graph: `{"declarations": {"List": {"kind": "union", "members": [{"kind": "null"},
				{"kind": "object", "properties": [{"name": "tail", "type": {"kind": "ref", "ref": "List"}}]}]}}}`,
			cycle: "List -> List",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.graph))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.cycle)
		})
	}
}

func TestParse_AllowsCyclesThroughNamedTypes(t *testing.T) {
	graph := `{"declarations": {
		"Tree": {"kind": "object", "properties": [{"name": "children", "type": {"kind": "array", "element": {"kind": "ref", "ref": "Child"}}}]},
		"Child": {"kind": "union", "members": [{"kind": "null"}, {"kind": "ref", "ref": "Tree"}]},
		"Loop": {"kind": "object", "properties": [{"name": "self", "type": {"kind": "ref", "ref": "Loop"}}]}
	}}`
	res, err := Parse([]byte(graph))
	require.NoError(t, err)
	assert.Len(t, res.Graph.Declarations, 3)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.json")
	require.NoError(t, os.WriteFile(path, []byte(usersGraph), 0o644))

	res, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, res.Graph.Declarations, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	res, err := Parse([]byte(usersGraph))
	require.NoError(t, err)

	data, err := Marshal(res.Graph)
	require.NoError(t, err)
	again, err := Parse(data)
	require.NoError(t, err)

	data2, err := Marshal(again.Graph)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(data2))
}

func TestNullability(t *testing.T) {
	g := New()

	both := g.Type(Union(String(), Null(), Undefined()))
	assert.True(t, both.IsNullable())
	assert.True(t, both.IncludesUndefined())
	assert.Equal(t, "string", both.NonNullable().Text())

	withoutUndefined := both.WithoutUndefined()
	assert.True(t, withoutUndefined.IsUnion())
	assert.True(t, withoutUndefined.IsNullable())
	assert.False(t, withoutUndefined.IncludesUndefined())
	assert.Equal(t, "string | null", withoutUndefined.Text())

	onlyNull := g.Type(Union(Number(), Null()))
	assert.True(t, onlyNull.IsNullable())
	assert.False(t, onlyNull.IncludesUndefined())

	plain := g.Type(String())
	assert.False(t, plain.IsNullable())
	assert.Same(t, plain, plain.NonNullable())
}

func TestIsBoolean(t *testing.T) {
	g := New()
	assert.True(t, g.Type(Boolean()).IsBoolean())
	assert.True(t, g.Type(Union(Literal(true), Literal(false))).IsBoolean())
	assert.False(t, g.Type(Union(Literal(true), Literal("false"))).IsBoolean())
	assert.False(t, g.Type(Literal(true)).IsBoolean())
}

func TestNamesAndText(t *testing.T) {
	g := New()
	g.Declare("User", Object(""))

	tests := []struct {
		node *Node
		name string
		text string
	}{
		{Object("", Prop("a", String()), OptionalProp("b", Number())), typedesc.AnonymousName, "{ a: string; b?: number; }"},
		{Generic("Page", []*Node{Ref("User")}), "Page<User>", "Page<User>"},
		{Promise(Ref("User")), "Promise<User>", "Promise<User>"},
		{Tuple(String(), Number()), "[string, number]", "[string, number]"},
		{Intersection(Ref("User"), Object("Extra")), "User & Extra", "User & Extra"},
		{Literal("x"), `"x"`, `"x"`},
		{Literal(float64(1.5)), "1.5", "1.5"},
		{EnumMember("Status", "A", "a"), "Status.A", "Status.A"},
		{Ref("Nope"), "unresolved Nope", "unresolved Nope"},
	}
	for _, tc := range tests {
		typ := g.Type(tc.node)
		assert.Equal(t, tc.name, typ.Name())
		assert.Equal(t, tc.text, typ.Text())
	}
}

func TestSymbol(t *testing.T) {
	g := New()

	anon := g.Type(Object(""))
	require.NotNil(t, anon.Symbol())
	assert.Equal(t, typedesc.AnonymousName, anon.Symbol().Name)

	mapped := g.Type(&Node{Kind: KindObject, Mapped: true, Text: "Partial<User>"})
	assert.True(t, mapped.Symbol().Mapped)

	assert.Nil(t, g.Type(String()).Symbol())
}

func TestIndexSignature(t *testing.T) {
	g := New()
	typ := g.Type(&Node{Kind: KindObject, StringIndex: Number()})
	require.NotNil(t, typ.IndexSignature(typedesc.IndexString))
	assert.Equal(t, "number", typ.IndexSignature(typedesc.IndexString).Text())
	assert.Nil(t, typ.IndexSignature(typedesc.IndexNumber))
}
