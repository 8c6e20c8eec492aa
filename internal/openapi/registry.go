package openapi

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// nameCacheSize bounds the memo of raw → normalized names.
const nameCacheSize = 4096

// Registry holds the named schemas of one document. A name is claimed before
// its body is built, so a type that refers to itself while its body is still
// being filled resolves to a reference instead of recursing forever.
//
// Registry is not safe for concurrent use.
type Registry struct {
	schemas    map[string]*Schema
	normalizer NameNormalizer
	names      *lru.Cache[string, string]
	// added lists names in the order they were claimed or registered.
	added []string
}

// NewRegistry creates an empty registry that normalizes names with n.
func NewRegistry(n NameNormalizer) *Registry {
	names, _ := lru.New[string, string](nameCacheSize)
	return &Registry{
		schemas:    make(map[string]*Schema),
		normalizer: n,
		names:      names,
	}
}

// Normalize returns the component name for a raw display name.
func (r *Registry) Normalize(raw string) string {
	if name, ok := r.names.Get(raw); ok {
		return name
	}
	name := r.normalizer.Normalize(raw)
	r.names.Add(raw, name)
	return name
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.schemas[name]
	return ok
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (*Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Reserve claims name. When the name was free it registers an empty schema
// and returns it with claimed set; the caller fills that schema in place.
// When the name was taken it returns the existing schema and false.
func (r *Registry) Reserve(name string) (schema *Schema, claimed bool) {
	if s, ok := r.schemas[name]; ok {
		return s, false
	}
	s := &Schema{}
	r.schemas[name] = s
	r.added = append(r.added, name)
	return s, true
}

// Register stores schema under name unless the name is already taken, and
// reports whether it was stored.
func (r *Registry) Register(name string, schema *Schema) bool {
	if r.Has(name) {
		return false
	}
	r.schemas[name] = schema
	r.added = append(r.added, name)
	return true
}

// mark returns a position to roll back to.
func (r *Registry) mark() int {
	return len(r.added)
}

// rollback drops every name claimed or registered since m, filled or not.
func (r *Registry) rollback(m int) {
	for _, name := range r.added[m:] {
		delete(r.schemas, name)
	}
	r.added = r.added[:m]
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	return len(r.schemas)
}

// Schemas returns the live name → schema map.
func (r *Registry) Schemas() map[string]*Schema {
	return r.schemas
}
