package typegraph

import (
	"fmt"
	"os"

	"github.com/go-json-experiment/json"
	"github.com/kaptinlin/jsonrepair"
)

// LoadResult is a decoded graph plus how it was obtained.
type LoadResult struct {
	Graph *Graph
	// Repaired is true when the input was not valid JSON and had to be
	// repaired (trailing commas, comments, single quotes) before decoding.
	Repaired bool
}

// Load reads and decodes a type graph file.
func Load(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read type graph %q: %w", path, err)
	}
	res, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse type graph %q: %w", path, err)
	}
	return res, nil
}

// Parse decodes a type graph. Unknown members are rejected so that typos in
// hand-written graphs surface instead of silently dropping structure.
// Syntactically broken input gets one repair attempt.
func Parse(data []byte) (*LoadResult, error) {
	g, err := decode(data)
	if err == nil {
		return &LoadResult{Graph: g}, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil || repaired == string(data) {
		return nil, err
	}
	g, retryErr := decode([]byte(repaired))
	if retryErr != nil {
		return nil, err
	}
	return &LoadResult{Graph: g, Repaired: true}, nil
}

func decode(data []byte) (*Graph, error) {
	g := New()
	if err := json.Unmarshal(data, g, json.RejectUnknownMembers(true)); err != nil {
		return nil, err
	}
	for name, n := range g.Declarations {
		if n == nil {
			return nil, fmt.Errorf("declaration %q is null", name)
		}
		g.Declare(name, n)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Marshal encodes a graph with deterministic member order.
func Marshal(g *Graph) ([]byte, error) {
	return json.Marshal(g, json.Deterministic(true))
}
