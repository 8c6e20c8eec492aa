package openapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/tsgonest/typeschema/internal/diagnostic"
	"github.com/tsgonest/typeschema/internal/typedesc"
)

// Version is the OpenAPI version written into generated documents.
const Version = "3.0.3"

// Document is an OpenAPI document whose components/schemas is the live
// registry of the run that produced it.
type Document struct {
	OpenAPI    string     `json:"openapi"`
	Info       Info       `json:"info"`
	Paths      Paths      `json:"paths"`
	Components Components `json:"components"`
}

// Info holds API metadata.
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitzero"`
	Version     string `json:"version"`
}

// Paths is always empty: operations are described by other tools, this one
// contributes schemas. It is kept so the document stays a valid OpenAPI object.
type Paths struct{}

// Components holds reusable schemas.
type Components struct {
	Schemas map[string]*Schema `json:"schemas"`
}

// DocumentConfig holds document-level overrides.
type DocumentConfig struct {
	Title       string
	Description string
	Version     string
}

// ApplyConfig applies document-level configuration overrides.
func (doc *Document) ApplyConfig(cfg DocumentConfig) {
	if cfg.Title != "" {
		doc.Info.Title = cfg.Title
	}
	if cfg.Description != "" {
		doc.Info.Description = cfg.Description
	}
	if cfg.Version != "" {
		doc.Info.Version = cfg.Version
	}
}

// ToJSON serializes the document with indentation and sorted component names.
func (doc *Document) ToJSON() ([]byte, error) {
	return json.Marshal(doc, json.Deterministic(true), jsontext.WithIndent("  "))
}

// ToYAML serializes the document as YAML, keeping the key order of ToJSON.
func (doc *Document) ToYAML() ([]byte, error) {
	data, err := doc.ToJSON()
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("converting document to YAML: %w", err)
	}
	plainStyle(&node)
	return yaml.Marshal(&node)
}

// plainStyle drops the JSON flow and quoting styles the YAML decoder records,
// leaving block style with quotes only where YAML needs them.
func plainStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plainStyle(c)
	}
}

// Generator resolves top-level types into one document. Describe calls are
// serialized, so a Generator may be shared between goroutines even though the
// registry underneath is not.
type Generator struct {
	mu          sync.Mutex
	doc         *Document
	registry    *Registry
	resolver    *Resolver
	diagnostics *diagnostic.Collector
	telemetry   *telemetry
}

// Option configures a Generator.
type Option func(*generatorConfig)

type generatorConfig struct {
	diagnostics    *diagnostic.Collector
	normalizer     NameNormalizer
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithDiagnostics routes non-fatal findings to c.
func WithDiagnostics(c *diagnostic.Collector) Option {
	return func(cfg *generatorConfig) { cfg.diagnostics = c }
}

// WithAsyncWrapper sets the wrapper type stripped from names.
func WithAsyncWrapper(name string) Option {
	return func(cfg *generatorConfig) { cfg.normalizer.AsyncWrapper = name }
}

// WithTracerProvider sets a custom tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *generatorConfig) { cfg.tracerProvider = tp }
}

// WithMeterProvider sets a custom meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *generatorConfig) { cfg.meterProvider = mp }
}

// NewGenerator creates a generator with an empty document.
func NewGenerator(opts ...Option) *Generator {
	cfg := &generatorConfig{normalizer: NameNormalizer{AsyncWrapper: DefaultAsyncWrapper}}
	for _, opt := range opts {
		opt(cfg)
	}
	registry := NewRegistry(cfg.normalizer)
	return &Generator{
		doc: &Document{
			OpenAPI:    Version,
			Info:       Info{Title: "Schemas", Version: "1.0.0"},
			Components: Components{Schemas: registry.Schemas()},
		},
		registry:    registry,
		resolver:    NewResolver(registry, cfg.diagnostics),
		diagnostics: cfg.diagnostics,
		telemetry:   newTelemetry(cfg.tracerProvider, cfg.meterProvider),
	}
}

// Document returns the document being built.
func (g *Generator) Document() *Document {
	return g.doc
}

// Registry returns the registry behind components/schemas.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// Describe resolves t and returns its top-level schema. When it fails, no
// definition it added stays in the registry.
func (g *Generator) Describe(ctx context.Context, t typedesc.Type) (*Schema, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.describe(ctx, t)
}

// DescribeNamed resolves t like Describe and, when the result is inline,
// also registers it under name so that aliases such as
// `type Page = Paginated<User>` show up in components.
func (g *Generator) DescribeNamed(ctx context.Context, name string, t typedesc.Type) (*Schema, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, err := g.describe(ctx, t)
	if err != nil || s.IsRef() {
		return s, err
	}
	component := g.registry.Normalize(name)
	if !g.registry.Register(component, s) {
		return s, nil
	}
	return Ref(component), nil
}

func (g *Generator) describe(ctx context.Context, t typedesc.Type) (*Schema, error) {
	ctx, span := g.telemetry.tracer.Start(ctx, "typeschema.resolve",
		trace.WithAttributes(attribute.String("typeschema.type", t.Name())),
	)
	defer span.End()

	registeredBefore := g.registry.Len()
	warningsBefore := g.diagnostics.Len()

	s, err := g.resolver.Resolve(t)

	registered := g.registry.Len() - registeredBefore
	warnings := g.diagnostics.Len() - warningsBefore
	span.SetAttributes(
		attribute.Int("typeschema.schemas.registered", registered),
		attribute.Int("typeschema.warnings", warnings),
	)

	outcome := "inline"
	switch {
	case err != nil:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case s.IsRef():
		outcome = "ref"
	}
	g.telemetry.record(ctx, outcome, registered, warnings)
	return s, err
}
