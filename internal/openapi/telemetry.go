package openapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/tsgonest/typeschema/internal/openapi"

type telemetry struct {
	tracer      trace.Tracer
	resolutions metric.Int64Counter
	registered  metric.Int64Counter
	warnings    metric.Int64Counter
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName, metric.WithInstrumentationVersion("1.0.0"))

	resolutions, _ := meter.Int64Counter(
		"typeschema.resolutions",
		metric.WithDescription("Top-level type resolutions"),
		metric.WithUnit("{resolution}"),
	)
	registered, _ := meter.Int64Counter(
		"typeschema.schemas.registered",
		metric.WithDescription("Named schemas added to components"),
		metric.WithUnit("{schema}"),
	)
	warnings, _ := meter.Int64Counter(
		"typeschema.warnings",
		metric.WithDescription("Diagnostics raised while resolving"),
		metric.WithUnit("{diagnostic}"),
	)

	return &telemetry{
		tracer:      tp.Tracer(instrumentationName, trace.WithInstrumentationVersion("1.0.0")),
		resolutions: resolutions,
		registered:  registered,
		warnings:    warnings,
	}
}

func (t *telemetry) record(ctx context.Context, outcome string, registered, warnings int) {
	attrs := metric.WithAttributes(attribute.String("typeschema.outcome", outcome))
	t.resolutions.Add(ctx, 1, attrs)
	if registered > 0 {
		t.registered.Add(ctx, int64(registered))
	}
	if warnings > 0 {
		t.warnings.Add(ctx, int64(warnings))
	}
}
