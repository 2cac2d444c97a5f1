package tracer

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/stdr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type TracerArgs struct {
	OtlpEndpoint string `arg:"--otlp-endpoint,env:OTLP_ENDPOINT" default:""`
}

type Span struct {
	c    context.Context
	span oteltrace.Span
}

func (s Span) Context() context.Context {
	return s.c
}

func (s Span) End() {
	s.span.End()
}

func (s Span) SetIntAttribute(attrName string, val int) {
	s.span.SetAttributes(attribute.Int(attrName, val))
}

func (s Span) SetStringAttribute(attrName string, val string) {
	s.span.SetAttributes(attribute.String(attrName, val))
}

// RecordError marks the span as failed with err.
func (s Span) RecordError(err error) {
	s.span.RecordError(err)
}

// StartSpan starts a span under the global provider. Until InitProvider
// runs, that provider is a no-op and so are the spans.
func StartSpan(ctx context.Context, name string) Span {
	tracer := otel.Tracer("lispy")
	cCtx, span := tracer.Start(ctx, name)
	return Span{
		c:    cCtx,
		span: span,
	}
}

// InitProvider exports spans over OTLP gRPC to endpoint. The returned
// function flushes and stops the exporter.
func InitProvider(endpoint string) (func(context.Context) error, error) {
	ctx := context.Background()

	traceExporter, err := otlptracegrpc.New(
		ctx, otlptracegrpc.WithInsecure(), otlptracegrpc.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter, err: %v", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithBatcher(traceExporter))

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	// dropped spans are only reported through this logger
	stdrLogger := stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile))
	stdr.SetVerbosity(1)
	otel.SetLogger(stdrLogger)

	return tp.Shutdown, nil
}
