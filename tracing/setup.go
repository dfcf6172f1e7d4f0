// Package tracing sets up opencensus tracing for bitswap.
package tracing

import (
	"context"
	"os"

	"contrib.go.opencensus.io/exporter/jaeger"
	"go.opencensus.io/trace"
)

const defaultAgentEndpoint = "localhost:6831"

// SetupJaegerTracing registers a Jaeger exporter for serviceName and samples
// every span. The agent endpoint is read from JAEGER_ENDPOINT.
func SetupJaegerTracing(serviceName string) (*jaeger.Exporter, error) {
	agentEndpointURI := os.Getenv("JAEGER_ENDPOINT")
	if agentEndpointURI == "" {
		agentEndpointURI = defaultAgentEndpoint
	}

	je, err := jaeger.NewExporter(jaeger.Options{
		AgentEndpoint: agentEndpointURI,
		ServiceName:   serviceName,
	})
	if err != nil {
		return nil, err
	}
	trace.RegisterExporter(je)
	trace.ApplyConfig(trace.Config{
		DefaultSampler: trace.AlwaysSample(),
	})
	return je, nil
}

// StartSpan starts a span named after a bitswap operation.
func StartSpan(ctx context.Context, name string, opts ...trace.StartOption) (context.Context, *trace.Span) {
	return trace.StartSpan(ctx, "Bitswap."+name, opts...)
}
