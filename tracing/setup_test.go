package tracing

import (
	"context"
	"sync"
	"testing"

	"go.opencensus.io/trace"
)

type recordingExporter struct {
	lk    sync.Mutex
	names []string
}

func (re *recordingExporter) ExportSpan(sd *trace.SpanData) {
	re.lk.Lock()
	defer re.lk.Unlock()
	re.names = append(re.names, sd.Name)
}

func TestStartSpanPrefixesName(t *testing.T) {
	re := &recordingExporter{}
	trace.RegisterExporter(re)
	defer trace.UnregisterExporter(re)

	ctx, parent := StartSpan(context.Background(), "Parent", trace.WithSampler(trace.AlwaysSample()))
	_, child := StartSpan(ctx, "Child")
	child.End()
	parent.End()

	re.lk.Lock()
	defer re.lk.Unlock()
	if len(re.names) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(re.names))
	}
	if re.names[0] != "Bitswap.Child" || re.names[1] != "Bitswap.Parent" {
		t.Fatalf("unexpected span names %v", re.names)
	}
}

func TestSetupJaegerTracing(t *testing.T) {
	je, err := SetupJaegerTracing("bitswap-test")
	if err != nil {
		t.Fatal(err)
	}
	defer trace.UnregisterExporter(je)
	defer trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(1e-4)})
	je.Flush()
}
