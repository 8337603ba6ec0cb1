package pipeline

import (
	"context"
	"slices"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestExecuteRecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	opts := defaultOptions()
	opts.Views = []string{"a", "b"}
	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	counts := map[string]int{}
	var root sdktrace.ReadOnlySpan
	for _, s := range rec.Ended() {
		counts[s.Name()]++
		if s.Name() == "pipeline.execute" {
			root = s
		}
	}
	want := map[string]int{
		"pipeline.execute": 1,
		"pipeline.compute": 1,
		"engine.compute":   1,
		"pipeline.render":  1,
		"render.artifact":  2,
	}
	for name, n := range want {
		if counts[name] != n {
			t.Errorf("%s spans = %d, want %d", name, counts[name], n)
		}
	}

	if root == nil {
		t.Fatal("no pipeline.execute span")
	}
	for _, s := range rec.Ended() {
		if s.SpanContext().TraceID() != root.SpanContext().TraceID() {
			t.Errorf("span %s is outside the execute trace", s.Name())
		}
	}

	var kinds []string
	for _, s := range rec.Ended() {
		if s.Name() != "render.artifact" {
			continue
		}
		for _, kv := range s.Attributes() {
			if kv.Key == "view" {
				kinds = append(kinds, kv.Value.AsString())
			}
		}
	}
	slices.Sort(kinds)
	if !slices.Equal(kinds, []string{"a", "b"}) {
		t.Errorf("rendered views = %v, want [a b]", kinds)
	}
}
