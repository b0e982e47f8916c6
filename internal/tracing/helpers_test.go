package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// newRecorder installs a recording tracer provider and returns the
// recorder plus a cleanup function.
func newRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder
}

func TestStartRemoteSpan_Success(t *testing.T) {
	recorder := newRecorder(t)

	_, endSpan := StartRemoteSpan(context.Background(), "leaderboard.podium")
	endSpan(nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]
	if span.Name() != "leaderboard.podium" {
		t.Errorf("expected span name %q, got %q", "leaderboard.podium", span.Name())
	}
	if span.SpanKind() != trace.SpanKindClient {
		t.Errorf("expected client span kind, got %v", span.SpanKind())
	}
	if span.Status().Code == codes.Error {
		t.Error("expected non-error status for successful span")
	}
}

func TestStartRemoteSpan_Error(t *testing.T) {
	recorder := newRecorder(t)

	_, endSpan := StartRemoteSpan(context.Background(), "leaderboard.list")
	endSpan(errors.New("connection refused"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]
	if span.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", span.Status().Code)
	}
	if len(span.Events()) == 0 {
		t.Error("expected recorded error event")
	}
}

func TestStartSpan(t *testing.T) {
	recorder := newRecorder(t)

	ctx, endSpan := StartSpan(context.Background(), "rank_batch")
	SetAttributes(ctx, attribute.Int("entries", 100))
	AddEvent(ctx, "ranked")
	endSpan(nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]
	if span.Name() != "rank_batch" {
		t.Errorf("expected span name %q, got %q", "rank_batch", span.Name())
	}

	found := false
	for _, attr := range span.Attributes() {
		if attr.Key == "entries" && attr.Value.AsInt64() == 100 {
			found = true
		}
	}
	if !found {
		t.Error("expected entries attribute on span")
	}

	if len(span.Events()) != 1 || span.Events()[0].Name != "ranked" {
		t.Errorf("expected single 'ranked' event, got %v", span.Events())
	}
}
