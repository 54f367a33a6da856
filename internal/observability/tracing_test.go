package observability

import (
	"context"
	"errors"
	"testing"

	"chronogift/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := Tracer
	Tracer = tp.Tracer("test")
	t.Cleanup(func() {
		Tracer = prev
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func attr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSpan_SetError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantCode   string
	}{
		{"rejection stays unset", models.NewInvalidPasscodeError(), codes.Unset, models.CodeInvalidPasscode},
		{"locked gift stays unset", models.NewForbiddenError("nope"), codes.Unset, models.CodeForbidden},
		{"dependency failure", models.NewUnavailableError("Store", context.DeadlineExceeded), codes.Error, models.CodeUnavailable},
		{"internal failure", models.NewInternalError(errors.New("boom")), codes.Error, models.CodeInternal},
		{"plain error", errors.New("boom"), codes.Error, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := useRecorder(t)

			span, _ := StartSpan(context.Background(), "gift.open", attribute.String("gift.id", "g-1"))
			span.SetError(tt.err)
			span.End()

			ended := rec.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, "gift.open", ended[0].Name())
			assert.Equal(t, tt.wantStatus, ended[0].Status().Code)

			code, ok := attr(ended[0], "error.code")
			if tt.wantCode == "" {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, code.AsString())
			}
		})
	}
}

func TestSpan_NilErrorIsIgnored(t *testing.T) {
	rec := useRecorder(t)

	span, _ := StartSpan(context.Background(), "identity.resolve")
	span.SetError(nil)
	span.AddAttributes(attribute.Int("user.id", 7))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	v, ok := attr(ended[0], "user.id")
	require.True(t, ok)
	assert.EqualValues(t, 7, v.AsInt64())
}

func TestInitTracing(t *testing.T) {
	prev := Tracer
	t.Cleanup(func() { Tracer = prev })

	shutdown, err := InitTracing(context.Background(), TracingConfig{ServiceName: "chronogift-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, err = InitTracing(context.Background(), TracingConfig{ServiceName: "chronogift-test", Enabled: true, Exporter: "zipkin"})
	assert.Error(t, err)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOffSampler")
}
