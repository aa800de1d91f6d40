package telemetry

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestInitTracerNone(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Config{ServiceName: "test", Exporter: ExporterNone})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracerUnknownExporter(t *testing.T) {
	_, err := InitTracer(context.Background(), Config{ServiceName: "test", Exporter: "zipkin"})
	assert.Error(t, err)
}

func TestSQSCarrierRoundTrip(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	attrs := make(map[string]types.MessageAttributeValue)
	propagation.TraceContext{}.Inject(ctx, sqsCarrier{attrs: attrs})

	require.Contains(t, attrs, "traceparent")
	assert.Equal(t, "String", aws.ToString(attrs["traceparent"].DataType))

	extracted := propagation.TraceContext{}.Extract(context.Background(), sqsCarrier{attrs: attrs})
	got := trace.SpanContextFromContext(extracted)
	assert.Equal(t, traceID, got.TraceID())
	assert.Equal(t, spanID, got.SpanID())
}

func TestSQSCarrierMissingKey(t *testing.T) {
	c := sqsCarrier{attrs: map[string]types.MessageAttributeValue{}}
	assert.Equal(t, "", c.Get("traceparent"))
	assert.Empty(t, c.Keys())
}
