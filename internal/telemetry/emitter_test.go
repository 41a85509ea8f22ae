package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// newTestEmitter собирает Emitter на SDK-провайдерах с ручным чтением:
// spans попадают в recorder, метрики забираются через reader.Collect
func newTestEmitter(t *testing.T) (*Emitter, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	emitter, err := New(tp, mp)
	require.NoError(t, err)
	return emitter, recorder, reader
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %q not found", name)
	return metricdata.Metrics{}
}

func attrString(t *testing.T, set attribute.Set, key string) string {
	t.Helper()
	v, ok := set.Value(attribute.Key(key))
	require.True(t, ok, "attribute %q not found", key)
	return v.AsString()
}

func TestEmitter_Start(t *testing.T) {
	emitter, recorder, _ := newTestEmitter(t)

	_, span := emitter.Start(context.Background(), "list_products",
		attribute.String("http.method", "GET"),
	)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "list_products", spans[0].Name())

	attrs := spans[0].Attributes()
	require.Contains(t, attrs, attribute.String("http.method", "GET"))
}

func TestEmitter_RecordRequest(t *testing.T) {
	t.Run("without status", func(t *testing.T) {
		// Arrange
		emitter, _, reader := newTestEmitter(t)

		// Act
		emitter.RecordRequest(context.Background(), Labels{Endpoint: "/products", Method: "GET"})

		// Assert
		m := collectMetric(t, reader, "product_requests_total")
		require.Equal(t, "Total number of product requests", m.Description)
		require.Equal(t, "1", m.Unit)

		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok, "counter data has unexpected type %T", m.Data)
		require.True(t, sum.IsMonotonic)
		require.Len(t, sum.DataPoints, 1)

		dp := sum.DataPoints[0]
		require.Equal(t, int64(1), dp.Value)
		require.Equal(t, "/products", attrString(t, dp.Attributes, "endpoint"))
		require.Equal(t, "GET", attrString(t, dp.Attributes, "method"))

		// status в list и search не пишется
		_, hasStatus := dp.Attributes.Value(attribute.Key("status"))
		require.False(t, hasStatus)
	})

	t.Run("with status", func(t *testing.T) {
		emitter, _, reader := newTestEmitter(t)

		emitter.RecordRequest(context.Background(), Labels{
			Endpoint: "/products/{id}",
			Method:   "GET",
			Status:   "not_found",
		})

		m := collectMetric(t, reader, "product_requests_total")
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, sum.DataPoints, 1)

		dp := sum.DataPoints[0]
		require.Equal(t, "/products/{id}", attrString(t, dp.Attributes, "endpoint"))
		require.Equal(t, "not_found", attrString(t, dp.Attributes, "status"))
	})

	t.Run("different statuses form separate series", func(t *testing.T) {
		emitter, _, reader := newTestEmitter(t)
		labels := Labels{Endpoint: "/products/{id}", Method: "GET"}

		labels.Status = "found"
		emitter.RecordRequest(context.Background(), labels)
		emitter.RecordRequest(context.Background(), labels)
		labels.Status = "not_found"
		emitter.RecordRequest(context.Background(), labels)

		m := collectMetric(t, reader, "product_requests_total")
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, sum.DataPoints, 2)

		byStatus := make(map[string]int64, len(sum.DataPoints))
		for _, dp := range sum.DataPoints {
			byStatus[attrString(t, dp.Attributes, "status")] = dp.Value
		}
		require.Equal(t, int64(2), byStatus["found"])
		require.Equal(t, int64(1), byStatus["not_found"])
	})
}

func TestEmitter_RecordDuration(t *testing.T) {
	emitter, _, reader := newTestEmitter(t)

	emitter.RecordDuration(context.Background(), 250*time.Millisecond, Labels{
		Endpoint: "/products/search",
		Method:   "GET",
	})

	m := collectMetric(t, reader, "product_request_duration_seconds")
	require.Equal(t, "Duration of product requests", m.Description)
	require.Equal(t, "s", m.Unit)

	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "histogram data has unexpected type %T", m.Data)
	require.Len(t, hist.DataPoints, 1)

	dp := hist.DataPoints[0]
	require.Equal(t, uint64(1), dp.Count)
	require.InDelta(t, 0.25, dp.Sum, 1e-9)
	require.Equal(t, "/products/search", attrString(t, dp.Attributes, "endpoint"))
}

func TestNew_NoopProviders(t *testing.T) {
	emitter, err := New(nooptrace.NewTracerProvider(), noopmetric.NewMeterProvider())

	require.NoError(t, err)
	require.NotNil(t, emitter)

	// Все вызовы на noop-провайдерах безопасны
	ctx, span := emitter.Start(context.Background(), "get_product")
	emitter.RecordRequest(ctx, Labels{Endpoint: "/products/{id}", Method: "GET", Status: "found"})
	emitter.RecordDuration(ctx, time.Millisecond, Labels{Endpoint: "/products/{id}", Method: "GET"})
	span.End()
}
