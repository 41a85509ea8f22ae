package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Labels - метки для метрик запросов каталога
// Status опционален: пустая строка означает, что атрибут status не пишется
// (list и search работают без status, get различает found/not_found)
type Labels struct {
	Endpoint string
	Method   string
	Status   string
}

// attributes переводит метки в OTel-атрибуты
func (l Labels) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("endpoint", l.Endpoint),
		attribute.String("method", l.Method),
	}
	if l.Status != "" {
		attrs = append(attrs, attribute.String("status", l.Status))
	}
	return attrs
}

// Emitter инкапсулирует телеметрию каталога: tracer и две метрики
// Создаётся один раз при старте и передаётся в обработчики явно,
// чтобы код запросов не обращался к глобальному состоянию otel
// С noop-провайдерами все вызовы безопасно ничего не делают,
// поэтому отказ телеметрии никогда не ломает обработку запроса
type Emitter struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// New создаёт Emitter поверх переданных провайдеров
func New(tp trace.TracerProvider, mp metric.MeterProvider) (*Emitter, error) {
	tracer := tp.Tracer("productcatalog")
	meter := mp.Meter("productcatalog")

	requests, err := meter.Int64Counter(
		"product_requests_total",
		metric.WithDescription("Total number of product requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("request counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"product_request_duration_seconds",
		metric.WithDescription("Duration of product requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("duration histogram: %w", err)
	}

	return &Emitter{
		tracer:   tracer,
		requests: requests,
		duration: duration,
	}, nil
}

// Start открывает span операции каталога с начальными атрибутами
// Вызывающий обязан закрыть span через defer span.End()
func (e *Emitter) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordRequest увеличивает счётчик запросов на единицу
// Вызывается ровно один раз на каждый завершённый запрос к каталогу
func (e *Emitter) RecordRequest(ctx context.Context, l Labels) {
	e.requests.Add(ctx, 1, metric.WithAttributes(l.attributes()...))
}

// RecordDuration записывает длительность запроса (гистограмма хранит секунды)
func (e *Emitter) RecordDuration(ctx context.Context, d time.Duration, l Labels) {
	e.duration.Record(ctx, d.Seconds(), metric.WithAttributes(l.attributes()...))
}
