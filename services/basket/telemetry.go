package basket

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "basket"

	requestTotalName    = "basket_request_total"
	errorTotalName      = "basket_error_total"
	requestDurationName = "basket_request_duration_seconds"

	endpointAttr = "endpoint"

	ownerAttr             = "basket.owner"
	methodAttr            = "basket.method"
	requestItemCountAttr  = "basket.request.item_count"
	responseItemCountAttr = "basket.response.item_count"
)

type basketMetrics struct {
	requests metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

func newBasketMetrics() (*basketMetrics, error) {
	result := &basketMetrics{
		requests: noop.Int64Counter{},
		errors:   noop.Int64Counter{},
		duration: noop.Float64Histogram{},
	}

	var err error
	meter := otel.Meter(instrumentationName)

	if result.requests, err = meter.Int64Counter(requestTotalName,
		metric.WithUnit("1"),
		metric.WithDescription("the number of basket requests handled, success or failure")); err != nil {
		return nil, fmt.Errorf("error creating %s: %s", requestTotalName, err)
	}

	if result.errors, err = meter.Int64Counter(errorTotalName,
		metric.WithUnit("1"),
		metric.WithDescription("the number of basket requests that hit an error branch")); err != nil {
		return nil, fmt.Errorf("error creating %s: %s", errorTotalName, err)
	}

	if result.duration, err = meter.Float64Histogram(requestDurationName,
		metric.WithUnit("s"),
		metric.WithDescription("wall-clock duration of a basket request")); err != nil {
		return nil, fmt.Errorf("error creating %s: %s", requestDurationName, err)
	}

	return result, nil
}

type instrumentation struct {
	metrics *basketMetrics
}

func newInstrumentation() (*instrumentation, error) {
	metrics, err := newBasketMetrics()
	if err != nil {
		return nil, err
	}

	return &instrumentation{
		metrics: metrics,
	}, nil
}

// instrumented runs op inside a span named "<endpoint>-Logic" and guarantees
// that the request counter and the duration histogram are recorded exactly
// once on every exit path, errors and cancellation included.
func (i *instrumentation) instrumented(c context.Context, endpoint string, op func(c context.Context, span trace.Span) error) (err error) {
	c, span := otel.GetTracerProvider().Tracer(instrumentationName).Start(c, endpoint+"-Logic")
	start := time.Now()

	defer func() {
		attrs := metric.WithAttributes(attribute.String(endpointAttr, endpoint))
		i.metrics.duration.Record(c, time.Since(start).Seconds(), attrs)
		i.metrics.requests.Add(c, 1, attrs)
		span.End()
	}()

	err = op(c, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}

	return err
}

func (i *instrumentation) countError(c context.Context, endpoint string) {
	i.metrics.errors.Add(c, 1, metric.WithAttributes(attribute.String(endpointAttr, endpoint)))
}
