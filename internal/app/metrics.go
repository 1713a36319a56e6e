package app

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/shineway/pos-server"

// Metrics carries the POS domain instruments: orders written through the
// composer and payments committed at success-exit.
type Metrics struct {
	tracer trace.Tracer
	driver attribute.KeyValue

	ordersSaved       metric.Int64Counter
	paymentsCommitted metric.Int64Counter
}

// NewMetrics creates the instruments on the given providers.
func NewMetrics(mp metric.MeterProvider, tp trace.TracerProvider, driver string) (*Metrics, error) {
	meter := mp.Meter(scopeName)

	ordersSaved, err := meter.Int64Counter("pos.orders.saved",
		metric.WithDescription("Orders created or updated through the composer"))
	if err != nil {
		return nil, errors.Wrap(err, "orders counter")
	}
	paymentsCommitted, err := meter.Int64Counter("pos.payments.committed",
		metric.WithDescription("Payments committed on success-exit"))
	if err != nil {
		return nil, errors.Wrap(err, "payments counter")
	}

	return &Metrics{
		tracer:            tp.Tracer(scopeName),
		driver:            attribute.String("storage.driver", driver),
		ordersSaved:       ordersSaved,
		paymentsCommitted: paymentsCommitted,
	}, nil
}

// OrderSaved counts one composer save.
func (m *Metrics) OrderSaved(ctx context.Context) {
	m.ordersSaved.Add(ctx, 1, metric.WithAttributes(m.driver))
}

// PaymentCommitted counts one committed payment.
func (m *Metrics) PaymentCommitted(ctx context.Context) {
	m.paymentsCommitted.Add(ctx, 1, metric.WithAttributes(m.driver))
}

// Span starts a span for a startup phase.
func (m *Metrics) Span(ctx context.Context, name string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, name)
}
