package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/joao-fontenele/storefront-otel-demo"

// StoreMetrics holds the storefront business instruments. The zero value is
// not usable; a nil *StoreMetrics records nothing.
type StoreMetrics struct {
	ordersPlaced metric.Int64Counter
	orderTotal   metric.Float64Histogram
	signups      metric.Int64Counter
}

// NewStoreMetrics creates the instruments on the global MeterProvider.
func NewStoreMetrics() (*StoreMetrics, error) {
	meter := otel.Meter(meterName)

	ordersPlaced, err := meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders persisted by the storefront"),
	)
	if err != nil {
		return nil, err
	}

	orderTotal, err := meter.Float64Histogram("storefront.order.total",
		metric.WithDescription("Order totals in currency units"),
	)
	if err != nil {
		return nil, err
	}

	signups, err := meter.Int64Counter("storefront.signups",
		metric.WithDescription("Accounts registered"),
	)
	if err != nil {
		return nil, err
	}

	return &StoreMetrics{ordersPlaced: ordersPlaced, orderTotal: orderTotal, signups: signups}, nil
}

func (m *StoreMetrics) OrderPlaced(ctx context.Context, total float64, lines int, guest bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("guest", guest), attribute.Int("lines", lines))
	m.ordersPlaced.Add(ctx, 1, attrs)
	m.orderTotal.Record(ctx, total, metric.WithAttributes(attribute.Bool("guest", guest)))
}

func (m *StoreMetrics) SignedUp(ctx context.Context) {
	if m == nil {
		return
	}
	m.signups.Add(ctx, 1)
}
