package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
	"github.com/joao-fontenele/storefront-otel-demo/internal/telemetry"
)

var tracer = otel.Tracer("orders")

type ProductFinder interface {
	ByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
}

type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Service struct {
	products  ProductFinder
	orders    OrderStore
	publisher EventPublisher
	metrics   *telemetry.StoreMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the order service. publisher and metrics may be nil.
func NewService(products ProductFinder, orders OrderStore, publisher EventPublisher, metrics *telemetry.StoreMetrics, logger *slog.Logger) *Service {
	return &Service{
		products:  products,
		orders:    orders,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type Placement struct {
	CustomerName    string
	Email           *string
	Cart            domain.Cart
	ShippingAddress string
	PaymentMethod   string
}

// Place prices the cart against the current catalog and persists the order.
// Lines naming unknown products are skipped without error, so a cart of only
// unknown ids yields an order with total 0 and no details.
func (s *Service) Place(ctx context.Context, p Placement) (*domain.Order, error) {
	if len(p.Cart) == 0 {
		return nil, domain.ErrEmptyCart
	}

	ctx, span := tracer.Start(ctx, "orders.place", trace.WithAttributes(
		attribute.Int("cart.lines", len(p.Cart)),
	))
	defer span.End()

	ids := make([]int64, 0, len(p.Cart))
	for _, line := range p.Cart {
		if id, ok := line.ProductKey(); ok {
			ids = append(ids, id)
		}
	}

	products, err := s.products.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	total := decimal.Zero
	details := []string{}
	for _, line := range p.Cart {
		id, ok := line.ProductKey()
		if !ok {
			continue
		}
		product, ok := products[id]
		if !ok {
			continue
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		details = append(details, domain.LineDescription(product.Title, line.Quantity))
	}

	order := &domain.Order{
		UserEmail:       normalizeEmail(p.Email),
		CustomerName:    p.CustomerName,
		ShippingAddress: p.ShippingAddress,
		PaymentMethod:   p.PaymentMethod,
		Total:           total,
		Details:         details,
		CreatedAt:       s.now(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	span.SetAttributes(attribute.Int64("order.id", order.ID), attribute.Int("order.lines", len(details)))
	s.metrics.OrderPlaced(ctx, total.InexactFloat64(), len(details), order.UserEmail == nil)
	s.publishPlaced(ctx, order)

	return order, nil
}

// publishPlaced emits the order event. The order is already committed, so a
// failure here is logged and not returned.
func (s *Service) publishPlaced(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}

	event := domain.OrderPlacedEvent{
		EventID:      uuid.NewString(),
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Total:        order.Total,
		Items:        order.Details,
		Timestamp:    order.CreatedAt,
	}
	if order.UserEmail != nil {
		event.Email = *order.UserEmail
	}

	if err := s.publisher.Publish(ctx, strconv.FormatInt(order.ID, 10), event); err != nil {
		s.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
	}
}

// ListForUser returns the orders whose email equals email exactly, newest first.
func (s *Service) ListForUser(ctx context.Context, email string) ([]domain.Order, error) {
	orders, err := s.orders.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func normalizeEmail(email *string) *string {
	if email == nil || *email == "" {
		return nil
	}
	return email
}
