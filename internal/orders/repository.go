package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order snapshot and sets its generated id.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	details, err := encodeDetails(order.Details)
	if err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO orders (user_email, customer_name, shipping_address, payment_method, total_price, order_details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, order.UserEmail, order.CustomerName, order.ShippingAddress, order.PaymentMethod, order.Total, details, order.CreatedAt).Scan(&order.ID)
}

// ListByEmail returns the orders placed with email, most recent first.
func (r *OrderRepository) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_email, customer_name, shipping_address, payment_method, total_price, order_details, created_at
		FROM orders
		WHERE user_email = $1
		ORDER BY created_at DESC, id DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		var details string
		if err := rows.Scan(&order.ID, &order.UserEmail, &order.CustomerName, &order.ShippingAddress,
			&order.PaymentMethod, &order.Total, &details, &order.CreatedAt); err != nil {
			return nil, err
		}
		if order.Details, err = decodeDetails(details); err != nil {
			return nil, fmt.Errorf("order %d: %w", order.ID, err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func encodeDetails(details []string) (string, error) {
	if details == nil {
		details = []string{}
	}
	data, err := json.Marshal(details)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeDetails(raw string) ([]string, error) {
	details := []string{}
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, fmt.Errorf("decode order details: %w", err)
	}
	return details, nil
}
