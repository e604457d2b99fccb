package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusProcessing is the only status an order ever reports.
const OrderStatusProcessing = "Processing"

type Order struct {
	ID              int64
	UserEmail       *string
	CustomerName    string
	ShippingAddress string
	PaymentMethod   string
	Total           decimal.Decimal
	Details         []string
	CreatedAt       time.Time
}

// LineDescription renders a resolved cart line as stored in the order details.
func LineDescription(title string, quantity int) string {
	return fmt.Sprintf("%s (x%d)", title, quantity)
}
