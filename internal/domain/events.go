package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderPlacedEvent struct {
	EventID      string          `json:"event_id"`
	OrderID      int64           `json:"order_id"`
	Email        string          `json:"email,omitempty"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	Items        []string        `json:"items"`
	Timestamp    time.Time       `json:"timestamp"`
}
