package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64
	Section     string
	Subcategory string
	Title       string
	Price       decimal.Decimal
	Description string
	ImageURL    *string
}
