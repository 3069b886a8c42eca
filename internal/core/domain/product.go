package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("requested quantity out of stock")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// Product is a cart line item. Amount is always >= 1 while the product is in the cart.
type Product struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int             `json:"amount"`
}

type AmountUpdate struct {
	ProductID int64 `json:"productId"`
	Amount    int   `json:"amount"`
}
