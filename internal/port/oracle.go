package port

import (
	"context"

	"github.com/rl1809/cart-manager/internal/core/domain"
)

type CatalogOracle interface {
	// GetProduct returns display attributes for a product, domain.ErrProductNotFound if unknown
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
}

type StockOracle interface {
	// GetStock returns units available upstream, domain.ErrProductNotFound if unknown
	GetStock(ctx context.Context, productID int64) (*domain.Stock, error)
}
