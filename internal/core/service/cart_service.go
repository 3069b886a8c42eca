package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/cart-manager/internal/core/domain"
	"github.com/rl1809/cart-manager/internal/port"
)

const DefaultSnapshotKey = "@RocketShoes:cart"

var (
	ErrAddFailed    = errors.New("add product failed")
	ErrRemoveFailed = errors.New("remove product failed")
	ErrUpdateFailed = errors.New("update product amount failed")
)

const (
	msgOutOfStock   = "requested quantity out of stock"
	msgAddFailed    = "failed to add product"
	msgRemoveFailed = "failed to remove product"
	msgUpdateFailed = "failed to update product amount"
)

type CartService struct {
	catalog  port.CatalogOracle
	stock    port.StockOracle
	store    port.SnapshotStore
	notifier port.Notifier
	log      zerolog.Logger
	key      string

	mu    sync.RWMutex
	cart  []domain.Product
	locks *keyedMutex
}

type Option func(*CartService)

func WithLogger(log zerolog.Logger) Option {
	return func(s *CartService) { s.log = log }
}

func WithNotifier(n port.Notifier) Option {
	return func(s *CartService) { s.notifier = n }
}

// WithSnapshotKey overrides the key the cart is persisted under.
func WithSnapshotKey(key string) Option {
	return func(s *CartService) { s.key = key }
}

// NewCartService builds the manager and restores the persisted cart. This is the
// only time the store is read; a missing or malformed snapshot yields an empty cart.
func NewCartService(ctx context.Context, catalog port.CatalogOracle, stock port.StockOracle, store port.SnapshotStore, opts ...Option) (*CartService, error) {
	s := &CartService{
		catalog:  catalog,
		stock:    stock,
		store:    store,
		notifier: nopNotifier{},
		log:      zerolog.Nop(),
		key:      DefaultSnapshotKey,
		locks:    newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := store.Load(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		s.cart = []domain.Product{}
		return s, nil
	}

	cart, err := decodeSnapshot(data)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("discarding malformed cart snapshot")
		cart = []domain.Product{}
	}
	s.cart = cart
	s.log.Debug().Int("items", len(cart)).Msg("cart restored")
	return s, nil
}

// Cart returns a copy of the current cart.
func (s *CartService) Cart() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cart)
}

func (s *CartService) AddProduct(ctx context.Context, productID int64) error {
	unlock := s.locks.Lock(productID)
	defer unlock()

	var (
		product *domain.Product
		stock   *domain.Stock
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.catalog.GetProduct(gctx, productID)
		product = p
		return err
	})
	g.Go(func() error {
		st, err := s.stock.GetStock(gctx, productID)
		stock = st
		return err
	})
	err := g.Wait()
	if err == nil && (product == nil || stock == nil) {
		err = domain.ErrProductNotFound
	}
	if err != nil {
		return s.fail(ctx, productID, msgAddFailed, fmt.Errorf("%w: %w", ErrAddFailed, err))
	}

	if existing, ok := s.find(productID); ok {
		desired := existing.Amount + 1
		if desired > stock.Amount {
			return s.fail(ctx, productID, msgOutOfStock, domain.ErrOutOfStock)
		}
		if err := s.setAmount(ctx, productID, desired); err != nil {
			return s.fail(ctx, productID, msgAddFailed, fmt.Errorf("%w: %w", ErrAddFailed, err))
		}
		s.log.Info().Int64("product_id", productID).Int("amount", desired).Msg("product amount incremented")
		return nil
	}

	if stock.Amount < 1 {
		return s.fail(ctx, productID, msgOutOfStock, domain.ErrOutOfStock)
	}

	item := *product
	item.ID = productID
	item.Amount = 1
	err = s.commit(ctx, func(cart []domain.Product) ([]domain.Product, error) {
		return append(cart, item), nil
	})
	if err != nil {
		return s.fail(ctx, productID, msgAddFailed, fmt.Errorf("%w: %w", ErrAddFailed, err))
	}
	s.log.Info().Int64("product_id", productID).Msg("product added")
	return nil
}

func (s *CartService) RemoveProduct(ctx context.Context, productID int64) error {
	unlock := s.locks.Lock(productID)
	defer unlock()

	err := s.commit(ctx, func(cart []domain.Product) ([]domain.Product, error) {
		i := indexOf(cart, productID)
		if i < 0 {
			return nil, domain.ErrProductNotFound
		}
		return slices.Delete(cart, i, i+1), nil
	})
	if err != nil {
		return s.fail(ctx, productID, msgRemoveFailed, fmt.Errorf("%w: %w", ErrRemoveFailed, err))
	}
	s.log.Info().Int64("product_id", productID).Msg("product removed")
	return nil
}

func (s *CartService) UpdateProductAmount(ctx context.Context, update domain.AmountUpdate) error {
	if update.Amount <= 0 {
		return s.fail(ctx, update.ProductID, msgOutOfStock, domain.ErrInvalidAmount)
	}

	unlock := s.locks.Lock(update.ProductID)
	defer unlock()

	if _, ok := s.find(update.ProductID); !ok {
		return s.fail(ctx, update.ProductID, msgUpdateFailed, fmt.Errorf("%w: %w", ErrUpdateFailed, domain.ErrProductNotFound))
	}

	stock, err := s.stock.GetStock(ctx, update.ProductID)
	if err != nil {
		return s.fail(ctx, update.ProductID, msgUpdateFailed, fmt.Errorf("%w: %w", ErrUpdateFailed, err))
	}
	if stock.Amount < update.Amount {
		return s.fail(ctx, update.ProductID, msgOutOfStock, domain.ErrOutOfStock)
	}

	if err := s.setAmount(ctx, update.ProductID, update.Amount); err != nil {
		return s.fail(ctx, update.ProductID, msgUpdateFailed, fmt.Errorf("%w: %w", ErrUpdateFailed, err))
	}
	s.log.Info().Int64("product_id", update.ProductID).Int("amount", update.Amount).Msg("product amount updated")
	return nil
}

// setAmount must be called with the product's id lock held.
func (s *CartService) setAmount(ctx context.Context, productID int64, amount int) error {
	return s.commit(ctx, func(cart []domain.Product) ([]domain.Product, error) {
		i := indexOf(cart, productID)
		if i < 0 {
			return nil, domain.ErrProductNotFound
		}
		cart[i].Amount = amount
		return cart, nil
	})
}

// commit applies mutate to a copy of the current cart, persists the result and
// only then publishes it. If the save fails the in-memory cart is left untouched.
func (s *CartService) commit(ctx context.Context, mutate func([]domain.Product) ([]domain.Product, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := mutate(slices.Clone(s.cart))
	if err != nil {
		return err
	}

	data, err := encodeSnapshot(next)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.store.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	s.cart = next
	return nil
}

func (s *CartService) find(productID int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.cart, productID)
	if i < 0 {
		return domain.Product{}, false
	}
	return s.cart[i], true
}

func (s *CartService) fail(ctx context.Context, productID int64, message string, err error) error {
	s.log.Warn().Err(err).Int64("product_id", productID).Msg(message)
	s.notifier.Notify(ctx, domain.Notification{
		Level:     domain.NotificationError,
		ProductID: productID,
		Message:   message,
	})
	return err
}

func indexOf(cart []domain.Product, productID int64) int {
	return slices.IndexFunc(cart, func(p domain.Product) bool { return p.ID == productID })
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, domain.Notification) {}
