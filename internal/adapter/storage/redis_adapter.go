package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/cart-manager/internal/core/domain"
)

const stockKeyPrefix = "stock:"

// RedisAdapter persists cart snapshots and answers stock queries from stock:<id> keys.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get snapshot: %w", err)
	}
	return data, true, nil
}

func (r *RedisAdapter) Save(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

func (r *RedisAdapter) GetStock(ctx context.Context, productID int64) (*domain.Stock, error) {
	amount, err := r.client.Get(ctx, stockKey(productID)).Int()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &domain.Stock{ID: productID, Amount: amount}, nil
}

func (r *RedisAdapter) SetStock(ctx context.Context, productID int64, amount int) error {
	return r.client.Set(ctx, stockKey(productID), amount, 0).Err()
}

func stockKey(productID int64) string {
	return stockKeyPrefix + strconv.FormatInt(productID, 10)
}
