package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rl1809/cart-manager/internal/core/domain"
)

var ErrMalformedSnapshot = errors.New("malformed snapshot")

func encodeSnapshot(cart []domain.Product) ([]byte, error) {
	if cart == nil {
		cart = []domain.Product{}
	}
	return json.Marshal(cart)
}

// decodeSnapshot parses a persisted cart and rejects snapshots that break the
// cart invariants: every amount >= 1 and no duplicate ids.
func decodeSnapshot(data []byte) ([]domain.Product, error) {
	var cart []domain.Product
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	if cart == nil {
		return []domain.Product{}, nil
	}

	seen := make(map[int64]struct{}, len(cart))
	for _, p := range cart {
		if p.Amount < 1 {
			return nil, fmt.Errorf("%w: product %d has amount %d", ErrMalformedSnapshot, p.ID, p.Amount)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %d", ErrMalformedSnapshot, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return cart, nil
}
