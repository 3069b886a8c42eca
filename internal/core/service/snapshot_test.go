package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/cart-manager/internal/core/domain"
)

func TestEncodeSnapshot_NilCart(t *testing.T) {
	data, err := encodeSnapshot(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecodeSnapshot_AcceptsNumericPrice(t *testing.T) {
	// Products fetched from the REST api carry the price as a JSON number.
	cart, err := decodeSnapshot([]byte(`[{"id":1,"title":"Tênis","price":179.9,"image":"a.jpg","amount":2}]`))
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.True(t, cart[0].Price.Equal(decimal.RequireFromString("179.9")))
	assert.Equal(t, 2, cart[0].Amount)
}

func TestDecodeSnapshot_Null(t *testing.T) {
	cart, err := decodeSnapshot([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	for _, data := range []string{``, `[`, `[{"id":1,"amount":-2}]`, `[{"id":2,"amount":1},{"id":2,"amount":1}]`} {
		_, err := decodeSnapshot([]byte(data))
		assert.ErrorIs(t, err, ErrMalformedSnapshot, "snapshot %q", data)
	}
}

func TestSnapshot_RoundTripKeepsOrder(t *testing.T) {
	cart := []domain.Product{
		{ID: 9, Title: "boot", Price: decimal.RequireFromString("0.10"), Image: "b.jpg", Amount: 3},
		{ID: 2, Title: "sneaker", Price: decimal.RequireFromString("1234.5"), Image: "s.jpg", Amount: 1},
	}

	data, err := encodeSnapshot(cart)
	require.NoError(t, err)
	got, err := decodeSnapshot(data)
	require.NoError(t, err)

	require.Len(t, got, 2)
	for i := range cart {
		assert.Equal(t, cart[i].ID, got[i].ID)
		assert.Equal(t, cart[i].Amount, got[i].Amount)
		assert.True(t, cart[i].Price.Equal(got[i].Price))
	}
}
