package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/cart-manager/internal/core/domain"
	"github.com/rl1809/cart-manager/internal/core/service"
)

type fakeOracle struct {
	stock map[int64]int
	err   error
}

func (f *fakeOracle) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.stock[productID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	return &domain.Product{ID: productID, Title: "sneaker", Price: decimal.RequireFromString("139.90")}, nil
}

func (f *fakeOracle) GetStock(ctx context.Context, productID int64) (*domain.Stock, error) {
	if f.err != nil {
		return nil, f.err
	}
	amount, ok := f.stock[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &domain.Stock{ID: productID, Amount: amount}, nil
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memoryStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *memoryStore) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func newTestHandler(t *testing.T, oracle *fakeOracle) http.Handler {
	t.Helper()
	svc, err := service.NewCartService(context.Background(), oracle, oracle, &memoryStore{data: map[string][]byte{}})
	require.NoError(t, err)
	return NewHTTPHandler(svc, zerolog.Nop()).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, CartHTTPResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp CartHTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHTTPHandler_CartFlow(t *testing.T) {
	h := newTestHandler(t, &fakeOracle{stock: map[int64]int{42: 3}})

	rec, resp := do(t, h, http.MethodPost, "/api/cart/products/42", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.Len(t, resp.Cart, 1)
	assert.Equal(t, 1, resp.Cart[0].Amount)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec, resp = do(t, h, http.MethodPut, "/api/cart/products/42", `{"amount":3}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, resp.Cart[0].Amount)

	rec, resp = do(t, h, http.MethodPost, "/api/cart/products/42", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, 3, resp.Cart[0].Amount)

	rec, resp = do(t, h, http.MethodDelete, "/api/cart/products/42", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Cart)

	rec, _ = do(t, h, http.MethodGet, "/api/cart", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		oracle *fakeOracle
		method string
		path   string
		body   string
		status int
	}{
		{"invalid id", &fakeOracle{}, http.MethodPost, "/api/cart/products/abc", "", http.StatusBadRequest},
		{"invalid body", &fakeOracle{}, http.MethodPut, "/api/cart/products/1", `{`, http.StatusBadRequest},
		{"invalid amount", &fakeOracle{}, http.MethodPut, "/api/cart/products/1", `{"amount":0}`, http.StatusUnprocessableEntity},
		{"remove absent", &fakeOracle{}, http.MethodDelete, "/api/cart/products/1", "", http.StatusNotFound},
		{"update absent", &fakeOracle{}, http.MethodPut, "/api/cart/products/1", `{"amount":1}`, http.StatusNotFound},
		{"oracle down", &fakeOracle{err: errors.New("connection refused")}, http.MethodPost, "/api/cart/products/1", "", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.oracle)
			rec, resp := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestHTTPHandler_KeepsRequestID(t *testing.T) {
	h := newTestHandler(t, &fakeOracle{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}
