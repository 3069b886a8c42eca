package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rl1809/cart-manager/internal/core/domain"
	"github.com/rl1809/cart-manager/internal/core/service"
)

const requestIDHeader = "X-Request-ID"

type HTTPHandler struct {
	cartService *service.CartService
	log         zerolog.Logger
}

type AmountHTTPRequest struct {
	Amount int `json:"amount"`
}

type CartHTTPResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Cart    []domain.Product `json:"cart"`
}

func NewHTTPHandler(cartService *service.CartService, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{cartService: cartService, log: log}
}

// Routes registers the cart endpoints on a new mux wrapped with request id tagging.
func (h *HTTPHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/products/{id}", h.AddProduct)
	mux.HandleFunc("PUT /api/cart/products/{id}", h.UpdateProductAmount)
	mux.HandleFunc("DELETE /api/cart/products/{id}", h.RemoveProduct)
	return h.withRequestID(mux)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CartHTTPResponse{Success: true, Cart: h.cartService.Cart()})
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	h.respond(w, r, h.cartService.AddProduct(r.Context(), id), "product added")
}

func (h *HTTPHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	h.respond(w, r, h.cartService.RemoveProduct(r.Context(), id), "product removed")
}

func (h *HTTPHandler) UpdateProductAmount(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req AmountHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CartHTTPResponse{
			Success: false,
			Message: "invalid request body",
			Cart:    h.cartService.Cart(),
		})
		return
	}

	err := h.cartService.UpdateProductAmount(r.Context(), domain.AmountUpdate{ProductID: id, Amount: req.Amount})
	h.respond(w, r, err, "product amount updated")
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) respond(w http.ResponseWriter, r *http.Request, err error, okMessage string) {
	if err == nil {
		writeJSON(w, http.StatusOK, CartHTTPResponse{
			Success: true,
			Message: okMessage,
			Cart:    h.cartService.Cart(),
		})
		return
	}

	status, message := classify(err)
	h.log.Warn().Err(err).
		Str("request_id", w.Header().Get(requestIDHeader)).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("cart operation failed")

	writeJSON(w, status, CartHTTPResponse{
		Success: false,
		Message: message,
		Cart:    h.cartService.Cart(),
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, "invalid amount"
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict, "requested quantity out of stock"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, service.ErrAddFailed):
		return http.StatusBadGateway, "failed to add product"
	case errors.Is(err, service.ErrUpdateFailed):
		return http.StatusBadGateway, "failed to update product amount"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (h *HTTPHandler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, CartHTTPResponse{
			Success: false,
			Message: "invalid product id",
		})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
