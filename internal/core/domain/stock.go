package domain

// Stock is the number of units available upstream for a product.
// It is only authoritative at the moment it was queried.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}
