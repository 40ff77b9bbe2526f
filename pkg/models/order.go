package models

import (
	"time"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// Valid reports whether the side is one of the two known values.
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// OrderRequest is the wire payload for POST /api/orders.
type OrderRequest struct {
	Symbol           string    `json:"symbol"`
	Amount           float64   `json:"amount"`
	Type             OrderSide `json:"type"`
	PriceAtExecution float64   `json:"priceAtExecution"`
	Total            float64   `json:"total"`
}

// OrderReceipt is the backend's record of an accepted order.
type OrderReceipt struct {
	OrderID          string    `json:"orderId"`
	Symbol           string    `json:"symbol"`
	Amount           float64   `json:"amount"`
	Type             OrderSide `json:"type"`
	PriceAtExecution float64   `json:"priceAtExecution"`
	Total            float64   `json:"total"`
	Timestamp        time.Time `json:"timestamp"`
}

type OrderResponse struct {
	Status string       `json:"status"`
	Data   OrderReceipt `json:"data"`
}
