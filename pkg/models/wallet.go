package models

import (
	"time"
)

type CoinDetail struct {
	Amount       float64 `json:"amount"`
	Value        float64 `json:"value"`
	CurrentPrice float64 `json:"currentPrice"`
}

// WalletBalance is the full balance view returned by GET /api/wallet/balance.
type WalletBalance struct {
	USDBalance     float64               `json:"usdBalance"`
	TotalCoinValue float64               `json:"totalCoinValue"`
	CoinDetails    map[string]CoinDetail `json:"coinDetails"`
}

type WalletResponse struct {
	Status string        `json:"status"`
	Data   WalletBalance `json:"data"`
}

// BalanceSnapshot is the read-only, per-symbol view the order entry core
// works against: available cash and available quantity of one asset.
type BalanceSnapshot struct {
	USDAvailable  float64
	CoinAvailable float64
}

type OperationType string

const (
	OperationDeposit  OperationType = "deposit"
	OperationWithdraw OperationType = "withdraw"
)

// WalletOperation is the wire payload for POST /api/wallet/operation.
type WalletOperation struct {
	Operation OperationType `json:"operation"`
	Amount    float64       `json:"amount"`
}

type WalletInfo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Balance   float64   `json:"balance"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type WalletOperationResponse struct {
	Status string     `json:"status"`
	Data   WalletInfo `json:"data"`
}
