package orderentry

import (
	"github.com/iairbaron/plataforma-trading-frontend/pkg/models"
)

// Minimum order quanta. Below these the backend rejects the order anyway,
// so the gate keeps the request from ever leaving the client.
const (
	MinAmount = 1e-6
	MinTotal  = 0.01
)

const (
	msgAmountPositive   = "amount must be greater than 0"
	msgAmountBelowMin   = "minimum amount is 0.000001"
	msgTotalPositive    = "total value must be greater than 0"
	msgTotalBelowMin    = "minimum total value is 0.01 USD"
	msgInsufficientCoin = "insufficient asset balance"
	msgInsufficientCash = "insufficient cash balance"
)

// FieldError is one validation violation, attached to the field it concerns.
type FieldError struct {
	Field   EditField
	Message string
}

func (e FieldError) Error() string {
	return string(e.Field) + ": " + e.Message
}

// Validate checks the draft against the minimum-quantum rules and the
// side-dependent balance constraint. Every rule is evaluated; all
// violations come back together rather than stopping at the first.
func Validate(draft Draft, side models.OrderSide, balance models.BalanceSnapshot) []FieldError {
	var fails []FieldError

	if draft.Amount <= 0 {
		fails = append(fails, FieldError{Field: EditAmount, Message: msgAmountPositive})
	}
	if draft.Amount < MinAmount {
		fails = append(fails, FieldError{Field: EditAmount, Message: msgAmountBelowMin})
	}

	if draft.TotalValue <= 0 {
		fails = append(fails, FieldError{Field: EditTotal, Message: msgTotalPositive})
	}
	if draft.TotalValue < MinTotal {
		fails = append(fails, FieldError{Field: EditTotal, Message: msgTotalBelowMin})
	}

	switch side {
	case models.OrderSideSell:
		if balance.CoinAvailable-draft.Amount < 0 {
			fails = append(fails, FieldError{Field: EditAmount, Message: msgInsufficientCoin})
		}
	case models.OrderSideBuy:
		if balance.USDAvailable-draft.TotalValue < 0 {
			fails = append(fails, FieldError{Field: EditTotal, Message: msgInsufficientCash})
		}
	}

	return fails
}
