package orderentry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Derived amounts on total-driven edits are rounded to this many decimal
// places; amount-driven edits carry the multiplication through unrounded.
const derivedAmountDecimals = 4

// Draft is the in-progress order: a unit amount and its USD total value.
// Outside of an edit in flight the two are consistent, totalValue equaling
// amount times the session's unit price.
type Draft struct {
	Amount     float64
	TotalValue float64
}

type EditField string

const (
	EditAmount EditField = "amount"
	EditTotal  EditField = "totalValue"
)

// Edit is a single field change: which of the two fields the user drove,
// and the raw text they typed.
type Edit struct {
	Field EditField
	Value string
}

func AmountEdited(raw string) Edit { return Edit{Field: EditAmount, Value: raw} }
func TotalEdited(raw string) Edit  { return Edit{Field: EditTotal, Value: raw} }

// Reconcile applies one edit to the draft, deriving the non-driven field
// from unitPrice. It is a pure function of (prev, edit, unitPrice).
//
// A non-positive unit price on a total-driven edit is a broken caller
// contract, not user input, and panics.
func Reconcile(prev Draft, edit Edit, unitPrice float64) Draft {
	value := parseDecimal(edit.Value)

	switch edit.Field {
	case EditAmount:
		return Draft{
			Amount:     value,
			TotalValue: value * unitPrice,
		}
	case EditTotal:
		if !(unitPrice > 0) {
			panic(fmt.Sprintf("orderentry: total edit with non-positive unit price %v", unitPrice))
		}
		return Draft{
			Amount:     roundTo(value/unitPrice, derivedAmountDecimals),
			TotalValue: value,
		}
	default:
		panic(fmt.Sprintf("orderentry: unknown edit field %q", edit.Field))
	}
}

// parseDecimal parses raw user input to a non-negative decimal. Empty,
// malformed and negative input all collapse to 0, which validation rejects.
func parseDecimal(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

func roundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}
