package models

import (
	"time"
)

// Instrument is a tradable market instrument as listed by the backend.
type Instrument struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	Change7d  float64 `json:"change7d"`
}

type InstrumentList struct {
	Coins []Instrument `json:"coins"`
}

// Quote carries the per-side prices for one symbol. Buys execute against
// the ask, sells against the bid.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Last      float64   `json:"last"`
	Timestamp time.Time `json:"timestamp"`
}
