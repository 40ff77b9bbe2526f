// Package market supplies instrument listings and per-side unit prices.
// The order entry core takes its fixed unit price from here when a session
// opens; it never reads market data afterwards.
package market

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iairbaron/plataforma-trading-frontend/pkg/models"
)

const defaultCatalogTTL = 5 * time.Minute

// InstrumentFetcher is the slice of the backend client the watcher needs.
type InstrumentFetcher interface {
	GetInstruments(ctx context.Context) ([]models.Instrument, error)
}

// Watcher caches the instrument catalog and folds in live quotes from the
// price stream. Quotes win over catalog prices when both are present.
type Watcher struct {
	fetcher    InstrumentFetcher
	catalogTTL time.Duration
	logger     *logrus.Logger

	mu        sync.RWMutex
	catalog   []models.Instrument
	bySymbol  map[string]models.Instrument
	quotes    map[string]models.Quote
	fetchedAt time.Time
}

func NewWatcher(fetcher InstrumentFetcher, catalogTTL time.Duration, logger *logrus.Logger) *Watcher {
	if catalogTTL <= 0 {
		catalogTTL = defaultCatalogTTL
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Watcher{
		fetcher:    fetcher,
		catalogTTL: catalogTTL,
		logger:     logger,
		bySymbol:   make(map[string]models.Instrument),
		quotes:     make(map[string]models.Quote),
	}
}

// Instruments returns the catalog, re-fetching when older than the TTL.
func (w *Watcher) Instruments(ctx context.Context) ([]models.Instrument, error) {
	w.mu.RLock()
	catalog, fetchedAt := w.catalog, w.fetchedAt
	w.mu.RUnlock()

	if catalog != nil && time.Since(fetchedAt) < w.catalogTTL {
		return catalog, nil
	}
	return w.refreshCatalog(ctx)
}

func (w *Watcher) refreshCatalog(ctx context.Context) ([]models.Instrument, error) {
	catalog, err := w.fetcher.GetInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching instruments: %w", err)
	}

	bySymbol := make(map[string]models.Instrument, len(catalog))
	for _, inst := range catalog {
		bySymbol[strings.ToLower(inst.Symbol)] = inst
	}

	w.mu.Lock()
	w.catalog = catalog
	w.bySymbol = bySymbol
	w.fetchedAt = time.Now()
	w.mu.Unlock()

	w.logger.WithField("count", len(catalog)).Debug("Instrument catalog refreshed")
	return catalog, nil
}

// Instrument looks one symbol up in the catalog.
func (w *Watcher) Instrument(ctx context.Context, symbol string) (models.Instrument, error) {
	if _, err := w.Instruments(ctx); err != nil {
		return models.Instrument{}, err
	}

	w.mu.RLock()
	inst, ok := w.bySymbol[strings.ToLower(symbol)]
	w.mu.RUnlock()

	if !ok {
		return models.Instrument{}, fmt.Errorf("unknown instrument %q", symbol)
	}
	return inst, nil
}

// UnitPrice quotes one side of the book: ask for buys, bid for sells. When
// the stream has no quote for the symbol yet, the catalog price stands in
// for both sides.
func (w *Watcher) UnitPrice(ctx context.Context, symbol string, side models.OrderSide) (float64, error) {
	w.mu.RLock()
	quote, ok := w.quotes[strings.ToLower(symbol)]
	w.mu.RUnlock()

	if ok {
		price := quote.Last
		switch side {
		case models.OrderSideBuy:
			if quote.Ask > 0 {
				price = quote.Ask
			}
		case models.OrderSideSell:
			if quote.Bid > 0 {
				price = quote.Bid
			}
		}
		if price > 0 {
			return price, nil
		}
	}

	inst, err := w.Instrument(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if !(inst.Price > 0) {
		return 0, fmt.Errorf("instrument %q has no usable price", symbol)
	}
	return inst.Price, nil
}

// ApplyQuote folds one ticker update from the stream into the quote cache.
func (w *Watcher) ApplyQuote(quote models.Quote) {
	if quote.Symbol == "" {
		return
	}

	w.mu.Lock()
	w.quotes[strings.ToLower(quote.Symbol)] = quote
	w.mu.Unlock()
}

// Run keeps the catalog warm until the context is cancelled.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = w.catalogTTL
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.refreshCatalog(ctx); err != nil {
				w.logger.WithError(err).Error("Failed to refresh instrument catalog")
			}
		}
	}
}
