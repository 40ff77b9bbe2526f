package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iairbaron/plataforma-trading-frontend/pkg/models"
)

type fakeInstrumentFetcher struct {
	mu          sync.Mutex
	calls       int
	instruments []models.Instrument
	err         error
}

func (f *fakeInstrumentFetcher) GetInstruments(ctx context.Context) ([]models.Instrument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.instruments, f.err
}

func (f *fakeInstrumentFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testCatalog() []models.Instrument {
	return []models.Instrument{
		{ID: "1", Name: "Ethereum", Symbol: "ETH", Price: 1807.18},
		{ID: "2", Name: "Bitcoin", Symbol: "BTC", Price: 65000},
	}
}

func TestWatcher_InstrumentsCached(t *testing.T) {
	fetcher := &fakeInstrumentFetcher{instruments: testCatalog()}
	watcher := NewWatcher(fetcher, 5*time.Minute, nil)

	ctx := context.Background()

	first, err := watcher.Instruments(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	_, err = watcher.Instruments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestWatcher_InstrumentLookup(t *testing.T) {
	fetcher := &fakeInstrumentFetcher{instruments: testCatalog()}
	watcher := NewWatcher(fetcher, 5*time.Minute, nil)

	ctx := context.Background()

	inst, err := watcher.Instrument(ctx, "eth")
	require.NoError(t, err)
	assert.Equal(t, "Ethereum", inst.Name)

	_, err = watcher.Instrument(ctx, "doge")
	assert.Error(t, err)
}

func TestWatcher_UnitPriceFromCatalog(t *testing.T) {
	fetcher := &fakeInstrumentFetcher{instruments: testCatalog()}
	watcher := NewWatcher(fetcher, 5*time.Minute, nil)

	ctx := context.Background()

	// Without live quotes both sides take the catalog price.
	buy, err := watcher.UnitPrice(ctx, "eth", models.OrderSideBuy)
	require.NoError(t, err)
	sell, err := watcher.UnitPrice(ctx, "eth", models.OrderSideSell)
	require.NoError(t, err)

	assert.Equal(t, 1807.18, buy)
	assert.Equal(t, 1807.18, sell)
}

func TestWatcher_UnitPricePerSide(t *testing.T) {
	fetcher := &fakeInstrumentFetcher{instruments: testCatalog()}
	watcher := NewWatcher(fetcher, 5*time.Minute, nil)

	watcher.ApplyQuote(models.Quote{
		Symbol:    "ETH",
		Bid:       1806.50,
		Ask:       1807.90,
		Last:      1807.18,
		Timestamp: time.Now(),
	})

	ctx := context.Background()

	buy, err := watcher.UnitPrice(ctx, "eth", models.OrderSideBuy)
	require.NoError(t, err)
	assert.Equal(t, 1807.90, buy, "buys execute against the ask")

	sell, err := watcher.UnitPrice(ctx, "eth", models.OrderSideSell)
	require.NoError(t, err)
	assert.Equal(t, 1806.50, sell, "sells execute against the bid")
}

func TestWatcher_UnitPriceFallsBackToLast(t *testing.T) {
	fetcher := &fakeInstrumentFetcher{instruments: testCatalog()}
	watcher := NewWatcher(fetcher, 5*time.Minute, nil)

	// One-sided quote: buys fall back to last.
	watcher.ApplyQuote(models.Quote{Symbol: "ETH", Bid: 1806.50, Last: 1807.18})

	buy, err := watcher.UnitPrice(context.Background(), "eth", models.OrderSideBuy)
	require.NoError(t, err)
	assert.Equal(t, 1807.18, buy)
}

func TestWatcher_UnitPriceUnknownSymbol(t *testing.T) {
	fetcher := &fakeInstrumentFetcher{instruments: testCatalog()}
	watcher := NewWatcher(fetcher, 5*time.Minute, nil)

	_, err := watcher.UnitPrice(context.Background(), "doge", models.OrderSideBuy)
	assert.Error(t, err)
}

func TestWatcher_FetchErrorPropagates(t *testing.T) {
	fetcher := &fakeInstrumentFetcher{err: errors.New("backend down")}
	watcher := NewWatcher(fetcher, 5*time.Minute, nil)

	_, err := watcher.Instruments(context.Background())
	assert.Error(t, err)
}
