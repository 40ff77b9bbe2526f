package wallet

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

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	balance *models.WalletBalance
	err     error
}

func (f *fakeFetcher) GetBalance(ctx context.Context) (*models.WalletBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.balance, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testBalance() *models.WalletBalance {
	return &models.WalletBalance{
		USDBalance:     1500,
		TotalCoinValue: 903.59,
		CoinDetails: map[string]models.CoinDetail{
			"ETH": {Amount: 0.5, Value: 903.59, CurrentPrice: 1807.18},
		},
	}
}

func TestStore_BalanceCachesWithinWindow(t *testing.T) {
	fetcher := &fakeFetcher{balance: testBalance()}
	store := NewStore(fetcher, time.Minute, nil)

	ctx := context.Background()

	_, err := store.Balance(ctx)
	require.NoError(t, err)
	_, err = store.Balance(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.callCount())
}

func TestStore_BalanceRefetchesWhenStale(t *testing.T) {
	fetcher := &fakeFetcher{balance: testBalance()}
	store := NewStore(fetcher, time.Minute, nil)

	current := time.Now()
	store.now = func() time.Time { return current }

	ctx := context.Background()

	_, err := store.Balance(ctx)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = store.Balance(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.callCount())
}

func TestStore_InvalidateForcesRefetch(t *testing.T) {
	fetcher := &fakeFetcher{balance: testBalance()}
	store := NewStore(fetcher, time.Minute, nil)

	ctx := context.Background()

	_, err := store.Balance(ctx)
	require.NoError(t, err)

	store.Invalidate()

	_, err = store.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestStore_RefreshBypassesCache(t *testing.T) {
	fetcher := &fakeFetcher{balance: testBalance()}
	store := NewStore(fetcher, time.Minute, nil)

	ctx := context.Background()

	_, err := store.Snapshot(ctx, "eth")
	require.NoError(t, err)
	_, err = store.Snapshot(ctx, "eth")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount(), "snapshots share the cache")

	_, err = store.Refresh(ctx, "eth")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount(), "refresh always fetches")
}

func TestStore_SnapshotPerSymbol(t *testing.T) {
	fetcher := &fakeFetcher{balance: testBalance()}
	store := NewStore(fetcher, time.Minute, nil)

	ctx := context.Background()

	// Symbol lookup is case-insensitive against the coinDetails keys.
	snapshot, err := store.Snapshot(ctx, "eth")
	require.NoError(t, err)
	assert.Equal(t, models.BalanceSnapshot{USDAvailable: 1500, CoinAvailable: 0.5}, snapshot)

	// Unowned assets have zero coin available but full cash.
	snapshot, err = store.Snapshot(ctx, "btc")
	require.NoError(t, err)
	assert.Equal(t, models.BalanceSnapshot{USDAvailable: 1500, CoinAvailable: 0}, snapshot)
}

func TestStore_FetchErrorPropagates(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("wallet unavailable")}
	store := NewStore(fetcher, time.Minute, nil)

	_, err := store.Balance(context.Background())
	assert.Error(t, err)

	_, err = store.Snapshot(context.Background(), "eth")
	assert.Error(t, err)
}
