// Package wallet caches the backend's balance view. The order entry core
// reads snapshots from here and invalidates the cache after a fill; the
// store owns the actual re-fetch.
package wallet

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iairbaron/plataforma-trading-frontend/pkg/models"
)

const defaultStaleAfter = time.Minute

// BalanceFetcher is the slice of the backend client the store needs.
type BalanceFetcher interface {
	GetBalance(ctx context.Context) (*models.WalletBalance, error)
}

type Store struct {
	fetcher    BalanceFetcher
	staleAfter time.Duration
	logger     *logrus.Logger
	now        func() time.Time

	mu        sync.RWMutex
	cached    *models.WalletBalance
	fetchedAt time.Time
}

func NewStore(fetcher BalanceFetcher, staleAfter time.Duration, logger *logrus.Logger) *Store {
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Store{
		fetcher:    fetcher,
		staleAfter: staleAfter,
		logger:     logger,
		now:        time.Now,
	}
}

// Balance returns the cached wallet balance, fetching when the cache is
// empty, invalidated, or older than the staleness window.
func (s *Store) Balance(ctx context.Context) (*models.WalletBalance, error) {
	s.mu.RLock()
	cached, fetchedAt := s.cached, s.fetchedAt
	s.mu.RUnlock()

	if cached != nil && s.now().Sub(fetchedAt) < s.staleAfter {
		return cached, nil
	}
	return s.Fetch(ctx)
}

// Fetch bypasses the cache, reads the backend, and stores the result.
func (s *Store) Fetch(ctx context.Context) (*models.WalletBalance, error) {
	balance, err := s.fetcher.GetBalance(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = balance
	s.fetchedAt = s.now()
	s.mu.Unlock()

	s.logger.WithField("usd", balance.USDBalance).Debug("Wallet balance refreshed")
	return balance, nil
}

// Invalidate drops the cached balance so the next read re-fetches.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

// Snapshot is the cached-OK per-symbol view for advisory validation.
func (s *Store) Snapshot(ctx context.Context, symbol string) (models.BalanceSnapshot, error) {
	balance, err := s.Balance(ctx)
	if err != nil {
		return models.BalanceSnapshot{}, err
	}
	return snapshotFor(balance, symbol), nil
}

// Refresh is the authoritative per-symbol view read at submission time.
func (s *Store) Refresh(ctx context.Context, symbol string) (models.BalanceSnapshot, error) {
	balance, err := s.Fetch(ctx)
	if err != nil {
		return models.BalanceSnapshot{}, err
	}
	return snapshotFor(balance, symbol), nil
}

func snapshotFor(balance *models.WalletBalance, symbol string) models.BalanceSnapshot {
	snapshot := models.BalanceSnapshot{USDAvailable: balance.USDBalance}

	for key, detail := range balance.CoinDetails {
		if strings.EqualFold(key, symbol) {
			snapshot.CoinAvailable = detail.Amount
			break
		}
	}
	return snapshot
}
