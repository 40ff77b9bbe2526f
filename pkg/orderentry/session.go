package orderentry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iairbaron/plataforma-trading-frontend/pkg/backend"
	"github.com/iairbaron/plataforma-trading-frontend/pkg/models"
)

// State is the submission lifecycle of one draft.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

var (
	// ErrSubmitInFlight rejects a second submit while one is pending.
	ErrSubmitInFlight = errors.New("order submission already in flight")
	// ErrDraftSubmitted rejects submits after success; the session must be
	// reset to start a new draft.
	ErrDraftSubmitted = errors.New("draft already submitted")
)

const genericSubmitMessage = "an error occurred while processing your order"

// OrderPlacer is the slice of the backend client the session needs.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderReceipt, error)
}

// BalanceSource supplies read-only balance snapshots for one symbol.
// Snapshot may serve cached data; Refresh must hit the backend, because the
// balance can change underneath an open session. Invalidate tells the owner
// its cached view is stale.
type BalanceSource interface {
	Snapshot(ctx context.Context, symbol string) (models.BalanceSnapshot, error)
	Refresh(ctx context.Context, symbol string) (models.BalanceSnapshot, error)
	Invalidate()
}

// Session owns one order draft from the moment an entry surface opens until
// it is submitted or abandoned. One session, one draft, at most one
// submission in flight.
type Session struct {
	symbol    string
	side      models.OrderSide
	unitPrice float64
	orders    OrderPlacer
	balances  BalanceSource
	onSuccess func()
	logger    *logrus.Logger

	mu      sync.Mutex
	draft   Draft
	state   State
	errMsg  string
	receipt *models.OrderReceipt
}

// NewSession opens an order entry session at a fixed unit price. The price
// is supplied per side by the market watcher and never changes within a
// session; a non-positive price is a broken caller contract.
func NewSession(symbol string, side models.OrderSide, unitPrice float64, orders OrderPlacer, balances BalanceSource, onSuccess func(), logger *logrus.Logger) (*Session, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("orderentry: invalid side %q", side)
	}
	if !(unitPrice > 0) {
		return nil, fmt.Errorf("orderentry: unit price must be positive, got %v", unitPrice)
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Session{
		symbol:    symbol,
		side:      side,
		unitPrice: unitPrice,
		orders:    orders,
		balances:  balances,
		onSuccess: onSuccess,
		logger:    logger,
		state:     StateIdle,
	}, nil
}

func (s *Session) Symbol() string         { return s.symbol }
func (s *Session) Side() models.OrderSide { return s.side }
func (s *Session) UnitPrice() float64     { return s.unitPrice }

func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// State returns the submission state and, when failed, the stored message.
func (s *Session) State() (State, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.errMsg
}

// Receipt returns the backend's order record after a successful submit.
func (s *Session) Receipt() *models.OrderReceipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receipt
}

// Edit applies one field edit and returns the reconciled draft. Editing
// clears a stored failure message immediately, so the user starts the next
// attempt clean.
func (s *Session) Edit(edit Edit) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = Reconcile(s.draft, edit, s.unitPrice)
	s.errMsg = ""
	if s.state == StateFailed {
		s.state = StateIdle
	}
	return s.draft
}

// Check runs the validation gate against a possibly-cached balance
// snapshot. This is the advisory, keystroke-time pass used to disable the
// submit control; Submit re-validates against a fresh read.
func (s *Session) Check(ctx context.Context) ([]FieldError, error) {
	balance, err := s.balances.Snapshot(ctx, s.symbol)
	if err != nil {
		return nil, fmt.Errorf("reading balance: %w", err)
	}
	return Validate(s.Draft(), s.side, balance), nil
}

// Remaining is the balance left after the draft executes: available coin
// minus amount for sells, available cash minus total for buys. Negative
// values are what the advisory balance check flags.
func (s *Session) Remaining(balance models.BalanceSnapshot) float64 {
	draft := s.Draft()
	if s.side == models.OrderSideSell {
		return balance.CoinAvailable - draft.Amount
	}
	return balance.USDAvailable - draft.TotalValue
}

// Submit turns the current draft into exactly one order-creation request.
//
// Validation failures come back as field errors with no network call and no
// state transition. A failed request moves the session to StateFailed with
// the server's message, keeping the draft intact for a retry. Success moves
// to StateSucceeded, resets the draft, invalidates the balance cache and
// fires the completion callback.
func (s *Session) Submit(ctx context.Context) ([]FieldError, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StateSucceeded:
		s.mu.Unlock()
		return nil, ErrDraftSubmitted
	}
	s.errMsg = ""
	draft := s.draft
	s.mu.Unlock()

	// Authoritative balance read: the advisory check may have run against
	// a snapshot that concurrent orders or withdrawals have outdated.
	balance, err := s.balances.Refresh(ctx, s.symbol)
	if err != nil {
		return nil, fmt.Errorf("refreshing balance: %w", err)
	}

	if fails := Validate(draft, s.side, balance); len(fails) > 0 {
		return fails, nil
	}

	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	req := models.OrderRequest{
		Symbol:           s.symbol,
		Amount:           draft.Amount,
		Type:             s.side,
		PriceAtExecution: s.unitPrice,
		Total:            draft.TotalValue,
	}

	receipt, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		message := backend.Message(err)
		if message == "" {
			message = genericSubmitMessage
		}

		s.mu.Lock()
		s.state = StateFailed
		s.errMsg = message
		s.mu.Unlock()

		s.logger.WithError(err).WithFields(logrus.Fields{
			"symbol": s.symbol,
			"side":   s.side,
		}).Warn("Order submission failed")
		return nil, err
	}

	s.mu.Lock()
	s.state = StateSucceeded
	s.receipt = receipt
	s.errMsg = ""
	s.draft = Draft{}
	s.mu.Unlock()

	s.balances.Invalidate()

	s.logger.WithFields(logrus.Fields{
		"symbol":   s.symbol,
		"side":     s.side,
		"order_id": receipt.OrderID,
	}).Info("Order submitted")

	if s.onSuccess != nil {
		s.onSuccess()
	}
	return nil, nil
}

// Reset discards the draft and returns the session to idle, the same as
// closing and reopening the entry surface.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		// The in-flight response will land on a session nobody reads.
		s.logger.WithField("symbol", s.symbol).Debug("Session reset while submitting")
	}
	s.draft = Draft{}
	s.state = StateIdle
	s.errMsg = ""
	s.receipt = nil
}
