package market

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/iairbaron/plataforma-trading-frontend/pkg/models"
)

// Stream is the websocket price feed. Ticker messages are dispatched to
// registered handlers by message type; the watcher registers itself for
// "ticker" updates.
type Stream struct {
	url    string
	logger *logrus.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	handlers  map[string]MessageHandler
}

type MessageHandler func(message json.RawMessage) error

type streamMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type subscribeMessage struct {
	Type    string   `json:"type"`
	Symbols []string `json:"symbols"`
}

// TickerUpdate is the payload of a "ticker" stream message.
type TickerUpdate struct {
	Symbol    string    `json:"symbol"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Last      float64   `json:"last"`
	Timestamp time.Time `json:"timestamp"`
}

func NewStream(url string, logger *logrus.Logger) *Stream {
	if logger == nil {
		logger = logrus.New()
	}

	return &Stream{
		url:      url,
		logger:   logger,
		handlers: make(map[string]MessageHandler),
	}
}

func (s *Stream) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to price stream: %w", err)
	}

	s.conn = conn
	s.connected = true

	go s.readLoop(ctx)
	go s.keepAlive(ctx)

	return nil
}

func (s *Stream) Subscribe(symbols []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return fmt.Errorf("price stream not connected")
	}

	return s.conn.WriteJSON(subscribeMessage{
		Type:    "subscribe",
		Symbols: symbols,
	})
}

func (s *Stream) RegisterHandler(messageType string, handler MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[messageType] = handler
}

// AttachWatcher registers a ticker handler that feeds the watcher's quote
// cache.
func (s *Stream) AttachWatcher(watcher *Watcher) {
	s.RegisterHandler("ticker", func(payload json.RawMessage) error {
		var update TickerUpdate
		if err := json.Unmarshal(payload, &update); err != nil {
			return fmt.Errorf("decoding ticker update: %w", err)
		}

		watcher.ApplyQuote(models.Quote{
			Symbol:    update.Symbol,
			Bid:       update.Bid,
			Ask:       update.Ask,
			Last:      update.Last,
			Timestamp: update.Timestamp,
		})
		return nil
	})
}

func (s *Stream) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg streamMessage
			err := s.conn.ReadJSON(&msg)
			if err != nil {
				s.logger.WithError(err).Error("Failed to read stream message")
				s.handleDisconnect()
				return
			}

			s.mu.Lock()
			handler, ok := s.handlers[msg.Type]
			s.mu.Unlock()

			if ok {
				if err := handler(msg.Payload); err != nil {
					s.logger.WithError(err).Error("Stream handler error")
				}
			}
		}
	}
}

func (s *Stream) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.connected {
				if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					s.logger.WithError(err).Error("Failed to send ping")
					s.mu.Unlock()
					s.handleDisconnect()
					continue
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *Stream) handleDisconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = false
	if s.conn != nil {
		s.conn.Close()
	}
}

func (s *Stream) Close() {
	s.handleDisconnect()
}
