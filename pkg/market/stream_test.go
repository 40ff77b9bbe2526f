package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iairbaron/plataforma-trading-frontend/pkg/models"
)

func TestStream_TickerFeedsWatcher(t *testing.T) {
	upgrader := websocket.Upgrader{}
	subscribed := make(chan subscribeMessage, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var sub subscribeMessage
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		subscribed <- sub

		payload, _ := json.Marshal(TickerUpdate{
			Symbol:    "ETH",
			Bid:       1806.50,
			Ask:       1807.90,
			Last:      1807.18,
			Timestamp: time.Now(),
		})
		conn.WriteJSON(streamMessage{Type: "ticker", Payload: payload})

		// Hold the connection open until the client is done.
		conn.ReadMessage()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := &fakeInstrumentFetcher{instruments: testCatalog()}
	watcher := NewWatcher(fetcher, 5*time.Minute, nil)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	stream := NewStream(url, nil)
	stream.AttachWatcher(watcher)

	require.NoError(t, stream.Connect(ctx))
	defer stream.Close()

	require.NoError(t, stream.Subscribe([]string{"eth"}))

	select {
	case sub := <-subscribed:
		assert.Equal(t, "subscribe", sub.Type)
		assert.Equal(t, []string{"eth"}, sub.Symbols)
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the subscribe message")
	}

	require.Eventually(t, func() bool {
		price, err := watcher.UnitPrice(ctx, "eth", models.OrderSideBuy)
		return err == nil && price == 1807.90
	}, 2*time.Second, 10*time.Millisecond, "ticker update never reached the watcher")

	sell, err := watcher.UnitPrice(ctx, "eth", models.OrderSideSell)
	require.NoError(t, err)
	assert.Equal(t, 1806.50, sell)
}

func TestStream_SubscribeBeforeConnect(t *testing.T) {
	stream := NewStream("ws://localhost:0", nil)
	assert.Error(t, stream.Subscribe([]string{"eth"}))
}
