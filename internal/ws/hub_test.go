package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth map[string]domain.Principal

func (s stubAuth) Authenticate(_ context.Context, token string) (domain.Principal, error) {
	p, ok := s[token]
	if !ok {
		return domain.Principal{}, apperr.Unauthorized("invalid or expired session")
	}
	return p, nil
}

func newFeedServer(t *testing.T, hub *Hub, origins []string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := stubAuth{
		"admin-token": {UserID: "admin-1", Role: domain.RoleAdmin},
		"other-token": {UserID: "u-2", Role: "GUEST"},
	}
	r.GET("/api/admin/ws", HandleWS(hub, auth, origins))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/admin/ws" + query
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m Message
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestFeedDeliversTransactionEvents(t *testing.T) {
	hub := NewHub()
	srv := newFeedServer(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=admin-token"), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, MsgReady, readMessage(t, conn).Type)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("transaction.updated", domain.Transaction{
		ID:     "w-1",
		Type:   domain.TxWithdrawal,
		Amount: decimal.RequireFromString("0.002"),
		Status: domain.StatusCompleted,
		TxID:   "abc123",
	})

	m := readMessage(t, conn)
	assert.Equal(t, "transaction.updated", m.Type)
	require.NotNil(t, m.Transaction)
	assert.Equal(t, "w-1", m.Transaction.ID)
	assert.Equal(t, "abc123", m.Transaction.TxID)
	assert.Equal(t, domain.StatusCompleted, m.Transaction.Status)
}

func TestFeedAnswersPing(t *testing.T) {
	hub := NewHub()
	srv := newFeedServer(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=admin-token"), nil)
	require.NoError(t, err)
	defer conn.Close()
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(Message{Type: MsgPing}))
	assert.Equal(t, MsgPong, readMessage(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	assert.Equal(t, MsgError, readMessage(t, conn).Type)
}

func TestFeedRejectsBadSessions(t *testing.T) {
	hub := NewHub()
	srv := newFeedServer(t, hub, nil)

	_, res, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	_, res, err = websocket.DefaultDialer.Dial(wsURL(srv, "?token=other-token"), nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, 0, hub.Count())
}

func TestFeedChecksOrigin(t *testing.T) {
	hub := NewHub()
	srv := newFeedServer(t, hub, []string{"https://admin.example"})

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, res, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=admin-token"), header)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	header.Set("Origin", "https://admin.example")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=admin-token"), header)
	require.NoError(t, err)
	conn.Close()
}

func TestBroadcastDropsSlowClients(t *testing.T) {
	hub := NewHub()
	fast := &Client{UserID: "fast", Send: make(chan []byte, 4), Hub: hub}
	slow := &Client{UserID: "slow", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(fast)
	hub.Register(slow)

	hub.Broadcast([]byte(`{"type":"a"}`))
	hub.Broadcast([]byte(`{"type":"b"}`))

	assert.Equal(t, 1, hub.Count())
	assert.Len(t, fast.Send, 2)

	// the slow client's channel is closed after draining
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open)

	hub.Unregister(slow)
	assert.Equal(t, 1, hub.Count())
}

func TestPublishEncodesEnvelope(t *testing.T) {
	hub := NewHub()
	c := &Client{UserID: "a", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(c)

	hub.Publish("transaction.created", domain.Transaction{ID: "d-1", Type: domain.TxDeposit})

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(<-c.Send, &m))
	assert.JSONEq(t, `"transaction.created"`, string(m["type"]))
	assert.Contains(t, string(m["transaction"]), `"id":"d-1"`)

	hub.Close()
	assert.Equal(t, 0, hub.Count())
	_, open := <-c.Send
	assert.False(t, open)
}
