package ws

import "crypto_cashier/internal/domain"

const (
	// client - server
	MsgPing = "ping"

	// server - client
	MsgReady = "ready"
	MsgPong  = "pong"
	MsgError = "error"
)

// Message is the envelope pushed to admin clients. Type is one of the Msg*
// constants or a transaction event name.
type Message struct {
	Type        string              `json:"type"`
	Transaction *domain.Transaction `json:"transaction,omitempty"`
	Message     string              `json:"message,omitempty"`
}
