package p2p

import (
	"encoding/json"

	"curvecash/internal/coin"
)

// Message is the generic envelope for any message sent over the network.
// It allows for flexible communication of different data structures.
type Message struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	SenderID string          `json:"senderId"`
}

// MintAnnouncement carries a mint transaction to a peer. The transaction's
// point and proof fields are raw bytes, which encoding/json transports as
// base64 strings.
type MintAnnouncement struct {
	SenderID string       `json:"senderId"`
	Tx       *coin.MintTx `json:"tx"`
}

// SpendAnnouncement carries a spend transaction to a peer.
type SpendAnnouncement struct {
	SenderID string        `json:"senderId"`
	Tx       *coin.SpendTx `json:"tx"`
}

// SimpleTextMessage is a plain-text payload, used for diagnostics.
type SimpleTextMessage struct {
	Content string `json:"content"`
}
