package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage announces that one of the persisted collections
// changed. Consumers reload from storage rather than trusting payload
// contents, so the message stays small.
type LedgerChangedMessage struct {
	Collection string    `json:"collection"` // transactions, goals or categories
	Op         string    `json:"op"`         // add, remove, import or reset
	Timestamp  time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(collection, op string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Collection: collection,
		Op:         op,
		Timestamp:  time.Now(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
