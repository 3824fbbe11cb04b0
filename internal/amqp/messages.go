package amqp

import (
	"encoding/json"
	"time"

	"rewards/internal/core"
)

// TransactionMessage is the wire form of a transaction on the feed and
// event queues. Date travels as text so malformed upstream values reach
// the consumer instead of failing at the broker boundary.
type TransactionMessage struct {
	CustomerID int64     `json:"customerId"`
	Name       string    `json:"name"`
	Date       string    `json:"date"`
	Price      float64   `json:"price"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewTransactionMessage builds a message from a domain transaction.
func NewTransactionMessage(t core.Transaction) *TransactionMessage {
	return &TransactionMessage{
		CustomerID: t.CustomerID,
		Name:       t.Name,
		Date:       t.Date.String(),
		Price:      t.Price,
		Timestamp:  time.Now(),
	}
}

// ToTransaction converts the message back to the domain type. An
// unparsable date yields a zero date; validation downstream decides
// what to do with it.
func (m *TransactionMessage) ToTransaction() core.Transaction {
	t := core.Transaction{
		CustomerID: m.CustomerID,
		Name:       m.Name,
		Price:      m.Price,
	}
	if d, err := core.ParseDate(m.Date); err == nil {
		t.Date = d
	}
	return t
}

// ToJSON converts the message to JSON bytes
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
