package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"rewards/internal/core"
)

// Store is an in-memory transaction feed, optionally seeded from a JSON
// file. It serves as the default backend for local development and tests.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

// seedRecord mirrors the raw feed shape: prices and dates arrive as loosely
// typed values that may fail parsing.
// Price stays raw so a string or garbage value degrades to NaN instead
// of failing the whole seed batch.
type seedRecord struct {
	CustomerID int64           `json:"customerId"`
	Name       string          `json:"name"`
	Date       string          `json:"date"`
	Price      json.RawMessage `json:"price"`
}

func New(items []core.Transaction) *Store {
	return &Store{items: append([]core.Transaction(nil), items...)}
}

// NewFromFile seeds the store from <base>/transactions.json when present.
// A missing or unreadable seed file yields an empty store; individual
// malformed records are kept with their defect preserved (zero date,
// invalid price) so the engine's per-record tolerance stays observable.
func NewFromFile(base string) *Store {
	raw, err := os.ReadFile(filepath.Join(base, "transactions.json"))
	if err != nil {
		return &Store{}
	}

	var records []seedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return &Store{}
	}

	items := make([]core.Transaction, 0, len(records))
	for _, r := range records {
		items = append(items, recordToTransaction(r))
	}
	return &Store{items: items}
}

func recordToTransaction(r seedRecord) core.Transaction {
	t := core.Transaction{
		CustomerID: r.CustomerID,
		Name:       r.Name,
	}
	// Unparsable dates stay zero; the aggregator drops such records
	// instead of failing the batch.
	if d, err := core.ParseDate(r.Date); err == nil {
		t.Date = d
	}
	// Unparsable prices become NaN so the calculator's silent-zero
	// fallback (and its diagnostic channel) still apply downstream.
	raw := strings.Trim(strings.TrimSpace(string(r.Price)), `"`)
	if v, ok := core.ParsePrice(raw); ok {
		t.Price = v
	} else {
		t.Price = math.NaN()
	}
	return t
}

// Append stores the transaction and returns a synthetic record reference.
func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// ListTransactions returns all transactions in feed order.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...), nil
}
