package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"rewards/internal/core"
)

type createTransactionRequest struct {
	CustomerID int64       `json:"customerId"`
	Name       string      `json:"name"`
	Date       string      `json:"date"`
	Price      json.Number `json:"price"`
}

type createTransactionResponse struct {
	Ref          string `json:"ref"`
	RewardPoints int    `json:"rewardPoints"`
}

type transactionRecord struct {
	CustomerID   int64   `json:"customerId"`
	Name         string  `json:"name"`
	Date         string  `json:"date"`
	Price        float64 `json:"price"`
	RewardPoints int     `json:"rewardPoints"`
}

type transactionsResponse struct {
	Transactions []transactionRecord `json:"transactions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (req createTransactionRequest) toTransaction() (core.Transaction, error) {
	txn := core.Transaction{
		CustomerID: req.CustomerID,
		Name:       sanitizeInput(req.Name),
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, req.Date)
	}
	txn.Date = date

	price, err := req.Price.Float64()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrInvalidPrice, req.Price.String())
	}
	txn.Price = price

	return txn, nil
}

func toTransactionRecords(txns []core.Transaction) []transactionRecord {
	records := make([]transactionRecord, 0, len(txns))
	for _, t := range txns {
		records = append(records, transactionRecord{
			CustomerID:   t.CustomerID,
			Name:         t.Name,
			Date:         t.Date.String(),
			Price:        t.Price,
			RewardPoints: t.RewardPoints,
		})
	}
	return records
}

// parseRangeParams reads the optional start and end query parameters.
// Absent or empty parameters leave that bound open; a present but
// unparsable value is a client error.
func parseRangeParams(r *http.Request) (start, end core.Date, err error) {
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		start, err = core.ParseDate(v)
		if err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", v)
		}
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		end, err = core.ParseDate(v)
		if err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", v)
		}
	}

	return start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1 // remove character
		}
		return r
	}, s)
	return result
}
