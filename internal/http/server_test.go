package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rewards/internal/cache"
	"rewards/internal/core"
	"rewards/internal/feed/memory"
	"rewards/internal/services"
)

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	return d
}

func newTestServer(t *testing.T, seed []core.Transaction) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New(seed)
	summaryCache := cache.NewLRUCache[core.RewardSummary](10, time.Minute)
	txnCache := cache.NewLRUCache[[]core.Transaction](10, time.Minute)
	rewards := services.NewRewardService(store, summaryCache, txnCache)
	txns := services.NewTransactionService(store, nil)
	srv := NewServer(":0", rewards, txns)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv, store
}

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func seedTransactions(t *testing.T) []core.Transaction {
	return []core.Transaction{
		{CustomerID: 1, Name: "Alice", Date: mustDate(t, "2022-01-15"), Price: 120},
		{CustomerID: 1, Name: "Alice", Date: mustDate(t, "2022-02-03"), Price: 75},
		{CustomerID: 2, Name: "Bob", Date: mustDate(t, "2022-01-20"), Price: 200},
	}
}

func TestHandleRewards(t *testing.T) {
	srv, _ := newTestServer(t, seedTransactions(t))

	rec := doRequest(srv, http.MethodGet, "/api/rewards", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/rewards status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var summary core.RewardSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if len(summary.UserRewards) != 3 {
		t.Errorf("userRewards has %d entries, want 3", len(summary.UserRewards))
	}
	if len(summary.TotalRewards) != 2 {
		t.Fatalf("totalRewards has %d entries, want 2", len(summary.TotalRewards))
	}
	if summary.TotalRewards[0].Name != "Alice" || summary.TotalRewards[0].TotalPoints != 115 {
		t.Errorf("totalRewards[0] = %+v, want Alice with 115", summary.TotalRewards[0])
	}
	if summary.TotalRewards[1].Name != "Bob" || summary.TotalRewards[1].TotalPoints != 250 {
		t.Errorf("totalRewards[1] = %+v, want Bob with 250", summary.TotalRewards[1])
	}
}

func TestHandleRewards_DateRange(t *testing.T) {
	srv, _ := newTestServer(t, seedTransactions(t))

	rec := doRequest(srv, http.MethodGet, "/api/rewards?start=2022-02-01&end=2022-02-28", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var summary core.RewardSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(summary.UserRewards) != 1 {
		t.Fatalf("userRewards has %d entries, want 1", len(summary.UserRewards))
	}
	if summary.UserRewards[0].Month != 2 || summary.UserRewards[0].Name != "Alice" {
		t.Errorf("userRewards[0] = %+v", summary.UserRewards[0])
	}
}

func TestHandleRewards_InvalidParams(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
	}{
		{"bad start", "/api/rewards?start=01-15-2022"},
		{"bad end", "/api/rewards?end=bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleRewards_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doRequest(srv, http.MethodPost, "/api/rewards", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET" {
		t.Errorf("Allow header = %q, want GET", allow)
	}
}

func TestHandleCreateTransaction(t *testing.T) {
	srv, store := newTestServer(t, nil)

	body := `{"customerId": 1, "name": "Alice", "date": "2022-01-15", "price": 120.50}`
	rec := doRequest(srv, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Ref          string `json:"ref"`
		RewardPoints int    `json:"rewardPoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Ref == "" {
		t.Error("response ref is empty")
	}
	// floor(120.50) = 120 -> (120-100)*2 + 50 = 90
	if resp.RewardPoints != 90 {
		t.Errorf("rewardPoints = %d, want 90", resp.RewardPoints)
	}

	txns, err := store.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(txns) != 1 {
		t.Errorf("store has %d transactions, want 1", len(txns))
	}
}

func TestHandleCreateTransaction_Invalid(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"customerId": `, http.StatusBadRequest},
		{"unknown field", `{"customerId": 1, "name": "A", "date": "2022-01-15", "price": 10, "extra": true}`, http.StatusBadRequest},
		{"bad date", `{"customerId": 1, "name": "Alice", "date": "15/01/2022", "price": 10}`, http.StatusUnprocessableEntity},
		{"zero customer id", `{"customerId": 0, "name": "Alice", "date": "2022-01-15", "price": 10}`, http.StatusUnprocessableEntity},
		{"blank name", `{"customerId": 1, "name": "   ", "date": "2022-01-15", "price": 10}`, http.StatusUnprocessableEntity},
		{"negative price", `{"customerId": 1, "name": "Alice", "date": "2022-01-15", "price": -5}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandleCreateTransaction_InvalidatesCache(t *testing.T) {
	srv, _ := newTestServer(t, seedTransactions(t))

	first := doRequest(srv, http.MethodGet, "/api/rewards", "")
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", first.Code)
	}

	body := `{"customerId": 3, "name": "Carol", "date": "2022-03-01", "price": 101}`
	if rec := doRequest(srv, http.MethodPost, "/api/transactions", body); rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, want 201", rec.Code)
	}

	second := doRequest(srv, http.MethodGet, "/api/rewards", "")
	var summary core.RewardSummary
	if err := json.Unmarshal(second.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(summary.TotalRewards) != 3 {
		t.Errorf("totalRewards has %d entries after create, want 3", len(summary.TotalRewards))
	}
}

func TestHandleListTransactions(t *testing.T) {
	srv, _ := newTestServer(t, seedTransactions(t))

	rec := doRequest(srv, http.MethodGet, "/api/transactions?start=2022-01-01&end=2022-01-31", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Transactions []struct {
			CustomerID   int64   `json:"customerId"`
			Name         string  `json:"name"`
			Date         string  `json:"date"`
			Price        float64 `json:"price"`
			RewardPoints int     `json:"rewardPoints"`
		} `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Transactions) != 2 {
		t.Fatalf("returned %d transactions, want 2", len(resp.Transactions))
	}
	for _, txn := range resp.Transactions {
		if txn.RewardPoints != core.CalculatePoints(txn.Price) {
			t.Errorf("transaction %+v has wrong rewardPoints", txn)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(srv, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doRequest(srv, http.MethodGet, "/api/rewards", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request 61 should be rejected")
	}
	// Other clients are unaffected
	if !rl.allow("10.0.0.2") {
		t.Error("different client should be allowed")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Alice  ", "Alice"},
		{"Bob\x00Smith", "BobSmith"},
		{"Tab\there", "Tab\there"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
