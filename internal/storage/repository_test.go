package storage

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"rewards/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "rewards.db")
	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	return d
}

func TestSQLiteRepository_AppendAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	txns := []core.Transaction{
		{CustomerID: 1, Name: "Alice", Date: mustDate(t, "2022-01-15"), Price: 120.50},
		{CustomerID: 2, Name: "Bob", Date: mustDate(t, "2022-02-03"), Price: 75},
		{CustomerID: 1, Name: "Alice", Date: mustDate(t, "2022-02-20"), Price: 49.99},
	}

	for _, tx := range txns {
		id, err := repo.Append(ctx, tx)
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if id == "" {
			t.Error("Append() returned empty id")
		}
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(got) != len(txns) {
		t.Fatalf("ListTransactions() returned %d transactions, want %d", len(got), len(txns))
	}
	for i, want := range txns {
		if got[i].CustomerID != want.CustomerID {
			t.Errorf("txn %d: CustomerID = %d, want %d", i, got[i].CustomerID, want.CustomerID)
		}
		if got[i].Name != want.Name {
			t.Errorf("txn %d: Name = %q, want %q", i, got[i].Name, want.Name)
		}
		if got[i].Date.String() != want.Date.String() {
			t.Errorf("txn %d: Date = %s, want %s", i, got[i].Date, want.Date)
		}
		if got[i].Price != want.Price {
			t.Errorf("txn %d: Price = %v, want %v", i, got[i].Price, want.Price)
		}
	}
}

func TestSQLiteRepository_AppendRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name string
		txn  core.Transaction
	}{
		{"zero customer id", core.Transaction{CustomerID: 0, Name: "Alice", Date: mustDate(t, "2022-01-15"), Price: 10}},
		{"blank name", core.Transaction{CustomerID: 1, Name: "  ", Date: mustDate(t, "2022-01-15"), Price: 10}},
		{"zero date", core.Transaction{CustomerID: 1, Name: "Alice", Price: 10}},
		{"nan price", core.Transaction{CustomerID: 1, Name: "Alice", Date: mustDate(t, "2022-01-15"), Price: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repo.Append(ctx, tt.txn); err == nil {
				t.Error("Append() expected error for invalid transaction, got nil")
			}
		})
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("store should be empty after rejected appends, has %d rows", len(got))
	}
}

func TestSQLiteRepository_CountTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.CountTransactions(ctx)
	if err != nil {
		t.Fatalf("CountTransactions() error = %v", err)
	}
	if n != 0 {
		t.Errorf("CountTransactions() = %d, want 0", n)
	}

	for i := int64(1); i <= 3; i++ {
		if _, err := repo.Append(ctx, core.Transaction{CustomerID: i, Name: "Customer", Date: mustDate(t, "2022-03-01"), Price: 60}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	n, err = repo.CountTransactions(ctx)
	if err != nil {
		t.Fatalf("CountTransactions() error = %v", err)
	}
	if n != 3 {
		t.Errorf("CountTransactions() = %d, want 3", n)
	}
}

func TestSQLiteRepository_EmptyList(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListTransactions() on empty store returned %d rows", len(got))
	}
}
