package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"rewards/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable transaction store. It implements both
// feed ports: the ingest paths append, the reward engine lists.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements feed.TransactionWriter. Records are validated before
// insert; the table only ever holds well-formed transactions.
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (customer_id, name, date, price) VALUES (?, ?, ?, ?)`,
		t.CustomerID, t.Name, t.Date.String(), t.Price)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"customer_id", t.CustomerID,
		"date", t.Date.String(),
		"price", t.Price)

	return strconv.FormatInt(id, 10), nil
}

// ListTransactions implements feed.TransactionSource. Rows come back in
// insertion order, which is the feed order the aggregation contract
// depends on.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT customer_id, name, date, price FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
		)
		if err := rows.Scan(&t.CustomerID, &t.Name, &dateStr, &t.Price); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		// Appends are validated, so dates in the table parse; a corrupted
		// row degrades to a zero date and falls out of aggregation.
		if d, err := core.ParseDate(dateStr); err == nil {
			t.Date = d
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txns, nil
}

// CountTransactions returns the number of stored transactions.
func (r *SQLiteRepository) CountTransactions(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
