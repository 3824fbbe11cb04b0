package feed

import (
	"context"

	"rewards/internal/core"
)

// Ports for the transaction feed adapters. The reward engine consumes the
// feed as a fully materialized slice; retrieval, caching and retry policy
// live behind these interfaces, never inside the engine.
type (
	// TransactionSource yields the complete transaction set, in feed order.
	// Implementations must return records even when individual fields were
	// malformed upstream; the engine degrades per record.
	TransactionSource interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// TransactionWriter persists a new transaction and returns an opaque
	// record reference. Read-only backends simply don't implement it.
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (ref string, err error)
	}
)
