package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"rewards/internal/amqp"
	"rewards/internal/feed"
)

// TransactionCounter is implemented by stores that can report how many
// transactions they hold. Used for periodic stats reporting.
type TransactionCounter interface {
	CountTransactions(ctx context.Context) (int64, error)
}

// IngestWorker moves transactions from the feed queue into durable
// storage. Records that fail validation are dropped and counted, never
// requeued.
type IngestWorker struct {
	writer  feed.TransactionWriter
	counter TransactionCounter

	processed int64
	skipped   int64
}

func NewIngestWorker(writer feed.TransactionWriter, counter TransactionCounter) *IngestWorker {
	return &IngestWorker{
		writer:  writer,
		counter: counter,
	}
}

// HandleTransactionMessage processes a single transaction message from AMQP.
func (w *IngestWorker) HandleTransactionMessage(ctx context.Context, msg *amqp.TransactionMessage) error {
	txn := msg.ToTransaction()

	if err := txn.Validate(); err != nil {
		atomic.AddInt64(&w.skipped, 1)
		slog.WarnContext(ctx, "Dropping invalid transaction from feed",
			"customer_id", msg.CustomerID,
			"date", msg.Date,
			"error", err)
		return nil
	}

	id, err := w.writer.Append(ctx, txn)
	if err != nil {
		return fmt.Errorf("store transaction: %w", err)
	}

	atomic.AddInt64(&w.processed, 1)
	slog.InfoContext(ctx, "Ingested transaction",
		"id", id,
		"customer_id", txn.CustomerID,
		"date", txn.Date.String())

	return nil
}

// ImportFromSource copies every valid transaction from a feed source
// into storage. Used at startup to backfill from an external feed such
// as a spreadsheet, so the store is complete even if queue messages
// were missed.
func (w *IngestWorker) ImportFromSource(ctx context.Context, source feed.TransactionSource) error {
	txns, err := source.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions from source: %w", err)
	}

	imported := 0
	skipped := 0
	for _, txn := range txns {
		if err := txn.Validate(); err != nil {
			skipped++
			continue
		}
		if _, err := w.writer.Append(ctx, txn); err != nil {
			slog.ErrorContext(ctx, "Failed to import transaction",
				"customer_id", txn.CustomerID,
				"error", err)
			skipped++
			continue
		}
		imported++
	}

	atomic.AddInt64(&w.processed, int64(imported))
	atomic.AddInt64(&w.skipped, int64(skipped))

	slog.InfoContext(ctx, "Feed import completed",
		"total", len(txns),
		"imported", imported,
		"skipped", skipped)

	return nil
}

// ReportStats logs ingest counters and, when a counter is configured,
// the current store size.
func (w *IngestWorker) ReportStats(ctx context.Context) {
	processed := atomic.LoadInt64(&w.processed)
	skipped := atomic.LoadInt64(&w.skipped)

	if w.counter == nil {
		slog.InfoContext(ctx, "Ingest stats", "processed", processed, "skipped", skipped)
		return
	}

	stored, err := w.counter.CountTransactions(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Could not count stored transactions", "error", err)
		slog.InfoContext(ctx, "Ingest stats", "processed", processed, "skipped", skipped)
		return
	}

	slog.InfoContext(ctx, "Ingest stats",
		"processed", processed,
		"skipped", skipped,
		"stored", stored)
}

// Processed returns the number of transactions ingested so far.
func (w *IngestWorker) Processed() int64 {
	return atomic.LoadInt64(&w.processed)
}

// Skipped returns the number of records dropped by validation.
func (w *IngestWorker) Skipped() int64 {
	return atomic.LoadInt64(&w.skipped)
}
