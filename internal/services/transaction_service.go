package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rewards/internal/amqp"
	"rewards/internal/core"
	"rewards/internal/feed"
)

// ErrReadOnlyFeed is returned when a write is attempted against a
// backend without a writer, such as the spreadsheet feed.
var ErrReadOnlyFeed = errors.New("transaction feed is read-only")

// TransactionService orchestrates transaction writes across storage and AMQP
type TransactionService struct {
	writer     feed.TransactionWriter
	amqpClient *amqp.Client
}

func NewTransactionService(writer feed.TransactionWriter, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		writer:     writer,
		amqpClient: amqpClient,
	}
}

// Create validates and saves a transaction locally, then publishes an
// event message. The publish is best effort; a broker outage never
// fails the request once the local write succeeded.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	if s.writer == nil {
		return "", ErrReadOnlyFeed
	}

	ref, err := s.writer.Append(ctx, t)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publishCreated(ctx, t); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"ref", ref, "error", err)
		// Don't fail the request - transaction is saved locally
	}

	return ref, nil
}

func (s *TransactionService) publishCreated(ctx context.Context, t core.Transaction) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping event publish")
		return nil
	}

	return s.amqpClient.PublishTransaction(ctx, t)
}

// Close releases the AMQP connection. Storage lifecycle belongs to the
// backend cleanup function, not the service.
func (s *TransactionService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp client: %w", err)
		}
	}
	return nil
}
