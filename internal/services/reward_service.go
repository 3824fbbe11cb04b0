package services

import (
	"context"
	"fmt"
	"log/slog"

	"rewards/internal/cache"
	"rewards/internal/core"
	"rewards/internal/feed"
)

// RewardService computes reward summaries from the transaction feed.
// Every call recomputes from the full feed; the LRU caches only
// short-circuit repeated queries for the same date range.
type RewardService struct {
	source       feed.TransactionSource
	summaryCache *cache.LRUCache[core.RewardSummary]
	txnCache     *cache.LRUCache[[]core.Transaction]
}

func NewRewardService(source feed.TransactionSource, summaryCache *cache.LRUCache[core.RewardSummary], txnCache *cache.LRUCache[[]core.Transaction]) *RewardService {
	return &RewardService{
		source:       source,
		summaryCache: summaryCache,
		txnCache:     txnCache,
	}
}

func rangeKey(start, end core.Date) string {
	return start.String() + "|" + end.String()
}

// Summary returns per-customer monthly rewards and name-keyed totals
// for transactions within the inclusive date range. A zero start or end
// leaves that side of the range unbounded.
func (s *RewardService) Summary(ctx context.Context, start, end core.Date) (core.RewardSummary, error) {
	key := rangeKey(start, end)
	if s.summaryCache != nil {
		if cached, ok := s.summaryCache.Get(key); ok {
			slog.DebugContext(ctx, "Reward summary served from cache", "range", key)
			return cached, nil
		}
	}

	txns, err := s.source.ListTransactions(ctx)
	if err != nil {
		return core.RewardSummary{}, fmt.Errorf("list transactions: %w", err)
	}

	summary := core.CalculateUserRewards(core.AttachPoints(txns), start, end)

	if s.summaryCache != nil {
		s.summaryCache.Set(key, summary)
	}

	slog.InfoContext(ctx, "Computed reward summary",
		"range", key,
		"transactions", len(txns),
		"monthly_rewards", len(summary.UserRewards),
		"total_rewards", len(summary.TotalRewards))

	return summary, nil
}

// Transactions returns the feed filtered to the inclusive date range,
// with points attached to each record.
func (s *RewardService) Transactions(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	key := rangeKey(start, end)
	if s.txnCache != nil {
		if cached, ok := s.txnCache.Get(key); ok {
			return cached, nil
		}
	}

	txns, err := s.source.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	filtered := core.FilterByRange(core.AttachPoints(txns), start, end)

	if s.txnCache != nil {
		s.txnCache.Set(key, filtered)
	}

	return filtered, nil
}

// Invalidate drops all cached results. Called after the feed changes.
func (s *RewardService) Invalidate() {
	if s.summaryCache != nil {
		s.summaryCache.Purge()
	}
	if s.txnCache != nil {
		s.txnCache.Purge()
	}
}
