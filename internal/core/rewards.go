package core

// monthKey identifies one per-customer, per-calendar-month accumulator.
type monthKey struct {
	customerID int64
	month      int
	year       int
}

// InRange reports whether the transaction's calendar day falls inside the
// inclusive [start, end] range. A zero start or end leaves that side
// unbounded. Transactions with a zero (unparsable) date never match.
func (t Transaction) InRange(start, end Date) bool {
	if t.Date.IsZero() {
		return false
	}
	if !start.IsZero() && !t.Date.OnOrAfter(start) {
		return false
	}
	if !end.IsZero() && !t.Date.OnOrBefore(end) {
		return false
	}
	return true
}

// FilterByRange returns the transactions passing the inclusive date range,
// preserving input order. The input slice is not mutated.
func FilterByRange(txns []Transaction, start, end Date) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if t.InRange(start, end) {
			out = append(out, t)
		}
	}
	return out
}

// CalculateUserRewards filters transactions by the inclusive date range and
// reduces them into per-customer monthly totals and per-name all-time
// totals. Zero-value start/end mean unbounded on that side.
//
// Every call recomputes from scratch over its own inputs and returns fresh
// slices; calling twice with identical arguments yields identical output.
// Record order is significant: monthly rewards appear in first-occurrence
// order of their (customer, month, year) key, totals in first-occurrence
// order of each distinct name over the monthly list. Callers wanting a
// display order sort downstream.
//
// Malformed records degrade gracefully: a transaction whose date failed
// parsing (zero Date) fails the range filter and is excluded; a transaction
// whose price was invalid carries the calculator's silent zero points. The
// aggregation itself never fails.
func CalculateUserRewards(txns []Transaction, start, end Date) RewardSummary {
	// Monthly grouping: one left-to-right pass. An index on the key avoids
	// rescanning the accumulator per transaction without changing the
	// observable emission order.
	monthly := make([]MonthlyReward, 0, len(txns))
	monthIdx := make(map[monthKey]int, len(txns))
	for _, t := range txns {
		if !t.InRange(start, end) {
			continue
		}
		key := monthKey{customerID: t.CustomerID, month: t.Date.Month(), year: t.Date.Year()}
		if i, ok := monthIdx[key]; ok {
			// Name stays as first seen for the key even when later
			// transactions disagree.
			monthly[i].TotalPoints += t.RewardPoints
			continue
		}
		monthIdx[key] = len(monthly)
		monthly = append(monthly, MonthlyReward{
			CustomerID:  t.CustomerID,
			Month:       t.Date.Month(),
			Year:        t.Date.Year(),
			Name:        t.Name,
			TotalPoints: t.RewardPoints,
		})
	}

	// Total reduction runs over the monthly results, keyed by display name.
	totals := make([]TotalReward, 0, len(monthly))
	totalIdx := make(map[string]int, len(monthly))
	for _, m := range monthly {
		if i, ok := totalIdx[m.Name]; ok {
			totals[i].TotalPoints += m.TotalPoints
			continue
		}
		totalIdx[m.Name] = len(totals)
		totals = append(totals, TotalReward{Name: m.Name, TotalPoints: m.TotalPoints})
	}

	return RewardSummary{UserRewards: monthly, TotalRewards: totals}
}
