// Package core implements the reward computation engine: a pure,
// deterministic pipeline from transaction prices to per-customer reward
// totals.
//
// This file contains the point calculator, which maps a single transaction
// price to an integer reward-point value via tiered marginal accrual.
package core

import (
	"math"
	"strconv"
	"strings"
)

// CalculatePoints returns the reward points earned for a transaction price.
//
// The tiers are marginal, evaluated on the integer-truncated price
// (fractional cents are discarded, not rounded): nothing on the first $50,
// 1 point per dollar from $51 to $100, 2 points per dollar above $100.
//
//	CalculatePoints(50)    -> 0
//	CalculatePoints(100)   -> 50
//	CalculatePoints(100.9) -> 50
//	CalculatePoints(120)   -> 90
//
// An invalid price (NaN, infinite, or negative) yields 0. This silent
// fallback is part of the external contract: callers cannot distinguish a
// genuinely zero-point price from bad input through the return value alone.
// Use CalculatePointsChecked where that distinction matters.
func CalculatePoints(price float64) int {
	points, _ := CalculatePointsChecked(price)
	return points
}

// CalculatePointsChecked is CalculatePoints plus a diagnostic flag: the
// second return is false when the price was not a valid non-negative number.
// The numeric result is identical to CalculatePoints in every case.
func CalculatePointsChecked(price float64) (int, bool) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, false
	}
	p := int(math.Floor(price))
	switch {
	case p > 100:
		return (p-100)*2 + 50, true
	case p > 50:
		return p - 50, true
	default:
		return 0, true
	}
}

// ParsePrice parses a price string from a feed record. Returns (0, false)
// for anything that fails numeric parsing or parses to an invalid price,
// matching the calculator's silent-zero fallback.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// AttachPoints returns a fresh slice in which every transaction carries its
// computed RewardPoints. The input slice is never mutated.
func AttachPoints(txns []Transaction) []Transaction {
	out := make([]Transaction, len(txns))
	for i, t := range txns {
		t.RewardPoints = CalculatePoints(t.Price)
		out[i] = t
	}
	return out
}
