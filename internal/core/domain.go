package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date with no meaningful time-of-day component.
	// The zero value marks an absent or unparsable date.
	Date struct {
		time.Time
	}

	// Transaction is a single purchase event from the feed. RewardPoints is
	// derived from Price by the point calculator and attached before
	// aggregation; the raw feed record carries it as zero.
	Transaction struct {
		CustomerID   int64
		Name         string
		Date         Date
		Price        float64
		RewardPoints int
	}

	// MonthlyReward is the per-customer, per-calendar-month point total.
	// One record per (CustomerID, Month, Year); Name is frozen at the first
	// transaction seen for the key.
	MonthlyReward struct {
		CustomerID  int64  `json:"customerId"`
		Month       int    `json:"month"` // 1-12
		Year        int    `json:"year"`
		Name        string `json:"name"`
		TotalPoints int    `json:"totalPoints"`
	}

	// TotalReward is the all-time point total keyed by customer display
	// name. Keying by name rather than customer id is the externally
	// specified aggregation contract: customers sharing a display name
	// collapse into one row.
	TotalReward struct {
		Name        string `json:"name"`
		TotalPoints int    `json:"totalPoints"`
	}

	// RewardSummary is the full output of one aggregation pass.
	RewardSummary struct {
		UserRewards  []MonthlyReward `json:"userRewards"`
		TotalRewards []TotalReward   `json:"totalRewards"`
	}
)

var (
	ErrInvalidCustomerID = errors.New("invalid customer id")
	ErrEmptyName         = errors.New("empty customer name")
	ErrNameTooLong       = errors.New("customer name too long (max 200 characters)")
	ErrInvalidDate       = errors.New("invalid transaction date")
	ErrInvalidPrice      = errors.New("invalid price")
)

// NewDate creates a Date from year, month, day, normalized to midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date string. The canonical feed format is
// YYYY-MM-DD; full RFC 3339 timestamps are accepted and truncated to their
// calendar day. Returns the zero Date on failure.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t.Year(), int(t.Month()), t.Day()), nil
	}
	return Date{}, ErrInvalidDate
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month, 1-indexed
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// dayOrdinal collapses a Date to a single comparable day number so that
// range checks ignore any time-of-day component.
func (d Date) dayOrdinal() int {
	return d.Time.Year()*10000 + int(d.Time.Month())*100 + d.Time.Day()
}

// OnOrAfter reports whether d falls on the same calendar day as other or
// later. Comparison is by (year, month, day) triple only.
func (d Date) OnOrAfter(other Date) bool {
	return d.dayOrdinal() >= other.dayOrdinal()
}

// OnOrBefore reports whether d falls on the same calendar day as other or
// earlier.
func (d Date) OnOrBefore(other Date) bool {
	return d.dayOrdinal() <= other.dayOrdinal()
}

// String renders the canonical feed format.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Validate checks the record shape for the create path. The aggregator
// itself never rejects records; feed boundaries call this before persisting.
func (t Transaction) Validate() error {
	if t.CustomerID <= 0 {
		return ErrInvalidCustomerID
	}
	if len(strings.TrimSpace(t.Name)) == 0 {
		return ErrEmptyName
	}
	if len(t.Name) > 200 {
		return ErrNameTooLong
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if _, ok := CalculatePointsChecked(t.Price); !ok {
		return ErrInvalidPrice
	}
	return nil
}
