package core

import (
	"errors"
	"math"
	"strings"
)

const (
	// DefaultCategory is assigned when a transaction arrives with a
	// blank category.
	DefaultCategory = "Other"

	// AllCategories is the category filter value that matches every
	// transaction.
	AllCategories = "All"
)

type (
	// Transaction is a single dated ledger entry. A negative amount is
	// an expense, a non-negative amount is income. Transactions are
	// immutable once created; a correction is delete-and-re-add.
	Transaction struct {
		ID          string  `json:"id"`
		Date        string  `json:"date"` // ISO 8601, YYYY-MM-DD
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
	}

	// Goal is a savings goal with an optional due year-month.
	Goal struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Target  float64 `json:"target"`
		Current float64 `json:"current"`
		Due     string  `json:"due,omitempty"` // YYYY-MM
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyGoalName    = errors.New("empty goal name")
	ErrInvalidTarget    = errors.New("invalid goal target")
)

// TruncateDate reduces a date string to its ISO YYYY-MM-DD prefix so
// values carrying a time component still group correctly.
func TruncateDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// YearMonth returns the YYYY-MM prefix of an ISO date, or "" when the
// date is too short to carry one.
func YearMonth(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

// SanitizeAmount coerces NaN and infinities to zero. Amounts in the
// ledger are never NaN.
func SanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// IsExpense reports whether the transaction amount counts as an expense.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// Validate checks a transaction at the user-entry boundary. CSV import
// bypasses this deliberately; imported rows default fields instead of
// failing.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Amount == 0 || math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks a goal at the user-entry boundary.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if g.Target <= 0 || math.IsNaN(g.Target) || math.IsInf(g.Target, 0) {
		return ErrInvalidTarget
	}
	return nil
}
