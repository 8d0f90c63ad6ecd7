package core

import (
	"math"
	"sort"
)

type (
	// Filter narrows the active view. A zero Month matches every date;
	// a zero or "All" Category matches every category.
	Filter struct {
		Month    string // YYYY-MM
		Category string
	}

	// Summary holds the income/expense totals of a filtered view.
	Summary struct {
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
		Net      float64 `json:"net"`
	}

	// CategoryTotal is an absolute expense sum for one category.
	CategoryTotal struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	// MonthTotals accumulates income and expenses for one year-month.
	MonthTotals struct {
		Month    string  `json:"month"` // YYYY-MM
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
	}
)

// Matches reports whether the transaction passes the filter.
func (f Filter) Matches(t Transaction) bool {
	if f.Month != "" && YearMonth(t.Date) != f.Month {
		return false
	}
	if f.Category != "" && f.Category != AllCategories && t.Category != f.Category {
		return false
	}
	return true
}

// Summarize computes income, expenses and net over the filtered view.
// Expenses are reported as a positive magnitude; Net is always exactly
// Income - Expenses.
func Summarize(txns []Transaction, f Filter) Summary {
	var s Summary
	for _, t := range txns {
		if !f.Matches(t) {
			continue
		}
		if t.Amount < 0 {
			s.Expenses += -t.Amount
		} else {
			s.Income += t.Amount
		}
	}
	s.Net = s.Income - s.Expenses
	return s
}

// CategoryBreakdown sums absolute expense amounts by category within
// the filtered view. Income transactions are excluded. Entries appear
// in first-seen iteration order, not alphabetically.
func CategoryBreakdown(txns []Transaction, f Filter) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, t := range txns {
		if !f.Matches(t) || t.Amount >= 0 {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category})
		}
		out[i].Amount += -t.Amount
	}
	return out
}

// MonthlyTrend groups income and expense totals by year-month over the
// full transaction set. Filters never apply here; the trend always
// reflects the complete history. Entries without a year-month are
// dropped and the result is sorted ascending, which is chronological
// for zero-padded YYYY-MM strings.
func MonthlyTrend(txns []Transaction) []MonthTotals {
	buckets := make(map[string]*MonthTotals)
	for _, t := range txns {
		ym := YearMonth(t.Date)
		if ym == "" {
			continue
		}
		b, ok := buckets[ym]
		if !ok {
			b = &MonthTotals{Month: ym}
			buckets[ym] = b
		}
		if t.Amount < 0 {
			b.Expenses += -t.Amount
		} else {
			b.Income += t.Amount
		}
	}
	out := make([]MonthTotals, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Progress returns the goal completion percentage, rounded and clamped
// to [0, 100]. A zero target is treated as 1 to avoid dividing by zero.
func (g Goal) Progress() int {
	target := g.Target
	if target < 1 {
		target = 1
	}
	p := math.Round(g.Current / target * 100)
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}
	return int(p)
}

// MonthlyTarget is the implied monthly budget: the sum of all goal
// targets spread over twelve months. Independent of any filter.
func MonthlyTarget(goals []Goal) float64 {
	var sum float64
	for _, g := range goals {
		sum += g.Target
	}
	return sum / 12
}
