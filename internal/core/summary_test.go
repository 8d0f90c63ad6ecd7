package core

import (
	"testing"
)

var sampleTxns = []Transaction{
	{ID: "1", Date: "2024-01-05", Description: "Paycheck", Amount: 1500, Category: "Income"},
	{ID: "2", Date: "2024-01-06", Description: "Rent", Amount: -1200, Category: "Rent/Mortgage"},
	{ID: "3", Date: "2024-01-10", Description: "Groceries", Amount: -80.5, Category: "Groceries"},
	{ID: "4", Date: "2024-02-01", Description: "Gym", Amount: -45, Category: "Health & Fitness"},
	{ID: "5", Date: "2024-02-03", Description: "Refund", Amount: 30, Category: "Other"},
	{ID: "6", Date: "", Description: "Undated", Amount: -10, Category: "Other"},
}

func TestFilterMatches(t *testing.T) {
	tx := Transaction{Date: "2024-01-05", Category: "Groceries"}
	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"no filter", Filter{}, true},
		{"all categories", Filter{Category: AllCategories}, true},
		{"month match", Filter{Month: "2024-01"}, true},
		{"month mismatch", Filter{Month: "2024-02"}, false},
		{"category match", Filter{Category: "Groceries"}, true},
		{"category mismatch", Filter{Category: "Income"}, false},
		{"both match", Filter{Month: "2024-01", Category: "Groceries"}, true},
		{"month match category mismatch", Filter{Month: "2024-01", Category: "Income"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Matches(tx); got != tc.want {
				t.Fatalf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTxns, Filter{})
	if s.Income != 1530 {
		t.Fatalf("income = %v, want 1530", s.Income)
	}
	if s.Expenses != 1335.5 {
		t.Fatalf("expenses = %v, want 1335.5", s.Expenses)
	}
	if s.Net != s.Income-s.Expenses {
		t.Fatalf("net = %v, want income-expenses = %v", s.Net, s.Income-s.Expenses)
	}
}

func TestSummarizeNetIdentityUnderFilters(t *testing.T) {
	filters := []Filter{
		{},
		{Month: "2024-01"},
		{Month: "2024-02"},
		{Category: "Groceries"},
		{Month: "2024-01", Category: "Income"},
		{Category: AllCategories},
	}
	for _, f := range filters {
		s := Summarize(sampleTxns, f)
		if s.Net != s.Income-s.Expenses {
			t.Fatalf("filter %+v: net %v != income-expenses %v", f, s.Net, s.Income-s.Expenses)
		}
	}
}

func TestCategoryBreakdown(t *testing.T) {
	got := CategoryBreakdown(sampleTxns, Filter{})

	// First-seen order of expense categories only
	want := []CategoryTotal{
		{Category: "Rent/Mortgage", Amount: 1200},
		{Category: "Groceries", Amount: 80.5},
		{Category: "Health & Fitness", Amount: 45},
		{Category: "Other", Amount: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("breakdown length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("breakdown[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCategoryBreakdownExcludesIncome(t *testing.T) {
	incomeOnly := []Transaction{
		{Date: "2024-01-05", Amount: 1500, Category: "Income"},
		{Date: "2024-01-20", Amount: 200, Category: "Other"},
	}
	if got := CategoryBreakdown(incomeOnly, Filter{}); len(got) != 0 {
		t.Fatalf("income-only set should produce empty breakdown, got %v", got)
	}
}

func TestCategoryBreakdownHonorsFilter(t *testing.T) {
	got := CategoryBreakdown(sampleTxns, Filter{Month: "2024-02"})
	if len(got) != 1 || got[0].Category != "Health & Fitness" || got[0].Amount != 45 {
		t.Fatalf("filtered breakdown = %v, want only Health & Fitness 45", got)
	}
}

func TestMonthlyTrend(t *testing.T) {
	got := MonthlyTrend(sampleTxns)

	want := []MonthTotals{
		{Month: "2024-01", Income: 1500, Expenses: 1280.5},
		{Month: "2024-02", Income: 30, Expenses: 45},
	}
	if len(got) != len(want) {
		t.Fatalf("trend length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trend[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMonthlyTrendExcludesEmptyMonths(t *testing.T) {
	for _, b := range MonthlyTrend(sampleTxns) {
		if b.Month == "" {
			t.Fatal("trend must exclude entries without a year-month")
		}
	}
}

func TestMonthlyTrendSortedAscending(t *testing.T) {
	reversed := []Transaction{
		{Date: "2024-12-01", Amount: -1},
		{Date: "2023-02-01", Amount: -1},
		{Date: "2024-03-01", Amount: -1},
	}
	got := MonthlyTrend(reversed)
	for i := 1; i < len(got); i++ {
		if got[i-1].Month >= got[i].Month {
			t.Fatalf("trend not sorted ascending: %v", got)
		}
	}
}

func TestGoalProgress(t *testing.T) {
	cases := []struct {
		name string
		goal Goal
		want int
	}{
		{"halfway", Goal{Target: 1000, Current: 500}, 50},
		{"complete", Goal{Target: 1000, Current: 1000}, 100},
		{"overfunded clamps", Goal{Target: 1000, Current: 2000}, 100},
		{"zero target", Goal{Target: 0, Current: 0}, 0},
		{"rounding", Goal{Target: 300, Current: 100}, 33},
		{"rounds half up", Goal{Target: 1000, Current: 505}, 51},
		{"empty goal", Goal{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.goal.Progress(); got != tc.want {
				t.Fatalf("Progress() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMonthlyTarget(t *testing.T) {
	goals := []Goal{
		{Name: "a", Target: 1200},
		{Name: "b", Target: 600},
		{Name: "c", Target: 0},
	}
	if got := MonthlyTarget(goals); got != 150 {
		t.Fatalf("MonthlyTarget = %v, want 150", got)
	}

	// Invariant under ordering
	reordered := []Goal{goals[2], goals[0], goals[1]}
	if MonthlyTarget(goals) != MonthlyTarget(reordered) {
		t.Fatal("MonthlyTarget must not depend on goal order")
	}

	if got := MonthlyTarget(nil); got != 0 {
		t.Fatalf("MonthlyTarget(nil) = %v, want 0", got)
	}
}
