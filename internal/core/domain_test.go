package core

import (
	"math"
	"testing"
)

func TestTruncateDate(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"2024-01-05", "2024-01-05"},
		{"2024-01-05T14:30:00Z", "2024-01-05"},
		{" 2024-01-05 ", "2024-01-05"},
		{"2024", "2024"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := TruncateDate(tc.in); got != tc.out {
			t.Fatalf("TruncateDate(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestYearMonth(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"2024-01-05", "2024-01"},
		{"2024-01", "2024-01"},
		{"2024", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := YearMonth(tc.in); got != tc.out {
			t.Fatalf("YearMonth(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestSanitizeAmount(t *testing.T) {
	if got := SanitizeAmount(math.NaN()); got != 0 {
		t.Fatalf("NaN should coerce to 0, got %v", got)
	}
	if got := SanitizeAmount(math.Inf(1)); got != 0 {
		t.Fatalf("+Inf should coerce to 0, got %v", got)
	}
	if got := SanitizeAmount(-12.5); got != -12.5 {
		t.Fatalf("finite amount should pass through, got %v", got)
	}
}

func TestTransactionValidate(t *testing.T) {
	cases := []struct {
		name string
		tx   Transaction
		err  error
	}{
		{"valid expense", Transaction{Description: "Rent", Amount: -1200}, nil},
		{"valid income", Transaction{Description: "Paycheck", Amount: 1500}, nil},
		{"blank description", Transaction{Description: "  ", Amount: 10}, ErrEmptyDescription},
		{"zero amount", Transaction{Description: "Coffee", Amount: 0}, ErrInvalidAmount},
		{"nan amount", Transaction{Description: "Coffee", Amount: math.NaN()}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.tx.Validate(); err != tc.err {
				t.Fatalf("Validate() = %v, want %v", err, tc.err)
			}
		})
	}
}

func TestGoalValidate(t *testing.T) {
	cases := []struct {
		name string
		goal Goal
		err  error
	}{
		{"valid", Goal{Name: "Emergency fund", Target: 5000}, nil},
		{"blank name", Goal{Name: " ", Target: 100}, ErrEmptyGoalName},
		{"zero target", Goal{Name: "Car", Target: 0}, ErrInvalidTarget},
		{"negative target", Goal{Name: "Car", Target: -1}, ErrInvalidTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.goal.Validate(); err != tc.err {
				t.Fatalf("Validate() = %v, want %v", err, tc.err)
			}
		})
	}
}

func TestAddCategory(t *testing.T) {
	cats := []string{"Income", "Other"}

	next, changed := AddCategory(cats, "Travel")
	if !changed || len(next) != 3 || next[2] != "Travel" {
		t.Fatalf("expected Travel appended, got %v (changed=%v)", next, changed)
	}

	// Duplicates and blanks are rejected silently
	if _, changed := AddCategory(next, "Travel"); changed {
		t.Fatal("duplicate should not change the list")
	}
	if _, changed := AddCategory(next, "   "); changed {
		t.Fatal("blank name should not change the list")
	}

	// Trimmed before comparison and insertion
	next, changed = AddCategory(next, "  Gifts  ")
	if !changed || next[len(next)-1] != "Gifts" {
		t.Fatalf("expected trimmed Gifts appended, got %v", next)
	}

	// Case-sensitive exact match
	if _, changed := AddCategory(next, "travel"); !changed {
		t.Fatal("case-different name should be treated as new")
	}
}

func TestDefaultCategoriesReturnsCopy(t *testing.T) {
	a := DefaultCategories()
	a[0] = "mutated"
	b := DefaultCategories()
	if b[0] == "mutated" {
		t.Fatal("DefaultCategories must return a fresh copy")
	}
}
