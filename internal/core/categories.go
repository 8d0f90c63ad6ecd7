package core

import "strings"

// defaultCategories seeds a fresh ledger. Order matters: the registry
// preserves insertion order and never sorts.
var defaultCategories = []string{
	"Income",
	"Rent/Mortgage",
	"Utilities",
	"Groceries",
	"Dining Out",
	"Transportation",
	"Health & Fitness",
	"Entertainment",
	"Savings",
	DefaultCategory,
}

// DefaultCategories returns a fresh copy of the seed category list.
func DefaultCategories() []string {
	return append([]string(nil), defaultCategories...)
}

// AddCategory appends name to the ordered category list unless it is
// blank after trimming or already present (case-sensitive). It returns
// the resulting list and whether it changed.
func AddCategory(categories []string, name string) ([]string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return categories, false
	}
	for _, c := range categories {
		if c == name {
			return categories, false
		}
	}
	return append(categories, name), true
}
