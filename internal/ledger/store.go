// Package ledger owns the in-memory transaction, goal and category
// collections and is the only writer to them. Every mutation persists
// the changed collection through the injected gateway and announces it
// on the optional event publisher; both are fire-and-forget, so the
// in-memory state stays the source of truth for the session.
package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/salaswilliams02-bit/Finance-Tracker/internal/core"
)

// Storage keys for the three persisted collections.
const (
	KeyTransactions = "transactions"
	KeyGoals        = "goals"
	KeyCategories   = "categories"
)

type (
	// Gateway is the durable key-value store behind the ledger. Load
	// reports ok=false for an absent key; callers fall back silently.
	// Save failures are the gateway's to log and swallow.
	Gateway interface {
		Load(ctx context.Context, key string) (value []byte, ok bool)
		Save(ctx context.Context, key string, value []byte)
	}

	// Publisher announces collection changes after a mutation. A nil
	// Publisher disables events.
	Publisher interface {
		PublishLedgerChanged(ctx context.Context, collection, op string) error
	}

	// Store is the ledger aggregate root. All methods are safe for
	// concurrent use; aggregation always observes a fully applied
	// mutation.
	Store struct {
		mu        sync.Mutex
		gateway   Gateway
		publisher Publisher

		transactions []core.Transaction
		goals        []core.Goal
		categories   []string

		monthFilter    string
		categoryFilter string
	}
)

// New builds a store and loads the three collections from the gateway.
// Missing or corrupt stored data falls back to empty collections and
// the default category seed.
func New(ctx context.Context, gateway Gateway, publisher Publisher) *Store {
	s := &Store{
		gateway:        gateway,
		publisher:      publisher,
		categories:     core.DefaultCategories(),
		categoryFilter: core.AllCategories,
	}
	loadJSON(ctx, gateway, KeyTransactions, &s.transactions)
	loadJSON(ctx, gateway, KeyGoals, &s.goals)
	var cats []string
	if loadJSON(ctx, gateway, KeyCategories, &cats) && len(cats) > 0 {
		s.categories = cats
	}
	for i := range s.transactions {
		s.transactions[i].Amount = core.SanitizeAmount(s.transactions[i].Amount)
	}
	return s
}

func loadJSON(ctx context.Context, gateway Gateway, key string, dst any) bool {
	if gateway == nil {
		return false
	}
	raw, ok := gateway.Load(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.WarnContext(ctx, "Discarding corrupt stored collection", "key", key, "error", err)
		return false
	}
	return true
}

// AddTransaction validates the fields, assigns a fresh id and prepends
// the transaction. The category is registered if new; a blank category
// becomes the default.
func (s *Store) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Date = core.TruncateDate(t.Date)
	t.Amount = core.SanitizeAmount(t.Amount)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = uuid.NewString()
	if t.Category == "" {
		t.Category = core.DefaultCategory
	}

	s.transactions = append([]core.Transaction{t}, s.transactions...)
	s.registerCategory(ctx, t.Category)
	s.persist(ctx, KeyTransactions, "add")
	return t, nil
}

// RemoveTransaction deletes by id. Absent ids are a no-op, not an
// error, and do not trigger a save.
func (s *Store) RemoveTransaction(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			s.persist(ctx, KeyTransactions, "remove")
			return
		}
	}
}

// ImportTransactions prepends already-decoded rows to the collection,
// registering any categories they introduce. Rows are not validated;
// the CSV decoder has already defaulted their fields.
func (s *Store) ImportTransactions(ctx context.Context, txns []core.Transaction) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(txns) == 0 {
		return 0
	}
	s.transactions = append(append([]core.Transaction(nil), txns...), s.transactions...)
	for _, t := range txns {
		s.registerCategory(ctx, t.Category)
	}
	s.persist(ctx, KeyTransactions, "import")
	return len(txns)
}

// AddGoal validates the fields, assigns a fresh id and prepends the
// goal. A negative current balance is clamped to zero.
func (s *Store) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.Target = core.SanitizeAmount(g.Target)
	g.Current = core.SanitizeAmount(g.Current)
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	g.ID = uuid.NewString()
	if g.Current < 0 {
		g.Current = 0
	}

	s.goals = append([]core.Goal{g}, s.goals...)
	s.persist(ctx, KeyGoals, "add")
	return g, nil
}

// RemoveGoal deletes by id; absent ids are a no-op.
func (s *Store) RemoveGoal(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			s.persist(ctx, KeyGoals, "remove")
			return
		}
	}
}

// AddCategory registers a category name, preserving insertion order.
// Blank and duplicate names are rejected silently.
func (s *Store) AddCategory(ctx context.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registerCategory(ctx, name)
}

// ResetAll clears transactions and goals and restores the default
// category seed. Destructive and immediate; any confirmation happens
// before the call, never here.
func (s *Store) ResetAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = nil
	s.goals = nil
	s.categories = core.DefaultCategories()
	s.persist(ctx, KeyTransactions, "reset")
	s.persist(ctx, KeyGoals, "reset")
	s.persist(ctx, KeyCategories, "reset")
}

// SetMonthFilter sets the active year-month filter; empty clears it.
func (s *Store) SetMonthFilter(month string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monthFilter = month
}

// SetCategoryFilter sets the active category filter; "All" or empty
// matches everything.
func (s *Store) SetCategoryFilter(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		category = core.AllCategories
	}
	s.categoryFilter = category
}

// Filter returns the active view filter.
func (s *Store) Filter() core.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter()
}

func (s *Store) filter() core.Filter {
	return core.Filter{Month: s.monthFilter, Category: s.categoryFilter}
}

// Transactions returns a copy of the full transaction collection,
// newest first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...)
}

// FilteredTransactions returns a copy of the transactions passing the
// active filter.
func (s *Store) FilteredTransactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.filter()
	var out []core.Transaction
	for _, t := range s.transactions {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Goals returns a copy of the goal collection.
func (s *Store) Goals() []core.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals...)
}

// Categories returns a copy of the ordered category registry.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.categories...)
}

// Summary recomputes income, expenses and net over the active view.
func (s *Store) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Summarize(s.transactions, s.filter())
}

// CategoryBreakdown recomputes expense totals by category over the
// active view.
func (s *Store) CategoryBreakdown() []core.CategoryTotal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CategoryBreakdown(s.transactions, s.filter())
}

// MonthlyTrend recomputes the per-month totals over the full history,
// ignoring the active filter.
func (s *Store) MonthlyTrend() []core.MonthTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.MonthlyTrend(s.transactions)
}

// MonthlyTarget is the implied monthly budget across all goals.
func (s *Store) MonthlyTarget() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.MonthlyTarget(s.goals)
}

func (s *Store) registerCategory(ctx context.Context, name string) {
	next, changed := core.AddCategory(s.categories, name)
	if !changed {
		return
	}
	s.categories = next
	s.persist(ctx, KeyCategories, "add")
}

// persist saves one collection and publishes the change. Failures on
// either path are logged and swallowed; the mutation already happened.
func (s *Store) persist(ctx context.Context, key, op string) {
	if s.gateway != nil {
		var v any
		switch key {
		case KeyTransactions:
			v = s.transactions
		case KeyGoals:
			v = s.goals
		case KeyCategories:
			v = s.categories
		}
		raw, err := json.Marshal(v)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to encode collection", "key", key, "error", err)
		} else {
			s.gateway.Save(ctx, key, raw)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishLedgerChanged(ctx, key, op); err != nil {
			slog.WarnContext(ctx, "Failed to publish ledger change", "collection", key, "op", op, "error", err)
		}
	}
}
