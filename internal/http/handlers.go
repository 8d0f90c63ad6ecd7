package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/salaswilliams02-bit/Finance-Tracker/internal/core"
	"github.com/salaswilliams02-bit/Finance-Tracker/internal/csvio"
)

// maxImportBytes caps the accepted CSV upload size.
const maxImportBytes = 4 << 20

// applyFilters copies the month/category query parameters into the
// store's active view filter. Absent parameters clear the filter.
func (s *Server) applyFilters(r *http.Request) {
	q := r.URL.Query()
	s.store.SetMonthFilter(strings.TrimSpace(q.Get("month")))
	s.store.SetCategoryFilter(strings.TrimSpace(q.Get("category")))
}

type transactionRequest struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.applyFilters(r)
		txns := s.store.FilteredTransactions()
		if txns == nil {
			txns = []core.Transaction{}
		}
		writeJSON(w, http.StatusOK, txns)
	case http.MethodPost:
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		t, err := s.store.AddTransaction(r.Context(), core.Transaction{
			Date:        req.Date,
			Description: req.Description,
			Amount:      req.Amount,
			Category:    strings.TrimSpace(req.Category),
		})
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, t)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}
	// Removal is idempotent: deleting an unknown id succeeds.
	s.store.RemoveTransaction(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

type goalRequest struct {
	Name    string  `json:"name"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
	Due     string  `json:"due"`
}

type goalView struct {
	core.Goal
	Progress int `json:"progress"`
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		goals := s.store.Goals()
		views := make([]goalView, 0, len(goals))
		for _, g := range goals {
			views = append(views, goalView{Goal: g, Progress: g.Progress()})
		}
		writeJSON(w, http.StatusOK, views)
	case http.MethodPost:
		var req goalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		g, err := s.store.AddGoal(r.Context(), core.Goal{
			Name:    strings.TrimSpace(req.Name),
			Target:  req.Target,
			Current: req.Current,
			Due:     strings.TrimSpace(req.Due),
		})
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, goalView{Goal: g, Progress: g.Progress()})
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleGoalByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/goals/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing goal id")
		return
	}
	s.store.RemoveGoal(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.Categories())
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		s.store.AddCategory(r.Context(), req.Name)
		writeJSON(w, http.StatusOK, s.store.Categories())
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	s.applyFilters(r)
	summary := s.store.Summary()
	writeJSON(w, http.StatusOK, struct {
		core.Summary
		MonthlyTarget float64 `json:"monthlyTarget"`
	}{
		Summary:       summary,
		MonthlyTarget: s.store.MonthlyTarget(),
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	s.applyFilters(r)
	breakdown := s.store.CategoryBreakdown()
	if breakdown == nil {
		breakdown = []core.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	trend := s.store.MonthlyTrend()
	if trend == nil {
		trend = []core.MonthTotals{}
	}
	writeJSON(w, http.StatusOK, trend)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > maxImportBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "import too large")
		return
	}

	txns := csvio.Decode(string(body))
	imported := s.store.ImportTransactions(r.Context(), txns)

	slog.InfoContext(r.Context(), "CSV import completed",
		"request_id", requestID(r.Context()),
		"imported", imported,
		"bytes", len(body))

	writeJSON(w, http.StatusOK, map[string]int{"imported": imported})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	text := csvio.Encode(s.store.Transactions())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, text); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		slog.ErrorContext(r.Context(), "Failed to write export", "error", err)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	s.store.ResetAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
