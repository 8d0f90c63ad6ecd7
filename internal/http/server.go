// Package http exposes the ledger over a small JSON API. Handlers stay
// thin: they translate requests into store calls and views into JSON,
// and all ledger rules live below this layer.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/salaswilliams02-bit/Finance-Tracker/internal/ledger"
)

type Server struct {
	store *ledger.Store
}

// NewServer wires the API routes and returns a configured http.Server.
// Callers adjust timeouts and run ListenAndServe themselves.
func NewServer(addr string, store *ledger.Store) *http.Server {
	s := &Server{store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/", s.handleTransactionByID)
	mux.HandleFunc("/api/goals", s.handleGoals)
	mux.HandleFunc("/api/goals/", s.handleGoalByID)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/breakdown", s.handleBreakdown)
	mux.HandleFunc("/api/trend", s.handleTrend)
	mux.HandleFunc("/api/import", s.handleImport)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/reset", s.handleReset)

	return &http.Server{
		Addr:    addr,
		Handler: traceMiddleware(mux),
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
