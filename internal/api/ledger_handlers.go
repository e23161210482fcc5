package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/roomtab/roomtab/internal/middleware"
)

type addExpenseRequest struct {
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	PayerID      string          `json:"payer_id"`
	Participants []string        `json:"participants"`
}

// handleListExpenses returns the group's expenses, newest first.
// GET /api/groups/{groupID}/expenses?limit=N
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	expenses, err := s.ledgerSvc.ListExpenses(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

// handleAddExpense records a new shared expense.
// POST /api/groups/{groupID}/expenses
func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := s.ledgerSvc.AddExpense(
		r.Context(),
		chi.URLParam(r, "groupID"),
		middleware.GetUserID(r.Context()),
		req.Title,
		req.Amount,
		req.PayerID,
		req.Participants,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

// handleRemoveExpense deletes an unsettled expense; payer only.
// DELETE /api/groups/{groupID}/expenses/{expenseID}
func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	err := s.ledgerSvc.RemoveExpense(
		r.Context(),
		chi.URLParam(r, "groupID"),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "expenseID"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleBalances returns the current balance sheet and the planned transfers.
// GET /api/groups/{groupID}/balances
func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.ledgerSvc.Balances(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

// handleSettleAll settles every outstanding expense in one atomic commit.
// POST /api/groups/{groupID}/settlements
func (s *Server) handleSettleAll(w http.ResponseWriter, r *http.Request) {
	transfers, err := s.ledgerSvc.SettleAll(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transfers": transfers})
}

// handleListSettlements returns the settlement history, newest first.
// GET /api/groups/{groupID}/settlements
func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	transfers, err := s.ledgerSvc.ListSettlements(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transfers": transfers})
}
