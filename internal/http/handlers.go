package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rewards/internal/core"
	applog "rewards/internal/log"
	"rewards/internal/services"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleRewards serves GET /api/rewards?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Both bounds are optional and inclusive.
func (s *Server) handleRewards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, end, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.rewardService.Summary(r.Context(), start, end)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Reward summary error", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not compute rewards")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := s.rewardService.Transactions(r.Context(), start, end)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "List transactions error", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not list transactions")
		return
	}

	writeJSON(w, http.StatusOK, transactionsResponse{Transactions: toTransactionRecords(txns)})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := req.toTransaction()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ref, err := s.txnService.Create(r.Context(), txn)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReadOnlyFeed):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case isValidationError(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Create transaction error",
				applog.FieldError, err,
				applog.FieldCustomerID, txn.CustomerID)
			writeError(w, http.StatusInternalServerError, "could not save transaction")
		}
		return
	}

	// New feed data invalidates every cached range.
	s.rewardService.Invalidate()

	writeJSON(w, http.StatusCreated, createTransactionResponse{
		Ref:          ref,
		RewardPoints: core.CalculatePoints(txn.Price),
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidCustomerID) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrNameTooLong) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidPrice)
}
