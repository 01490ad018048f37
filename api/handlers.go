/*
handlers.go - HTTP handlers for the joint account collaborator API

PURPOSE:
  Serves the balance store and record ledger roles over REST. Handles
  HTTP request/response, JSON serialization, and delegates everything
  else to the account.Store.

ENDPOINTS:
  Balance:
    GET  /api/v1/balance              Current balance
    PUT  /api/v1/balance              Apply signed offset + comment
    GET  /api/v1/balance/history      Recent changes, newest first

  Records:
    GET  /api/v1/records              All records, in list order
    POST /api/v1/records              Create an unpaid record
    PUT  /api/v1/records/{id}/amount  Set/replace the amount
    PUT  /api/v1/records/{id}/paid    One-way paid transition

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Internal errors

CACHING:
  None, deliberately. Every read hits the store so a client's
  reconciliation reads always reflect the mutation that preceded them.

SECURITY NOTE:
  No authentication; the service fronts a two-person household account
  on a private network.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/joint/account-engine/account"
)

// DefaultHistoryLimit applies when the limit query parameter is absent.
const DefaultHistoryLimit = 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store account.Store
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(store account.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// GetBalance returns the current balance.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.Store.CurrentBalance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read balance", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{Amount: balance})
}

// ApplyOffset applies a signed offset to the balance and returns the new
// balance. Deposits are positive, withdrawals negative.
func (h *Handler) ApplyOffset(w http.ResponseWriter, r *http.Request) {
	var req ApplyOffsetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Comment) > account.MaxCommentLen {
		writeError(w, http.StatusBadRequest, "Comment exceeds maximum length", nil)
		return
	}

	balance, err := h.Store.ApplyOffset(r.Context(), req.Offset, req.Comment)
	if err != nil {
		writeStoreError(w, "Failed to apply offset", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{Amount: balance})
}

// GetHistory returns the most recent balance changes, newest first.
// GET /api/v1/balance/history?limit=20
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Limit must be a positive integer", err)
			return
		}
		limit = n
	}

	entries, err := h.Store.History(r.Context(), limit)
	if err != nil {
		writeStoreError(w, "Failed to read history", err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryDTOs(entries))
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// ListRecords returns all records in list order. This order is the
// projection order on the client; it is never a date sort.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTOs(records))
}

// CreateRecord creates a new unpaid record, amount optional.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.AcctName == "" {
		writeError(w, http.StatusBadRequest, "acctName is required", nil)
		return
	}
	if req.Date == "" {
		writeError(w, http.StatusBadRequest, "date is required", nil)
		return
	}

	record, err := h.Store.CreateRecord(r.Context(), req.AcctName, req.Date, optionalAmount(req.Amount))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create record", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordDTO(record))
}

// SetRecordAmount sets or replaces the record's amount.
func (h *Handler) SetRecordAmount(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	var req SetAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "amount is required", nil)
		return
	}

	if err := h.Store.SetAmount(r.Context(), id, *req.Amount); err != nil {
		writeStoreError(w, "Failed to set amount", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkRecordPaid flips the record to paid. One-way: there is no
// corresponding un-pay endpoint.
func (h *Handler) MarkRecordPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := h.Store.MarkPaid(r.Context(), id); err != nil {
		writeStoreError(w, "Failed to mark record paid", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record id", err)
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, account.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "Record not found", nil)
	case errors.Is(err, account.ErrCommentTooLong), errors.Is(err, account.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
