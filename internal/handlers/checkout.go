package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"alocubano-tickets/internal/models"
	"alocubano-tickets/internal/services"
)

// CheckoutHandler handles checkout API requests
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreatePendingTransaction handles POST /api/checkout/create-pending-transaction
func (h *CheckoutHandler) CreatePendingTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &services.ValidationError{
			Message: "Invalid cart data",
			Details: []string{"Cart is empty"},
		})
		return
	}

	normalized, verr := services.ValidateCheckoutRequest(&req)
	if verr != nil {
		writeJSON(w, http.StatusBadRequest, verr)
		return
	}

	reqCtx := services.RequestContext{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}

	result, err := h.checkoutService.CreatePendingTransaction(normalized, reqCtx)
	if err != nil {
		writeServerError(w, "Failed to create transaction", err)
		return
	}

	status := http.StatusCreated
	if result.Existing {
		status = http.StatusOK
	}

	writeJSON(w, status, &models.CheckoutResponse{
		Success:     true,
		Transaction: result.Transaction,
		Tickets:     result.Tickets,
		Existing:    result.Existing,
	})
}

// CompleteCheckout handles POST /api/checkout/complete
func (h *CheckoutHandler) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.TransactionID = strings.TrimSpace(req.TransactionID)
	req.PaymentReference = strings.TrimSpace(req.PaymentReference)
	if req.TransactionID == "" {
		writeError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}
	if req.PaymentReference == "" {
		writeError(w, http.StatusBadRequest, "Payment reference is required")
		return
	}

	result, err := h.checkoutService.CompleteCheckout(req.TransactionID, req.PaymentReference)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "Transaction not found")
		case errors.Is(err, models.ErrNotPending):
			writeError(w, http.StatusConflict, "Transaction is not pending")
		default:
			writeServerError(w, "Failed to complete transaction", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, &models.CheckoutResponse{
		Success:     true,
		Transaction: result.Transaction,
		Tickets:     result.Tickets,
	})
}

// clientIP extracts the originating client address, preferring the
// forwarding header set by the reverse proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
