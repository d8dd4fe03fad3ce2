package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"alocubano-tickets/internal/middleware"
	"alocubano-tickets/internal/models"
	"alocubano-tickets/internal/repositories"
	"alocubano-tickets/internal/services"
	"alocubano-tickets/internal/utils"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// AdminHandler handles the authenticated admin API
type AdminHandler struct {
	checkoutService *services.CheckoutService
	tokenIssuer     *middleware.TokenIssuer
	passwordHash    string
}

// NewAdminHandler creates a new admin handler. passwordHash is the Argon2id
// hash of the admin password from configuration.
func NewAdminHandler(checkoutService *services.CheckoutService, tokenIssuer *middleware.TokenIssuer, passwordHash string) *AdminHandler {
	return &AdminHandler{
		checkoutService: checkoutService,
		tokenIssuer:     tokenIssuer,
		passwordHash:    passwordHash,
	}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.passwordHash == "" {
		writeError(w, http.StatusForbidden, "Admin access is not configured")
		return
	}

	ok, err := utils.VerifyPassword(req.Password, h.passwordHash)
	if err != nil || !ok {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokenIssuer.IssueToken()
	if err != nil {
		writeServerError(w, "Failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
	})
}

// ListTransactions handles GET /api/admin/transactions
func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var status models.PaymentStatus
	if s := query.Get("status"); s != "" {
		status = models.PaymentStatus(s)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
	}

	limit := defaultListLimit
	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	offset := 0
	if o := query.Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "Invalid offset")
			return
		}
		offset = parsed
	}

	transactions, total, err := h.checkoutService.ListTransactions(status, limit, offset)
	if err != nil {
		writeServerError(w, "Failed to list transactions", err)
		return
	}
	if transactions == nil {
		transactions = []*repositories.TransactionWithTicketCount{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"transactions": transactions,
		"total":        total,
		"limit":        limit,
		"offset":       offset,
	})
}
