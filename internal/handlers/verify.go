package handlers

import (
	"errors"
	"net/http"

	"alocubano-tickets/internal/models"
	"alocubano-tickets/internal/services"
)

// VerifyHandler handles ticket verification requests
type VerifyHandler struct {
	verificationService *services.VerificationService
}

// NewVerifyHandler creates a new verify handler
func NewVerifyHandler(verificationService *services.VerificationService) *VerifyHandler {
	return &VerifyHandler{verificationService: verificationService}
}

// VerifyTicket handles GET /api/tickets/verify?ticket_id=TKT-XXXXXXXXXXXX
func (h *VerifyHandler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := r.URL.Query().Get("ticket_id")
	if ticketID == "" {
		writeError(w, http.StatusBadRequest, "ticket_id is required")
		return
	}
	if !models.ValidTicketID(ticketID) {
		writeError(w, http.StatusBadRequest, "Invalid ticket_id")
		return
	}

	result, err := h.verificationService.VerifyTicket(ticketID)
	if err != nil {
		if errors.Is(err, models.ErrTicketNotFound) {
			writeError(w, http.StatusNotFound, "Ticket not found")
			return
		}
		writeServerError(w, "Failed to verify ticket", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
