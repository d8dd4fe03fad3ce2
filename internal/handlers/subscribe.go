package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"alocubano-tickets/internal/models"
	"alocubano-tickets/internal/services"
)

// SubscribeHandler handles newsletter subscription requests
type SubscribeHandler struct {
	subscriptionService *services.SubscriptionService
}

// NewSubscribeHandler creates a new subscribe handler
func NewSubscribeHandler(subscriptionService *services.SubscriptionService) *SubscribeHandler {
	return &SubscribeHandler{subscriptionService: subscriptionService}
}

// Subscribe handles POST /api/email/subscribe
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	subscriber, created, err := h.subscriptionService.Subscribe(&req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServerError(w, "Failed to subscribe", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{
		"success":    true,
		"subscriber": subscriber,
	})
}

// Unsubscribe handles POST /api/email/unsubscribe
func (h *SubscribeHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.subscriptionService.Unsubscribe(req.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Subscriber not found")
			return
		}
		writeServerError(w, "Failed to unsubscribe", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
