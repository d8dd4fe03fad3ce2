package services

import (
	"alocubano-tickets/internal/models"
)

// EmailService sends the transactional emails for the ticketing flow.
type EmailService interface {
	SendOrderConfirmation(txn *models.Transaction, tickets []*models.Ticket) error
	SendSubscriberWelcome(email, name string) error
}
