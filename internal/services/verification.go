package services

import (
	"alocubano-tickets/internal/models"
)

// TicketLookup is the data access surface for ticket verification.
type TicketLookup interface {
	GetByTicketID(ticketID string) (*models.Ticket, error)
}

// TransactionLookup resolves the parent transaction for a ticket.
type TransactionLookup interface {
	GetByID(id int) (*models.Transaction, error)
}

// VerificationService answers door-scan lookups for issued tickets.
type VerificationService struct {
	ticketRepo TicketLookup
	txRepo     TransactionLookup
}

// NewVerificationService creates a new verification service
func NewVerificationService(ticketRepo TicketLookup, txRepo TransactionLookup) *VerificationService {
	return &VerificationService{
		ticketRepo: ticketRepo,
		txRepo:     txRepo,
	}
}

// VerificationResult describes a ticket's standing at the door.
type VerificationResult struct {
	Valid        bool           `json:"valid"`
	Ticket       *models.Ticket `json:"ticket"`
	OrderNumber  string         `json:"order_number"`
	PaymentState string         `json:"payment_status"`
	Reason       string         `json:"reason,omitempty"`
}

// VerifyTicket looks up a ticket by its public id. A ticket is valid only
// when it is registered and its parent transaction is completed; anything
// else carries a reason.
func (s *VerificationService) VerifyTicket(ticketID string) (*VerificationResult, error) {
	if !models.ValidTicketID(ticketID) {
		return nil, models.ErrTicketNotFound
	}

	ticket, err := s.ticketRepo.GetByTicketID(ticketID)
	if err != nil {
		return nil, err
	}

	txn, err := s.txRepo.GetByID(ticket.TransactionID)
	if err != nil {
		return nil, err
	}

	result := &VerificationResult{
		Ticket:       ticket,
		OrderNumber:  txn.OrderNumber,
		PaymentState: string(txn.PaymentStatus),
	}

	switch {
	case ticket.RegistrationStatus == models.RegistrationCancelled:
		result.Reason = "ticket cancelled"
	case !txn.IsCompleted():
		result.Reason = "payment not completed"
	case !ticket.IsRegistered():
		result.Reason = "registration incomplete"
	default:
		result.Valid = true
	}

	return result, nil
}
