package services

import (
	"errors"
	"testing"

	"alocubano-tickets/internal/models"
)

type fakeTicketLookup struct {
	tickets map[string]*models.Ticket
}

func (f *fakeTicketLookup) GetByTicketID(ticketID string) (*models.Ticket, error) {
	if t, ok := f.tickets[ticketID]; ok {
		return t, nil
	}
	return nil, models.ErrTicketNotFound
}

type fakeTransactionLookup struct {
	txns map[int]*models.Transaction
}

func (f *fakeTransactionLookup) GetByID(id int) (*models.Transaction, error) {
	if txn, ok := f.txns[id]; ok {
		return txn, nil
	}
	return nil, models.ErrTransactionNotFound
}

func newVerificationFixture(paymentStatus models.PaymentStatus, regStatus models.RegistrationStatus) *VerificationService {
	tickets := &fakeTicketLookup{tickets: map[string]*models.Ticket{
		"TKT-AAAA11112222": {
			TicketID:           "TKT-AAAA11112222",
			TransactionID:      1,
			TicketType:         "Full Pass",
			RegistrationStatus: regStatus,
		},
	}}
	txns := &fakeTransactionLookup{txns: map[int]*models.Transaction{
		1: {ID: 1, OrderNumber: "ALO-2026-0001", PaymentStatus: paymentStatus},
	}}
	return NewVerificationService(tickets, txns)
}

func TestVerifyTicket(t *testing.T) {
	tests := []struct {
		name          string
		paymentStatus models.PaymentStatus
		regStatus     models.RegistrationStatus
		wantValid     bool
		wantReason    string
	}{
		{"valid ticket", models.PaymentCompleted, models.RegistrationRegistered, true, ""},
		{"payment pending", models.PaymentPending, models.RegistrationPendingPayment, false, "payment not completed"},
		{"cancelled ticket", models.PaymentCompleted, models.RegistrationCancelled, false, "ticket cancelled"},
		{"registration incomplete", models.PaymentCompleted, models.RegistrationPendingPayment, false, "registration incomplete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newVerificationFixture(tt.paymentStatus, tt.regStatus)

			result, err := svc.VerifyTicket("TKT-AAAA11112222")
			if err != nil {
				t.Fatalf("VerifyTicket failed: %v", err)
			}
			if result.Valid != tt.wantValid {
				t.Errorf("Expected valid=%v, got %v", tt.wantValid, result.Valid)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Expected reason %q, got %q", tt.wantReason, result.Reason)
			}
			if result.OrderNumber != "ALO-2026-0001" {
				t.Errorf("Expected order number, got %q", result.OrderNumber)
			}
		})
	}
}

func TestVerifyTicketUnknown(t *testing.T) {
	svc := newVerificationFixture(models.PaymentCompleted, models.RegistrationRegistered)

	if _, err := svc.VerifyTicket("TKT-UNKNOWN99999"); !errors.Is(err, models.ErrTicketNotFound) {
		t.Errorf("Expected ErrTicketNotFound, got %v", err)
	}
	if _, err := svc.VerifyTicket("garbage"); !errors.Is(err, models.ErrTicketNotFound) {
		t.Errorf("Expected ErrTicketNotFound for malformed id, got %v", err)
	}
}
