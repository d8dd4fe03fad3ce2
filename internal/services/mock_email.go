package services

import (
	"log"

	"alocubano-tickets/internal/models"
)

// MockEmailService provides a mock email service that can optionally use Resend
type MockEmailService struct {
	resendService *ResendEmailService
	useResend     bool
}

// NewMockEmailService creates a new mock email service. If a Resend API key
// is configured, delivery goes through Resend; otherwise sends are logged.
func NewMockEmailService(resendConfig *ResendConfig) *MockEmailService {
	service := &MockEmailService{
		useResend: false,
	}

	if resendConfig != nil && resendConfig.APIKey != "" {
		service.resendService = NewResendEmailService(*resendConfig)
		service.useResend = true
		log.Println("Email service: Using Resend API")
	} else {
		log.Println("Email service: Using mock (no Resend API key provided)")
	}

	return service
}

// SendOrderConfirmation sends an order confirmation email
func (s *MockEmailService) SendOrderConfirmation(txn *models.Transaction, tickets []*models.Ticket) error {
	if s.useResend && s.resendService != nil {
		return s.resendService.SendOrderConfirmation(txn, tickets)
	}

	log.Printf("Mock Email: Order confirmation sent to %s for order %s (%d tickets)",
		txn.CustomerEmail, txn.OrderNumber, len(tickets))
	return nil
}

// SendSubscriberWelcome sends a welcome email to a new subscriber
func (s *MockEmailService) SendSubscriberWelcome(email, name string) error {
	if s.useResend && s.resendService != nil {
		return s.resendService.SendSubscriberWelcome(email, name)
	}

	log.Printf("Mock Email: Welcome email sent to %s (%s)", email, name)
	return nil
}
