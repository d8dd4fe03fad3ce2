package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"alocubano-tickets/internal/models"
)

// ResendConfig represents Resend email service configuration
type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// ResendEmailService handles email sending via Resend API
type ResendEmailService struct {
	config ResendConfig
	client *http.Client
}

// NewResendEmailService creates a new Resend email service
func NewResendEmailService(config ResendConfig) *ResendEmailService {
	return &ResendEmailService{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ResendEmailRequest represents the request structure for Resend API
type ResendEmailRequest struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html,omitempty"`
	Text    string            `json:"text,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Tags    []ResendTag       `json:"tags,omitempty"`
}

// ResendTag represents a tag for email categorization
type ResendTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// getFromField constructs the from field properly
func (s *ResendEmailService) getFromField() string {
	if s.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}
	return s.config.FromEmail
}

// SendOrderConfirmation sends an order confirmation email with the ticket
// details for the completed transaction.
func (s *ResendEmailService) SendOrderConfirmation(txn *models.Transaction, tickets []*models.Ticket) error {
	var ticketRows strings.Builder
	var ticketLines strings.Builder
	for _, t := range tickets {
		ticketRows.WriteString(fmt.Sprintf(`
            <tr>
                <td style="padding: 8px; border-bottom: 1px solid #ddd;">%s</td>
                <td style="padding: 8px; border-bottom: 1px solid #ddd;">%s</td>
                <td style="padding: 8px; border-bottom: 1px solid #ddd;">%s</td>
            </tr>`, t.TicketID, t.TicketType, t.AttendeeFullName()))
		ticketLines.WriteString(fmt.Sprintf("- %s: %s (%s)\n", t.TicketID, t.TicketType, t.AttendeeFullName()))
	}

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Order Confirmation</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #CC2936; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .order-number { font-size: 18px; font-weight: bold; }
        table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
        .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>A Lo Cubano Boulder Fest</h1>
        </div>
        <div class="content">
            <p>Thank you for your order!</p>
            <p class="order-number">Order %s</p>
            <p>Total: $%.2f</p>
            <table>
                <tr>
                    <th style="text-align: left; padding: 8px;">Ticket</th>
                    <th style="text-align: left; padding: 8px;">Type</th>
                    <th style="text-align: left; padding: 8px;">Attendee</th>
                </tr>%s
            </table>
            <p>Present your ticket ID at the door. We can't wait to dance with you!</p>
        </div>
        <div class="footer">
            <p>A Lo Cubano Boulder Fest</p>
        </div>
    </div>
</body>
</html>`, txn.OrderNumber, txn.TotalAmountInDollars(), ticketRows.String())

	textContent := fmt.Sprintf(`A Lo Cubano Boulder Fest

Thank you for your order!

Order %s
Total: $%.2f

Tickets:
%s
Present your ticket ID at the door. We can't wait to dance with you!`, txn.OrderNumber, txn.TotalAmountInDollars(), ticketLines.String())

	request := ResendEmailRequest{
		From:    s.getFromField(),
		To:      []string{txn.CustomerEmail},
		Subject: fmt.Sprintf("Order Confirmation - %s", txn.OrderNumber),
		HTML:    htmlContent,
		Text:    textContent,
		Tags: []ResendTag{
			{Name: "category", Value: "order_confirmation"},
		},
	}

	return s.sendEmail(request)
}

// SendSubscriberWelcome sends a welcome email to a new newsletter subscriber
func (s *ResendEmailService) SendSubscriberWelcome(email, name string) error {
	greeting := "Hola"
	if name != "" {
		greeting = fmt.Sprintf("Hola %s", name)
	}

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Welcome</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #CC2936; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>A Lo Cubano Boulder Fest</h1>
        </div>
        <div class="content">
            <p>%s,</p>
            <p>You're on the list! We'll keep you posted on lineups, workshops, and ticket releases.</p>
        </div>
        <div class="footer">
            <p>A Lo Cubano Boulder Fest</p>
        </div>
    </div>
</body>
</html>`, greeting)

	textContent := fmt.Sprintf(`%s,

You're on the list! We'll keep you posted on lineups, workshops, and ticket releases.

A Lo Cubano Boulder Fest`, greeting)

	request := ResendEmailRequest{
		From:    s.getFromField(),
		To:      []string{email},
		Subject: "Welcome to A Lo Cubano Boulder Fest",
		HTML:    htmlContent,
		Text:    textContent,
		Tags: []ResendTag{
			{Name: "category", Value: "subscriber_welcome"},
		},
	}

	return s.sendEmail(request)
}

// sendEmail sends an email via the Resend API
func (s *ResendEmailService) sendEmail(request ResendEmailRequest) error {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorResp ResendErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errorResp); err != nil {
			return fmt.Errorf("failed to send email, status: %d", resp.StatusCode)
		}
		return fmt.Errorf("failed to send email: %s", errorResp.Message)
	}

	var response ResendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
