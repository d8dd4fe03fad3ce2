package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RegistrationStatus represents the lifecycle state of a ticket
type RegistrationStatus string

const (
	RegistrationPendingPayment RegistrationStatus = "pending_payment"
	RegistrationRegistered     RegistrationStatus = "registered"
	RegistrationCancelled      RegistrationStatus = "cancelled"
)

// TicketTypeStatus represents whether a catalog entry is purchasable
type TicketTypeStatus string

const (
	TicketTypeActive   TicketTypeStatus = "active"
	TicketTypeInactive TicketTypeStatus = "inactive"
)

// TicketType is a catalog entry describing a purchasable ticket kind
type TicketType struct {
	ID         int              `json:"id" db:"id"`
	Name       string           `json:"ticket_type_name" db:"name"`
	PriceCents int              `json:"price_cents" db:"price_cents"`
	Status     TicketTypeStatus `json:"status" db:"status"`
	EventID    int              `json:"event_id" db:"event_id"`
	EventName  string           `json:"event_name" db:"event_name"`
	EventDate  string           `json:"event_date" db:"event_date"`
	EventTime  string           `json:"event_time" db:"event_time"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}

// Ticket represents one issued ticket bound to a single attendee.
// TransactionID is the parent transaction's integer primary key.
type Ticket struct {
	ID                 int                `json:"id" db:"id"`
	TicketID           string             `json:"ticket_id" db:"ticket_id"`
	TransactionID      int                `json:"transaction_id" db:"transaction_id"`
	TicketTypeID       int                `json:"ticket_type_id" db:"ticket_type_id"`
	TicketType         string             `json:"ticket_type" db:"ticket_type"`
	AttendeeFirstName  string             `json:"attendee_first_name" db:"attendee_first_name"`
	AttendeeLastName   string             `json:"attendee_last_name" db:"attendee_last_name"`
	AttendeeEmail      string             `json:"attendee_email" db:"attendee_email"`
	RegistrationStatus RegistrationStatus `json:"registration_status" db:"registration_status"`
	EventName          string             `json:"event_name" db:"event_name"`
	EventDate          string             `json:"event_date" db:"event_date"`
	EventTime          string             `json:"event_time" db:"event_time"`
	IsTest             bool               `json:"is_test" db:"is_test"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
}

// GenerateTicketID produces an external ticket identifier ("TKT-" plus a
// random hex suffix). Uniqueness is backed by the ticket_id unique index.
func GenerateTicketID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("TKT-%d", time.Now().UnixNano())
	}
	return "TKT-" + strings.ToUpper(hex.EncodeToString(buf))
}

// ValidTicketID reports whether s looks like an external ticket identifier.
func ValidTicketID(s string) bool {
	return strings.HasPrefix(s, "TKT-") && len(s) > 4
}

// Validate validates the ticket data
func (t *Ticket) Validate() error {
	if !ValidTicketID(t.TicketID) {
		return errors.New("ticket id format is invalid")
	}

	if t.TransactionID <= 0 {
		return errors.New("transaction id is required")
	}

	if err := validateRegistrationStatus(t.RegistrationStatus); err != nil {
		return err
	}

	return nil
}

// validateRegistrationStatus validates a registration status value
func validateRegistrationStatus(status RegistrationStatus) error {
	switch status {
	case RegistrationPendingPayment, RegistrationRegistered, RegistrationCancelled:
		return nil
	default:
		return errors.New("invalid registration status")
	}
}

// IsActive returns true if the catalog entry can be purchased
func (tt *TicketType) IsActive() bool {
	return tt.Status == TicketTypeActive
}

// IsRegistered returns true once payment has been captured for the ticket
func (t *Ticket) IsRegistered() bool {
	return t.RegistrationStatus == RegistrationRegistered
}

// AttendeeFullName returns the attendee's display name
func (t *Ticket) AttendeeFullName() string {
	return strings.TrimSpace(t.AttendeeFirstName + " " + t.AttendeeLastName)
}
