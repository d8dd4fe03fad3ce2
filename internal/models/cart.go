package models

import (
	"errors"
	"regexp"
	"strings"
)

// CartItem is a transient checkout line item; it is never persisted as-is
type CartItem struct {
	TicketTypeID int `json:"ticketTypeId"`
	Quantity     int `json:"quantity"`
	PriceCents   int `json:"price_cents"`
}

// CustomerInfo holds the purchaser's contact details
type CustomerInfo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Registration is the per-attendee record supplied at checkout; one per
// ticket unit to be issued
type Registration struct {
	TicketTypeID int    `json:"ticketTypeId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
}

var (
	// Attendee names: letters, spaces, hyphens, apostrophes, 1-50 chars
	attendeeNameRegex = regexp.MustCompile(`^[A-Za-z\s'-]{1,50}$`)
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidAttendeeName reports whether name satisfies the attendee name rules.
func ValidAttendeeName(name string) bool {
	return name != "" && strings.TrimSpace(name) != "" && attendeeNameRegex.MatchString(name)
}

// ValidEmail reports whether email is a syntactically valid address.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Validate validates a single cart item
func (ci *CartItem) Validate() error {
	if ci.TicketTypeID <= 0 {
		return errors.New("invalid ticket type id")
	}

	if ci.Quantity < 1 {
		return errors.New("invalid quantity")
	}

	if ci.PriceCents < 0 {
		return errors.New("invalid price")
	}

	return nil
}

// Subtotal returns quantity times unit price in cents
func (ci *CartItem) Subtotal() int {
	return ci.Quantity * ci.PriceCents
}

// TotalAmountCents sums the subtotals of all cart items
func TotalAmountCents(items []CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// QuantityByTicketType sums cart quantities per ticket type id
func QuantityByTicketType(items []CartItem) map[int]int {
	quantities := make(map[int]int)
	for _, item := range items {
		quantities[item.TicketTypeID] += item.Quantity
	}
	return quantities
}

// RegistrationCountByTicketType counts registrations per ticket type id
func RegistrationCountByTicketType(regs []Registration) map[int]int {
	counts := make(map[int]int)
	for _, reg := range regs {
		counts[reg.TicketTypeID]++
	}
	return counts
}
