package services

import (
	"strings"

	"alocubano-tickets/internal/models"
)

// ValidationError is a structured, user-facing validation failure. Message
// is suitable for direct display; Details carries per-field problems;
// Expected/Received are set only for registration count mismatches.
type ValidationError struct {
	Message  string   `json:"error"`
	Details  []string `json:"details,omitempty"`
	Expected *int     `json:"expected,omitempty"`
	Received *int     `json:"received,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Details) > 0 {
		return e.Message + ": " + strings.Join(e.Details, "; ")
	}
	return e.Message
}

// ValidateCheckoutRequest checks a checkout payload against structural and
// business rules and returns the normalized request or a structured
// failure. Each rule group is checked exhaustively so the client receives
// every problem in that group in one round trip; it never fails fast on the
// first bad field.
func ValidateCheckoutRequest(req *models.CheckoutRequest) (*models.CheckoutRequest, *ValidationError) {
	if req == nil {
		return nil, &ValidationError{Message: "Invalid cart data", Details: []string{"Cart is empty"}}
	}

	normalized := *req
	normalized.CustomerInfo.Email = strings.TrimSpace(req.CustomerInfo.Email)
	normalized.CustomerInfo.Name = strings.TrimSpace(req.CustomerInfo.Name)
	normalized.CustomerInfo.Phone = strings.TrimSpace(req.CustomerInfo.Phone)
	normalized.CartFingerprint = strings.TrimSpace(req.CartFingerprint)

	if normalized.CustomerInfo.Email == "" {
		return nil, &ValidationError{Message: "Customer email is required"}
	}

	if verr := validateCartItems(normalized.CartItems); verr != nil {
		return nil, verr
	}

	if verr := validateRegistrations(normalized.Registrations); verr != nil {
		return nil, verr
	}

	if verr := validateRegistrationParity(normalized.CartItems, normalized.Registrations); verr != nil {
		return nil, verr
	}

	return &normalized, nil
}

// validateCartItems checks every cart line item and collects all problems
func validateCartItems(items []models.CartItem) *ValidationError {
	if len(items) == 0 {
		return &ValidationError{Message: "Invalid cart data", Details: []string{"Cart is empty"}}
	}

	var details []string
	for _, item := range items {
		if item.TicketTypeID <= 0 {
			details = append(details, "Invalid ticket type ID")
		}
		if item.Quantity < 1 {
			details = append(details, "Invalid quantity")
		}
		if item.PriceCents < 0 {
			details = append(details, "Invalid price")
		}
	}

	if len(details) > 0 {
		return &ValidationError{Message: "Invalid cart data", Details: details}
	}
	return nil
}

// validateRegistrations checks every registration record and collects all
// problems
func validateRegistrations(regs []models.Registration) *ValidationError {
	if len(regs) == 0 {
		return &ValidationError{
			Message: "Invalid registration data",
			Details: []string{"At least one registration is required"},
		}
	}

	var details []string
	for _, reg := range regs {
		if reg.TicketTypeID <= 0 {
			details = append(details, "Invalid ticket type ID")
		}
		if !models.ValidAttendeeName(reg.FirstName) {
			details = append(details, "Invalid first name")
		}
		if !models.ValidAttendeeName(reg.LastName) {
			details = append(details, "Invalid last name")
		}
		if !models.ValidEmail(reg.Email) {
			details = append(details, "Invalid email")
		}
	}

	if len(details) > 0 {
		return &ValidationError{Message: "Invalid registration data", Details: details}
	}
	return nil
}

// validateRegistrationParity enforces the hard invariant that the number of
// registrations per ticket type exactly equals the summed cart quantity for
// that type. It is reported standalone, distinct from the generic details
// list.
func validateRegistrationParity(items []models.CartItem, regs []models.Registration) *ValidationError {
	quantities := models.QuantityByTicketType(items)
	counts := models.RegistrationCountByTicketType(regs)

	// Walk cart items in order so the first mismatching type wins.
	seen := make(map[int]bool)
	for _, item := range items {
		if seen[item.TicketTypeID] {
			continue
		}
		seen[item.TicketTypeID] = true

		expected := quantities[item.TicketTypeID]
		received := counts[item.TicketTypeID]
		if expected != received {
			return &ValidationError{
				Message:  "Registration count mismatch",
				Expected: &expected,
				Received: &received,
			}
		}
	}

	// Registrations for types not in the cart are also a mismatch.
	for _, reg := range regs {
		if _, ok := quantities[reg.TicketTypeID]; !ok {
			expected := 0
			received := counts[reg.TicketTypeID]
			return &ValidationError{
				Message:  "Registration count mismatch",
				Expected: &expected,
				Received: &received,
			}
		}
	}

	return nil
}
