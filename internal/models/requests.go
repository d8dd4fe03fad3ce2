package models

// CheckoutRequest is the payload for the pending-transaction endpoint
type CheckoutRequest struct {
	CartItems       []CartItem     `json:"cartItems"`
	CustomerInfo    CustomerInfo   `json:"customerInfo"`
	Registrations   []Registration `json:"registrations"`
	CartFingerprint string         `json:"cartFingerprint,omitempty"`
	TestMode        bool           `json:"testMode,omitempty"`
}

// CompleteRequest is the payload for the checkout completion endpoint
type CompleteRequest struct {
	TransactionID    string `json:"transactionId"`
	PaymentReference string `json:"paymentReference"`
}

// CheckoutResponse is the external contract for transaction creation
type CheckoutResponse struct {
	Success     bool         `json:"success"`
	Transaction *Transaction `json:"transaction"`
	Tickets     []*Ticket    `json:"tickets"`
	Existing    bool         `json:"existing,omitempty"`
}
