package models

import (
	"time"
)

// SubscriberStatus represents the state of a mailing list entry
type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
)

// EmailSubscriber represents a mailing list signup from the website
type EmailSubscriber struct {
	ID        int              `json:"id" db:"id"`
	Email     string           `json:"email" db:"email"`
	Name      string           `json:"name,omitempty" db:"name"`
	Status    SubscriberStatus `json:"status" db:"status"`
	Source    string           `json:"source" db:"source"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// SubscribeRequest is the payload for the email subscription endpoint
type SubscribeRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Consent bool   `json:"consent"`
	Source  string `json:"source,omitempty"`
}

// Validate validates the subscription request
func (req *SubscribeRequest) Validate() error {
	if req.Email == "" {
		return InvalidInput("email is required")
	}

	if !ValidEmail(req.Email) {
		return InvalidInput("email format is invalid")
	}

	if !req.Consent {
		return InvalidInput("consent is required")
	}

	if len(req.Name) > 100 {
		return InvalidInput("name must be less than 100 characters")
	}

	return nil
}
