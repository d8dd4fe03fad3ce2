package services

import (
	"log"
	"strings"

	"alocubano-tickets/internal/models"
)

// SubscriberRepository is the data access surface for newsletter subscribers.
type SubscriberRepository interface {
	Upsert(email, name, source string) (*models.EmailSubscriber, bool, error)
	Unsubscribe(email string) error
}

// SubscriptionService handles newsletter signups.
type SubscriptionService struct {
	repo         SubscriberRepository
	emailService EmailService
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repo SubscriberRepository, emailService EmailService) *SubscriptionService {
	return &SubscriptionService{
		repo:         repo,
		emailService: emailService,
	}
}

// Subscribe adds or reactivates a subscriber. Re-subscribing an existing
// address is not an error; the welcome email only goes out on first signup.
// The returned bool reports whether a new row was created.
func (s *SubscriptionService) Subscribe(req *models.SubscribeRequest) (*models.EmailSubscriber, bool, error) {
	normalized := *req
	normalized.Email = strings.ToLower(strings.TrimSpace(req.Email))
	normalized.Name = strings.TrimSpace(req.Name)
	if err := normalized.Validate(); err != nil {
		return nil, false, err
	}

	email := normalized.Email
	name := normalized.Name
	source := req.Source
	if source == "" {
		source = "website"
	}

	subscriber, created, err := s.repo.Upsert(email, name, source)
	if err != nil {
		return nil, false, err
	}

	if created && s.emailService != nil {
		if err := s.emailService.SendSubscriberWelcome(subscriber.Email, subscriber.Name); err != nil {
			log.Printf("Warning: failed to send welcome email to %s: %v", subscriber.Email, err)
		}
	}

	return subscriber, created, nil
}

// Unsubscribe marks a subscriber as unsubscribed
func (s *SubscriptionService) Unsubscribe(email string) error {
	return s.repo.Unsubscribe(strings.ToLower(strings.TrimSpace(email)))
}
