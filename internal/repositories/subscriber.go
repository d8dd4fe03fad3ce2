package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"alocubano-tickets/internal/models"
)

// SubscriberRepository handles mailing list data operations
type SubscriberRepository struct {
	db *sql.DB
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Upsert inserts a subscriber, or reactivates an existing row for the same
// email. The returned bool reports whether a new row was created.
func (r *SubscriberRepository) Upsert(email, name, source string) (*models.EmailSubscriber, bool, error) {
	now := time.Now().UTC()
	if source == "" {
		source = "website"
	}

	existing, err := r.GetByEmail(email)
	if err == nil {
		_, err = r.db.Exec(`
			UPDATE email_subscribers
			SET status = ?, name = CASE WHEN ? != '' THEN ? ELSE name END, updated_at = ?
			WHERE id = ?`,
			models.SubscriberActive, name, name, now, existing.ID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to update subscriber: %w", err)
		}

		existing.Status = models.SubscriberActive
		if name != "" {
			existing.Name = name
		}
		existing.UpdatedAt = now
		return existing, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, err
	}

	result, err := r.db.Exec(`
		INSERT INTO email_subscribers (email, name, status, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		email, name, models.SubscriberActive, source, now, now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create subscriber: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get subscriber id: %w", err)
	}

	return &models.EmailSubscriber{
		ID:        int(id),
		Email:     email,
		Name:      name,
		Status:    models.SubscriberActive,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

// GetByEmail retrieves a subscriber by email address. Returns
// sql.ErrNoRows when the email is not subscribed.
func (r *SubscriberRepository) GetByEmail(email string) (*models.EmailSubscriber, error) {
	sub := &models.EmailSubscriber{}
	err := r.db.QueryRow(`
		SELECT id, email, name, status, source, created_at, updated_at
		FROM email_subscribers
		WHERE email = ?`, email).Scan(
		&sub.ID,
		&sub.Email,
		&sub.Name,
		&sub.Status,
		&sub.Source,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	return sub, nil
}

// Unsubscribe marks a subscriber unsubscribed
func (r *SubscriberRepository) Unsubscribe(email string) error {
	result, err := r.db.Exec(`
		UPDATE email_subscribers SET status = ?, updated_at = ? WHERE email = ?`,
		models.SubscriberUnsubscribed, time.Now().UTC(), email)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
