package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"alocubano-tickets/internal/models"
)

func TestSubscriberUpsert(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewSubscriberRepository(db.DB)

	sub, created, err := repo.Upsert("maria@example.com", "Maria", "checkout")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if !created {
		t.Error("First upsert should create")
	}
	if sub.Status != models.SubscriberActive {
		t.Errorf("Expected active status, got %s", sub.Status)
	}
	if sub.Source != "checkout" {
		t.Errorf("Expected source checkout, got %s", sub.Source)
	}

	// Second upsert for the same email updates in place.
	again, created, err := repo.Upsert("maria@example.com", "", "website")
	if err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}
	if created {
		t.Error("Second upsert should not create")
	}
	if again.ID != sub.ID {
		t.Errorf("Expected same row, got ids %d and %d", sub.ID, again.ID)
	}
	if again.Name != "Maria" {
		t.Errorf("Empty name must not clobber the stored one, got %q", again.Name)
	}
}

func TestSubscriberUnsubscribeAndReactivate(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewSubscriberRepository(db.DB)

	if _, _, err := repo.Upsert("maria@example.com", "Maria", ""); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := repo.Unsubscribe("maria@example.com"); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	sub, err := repo.GetByEmail("maria@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if sub.Status != models.SubscriberUnsubscribed {
		t.Errorf("Expected unsubscribed, got %s", sub.Status)
	}

	// Re-subscribing reactivates the row.
	sub, created, err := repo.Upsert("maria@example.com", "", "")
	if err != nil {
		t.Fatalf("Reactivating upsert failed: %v", err)
	}
	if created {
		t.Error("Reactivation should not create a new row")
	}
	if sub.Status != models.SubscriberActive {
		t.Errorf("Expected active after reactivation, got %s", sub.Status)
	}
}

func TestSubscriberMisses(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewSubscriberRepository(db.DB)

	if _, err := repo.GetByEmail("nobody@example.com"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
	if err := repo.Unsubscribe("nobody@example.com"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}
