package repositories

import (
	"errors"
	"testing"
	"time"

	"alocubano-tickets/internal/models"
)

func TestCreateWithTickets(t *testing.T) {
	db, ticketType := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)
	ticketRepo := NewTicketRepository(db.DB)

	txn, created, err := repo.CreateWithTickets(
		sampleCreate("uuid-1", "ALO-2026-0001", "fp-1"),
		sampleTickets(ticketType, 2),
	)
	if err != nil {
		t.Fatalf("CreateWithTickets failed: %v", err)
	}

	if txn.ID <= 0 {
		t.Error("Expected a positive transaction id")
	}
	if txn.PaymentStatus != models.PaymentPending {
		t.Errorf("Expected pending status, got %s", txn.PaymentStatus)
	}
	if len(created) != 2 {
		t.Fatalf("Expected 2 tickets, got %d", len(created))
	}

	// Read back through the repositories.
	stored, err := repo.GetByUUID("uuid-1")
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if stored.OrderNumber != "ALO-2026-0001" {
		t.Errorf("Expected order number ALO-2026-0001, got %s", stored.OrderNumber)
	}
	if stored.CartFingerprint != "fp-1" {
		t.Errorf("Expected fingerprint fp-1, got %q", stored.CartFingerprint)
	}

	tickets, err := ticketRepo.GetByTransaction(txn.ID)
	if err != nil {
		t.Fatalf("GetByTransaction failed: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("Expected 2 stored tickets, got %d", len(tickets))
	}
	if tickets[0].AttendeeFirstName != "Maria" || tickets[1].AttendeeFirstName != "Carlos" {
		t.Errorf("Tickets out of insertion order: %s, %s",
			tickets[0].AttendeeFirstName, tickets[1].AttendeeFirstName)
	}
	for _, ticket := range tickets {
		if ticket.RegistrationStatus != models.RegistrationPendingPayment {
			t.Errorf("Expected pending_payment, got %s", ticket.RegistrationStatus)
		}
	}
}

func TestCreateWithTicketsDuplicateOrderNumber(t *testing.T) {
	db, ticketType := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)

	if _, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-1", "ALO-2026-0001", "fp-1"),
		sampleTickets(ticketType, 1),
	); err != nil {
		t.Fatalf("First create failed: %v", err)
	}

	_, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-2", "ALO-2026-0001", "fp-2"),
		sampleTickets(ticketType, 1),
	)
	if !errors.Is(err, ErrDuplicateOrderNumber) {
		t.Fatalf("Expected ErrDuplicateOrderNumber, got %v", err)
	}

	// The failed attempt must not leave orphan tickets behind.
	var count int
	if err := db.DB.QueryRow("SELECT COUNT(*) FROM tickets").Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 ticket after rollback, got %d", count)
	}
}

func TestCreateWithTicketsDuplicateFingerprint(t *testing.T) {
	db, ticketType := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)

	if _, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-1", "ALO-2026-0001", "fp-1"),
		sampleTickets(ticketType, 1),
	); err != nil {
		t.Fatalf("First create failed: %v", err)
	}

	_, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-2", "ALO-2026-0002", "fp-1"),
		sampleTickets(ticketType, 1),
	)
	if !errors.Is(err, ErrDuplicateFingerprint) {
		t.Fatalf("Expected ErrDuplicateFingerprint, got %v", err)
	}
}

func TestFingerprintIndexOnlyGuardsPending(t *testing.T) {
	db, ticketType := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)

	if _, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-1", "ALO-2026-0001", "fp-1"),
		sampleTickets(ticketType, 1),
	); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	if _, err := repo.Complete("uuid-1", "pay_ref"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	// The fingerprint is free again once the first transaction left pending.
	if _, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-2", "ALO-2026-0002", "fp-1"),
		sampleTickets(ticketType, 1),
	); err != nil {
		t.Fatalf("Second create after completion failed: %v", err)
	}
}

func TestCreateWithTicketsEmptyFingerprint(t *testing.T) {
	db, ticketType := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)

	// Fingerprint-less submissions never conflict with each other.
	for i, uuid := range []string{"uuid-1", "uuid-2"} {
		orderNumber := "ALO-2026-000" + string(rune('1'+i))
		if _, _, err := repo.CreateWithTickets(
			sampleCreate(uuid, orderNumber, ""),
			sampleTickets(ticketType, 1),
		); err != nil {
			t.Fatalf("Create %s failed: %v", uuid, err)
		}
	}
}

func TestFindPendingByFingerprint(t *testing.T) {
	db, ticketType := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)

	created, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-1", "ALO-2026-0001", "fp-1"),
		sampleTickets(ticketType, 1),
	)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cutoff := time.Now().UTC().Add(-time.Hour)

	found, err := repo.FindPendingByFingerprint("fp-1", "maria@example.com", cutoff)
	if err != nil {
		t.Fatalf("FindPendingByFingerprint failed: %v", err)
	}
	if found.TransactionID != created.TransactionID {
		t.Errorf("Expected %s, got %s", created.TransactionID, found.TransactionID)
	}

	// Different email misses.
	if _, err := repo.FindPendingByFingerprint("fp-1", "other@example.com", cutoff); !errors.Is(err, models.ErrTransactionNotFound) {
		t.Errorf("Expected miss for different email, got %v", err)
	}

	// Cutoff after creation misses.
	future := time.Now().UTC().Add(time.Minute)
	if _, err := repo.FindPendingByFingerprint("fp-1", "maria@example.com", future); !errors.Is(err, models.ErrTransactionNotFound) {
		t.Errorf("Expected miss for future cutoff, got %v", err)
	}

	// Completed transactions never match.
	if _, err := repo.Complete("uuid-1", "pay_ref"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := repo.FindPendingByFingerprint("fp-1", "maria@example.com", cutoff); !errors.Is(err, models.ErrTransactionNotFound) {
		t.Errorf("Expected miss after completion, got %v", err)
	}
}

func TestOrderNumberExists(t *testing.T) {
	db, ticketType := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)

	exists, err := repo.OrderNumberExists("ALO-2026-0001")
	if err != nil {
		t.Fatalf("OrderNumberExists failed: %v", err)
	}
	if exists {
		t.Error("Order number should not exist yet")
	}

	if _, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-1", "ALO-2026-0001", ""),
		sampleTickets(ticketType, 1),
	); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err = repo.OrderNumberExists("ALO-2026-0001")
	if err != nil {
		t.Fatalf("OrderNumberExists failed: %v", err)
	}
	if !exists {
		t.Error("Order number should exist after create")
	}
}

func TestComplete(t *testing.T) {
	db, ticketType := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)
	ticketRepo := NewTicketRepository(db.DB)

	created, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-1", "ALO-2026-0001", "fp-1"),
		sampleTickets(ticketType, 2),
	)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	completed, err := repo.Complete("uuid-1", "pay_ref_001")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.PaymentStatus != models.PaymentCompleted {
		t.Errorf("Expected completed, got %s", completed.PaymentStatus)
	}
	if completed.PaymentReference != "pay_ref_001" {
		t.Errorf("Expected payment reference recorded, got %q", completed.PaymentReference)
	}

	tickets, err := ticketRepo.GetByTransaction(created.ID)
	if err != nil {
		t.Fatalf("GetByTransaction failed: %v", err)
	}
	for _, ticket := range tickets {
		if ticket.RegistrationStatus != models.RegistrationRegistered {
			t.Errorf("Ticket %s not promoted, got %s", ticket.TicketID, ticket.RegistrationStatus)
		}
	}

	// A second completion is a conflict.
	if _, err := repo.Complete("uuid-1", "pay_ref_002"); !errors.Is(err, models.ErrNotPending) {
		t.Errorf("Expected ErrNotPending, got %v", err)
	}

	// Unknown UUID is not found.
	if _, err := repo.Complete("no-such-uuid", "pay_ref"); !errors.Is(err, models.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	db, ticketType := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)

	if _, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-1", "ALO-2026-0001", "fp-1"),
		sampleTickets(ticketType, 2),
	); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-2", "ALO-2026-0002", "fp-2"),
		sampleTickets(ticketType, 1),
	); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Complete("uuid-2", "pay_ref"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	all, total, err := repo.List("", 20, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("Expected 2 transactions, got total=%d len=%d", total, len(all))
	}

	counts := make(map[string]int)
	for _, item := range all {
		counts[item.Transaction.TransactionID] = item.TicketCount
	}
	if counts["uuid-1"] != 2 || counts["uuid-2"] != 1 {
		t.Errorf("Unexpected ticket counts: %v", counts)
	}

	pending, total, err := repo.List(models.PaymentPending, 20, 0)
	if err != nil {
		t.Fatalf("List pending failed: %v", err)
	}
	if total != 1 || len(pending) != 1 || pending[0].Transaction.TransactionID != "uuid-1" {
		t.Errorf("Unexpected pending listing: total=%d len=%d", total, len(pending))
	}
}

func TestTicketTestFlagTrigger(t *testing.T) {
	db, ticketType := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)

	txn, _, err := repo.CreateWithTickets(
		sampleCreate("uuid-1", "ALO-2026-0001", ""),
		sampleTickets(ticketType, 1),
	)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Direct insert disagreeing with the parent's is_test must be rejected.
	_, err = db.DB.Exec(`
		INSERT INTO tickets (ticket_id, transaction_id, ticket_type_id, ticket_type,
			attendee_first_name, attendee_last_name, attendee_email, registration_status,
			event_name, event_date, event_time, is_test, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		models.GenerateTicketID(), txn.ID, ticketType.ID, ticketType.Name,
		"Eve", "Mallory", "eve@example.com", models.RegistrationPendingPayment,
		ticketType.EventName, ticketType.EventDate, ticketType.EventTime, true)
	if err == nil {
		t.Fatal("Expected trigger to reject mismatched is_test")
	}
}
