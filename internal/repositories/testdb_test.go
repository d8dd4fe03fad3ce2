package repositories

import (
	"testing"

	"alocubano-tickets/internal/database"
	"alocubano-tickets/internal/models"
)

// setupTestDB opens an in-memory database with the full schema applied and
// one active catalog entry seeded.
func setupTestDB(t *testing.T) (*database.DB, *models.TicketType) {
	t.Helper()

	db, err := database.NewConnection(database.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	ticketType, err := NewTicketTypeRepository(db.DB).Create(&models.TicketType{
		Name:       "Full Pass",
		PriceCents: 12500,
		EventID:    1,
		EventName:  "A Lo Cubano Boulder Fest 2026",
		EventDate:  "2026-05-15",
		EventTime:  "18:00",
	})
	if err != nil {
		t.Fatalf("Failed to seed ticket type: %v", err)
	}

	return db, ticketType
}

// sampleCreate builds a TransactionCreate with distinct identifiers
func sampleCreate(uuid, orderNumber, fingerprint string) *TransactionCreate {
	return &TransactionCreate{
		TransactionID:    uuid,
		OrderNumber:      orderNumber,
		TotalAmountCents: 25000,
		CustomerEmail:    "maria@example.com",
		CustomerName:     "Maria Lopez",
		CartFingerprint:  fingerprint,
		Metadata:         `{"source":"inline_registration"}`,
	}
}

// sampleTickets builds ticket rows matching the seeded catalog entry
func sampleTickets(ticketType *models.TicketType, count int) []TicketCreate {
	tickets := make([]TicketCreate, 0, count)
	firstNames := []string{"Maria", "Carlos", "Ana", "Luis"}
	for i := 0; i < count; i++ {
		tickets = append(tickets, TicketCreate{
			TicketID:          models.GenerateTicketID(),
			TicketTypeID:      ticketType.ID,
			TicketType:        ticketType.Name,
			AttendeeFirstName: firstNames[i%len(firstNames)],
			AttendeeLastName:  "Lopez",
			AttendeeEmail:     "attendee@example.com",
			EventName:         ticketType.EventName,
			EventDate:         ticketType.EventDate,
			EventTime:         ticketType.EventTime,
		})
	}
	return tickets
}
