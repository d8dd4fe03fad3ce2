package repositories

import (
	"database/sql"
	"fmt"

	"alocubano-tickets/internal/models"
)

// TicketRepository handles ticket data operations
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, ticket_id, transaction_id, ticket_type_id, ticket_type,
	attendee_first_name, attendee_last_name, attendee_email, registration_status,
	event_name, event_date, event_time, is_test, created_at`

func scanTicket(row interface{ Scan(...interface{}) error }) (*models.Ticket, error) {
	t := &models.Ticket{}
	err := row.Scan(
		&t.ID,
		&t.TicketID,
		&t.TransactionID,
		&t.TicketTypeID,
		&t.TicketType,
		&t.AttendeeFirstName,
		&t.AttendeeLastName,
		&t.AttendeeEmail,
		&t.RegistrationStatus,
		&t.EventName,
		&t.EventDate,
		&t.EventTime,
		&t.IsTest,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByTicketID retrieves a ticket by its external identifier
func (r *TicketRepository) GetByTicketID(ticketID string) (*models.Ticket, error) {
	row := r.db.QueryRow(`SELECT `+ticketColumns+` FROM tickets WHERE ticket_id = ?`, ticketID)
	t, err := scanTicket(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return t, nil
}

// GetByTransaction retrieves all tickets belonging to a transaction,
// in insertion order.
func (r *TicketRepository) GetByTransaction(transactionID int) ([]*models.Ticket, error) {
	rows, err := r.db.Query(`
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE transaction_id = ?
		ORDER BY id ASC`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// CountByTransaction returns the number of tickets on a transaction
func (r *TicketRepository) CountByTransaction(transactionID int) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM tickets WHERE transaction_id = ?", transactionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}
