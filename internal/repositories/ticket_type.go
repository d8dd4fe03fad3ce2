package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"alocubano-tickets/internal/models"
)

// TicketTypeRepository handles ticket-type catalog data operations
type TicketTypeRepository struct {
	db *sql.DB
}

// NewTicketTypeRepository creates a new ticket type repository
func NewTicketTypeRepository(db *sql.DB) *TicketTypeRepository {
	return &TicketTypeRepository{db: db}
}

const ticketTypeColumns = `id, name, price_cents, status, event_id, event_name, event_date, event_time, created_at`

// GetActiveByIDs fetches active catalog entries for the given ids, keyed by
// id. Inactive or unknown ids are simply absent from the result; callers
// decide whether that is an error.
func (r *TicketTypeRepository) GetActiveByIDs(ids []int) (map[int]*models.TicketType, error) {
	result := make(map[int]*models.TicketType)
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, models.TicketTypeActive)

	query := fmt.Sprintf(`
		SELECT `+ticketTypeColumns+`
		FROM ticket_types
		WHERE id IN (%s) AND status = ?`, strings.Join(placeholders, ", "))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tt := &models.TicketType{}
		err := rows.Scan(
			&tt.ID,
			&tt.Name,
			&tt.PriceCents,
			&tt.Status,
			&tt.EventID,
			&tt.EventName,
			&tt.EventDate,
			&tt.EventTime,
			&tt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket type: %w", err)
		}
		result[tt.ID] = tt
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket types: %w", err)
	}

	return result, nil
}

// GetByID retrieves a catalog entry regardless of status
func (r *TicketTypeRepository) GetByID(id int) (*models.TicketType, error) {
	tt := &models.TicketType{}
	err := r.db.QueryRow(`SELECT `+ticketTypeColumns+` FROM ticket_types WHERE id = ?`, id).Scan(
		&tt.ID,
		&tt.Name,
		&tt.PriceCents,
		&tt.Status,
		&tt.EventID,
		&tt.EventName,
		&tt.EventDate,
		&tt.EventTime,
		&tt.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketTypeNotFound
		}
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}
	return tt, nil
}

// Create inserts a new catalog entry; used by seeding and tests
func (r *TicketTypeRepository) Create(tt *models.TicketType) (*models.TicketType, error) {
	now := time.Now().UTC()
	status := tt.Status
	if status == "" {
		status = models.TicketTypeActive
	}

	result, err := r.db.Exec(`
		INSERT INTO ticket_types (name, price_cents, status, event_id, event_name, event_date, event_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tt.Name, tt.PriceCents, status, tt.EventID, tt.EventName, tt.EventDate, tt.EventTime, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket type: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket type id: %w", err)
	}

	created := *tt
	created.ID = int(id)
	created.Status = status
	created.CreatedAt = now
	return &created, nil
}

// List returns the entire catalog ordered by event and name
func (r *TicketTypeRepository) List() ([]*models.TicketType, error) {
	rows, err := r.db.Query(`SELECT ` + ticketTypeColumns + ` FROM ticket_types ORDER BY event_id, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}
	defer rows.Close()

	var types []*models.TicketType
	for rows.Next() {
		tt := &models.TicketType{}
		err := rows.Scan(
			&tt.ID,
			&tt.Name,
			&tt.PriceCents,
			&tt.Status,
			&tt.EventID,
			&tt.EventName,
			&tt.EventDate,
			&tt.EventTime,
			&tt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket type: %w", err)
		}
		types = append(types, tt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket types: %w", err)
	}

	return types, nil
}
