package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"alocubano-tickets/internal/models"

	"github.com/mattn/go-sqlite3"
)

// Constraint conflicts surfaced to the service layer so it can retry the
// order number or re-resolve an idempotent duplicate.
var (
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	ErrDuplicateFingerprint = errors.New("pending transaction with this cart fingerprint already exists")
)

// TransactionRepository handles transaction data operations
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// TransactionCreate holds the fields the checkout service supplies for a
// new transaction row.
type TransactionCreate struct {
	TransactionID    string
	OrderNumber      string
	TotalAmountCents int
	CustomerEmail    string
	CustomerName     string
	CustomerPhone    string
	CartFingerprint  string
	Metadata         string
	IsTest           bool
	IPAddress        string
	UserAgent        string
}

// TicketCreate holds the fields the ticket allocator supplies for one
// ticket row.
type TicketCreate struct {
	TicketID          string
	TicketTypeID      int
	TicketType        string
	AttendeeFirstName string
	AttendeeLastName  string
	AttendeeEmail     string
	EventName         string
	EventDate         string
	EventTime         string
}

// TransactionWithTicketCount pairs a transaction with its ticket count for
// the admin listing.
type TransactionWithTicketCount struct {
	*models.Transaction
	TicketCount int `json:"ticket_count" db:"ticket_count"`
}

const transactionColumns = `id, transaction_id, order_number, total_amount_cents, customer_email,
	customer_name, customer_phone, payment_status, payment_reference, cart_fingerprint,
	metadata, is_test, ip_address, user_agent, created_at, updated_at`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var fingerprint sql.NullString
	err := row.Scan(
		&txn.ID,
		&txn.TransactionID,
		&txn.OrderNumber,
		&txn.TotalAmountCents,
		&txn.CustomerEmail,
		&txn.CustomerName,
		&txn.CustomerPhone,
		&txn.PaymentStatus,
		&txn.PaymentReference,
		&fingerprint,
		&txn.Metadata,
		&txn.IsTest,
		&txn.IPAddress,
		&txn.UserAgent,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	txn.CartFingerprint = fingerprint.String
	return txn, nil
}

// CreateWithTickets inserts one transaction row and its ticket rows as a
// single database transaction. Any failure rolls back everything; an
// orphaned transaction without tickets can never result.
func (r *TransactionRepository) CreateWithTickets(req *TransactionCreate, tickets []TicketCreate) (*models.Transaction, []*models.Ticket, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	// NULL fingerprint keeps the partial unique index from matching
	// fingerprint-less submissions against each other.
	var fingerprint interface{}
	if req.CartFingerprint != "" {
		fingerprint = req.CartFingerprint
	}

	result, err := tx.Exec(`
		INSERT INTO transactions (transaction_id, order_number, total_amount_cents, customer_email,
			customer_name, customer_phone, payment_status, cart_fingerprint, metadata, is_test,
			ip_address, user_agent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.TransactionID,
		req.OrderNumber,
		req.TotalAmountCents,
		req.CustomerEmail,
		req.CustomerName,
		req.CustomerPhone,
		models.PaymentPending,
		fingerprint,
		req.Metadata,
		req.IsTest,
		req.IPAddress,
		req.UserAgent,
		now,
		now,
	)
	if err != nil {
		return nil, nil, classifyConstraintErr(err)
	}

	id64, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get transaction id: %w", err)
	}
	transactionID := int(id64)

	created := make([]*models.Ticket, 0, len(tickets))
	for _, tc := range tickets {
		res, err := tx.Exec(`
			INSERT INTO tickets (ticket_id, transaction_id, ticket_type_id, ticket_type,
				attendee_first_name, attendee_last_name, attendee_email, registration_status,
				event_name, event_date, event_time, is_test, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tc.TicketID,
			transactionID,
			tc.TicketTypeID,
			tc.TicketType,
			tc.AttendeeFirstName,
			tc.AttendeeLastName,
			tc.AttendeeEmail,
			models.RegistrationPendingPayment,
			tc.EventName,
			tc.EventDate,
			tc.EventTime,
			req.IsTest,
			now,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create ticket: %w", err)
		}

		ticketRowID, err := res.LastInsertId()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get ticket id: %w", err)
		}

		created = append(created, &models.Ticket{
			ID:                 int(ticketRowID),
			TicketID:           tc.TicketID,
			TransactionID:      transactionID,
			TicketTypeID:       tc.TicketTypeID,
			TicketType:         tc.TicketType,
			AttendeeFirstName:  tc.AttendeeFirstName,
			AttendeeLastName:   tc.AttendeeLastName,
			AttendeeEmail:      tc.AttendeeEmail,
			RegistrationStatus: models.RegistrationPendingPayment,
			EventName:          tc.EventName,
			EventDate:          tc.EventDate,
			EventTime:          tc.EventTime,
			IsTest:             req.IsTest,
			CreatedAt:          now,
		})
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction creation: %w", err)
	}

	return &models.Transaction{
		ID:               transactionID,
		TransactionID:    req.TransactionID,
		OrderNumber:      req.OrderNumber,
		TotalAmountCents: req.TotalAmountCents,
		CustomerEmail:    req.CustomerEmail,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		PaymentStatus:    models.PaymentPending,
		CartFingerprint:  req.CartFingerprint,
		Metadata:         req.Metadata,
		IsTest:           req.IsTest,
		IPAddress:        req.IPAddress,
		UserAgent:        req.UserAgent,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, created, nil
}

// classifyConstraintErr maps sqlite unique-constraint violations onto the
// repository's conflict sentinels.
func classifyConstraintErr(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		msg := sqliteErr.Error()
		switch {
		case strings.Contains(msg, "order_number"):
			return ErrDuplicateOrderNumber
		case strings.Contains(msg, "cart_fingerprint"):
			return ErrDuplicateFingerprint
		}
	}
	return fmt.Errorf("failed to create transaction: %w", err)
}

// GetByID retrieves a transaction by its integer primary key
func (r *TransactionRepository) GetByID(id int) (*models.Transaction, error) {
	row := r.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	txn, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetByUUID retrieves a transaction by its external UUID
func (r *TransactionRepository) GetByUUID(transactionID string) (*models.Transaction, error) {
	row := r.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = ?`, transactionID)
	txn, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// FindPendingByFingerprint looks up a pending transaction with a matching
// cart fingerprint and customer email created at or after the cutoff.
// Returns models.ErrTransactionNotFound on a miss.
func (r *TransactionRepository) FindPendingByFingerprint(fingerprint, customerEmail string, createdAfter time.Time) (*models.Transaction, error) {
	row := r.db.QueryRow(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE cart_fingerprint = ?
		  AND customer_email = ?
		  AND payment_status = ?
		  AND created_at >= ?
		ORDER BY created_at DESC
		LIMIT 1`,
		fingerprint, customerEmail, models.PaymentPending, createdAfter)

	txn, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to look up pending transaction: %w", err)
	}
	return txn, nil
}

// OrderNumberExists reports whether an order number is already taken
func (r *TransactionRepository) OrderNumberExists(orderNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM transactions WHERE order_number = ?)", orderNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check order number uniqueness: %w", err)
	}
	return exists, nil
}

// Complete marks a pending transaction completed and promotes all of its
// tickets to registered, atomically. Returns models.ErrTransactionNotFound
// for an unknown UUID and models.ErrNotPending when the transaction has
// already left the pending state.
func (r *TransactionRepository) Complete(transactionID, paymentReference string) (*models.Transaction, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = ?`, transactionID)
	txn, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if !txn.CanBeCompleted() {
		return nil, models.ErrNotPending
	}

	now := time.Now().UTC()

	_, err = tx.Exec(`
		UPDATE transactions
		SET payment_status = ?, payment_reference = ?, updated_at = ?
		WHERE id = ? AND payment_status = ?`,
		models.PaymentCompleted, paymentReference, now, txn.ID, models.PaymentPending)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE tickets
		SET registration_status = ?
		WHERE transaction_id = ? AND registration_status = ?`,
		models.RegistrationRegistered, txn.ID, models.RegistrationPendingPayment)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction completion: %w", err)
	}

	txn.PaymentStatus = models.PaymentCompleted
	txn.PaymentReference = paymentReference
	txn.UpdatedAt = now
	return txn, nil
}

// List returns transactions newest-first with their ticket counts, filtered
// by payment status when one is given.
func (r *TransactionRepository) List(status models.PaymentStatus, limit, offset int) ([]*TransactionWithTicketCount, int, error) {
	var conditions []string
	var args []interface{}

	if status != "" {
		conditions = append(conditions, "t.payment_status = ?")
		args = append(args, status)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions t %s", whereClause)
	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get transaction count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.transaction_id, t.order_number, t.total_amount_cents, t.customer_email,
			t.customer_name, t.customer_phone, t.payment_status, t.payment_reference, t.cart_fingerprint,
			t.metadata, t.is_test, t.ip_address, t.user_agent, t.created_at, t.updated_at,
			COUNT(k.id) AS ticket_count
		FROM transactions t
		LEFT JOIN tickets k ON t.id = k.transaction_id
		%s
		GROUP BY t.id
		ORDER BY t.created_at DESC
		LIMIT ? OFFSET ?`, whereClause)

	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var results []*TransactionWithTicketCount
	for rows.Next() {
		item := &TransactionWithTicketCount{Transaction: &models.Transaction{}}
		var fingerprint sql.NullString
		err := rows.Scan(
			&item.Transaction.ID,
			&item.Transaction.TransactionID,
			&item.Transaction.OrderNumber,
			&item.Transaction.TotalAmountCents,
			&item.Transaction.CustomerEmail,
			&item.Transaction.CustomerName,
			&item.Transaction.CustomerPhone,
			&item.Transaction.PaymentStatus,
			&item.Transaction.PaymentReference,
			&fingerprint,
			&item.Transaction.Metadata,
			&item.Transaction.IsTest,
			&item.Transaction.IPAddress,
			&item.Transaction.UserAgent,
			&item.Transaction.CreatedAt,
			&item.Transaction.UpdatedAt,
			&item.TicketCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		item.Transaction.CartFingerprint = fingerprint.String
		results = append(results, item)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transactions: %w", err)
	}

	return results, total, nil
}
