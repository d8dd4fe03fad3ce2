package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"alocubano-tickets/internal/models"
	"alocubano-tickets/internal/repositories"

	"github.com/google/uuid"
)

const (
	// IdempotencyWindow bounds how far back the fingerprint lookup
	// matches a prior pending transaction.
	IdempotencyWindow = time.Hour

	// orderNumberAttempts bounds the probe-and-retry loop; the unique
	// index on order_number is the real guarantee.
	orderNumberAttempts = 5
)

// TransactionRepository is the data access surface the checkout service
// needs for transactions.
type TransactionRepository interface {
	CreateWithTickets(req *repositories.TransactionCreate, tickets []repositories.TicketCreate) (*models.Transaction, []*models.Ticket, error)
	FindPendingByFingerprint(fingerprint, customerEmail string, createdAfter time.Time) (*models.Transaction, error)
	OrderNumberExists(orderNumber string) (bool, error)
	Complete(transactionID, paymentReference string) (*models.Transaction, error)
	GetByUUID(transactionID string) (*models.Transaction, error)
	List(status models.PaymentStatus, limit, offset int) ([]*repositories.TransactionWithTicketCount, int, error)
}

// TicketReader is the data access surface for reading tickets back.
type TicketReader interface {
	GetByTransaction(transactionID int) ([]*models.Ticket, error)
}

// CatalogRepository resolves cart ticket-type ids against the live catalog.
type CatalogRepository interface {
	GetActiveByIDs(ids []int) (map[int]*models.TicketType, error)
}

// CheckoutService creates pending transactions with their tickets and
// handles payment completion.
type CheckoutService struct {
	txRepo       TransactionRepository
	ticketRepo   TicketReader
	catalogRepo  CatalogRepository
	emailService EmailService
	now          func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	txRepo TransactionRepository,
	ticketRepo TicketReader,
	catalogRepo CatalogRepository,
	emailService EmailService,
) *CheckoutService {
	return &CheckoutService{
		txRepo:       txRepo,
		ticketRepo:   ticketRepo,
		catalogRepo:  catalogRepo,
		emailService: emailService,
		now:          time.Now,
	}
}

// CheckoutResult is the assembled outcome of transaction creation.
// Existing marks an idempotent replay; callers must treat it as
// semantically identical to a fresh creation.
type CheckoutResult struct {
	Transaction *models.Transaction
	Tickets     []*models.Ticket
	Existing    bool
}

// RequestContext captures per-request metadata stamped onto the
// transaction row.
type RequestContext struct {
	IPAddress string
	UserAgent string
}

// CreatePendingTransaction runs the full checkout pipeline for an already
// validated request: idempotency resolution, order number generation, the
// atomic transaction-plus-tickets write, and ticket allocation against the
// catalog.
func (s *CheckoutService) CreatePendingTransaction(req *models.CheckoutRequest, reqCtx RequestContext) (*CheckoutResult, error) {
	// A missing fingerprint means idempotency cannot be evaluated;
	// create unconditionally.
	if req.CartFingerprint != "" {
		existing, err := s.resolveExisting(req.CartFingerprint, req.CustomerInfo.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	totalAmount := models.TotalAmountCents(req.CartItems)
	isTest := models.DeriveIsTest(totalAmount, req.TestMode)

	tickets, err := s.allocateTickets(req.CartItems, req.Registrations)
	if err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(models.TransactionMetadata{
		CartFingerprint: req.CartFingerprint,
		Source:          models.MetadataSourceInlineRegistration,
		CreatedAt:       s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	create := &repositories.TransactionCreate{
		TransactionID:    uuid.New().String(),
		TotalAmountCents: totalAmount,
		CustomerEmail:    req.CustomerInfo.Email,
		CustomerName:     req.CustomerInfo.Name,
		CustomerPhone:    req.CustomerInfo.Phone,
		CartFingerprint:  req.CartFingerprint,
		Metadata:         string(metadata),
		IsTest:           isTest,
		IPAddress:        reqCtx.IPAddress,
		UserAgent:        reqCtx.UserAgent,
	}

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		orderNumber := models.GenerateOrderNumber(s.now())

		// Probe first to keep conflict retries rare; the unique index
		// still catches concurrent winners.
		exists, err := s.txRepo.OrderNumberExists(orderNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		create.OrderNumber = orderNumber

		txn, created, err := s.txRepo.CreateWithTickets(create, tickets)
		if err == nil {
			return &CheckoutResult{Transaction: txn, Tickets: created}, nil
		}

		if errors.Is(err, repositories.ErrDuplicateOrderNumber) {
			continue
		}

		// A concurrent request with the same fingerprint won the insert
		// race; return its transaction as the idempotent result.
		if errors.Is(err, repositories.ErrDuplicateFingerprint) {
			existing, rerr := s.resolveExisting(req.CartFingerprint, req.CustomerInfo.Email)
			if rerr != nil {
				return nil, rerr
			}
			if existing != nil {
				return existing, nil
			}
		}

		return nil, err
	}

	return nil, fmt.Errorf("failed to allocate a unique order number after %d attempts", orderNumberAttempts)
}

// resolveExisting returns the prior pending transaction for the fingerprint
// and email within the idempotency window, or nil on a miss. Completed or
// failed transactions never match; the cart may legitimately be resubmitted
// after a failure.
func (s *CheckoutService) resolveExisting(fingerprint, customerEmail string) (*CheckoutResult, error) {
	cutoff := s.now().UTC().Add(-IdempotencyWindow)

	txn, err := s.txRepo.FindPendingByFingerprint(fingerprint, customerEmail, cutoff)
	if err != nil {
		if errors.Is(err, models.ErrTransactionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	tickets, err := s.ticketRepo.GetByTransaction(txn.ID)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Transaction: txn, Tickets: tickets, Existing: true}, nil
}

// allocateTickets expands cart quantities into ticket rows, consuming
// registrations strictly in the order supplied per ticket type: the Nth
// registration for a type becomes the Nth ticket for that type.
func (s *CheckoutService) allocateTickets(items []models.CartItem, regs []models.Registration) ([]repositories.TicketCreate, error) {
	ids := make([]int, 0, len(items))
	seen := make(map[int]bool)
	for _, item := range items {
		if !seen[item.TicketTypeID] {
			seen[item.TicketTypeID] = true
			ids = append(ids, item.TicketTypeID)
		}
	}

	catalog, err := s.catalogRepo.GetActiveByIDs(ids)
	if err != nil {
		return nil, err
	}

	regsByType := make(map[int][]models.Registration)
	for _, reg := range regs {
		regsByType[reg.TicketTypeID] = append(regsByType[reg.TicketTypeID], reg)
	}
	nextReg := make(map[int]int)

	var tickets []repositories.TicketCreate
	for _, item := range items {
		ticketType, ok := catalog[item.TicketTypeID]
		if !ok {
			return nil, fmt.Errorf("ticket type %d: %w", item.TicketTypeID, models.ErrTicketTypeNotFound)
		}

		for i := 0; i < item.Quantity; i++ {
			queue := regsByType[item.TicketTypeID]
			idx := nextReg[item.TicketTypeID]
			if idx >= len(queue) {
				// Parity is validated before any write; this indicates a
				// caller bypassing validation.
				return nil, fmt.Errorf("ticket type %d: no registration for ticket unit %d", item.TicketTypeID, i+1)
			}
			reg := queue[idx]
			nextReg[item.TicketTypeID] = idx + 1

			tickets = append(tickets, repositories.TicketCreate{
				TicketID:          models.GenerateTicketID(),
				TicketTypeID:      ticketType.ID,
				TicketType:        ticketType.Name,
				AttendeeFirstName: reg.FirstName,
				AttendeeLastName:  reg.LastName,
				AttendeeEmail:     reg.Email,
				EventName:         ticketType.EventName,
				EventDate:         ticketType.EventDate,
				EventTime:         ticketType.EventTime,
			})
		}
	}

	return tickets, nil
}

// CompleteCheckout marks a pending transaction completed, promotes its
// tickets to registered, and sends the confirmation email. Email failures
// are logged, never surfaced; the payment has already been captured.
func (s *CheckoutService) CompleteCheckout(transactionID, paymentReference string) (*CheckoutResult, error) {
	txn, err := s.txRepo.Complete(transactionID, paymentReference)
	if err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.GetByTransaction(txn.ID)
	if err != nil {
		return nil, err
	}

	if s.emailService != nil {
		if err := s.emailService.SendOrderConfirmation(txn, tickets); err != nil {
			log.Printf("Warning: failed to send confirmation email for order %s: %v", txn.OrderNumber, err)
		}
	}

	return &CheckoutResult{Transaction: txn, Tickets: tickets}, nil
}

// GetTransaction retrieves a transaction and its tickets by UUID
func (s *CheckoutService) GetTransaction(transactionID string) (*CheckoutResult, error) {
	txn, err := s.txRepo.GetByUUID(transactionID)
	if err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.GetByTransaction(txn.ID)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Transaction: txn, Tickets: tickets}, nil
}

// ListTransactions returns transactions for the admin listing
func (s *CheckoutService) ListTransactions(status models.PaymentStatus, limit, offset int) ([]*repositories.TransactionWithTicketCount, int, error) {
	return s.txRepo.List(status, limit, offset)
}
