package models

import "errors"

// Common errors used throughout the application
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketTypeNotFound  = errors.New("ticket type not found or inactive")
	ErrNotPending          = errors.New("transaction is not pending")
	ErrUnauthorized        = errors.New("unauthorized access")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicateEntry      = errors.New("duplicate entry")
)

// InvalidInput builds a request validation error. Handlers match it with
// errors.Is(err, ErrInvalidInput) to tell caller mistakes apart from
// datastore failures; the message stays clean for display.
func InvalidInput(msg string) error {
	return &inputError{msg: msg}
}

type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func (e *inputError) Unwrap() error { return ErrInvalidInput }
