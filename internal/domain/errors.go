package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// RejectReason classifies why a command was refused.
type RejectReason int

const (
	ReasonInvalidAction RejectReason = iota + 1
	ReasonDuplicateOrderID
	ReasonSymbolMissing
	ReasonSymbolTooLong
	ReasonSymbolNotAlphanumeric
	ReasonInvalidSide
	ReasonInvalidQty
	ReasonInvalidPrice
	ReasonOrderIDNotFound
	ReasonMalformedCommand
)

// String returns the message carried by the E result line.
func (r RejectReason) String() string {
	switch r {
	case ReasonInvalidAction:
		return "Invalid action"
	case ReasonDuplicateOrderID:
		return "Duplicate order id"
	case ReasonSymbolMissing:
		return "Symbol missing"
	case ReasonSymbolTooLong:
		return "Symbol too long"
	case ReasonSymbolNotAlphanumeric:
		return "Symbol not alphanumeric"
	case ReasonInvalidSide:
		return "Invalid side"
	case ReasonInvalidQty:
		return "Invalid qty"
	case ReasonInvalidPrice:
		return "Invalid px"
	case ReasonOrderIDNotFound:
		return "Order id not found"
	case ReasonMalformedCommand:
		return "Malformed command"
	default:
		return "Unknown error"
	}
}

// RejectError is a command refused before it touched the book.
// Rejects are never retriable: the same input fails the same way.
type RejectError struct {
	ID     OrderID // offending id, 0 when the id itself could not be read
	Reason RejectReason
	Err    error // optional detail
}

func (e *RejectError) Error() string {
	if e.Err != nil {
		return e.Reason.String() + ": " + e.Err.Error()
	}
	return e.Reason.String()
}

func (e *RejectError) IsRetriable() bool {
	return false
}

func (e *RejectError) Unwrap() error {
	return e.Err
}

// Reject creates a RejectError for id.
func Reject(id OrderID, reason RejectReason) *RejectError {
	return &RejectError{ID: id, Reason: reason}
}

// RejectWith creates a RejectError carrying the underlying cause.
func RejectWith(id OrderID, reason RejectReason, err error) *RejectError {
	return &RejectError{ID: id, Reason: reason, Err: err}
}

// AsReject unwraps err into a RejectError.
func AsReject(err error) (*RejectError, bool) {
	var re *RejectError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StorageError wraps a journal failure. Disk hiccups are worth retrying.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) IsRetriable() bool {
	return true
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

var (
	// ErrInvalidPrice is returned when a price token is not a valid 7.5 price.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrOrderNotFound is wrapped by cancel rejects for ids with no resting order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrConfigNotFound is returned when configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrJournalClosed is returned when appending to a closed journal.
	ErrJournalClosed = errors.New("journal closed")
)
