package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide whether and how to retry.
type Kind int

const (
	// KindInternal unexpected failure, nothing the caller can do
	KindInternal Kind = iota
	// KindValidation bad input or wrong state for the requested transition
	KindValidation
	// KindNotFound referenced record does not exist
	KindNotFound
	// KindDuplicateSettlement tx hash already booked; success-equivalent for idempotent callers
	KindDuplicateSettlement
	// KindPendingConfirmation tx sent but not yet observable on the ledger; re-poll later
	KindPendingConfirmation
	// KindLedgerRejected the chain refused the operation (revert, allowance, funds)
	KindLedgerRejected
	// KindInvariantViolation illegal state transition, e.g. second publish or second claim
	KindInvariantViolation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDuplicateSettlement:
		return "duplicate_settlement"
	case KindPendingConfirmation:
		return "pending_confirmation"
	case KindLedgerRejected:
		return "ledger_rejected"
	case KindInvariantViolation:
		return "invariant_violation"
	default:
		return "internal"
	}
}

// Error carries a kind alongside the message and an optional cause.
type Error struct {
	Kind   Kind
	Msg    string
	Detail string // extra context for the caller, e.g. a tx hash to re-confirm with
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates a classified error with formatting.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, err error, msg string) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// WithDetail attaches caller-facing context to a classified error.
func WithDetail(kind Kind, msg, detail string) error {
	return &Error{Kind: kind, Msg: msg, Detail: detail}
}

// KindOf extracts the kind; unclassified errors report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// DetailOf returns the attached detail, if any.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
