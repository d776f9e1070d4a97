package settlement

import "errors"

// Settlement error taxonomy. All are local, recoverable, and returned as
// values; callers surface them as rejected actions.
var (
	// ErrInvalidAmount rejects settlement events with a non-positive amount.
	ErrInvalidAmount = errors.New("settlement: amount must be positive")
	// ErrExceedsPayable rejects a payment that would push net paid above the
	// document payable.
	ErrExceedsPayable = errors.New("settlement: payment exceeds amount payable")
	// ErrExceedsRefundable rejects a refund larger than what was collected
	// net of prior refunds.
	ErrExceedsRefundable = errors.New("settlement: refund exceeds refundable amount")
	// ErrInvalidLine flags a line item violating quantity/price/discount bounds.
	ErrInvalidLine = errors.New("settlement: invalid line item")
	// ErrUnknownKind flags an unrecognised document kind.
	ErrUnknownKind = errors.New("settlement: unknown document kind")
	// ErrUnknownDirection flags an unrecognised event direction.
	ErrUnknownDirection = errors.New("settlement: unknown event direction")
	// ErrDocumentNotFound indicates the payable document does not exist.
	ErrDocumentNotFound = errors.New("settlement: document not found")
	// ErrDuplicateReference indicates an event reference was already recorded
	// for the document.
	ErrDuplicateReference = errors.New("settlement: duplicate event reference")
	// ErrEventMismatch indicates an event addressed to a different document.
	ErrEventMismatch = errors.New("settlement: event does not belong to document")
)
