package settlement

import "github.com/meridian-erp/meridian-erp/internal/money"

// ApplyEvent validates one settlement event against a document snapshot and
// returns a copy with GrossPaid/GrossRefunded advanced. The input document
// is never mutated.
//
// The caller must hold a consistent snapshot of all prior events for the
// document; concurrent settlements against the same document have to be
// serialized upstream (the service layer does this with a per-document
// lock). The engine itself is a pure function.
func ApplyEvent(doc PayableDocument, event SettlementEvent) (PayableDocument, error) {
	if event.DocumentID != 0 && event.DocumentID != doc.ID {
		return doc, ErrEventMismatch
	}
	if event.Kind != "" && event.Kind != doc.Kind {
		return doc, ErrEventMismatch
	}
	if !event.Amount.IsPositive() {
		return doc, ErrInvalidAmount
	}

	switch event.Direction {
	case DirectionPayment:
		netPaid := doc.NetPaid().Add(event.Amount)
		if netPaid.GreaterThan(doc.GrossPayable) {
			return doc, ErrExceedsPayable
		}
		doc.GrossPaid = doc.GrossPaid.Add(event.Amount)
		return doc, nil
	case DirectionRefund:
		refundable := doc.GrossPaid.Sub(doc.GrossRefunded)
		if event.Amount.GreaterThan(refundable) {
			return doc, ErrExceedsRefundable
		}
		doc.GrossRefunded = doc.GrossRefunded.Add(event.Amount)
		return doc, nil
	default:
		return doc, ErrUnknownDirection
	}
}

// Replay folds the full event log over a document with zeroed settlement
// totals. Replaying the same finalized log always yields the same
// GrossPaid/GrossRefunded, so derived Due/NetPaid are a pure function of
// the log. An invalid event anywhere in the log fails the whole replay;
// the engine rejects inconsistent histories rather than clamping them.
func Replay(doc PayableDocument, events []SettlementEvent) (PayableDocument, error) {
	doc.GrossPaid = money.Zero()
	doc.GrossRefunded = money.Zero()
	for _, event := range events {
		next, err := ApplyEvent(doc, event)
		if err != nil {
			return doc, err
		}
		doc = next
	}
	return doc, nil
}
