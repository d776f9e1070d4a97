package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/money"
)

// DocumentKind enumerates the payable document families that settle through
// the engine.
type DocumentKind string

const (
	KindSalesInvoice          DocumentKind = "SALES_INVOICE"
	KindPurchaseInvoice       DocumentKind = "PURCHASE_INVOICE"
	KindSalesReturnInvoice    DocumentKind = "SALES_RETURN_INVOICE"
	KindPurchaseReturnInvoice DocumentKind = "PURCHASE_RETURN_INVOICE"
	KindPayrollItem           DocumentKind = "PAYROLL_ITEM"
)

// Valid reports whether the kind is one of the known document families.
func (k DocumentKind) Valid() bool {
	switch k {
	case KindSalesInvoice, KindPurchaseInvoice, KindSalesReturnInvoice,
		KindPurchaseReturnInvoice, KindPayrollItem:
		return true
	}
	return false
}

// EventDirection marks a settlement event as money collected or money
// returned.
type EventDirection string

const (
	DirectionPayment EventDirection = "PAYMENT"
	DirectionRefund  EventDirection = "REFUND"
)

// Valid reports whether the direction is known.
func (d EventDirection) Valid() bool {
	return d == DirectionPayment || d == DirectionRefund
}

// LineItem is a single priced row on a payable document.
type LineItem struct {
	ID          int64
	ProductID   int64
	Description string
	Quantity    decimal.Decimal
	UnitPrice   money.Money
	Discount    money.Money
	Tax         money.Money
}

// Total computes unit_price*quantity - discount + tax.
func (l LineItem) Total() money.Money {
	return l.UnitPrice.MulQuantity(l.Quantity).Sub(l.Discount).Add(l.Tax)
}

// Validate enforces the line invariants: non-negative quantity and price,
// discount within [0, price*quantity], non-negative total.
func (l LineItem) Validate() error {
	if l.Quantity.IsNegative() {
		return ErrInvalidLine
	}
	if l.UnitPrice.IsNegative() {
		return ErrInvalidLine
	}
	gross := l.UnitPrice.MulQuantity(l.Quantity)
	if l.Discount.IsNegative() || l.Discount.GreaterThan(gross) {
		return ErrInvalidLine
	}
	if l.Total().IsNegative() {
		return ErrInvalidLine
	}
	return nil
}

// SettlementEvent is one immutable payment or refund applied to a document.
// Events are append-only; a reversal is a new opposite-direction event,
// never an edit.
type SettlementEvent struct {
	ID         int64
	Kind       DocumentKind
	DocumentID int64
	Direction  EventDirection
	Amount     money.Money
	Method     string
	Reference  string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// PayableDocument is the uniform settlement view over invoices, return
// invoices, and payroll items. GrossPaid and GrossRefunded are derived by
// replaying the event log; they are never read back from storage.
type PayableDocument struct {
	ID           int64
	Kind         DocumentKind
	Number       string
	PartyName    string
	GrossPayable money.Money
	Lines        []LineItem

	GrossPaid     money.Money
	GrossRefunded money.Money
}

// NetPaid returns gross_paid - gross_refunded.
func (d PayableDocument) NetPaid() money.Money {
	return d.GrossPaid.Sub(d.GrossRefunded)
}

// Due returns gross_payable - net_paid.
func (d PayableDocument) Due() money.Money {
	return d.GrossPayable.Sub(d.NetPaid())
}

// Settled reports whether the document is fully paid.
func (d PayableDocument) Settled() bool {
	return d.Due().IsZero()
}
