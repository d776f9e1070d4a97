package settlement

import (
	"time"

	"github.com/meridian-erp/meridian-erp/internal/money"
)

// recordEventRequest is the JSON body for payment/refund recording.
type recordEventRequest struct {
	Amount     string `json:"amount" validate:"required"`
	Method     string `json:"method" validate:"required,max=64"`
	Reference  string `json:"reference" validate:"omitempty,max=128"`
	OccurredAt string `json:"occurred_at" validate:"omitempty"`
}

// DocumentView is the serializable settlement picture of one document.
// Every screen rendering Paid / Due / Refunded reads these fields.
type DocumentView struct {
	ID            int64          `json:"id"`
	Kind          DocumentKind   `json:"kind"`
	Number        string         `json:"number"`
	PartyName     string         `json:"party_name,omitempty"`
	GrossPayable  money.Money    `json:"gross_payable"`
	GrossPaid     money.Money    `json:"gross_paid"`
	GrossRefunded money.Money    `json:"gross_refunded"`
	NetPaid       money.Money    `json:"net_paid"`
	Due           money.Money    `json:"due"`
	Settled       bool           `json:"settled"`
	Lines         []LineItemView `json:"lines,omitempty"`
}

// LineItemView serializes one document line with its derived total.
type LineItemView struct {
	ID          int64       `json:"id"`
	ProductID   int64       `json:"product_id"`
	Description string      `json:"description"`
	Quantity    string      `json:"quantity"`
	UnitPrice   money.Money `json:"unit_price"`
	Discount    money.Money `json:"discount"`
	Tax         money.Money `json:"tax"`
	Total       money.Money `json:"total"`
}

// EventView serializes one settlement event.
type EventView struct {
	ID         int64          `json:"id"`
	Direction  EventDirection `json:"direction"`
	Amount     money.Money    `json:"amount"`
	Method     string         `json:"method"`
	Reference  string         `json:"reference"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// StateView combines the document view with its event history.
type StateView struct {
	Document DocumentView `json:"document"`
	Events   []EventView  `json:"events"`
}

// NewStateView builds the response model from a replayed state.
func NewStateView(state SettlementState) StateView {
	doc := state.Document
	view := StateView{
		Document: DocumentView{
			ID:            doc.ID,
			Kind:          doc.Kind,
			Number:        doc.Number,
			PartyName:     doc.PartyName,
			GrossPayable:  doc.GrossPayable,
			GrossPaid:     doc.GrossPaid,
			GrossRefunded: doc.GrossRefunded,
			NetPaid:       doc.NetPaid(),
			Due:           doc.Due(),
			Settled:       doc.Settled(),
		},
	}
	for _, line := range doc.Lines {
		view.Document.Lines = append(view.Document.Lines, LineItemView{
			ID:          line.ID,
			ProductID:   line.ProductID,
			Description: line.Description,
			Quantity:    line.Quantity.String(),
			UnitPrice:   line.UnitPrice,
			Discount:    line.Discount,
			Tax:         line.Tax,
			Total:       line.Total(),
		})
	}
	for _, ev := range state.Events {
		view.Events = append(view.Events, EventView{
			ID:         ev.ID,
			Direction:  ev.Direction,
			Amount:     ev.Amount,
			Method:     ev.Method,
			Reference:  ev.Reference,
			OccurredAt: ev.OccurredAt,
		})
	}
	return view
}
