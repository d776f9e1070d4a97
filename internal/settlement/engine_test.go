package settlement

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/meridian-erp/meridian-erp/internal/money"
	_ "github.com/meridian-erp/meridian-erp/testing"
)

func invoiceFixture(payable string) PayableDocument {
	return PayableDocument{
		ID:           1,
		Kind:         KindSalesInvoice,
		Number:       "SI-0001",
		GrossPayable: money.MustParse(payable),
	}
}

func payment(amount string) SettlementEvent {
	return SettlementEvent{Direction: DirectionPayment, Amount: money.MustParse(amount)}
}

func refund(amount string) SettlementEvent {
	return SettlementEvent{Direction: DirectionRefund, Amount: money.MustParse(amount)}
}

func TestApplyEventScenario(t *testing.T) {
	doc := invoiceFixture("1000")

	doc, err := ApplyEvent(doc, payment("600"))
	if err != nil {
		t.Fatalf("payment 600: %v", err)
	}
	if !doc.Due().Equal(money.FromInt(400)) {
		t.Fatalf("expected due 400 got %s", doc.Due())
	}

	if _, err := ApplyEvent(doc, payment("500")); !errors.Is(err, ErrExceedsPayable) {
		t.Fatalf("expected ErrExceedsPayable got %v", err)
	}
	if !doc.Due().Equal(money.FromInt(400)) {
		t.Fatalf("rejected payment must not change due, got %s", doc.Due())
	}

	doc, err = ApplyEvent(doc, refund("200"))
	if err != nil {
		t.Fatalf("refund 200: %v", err)
	}
	if !doc.NetPaid().Equal(money.FromInt(400)) {
		t.Fatalf("expected net paid 400 got %s", doc.NetPaid())
	}
	if !doc.Due().Equal(money.FromInt(600)) {
		t.Fatalf("expected due 600 got %s", doc.Due())
	}

	if _, err := ApplyEvent(doc, refund("500")); !errors.Is(err, ErrExceedsRefundable) {
		t.Fatalf("expected ErrExceedsRefundable got %v", err)
	}
}

func TestApplyEventRejectsNonPositiveAmounts(t *testing.T) {
	doc := invoiceFixture("100")
	for _, amount := range []string{"0", "-1", "-0.01"} {
		if _, err := ApplyEvent(doc, payment(amount)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("payment %s: expected ErrInvalidAmount got %v", amount, err)
		}
		if _, err := ApplyEvent(doc, refund(amount)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("refund %s: expected ErrInvalidAmount got %v", amount, err)
		}
	}
	if !doc.GrossPaid.IsZero() || !doc.GrossRefunded.IsZero() {
		t.Fatalf("rejected events must not mutate the document")
	}
}

func TestPaymentRefundRoundTrip(t *testing.T) {
	original := invoiceFixture("250.75")

	doc, err := ApplyEvent(original, payment("100.25"))
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	doc, err = ApplyEvent(doc, refund("100.25"))
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if !doc.Due().Equal(original.Due()) {
		t.Fatalf("round trip due mismatch: %s vs %s", doc.Due(), original.Due())
	}
	if !doc.NetPaid().Equal(original.NetPaid()) {
		t.Fatalf("round trip net paid mismatch: %s vs %s", doc.NetPaid(), original.NetPaid())
	}
}

func TestRefundCappedByCollectedNetOfPriorRefunds(t *testing.T) {
	doc := invoiceFixture("1000")
	var err error
	doc, err = ApplyEvent(doc, payment("300"))
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	doc, err = ApplyEvent(doc, refund("200"))
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	// Only 100 remains collected; refunding 150 would drive net below zero.
	if _, err := ApplyEvent(doc, refund("150")); !errors.Is(err, ErrExceedsRefundable) {
		t.Fatalf("expected ErrExceedsRefundable got %v", err)
	}
}

func TestRefundBeforeAnyPaymentRejected(t *testing.T) {
	doc := invoiceFixture("1000")
	if _, err := ApplyEvent(doc, refund("1")); !errors.Is(err, ErrExceedsRefundable) {
		t.Fatalf("expected ErrExceedsRefundable got %v", err)
	}
}

func TestReplayIsIdempotent(t *testing.T) {
	doc := invoiceFixture("1000")
	log := []SettlementEvent{payment("600"), refund("100"), payment("400")}

	first, err := Replay(doc, log)
	if err != nil {
		t.Fatalf("first replay: %v", err)
	}
	second, err := Replay(first, log)
	if err != nil {
		t.Fatalf("second replay: %v", err)
	}
	if !first.Due().Equal(second.Due()) || !first.NetPaid().Equal(second.NetPaid()) {
		t.Fatalf("replay not idempotent: due %s vs %s", first.Due(), second.Due())
	}
	if !second.Due().Equal(money.FromInt(100)) {
		t.Fatalf("expected due 100 got %s", second.Due())
	}
}

func TestReplayRejectsInvalidHistory(t *testing.T) {
	doc := invoiceFixture("100")
	if _, err := Replay(doc, []SettlementEvent{refund("50"), payment("50")}); !errors.Is(err, ErrExceedsRefundable) {
		t.Fatalf("expected ErrExceedsRefundable got %v", err)
	}
}

func TestDueInvariantHoldsAcrossValidSequences(t *testing.T) {
	doc := invoiceFixture("1000")
	log := []SettlementEvent{
		payment("250.50"), payment("249.50"), refund("100"),
		payment("300"), refund("0.01"),
	}
	out, err := Replay(doc, log)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	want := out.GrossPayable.Sub(out.GrossPaid.Sub(out.GrossRefunded))
	if !out.Due().Equal(want) {
		t.Fatalf("due invariant broken: %s vs %s", out.Due(), want)
	}
	if out.Due().IsNegative() || out.Due().GreaterThan(out.GrossPayable) {
		t.Fatalf("due out of bounds: %s", out.Due())
	}
}

func TestApplyEventRejectsForeignEvent(t *testing.T) {
	doc := invoiceFixture("100")
	event := payment("10")
	event.DocumentID = 99
	if _, err := ApplyEvent(doc, event); !errors.Is(err, ErrEventMismatch) {
		t.Fatalf("expected ErrEventMismatch got %v", err)
	}
}

func TestLineItemValidation(t *testing.T) {
	ok := LineItem{
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: money.MustParse("10"),
		Discount:  money.MustParse("5"),
		Tax:       money.MustParse("1.50"),
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid line rejected: %v", err)
	}
	if !ok.Total().Equal(money.MustParse("16.50")) {
		t.Fatalf("expected total 16.50 got %s", ok.Total())
	}

	bad := ok
	bad.Discount = money.MustParse("25")
	if err := bad.Validate(); !errors.Is(err, ErrInvalidLine) {
		t.Fatalf("discount above gross must be rejected, got %v", err)
	}

	bad = ok
	bad.Quantity = decimal.NewFromInt(-1)
	if err := bad.Validate(); !errors.Is(err, ErrInvalidLine) {
		t.Fatalf("negative quantity must be rejected, got %v", err)
	}
}
