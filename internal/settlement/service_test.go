package settlement

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/money"
	_ "github.com/meridian-erp/meridian-erp/testing"
)

type memoryRepo struct {
	mu        sync.Mutex
	documents map[int64]PayableDocument
	events    map[int64][]SettlementEvent
	refs      map[string]bool
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		documents: make(map[int64]PayableDocument),
		events:    make(map[int64][]SettlementEvent),
		refs:      make(map[string]bool),
	}
}

func (r *memoryRepo) GetDocument(ctx context.Context, kind DocumentKind, id int64) (PayableDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.documents[id]
	if !ok || doc.Kind != kind {
		return PayableDocument{}, ErrDocumentNotFound
	}
	return doc, nil
}

func (r *memoryRepo) ListEvents(ctx context.Context, kind DocumentKind, documentID int64) ([]SettlementEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SettlementEvent(nil), r.events[documentID]...), nil
}

func (r *memoryRepo) AppendEvent(ctx context.Context, event SettlementEvent) (SettlementEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(event.Kind) + ":" + event.Reference
	if r.refs[key] {
		return SettlementEvent{}, ErrDuplicateReference
	}
	r.refs[key] = true
	r.nextID++
	event.ID = r.nextID
	r.events[event.DocumentID] = append(r.events[event.DocumentID], event)
	return event, nil
}

func newServiceFixture(t *testing.T, payable string) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	repo.documents[1] = PayableDocument{
		ID:           1,
		Kind:         KindSalesInvoice,
		Number:       "SI-0001",
		GrossPayable: money.MustParse(payable),
	}
	return NewService(repo), repo
}

func TestServiceRecordPaymentAndRefund(t *testing.T) {
	svc, _ := newServiceFixture(t, "1000")
	ctx := context.Background()

	state, err := svc.RecordPayment(ctx, RecordEventInput{
		Kind: KindSalesInvoice, DocumentID: 1,
		Amount: money.FromInt(600), Method: "BANK_TRANSFER",
	})
	require.NoError(t, err)
	require.True(t, state.Document.Due().Equal(money.FromInt(400)))
	require.Len(t, state.Events, 1)
	require.NotEmpty(t, state.Events[0].Reference, "reference must be generated")
	require.False(t, state.Events[0].OccurredAt.IsZero())

	_, err = svc.RecordPayment(ctx, RecordEventInput{
		Kind: KindSalesInvoice, DocumentID: 1,
		Amount: money.FromInt(500), Method: "BANK_TRANSFER",
	})
	require.ErrorIs(t, err, ErrExceedsPayable)

	state, err = svc.GetState(ctx, KindSalesInvoice, 1)
	require.NoError(t, err)
	require.True(t, state.Document.Due().Equal(money.FromInt(400)), "rejected payment must not persist")

	state, err = svc.RecordRefund(ctx, RecordEventInput{
		Kind: KindSalesInvoice, DocumentID: 1,
		Amount: money.FromInt(200), Method: "BANK_TRANSFER",
	})
	require.NoError(t, err)
	require.True(t, state.Document.NetPaid().Equal(money.FromInt(400)))
	require.True(t, state.Document.Due().Equal(money.FromInt(600)))

	_, err = svc.RecordRefund(ctx, RecordEventInput{
		Kind: KindSalesInvoice, DocumentID: 1,
		Amount: money.FromInt(500), Method: "BANK_TRANSFER",
	})
	require.ErrorIs(t, err, ErrExceedsRefundable)
}

func TestServiceRejectsUnknownKind(t *testing.T) {
	svc, _ := newServiceFixture(t, "100")
	_, err := svc.GetState(context.Background(), DocumentKind("GIFT_CARD"), 1)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestServiceDocumentNotFound(t *testing.T) {
	svc, _ := newServiceFixture(t, "100")
	_, err := svc.GetState(context.Background(), KindPayrollItem, 42)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestServiceDuplicateReference(t *testing.T) {
	svc, _ := newServiceFixture(t, "1000")
	ctx := context.Background()

	input := RecordEventInput{
		Kind: KindSalesInvoice, DocumentID: 1,
		Amount: money.FromInt(100), Method: "CASH", Reference: "rcpt-1",
	}
	_, err := svc.RecordPayment(ctx, input)
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, input)
	require.ErrorIs(t, err, ErrDuplicateReference)
}

func TestServiceSerializesConcurrentSettlements(t *testing.T) {
	svc, _ := newServiceFixture(t, "1000")
	ctx := context.Background()

	// 20 concurrent 100-unit payments against a 1000 payable: exactly ten
	// may land, the rest must fail ErrExceedsPayable, and the final due is 0.
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordPayment(ctx, RecordEventInput{
				Kind: KindSalesInvoice, DocumentID: 1,
				Amount: money.FromInt(100), Method: "CASH",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	accepted, rejected := 0, 0
	for err := range errs {
		if err == nil {
			accepted++
			continue
		}
		require.ErrorIs(t, err, ErrExceedsPayable)
		rejected++
	}
	require.Equal(t, 10, accepted)
	require.Equal(t, 10, rejected)

	state, err := svc.GetState(ctx, KindSalesInvoice, 1)
	require.NoError(t, err)
	require.True(t, state.Document.Due().IsZero())
}

func TestServicePayrollItemSettlesLikeInvoice(t *testing.T) {
	repo := newMemoryRepo()
	repo.documents[7] = PayableDocument{
		ID: 7, Kind: KindPayrollItem, Number: "PR-2026-08-007",
		GrossPayable: money.MustParse("2500.00"),
	}
	svc := NewService(repo)

	state, err := svc.RecordPayment(context.Background(), RecordEventInput{
		Kind: KindPayrollItem, DocumentID: 7,
		Amount: money.MustParse("2500.00"), Method: "BANK_TRANSFER",
	})
	require.NoError(t, err)
	require.True(t, state.Document.Settled())
}
