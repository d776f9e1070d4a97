package settlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-erp/meridian-erp/internal/money"
)

// Repository defines data access for payable documents and their
// append-only settlement event log.
type Repository interface {
	GetDocument(ctx context.Context, kind DocumentKind, id int64) (PayableDocument, error)
	ListEvents(ctx context.Context, kind DocumentKind, documentID int64) ([]SettlementEvent, error)
	AppendEvent(ctx context.Context, event SettlementEvent) (SettlementEvent, error)
}

// docLocks serializes settlements per document. The over-payment and
// over-refund checks are only correct against a non-stale snapshot of the
// event log, so at most one settlement per document may be in flight.
type docLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDocLocks() *docLocks {
	return &docLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *docLocks) lock(kind DocumentKind, id int64) func() {
	key := fmt.Sprintf("%s:%d", kind, id)
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// Service coordinates settlement recording: load a consistent snapshot,
// replay history, validate the candidate event through the engine, then
// append it.
type Service struct {
	repo  Repository
	locks *docLocks
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, locks: newDocLocks()}
}

// SettlementState is the document together with its replayed event history
// and the derived figures every screen must agree on.
type SettlementState struct {
	Document PayableDocument
	Events   []SettlementEvent
}

// GetState loads a document and replays its full event log.
func (s *Service) GetState(ctx context.Context, kind DocumentKind, id int64) (SettlementState, error) {
	if !kind.Valid() {
		return SettlementState{}, ErrUnknownKind
	}
	doc, err := s.repo.GetDocument(ctx, kind, id)
	if err != nil {
		return SettlementState{}, err
	}
	events, err := s.repo.ListEvents(ctx, kind, id)
	if err != nil {
		return SettlementState{}, err
	}
	doc, err = Replay(doc, events)
	if err != nil {
		return SettlementState{}, fmt.Errorf("replay %s/%d: %w", kind, id, err)
	}
	return SettlementState{Document: doc, Events: events}, nil
}

// RecordEventInput describes a payment or refund to append.
type RecordEventInput struct {
	Kind       DocumentKind
	DocumentID int64
	Direction  EventDirection
	Amount     money.Money
	Method     string
	Reference  string
	OccurredAt time.Time
}

// RecordEvent validates and appends one settlement event, returning the
// recomputed document and the persisted event.
func (s *Service) RecordEvent(ctx context.Context, input RecordEventInput) (SettlementState, error) {
	if !input.Kind.Valid() {
		return SettlementState{}, ErrUnknownKind
	}
	if !input.Direction.Valid() {
		return SettlementState{}, ErrUnknownDirection
	}

	unlock := s.locks.lock(input.Kind, input.DocumentID)
	defer unlock()

	state, err := s.GetState(ctx, input.Kind, input.DocumentID)
	if err != nil {
		return SettlementState{}, err
	}

	event := SettlementEvent{
		Kind:       input.Kind,
		DocumentID: input.DocumentID,
		Direction:  input.Direction,
		Amount:     input.Amount,
		Method:     input.Method,
		Reference:  input.Reference,
		OccurredAt: input.OccurredAt,
	}
	if event.Reference == "" {
		event.Reference = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	doc, err := ApplyEvent(state.Document, event)
	if err != nil {
		return SettlementState{}, err
	}

	persisted, err := s.repo.AppendEvent(ctx, event)
	if err != nil {
		return SettlementState{}, err
	}

	return SettlementState{Document: doc, Events: append(state.Events, persisted)}, nil
}

// RecordPayment appends a PAYMENT event.
func (s *Service) RecordPayment(ctx context.Context, input RecordEventInput) (SettlementState, error) {
	input.Direction = DirectionPayment
	return s.RecordEvent(ctx, input)
}

// RecordRefund appends a REFUND event.
func (s *Service) RecordRefund(ctx context.Context, input RecordEventInput) (SettlementState, error) {
	input.Direction = DirectionRefund
	return s.RecordEvent(ctx, input)
}
