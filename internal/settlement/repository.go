package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/platform/db"
)

// PgRepository provides PostgreSQL backed access to payable documents and
// the settlement event log. Document headers and lines are owned by the
// upstream ERP modules; this repository only reads them through the
// payable_documents / payable_lines views and appends to
// settlement_events.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// GetDocument loads a payable document header with its line items.
// Settlement totals are left zeroed; callers derive them via Replay.
func (r *PgRepository) GetDocument(ctx context.Context, kind DocumentKind, id int64) (PayableDocument, error) {
	query := `
		SELECT id, kind, number, party_name, gross_payable
		FROM payable_documents
		WHERE kind = $1 AND id = $2`

	var doc PayableDocument
	err := r.pool.QueryRow(ctx, query, string(kind), id).Scan(
		&doc.ID, &doc.Kind, &doc.Number, &doc.PartyName, &doc.GrossPayable,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return PayableDocument{}, ErrDocumentNotFound
	}
	if err != nil {
		return PayableDocument{}, fmt.Errorf("settlement: get document: %w", err)
	}

	lines, err := r.listLines(ctx, kind, id)
	if err != nil {
		return PayableDocument{}, err
	}
	doc.Lines = lines
	return doc, nil
}

func (r *PgRepository) listLines(ctx context.Context, kind DocumentKind, id int64) ([]LineItem, error) {
	query := `
		SELECT id, product_id, description, quantity, unit_price, discount, tax
		FROM payable_lines
		WHERE document_kind = $1 AND document_id = $2
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, string(kind), id)
	if err != nil {
		return nil, fmt.Errorf("settlement: list lines: %w", err)
	}
	defer rows.Close()

	var lines []LineItem
	for rows.Next() {
		var line LineItem
		if err := rows.Scan(
			&line.ID, &line.ProductID, &line.Description,
			&line.Quantity, &line.UnitPrice, &line.Discount, &line.Tax,
		); err != nil {
			return nil, fmt.Errorf("settlement: scan line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ListEvents returns the append-only settlement log for a document in
// insertion order.
func (r *PgRepository) ListEvents(ctx context.Context, kind DocumentKind, documentID int64) ([]SettlementEvent, error) {
	query := `
		SELECT id, document_kind, document_id, direction, amount, method, reference, occurred_at, created_at
		FROM settlement_events
		WHERE document_kind = $1 AND document_id = $2
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, string(kind), documentID)
	if err != nil {
		return nil, fmt.Errorf("settlement: list events: %w", err)
	}
	defer rows.Close()

	var events []SettlementEvent
	for rows.Next() {
		var ev SettlementEvent
		if err := rows.Scan(
			&ev.ID, &ev.Kind, &ev.DocumentID, &ev.Direction, &ev.Amount,
			&ev.Method, &ev.Reference, &ev.OccurredAt, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("settlement: scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// AppendEvent inserts one settlement event. Events are never updated or
// deleted; a reversal is a new opposite-direction event.
func (r *PgRepository) AppendEvent(ctx context.Context, event SettlementEvent) (SettlementEvent, error) {
	query := `
		INSERT INTO settlement_events (
			document_kind, document_id, direction, amount, method, reference, occurred_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at`

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			string(event.Kind),
			event.DocumentID,
			string(event.Direction),
			event.Amount,
			event.Method,
			event.Reference,
			event.OccurredAt,
		).Scan(&event.ID, &event.CreatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return SettlementEvent{}, ErrDuplicateReference
		}
		return SettlementEvent{}, fmt.Errorf("settlement: append event: %w", err)
	}
	return event, nil
}
