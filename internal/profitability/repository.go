package profitability

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository reads sold line items joined with product costs from
// PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// ListSalesLines returns sold lines inside the period with unit costs.
func (r *PgRepository) ListSalesLines(ctx context.Context, period DateRange) ([]SalesLine, error) {
	query := `
		SELECT product_id, product_name, quantity, unit_price, discount, unit_cost, sold_at
		FROM sales_lines
		WHERE sold_at >= $1 AND sold_at < $2
		ORDER BY sold_at, product_id`

	rows, err := r.pool.Query(ctx, query, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("profitability: list sales lines: %w", err)
	}
	defer rows.Close()

	var lines []SalesLine
	for rows.Next() {
		var line SalesLine
		if err := rows.Scan(
			&line.ProductID, &line.ProductName, &line.Quantity,
			&line.UnitPrice, &line.Discount, &line.UnitCost, &line.SoldAt,
		); err != nil {
			return nil, fmt.Errorf("profitability: scan sales line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
