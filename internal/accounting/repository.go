package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/accounting/accounts"
	"github.com/meridian-erp/meridian-erp/internal/money"
)

// PgRepository reads the chart of accounts and posted balances from
// PostgreSQL. Both tables are written by the upstream posting system; this
// side only queries them.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// ListAccounts returns the flat chart of accounts ordered by code.
func (r *PgRepository) ListAccounts(ctx context.Context) ([]accounts.Account, error) {
	query := `
		SELECT id, code, name, type, parent_id
		FROM accounts
		ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("accounting: list accounts: %w", err)
	}
	defer rows.Close()

	var list []accounts.Account
	for rows.Next() {
		var acc accounts.Account
		if err := rows.Scan(&acc.ID, &acc.Code, &acc.Name, &acc.Type, &acc.ParentID); err != nil {
			return nil, fmt.Errorf("accounting: scan account: %w", err)
		}
		list = append(list, acc)
	}
	return list, rows.Err()
}

// LeafBalances returns per-account posted balances as of a date, expressed
// on each account's natural side.
func (r *PgRepository) LeafBalances(ctx context.Context, asOf time.Time) (map[int64]money.Money, error) {
	query := `
		SELECT account_id, balance
		FROM account_balances
		WHERE as_of <= $1`

	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("accounting: leaf balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[int64]money.Money)
	for rows.Next() {
		var id int64
		var amount money.Money
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("accounting: scan balance: %w", err)
		}
		balances[id] = balances[id].Add(amount)
	}
	return balances, rows.Err()
}
