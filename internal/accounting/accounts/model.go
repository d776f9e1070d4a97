package accounts

// AccountType enumerates chart of accounts categories.
type AccountType string

const (
	TypeAsset     AccountType = "ASSET"
	TypeLiability AccountType = "LIABILITY"
	TypeEquity    AccountType = "EQUITY"
	TypeIncome    AccountType = "INCOME"
	TypeExpense   AccountType = "EXPENSE"
)

// Valid reports whether the type is a known category.
func (t AccountType) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeIncome, TypeExpense:
		return true
	}
	return false
}

// BalanceSide marks the natural balance side of an account type.
type BalanceSide string

const (
	DebitNormal  BalanceSide = "DEBIT"
	CreditNormal BalanceSide = "CREDIT"
)

// NormalSide returns the natural balance side: assets and expenses are
// debit-normal, liabilities, equity, and income are credit-normal.
func (t AccountType) NormalSide() BalanceSide {
	if t == TypeAsset || t == TypeExpense {
		return DebitNormal
	}
	return CreditNormal
}

// Account models one chart of accounts node. Balances are owned by the
// upstream posting system; this package only structures and aggregates
// them.
type Account struct {
	ID       int64
	Code     string
	Name     string
	Type     AccountType
	ParentID *int64
}
