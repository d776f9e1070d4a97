package accounts

import (
	"errors"
	"testing"

	"github.com/meridian-erp/meridian-erp/internal/money"
	_ "github.com/meridian-erp/meridian-erp/testing"
)

func ptr(v int64) *int64 { return &v }

func TestBuildTreeRollsUpThreeLevels(t *testing.T) {
	tree, err := BuildTree([]Account{
		{ID: 1, Code: "1000", Name: "Assets", Type: TypeAsset},
		{ID: 2, Code: "1100", Name: "Current Assets", Type: TypeAsset, ParentID: ptr(1)},
		{ID: 3, Code: "1110", Name: "Cash", Type: TypeAsset, ParentID: ptr(2)},
	})
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}

	// Leaf balance only on the grandchild; both ancestors must see it.
	balances := map[int64]money.Money{3: money.MustParse("125.50")}
	for _, id := range []int64{1, 2, 3} {
		got, err := tree.RollupBalance(id, balances)
		if err != nil {
			t.Fatalf("rollup %d: %v", id, err)
		}
		if !got.Equal(money.MustParse("125.50")) {
			t.Fatalf("account %d: expected 125.50 got %s", id, got)
		}
	}
}

func TestRollupAddsOwnAndChildBalances(t *testing.T) {
	tree, err := BuildTree([]Account{
		{ID: 1, Code: "1000", Name: "Assets", Type: TypeAsset},
		{ID: 2, Code: "1100", Name: "Cash", Type: TypeAsset, ParentID: ptr(1)},
		{ID: 3, Code: "1200", Name: "Bank", Type: TypeAsset, ParentID: ptr(1)},
	})
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	balances := map[int64]money.Money{
		1: money.FromInt(5),
		2: money.FromInt(70),
		3: money.FromInt(25),
	}
	got, err := tree.RollupBalance(1, balances)
	if err != nil {
		t.Fatalf("rollup: %v", err)
	}
	if !got.Equal(money.FromInt(100)) {
		t.Fatalf("expected 100 got %s", got)
	}
}

func TestBuildTreeRejectsCycle(t *testing.T) {
	_, err := BuildTree([]Account{
		{ID: 1, Code: "1000", Type: TypeAsset, ParentID: ptr(2)},
		{ID: 2, Code: "1100", Type: TypeAsset, ParentID: ptr(1)},
	})
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected got %v", err)
	}
}

func TestBuildTreeRejectsSelfParent(t *testing.T) {
	_, err := BuildTree([]Account{
		{ID: 1, Code: "1000", Type: TypeAsset, ParentID: ptr(1)},
	})
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected got %v", err)
	}
}

func TestBuildTreeRejectsOrphanParent(t *testing.T) {
	_, err := BuildTree([]Account{
		{ID: 1, Code: "1000", Type: TypeAsset, ParentID: ptr(99)},
	})
	if !errors.Is(err, ErrOrphanParent) {
		t.Fatalf("expected ErrOrphanParent got %v", err)
	}
}

func TestBuildTreeRejectsDuplicateID(t *testing.T) {
	_, err := BuildTree([]Account{
		{ID: 1, Code: "1000", Type: TypeAsset},
		{ID: 1, Code: "2000", Type: TypeLiability},
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID got %v", err)
	}
}

func TestWalkVisitsParentsBeforeChildrenInCodeOrder(t *testing.T) {
	tree, err := BuildTree([]Account{
		{ID: 3, Code: "2000", Name: "Liabilities", Type: TypeLiability},
		{ID: 1, Code: "1000", Name: "Assets", Type: TypeAsset},
		{ID: 2, Code: "1100", Name: "Cash", Type: TypeAsset, ParentID: ptr(1)},
	})
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	var codes []string
	tree.Walk(func(n *Node) { codes = append(codes, n.Code) })
	want := []string{"1000", "1100", "2000"}
	if len(codes) != len(want) {
		t.Fatalf("expected %d nodes got %d", len(want), len(codes))
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("walk order %v, want %v", codes, want)
		}
	}
}

func TestNormalSide(t *testing.T) {
	cases := map[AccountType]BalanceSide{
		TypeAsset:     DebitNormal,
		TypeExpense:   DebitNormal,
		TypeLiability: CreditNormal,
		TypeEquity:    CreditNormal,
		TypeIncome:    CreditNormal,
	}
	for typ, want := range cases {
		if got := typ.NormalSide(); got != want {
			t.Fatalf("%s: expected %s got %s", typ, want, got)
		}
	}
}
