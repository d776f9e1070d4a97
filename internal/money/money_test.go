package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestArithmeticIsExact(t *testing.T) {
	// 0.1 + 0.2 is the classic float trap; it must be exactly 0.3 here.
	sum := MustParse("0.1").Add(MustParse("0.2"))
	if !sum.Equal(MustParse("0.3")) {
		t.Fatalf("expected 0.3 got %s", sum)
	}

	total := Zero()
	for i := 0; i < 1000; i++ {
		total = total.Add(MustParse("0.01"))
	}
	if !total.Equal(FromInt(10)) {
		t.Fatalf("expected 10 after 1000 cents, got %s", total)
	}
}

func TestFromCents(t *testing.T) {
	if got := FromCents(1234); !got.Equal(MustParse("12.34")) {
		t.Fatalf("expected 12.34 got %s", got)
	}
	if !MinorUnit().Equal(FromCents(1)) {
		t.Fatalf("minor unit should be one cent, got %s", MinorUnit())
	}
}

func TestComparisons(t *testing.T) {
	a := MustParse("10.50")
	b := MustParse("10.5")
	if !a.Equal(b) {
		t.Fatalf("trailing zeros must not affect equality")
	}
	if !MustParse("-1").IsNegative() || !MustParse("1").IsPositive() || !Zero().IsZero() {
		t.Fatalf("sign predicates broken")
	}
	if MustParse("2").Cmp(MustParse("3")) != -1 {
		t.Fatalf("cmp ordering broken")
	}
}

func TestMulQuantity(t *testing.T) {
	price := MustParse("9.99")
	got := price.MulQuantity(decimal.NewFromInt(3))
	if !got.Equal(MustParse("29.97")) {
		t.Fatalf("expected 29.97 got %s", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(MustParse("1234.56"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"1234.56"` {
		t.Fatalf("expected quoted string, got %s", raw)
	}
	var back Money
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(MustParse("1234.56")) {
		t.Fatalf("round trip mismatch: %s", back)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("12,34"); err == nil {
		t.Fatalf("expected parse failure")
	}
}

func TestSum(t *testing.T) {
	got := Sum(MustParse("1.10"), MustParse("2.20"), MustParse("-0.30"))
	if !got.Equal(MustParse("3.00")) {
		t.Fatalf("expected 3.00 got %s", got)
	}
}
