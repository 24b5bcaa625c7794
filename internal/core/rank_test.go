package core

import "testing"

func ids(debts []DebtInstrument) []string {
	out := make([]string, len(debts))
	for i, d := range debts {
		switch v := d.(type) {
		case CreditCard:
			out[i] = v.ID
		case Overdraft:
			out[i] = v.ID
		}
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRankDescendingCost(t *testing.T) {
	cheap := testCard()
	cheap.ID = "cheap"
	cheap.InterestRate = 5

	od := testOverdraft()

	pricey := testCard()
	pricey.ID = "pricey"
	pricey.InterestRate = 29.99

	ranked := Rank([]DebtInstrument{cheap, od, pricey})
	want := []string{"pricey", "od-1", "cheap"}
	if got := ids(ranked); !equalIDs(got, want) {
		t.Fatalf("Rank() = %v, want %v", got, want)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].Cost() < ranked[i].Cost() {
			t.Fatalf("position %d costs less than position %d", i-1, i)
		}
	}
}

func TestRankKeepsEqualCostOrder(t *testing.T) {
	a, b, c := testCard(), testCard(), testCard()
	a.ID, b.ID, c.ID = "a", "b", "c"

	got := ids(Rank([]DebtInstrument{b, c, a}))
	if want := []string{"b", "c", "a"}; !equalIDs(got, want) {
		t.Fatalf("Rank() = %v, want %v", got, want)
	}
}

func TestRankHigherInterestLowerFee(t *testing.T) {
	// 20% with a 111.00 fee costs more per month than 21% with a 100.00 fee.
	one := testCard()
	one.ID = "one"
	one.AnnualFee = Money{Cents: 11100}

	two := testCard()
	two.ID = "two"
	two.InterestRate = 21

	for _, in := range [][]DebtInstrument{{one, two}, {two, one}} {
		if got := ids(Rank(in)); !equalIDs(got, []string{"one", "two"}) {
			t.Fatalf("Rank(%v) = %v, want [one two]", ids(in), got)
		}
	}
}

func TestRankIdempotentAndPreservesInput(t *testing.T) {
	a := testCard()
	a.ID = "a"
	b := testOverdraft()
	b.ID = "b"
	c := testCard()
	c.ID = "c"
	c.Balance = Money{Cents: 500000}
	d := testOverdraft()
	d.ID = "d"
	d.MonthlyFee = Money{}

	in := []DebtInstrument{a, b, c, d}
	once := Rank(in)
	twice := Rank(once)
	if !equalIDs(ids(once), ids(twice)) {
		t.Fatalf("Rank not idempotent: %v vs %v", ids(once), ids(twice))
	}
	if !equalIDs(ids(in), []string{"a", "b", "c", "d"}) {
		t.Fatalf("Rank modified its input: %v", ids(in))
	}

	seen := map[string]int{}
	for _, id := range ids(once) {
		seen[id]++
	}
	for _, id := range ids(in) {
		if seen[id] != 1 {
			t.Fatalf("debt %q appears %d times after ranking", id, seen[id])
		}
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Fatalf("Rank(nil) = %v, want empty", got)
	}
}

func TestPayoffOrder(t *testing.T) {
	t.Run("higher interest rate first", func(t *testing.T) {
		one := testCard()
		one.ID = "one"
		two := testCard()
		two.ID = "two"
		two.InterestRate = 20.1

		got := ids(PayoffOrder(nil, []CreditCard{one, two}))
		if want := []string{"two", "one"}; !equalIDs(got, want) {
			t.Fatalf("PayoffOrder() = %v, want %v", got, want)
		}
	})

	t.Run("monthly fee outweighs annual fee", func(t *testing.T) {
		card := testCard()
		od := testOverdraft()
		got := ids(PayoffOrder([]Overdraft{od}, []CreditCard{card}))
		if want := []string{"od-1", "card-1"}; !equalIDs(got, want) {
			t.Fatalf("PayoffOrder() = %v, want %v", got, want)
		}
	})

	t.Run("card before cheaper overdraft", func(t *testing.T) {
		card := testCard()
		od := testOverdraft()
		od.InterestRate = 21
		od.MonthlyFee = Money{Cents: 500}
		got := ids(PayoffOrder([]Overdraft{od}, []CreditCard{card}))
		if want := []string{"card-1", "od-1"}; !equalIDs(got, want) {
			t.Fatalf("PayoffOrder() = %v, want %v", got, want)
		}
	})

	t.Run("equal cost falls back to interest rate then fee", func(t *testing.T) {
		interest := CreditCard{ID: "interest", Name: "i", InterestRate: 12, Balance: Money{Cents: 100000}}
		fee := CreditCard{ID: "fee", Name: "f", AnnualFee: Money{Cents: 12000}}
		feeHigh := CreditCard{ID: "fee-high", Name: "g", AnnualFee: Money{Cents: 12000}, Balance: Money{}}
		if interest.Cost() != fee.Cost() {
			t.Fatalf("test setup: costs differ %v vs %v", interest.Cost(), fee.Cost())
		}
		got := ids(PayoffOrder(nil, []CreditCard{interest, feeHigh, fee}))
		if want := []string{"fee-high", "fee", "interest"}; !equalIDs(got, want) {
			t.Fatalf("PayoffOrder() = %v, want %v", got, want)
		}
	})

	t.Run("overdrafts by monthly fee", func(t *testing.T) {
		a := Overdraft{ID: "a", Name: "a", MonthlyFee: Money{Cents: 500}}
		b := Overdraft{ID: "b", Name: "b", MonthlyFee: Money{Cents: 500}}
		got := ids(PayoffOrder([]Overdraft{b, a}, nil))
		if want := []string{"b", "a"}; !equalIDs(got, want) {
			t.Fatalf("PayoffOrder() = %v, want %v", got, want)
		}
	})
}
