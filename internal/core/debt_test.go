package core

import (
	"math"
	"testing"
)

// testCard is the card used across the payoff scenarios: 1000.00 at 20%,
// 10.00 minimum, 10% of the balance by default and a 100.00 annual fee.
func testCard() CreditCard {
	return CreditCard{
		ID:                "card-1",
		Name:              "One",
		InterestRate:      20.0,
		Balance:           Money{Cents: 100000},
		MinPayment:        Money{Cents: 1000},
		MinPaymentPercent: 0.10,
		AnnualFee:         Money{Cents: 10000},
	}
}

func testOverdraft() Overdraft {
	return Overdraft{
		ID:           "od-1",
		Name:         "Over",
		InterestRate: 20.0,
		Balance:      Money{Cents: 100000},
		MonthlyFee:   Money{Cents: 900},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCreditCardCost(t *testing.T) {
	card := testCard()
	// 100000 * 20 / 1200 + 10000 / 12
	want := 100000.0*20/1200 + 10000.0/12
	if got := card.Cost(); !almostEqual(got, want) {
		t.Fatalf("Cost() = %v, want %v", got, want)
	}
}

func TestOverdraftCost(t *testing.T) {
	od := testOverdraft()
	want := 100000.0*20/1200 + 900
	if got := od.Cost(); !almostEqual(got, want) {
		t.Fatalf("Cost() = %v, want %v", got, want)
	}
}

func TestCreditCardTimeline(t *testing.T) {
	tl := testCard().Timeline(19000)
	if tl.NumMonths != 7 {
		t.Fatalf("NumMonths = %d, want 7", tl.NumMonths)
	}
	if len(tl.DebtPerMonth) != tl.NumMonths {
		t.Fatalf("len(DebtPerMonth) = %d, want %d", len(tl.DebtPerMonth), tl.NumMonths)
	}
	if !almostEqual(tl.DebtPerMonth[0], 92666.66666666667) {
		t.Errorf("first month balance = %v", tl.DebtPerMonth[0])
	}
	if last := tl.DebtPerMonth[len(tl.DebtPerMonth)-1]; last > 1e-9 {
		t.Errorf("last balance = %v, want <= 0", last)
	}
	// Everything paid is the balance plus interest plus the one annual fee.
	if !almostEqual(tl.TotalPaid, 100000+10000+tl.TotalInterestPaid) {
		t.Errorf("TotalPaid = %v, interest = %v", tl.TotalPaid, tl.TotalInterestPaid)
	}
}

func TestCreditCardTimelineBalancesShrink(t *testing.T) {
	tl := testCard().Timeline(19000)
	prev := float64(testCard().Balance.Cents) + 10000
	for i, b := range tl.DebtPerMonth {
		if b < 0 {
			t.Fatalf("month %d: negative balance %v", i, b)
		}
		if b >= prev {
			t.Fatalf("month %d: balance %v did not shrink from %v", i, b, prev)
		}
		prev = b
	}
}

func TestCreditCardTimelineBelowMinimum(t *testing.T) {
	card := testCard()
	for _, payment := range []float64{999, 0, -500} {
		tl := card.Timeline(payment)
		if tl.NumMonths != NonConvergent {
			t.Fatalf("payment %v: NumMonths = %d, want %d", payment, tl.NumMonths, NonConvergent)
		}
		if len(tl.DebtPerMonth) != 0 || tl.TotalPaid != 0 || tl.TotalInterestPaid != 0 {
			t.Fatalf("payment %v: expected empty accumulators, got %+v", payment, tl)
		}
	}

	card.MinPayment = Money{Cents: 20000}
	if tl := card.Timeline(20000); !tl.Converges() {
		t.Fatalf("a payment equal to the floor must be simulated")
	}
}

func TestCreditCardTimelineNeverPaysOff(t *testing.T) {
	// The minimum payment covers less than the monthly interest.
	card := testCard()
	card.InterestRate = 30
	card.MinPayment = Money{Cents: 100}
	tl := card.Timeline(100)
	if tl.Converges() {
		t.Fatalf("expected non-convergent timeline, got %d months", tl.NumMonths)
	}
}

func TestCreditCardMinimumTimeline(t *testing.T) {
	tl := testCard().MinimumTimeline()
	if tl.NumMonths != 108 {
		t.Fatalf("NumMonths = %d, want 108", tl.NumMonths)
	}
	if !almostEqual(tl.DebtPerMonth[0], 100500) {
		t.Errorf("first month balance = %v, want 100500", tl.DebtPerMonth[0])
	}
}

func TestCreditCardZeroBalance(t *testing.T) {
	card := testCard()
	card.Balance = Money{}
	tl := card.Timeline(19000)
	if tl.NumMonths != 0 || len(tl.DebtPerMonth) != 0 {
		t.Fatalf("expected an empty timeline, got %+v", tl)
	}
}

func TestOverdraftTimeline(t *testing.T) {
	tl := testOverdraft().Timeline(99000)
	if tl.NumMonths != 2 {
		t.Fatalf("NumMonths = %d, want 2", tl.NumMonths)
	}
	if !almostEqual(tl.DebtPerMonth[0], 21900) {
		t.Errorf("first month balance = %v, want 21900", tl.DebtPerMonth[0])
	}
	if tl.DebtPerMonth[1] != 0 {
		t.Errorf("last balance = %v, want 0", tl.DebtPerMonth[1])
	}
}

func TestOverdraftTimelineStuck(t *testing.T) {
	cases := []struct {
		name    string
		od      Overdraft
		payment float64
	}{
		{"payment below interest", testOverdraft(), 19000},
		{"zero payment", Overdraft{Name: "o", Balance: Money{Cents: 500}}, 0},
		{"negative payment", testOverdraft(), -100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tl := tc.od.Timeline(tc.payment)
			if tl.NumMonths != NonConvergent {
				t.Fatalf("NumMonths = %d, want %d", tl.NumMonths, NonConvergent)
			}
		})
	}
}

func TestMinimumPayment(t *testing.T) {
	if m, ok := testCard().MinimumPayment(); !ok || m.Cents != 1000 {
		t.Fatalf("card MinimumPayment() = %v, %v", m, ok)
	}
	if _, ok := testOverdraft().MinimumPayment(); ok {
		t.Fatalf("overdraft must not report a minimum payment")
	}
}

func TestDebtValidate(t *testing.T) {
	if err := testCard().Validate(); err != nil {
		t.Fatalf("expected valid card, got %v", err)
	}
	if err := testOverdraft().Validate(); err != nil {
		t.Fatalf("expected valid overdraft, got %v", err)
	}

	badCards := []func(*CreditCard){
		func(c *CreditCard) { c.Name = " " },
		func(c *CreditCard) { c.Balance = Money{Cents: -1} },
		func(c *CreditCard) { c.InterestRate = -0.5 },
		func(c *CreditCard) { c.MinPayment = Money{Cents: -1} },
		func(c *CreditCard) { c.MinPaymentPercent = -0.1 },
		func(c *CreditCard) { c.AnnualFee = Money{Cents: -1} },
		func(c *CreditCard) { c.InterestRate = math.NaN() },
	}
	for i, mutate := range badCards {
		c := testCard()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("card case %d expected error", i)
		}
	}

	badOverdrafts := []func(*Overdraft){
		func(o *Overdraft) { o.Name = "" },
		func(o *Overdraft) { o.Balance = Money{Cents: -1} },
		func(o *Overdraft) { o.InterestRate = -1 },
		func(o *Overdraft) { o.MonthlyFee = Money{Cents: -1} },
	}
	for i, mutate := range badOverdrafts {
		o := testOverdraft()
		mutate(&o)
		if err := o.Validate(); err == nil {
			t.Errorf("overdraft case %d expected error", i)
		}
	}
}

func TestCreditCardTimelineZeroPaymentWithoutFloor(t *testing.T) {
	card := testCard()
	card.MinPayment = Money{}
	card.AnnualFee = Money{}
	card.InterestRate = 0
	card.Balance = Money{Cents: 1000}
	card.MinPaymentPercent = 1

	got, want := card.Timeline(0), card.MinimumTimeline()
	if got.NumMonths != want.NumMonths || len(got.DebtPerMonth) != len(want.DebtPerMonth) {
		t.Fatalf("Timeline(0) = %d months, MinimumTimeline = %d months", got.NumMonths, want.NumMonths)
	}
	for i := range want.DebtPerMonth {
		if !almostEqual(got.DebtPerMonth[i], want.DebtPerMonth[i]) {
			t.Fatalf("month %d: %v, want %v", i, got.DebtPerMonth[i], want.DebtPerMonth[i])
		}
	}
	if got.NumMonths != 1 {
		t.Errorf("NumMonths = %d, want 1", got.NumMonths)
	}
}
