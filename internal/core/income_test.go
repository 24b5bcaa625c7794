package core

import (
	"errors"
	"testing"
)

func TestIncomeMonthlyAmount(t *testing.T) {
	cases := []struct {
		payType PayType
		amount  int64
		want    float64
	}{
		{Weekly, 100000, 100000.0 * 52 / 12},
		{Biweekly, 100000, 100000.0 * 26 / 12},
		{SemiMonthly, 50000, 100000},
		{Monthly, 20000, 20000},
		{ThirteenPays, 30000, 30000},
	}
	for _, tc := range cases {
		t.Run(tc.payType.String(), func(t *testing.T) {
			inc := Income{Name: "job", PayAmount: Money{Cents: tc.amount}, PayType: tc.payType}
			if got := inc.MonthlyAmount(); !almostEqual(got, tc.want) {
				t.Fatalf("MonthlyAmount() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTotalMonthlyIncome(t *testing.T) {
	incomes := []Income{
		{Name: "a", PayAmount: Money{Cents: 20000}, PayType: Monthly},
		{Name: "b", PayAmount: Money{Cents: 50000}, PayType: SemiMonthly},
	}
	if got := TotalMonthlyIncome(incomes); !almostEqual(got, 120000) {
		t.Fatalf("TotalMonthlyIncome() = %v, want 120000", got)
	}
	if got := TotalMonthlyIncome(nil); got != 0 {
		t.Fatalf("TotalMonthlyIncome(nil) = %v, want 0", got)
	}
}

func TestIncomeValidate(t *testing.T) {
	friday := Friday
	bad := DayOfWeek(9)

	cases := []struct {
		name string
		inc  Income
		err  error
	}{
		{"weekly with day", Income{Name: "w", PayType: Weekly, PayDay: &friday}, nil},
		{"monthly without day", Income{Name: "m", PayType: Monthly}, nil},
		{"thirteen with day", Income{Name: "t", PayType: ThirteenPays, PayDay: &friday}, nil},
		{"semi-monthly with day", Income{Name: "s", PayType: SemiMonthly, PayDay: &friday}, ErrPayDayNotAllowed},
		{"monthly with day", Income{Name: "m", PayType: Monthly, PayDay: &friday}, ErrPayDayNotAllowed},
		{"unknown pay type", Income{Name: "x", PayType: PayType(42)}, ErrInvalidPayType},
		{"unknown day", Income{Name: "x", PayType: Weekly, PayDay: &bad}, ErrInvalidPayDay},
		{"empty name", Income{Name: "", PayType: Weekly}, ErrEmptyName},
		{"negative amount", Income{Name: "x", PayType: Weekly, PayAmount: Money{Cents: -1}}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.inc.Validate()
			if !errors.Is(err, tc.err) {
				t.Fatalf("Validate() = %v, want %v", err, tc.err)
			}
		})
	}
}

func TestPayTypeAndDayNames(t *testing.T) {
	if got := SemiMonthly.String(); got != "semi-monthly" {
		t.Fatalf("SemiMonthly.String() = %q", got)
	}
	if got := PayType(99).String(); got != "unknown" {
		t.Fatalf("PayType(99).String() = %q", got)
	}
	if got := Wednesday.String(); got != "Wednesday" {
		t.Fatalf("Wednesday.String() = %q", got)
	}
	if DayOfWeek(-1).IsValid() {
		t.Fatalf("DayOfWeek(-1) must be invalid")
	}
}
