package core

import "testing"

func TestNewBudget(t *testing.T) {
	incomes := []Income{{Name: "a", PayAmount: Money{Cents: 50000}, PayType: SemiMonthly}}
	expenses := []Expense{
		{Name: "rent", Amount: Money{Cents: 30000}},
		{Name: "gym", Amount: Money{Cents: 2500}, Frequency: 3},
	}
	card := testCard()
	other := testCard()
	other.MinPayment = Money{Cents: 2500}

	b := NewBudget(incomes, expenses, []CreditCard{card, other})
	if b.Expenses.Cents != 32500 {
		t.Fatalf("Expenses = %d, want 32500", b.Expenses.Cents)
	}
	if b.MinimumPayments.Cents != 3500 {
		t.Fatalf("MinimumPayments = %d, want 3500", b.MinimumPayments.Cents)
	}
	if got := b.MoneyAfterExpenses(); !almostEqual(got, 100000-32500-3500) {
		t.Fatalf("MoneyAfterExpenses() = %v", got)
	}
}

func TestBudgetCanBeNegative(t *testing.T) {
	b := NewBudget(nil, []Expense{{Name: "rent", Amount: Money{Cents: 1000}}}, nil)
	if got := b.MoneyAfterExpenses(); got != -1000 {
		t.Fatalf("MoneyAfterExpenses() = %v, want -1000", got)
	}
}

func TestTotalDebt(t *testing.T) {
	got := TotalDebt([]Overdraft{testOverdraft()}, []CreditCard{testCard(), testCard()})
	if got.Cents != 300000 {
		t.Fatalf("TotalDebt() = %d, want 300000", got.Cents)
	}
	if TotalDebt(nil, nil).Cents != 0 {
		t.Fatalf("TotalDebt of nothing must be zero")
	}
}

func TestExpenseValidate(t *testing.T) {
	if err := (Expense{Name: "rent", Amount: Money{Cents: 100}}).Validate(); err != nil {
		t.Fatalf("expected valid expense, got %v", err)
	}
	bad := []Expense{
		{Name: "", Amount: Money{Cents: 100}},
		{Name: "rent", Amount: Money{Cents: -1}},
		{Name: "rent", Frequency: -2},
	}
	for i, e := range bad {
		if err := e.Validate(); err == nil {
			t.Errorf("case %d expected error", i)
		}
	}
	if err := (ExpenseType{Name: "  "}).Validate(); err == nil {
		t.Fatalf("blank expense type name must be rejected")
	}
}
