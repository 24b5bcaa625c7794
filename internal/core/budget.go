package core

// Budget is the monthly money available for paying debts down. It is derived
// on every request and never stored.
type Budget struct {
	MonthlyIncome   float64
	Expenses        Money
	MinimumPayments Money
}

func NewBudget(incomes []Income, expenses []Expense, cards []CreditCard) Budget {
	b := Budget{
		MonthlyIncome: TotalMonthlyIncome(incomes),
		Expenses:      TotalExpenses(expenses),
	}
	for _, c := range cards {
		b.MinimumPayments.Cents += c.MinPayment.Cents
	}
	return b
}

// MoneyAfterExpenses is income minus expenses minus every card's minimum
// payment. It may be negative.
func (b Budget) MoneyAfterExpenses() float64 {
	return b.MonthlyIncome - b.Expenses.Float() - b.MinimumPayments.Float()
}

// TotalDebt sums the balances of all debts.
func TotalDebt(overdrafts []Overdraft, cards []CreditCard) Money {
	var total Money
	for _, o := range overdrafts {
		total.Cents += o.Balance.Cents
	}
	for _, c := range cards {
		total.Cents += c.Balance.Cents
	}
	return total
}
