package core

type (
	// ExpenseType is a user-defined expense category.
	ExpenseType struct {
		ID   string
		Name string
	}

	Expense struct {
		ID     string
		Name   string
		Amount Money
		// Frequency is a repetition multiplier; 0 is the monthly baseline.
		Frequency int
		TypeID    string // optional ExpenseType reference
	}
)

func (t ExpenseType) Validate() error {
	return validateName(t.Name)
}

func (e Expense) Validate() error {
	if err := validateName(e.Name); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Frequency < 0 {
		return ErrInvalidFrequency
	}
	return nil
}

// TotalExpenses sums expense amounts. Frequency is not applied: every expense
// counts once per month.
func TotalExpenses(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total.Cents += e.Amount.Cents
	}
	return total
}
