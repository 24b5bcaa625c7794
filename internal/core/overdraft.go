package core

// Overdraft is a line of credit charged a flat fee every month. It has no
// minimum payment.
type Overdraft struct {
	ID           string
	Name         string
	InterestRate float64 // percentage
	Balance      Money
	MonthlyFee   Money
}

var _ DebtInstrument = Overdraft{}

func (o Overdraft) Validate() error {
	if err := validateName(o.Name); err != nil {
		return err
	}
	if err := validateRate(o.InterestRate); err != nil {
		return err
	}
	if err := o.Balance.Validate(); err != nil {
		return err
	}
	return o.MonthlyFee.Validate()
}

func (o Overdraft) Kind() DebtKind { return KindOverdraft }

func (o Overdraft) Cost() float64 {
	return o.Balance.Float()*monthlyInterestRate(o.InterestRate) + o.MonthlyFee.Float()
}

func (o Overdraft) MinimumPayment() (Money, bool) {
	return Money{}, false
}

// Timeline charges InterestRate percent of the balance plus the monthly fee
// every month. The simulation gives up as soon as a month ends without the
// balance going down.
func (o Overdraft) Timeline(monthlyPayment float64) Timeline {
	var (
		tl      Timeline
		balance = o.Balance.Float()
	)
	for balance > 0 {
		if len(tl.DebtPerMonth) >= MaxPayoffMonths {
			return nonConvergent()
		}
		start := balance

		interest := balance * (o.InterestRate / 100)
		tl.TotalInterestPaid += interest
		balance += interest + o.MonthlyFee.Float()

		p := monthlyPayment
		if p > balance {
			p = balance
		}

		tl.TotalPaid += p
		balance -= p
		tl.DebtPerMonth = append(tl.DebtPerMonth, balance)
		if balance >= start {
			return nonConvergent()
		}
	}
	tl.NumMonths = len(tl.DebtPerMonth)
	return tl
}
