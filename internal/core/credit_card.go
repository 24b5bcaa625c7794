package core

// CreditCard is a revolving debt with a minimum payment floor and an annual fee.
type CreditCard struct {
	ID           string
	Name         string
	InterestRate float64 // annual percentage
	Balance      Money
	MinPayment   Money
	// MinPaymentPercent is the fraction of the outstanding balance paid each
	// month when no fixed payment is given (0.10 pays 10%).
	MinPaymentPercent float64
	AnnualFee         Money
}

var _ DebtInstrument = CreditCard{}

func (c CreditCard) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	if err := validateRate(c.InterestRate); err != nil {
		return err
	}
	if err := c.Balance.Validate(); err != nil {
		return err
	}
	if err := c.MinPayment.Validate(); err != nil {
		return err
	}
	if err := c.AnnualFee.Validate(); err != nil {
		return err
	}
	if validateRate(c.MinPaymentPercent) != nil {
		return ErrInvalidPercent
	}
	return nil
}

func (c CreditCard) Kind() DebtKind { return KindCreditCard }

// Cost spreads the annual fee evenly across the year.
func (c CreditCard) Cost() float64 {
	return c.Balance.Float()*monthlyInterestRate(c.InterestRate) + c.AnnualFee.Float()/float64(monthsPerYear)
}

func (c CreditCard) MinimumPayment() (Money, bool) {
	return c.MinPayment, true
}

// Timeline pays monthlyPayment every month. A payment below the card's
// minimum can never be honoured and yields a non-convergent timeline. A
// zero payment on a card without a minimum means no payment was supplied,
// and the percentage schedule of MinimumTimeline applies.
func (c CreditCard) Timeline(monthlyPayment float64) Timeline {
	if monthlyPayment < c.MinPayment.Float() {
		return nonConvergent()
	}
	if monthlyPayment == 0 && c.MinPayment.Cents == 0 {
		return c.MinimumTimeline()
	}
	return c.simulate(func(float64) float64 { return monthlyPayment })
}

// MinimumTimeline pays MinPaymentPercent of the balance each month, never
// less than MinPayment.
func (c CreditCard) MinimumTimeline() Timeline {
	return c.simulate(func(balance float64) float64 { return balance * c.MinPaymentPercent })
}

func (c CreditCard) simulate(payment func(balance float64) float64) Timeline {
	var (
		tl      Timeline
		balance = c.Balance.Float()
		rate    = monthlyInterestRate(c.InterestRate)
		floor   = c.MinPayment.Float()
	)
	for balance > 0 {
		month := len(tl.DebtPerMonth)
		if month >= MaxPayoffMonths {
			return nonConvergent()
		}

		interest := balance * rate
		tl.TotalInterestPaid += interest
		balance += interest
		if month%monthsPerYear == 0 {
			balance += c.AnnualFee.Float()
		}

		p := payment(balance)
		if p < floor {
			p = floor
		}
		if p > balance {
			p = balance
		}

		tl.TotalPaid += p
		balance -= p
		tl.DebtPerMonth = append(tl.DebtPerMonth, balance)
	}
	tl.NumMonths = len(tl.DebtPerMonth)
	return tl
}
