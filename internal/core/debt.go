package core

const (
	KindCreditCard DebtKind = "credit-card"
	KindOverdraft  DebtKind = "overdraft"
)

const (
	// NonConvergent is the month count reported when a debt can never be paid off.
	NonConvergent = -1

	// MaxPayoffMonths bounds every simulation (50 years).
	MaxPayoffMonths = 600

	monthsPerYear = 12
)

type (
	DebtKind string

	// DebtInstrument is the capability set shared by every kind of debt.
	DebtInstrument interface {
		// Kind identifies the variant for display and serialization.
		Kind() DebtKind

		// Cost is the monthly carrying cost, used only to rank payoff priority.
		Cost() float64

		// Timeline simulates paying the debt off with a fixed monthly payment.
		Timeline(monthlyPayment float64) Timeline

		// MinimumPayment returns the contractual monthly floor, if the variant has one.
		MinimumPayment() (Money, bool)
	}

	// Timeline is the month-by-month payoff simulation of a single instrument.
	Timeline struct {
		DebtPerMonth      []float64
		NumMonths         int
		TotalInterestPaid float64
		TotalPaid         float64
	}
)

// Converges reports whether the simulated debt reaches zero.
func (t Timeline) Converges() bool {
	return t.NumMonths != NonConvergent
}

func nonConvergent() Timeline {
	return Timeline{NumMonths: NonConvergent}
}

// monthlyInterestRate converts an annual percentage to a monthly fraction.
func monthlyInterestRate(annualPercent float64) float64 {
	return annualPercent / (100 * monthsPerYear)
}
