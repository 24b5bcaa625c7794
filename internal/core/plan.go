package core

// PayoffPlan is the combined snowball timeline across all debts.
type PayoffPlan struct {
	// NumMonths is the total months until debt free, or NonConvergent.
	NumMonths int
	// DebtPerMonth is the month-end balance trajectory of the last debt paid off.
	DebtPerMonth []float64
}

// Feasible reports whether the plan ever ends.
func (p PayoffPlan) Feasible() bool {
	return p.NumMonths != NonConvergent
}

// DebtPerMonthCents rounds the trajectory to whole cents.
func (p PayoffPlan) DebtPerMonthCents() []int64 {
	out := make([]int64, len(p.DebtPerMonth))
	for i, v := range p.DebtPerMonth {
		out[i] = RoundCents(v)
	}
	return out
}

// Aggregate pays the debts off one at a time in ranked order. Each debt gets
// the whole budget plus the minimum payments freed by the debts paid before
// it. A single debt that never converges makes the whole plan infeasible.
func Aggregate(debts []DebtInstrument, budget float64) PayoffPlan {
	plan := PayoffPlan{DebtPerMonth: []float64{}}
	payment := budget

	for _, debt := range Rank(debts) {
		tl := debt.Timeline(payment)
		if !tl.Converges() {
			return PayoffPlan{NumMonths: NonConvergent, DebtPerMonth: []float64{}}
		}
		plan.NumMonths += tl.NumMonths
		plan.DebtPerMonth = tl.DebtPerMonth
		if plan.DebtPerMonth == nil {
			plan.DebtPerMonth = []float64{}
		}
		if floor, ok := debt.MinimumPayment(); ok {
			payment += floor.Float()
		}
	}
	return plan
}
