package core

import "sort"

// Rank orders debts by descending Cost. Adjacent pairs are swapped only when
// the earlier debt is strictly cheaper, so debts of equal cost keep their
// input order. The input slice is left untouched.
func Rank(debts []DebtInstrument) []DebtInstrument {
	ranked := make([]DebtInstrument, len(debts))
	copy(ranked, debts)
	costs := make([]float64, len(ranked))
	for i, d := range ranked {
		costs[i] = d.Cost()
	}

	for moved := true; moved; {
		moved = false
		for i := 1; i < len(ranked); i++ {
			if costs[i-1] < costs[i] {
				ranked[i-1], ranked[i] = ranked[i], ranked[i-1]
				costs[i-1], costs[i] = costs[i], costs[i-1]
				moved = true
			}
		}
	}
	return ranked
}

// PayoffOrder pre-sorts overdrafts by monthly fee and credit cards by interest
// rate then annual fee, places the overdrafts first and ranks the result.
// Equal-cost debts therefore come out in that predictable order.
func PayoffOrder(overdrafts []Overdraft, cards []CreditCard) []DebtInstrument {
	ods := append([]Overdraft(nil), overdrafts...)
	sort.SliceStable(ods, func(i, j int) bool {
		return ods[i].MonthlyFee.Cents < ods[j].MonthlyFee.Cents
	})

	ccs := append([]CreditCard(nil), cards...)
	sort.SliceStable(ccs, func(i, j int) bool {
		if ccs[i].InterestRate != ccs[j].InterestRate {
			return ccs[i].InterestRate < ccs[j].InterestRate
		}
		return ccs[i].AnnualFee.Cents < ccs[j].AnnualFee.Cents
	})

	debts := make([]DebtInstrument, 0, len(ods)+len(ccs))
	for _, o := range ods {
		debts = append(debts, o)
	}
	for _, c := range ccs {
		debts = append(debts, c)
	}
	return Rank(debts)
}
