package http

import (
	"time"

	"debtplan/internal/core"
	"debtplan/internal/storage"
)

type (
	creditCardRequest struct {
		Name              string  `json:"name"`
		InterestRate      float64 `json:"interest_rate"`
		Balance           Amount  `json:"balance"`
		MinPayment        Amount  `json:"min_payment"`
		MinPaymentPercent float64 `json:"min_payment_percent"`
		AnnualFee         Amount  `json:"annual_fee"`
	}

	overdraftRequest struct {
		Name         string  `json:"name"`
		InterestRate float64 `json:"interest_rate"`
		Balance      Amount  `json:"balance"`
		MonthlyFee   Amount  `json:"monthly_fee"`
	}

	// debtResponse renders either debt variant; the variant fields are
	// omitted for the other kind.
	debtResponse struct {
		ID                string   `json:"id"`
		Name              string   `json:"name"`
		Type              string   `json:"type"`
		InterestRate      float64  `json:"interest_rate"`
		Balance           Amount   `json:"balance"`
		MinPayment        *Amount  `json:"min_payment,omitempty"`
		MinPaymentPercent *float64 `json:"min_payment_percent,omitempty"`
		AnnualFee         *Amount  `json:"annual_fee,omitempty"`
		MonthlyFee        *Amount  `json:"monthly_fee,omitempty"`
		MonthlyCost       Amount   `json:"monthly_cost"`
	}

	incomeRequest struct {
		Name      string `json:"name"`
		PayAmount Amount `json:"pay_amount"`
		PayType   int    `json:"pay_type"`
		PayDay    *int   `json:"pay_day"`
	}

	incomeResponse struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		PayAmount     Amount `json:"pay_amount"`
		PayType       int    `json:"pay_type"`
		PayTypeName   string `json:"pay_type_name"`
		PayDay        *int   `json:"pay_day"`
		PayDayName    string `json:"pay_day_name,omitempty"`
		MonthlyAmount Amount `json:"monthly_amount"`
	}

	expenseRequest struct {
		Name      string `json:"name"`
		Amount    Amount `json:"amount"`
		Frequency int    `json:"frequency"`
		TypeID    string `json:"type_id"`
	}

	expenseResponse struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Amount    Amount `json:"amount"`
		Frequency int    `json:"frequency"`
		TypeID    string `json:"type_id,omitempty"`
	}

	expenseTypeRequest struct {
		Name string `json:"name"`
	}

	expenseTypeResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	investmentRequest struct {
		Name         string  `json:"name"`
		InterestRate float64 `json:"interest_rate"`
		MinDuration  int     `json:"min_duration"`
		Balance      Amount  `json:"balance"`
	}

	investmentResponse struct {
		ID           string  `json:"id"`
		Name         string  `json:"name"`
		InterestRate float64 `json:"interest_rate"`
		MinDuration  int     `json:"min_duration"`
		Balance      Amount  `json:"balance"`
		Liquid       bool    `json:"liquid"`
	}

	taxBracketRequest struct {
		Lower   Amount  `json:"lower"`
		Upper   Amount  `json:"upper"`
		TaxRate float64 `json:"tax_rate"`
		Group   string  `json:"group"`
	}

	taxBracketResponse struct {
		ID      string  `json:"id"`
		Lower   Amount  `json:"lower"`
		Upper   Amount  `json:"upper"`
		TaxRate float64 `json:"tax_rate"`
		Group   string  `json:"group"`
		Label   string  `json:"label"`
	}

	userRequest struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	userResponse struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	tokenRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	tokenResponse struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	timelineResponse struct {
		NumMonths    int     `json:"num_months"`
		DebtPerMonth []int64 `json:"debt_per_month"`
	}

	snapshotResponse struct {
		NumMonths    int       `json:"num_months"`
		DebtPerMonth []int64   `json:"debt_per_month"`
		Budget       Amount    `json:"budget"`
		Reason       string    `json:"reason"`
		CreatedAt    time.Time `json:"created_at"`
	}

	budgetResponse struct {
		MonthlyIncome      Amount `json:"monthly_income"`
		Expenses           Amount `json:"expenses"`
		MinimumPayments    Amount `json:"minimum_payments"`
		MoneyAfterExpenses Amount `json:"money_after_expenses"`
	}
)

func (req creditCardRequest) record() core.CreditCard {
	return core.CreditCard{
		Name:              req.Name,
		InterestRate:      req.InterestRate,
		Balance:           req.Balance.Money(),
		MinPayment:        req.MinPayment.Money(),
		MinPaymentPercent: req.MinPaymentPercent,
		AnnualFee:         req.AnnualFee.Money(),
	}
}

func (req overdraftRequest) record() core.Overdraft {
	return core.Overdraft{
		Name:         req.Name,
		InterestRate: req.InterestRate,
		Balance:      req.Balance.Money(),
		MonthlyFee:   req.MonthlyFee.Money(),
	}
}

func (req incomeRequest) record() core.Income {
	inc := core.Income{
		Name:      req.Name,
		PayAmount: req.PayAmount.Money(),
		PayType:   core.PayType(req.PayType),
	}
	if req.PayDay != nil {
		day := core.DayOfWeek(*req.PayDay)
		inc.PayDay = &day
	}
	return inc
}

func (req expenseRequest) record() core.Expense {
	return core.Expense{
		Name:      req.Name,
		Amount:    req.Amount.Money(),
		Frequency: req.Frequency,
		TypeID:    req.TypeID,
	}
}

func (req expenseTypeRequest) record() core.ExpenseType {
	return core.ExpenseType{Name: req.Name}
}

func (req investmentRequest) record() core.Investment {
	return core.Investment{
		Name:         req.Name,
		InterestRate: req.InterestRate,
		MinDuration:  req.MinDuration,
		Balance:      req.Balance.Money(),
	}
}

func (req taxBracketRequest) record() core.TaxBracket {
	return core.TaxBracket{
		Lower:   req.Lower.Money(),
		Upper:   req.Upper.Money(),
		TaxRate: req.TaxRate,
		Group:   req.Group,
	}
}

func newDebtResponse(debt core.DebtInstrument) debtResponse {
	resp := debtResponse{
		Type:        string(debt.Kind()),
		MonthlyCost: roundedAmount(debt.Cost()),
	}
	switch d := debt.(type) {
	case core.CreditCard:
		minPayment, annualFee, percent := amountOf(d.MinPayment), amountOf(d.AnnualFee), d.MinPaymentPercent
		resp.ID, resp.Name, resp.InterestRate, resp.Balance = d.ID, d.Name, d.InterestRate, amountOf(d.Balance)
		resp.MinPayment, resp.AnnualFee, resp.MinPaymentPercent = &minPayment, &annualFee, &percent
	case core.Overdraft:
		monthlyFee := amountOf(d.MonthlyFee)
		resp.ID, resp.Name, resp.InterestRate, resp.Balance = d.ID, d.Name, d.InterestRate, amountOf(d.Balance)
		resp.MonthlyFee = &monthlyFee
	}
	return resp
}

func newCreditCardResponse(c core.CreditCard) any { return newDebtResponse(c) }
func newOverdraftResponse(o core.Overdraft) any   { return newDebtResponse(o) }

func newIncomeResponse(i core.Income) any {
	resp := incomeResponse{
		ID:            i.ID,
		Name:          i.Name,
		PayAmount:     amountOf(i.PayAmount),
		PayType:       int(i.PayType),
		PayTypeName:   i.PayType.String(),
		MonthlyAmount: roundedAmount(i.MonthlyAmount()),
	}
	if i.PayDay != nil {
		day := int(*i.PayDay)
		resp.PayDay = &day
		resp.PayDayName = i.PayDay.String()
	}
	return resp
}

func newExpenseResponse(e core.Expense) any {
	return expenseResponse{ID: e.ID, Name: e.Name, Amount: amountOf(e.Amount), Frequency: e.Frequency, TypeID: e.TypeID}
}

func newExpenseTypeResponse(t core.ExpenseType) any {
	return expenseTypeResponse{ID: t.ID, Name: t.Name}
}

func newInvestmentResponse(i core.Investment) any {
	return investmentResponse{
		ID:           i.ID,
		Name:         i.Name,
		InterestRate: i.InterestRate,
		MinDuration:  i.MinDuration,
		Balance:      amountOf(i.Balance),
		Liquid:       i.Liquid(),
	}
}

func newTaxBracketResponse(t core.TaxBracket) any {
	return taxBracketResponse{
		ID:      t.ID,
		Lower:   amountOf(t.Lower),
		Upper:   amountOf(t.Upper),
		TaxRate: t.TaxRate,
		Group:   t.Group,
		Label:   t.String(),
	}
}

func newUserResponse(u core.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func newTimelineResponse(p core.PayoffPlan) timelineResponse {
	return timelineResponse{NumMonths: p.NumMonths, DebtPerMonth: p.DebtPerMonthCents()}
}

func newSnapshotResponse(s storage.PlanSnapshot) snapshotResponse {
	debts := s.DebtPerMonth
	if debts == nil {
		debts = []int64{}
	}
	return snapshotResponse{
		NumMonths:    s.NumMonths,
		DebtPerMonth: debts,
		Budget:       Amount(s.Budget),
		Reason:       s.Reason,
		CreatedAt:    s.CreatedAt,
	}
}

func newBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		MonthlyIncome:      roundedAmount(b.MonthlyIncome),
		Expenses:           amountOf(b.Expenses),
		MinimumPayments:    amountOf(b.MinimumPayments),
		MoneyAfterExpenses: roundedAmount(b.MoneyAfterExpenses()),
	}
}
