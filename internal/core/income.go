package core

const (
	Weekly PayType = iota
	Biweekly
	SemiMonthly
	Monthly
	ThirteenPays
)

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const weeksPerYear = 52

type (
	// PayType is how often an income is paid.
	PayType int

	DayOfWeek int

	Income struct {
		ID        string
		Name      string
		PayAmount Money // per pay period
		PayType   PayType
		// PayDay is the weekday of payment. Semi-monthly pay lands on the 15th
		// and the last business day, monthly pay on the last business day, so
		// both leave it nil.
		PayDay *DayOfWeek
	}
)

var payTypeNames = map[PayType]string{
	Weekly:       "weekly",
	Biweekly:     "biweekly",
	SemiMonthly:  "semi-monthly",
	Monthly:      "monthly",
	ThirteenPays: "13 pay periods a year",
}

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (p PayType) IsValid() bool {
	_, ok := payTypeNames[p]
	return ok
}

func (p PayType) String() string {
	if name, ok := payTypeNames[p]; ok {
		return name
	}
	return "unknown"
}

// HasPayDay reports whether a weekday is meaningful for the pay type.
func (p PayType) HasPayDay() bool {
	return p == Weekly || p == Biweekly || p == ThirteenPays
}

func (d DayOfWeek) IsValid() bool {
	return d >= Sunday && d <= Saturday
}

func (d DayOfWeek) String() string {
	if !d.IsValid() {
		return "unknown"
	}
	return dayNames[d]
}

func (i Income) Validate() error {
	if err := validateName(i.Name); err != nil {
		return err
	}
	if err := i.PayAmount.Validate(); err != nil {
		return err
	}
	if !i.PayType.IsValid() {
		return ErrInvalidPayType
	}
	if i.PayDay != nil {
		if !i.PayType.HasPayDay() {
			return ErrPayDayNotAllowed
		}
		if !i.PayDay.IsValid() {
			return ErrInvalidPayDay
		}
	}
	return nil
}

// MonthlyAmount normalizes the pay amount to an average month, in cents.
func (i Income) MonthlyAmount() float64 {
	pay := i.PayAmount.Float()
	switch i.PayType {
	case Weekly:
		return pay * weeksPerYear / monthsPerYear
	case Biweekly:
		return pay * weeksPerYear / 2 / monthsPerYear
	case SemiMonthly:
		return pay * 2
	case Monthly:
		return pay
	default:
		// TODO: 13 pay periods a year is counted as one pay per month until
		// it is decided whether the extra period should be spread out.
		return pay
	}
}

// TotalMonthlyIncome sums the normalized monthly amount of every income.
func TotalMonthlyIncome(incomes []Income) float64 {
	var total float64
	for _, i := range incomes {
		total += i.MonthlyAmount()
	}
	return total
}
