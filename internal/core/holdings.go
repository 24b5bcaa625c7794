package core

import "fmt"

type (
	Investment struct {
		ID           string
		Name         string
		InterestRate float64
		// MinDuration is the lock-in period in months; 0 means accessible at any time.
		MinDuration int
		Balance     Money
	}

	// TaxBracket is one marginal band. Upper == 0 means unbounded. Group
	// keeps related brackets together for display (federal, provincial...).
	TaxBracket struct {
		ID      string
		Lower   Money
		Upper   Money
		TaxRate float64
		Group   string
	}
)

func (i Investment) Validate() error {
	if err := validateName(i.Name); err != nil {
		return err
	}
	if err := validateRate(i.InterestRate); err != nil {
		return err
	}
	if i.MinDuration < 0 {
		return ErrInvalidDuration
	}
	return i.Balance.Validate()
}

// Liquid reports whether the investment can be withdrawn at any time.
func (i Investment) Liquid() bool {
	return i.MinDuration == 0
}

func (t TaxBracket) Validate() error {
	if err := t.Lower.Validate(); err != nil {
		return err
	}
	if err := t.Upper.Validate(); err != nil {
		return err
	}
	if err := validateRate(t.TaxRate); err != nil {
		return err
	}
	if t.Upper.Cents != 0 && t.Upper.Cents < t.Lower.Cents {
		return ErrInvalidBracket
	}
	return nil
}

func (t TaxBracket) String() string {
	return fmt.Sprintf("%g%% %s - %s", t.TaxRate, t.Lower, t.Upper)
}
