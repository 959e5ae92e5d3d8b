package finance

import (
	"fmt"
	"math"
)

// Installment is one row of an amortization schedule.
type Installment struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// Loan is a fixed rate, fully amortizing loan.
type Loan struct {
	Principal  float64 `json:"principal"`
	AnnualRate float64 `json:"annualRate"` // percent
	Months     int     `json:"months"`
}

// Summary totals an amortization schedule.
type Summary struct {
	Payment       float64       `json:"payment"`
	TotalPaid     float64       `json:"totalPaid"`
	TotalInterest float64       `json:"totalInterest"`
	Schedule      []Installment `json:"schedule"`
}

func (l Loan) validate() error {
	if l.Principal <= 0 || l.AnnualRate < 0 || l.Months <= 0 {
		return fmt.Errorf("%w: loan needs a positive principal and term and a non negative rate", ErrInvalidInput)
	}
	return nil
}

// Payment returns the fixed monthly payment, rounded to the cent.
func (l Loan) Payment() (float64, error) {
	if err := l.validate(); err != nil {
		return 0, err
	}
	return cents(l.payment()), nil
}

func (l Loan) payment() float64 {
	r := l.AnnualRate / 100 / 12
	n := float64(l.Months)
	if r == 0 {
		return l.Principal / n
	}
	return l.Principal * r / (1 - math.Pow(1+r, -n))
}

// Amortize builds the month by month schedule. Every row is rounded to the cent
// and the last payment absorbs the rounding drift so that the balance ends at zero.
func (l Loan) Amortize() (Summary, error) {
	if err := l.validate(); err != nil {
		return Summary{}, err
	}
	r := l.AnnualRate / 100 / 12
	pay := cents(l.payment())
	bal := l.Principal
	s := Summary{Payment: pay, Schedule: make([]Installment, 0, l.Months)}

	for m := 1; m <= l.Months; m++ {
		interest := cents(bal * r)
		principal := cents(pay - interest)
		if m == l.Months || principal > bal {
			principal = cents(bal)
		}
		bal = cents(bal - principal)
		row := Installment{Month: m, Payment: cents(principal + interest), Principal: principal, Interest: interest, Balance: bal}
		s.Schedule = append(s.Schedule, row)
		s.TotalPaid += row.Payment
		s.TotalInterest += interest
		if bal <= 0 {
			break
		}
	}
	s.TotalPaid = cents(s.TotalPaid)
	s.TotalInterest = cents(s.TotalInterest)
	return s, nil
}
