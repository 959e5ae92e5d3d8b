package finance

import (
	"fmt"
	"math"
)

// Growth is the outcome of a compound interest projection.
type Growth struct {
	FutureValue   float64        `json:"futureValue"`
	Contributions float64        `json:"contributions"`
	Interest      float64        `json:"interest"`
	Yearly        []YearlyGrowth `json:"yearly"`
}

// YearlyGrowth is the balance at the end of a year.
type YearlyGrowth struct {
	Year     int     `json:"year"`
	Balance  float64 `json:"balance"`
	Interest float64 `json:"interest"`
}

// Compound projects principal growing at annualRate percent, compounded
// periodsPerYear times a year for years. contribution is added at the end of
// every compounding period.
func Compound(principal, annualRate float64, years, periodsPerYear int, contribution float64) (Growth, error) {
	if principal < 0 || annualRate < 0 || years <= 0 || periodsPerYear <= 0 || contribution < 0 {
		return Growth{}, fmt.Errorf("%w: compound interest needs positive periods and non negative amounts", ErrInvalidInput)
	}
	r := annualRate / 100 / float64(periodsPerYear)
	bal := principal
	paid := principal
	g := Growth{Yearly: make([]YearlyGrowth, 0, years)}

	for y := 1; y <= years; y++ {
		for p := 0; p < periodsPerYear; p++ {
			bal += bal * r
			bal += contribution
			paid += contribution
		}
		g.Yearly = append(g.Yearly, YearlyGrowth{Year: y, Balance: cents(bal), Interest: cents(bal - paid)})
	}
	g.FutureValue = cents(bal)
	g.Contributions = cents(paid)
	g.Interest = cents(bal - paid)
	return g, nil
}

// FutureValue is the closed form of Compound without contributions.
func FutureValue(principal, annualRate float64, years, periodsPerYear int) float64 {
	if periodsPerYear <= 0 {
		return principal
	}
	r := annualRate / 100 / float64(periodsPerYear)
	return cents(principal * math.Pow(1+r, float64(years*periodsPerYear)))
}
