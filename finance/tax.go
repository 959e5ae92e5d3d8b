// Package finance implements a progressive income tax calculator over bracket
// tables, loan amortization and compound interest.
package finance

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrUnknownStatus is returned for filing statuses without a bracket table.
	ErrUnknownStatus = errors.New("unknown filing status")
	// ErrInvalidInput is returned for negative amounts and empty terms.
	ErrInvalidInput = errors.New("invalid input")
)

// FilingStatus selects the bracket table.
type FilingStatus string

const (
	Single          FilingStatus = "single"
	MarriedJoint    FilingStatus = "married-joint"
	MarriedSeparate FilingStatus = "married-separate"
	HeadOfHousehold FilingStatus = "head-of-household"
)

// Bracket taxes the income between the previous bracket's upper bound and Upper at Rate.
// A zero Upper marks the unbounded top bracket.
type Bracket struct {
	Rate  float64 `json:"rate"`
	Upper float64 `json:"upper"`
}

func (b Bracket) limit() float64 {
	if b.Upper <= 0 {
		return math.Inf(1)
	}
	return b.Upper
}

// Table is the bracket schedule of one filing status.
type Table struct {
	Year              int          `json:"year"`
	Status            FilingStatus `json:"status"`
	StandardDeduction float64      `json:"standardDeduction"`
	Brackets          []Bracket    `json:"brackets"`
}

// Tables2024 are the 2024 US federal income tax schedules.
var Tables2024 = map[FilingStatus]Table{
	Single: {Year: 2024, Status: Single, StandardDeduction: 14600, Brackets: []Bracket{
		{0.10, 11600}, {0.12, 47150}, {0.22, 100525}, {0.24, 191950},
		{0.32, 243725}, {0.35, 609350}, {0.37, 0},
	}},
	MarriedJoint: {Year: 2024, Status: MarriedJoint, StandardDeduction: 29200, Brackets: []Bracket{
		{0.10, 23200}, {0.12, 94300}, {0.22, 201050}, {0.24, 383900},
		{0.32, 487450}, {0.35, 731200}, {0.37, 0},
	}},
	MarriedSeparate: {Year: 2024, Status: MarriedSeparate, StandardDeduction: 14600, Brackets: []Bracket{
		{0.10, 11600}, {0.12, 47150}, {0.22, 100525}, {0.24, 191950},
		{0.32, 243725}, {0.35, 365600}, {0.37, 0},
	}},
	HeadOfHousehold: {Year: 2024, Status: HeadOfHousehold, StandardDeduction: 21900, Brackets: []Bracket{
		{0.10, 16550}, {0.12, 63100}, {0.22, 100500}, {0.24, 191950},
		{0.32, 243700}, {0.35, 609350}, {0.37, 0},
	}},
}

// ParseStatus accepts the status names and a few common aliases.
func ParseStatus(s string) (FilingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "s":
		return Single, nil
	case "married-joint", "married", "mfj", "joint":
		return MarriedJoint, nil
	case "married-separate", "mfs", "separate":
		return MarriedSeparate, nil
	case "head-of-household", "hoh", "head":
		return HeadOfHousehold, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Lookup returns the 2024 table of a filing status.
func Lookup(status FilingStatus) (Table, error) {
	t, ok := Tables2024[status]
	if !ok {
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return t, nil
}

// BracketLine is the share of the tax owed in one bracket.
type BracketLine struct {
	Rate    float64 `json:"rate"`
	From    float64 `json:"from"`
	To      float64 `json:"to"` // zero for the top bracket
	Taxable float64 `json:"taxable"`
	Tax     float64 `json:"tax"`
}

// Result is a complete tax computation. Rates are percentages.
type Result struct {
	Status        FilingStatus  `json:"status"`
	Income        float64       `json:"income"`
	Deduction     float64       `json:"deduction"`
	TaxableIncome float64       `json:"taxableIncome"`
	Tax           float64       `json:"tax"`
	MarginalRate  float64       `json:"marginalRate"`
	EffectiveRate float64       `json:"effectiveRate"`
	NetIncome     float64       `json:"netIncome"`
	Breakdown     []BracketLine `json:"breakdown"`
}

// Input describes a tax computation request. Itemized deductions replace the
// standard deduction only when larger.
type Input struct {
	Status              FilingStatus `json:"status"`
	Income              float64      `json:"income"`
	Itemized            float64      `json:"itemized"`
	NoStandardDeduction bool         `json:"noStandardDeduction"`
}

// Calculate looks up the table of the input's filing status and computes the tax.
func Calculate(in Input) (Result, error) {
	t, err := Lookup(in.Status)
	if err != nil {
		return Result{}, err
	}
	if in.Income < 0 || in.Itemized < 0 || math.IsNaN(in.Income) || math.IsInf(in.Income, 0) {
		return Result{}, fmt.Errorf("%w: income and deductions must be non negative", ErrInvalidInput)
	}
	ded := in.Itemized
	if !in.NoStandardDeduction {
		ded = math.Max(ded, t.StandardDeduction)
	}
	return t.Compute(in.Income, ded), nil
}

// Compute applies the brackets to income minus deduction.
func (t Table) Compute(income, deduction float64) Result {
	taxable := math.Max(0, income-deduction)
	r := Result{
		Status:        t.Status,
		Income:        cents(income),
		Deduction:     cents(math.Min(deduction, income)),
		TaxableIncome: cents(taxable),
	}
	if len(t.Brackets) > 0 {
		r.MarginalRate = pct(t.Brackets[0].Rate)
	}
	lower := 0.0
	for _, b := range t.Brackets {
		if taxable <= lower {
			break
		}
		part := math.Min(taxable, b.limit()) - lower
		line := BracketLine{Rate: pct(b.Rate), From: lower, To: b.Upper, Taxable: cents(part), Tax: cents(part * b.Rate)}
		r.Breakdown = append(r.Breakdown, line)
		r.Tax += part * b.Rate
		r.MarginalRate = pct(b.Rate)
		lower = b.limit()
	}
	r.Tax = cents(r.Tax)
	if income > 0 {
		r.EffectiveRate = math.Round(r.Tax/income*10000) / 100
	}
	r.NetIncome = cents(income - r.Tax)
	return r
}

func cents(v float64) float64 { return math.Round(v*100) / 100 }

func pct(rate float64) float64 { return math.Round(rate*10000) / 100 }
