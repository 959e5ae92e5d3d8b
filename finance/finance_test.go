package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		in        Input
		taxable   float64
		tax       float64
		marginal  float64
		effective float64
		brackets  int
	}{
		{"single 100k", Input{Status: Single, Income: 100000}, 85400, 13841, 22, 13.84, 3},
		{"joint 100k", Input{Status: MarriedJoint, Income: 100000}, 70800, 8032, 12, 8.03, 2},
		{"below deduction", Input{Status: Single, Income: 10000}, 0, 0, 10, 0, 0},
		{"itemized wins", Input{Status: Single, Income: 100000, Itemized: 20000}, 80000, 12653, 22, 12.65, 3},
		{"single 1M", Input{Status: Single, Income: 1000000}, 985400, 322785.75, 37, 32.28, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Calculate(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.taxable, r.TaxableIncome)
			assert.Equal(t, tt.tax, r.Tax)
			assert.Equal(t, tt.marginal, r.MarginalRate)
			assert.Equal(t, tt.effective, r.EffectiveRate)
			assert.Len(t, r.Breakdown, tt.brackets)
			assert.Equal(t, tt.in.Income-tt.tax, r.NetIncome)

			var sum float64
			for _, l := range r.Breakdown {
				sum += l.Tax
			}
			assert.InDelta(t, r.Tax, sum, 0.01)
		})
	}
}

func TestCalculate_TopBracketIsUnbounded(t *testing.T) {
	r, err := Calculate(Input{Status: Single, Income: 1000000})
	assert.NoError(t, err)
	last := r.Breakdown[len(r.Breakdown)-1]
	assert.Equal(t, 37.0, last.Rate)
	assert.Equal(t, 609350.0, last.From)
	assert.Zero(t, last.To)
	assert.Equal(t, 376050.0, last.Taxable)
}

func TestCalculate_Errors(t *testing.T) {
	_, err := Calculate(Input{Status: "nomad", Income: 1})
	assert.ErrorIs(t, err, ErrUnknownStatus)
	_, err = Calculate(Input{Status: Single, Income: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculate_NoStandardDeduction(t *testing.T) {
	r, err := Calculate(Input{Status: Single, Income: 11600, NoStandardDeduction: true})
	assert.NoError(t, err)
	assert.Equal(t, 1160.0, r.Tax)
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]FilingStatus{
		"single": Single, "MFJ": MarriedJoint, "married": MarriedJoint,
		"mfs": MarriedSeparate, "HoH": HeadOfHousehold,
	} {
		got, err := ParseStatus(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStatus("widowed-ish")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestLookup_StandardDeductions(t *testing.T) {
	s, _ := Lookup(Single)
	j, _ := Lookup(MarriedJoint)
	assert.Equal(t, 14600.0, s.StandardDeduction)
	assert.Equal(t, 29200.0, j.StandardDeduction)
}

func TestLoan_ZeroRate(t *testing.T) {
	l := Loan{Principal: 10000, AnnualRate: 0, Months: 10}
	p, err := l.Payment()
	assert.NoError(t, err)
	assert.Equal(t, 1000.0, p)

	s, err := l.Amortize()
	assert.NoError(t, err)
	assert.Len(t, s.Schedule, 10)
	assert.Zero(t, s.TotalInterest)
	assert.Equal(t, 10000.0, s.TotalPaid)
}

func TestLoan_Mortgage(t *testing.T) {
	l := Loan{Principal: 200000, AnnualRate: 6, Months: 360}
	p, err := l.Payment()
	assert.NoError(t, err)
	assert.Equal(t, 1199.1, p)

	s, err := l.Amortize()
	assert.NoError(t, err)
	assert.Len(t, s.Schedule, 360)
	assert.Equal(t, 1000.0, s.Schedule[0].Interest)
	assert.Equal(t, 199.1, s.Schedule[0].Principal)
	assert.Zero(t, s.Schedule[359].Balance)
	assert.InDelta(t, 231676, s.TotalInterest, 50)
	assert.InDelta(t, s.TotalPaid-s.TotalInterest, 200000, 0.01)
}

func TestLoan_Invalid(t *testing.T) {
	_, err := Loan{Principal: 1000, Months: 0}.Amortize()
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Loan{Principal: -5, Months: 12}.Payment()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompound(t *testing.T) {
	g, err := Compound(1000, 5, 10, 1, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1628.89, g.FutureValue)
	assert.Equal(t, FutureValue(1000, 5, 10, 1), g.FutureValue)
	assert.Equal(t, 628.89, g.Interest)
	assert.Len(t, g.Yearly, 10)
	assert.Equal(t, 1050.0, g.Yearly[0].Balance)

	g, err = Compound(0, 0, 1, 12, 100)
	assert.NoError(t, err)
	assert.Equal(t, 1200.0, g.FutureValue)
	assert.Equal(t, 1200.0, g.Contributions)
	assert.Zero(t, g.Interest)

	_, err = Compound(1000, 5, 0, 12, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
