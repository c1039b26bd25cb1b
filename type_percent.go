package finance

import (
	"github.com/shopspring/decimal"
)

// Percent is a ratio expressed in percent: 7.5 means 7.5%.
type Percent float64

// percentPlaces is the precision percentages are shown and compared with.
const percentPlaces = 2

// ratio returns part/whole as a Percent, or 0 if whole is zero.
func ratio(part, whole Money) Percent {
	if whole.IsZero() {
		return 0
	}
	p := part.value.Div(whole.value).Mul(decimal.NewFromInt(100))
	return Percent(p.InexactFloat64())
}

func (p Percent) rounded() decimal.Decimal {
	return decimal.NewFromFloat(float64(p)).Round(percentPlaces)
}

// Equal reports whether p and q are the same once rounded for display.
func (p Percent) Equal(q Percent) bool { return p.rounded().Equal(q.rounded()) }

// String returns the percentage with two decimals, "7.69%". Values rounding to
// zero never show as "-0.00%".
func (p Percent) String() string { return p.rounded().StringFixed(percentPlaces) + "%" }

// SignedString returns a return with its sign, "+7.69%", or "-" when it rounds
// to zero.
func (p Percent) SignedString() string {
	r := p.rounded()
	switch {
	case r.IsZero():
		return "-"
	case r.IsPositive():
		return "+" + p.String()
	default:
		return p.String()
	}
}
