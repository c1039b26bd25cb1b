package finance

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCurrency is the currency used when none is configured.
const DefaultCurrency = "USD"

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// M creates a Money from any supported numeric value.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: strings.ToUpper(currency)}
}

// ParseAmount parses user input into Money.
//
// Malformed or empty input is zero, and the sign is dropped: amounts are
// always magnitudes, the direction is carried separately.
func ParseAmount(s, currency string) Money {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return M(0, currency)
	}
	return M(d.Abs(), currency)
}

func (m Money) Currency() string            { return m.cur }
func (m Money) Decimal() decimal.Decimal    { return m.value }
func (m Money) Equal(n Money) bool          { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                { return m.value.IsZero() }
func (m Money) IsPositive() bool            { return m.value.IsPositive() }
func (m Money) IsNegative() bool            { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool       { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool    { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                  { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money                  { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) DivInt(n int) Money          { return Money{value: m.value.Div(decimal.NewFromInt(int64(n))), cur: m.cur} }
func (m Money) Add(n Money) Money           { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money           { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }
func (m Money) InexactFloat64() float64     { return m.value.InexactFloat64() }
func (m Money) WithCurrency(c string) Money { return M(m.value, c) }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// String returns the money formatted in its currency, e.g. "$1,460.00".
//
// Unknown or empty currencies are printed as a plain two digits number.
func (m Money) String() string {
	c := money.GetCurrency(m.cur)
	if m.cur == "" || c == nil {
		return m.value.StringFixed(2)
	}
	minor := m.value.Round(int32(c.Fraction)).Shift(int32(c.Fraction))
	if minor.Abs().GreaterThan(maxMinor) {
		return formatDecimal(c, m.value)
	}
	return c.Formatter().Format(minor.IntPart())
}

// maxMinor is the largest amount in minor units go-money can format.
var maxMinor = decimal.NewFromInt(math.MaxInt64)

// formatDecimal formats d the way go-money does, for amounts beyond int64
// minor units.
func formatDecimal(c *money.Currency, d decimal.Decimal) string {
	units, fraction, _ := strings.Cut(d.Abs().StringFixed(int32(c.Fraction)), ".")
	var b strings.Builder
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteString(c.Thousand)
		}
		b.WriteRune(r)
	}
	if fraction != "" {
		b.WriteString(c.Decimal)
		b.WriteString(fraction)
	}
	s := strings.Replace(c.Template, "1", b.String(), 1)
	s = strings.Replace(s, "$", c.Grapheme, 1)
	if d.IsNegative() {
		s = "-" + s
	}
	return s
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return "-" + m.Abs().String()
}

type moneyJSON struct {
	Currency string          `json:"currency,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Currency: m.cur, Amount: m.value})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = M(v.Amount, v.Currency)
	return nil
}
