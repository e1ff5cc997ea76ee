package ledger

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits every Money value carries.
const moneyScale = 2

// Money is an amount in US dollars with exactly two fractional digits.
// Every constructor rounds half-to-even, so two Money values that print the
// same are always equal.
type Money struct {
	value decimal.Decimal
}

// Zero is zero dollars.
var Zero = Money{}

// NewMoney rounds d to cents and returns it as Money.
func NewMoney(d decimal.Decimal) Money {
	return Money{value: d.RoundBank(moneyScale)}
}

// MoneyFromCents returns the Money value for a whole number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{value: decimal.New(cents, -moneyScale)}
}

// ParseMoney parses a plain decimal string or a parenthesized negative
// such as "(17)". Surrounding whitespace is ignored.
func ParseMoney(s string) (Money, error) {
	value := strings.TrimSpace(s)
	negate := false
	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		value = strings.TrimSpace(value[1 : len(value)-1])
		negate = true
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Zero, NewParseError("money", s, err)
	}
	if negate {
		d = d.Neg()
	}
	return NewMoney(d), nil
}

// MustParseMoney is like ParseMoney but panics on error.
// Use only in tests or for compile-time constants.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(n Money) Money  { return NewMoney(m.value.Add(n.value)) }
func (m Money) Sub(n Money) Money  { return NewMoney(m.value.Sub(n.value)) }
func (m Money) Neg() Money         { return Money{value: m.value.Neg()} }
func (m Money) Abs() Money         { return Money{value: m.value.Abs()} }
func (m Money) IsZero() bool       { return m.value.Sign() == 0 }
func (m Money) IsPositive() bool   { return m.value.Sign() > 0 }
func (m Money) IsNegative() bool   { return m.value.Sign() < 0 }
func (m Money) Cmp(n Money) int    { return m.value.Cmp(n.value) }
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) }

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// Cents returns the amount as a whole number of cents.
func (m Money) Cents() int64 { return m.value.Shift(moneyScale).IntPart() }

// FormattedString returns the display form of m, or "" for zero.
func (m Money) FormattedString() string {
	if m.IsZero() {
		return ""
	}
	return m.FormattedStringPreserveZero()
}

// FormattedStringPreserveZero returns "0.00" for zero, "12.34" for positive
// amounts and "(12.34)" for negative amounts.
func (m Money) FormattedStringPreserveZero() string {
	if m.IsNegative() {
		return "(" + m.value.Neg().StringFixed(moneyScale) + ")"
	}
	return m.value.StringFixed(moneyScale)
}

// PaddedString left-pads FormattedString with spaces to width columns.
func (m Money) PaddedString(width int) string {
	s := m.FormattedString()
	if w := runewidth.StringWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

// Display renders m as a currency amount, e.g. "$1,234.56".
// Only meant for human summaries; persisted data uses FormattedStringPreserveZero.
func (m Money) Display() string {
	return money.New(m.Cents(), money.USD).Display()
}

func (m Money) String() string { return m.FormattedStringPreserveZero() }

func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.FormattedStringPreserveZero()), nil
}

func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := ParseMoney(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Sum adds up amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
