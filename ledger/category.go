package ledger

import (
	"fmt"
	"strings"
)

// Category classifies a transaction or sub-transaction. The numeric value is
// the tie-break order used when two transactions share a day.
type Category int

const (
	LocalCongregationExpenses Category = iota
	WorldwideWork
	Expense
	Deposit
	Other
)

var categoryCodes = [...]byte{
	LocalCongregationExpenses: 'C',
	WorldwideWork:             'W',
	Expense:                   'E',
	Deposit:                   'D',
	Other:                     ' ',
}

var categoryNames = [...]string{
	LocalCongregationExpenses: "LOCAL_CONGREGATION_EXPENSES",
	WorldwideWork:             "WORLDWIDE_WORK",
	Expense:                   "EXPENSE",
	Deposit:                   "DEPOSIT",
	Other:                     "OTHER",
}

// otherSerialized is how Other is written to documents, since a lone space
// does not survive most editors.
const otherSerialized = "None"

// Categories lists every category in tie-break order.
func Categories() []Category {
	return []Category{LocalCongregationExpenses, WorldwideWork, Expense, Deposit, Other}
}

func (c Category) valid() bool { return c >= LocalCongregationExpenses && c <= Other }

// Code returns the single-character code printed on the accounts sheet.
func (c Category) Code() byte {
	if !c.valid() {
		return '?'
	}
	return categoryCodes[c]
}

// Serialized returns the persisted form: the code letter, or "None" for Other.
func (c Category) Serialized() string {
	if c == Other {
		return otherSerialized
	}
	return string(c.Code())
}

func (c Category) String() string {
	if !c.valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory accepts a code letter (any case), "None", a blank string or a
// full category name.
func ParseCategory(s string) (Category, error) {
	if s == otherSerialized || strings.TrimSpace(s) == "" {
		return Other, nil
	}
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range Categories() {
		if upper == categoryNames[c] {
			return c, nil
		}
	}
	if len(upper) == 1 {
		for _, c := range Categories() {
			if upper[0] == categoryCodes[c] {
				return c, nil
			}
		}
	}
	return Other, NewParseError("category", s, nil)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, NewInvariantError("serialize category", fmt.Sprintf("unknown category %d", int(c)))
	}
	return []byte(c.Serialized()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
