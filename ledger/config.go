package ledger

import (
	"fmt"
	"slices"
)

// DefaultTransferDescription is the description of the transfer transaction
// posted when a month is closed.
const DefaultTransferDescription = "jw.org Transfer"

// BranchResolution is a standing monthly transfer to the branch.
type BranchResolution struct {
	Description string
	Category    Category
	Type        ResolutionType
	Amount      Money
}

// Config is the persisted congregation configuration.
type Config struct {
	CongregationName       string
	CongregationCity       string
	CongregationState      string
	AccountsSheetFormPath  string
	FundsTransferFormPath  string
	AccountsReportFormPath string
	RootDir                string
	CurrentMonth           YearMonth
	// BranchResolutions are posted in this order when a month is closed.
	BranchResolutions   []BranchResolution
	TransferDescription string
}

// NewBranchResolution returns a resolution with the default Expense category.
func NewBranchResolution(description string, typ ResolutionType, amount Money) BranchResolution {
	return BranchResolution{Description: description, Category: Expense, Type: typ, Amount: amount}
}

// Transfer returns the configured transfer description or the default.
func (c *Config) Transfer() string {
	if c.TransferDescription != "" {
		return c.TransferDescription
	}
	return DefaultTransferDescription
}

// CongregationDisplayName returns "Name, City, State".
func (c *Config) CongregationDisplayName() string {
	return fmt.Sprintf("%s, %s, %s", c.CongregationName, c.CongregationCity, c.CongregationState)
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	next := *c
	next.BranchResolutions = slices.Clone(c.BranchResolutions)
	return &next
}

// WithCurrentMonth returns a copy of the config pointing at month.
func (c *Config) WithCurrentMonth(month YearMonth) *Config {
	next := c.Clone()
	next.CurrentMonth = month
	return next
}

// Validate checks the branch resolutions can be posted.
func (c *Config) Validate() error {
	for i, r := range c.BranchResolutions {
		if err := r.validate(); err != nil {
			return fmt.Errorf("branch resolution %d: %w", i+1, err)
		}
	}
	return nil
}

func (r BranchResolution) validate() error {
	if r.Description == "" {
		return NewInvariantError("validate branch resolution", "missing description")
	}
	if !r.Type.Known() {
		return NewInvariantError("validate branch resolution", fmt.Sprintf("unknown type %q", string(r.Type)))
	}
	if r.Amount.IsNegative() {
		return NewInvariantError("validate branch resolution", fmt.Sprintf("%q has a negative amount", r.Description))
	}
	return nil
}
