package ledger

import (
	"cmp"
	"fmt"
)

// SubTransaction is one line of a composite transfer transaction.
type SubTransaction struct {
	Description string
	Category    Category
	Type        ResolutionType
	Amount      Money
}

// Transaction is a single line on the accounts sheet.
type Transaction struct {
	// Day is the day of the month, 1-31.
	Day         int
	Description string
	// Summary replaces Description on the monthly accounts report when set.
	Summary         string
	Category        Category
	ReceiptsIn      Money
	ReceiptsOut     Money
	CheckingIn      Money
	CheckingOut     Money
	SubTransactions []SubTransaction
}

// TransactionOption configures a Transaction built by NewTransaction.
type TransactionOption func(*Transaction)

func WithSummary(summary string) TransactionOption {
	return func(t *Transaction) { t.Summary = summary }
}

func WithReceiptsIn(m Money) TransactionOption {
	return func(t *Transaction) { t.ReceiptsIn = m }
}

func WithReceiptsOut(m Money) TransactionOption {
	return func(t *Transaction) { t.ReceiptsOut = m }
}

func WithCheckingIn(m Money) TransactionOption {
	return func(t *Transaction) { t.CheckingIn = m }
}

func WithCheckingOut(m Money) TransactionOption {
	return func(t *Transaction) { t.CheckingOut = m }
}

func WithSubTransactions(subs ...SubTransaction) TransactionOption {
	return func(t *Transaction) { t.SubTransactions = append([]SubTransaction(nil), subs...) }
}

// NewTransaction returns a transaction with all money columns zero unless set
// through options.
func NewTransaction(day int, description string, category Category, opts ...TransactionOption) Transaction {
	t := Transaction{Day: day, Description: description, Category: category}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// SummaryDescription returns Summary, falling back to Description.
func (t Transaction) SummaryDescription() string {
	if t.Summary != "" {
		return t.Summary
	}
	return t.Description
}

// IsZeroReceipts reports whether both receipts columns are zero.
func (t Transaction) IsZeroReceipts() bool {
	return t.ReceiptsIn.IsZero() && t.ReceiptsOut.IsZero()
}

// IsZeroChecking reports whether both checking columns are zero.
func (t Transaction) IsZeroChecking() bool {
	return t.CheckingIn.IsZero() && t.CheckingOut.IsZero()
}

// CheckingAmount is the signed effect on the checking account.
func (t Transaction) CheckingAmount() Money {
	return t.CheckingIn.Sub(t.CheckingOut)
}

// SubTotal sums the amounts of the sub-transactions.
func (t Transaction) SubTotal() Money {
	total := Zero
	for _, sub := range t.SubTransactions {
		total = total.Add(sub.Amount)
	}
	return total
}

// Validate checks that the day exists in the given month.
func (t Transaction) Validate(month YearMonth) error {
	if t.Day < 1 || t.Day > month.LastDay() {
		return NewPreconditionError("record transaction in", month,
			fmt.Sprintf("day %d is outside the month", t.Day))
	}
	return nil
}

// CompareTransactions orders by day, then by category.
func CompareTransactions(a, b Transaction) int {
	if c := cmp.Compare(a.Day, b.Day); c != 0 {
		return c
	}
	return cmp.Compare(a.Category, b.Category)
}
