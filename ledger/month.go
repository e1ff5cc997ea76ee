package ledger

import (
	"slices"
	"sync"
)

// AccountsMonth is one calendar month of the accounts. Values are never
// modified in place: every With* method returns a new month, which also
// means the memoized totals never go stale.
type AccountsMonth struct {
	Date                   YearMonth
	OpeningBalance         Money
	ReceiptsCarriedForward Money
	Closed                 bool
	Reconciliation         *Reconciliation

	transactions []Transaction

	totalsOnce sync.Once
	totals     ComputedTotals
	totalsErr  error
}

// NewMonth returns an open month with no transactions.
func NewMonth(date YearMonth, openingBalance, receiptsCarriedForward Money) *AccountsMonth {
	return &AccountsMonth{
		Date:                   date,
		OpeningBalance:         openingBalance,
		ReceiptsCarriedForward: receiptsCarriedForward,
	}
}

// Transactions returns a copy of the month's transactions in ledger order.
func (m *AccountsMonth) Transactions() []Transaction {
	return slices.Clone(m.transactions)
}

// Len returns the number of transactions.
func (m *AccountsMonth) Len() int { return len(m.transactions) }

func (m *AccountsMonth) clone() *AccountsMonth {
	return &AccountsMonth{
		Date:                   m.Date,
		OpeningBalance:         m.OpeningBalance,
		ReceiptsCarriedForward: m.ReceiptsCarriedForward,
		Closed:                 m.Closed,
		Reconciliation:         m.Reconciliation,
		transactions:           slices.Clone(m.transactions),
	}
}

// WithTransactions merges txns into the ledger. The result is sorted by day
// and category; transactions that compare equal keep their insertion order.
func (m *AccountsMonth) WithTransactions(txns ...Transaction) *AccountsMonth {
	next := m.clone()
	next.transactions = append(next.transactions, txns...)
	slices.SortStableFunc(next.transactions, CompareTransactions)
	return next
}

// WithClosed returns a copy of the month marked closed.
func (m *AccountsMonth) WithClosed() *AccountsMonth {
	next := m.clone()
	next.Closed = true
	return next
}

// WithReconciliation returns a copy of the month carrying r.
func (m *AccountsMonth) WithReconciliation(r *Reconciliation) *AccountsMonth {
	next := m.clone()
	next.Reconciliation = r
	return next
}

// Totals folds the transactions into monthly totals. The result is computed
// once per month value.
func (m *AccountsMonth) Totals() (ComputedTotals, error) {
	m.totalsOnce.Do(func() {
		m.totals, m.totalsErr = computeTotals(m)
	})
	return m.totals, m.totalsErr
}

// TransferTransaction returns the last transaction that carries
// sub-transactions, which is the branch transfer posted when closing.
func (m *AccountsMonth) TransferTransaction() (Transaction, bool) {
	for i := len(m.transactions) - 1; i >= 0; i-- {
		if len(m.transactions[i].SubTransactions) > 0 {
			return m.transactions[i], true
		}
	}
	return Transaction{}, false
}

// NextMonth opens the following month, carrying the checking balance and any
// undeposited receipts forward.
func (m *AccountsMonth) NextMonth() (*AccountsMonth, error) {
	totals, err := m.Totals()
	if err != nil {
		return nil, err
	}
	return NewMonth(m.Date.Next(), totals.CheckingBalance, totals.ReceiptsOutstandingBalance), nil
}
