package ledger

import "fmt"

// ComputedTotals is derived from a month's transactions and never persisted.
type ComputedTotals struct {
	TotalCongregationReceipts  Money
	TotalWorldwideReceipts     Money
	TotalReceiptsIn            Money
	TotalReceiptsOut           Money
	TotalCheckingIn            Money
	TotalCheckingOut           Money
	TotalCongregationExpenses  Money
	TotalWorldwideTransfer     Money
	ReceiptsOutstandingBalance Money
	CheckingBalance            Money
	TotalOfAllBalances         Money
}

func computeTotals(m *AccountsMonth) (ComputedTotals, error) {
	t := ComputedTotals{
		ReceiptsOutstandingBalance: m.ReceiptsCarriedForward,
		CheckingBalance:            m.OpeningBalance,
	}

	for i, txn := range m.transactions {
		if !txn.ReceiptsIn.IsZero() {
			switch txn.Category {
			case WorldwideWork:
				t.TotalWorldwideReceipts = t.TotalWorldwideReceipts.Add(txn.ReceiptsIn)
			case LocalCongregationExpenses:
				t.TotalCongregationReceipts = t.TotalCongregationReceipts.Add(txn.ReceiptsIn)
			default:
				return ComputedTotals{}, NewInvariantError("compute totals for "+m.Date.String(),
					fmt.Sprintf("transaction %d (%q) has receipts in for category %s", i+1, txn.Description, txn.Category))
			}
		}

		t.TotalReceiptsIn = t.TotalReceiptsIn.Add(txn.ReceiptsIn)
		t.TotalReceiptsOut = t.TotalReceiptsOut.Add(txn.ReceiptsOut)
		t.TotalCheckingIn = t.TotalCheckingIn.Add(txn.CheckingIn)
		t.TotalCheckingOut = t.TotalCheckingOut.Add(txn.CheckingOut)

		if txn.Category == Expense {
			t.TotalCongregationExpenses = t.TotalCongregationExpenses.Add(txn.CheckingOut)
		}
		for _, sub := range txn.SubTransactions {
			if sub.Category == Expense {
				t.TotalCongregationExpenses = t.TotalCongregationExpenses.Add(sub.Amount)
			}
			if sub.Type == WorldwideWorkFromContributionBoxes {
				t.TotalWorldwideTransfer = t.TotalWorldwideTransfer.Add(sub.Amount)
			}
		}

		t.ReceiptsOutstandingBalance = t.ReceiptsOutstandingBalance.Add(txn.ReceiptsIn).Sub(txn.ReceiptsOut)
		t.CheckingBalance = t.CheckingBalance.Add(txn.CheckingIn).Sub(txn.CheckingOut)
	}

	t.TotalOfAllBalances = t.ReceiptsOutstandingBalance.Add(t.CheckingBalance)
	return t, nil
}
