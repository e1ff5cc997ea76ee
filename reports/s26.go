package reports

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robinvdvleuten/accounts/ledger"
)

// maxSheetLines is the number of grid lines on the first page of the S-26.
const maxSheetLines = 52

// AccountsSheetForm fills in the S-26 Accounts Sheet.
type AccountsSheetForm struct {
	env Env
}

func NewAccountsSheetForm(env Env) *AccountsSheetForm {
	return &AccountsSheetForm{env: env}
}

func (r *AccountsSheetForm) Name() string { return "S-26-E Accounts Sheet" }

func (r *AccountsSheetForm) Applicable(*ledger.AccountsMonth) bool { return true }

func (r *AccountsSheetForm) Generate(_ context.Context, month *ledger.AccountsMonth) error {
	return fillForm(r.env, month, r.Name(), r.env.Config.AccountsSheetFormPath, func(w *fieldWriter) error {
		return fillAccountsSheet(w, r.env.Config, month)
	})
}

// SheetLines counts the grid lines the month needs: one per transaction plus
// one per sub-transaction.
func SheetLines(month *ledger.AccountsMonth) int {
	n := 0
	for _, txn := range month.Transactions() {
		n += 1 + len(txn.SubTransactions)
	}
	return n
}

func fillAccountsSheet(w *fieldWriter, cfg *ledger.Config, month *ledger.AccountsMonth) error {
	if n := SheetLines(month); n > maxSheetLines {
		return ledger.NewPreconditionError("render the accounts sheet for", month.Date,
			fmt.Sprintf("%d lines do not fit on one page (at most %d)", n, maxSheetLines))
	}

	w.value("Text1", cfg.CongregationName)
	w.value("Text2", cfg.CongregationCity)
	w.value("Text3", cfg.CongregationState)
	w.value("Text4", month.Date.Month.String())
	w.value("Text5", strconv.Itoa(month.Date.Year))

	i := 0
	for _, txn := range month.Transactions() {
		w.value(fmt.Sprintf("Text7.0.%d", i), strconv.Itoa(txn.Day))
		w.value(fmt.Sprintf("Text8.0.%d", i), txn.Description)
		w.value(fmt.Sprintf("Text9.%d", i), string(txn.Category.Code()))
		w.money(fmt.Sprintf("Text10.%d", i), txn.ReceiptsIn)
		w.money(fmt.Sprintf("Text12.%d", i), txn.ReceiptsOut)
		w.money(fmt.Sprintf("Text14.%d", i), txn.CheckingIn)
		w.money(fmt.Sprintf("Text16.%d", i), txn.CheckingOut)
		i++
		for _, sub := range txn.SubTransactions {
			w.value(fmt.Sprintf("Text8.0.%d", i),
				fmt.Sprintf("%s [%s]", sub.Description, sub.Amount.FormattedStringPreserveZero()))
			w.value(fmt.Sprintf("Text9.%d", i), string(sub.Category.Code()))
			i++
		}
	}

	if !month.Closed {
		return nil
	}
	totals, err := month.Totals()
	if err != nil {
		return err
	}

	w.value("Text24.19", "Total receipts by category:")
	w.value("Text24.20", "Worldwide Work: "+totals.TotalWorldwideReceipts.FormattedStringPreserveZero())
	w.value("Text24.21", "Local Congregation Expense: "+totals.TotalCongregationReceipts.FormattedStringPreserveZero())

	// Totals of all columns.
	w.moneyPreserveZero("Text11", totals.TotalReceiptsIn)
	w.moneyPreserveZero("Text13", totals.TotalReceiptsOut)
	w.moneyPreserveZero("Text15", totals.TotalCheckingIn)
	w.moneyPreserveZero("Text17", totals.TotalCheckingOut)

	// Accounts sheet reconciliation on page two.
	w.value("Text38", month.Date.Day(month.Date.LastDay()).Format("January 2, 2006"))

	w.moneyPreserveZero("Text53", month.ReceiptsCarriedForward)
	w.moneyPreserveZero("Text27", totals.TotalReceiptsIn)
	w.moneyPreserveZero("Text29", totals.TotalReceiptsOut)
	w.moneyPreserveZero("Text40", totals.ReceiptsOutstandingBalance)

	w.moneyPreserveZero("Text56", month.OpeningBalance)
	w.moneyPreserveZero("Text31", totals.TotalCheckingIn)
	w.moneyPreserveZero("Text33", totals.TotalCheckingOut)
	w.moneyPreserveZero("Text42", totals.CheckingBalance)

	w.moneyPreserveZero("Text46", totals.TotalOfAllBalances)
	return nil
}
