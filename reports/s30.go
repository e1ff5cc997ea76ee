package reports

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/robinvdvleuten/accounts/ledger"
)

// Expenditure lines occupy Text13..Text28 in description/amount pairs.
const (
	firstExpenditureField = 13
	lastExpenditureField  = 27
)

// AccountsReportForm fills in the S-30 Monthly Congregation Accounts Report.
type AccountsReportForm struct {
	env Env
}

func NewAccountsReportForm(env Env) *AccountsReportForm {
	return &AccountsReportForm{env: env}
}

func (r *AccountsReportForm) Name() string { return "S-30-E Monthly Congregation Accounts Report" }

func (r *AccountsReportForm) Applicable(month *ledger.AccountsMonth) bool { return month.Closed }

func (r *AccountsReportForm) Generate(_ context.Context, month *ledger.AccountsMonth) error {
	return fillForm(r.env, month, r.Name(), r.env.Config.AccountsReportFormPath, func(w *fieldWriter) error {
		return fillAccountsReport(w, r.env.Config, month)
	})
}

// Expenditures groups the month's expenses by description. Expense
// transactions are keyed by their summary description and expense
// sub-transactions by their own description.
func Expenditures(month *ledger.AccountsMonth) map[string]ledger.Money {
	out := make(map[string]ledger.Money)
	for _, txn := range month.Transactions() {
		if txn.Category == ledger.Expense {
			key := txn.SummaryDescription()
			out[key] = out[key].Add(txn.CheckingOut)
		}
		for _, sub := range txn.SubTransactions {
			if sub.Category == ledger.Expense {
				out[sub.Description] = out[sub.Description].Add(sub.Amount)
			}
		}
	}
	return out
}

func fillAccountsReport(w *fieldWriter, cfg *ledger.Config, month *ledger.AccountsMonth) error {
	totals, err := month.Totals()
	if err != nil {
		return err
	}

	w.value("Text1", cfg.CongregationDisplayName())
	w.value("Text2", month.Date.First().Format("January 2006"))

	// Receipts.
	w.value("Text4", `Contributions in "Local Congregation Expenses" box`)
	w.moneyPreserveZero("Text5", totals.TotalCongregationReceipts)
	w.moneyPreserveZero("Text12", totals.TotalCongregationReceipts)

	// Expenditures.
	expenditures := Expenditures(month)
	field := firstExpenditureField
	for _, desc := range slices.Sorted(maps.Keys(expenditures)) {
		if field > lastExpenditureField {
			return ledger.NewPreconditionError("render the accounts report for", month.Date,
				fmt.Sprintf("too many expenditure lines (%d, at most %d)",
					len(expenditures), (lastExpenditureField-firstExpenditureField)/2+1))
		}
		w.value(fmt.Sprintf("Text%d", field), desc)
		w.moneyPreserveZero(fmt.Sprintf("Text%d", field+1), expenditures[desc])
		field += 2
	}
	w.moneyPreserveZero("Text29", totals.TotalCongregationExpenses)

	// Reconciliation of the congregation funds.
	surplus := totals.TotalCongregationReceipts.Sub(totals.TotalCongregationExpenses)
	closing := month.OpeningBalance.Add(surplus)
	if !closing.Equal(totals.CheckingBalance) {
		return ledger.NewInvariantError("render the accounts report for "+month.Date.String(),
			fmt.Sprintf("opening balance plus surplus is %s but the checking balance is %s", closing, totals.CheckingBalance))
	}
	w.moneyPreserveZero("Text3", month.OpeningBalance)
	w.moneyPreserveZero("Text30", surplus)
	w.moneyPreserveZero("Text31", closing)
	w.moneyPreserveZero("Text39", closing)

	// Funds on hand at the beginning of the month.
	opening := month.OpeningBalance.Add(month.ReceiptsCarriedForward)
	w.moneyPreserveZero("Text40", opening)

	receipts := totals.TotalCongregationReceipts.Add(totals.TotalWorldwideReceipts)
	if !receipts.Equal(totals.TotalReceiptsIn) {
		return ledger.NewInvariantError("render the accounts report for "+month.Date.String(),
			fmt.Sprintf("categorized receipts are %s but total receipts in are %s", receipts, totals.TotalReceiptsIn))
	}
	w.moneyPreserveZero("Text41", totals.TotalCongregationReceipts)
	w.moneyPreserveZero("Text42", totals.TotalWorldwideReceipts)
	w.moneyPreserveZero("Text45", receipts)

	disbursements := totals.TotalCongregationExpenses.Add(totals.TotalWorldwideTransfer)
	if !disbursements.Equal(totals.TotalCheckingOut) {
		return ledger.NewInvariantError("render the accounts report for "+month.Date.String(),
			fmt.Sprintf("expenses plus worldwide transfer are %s but total checking out is %s", disbursements, totals.TotalCheckingOut))
	}
	w.moneyPreserveZero("Text46", totals.TotalCongregationExpenses)
	w.moneyPreserveZero("Text47", totals.TotalWorldwideTransfer)
	w.moneyPreserveZero("Text50", disbursements)

	ending := opening.Add(receipts).Sub(disbursements)
	if !ending.Equal(totals.TotalOfAllBalances) {
		return ledger.NewInvariantError("render the accounts report for "+month.Date.String(),
			fmt.Sprintf("funds at the end of the month are %s but the total of all balances is %s", ending, totals.TotalOfAllBalances))
	}
	w.moneyPreserveZero("Text51", ending)

	// Announcement to the congregation.
	w.value("Text53", month.Date.Month.String())
	w.moneyPreserveZero("Text54", totals.TotalCongregationReceipts)
	w.moneyPreserveZero("Text55", totals.TotalCongregationExpenses)
	w.moneyPreserveZero("Text56", totals.TotalOfAllBalances)
	w.moneyPreserveZero("Text57", totals.TotalWorldwideTransfer)
	return nil
}
