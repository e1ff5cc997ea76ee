package cli

import (
	"fmt"

	"github.com/alecthomas/repr"
	"github.com/robinvdvleuten/accounts/output"
)

// DoctorCmd provides utilities for debugging the accounts.
type DoctorCmd struct {
	Totals DoctorTotalsCmd `cmd:"" help:"Dump the computed totals of the month."`
	Months DoctorMonthsCmd `cmd:"" help:"List the stored months with their state."`
}

// DoctorTotalsCmd dumps the month's computed totals.
type DoctorTotalsCmd struct{}

func (cmd *DoctorTotalsCmd) Run(app *App) error {
	_, month, err := app.load()
	if err != nil {
		return err
	}
	totals, err := month.Totals()
	if err != nil {
		return err
	}
	repr.New(app.stdout, repr.Indent("  ")).Println(totalsDump{
		TotalCongregationReceipts:  totals.TotalCongregationReceipts.String(),
		TotalWorldwideReceipts:     totals.TotalWorldwideReceipts.String(),
		TotalReceiptsIn:            totals.TotalReceiptsIn.String(),
		TotalReceiptsOut:           totals.TotalReceiptsOut.String(),
		TotalCheckingIn:            totals.TotalCheckingIn.String(),
		TotalCheckingOut:           totals.TotalCheckingOut.String(),
		TotalCongregationExpenses:  totals.TotalCongregationExpenses.String(),
		TotalWorldwideTransfer:     totals.TotalWorldwideTransfer.String(),
		ReceiptsOutstandingBalance: totals.ReceiptsOutstandingBalance.String(),
		CheckingBalance:            totals.CheckingBalance.String(),
		TotalOfAllBalances:         totals.TotalOfAllBalances.String(),
	})
	return nil
}

// totalsDump mirrors ledger.ComputedTotals with amounts as printed in the
// month documents.
type totalsDump struct {
	TotalCongregationReceipts  string
	TotalWorldwideReceipts     string
	TotalReceiptsIn            string
	TotalReceiptsOut           string
	TotalCheckingIn            string
	TotalCheckingOut           string
	TotalCongregationExpenses  string
	TotalWorldwideTransfer     string
	ReceiptsOutstandingBalance string
	CheckingBalance            string
	TotalOfAllBalances         string
}

type DoctorMonthsCmd struct{}

func (cmd *DoctorMonthsCmd) Run(app *App) error {
	months, err := app.store.ListMonths(app.ctx)
	if err != nil {
		return err
	}
	styles := output.NewStyles(app.stdout)
	for _, date := range months {
		month, err := app.readMonth(date)
		if err != nil {
			return err
		}
		totals, err := month.Totals()
		if err != nil {
			return err
		}
		var state string
		switch {
		case month.Reconciliation != nil:
			state = styles.Success(fmt.Sprintf("%-10s", "reconciled"))
		case month.Closed:
			state = styles.Keyword(fmt.Sprintf("%-10s", "closed"))
		default:
			state = styles.Warning(fmt.Sprintf("%-10s", "open"))
		}
		_, _ = fmt.Fprintf(app.stdout, "%s  %s %3d transactions  %s\n",
			styles.Month(date), state, month.Len(), styles.Money(totals.CheckingBalance))
	}
	return nil
}
