package cli

import (
	"context"

	"github.com/robinvdvleuten/accounts/ledger"
	"go.uber.org/zap"
)

type ReconcileCmd struct{}

func (cmd *ReconcileCmd) Run(app *App) error {
	timer := app.phase("reconcile")
	defer timer.End()

	c := app.console
	prompt := timer.Child("statement")
	closingDate, err := c.ReadDate("Statement closing date [YYYY-MM-DD]: ")
	if err != nil {
		return err
	}
	closingBalance, err := c.ReadMoney("Closing balance: ", nil)
	if err != nil {
		return err
	}
	prompt.End()

	date := ledger.YearMonthOf(closingDate)
	previous, err := app.readMonth(date.Prev())
	if err != nil {
		return err
	}
	month, err := app.readMonth(date)
	if err != nil {
		return err
	}

	confirm := ledger.ConfirmFunc(func(_ context.Context, candidate ledger.UnreconciledTransaction) (bool, error) {
		c.Printf("%s: %s - %s\n", ledger.FormatDate(candidate.Date), candidate.Amount, candidate.Description)
		return c.ReadConfirmation("Does the statement contain this transaction?")
	})
	stmt := ledger.Statement{ClosingDate: closingDate, ClosingBalance: closingBalance}
	result, err := ledger.Reconcile(app.ctx, previous, month, stmt, confirm, app.now())
	if err != nil {
		return err
	}

	if !result.Balanced {
		c.Printf("The checking balance at month end was %s\n"+
			"But the reconciled balance is %s\n"+
			"There is a discrepancy of %s -- please investigate and correct this discrepancy\n",
			result.CheckingBalance, result.ReconciledBalance, result.Discrepancy)
		app.logger.Warn("reconciliation discrepancy",
			zap.String("month", date.String()),
			zap.String("discrepancy", result.Discrepancy.String()))
		return NewCommandError(ExitDiscrepancy, "discrepancy of "+result.Discrepancy.String())
	}
	c.Printf("Congratulations, the closing balance of %s matches\n", closingBalance)

	ok, err := c.ReadConfirmation("Write updates to %s?", date)
	if err != nil || !ok {
		return err
	}
	return app.writeMonth(result.Month)
}
