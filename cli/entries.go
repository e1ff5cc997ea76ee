package cli

import (
	"github.com/robinvdvleuten/accounts/ledger"
)

// Default descriptions of generated transactions.
const (
	congregationReceiptsDescription = "Contributions - Local Congregation Expenses"
	worldwideReceiptsDescription    = "Contributions - Worldwide Work"
	depositDescription              = "Deposit to checking account"
)

type AddReceiptsCmd struct{}

func (cmd *AddReceiptsCmd) Run(app *App) error {
	timer := app.phase("add-receipts")
	defer timer.End()

	_, month, err := app.loadOpen("add receipts to")
	if err != nil {
		return err
	}

	c := app.console
	day, err := c.ReadDay("Date (day of the month): ", month.Date)
	if err != nil {
		return err
	}
	zero := ledger.Zero
	worldwide, err := c.ReadMoney("Worldwide Work: ", &zero)
	if err != nil {
		return err
	}
	congregation, err := c.ReadMoney("Local Congregation Expenses: ", &zero)
	if err != nil {
		return err
	}

	var txns []ledger.Transaction
	if !congregation.IsZero() {
		txns = append(txns, ledger.NewTransaction(day, congregationReceiptsDescription,
			ledger.LocalCongregationExpenses, ledger.WithReceiptsIn(congregation)))
	}
	if !worldwide.IsZero() {
		txns = append(txns, ledger.NewTransaction(day, worldwideReceiptsDescription,
			ledger.WorldwideWork, ledger.WithReceiptsIn(worldwide)))
	}

	ok, err := c.ReadConfirmation("Adding %d new transactions to %s", len(txns), month.Date)
	if err != nil || !ok {
		return err
	}
	return app.writeMonth(month.WithTransactions(txns...))
}

type AddDepositCmd struct{}

func (cmd *AddDepositCmd) Run(app *App) error {
	timer := app.phase("add-deposit")
	defer timer.End()

	_, month, err := app.loadOpen("add a deposit to")
	if err != nil {
		return err
	}
	_, err = app.addDeposit(month)
	return err
}

// addDeposit asks for a deposit and writes it. It returns the month as
// stored afterwards.
func (a *App) addDeposit(month *ledger.AccountsMonth) (*ledger.AccountsMonth, error) {
	totals, err := month.Totals()
	if err != nil {
		return nil, err
	}
	outstanding := totals.ReceiptsOutstandingBalance

	c := a.console
	if outstanding.IsZero() {
		ok, err := c.ReadConfirmation("There is currently no receipts balance for %s. "+
			"Are you sure you want to make a deposit?", month.Date)
		if err != nil || !ok {
			return month, err
		}
	}

	day, err := c.ReadDay("Date (day of the month): ", month.Date)
	if err != nil {
		return nil, err
	}
	description, err := c.ReadString("Description [" + depositDescription + "]: ")
	if err != nil {
		return nil, err
	}
	if description == "" {
		description = depositDescription
	}
	amount, err := c.ReadMoney("Amount to deposit ["+outstanding.String()+"]: ", &outstanding)
	if err != nil {
		return nil, err
	}

	updated := month.WithTransactions(ledger.NewTransaction(day, description, ledger.Deposit,
		ledger.WithReceiptsOut(amount), ledger.WithCheckingIn(amount)))
	ok, err := c.ReadConfirmation("Adding new transaction to %s", month.Date)
	if err != nil || !ok {
		return month, err
	}
	if err := a.writeMonth(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

type AddExpenseCmd struct{}

func (cmd *AddExpenseCmd) Run(app *App) error {
	timer := app.phase("add-expense")
	defer timer.End()

	_, month, err := app.loadOpen("add an expense to")
	if err != nil {
		return err
	}

	c := app.console
	day, err := c.ReadDay("Date (day of the month): ", month.Date)
	if err != nil {
		return err
	}
	description, err := c.ReadString("Transaction description: ")
	if err != nil {
		return err
	}
	summary, err := c.ReadString("Transaction summary (for accounts report) [" + description + "]: ")
	if err != nil {
		return err
	}
	amount, err := c.ReadMoney("Amount: ", nil)
	if err != nil {
		return err
	}

	updated := month.WithTransactions(ledger.NewTransaction(day, description, ledger.Expense,
		ledger.WithSummary(summary), ledger.WithCheckingOut(amount)))
	ok, err := c.ReadConfirmation("Adding new transaction to %s", month.Date)
	if err != nil || !ok {
		return err
	}
	return app.writeMonth(updated)
}
