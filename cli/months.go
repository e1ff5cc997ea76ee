package cli

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/accounts/ledger"
	"github.com/robinvdvleuten/accounts/storage"
	"go.uber.org/zap"
)

type OpenMonthCmd struct{}

func (cmd *OpenMonthCmd) Run(app *App) error {
	timer := app.phase("open-month")
	defer timer.End()

	cfg, err := app.readConfig()
	if err != nil {
		return err
	}
	date, err := app.selectedMonth(cfg)
	if err != nil {
		return err
	}

	switch _, err := app.store.ReadMonth(app.ctx, date); {
	case err == nil:
		return ledger.NewPreconditionError("open", date, "the month already exists")
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("read month: %w", err)
	}

	previous, err := app.readMonth(date.Prev())
	if err != nil {
		return err
	}
	if !previous.Closed {
		return ledger.NewPreconditionError("open", date,
			fmt.Sprintf("the previous month (%s) has not been closed yet", previous.Date))
	}
	month, err := previous.NextMonth()
	if err != nil {
		return err
	}

	ok, err := app.console.ReadConfirmation("Opening %s with a checking balance of %s and %s in receipts",
		month.Date, month.OpeningBalance, month.ReceiptsCarriedForward)
	if err != nil || !ok {
		return err
	}
	return app.writeMonth(month)
}

type CloseMonthCmd struct{}

func (cmd *CloseMonthCmd) Run(app *App) error {
	timer := app.phase("close-month")
	defer timer.End()

	cfg, month, err := app.loadOpen("close")
	if err != nil {
		return err
	}

	totals, err := month.Totals()
	if err != nil {
		return err
	}
	if outstanding := totals.ReceiptsOutstandingBalance; !outstanding.IsZero() {
		ok, err := app.console.ReadConfirmation("There is a receipts balance of %s remaining. "+
			"Would you like to add a deposit?", outstanding)
		if err != nil {
			return err
		}
		if ok {
			if month, err = app.addDeposit(month); err != nil {
				return err
			}
		}
	}

	result, err := ledger.CloseMonth(month, cfg)
	if err != nil {
		return err
	}
	// Closing an older month leaves the current month where it is.
	next := result.Config
	if cfg.CurrentMonth != month.Date {
		next = cfg
	}

	ok, err := app.console.ReadConfirmation("Confirm closing month %s", month.Date)
	if err != nil || !ok {
		return err
	}
	commit := timer.Child("commit")
	err = app.store.Commit(app.ctx, result.Month, next)
	commit.End()
	if err != nil {
		return fmt.Errorf("close month: %w", err)
	}
	app.logger.Info("closed month",
		zap.String("month", month.Date.String()),
		zap.String("transfer", result.Transfer.CheckingOut.String()),
		zap.String("current", next.CurrentMonth.String()))

	ok, err = app.console.ReadConfirmation("Generate PDFs for %s?", month.Date)
	if err != nil || !ok {
		return err
	}
	return app.generate(next, result.Month, timer)
}
