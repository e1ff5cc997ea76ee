package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/robinvdvleuten/accounts/ledger"
	"go.uber.org/zap"
)

const (
	amountWidth      = 10
	dateWidth        = 6
	descriptionWidth = 50
)

// writeText renders a plain text report into the month's directory.
func writeText(env Env, month *ledger.AccountsMonth, filename string, render func(*strings.Builder) error) error {
	env.printf("Generating %s\n", filename)
	var b strings.Builder
	if err := render(&b); err != nil {
		return err
	}
	path := env.path(month, filename)
	env.printf("Writing %s\n", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return err
	}
	env.logger().Info("generated report", zap.String("month", month.Date.String()), zap.String("path", path))
	return nil
}

// ReconciliationText writes the bank statement reconciliation worksheet.
type ReconciliationText struct {
	env Env
}

func NewReconciliationText(env Env) *ReconciliationText {
	return &ReconciliationText{env: env}
}

func (r *ReconciliationText) Name() string { return "Reconciliation.txt" }

func (r *ReconciliationText) Applicable(month *ledger.AccountsMonth) bool {
	return month.Reconciliation != nil
}

func (r *ReconciliationText) Generate(_ context.Context, month *ledger.AccountsMonth) error {
	return writeText(r.env, month, r.Name(), func(b *strings.Builder) error {
		return RenderReconciliation(b, month)
	})
}

// RenderReconciliation writes the reconciliation worksheet for month.
func RenderReconciliation(b *strings.Builder, month *ledger.AccountsMonth) error {
	rec := month.Reconciliation
	if rec == nil {
		return ledger.NewPreconditionError("render the reconciliation for", month.Date, "the month has not been reconciled")
	}

	fmt.Fprintf(b, "Bank Statement Reconciliation for %s\n\n", month.Date.First().Format("January 2006"))
	fmt.Fprintf(b, "Ending balance from bank statement: %s\n", rec.StatementBalance.FormattedStringPreserveZero())

	fmt.Fprintf(b, "\nDeposits not listed on statement:\n")
	for _, u := range rec.Unreconciled {
		if u.Amount.IsPositive() {
			writeUnreconciled(b, u)
		}
	}
	deposits := rec.OutstandingDeposits()
	fmt.Fprintf(b, "Total: %s\n", deposits.FormattedStringPreserveZero())

	subtotal := rec.StatementBalance.Add(deposits)
	fmt.Fprintf(b, "\nSubtotal: %s\n", subtotal.FormattedStringPreserveZero())

	fmt.Fprintf(b, "\nOutstanding checks and withdrawals:\n")
	for _, u := range rec.Unreconciled {
		if u.Amount.IsNegative() {
			writeUnreconciled(b, u)
		}
	}
	withdrawals := rec.OutstandingWithdrawals()
	fmt.Fprintf(b, "Total: %s\n", withdrawals.FormattedStringPreserveZero())

	fmt.Fprintf(b, "\nEnding balance: %s\n", rec.ReconciledBalance.FormattedStringPreserveZero())

	if err := rec.Verify(); err != nil {
		computed := subtotal.Sub(withdrawals)
		fmt.Fprintf(b, "\nDiscrepancy of %s\n", computed.Sub(rec.ReconciledBalance).FormattedStringPreserveZero())
	} else {
		fmt.Fprintf(b, "\nReconciliation: OK\n")
	}
	fmt.Fprintf(b, "Reconciled on %s\n", ledger.FormatDate(rec.DateReconciled))
	return nil
}

func writeUnreconciled(b *strings.Builder, u ledger.UnreconciledTransaction) {
	fmt.Fprintf(b, "    %s %s %s\n", ledger.FormatDate(u.Date), u.Amount.Abs().PaddedString(amountWidth), u.Description)
}

// CheckbookEntriesText writes the month's checking account entries in
// checkbook register layout.
type CheckbookEntriesText struct {
	env Env
}

func NewCheckbookEntriesText(env Env) *CheckbookEntriesText {
	return &CheckbookEntriesText{env: env}
}

func (r *CheckbookEntriesText) Name() string { return "CheckbookEntries.txt" }

func (r *CheckbookEntriesText) Applicable(*ledger.AccountsMonth) bool { return true }

func (r *CheckbookEntriesText) Generate(_ context.Context, month *ledger.AccountsMonth) error {
	return writeText(r.env, month, r.Name(), func(b *strings.Builder) error {
		RenderCheckbook(b, month)
		return nil
	})
}

// RenderCheckbook writes an opening balance line followed by one line per
// transaction that touches the checking account, with a running balance.
// Zero deposits and withdrawals are left blank.
func RenderCheckbook(b *strings.Builder, month *ledger.AccountsMonth) {
	balance := month.OpeningBalance
	writeCheckbookLine(b, "", "Opening balance", ledger.Zero, ledger.Zero, balance)
	for _, txn := range month.Transactions() {
		if txn.IsZeroChecking() {
			continue
		}
		balance = balance.Add(txn.CheckingIn).Sub(txn.CheckingOut)
		date := month.Date.Day(txn.Day).Format("01/02")
		writeCheckbookLine(b, date, txn.Description, txn.CheckingOut, txn.CheckingIn, balance)
	}
}

func writeCheckbookLine(b *strings.Builder, date, description string, out, in, balance ledger.Money) {
	b.WriteString(runewidth.FillLeft(date, dateWidth))
	b.WriteString("  ")
	b.WriteString(runewidth.FillRight(description, descriptionWidth))
	b.WriteString(out.PaddedString(amountWidth))
	b.WriteString(in.PaddedString(amountWidth))
	b.WriteString(runewidth.FillLeft(balance.FormattedStringPreserveZero(), amountWidth))
	b.WriteString("\n")
}
