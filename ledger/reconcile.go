package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// UnreconciledTransaction is a checking account entry that has not yet
// appeared on a bank statement. Amount is positive for deposits.
type UnreconciledTransaction struct {
	Date        time.Time
	Description string
	Amount      Money
}

// Reconciliation records a month matched against its bank statement.
type Reconciliation struct {
	DateReconciled    time.Time
	StatementBalance  Money
	ReconciledBalance Money
	Unreconciled      []UnreconciledTransaction
}

// OutstandingDeposits sums the unreconciled deposits.
func (r *Reconciliation) OutstandingDeposits() Money {
	total := Zero
	for _, u := range r.Unreconciled {
		if u.Amount.IsPositive() {
			total = total.Add(u.Amount)
		}
	}
	return total
}

// OutstandingWithdrawals sums the unreconciled withdrawals as a positive amount.
func (r *Reconciliation) OutstandingWithdrawals() Money {
	total := Zero
	for _, u := range r.Unreconciled {
		if u.Amount.IsNegative() {
			total = total.Sub(u.Amount)
		}
	}
	return total
}

// Verify recomputes the reconciled balance from the statement balance and the
// unreconciled entries and reports any difference.
func (r *Reconciliation) Verify() error {
	computed := r.StatementBalance.Add(r.OutstandingDeposits()).Sub(r.OutstandingWithdrawals())
	if !computed.Equal(r.ReconciledBalance) {
		return NewInvariantError("verify reconciliation",
			fmt.Sprintf("statement balance plus outstanding entries is %s but the reconciled balance is %s",
				computed, r.ReconciledBalance))
	}
	return nil
}

// Statement is the information read off a bank statement.
type Statement struct {
	ClosingDate    time.Time
	ClosingBalance Money
}

// Confirmer answers whether a candidate appears on the statement.
type Confirmer interface {
	OnStatement(ctx context.Context, candidate UnreconciledTransaction) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, candidate UnreconciledTransaction) (bool, error)

func (f ConfirmFunc) OnStatement(ctx context.Context, candidate UnreconciledTransaction) (bool, error) {
	return f(ctx, candidate)
}

// ReconcileResult is the outcome of matching a month against a statement.
// A discrepancy is a normal outcome: Balanced is false and Month is nil.
type ReconcileResult struct {
	Statement         Statement
	Candidates        []UnreconciledTransaction
	Unreconciled      []UnreconciledTransaction
	ReconciledBalance Money
	CheckingBalance   Money
	Balanced          bool
	// Discrepancy is CheckingBalance minus ReconciledBalance.
	Discrepancy Money
	// Month is current with its new reconciliation, set only when Balanced.
	Month *AccountsMonth
}

// ReconcileCandidates returns the entries that still need to be matched
// against a statement: previous's leftover unreconciled entries followed by
// every entry in current that touches the checking account. Deposits sort
// before withdrawals, then by date.
func ReconcileCandidates(previous, current *AccountsMonth) []UnreconciledTransaction {
	var candidates []UnreconciledTransaction
	if previous.Reconciliation != nil {
		candidates = append(candidates, previous.Reconciliation.Unreconciled...)
	}
	for _, txn := range current.transactions {
		if txn.IsZeroChecking() {
			continue
		}
		candidates = append(candidates, UnreconciledTransaction{
			Date:        current.Date.Day(txn.Day),
			Description: txn.Description,
			Amount:      txn.CheckingAmount(),
		})
	}
	slices.SortStableFunc(candidates, func(a, b UnreconciledTransaction) int {
		if a.Amount.IsPositive() != b.Amount.IsPositive() {
			if a.Amount.IsPositive() {
				return -1
			}
			return 1
		}
		return a.Date.Compare(b.Date)
	})
	return candidates
}

// Reconcile matches current against a bank statement. previous must be the
// month before current, closed and reconciled; current must be closed.
// Candidates dated after the statement closing date are skipped. Every
// candidate the confirmer reports as missing from the statement is added to
// the reconciled balance and carried as unreconciled. now stamps the record.
func Reconcile(ctx context.Context, previous, current *AccountsMonth, stmt Statement, confirm Confirmer, now time.Time) (*ReconcileResult, error) {
	if previous.Date != current.Date.Prev() {
		return nil, NewPreconditionError("reconcile", current.Date,
			fmt.Sprintf("%s is not the month before", previous.Date))
	}
	if !previous.Closed || previous.Reconciliation == nil {
		return nil, NewPreconditionError("reconcile", current.Date,
			fmt.Sprintf("the previous month (%s) has not yet been reconciled", previous.Date))
	}
	if !current.Closed {
		return nil, NewPreconditionError("reconcile", current.Date,
			"the month has not been closed yet, close it with close-month first")
	}

	totals, err := current.Totals()
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		Statement:         stmt,
		Candidates:        ReconcileCandidates(previous, current),
		ReconciledBalance: stmt.ClosingBalance,
		CheckingBalance:   totals.CheckingBalance,
	}

	for _, candidate := range result.Candidates {
		if candidate.Date.After(stmt.ClosingDate) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		present, err := confirm.OnStatement(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if !present {
			result.ReconciledBalance = result.ReconciledBalance.Add(candidate.Amount)
			result.Unreconciled = append(result.Unreconciled, candidate)
		}
	}

	result.Discrepancy = result.CheckingBalance.Sub(result.ReconciledBalance)
	result.Balanced = result.Discrepancy.IsZero()
	if !result.Balanced {
		return result, nil
	}

	result.Month = current.WithReconciliation(&Reconciliation{
		DateReconciled:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		StatementBalance:  stmt.ClosingBalance,
		ReconciledBalance: result.ReconciledBalance,
		Unreconciled:      slices.Clone(result.Unreconciled),
	})
	return result, nil
}
