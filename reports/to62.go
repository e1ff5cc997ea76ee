package reports

import (
	"context"
	"fmt"

	"github.com/robinvdvleuten/accounts/ledger"
)

// Branch transfer fields by resolution type.
var transferFields = map[ledger.ResolutionType]string{
	ledger.WorldwideWorkFromContributionBoxes:  "Text2.0.0.0",
	ledger.KingdomHallAndAssemblyHallWorldwide: "Text2.0.0.2",
}

// BranchTransferForm fills in the TO-62 Record of Electronic Funds Transfer.
type BranchTransferForm struct {
	env Env
}

func NewBranchTransferForm(env Env) *BranchTransferForm {
	return &BranchTransferForm{env: env}
}

func (r *BranchTransferForm) Name() string { return "TO-62-E Record of Electronic Funds Transfer" }

func (r *BranchTransferForm) Applicable(month *ledger.AccountsMonth) bool { return month.Closed }

func (r *BranchTransferForm) Generate(_ context.Context, month *ledger.AccountsMonth) error {
	return fillForm(r.env, month, r.Name(), r.env.Config.FundsTransferFormPath, func(w *fieldWriter) error {
		return fillBranchTransfer(w, r.env.Config, month)
	})
}

func fillBranchTransfer(w *fieldWriter, cfg *ledger.Config, month *ledger.AccountsMonth) error {
	transfer, ok := month.TransferTransaction()
	if !ok {
		return ledger.NewPreconditionError("render the funds transfer for", month.Date, "the month has no branch transfer")
	}

	w.checkBox("Check Box1", true)
	w.value("Text1", cfg.CongregationDisplayName())
	w.money("Text5", transfer.CheckingOut)

	for _, sub := range transfer.SubTransactions {
		field, ok := transferFields[sub.Type]
		if !ok {
			return ledger.NewInvariantError("render the funds transfer for "+month.Date.String(),
				fmt.Sprintf("no field for transfer type %s (%q)", sub.Type, sub.Description))
		}
		w.money(field, sub.Amount)
	}
	return nil
}
