package ledger

// worldwideWorkDescription is the description of the sub-transaction that
// forwards the month's contribution box receipts.
const worldwideWorkDescription = "Worldwide Work"

// CloseResult is the outcome of closing a month. Nothing is persisted until
// the caller commits Month and Config together.
type CloseResult struct {
	Month    *AccountsMonth
	Config   *Config
	Transfer Transaction
}

// CloseMonth posts the branch transfer for month on its last day, marks it
// closed and advances the configured current month. month and cfg are not
// modified.
func CloseMonth(month *AccountsMonth, cfg *Config) (*CloseResult, error) {
	if month.Closed {
		return nil, NewPreconditionError("close", month.Date, "the month is already closed")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	totals, err := month.Totals()
	if err != nil {
		return nil, err
	}

	subs := make([]SubTransaction, 0, len(cfg.BranchResolutions)+1)
	subs = append(subs, SubTransaction{
		Description: worldwideWorkDescription,
		Category:    WorldwideWork,
		Type:        WorldwideWorkFromContributionBoxes,
		Amount:      totals.TotalWorldwideReceipts,
	})
	total := totals.TotalWorldwideReceipts
	for _, r := range cfg.BranchResolutions {
		subs = append(subs, SubTransaction{
			Description: r.Description,
			Category:    r.Category,
			Type:        r.Type,
			Amount:      r.Amount,
		})
		total = total.Add(r.Amount)
	}

	transfer := NewTransaction(month.Date.LastDay(), cfg.Transfer(), Other,
		WithCheckingOut(total),
		WithSubTransactions(subs...),
	)

	closed := month.WithTransactions(transfer).WithClosed()
	if _, err := closed.Totals(); err != nil {
		return nil, err
	}

	return &CloseResult{
		Month:    closed,
		Config:   cfg.WithCurrentMonth(month.Date.Next()),
		Transfer: transfer,
	}, nil
}
