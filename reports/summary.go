package reports

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/robinvdvleuten/accounts/ledger"
)

// Summary returns a Markdown overview of the month: balances, totals and,
// when present, the reconciliation.
func Summary(month *ledger.AccountsMonth) (string, error) {
	totals, err := month.Totals()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	status := "open"
	if month.Closed {
		status = "closed"
	}
	fmt.Fprintf(&b, "# %s\n\n", month.Date.First().Format("January 2006"))
	fmt.Fprintf(&b, "The month is **%s** with %d transactions.\n\n", status, month.Len())

	b.WriteString("## Balances\n\n")
	b.WriteString("| | Receipts | Checking |\n|---|---:|---:|\n")
	row(&b, "Opening", month.ReceiptsCarriedForward, month.OpeningBalance)
	row(&b, "In", totals.TotalReceiptsIn, totals.TotalCheckingIn)
	row(&b, "Out", totals.TotalReceiptsOut, totals.TotalCheckingOut)
	row(&b, "Closing", totals.ReceiptsOutstandingBalance, totals.CheckingBalance)
	fmt.Fprintf(&b, "\nTotal of all balances: **%s**\n\n", totals.TotalOfAllBalances.Display())

	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "- Local congregation receipts: %s\n", totals.TotalCongregationReceipts.Display())
	fmt.Fprintf(&b, "- Worldwide work receipts: %s\n", totals.TotalWorldwideReceipts.Display())
	fmt.Fprintf(&b, "- Congregation expenses: %s\n", totals.TotalCongregationExpenses.Display())
	fmt.Fprintf(&b, "- Worldwide transfer: %s\n", totals.TotalWorldwideTransfer.Display())

	if rec := month.Reconciliation; rec != nil {
		b.WriteString("\n## Reconciliation\n\n")
		fmt.Fprintf(&b, "Reconciled on %s against a statement balance of %s.\n",
			ledger.FormatDate(rec.DateReconciled), rec.StatementBalance.Display())
		if len(rec.Unreconciled) > 0 {
			b.WriteString("\n| Date | Description | Amount |\n|---|---|---:|\n")
			for _, u := range rec.Unreconciled {
				fmt.Fprintf(&b, "| %s | %s | %s |\n", ledger.FormatDate(u.Date), escapeCell(u.Description), u.Amount.Display())
			}
		}
	}
	return b.String(), nil
}

func row(b *strings.Builder, label string, receipts, checking ledger.Money) {
	fmt.Fprintf(b, "| %s | %s | %s |\n", label, receipts.Display(), checking.Display())
}

func escapeCell(s string) string { return strings.ReplaceAll(s, "|", `\|`) }

// RenderMarkdown renders Markdown for the terminal. Without a terminal the
// plain style is used so output stays free of escape codes.
func RenderMarkdown(markdown string, tty bool, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if tty {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"), glamour.WithColorProfile(termenv.Ascii))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
