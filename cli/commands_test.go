package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/accounts/config"
	"github.com/robinvdvleuten/accounts/console"
	"github.com/robinvdvleuten/accounts/ledger"
	"github.com/robinvdvleuten/accounts/reports"
	"github.com/robinvdvleuten/accounts/storage"
)

var (
	february = ledger.MustParseYearMonth("2024-02")
	march    = ledger.MustParseYearMonth("2024-03")
	april    = ledger.MustParseYearMonth("2024-04")
	m        = ledger.MustParseMoney
)

type fakeForm struct {
	output string
	fields map[string]string
}

func (f *fakeForm) SetValue(field, value string) error {
	f.fields[field] = value
	return nil
}

func (f *fakeForm) SetCheckBox(string, bool) error { return nil }
func (f *fakeForm) Save() error                    { return nil }
func (f *fakeForm) Close() error                   { return nil }

type fakeForms struct {
	forms []*fakeForm
}

func (f *fakeForms) Create(_, outputPath string) (reports.Form, error) {
	form := &fakeForm{output: outputPath, fields: make(map[string]string)}
	f.forms = append(f.forms, form)
	return form, nil
}

// harness runs commands against an in-memory ledger.
type harness struct {
	t       *testing.T
	store   *storage.MemoryStore
	forms   *fakeForms
	console bytes.Buffer
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	now     time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		t:     t,
		store: storage.NewMemoryStore(),
		forms: &fakeForms{},
		now:   time.Date(2024, time.April, 8, 14, 30, 0, 0, time.UTC),
	}
}

func (h *harness) run(input string, args ...string) CommandResult {
	h.t.Helper()
	h.console.Reset()
	h.stdout.Reset()
	h.stderr.Reset()
	return Execute(context.Background(), args, Deps{
		Settings: &config.Settings{Backend: config.BackendFile, LogLevel: "error", WebPort: "8080"},
		Store:    h.store,
		Console:  console.NewLine(strings.NewReader(input), &h.console),
		Forms:    h.forms,
		Stdout:   &h.stdout,
		Stderr:   &h.stderr,
		Now:      func() time.Time { return h.now },
		Exit:     func(int) {},
	})
}

func (h *harness) seed(cfg *ledger.Config, months ...*ledger.AccountsMonth) {
	h.t.Helper()
	ctx := context.Background()
	assert.NoError(h.t, h.store.UpdateConfig(ctx, cfg))
	for _, month := range months {
		assert.NoError(h.t, h.store.WriteMonth(ctx, month))
	}
}

func (h *harness) month(date ledger.YearMonth) *ledger.AccountsMonth {
	h.t.Helper()
	month, err := h.store.ReadMonth(context.Background(), date)
	assert.NoError(h.t, err)
	return month
}

func (h *harness) config() *ledger.Config {
	h.t.Helper()
	cfg, err := h.store.ReadConfig(context.Background())
	assert.NoError(h.t, err)
	return cfg
}

func testConfig(t *testing.T) *ledger.Config {
	return &ledger.Config{
		CongregationName:       "North",
		CongregationCity:       "Springfield",
		CongregationState:      "IL",
		AccountsSheetFormPath:  "forms/S-26-E.pdf",
		FundsTransferFormPath:  "forms/TO-62-E.pdf",
		AccountsReportFormPath: "forms/S-30-E.pdf",
		RootDir:                t.TempDir(),
		CurrentMonth:           march,
		BranchResolutions: []ledger.BranchResolution{
			ledger.NewBranchResolution("Kingdom Hall and Assembly Hall Worldwide Work",
				ledger.KingdomHallAndAssemblyHallWorldwide, m("25")),
		},
	}
}

func receipts() []ledger.Transaction {
	return []ledger.Transaction{
		ledger.NewTransaction(3, "Contributions - Local Congregation Expenses", ledger.LocalCongregationExpenses,
			ledger.WithReceiptsIn(m("100"))),
		ledger.NewTransaction(3, "Contributions - Worldwide Work", ledger.WorldwideWork,
			ledger.WithReceiptsIn(m("50"))),
	}
}

func expense() ledger.Transaction {
	return ledger.NewTransaction(10, "Electric bill", ledger.Expense,
		ledger.WithSummary("Utilities"), ledger.WithCheckingOut(m("40")))
}

func deposit() ledger.Transaction {
	return ledger.NewTransaction(5, "Deposit to checking account", ledger.Deposit,
		ledger.WithReceiptsOut(m("150")), ledger.WithCheckingIn(m("150")))
}

func emptyMarch() *ledger.AccountsMonth {
	return ledger.NewMonth(march, m("1000"), ledger.Zero)
}

func closedMarch(t *testing.T) *ledger.AccountsMonth {
	t.Helper()
	month := emptyMarch().WithTransactions(append(receipts(), deposit(), expense())...)
	result, err := ledger.CloseMonth(month, testConfig(t))
	assert.NoError(t, err)
	return result.Month
}

func TestAddReceipts(t *testing.T) {
	t.Run("AddsCongregationBeforeWorldwide", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch())

		result := h.run("3\n50\n100\n\n", "add-receipts")
		assert.Equal(t, 0, result.ExitCode)
		assert.Contains(t, h.console.String(),
			"Date (day of the month): Worldwide Work: Local Congregation Expenses: Adding 2 new transactions to 2024-03 [Y/n] ")

		assert.Equal(t, receipts(), h.month(march).Transactions())
	})

	t.Run("SkipsZeroAmounts", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch())

		result := h.run("3\n\n100\n\n", "add-receipts")
		assert.Equal(t, 0, result.ExitCode)
		assert.Equal(t, receipts()[:1], h.month(march).Transactions())
	})

	t.Run("NegativeConfirmationWritesNothing", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch())

		result := h.run("3\n50\n100\nn\n", "add-receipts")
		assert.Equal(t, 0, result.ExitCode)
		assert.Contains(t, h.console.String(), "Got negative response, aborting.\n")
		assert.Equal(t, 0, h.month(march).Len())
	})

	t.Run("RetriesInvalidDay", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch())

		result := h.run("32\n3\n50\n100\n\n", "add-receipts")
		assert.Equal(t, 0, result.ExitCode)
		assert.Contains(t, h.console.String(), "2024-03 has no day 32.")
		assert.Equal(t, 2, h.month(march).Len())
	})

	t.Run("RejectsClosedMonth", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), closedMarch(t))

		result := h.run("", "add-receipts")
		assert.Equal(t, ExitFailure, result.ExitCode)
		assert.True(t, ledger.IsPreconditionError(result.Err))
		assert.Contains(t, h.stderr.String(), "precondition failed")
	})

	t.Run("EndOfInput", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch())

		result := h.run("3\n", "add-receipts")
		assert.Equal(t, ExitFailure, result.ExitCode)
		assert.Contains(t, h.stderr.String(), "Unexpected end of input.")
	})
}

func TestAddDeposit(t *testing.T) {
	t.Run("DefaultsToOutstandingReceipts", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch().WithTransactions(receipts()...))

		result := h.run("5\n\n\n\n", "add-deposit")
		assert.Equal(t, 0, result.ExitCode)
		assert.Contains(t, h.console.String(), "Description [Deposit to checking account]: ")
		assert.Contains(t, h.console.String(), "Amount to deposit [150.00]: ")
		assert.Contains(t, h.console.String(), "Adding new transaction to 2024-03 [Y/n] ")

		txns := h.month(march).Transactions()
		assert.Equal(t, 3, len(txns))
		assert.Equal(t, deposit(), txns[2])
	})

	t.Run("CustomDescriptionAndAmount", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch().WithTransactions(receipts()...))

		result := h.run("6\nBranch office deposit\n100\n\n", "add-deposit")
		assert.Equal(t, 0, result.ExitCode)

		totals, err := h.month(march).Totals()
		assert.NoError(t, err)
		assert.Equal(t, m("50"), totals.ReceiptsOutstandingBalance)
		assert.Equal(t, "Branch office deposit", h.month(march).Transactions()[2].Description)
	})

	t.Run("AsksWhenNothingIsOutstanding", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch())

		result := h.run("n\n", "add-deposit")
		assert.Equal(t, 0, result.ExitCode)
		assert.Contains(t, h.console.String(),
			"There is currently no receipts balance for 2024-03. Are you sure you want to make a deposit? [Y/n] ")
		assert.Equal(t, 0, h.month(march).Len())
	})
}

func TestAddExpense(t *testing.T) {
	h := newHarness(t)
	h.seed(testConfig(t), emptyMarch())

	result := h.run("10\nElectric bill\nUtilities\n40\n\n", "add-expense")
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, h.console.String(), "Transaction summary (for accounts report) [Electric bill]: ")
	assert.Equal(t, []ledger.Transaction{expense()}, h.month(march).Transactions())
}

func TestAddExpenseWithoutSummary(t *testing.T) {
	h := newHarness(t)
	h.seed(testConfig(t), emptyMarch())

	result := h.run("10\nElectric bill\n\n40\n\n", "add-expense")
	assert.Equal(t, 0, result.ExitCode)
	txn := h.month(march).Transactions()[0]
	assert.Equal(t, "", txn.Summary)
	assert.Equal(t, "Electric bill", txn.SummaryDescription())
}

func TestCloseMonth(t *testing.T) {
	t.Run("OffersDepositThenCloses", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch().WithTransactions(append(receipts(), expense())...))

		// Deposit: yes, day 5, default description, default amount, confirm.
		// Then confirm closing and decline the forms.
		result := h.run("y\n5\n\n\n\n\nn\n", "close-month")
		assert.Equal(t, 0, result.ExitCode)
		assert.Contains(t, h.console.String(),
			"There is a receipts balance of 150.00 remaining. Would you like to add a deposit? [Y/n] ")
		assert.Contains(t, h.console.String(), "Confirm closing month 2024-03 [Y/n] ")
		assert.Contains(t, h.console.String(), "Generate PDFs for 2024-03? [Y/n] ")

		month := h.month(march)
		assert.True(t, month.Closed)
		transfer, ok := month.TransferTransaction()
		assert.True(t, ok)
		assert.Equal(t, m("75"), transfer.CheckingOut)
		assert.Equal(t, 31, transfer.Day)
		assert.Equal(t, closedMarch(t).Transactions(), month.Transactions())

		assert.Equal(t, april, h.config().CurrentMonth)
		assert.Equal(t, 0, len(h.forms.forms))
	})

	t.Run("GeneratesForms", func(t *testing.T) {
		h := newHarness(t)
		cfg := testConfig(t)
		h.seed(cfg, emptyMarch().WithTransactions(append(receipts(), deposit(), expense())...))

		result := h.run("\n\n", "close-month")
		assert.Equal(t, 0, result.ExitCode)
		assert.Equal(t, 3, len(h.forms.forms))
		assert.Equal(t, filepath.Join(cfg.RootDir, "2024-03", "S-26-E Accounts Sheet.xfdf"), h.forms.forms[1].output)
		assert.Contains(t, h.console.String(), "Generating CheckbookEntries.txt\n")

		_, err := os.Stat(filepath.Join(cfg.RootDir, "2024-03", "CheckbookEntries.txt"))
		assert.NoError(t, err)
	})

	t.Run("DeclinedCloseWritesNothing", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch().WithTransactions(append(receipts(), deposit())...))

		result := h.run("n\n", "close-month")
		assert.Equal(t, 0, result.ExitCode)
		assert.False(t, h.month(march).Closed)
		assert.Equal(t, march, h.config().CurrentMonth)
	})

	t.Run("OlderMonthKeepsCurrentMonth", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), ledger.NewMonth(february, m("1000"), ledger.Zero), emptyMarch())

		result := h.run("\nn\n", "--month", "2024-02", "close-month")
		assert.Equal(t, 0, result.ExitCode)
		assert.True(t, h.month(february).Closed)
		assert.Equal(t, march, h.config().CurrentMonth)
	})

	t.Run("AlreadyClosed", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), closedMarch(t))

		result := h.run("", "close-month")
		assert.Equal(t, ExitFailure, result.ExitCode)
		assert.True(t, ledger.IsPreconditionError(result.Err))
	})
}

func TestOpenMonth(t *testing.T) {
	t.Run("CarriesBalancesForward", func(t *testing.T) {
		h := newHarness(t)
		cfg := testConfig(t)
		cfg.CurrentMonth = april
		h.seed(cfg, closedMarch(t))

		result := h.run("\n", "open-month")
		assert.Equal(t, 0, result.ExitCode)
		assert.Contains(t, h.console.String(),
			"Opening 2024-04 with a checking balance of 1035.00 and 0.00 in receipts [Y/n] ")

		month := h.month(april)
		assert.Equal(t, m("1035"), month.OpeningBalance)
		assert.True(t, month.ReceiptsCarriedForward.IsZero())
		assert.False(t, month.Closed)
	})

	t.Run("PreviousMonthStillOpen", func(t *testing.T) {
		h := newHarness(t)
		cfg := testConfig(t)
		cfg.CurrentMonth = april
		h.seed(cfg, emptyMarch())

		result := h.run("", "open-month")
		assert.Equal(t, ExitFailure, result.ExitCode)
		assert.True(t, ledger.IsPreconditionError(result.Err))
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), emptyMarch())

		result := h.run("", "open-month")
		assert.Equal(t, ExitFailure, result.ExitCode)
		assert.Contains(t, result.Err.Error(), "already exists")
	})
}

func reconciledFebruary() *ledger.AccountsMonth {
	return ledger.NewMonth(february, m("1000"), ledger.Zero).WithClosed().WithReconciliation(&ledger.Reconciliation{
		DateReconciled:    time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
		StatementBalance:  m("1000"),
		ReconciledBalance: m("1000"),
	})
}

func TestReconcile(t *testing.T) {
	t.Run("Balanced", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), reconciledFebruary(), closedMarch(t))

		// Deposit and expense cleared, transfer outstanding, then write.
		result := h.run("2024-03-31\n1110\n\n\nn\n\n", "reconcile")
		assert.Equal(t, 0, result.ExitCode)

		out := h.console.String()
		assert.Contains(t, out, "2024-03-05: 150.00 - Deposit to checking account\n")
		assert.Contains(t, out, "2024-03-10: (40.00) - Electric bill\n")
		assert.Contains(t, out, "2024-03-31: (75.00) - jw.org Transfer\n")
		assert.Contains(t, out, "Congratulations, the closing balance of 1110.00 matches\n")
		assert.Contains(t, out, "Write updates to 2024-03? [Y/n] ")

		rec := h.month(march).Reconciliation
		assert.NotZero(t, rec)
		assert.Equal(t, m("1110"), rec.StatementBalance)
		assert.Equal(t, m("1035"), rec.ReconciledBalance)
		assert.Equal(t, time.Date(2024, time.April, 8, 0, 0, 0, 0, time.UTC), rec.DateReconciled)
		assert.Equal(t, []ledger.UnreconciledTransaction{
			{Date: march.Day(31), Description: "jw.org Transfer", Amount: m("(75)")},
		}, rec.Unreconciled)
	})

	t.Run("Discrepancy", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), reconciledFebruary(), closedMarch(t))

		result := h.run("2024-03-31\n1000\n\n\n\n", "reconcile")
		assert.Equal(t, ExitDiscrepancy, result.ExitCode)
		assert.Contains(t, h.console.String(),
			"The checking balance at month end was 1035.00\n"+
				"But the reconciled balance is 1000.00\n"+
				"There is a discrepancy of 35.00 -- please investigate and correct this discrepancy\n")
		assert.Equal(t, "", h.stderr.String())
		assert.Zero(t, h.month(march).Reconciliation)
	})

	t.Run("SkipsEntriesAfterClosingDate", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), reconciledFebruary(), closedMarch(t))

		// The transfer on the 31st is not asked about and does not count.
		result := h.run("2024-03-30\n1110\n\n\n\n", "reconcile")
		assert.Equal(t, ExitDiscrepancy, result.ExitCode)
		assert.NotContains(t, h.console.String(), "jw.org Transfer")
	})

	t.Run("PreviousMonthNotReconciled", func(t *testing.T) {
		h := newHarness(t)
		h.seed(testConfig(t), ledger.NewMonth(february, m("1000"), ledger.Zero).WithClosed(), closedMarch(t))

		result := h.run("2024-03-31\n1110\n", "reconcile")
		assert.Equal(t, ExitFailure, result.ExitCode)
		assert.Contains(t, result.Err.Error(), "has not yet been reconciled")
	})
}

func TestInit(t *testing.T) {
	h := newHarness(t)
	root := t.TempDir()

	input := strings.Join([]string{
		"North", "Springfield", "IL", root,
		"forms/S-26-E.pdf", "forms/S-30-E.pdf", "forms/TO-62-E.pdf",
		"", "1000", "", "",
	}, "\n") + "\n"
	result := h.run(input, "init")
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, h.console.String(), "First month [2024-04]: ")
	assert.Contains(t, h.stdout.String(), "Created the accounts for North, Springfield, IL")

	cfg := h.config()
	assert.Equal(t, "North", cfg.CongregationName)
	assert.Equal(t, root, cfg.RootDir)
	assert.Equal(t, "forms/S-30-E.pdf", cfg.AccountsReportFormPath)
	assert.Equal(t, "forms/TO-62-E.pdf", cfg.FundsTransferFormPath)
	assert.Equal(t, april, cfg.CurrentMonth)
	assert.Equal(t, m("1000"), h.month(april).OpeningBalance)

	result = h.run("", "init")
	assert.Equal(t, ExitFailure, result.ExitCode)
	assert.Contains(t, result.Err.Error(), "already initialized")
}

func TestDump(t *testing.T) {
	h := newHarness(t)
	h.seed(testConfig(t), emptyMarch().WithTransactions(receipts()...))

	result := h.run("", "dump-month")
	assert.Equal(t, 0, result.ExitCode)
	assert.True(t, strings.HasPrefix(h.console.String(), "date: 2024-03\nopening-balance: 1000.00\n"))

	result = h.run("", "dump-config")
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, h.console.String(), "congregation-name: North\n")
	assert.Contains(t, h.console.String(), "current-month: 2024-03\n")
}

func TestSummary(t *testing.T) {
	h := newHarness(t)
	h.seed(testConfig(t), closedMarch(t))

	result := h.run("", "summary", "--plain")
	assert.Equal(t, 0, result.ExitCode)
	assert.True(t, strings.HasPrefix(h.stdout.String(), "# March 2024\n"))

	result = h.run("", "summary")
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, h.stdout.String(), "March 2024")
}

func TestDoctor(t *testing.T) {
	h := newHarness(t)
	h.seed(testConfig(t), reconciledFebruary(), closedMarch(t))

	result := h.run("", "doctor", "totals")
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, h.stdout.String(), `CheckingBalance: "1035.00"`)

	result = h.run("", "doctor", "months")
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "2024-02  reconciled   0 transactions  1000.00\n2024-03  closed       5 transactions  1035.00\n", h.stdout.String())
}

func TestMissingConfig(t *testing.T) {
	h := newHarness(t)

	result := h.run("", "add-receipts")
	assert.Equal(t, ExitFailure, result.ExitCode)
	assert.Contains(t, h.stderr.String(), "not found")
	assert.Contains(t, h.stderr.String(), "run init")
}

func TestUsageError(t *testing.T) {
	h := newHarness(t)

	result := h.run("", "no-such-command")
	assert.Equal(t, ExitUsage, result.ExitCode)

	h.seed(testConfig(t), emptyMarch())
	result = h.run("", "--month", "March", "dump-month")
	assert.Equal(t, ExitFailure, result.ExitCode)
	assert.True(t, ledger.IsParseError(result.Err))
}
