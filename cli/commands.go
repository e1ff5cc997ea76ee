package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Month     string `help:"Month to work on as YYYY-MM (defaults to the configured current month)." placeholder:"YYYY-MM"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
	LogLevel  string `help:"Log level (debug, info, warn, error). Overrides ACCOUNTS_LOG_LEVEL." placeholder:"LEVEL"`
}

type Commands struct {
	Globals

	Init          InitCmd          `cmd:"" help:"Create the configuration and the first month."`
	AddReceipts   AddReceiptsCmd   `cmd:"" help:"Record contribution box receipts."`
	AddDeposit    AddDepositCmd    `cmd:"" help:"Deposit receipts into the checking account."`
	AddExpense    AddExpenseCmd    `cmd:"" help:"Record a payment from the checking account."`
	OpenMonth     OpenMonthCmd     `cmd:"" help:"Open the current month, carrying balances forward from the previous one."`
	CloseMonth    CloseMonthCmd    `cmd:"" help:"Post the branch transfer and close the current month."`
	Reconcile     ReconcileCmd     `cmd:"" help:"Reconcile a closed month against its bank statement."`
	GenerateForms GenerateFormsCmd `cmd:"" help:"Write the month's forms and reports."`
	Summary       SummaryCmd       `cmd:"" help:"Show the month's balances and totals."`
	DumpMonth     DumpMonthCmd     `cmd:"" help:"Print the month document."`
	DumpConfig    DumpConfigCmd    `cmd:"" help:"Print the configuration document."`
	Web           WebCmd           `cmd:"" help:"Serve a read-only view of the accounts."`
	Doctor        DoctorCmd        `cmd:"" help:"Doctor utilities for debugging the accounts."`
}
