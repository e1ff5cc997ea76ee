package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/accounts/ledger"
	"github.com/robinvdvleuten/accounts/storage"
	"go.uber.org/zap"
)

const defaultRootDir = "~/accounts"

// InitCmd writes a new configuration together with the first month.
type InitCmd struct {
	RootDir string `help:"Directory holding the month documents and reports." placeholder:"DIR"`
}

func (cmd *InitCmd) Run(app *App) error {
	timer := app.phase("init")
	defer timer.End()

	switch _, err := app.store.ReadConfig(app.ctx); {
	case err == nil:
		return errors.New("the accounts are already initialized, see dump-config")
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("read config: %w", err)
	}

	c := app.console
	cfg := &ledger.Config{TransferDescription: ledger.DefaultTransferDescription}
	var err error
	for _, field := range []struct {
		prompt string
		value  *string
		def    string
	}{
		{"Congregation name: ", &cfg.CongregationName, ""},
		{"Congregation city: ", &cfg.CongregationCity, ""},
		{"Congregation state: ", &cfg.CongregationState, ""},
		{"Root directory [%s]: ", &cfg.RootDir, cmd.rootDir()},
		{"Accounts sheet form (S-26) path: ", &cfg.AccountsSheetFormPath, ""},
		{"Accounts report form (S-30) path: ", &cfg.AccountsReportFormPath, ""},
		{"Funds transfer form (TO-62) path: ", &cfg.FundsTransferFormPath, ""},
	} {
		if *field.value, err = readStringDefault(app, field.prompt, field.def); err != nil {
			return err
		}
	}

	first, err := readYearMonth(app, "First month [%s]: ", ledger.YearMonthOf(app.now()))
	if err != nil {
		return err
	}
	opening, err := c.ReadMoney("Opening checking balance [0.00]: ", &ledger.Zero)
	if err != nil {
		return err
	}
	receipts, err := c.ReadMoney("Receipts carried forward [0.00]: ", &ledger.Zero)
	if err != nil {
		return err
	}

	cfg = cfg.WithCurrentMonth(first)
	if err := cfg.Validate(); err != nil {
		return err
	}
	month := ledger.NewMonth(first, opening, receipts)

	ok, err := c.ReadConfirmation("Create the accounts for %s starting in %s", cfg.CongregationDisplayName(), first)
	if err != nil || !ok {
		return err
	}
	if err := app.store.Commit(app.ctx, month, cfg); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	app.logger.Info("initialized accounts", zap.String("month", first.String()), zap.String("root", cfg.RootDir))
	printSuccess(app.stdout, "Created the accounts for "+cfg.CongregationDisplayName())
	return nil
}

func (cmd *InitCmd) rootDir() string {
	if cmd.RootDir != "" {
		return cmd.RootDir
	}
	return defaultRootDir
}

// readStringDefault reads a line. When def is set the prompt is formatted
// with it and an empty answer returns it.
func readStringDefault(app *App, prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf(prompt, def)
	}
	line, err := app.console.ReadString(prompt)
	if err != nil {
		return "", err
	}
	if line = strings.TrimSpace(line); line == "" {
		return def, nil
	}
	return line, nil
}

func readYearMonth(app *App, prompt string, def ledger.YearMonth) (ledger.YearMonth, error) {
	for {
		line, err := readStringDefault(app, prompt, def.String())
		if err != nil {
			return ledger.YearMonth{}, err
		}
		if ym, err := ledger.ParseYearMonth(line); err == nil {
			return ym, nil
		}
		app.console.Printf("Unable to parse %q as a month. Please enter a month as YYYY-MM.\n", line)
	}
}
