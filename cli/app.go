package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/robinvdvleuten/accounts/config"
	"github.com/robinvdvleuten/accounts/console"
	"github.com/robinvdvleuten/accounts/ledger"
	"github.com/robinvdvleuten/accounts/logging"
	"github.com/robinvdvleuten/accounts/output"
	"github.com/robinvdvleuten/accounts/reports"
	"github.com/robinvdvleuten/accounts/storage"
	"github.com/robinvdvleuten/accounts/telemetry"
	"go.uber.org/zap"
)

// Deps are the collaborators Execute wires into the commands. Zero fields
// get process defaults.
type Deps struct {
	Settings *config.Settings
	Store    storage.Store
	Console  *console.Console
	Forms    reports.FormFactory
	Stdout   io.Writer
	Stderr   io.Writer
	// TTY enables colored Markdown rendering.
	TTY  bool
	Now  func() time.Time
	Exit func(int)
}

func (d *Deps) defaults() {
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Settings == nil {
		d.Settings = config.Load()
	}
	if d.Console == nil {
		d.Console = console.NewStdio()
	}
	if d.Forms == nil {
		d.Forms = reports.XFDFFactory
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Exit == nil {
		d.Exit = os.Exit
	}
}

// App is what every command runs against.
type App struct {
	ctx      context.Context
	store    storage.Store
	console  *console.Console
	logger   *zap.Logger
	settings *config.Settings
	forms    reports.FormFactory
	stdout   io.Writer
	tty      bool
	now      func() time.Time
	month    string
}

// BuildVersion returns the version string shown by --version.
func BuildVersion() string {
	version := Version
	if version == "" {
		version = "dev"
	}
	if CommitSHA == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, CommitSHA)
}

// Execute parses args, runs the selected command and reports the outcome.
func Execute(ctx context.Context, args []string, deps Deps) CommandResult {
	deps.defaults()

	var root struct {
		Version kong.VersionFlag `help:"Show version information"`
		Commands
	}
	parser, err := kong.New(&root,
		kong.Name("accounts"),
		kong.Description("Monthly congregation accounts."),
		kong.Vars{"version": BuildVersion()},
		kong.UsageOnError(),
		kong.Writers(deps.Stdout, deps.Stderr),
		kong.Exit(deps.Exit),
		kong.Bind(&root.Globals),
	)
	if err != nil {
		return Failure(err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		printError(deps.Stderr, err.Error())
		return Failure(NewCommandError(ExitUsage, err.Error()))
	}

	level := root.LogLevel
	if level == "" {
		level = deps.Settings.LogLevel
	}
	logger, _, err := logging.New(deps.Stderr, level)
	if err != nil {
		printError(deps.Stderr, err.Error())
		return Failure(NewCommandError(ExitUsage, err.Error()))
	}
	defer func() { _ = logger.Sync() }()

	store := deps.Store
	if store == nil {
		if err := deps.Settings.Validate(); err != nil {
			printError(deps.Stderr, err.Error())
			return Failure(err)
		}
		if store, err = openStore(deps.Settings, logger); err != nil {
			printError(deps.Stderr, err.Error())
			return Failure(err)
		}
		defer store.Close()
	}

	if root.Telemetry {
		collector := telemetry.NewTimingCollector().WithLogger(logger)
		ctx = telemetry.WithCollector(ctx, collector)
		defer func() {
			_, _ = fmt.Fprintln(deps.Stderr)
			collector.Report(deps.Stderr, output.NewStyles(deps.Stderr))
		}()
	}

	app := &App{
		ctx:      ctx,
		store:    store,
		console:  deps.Console,
		logger:   logger.With(zap.String("command", kctx.Command())),
		settings: deps.Settings,
		forms:    deps.Forms,
		stdout:   deps.Stdout,
		tty:      deps.TTY,
		now:      deps.Now,
		month:    root.Month,
	}

	if err := kctx.Run(app); err != nil {
		reportError(deps.Stderr, err)
		return Failure(err)
	}
	return Success()
}

func reportError(w io.Writer, err error) {
	var cmdErr *CommandError
	switch {
	case errors.As(err, &cmdErr):
		// Already reported by the command.
	case errors.Is(err, console.ErrAborted):
		printError(w, "Aborted.")
	case errors.Is(err, io.EOF):
		printError(w, "Unexpected end of input.")
	default:
		_, _ = fmt.Fprintln(w, NewErrorRenderer().Render(err))
	}
}

func openStore(s *config.Settings, logger *zap.Logger) (storage.Store, error) {
	switch s.Backend {
	case config.BackendSQLite:
		return storage.NewSQLiteStore(s.SQLitePath, storage.WithLogger(logger))
	default:
		return storage.NewFileStore(s.ConfigPath, storage.WithLogger(logger)), nil
	}
}

// phase starts a telemetry timer for the running command.
func (a *App) phase(name string) telemetry.Timer {
	return telemetry.FromContext(a.ctx).Start(name)
}

func (a *App) readConfig() (*ledger.Config, error) {
	cfg, err := a.store.ReadConfig(a.ctx)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// selectedMonth is the --month flag, or the configured current month.
func (a *App) selectedMonth(cfg *ledger.Config) (ledger.YearMonth, error) {
	if a.month != "" {
		return ledger.ParseYearMonth(a.month)
	}
	if cfg.CurrentMonth.IsZero() {
		return ledger.YearMonth{}, errors.New("no current month configured; pass --month or run init")
	}
	return cfg.CurrentMonth, nil
}

func (a *App) readMonth(date ledger.YearMonth) (*ledger.AccountsMonth, error) {
	month, err := a.store.ReadMonth(a.ctx, date)
	if err != nil {
		return nil, fmt.Errorf("read month: %w", err)
	}
	a.logger.Debug("read month", zap.String("month", date.String()), zap.Int("transactions", month.Len()))
	return month, nil
}

// load reads the config and the selected month.
func (a *App) load() (*ledger.Config, *ledger.AccountsMonth, error) {
	cfg, err := a.readConfig()
	if err != nil {
		return nil, nil, err
	}
	date, err := a.selectedMonth(cfg)
	if err != nil {
		return nil, nil, err
	}
	month, err := a.readMonth(date)
	if err != nil {
		return nil, nil, err
	}
	return cfg, month, nil
}

// loadOpen is load for commands that add transactions.
func (a *App) loadOpen(op string) (*ledger.Config, *ledger.AccountsMonth, error) {
	cfg, month, err := a.load()
	if err != nil {
		return nil, nil, err
	}
	if month.Closed {
		return nil, nil, ledger.NewPreconditionError(op, month.Date, "the month is already closed")
	}
	return cfg, month, nil
}

func (a *App) writeMonth(month *ledger.AccountsMonth) error {
	if err := a.store.WriteMonth(a.ctx, month); err != nil {
		return fmt.Errorf("write month: %w", err)
	}
	a.logger.Info("wrote month", zap.String("month", month.Date.String()), zap.String("op", "write"))
	return nil
}

// outputDir is where reports are written: the ledger's root directory.
func (a *App) outputDir(cfg *ledger.Config) (string, error) {
	if fs, ok := a.store.(*storage.FileStore); ok {
		return fs.RootDir(a.ctx)
	}
	if cfg.RootDir == "" {
		return "", errors.New("config does not set root-dir, which is needed for reports")
	}
	return storage.ExpandHome(cfg.RootDir), nil
}

func (a *App) reportEnv(cfg *ledger.Config) (reports.Env, error) {
	dir, err := a.outputDir(cfg)
	if err != nil {
		return reports.Env{}, err
	}
	return reports.Env{
		Config: cfg,
		Dir:    dir,
		Out:    a.console.Out(),
		Forms:  a.forms,
		Logger: a.logger,
	}, nil
}
