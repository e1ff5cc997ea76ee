package cli

import (
	"fmt"
	"path/filepath"

	"github.com/robinvdvleuten/accounts/ledger"
	"github.com/robinvdvleuten/accounts/output"
	"github.com/robinvdvleuten/accounts/reports"
	"github.com/robinvdvleuten/accounts/telemetry"
	"go.uber.org/zap"
)

// summaryWidth is the word wrap width of the rendered summary.
const summaryWidth = 80

type GenerateFormsCmd struct{}

func (cmd *GenerateFormsCmd) Run(app *App) error {
	timer := app.phase("generate-forms")
	defer timer.End()

	cfg, month, err := app.load()
	if err != nil {
		return err
	}
	return app.generate(cfg, month, timer)
}

// generate writes every report that applies to month.
func (a *App) generate(cfg *ledger.Config, month *ledger.AccountsMonth, parent telemetry.Timer) error {
	timer := parent.Child("reports")
	defer timer.End()

	env, err := a.reportEnv(cfg)
	if err != nil {
		return err
	}
	generated, err := reports.Default(env).Generate(a.ctx, month)
	if err != nil {
		return fmt.Errorf("generate reports: %w", err)
	}
	a.logger.Info("generated reports", zap.String("month", month.Date.String()), zap.Strings("reports", generated))
	styles := output.NewStyles(a.stdout)
	printSuccess(a.stdout, fmt.Sprintf("Generated %d reports in %s",
		len(generated), styles.FilePath(filepath.Join(env.Dir, month.Date.String()))))
	return nil
}

type SummaryCmd struct {
	Plain bool `help:"Print the Markdown source instead of rendering it."`
}

func (cmd *SummaryCmd) Run(app *App) error {
	timer := app.phase("summary")
	defer timer.End()

	_, month, err := app.load()
	if err != nil {
		return err
	}
	md, err := reports.Summary(month)
	if err != nil {
		return err
	}
	if cmd.Plain {
		_, err = fmt.Fprint(app.stdout, md)
		return err
	}
	rendered, err := reports.RenderMarkdown(md, app.tty, summaryWidth)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(app.stdout, rendered)
	return err
}
