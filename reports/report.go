// Package reports renders month-end forms and text reports from a month's
// ledger. Reports only read the ledger.
package reports

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/robinvdvleuten/accounts/ledger"
	"go.uber.org/zap"
)

// Report produces one output file for a month.
type Report interface {
	Name() string
	// Applicable reports whether the month has the data the report needs.
	Applicable(month *ledger.AccountsMonth) bool
	Generate(ctx context.Context, month *ledger.AccountsMonth) error
}

// Env is what reports need besides the month itself.
type Env struct {
	Config *ledger.Config
	// Dir is the directory holding one subdirectory per month.
	Dir    string
	Out    io.Writer
	Forms  FormFactory
	Logger *zap.Logger
}

func (e Env) path(month *ledger.AccountsMonth, filename string) string {
	return filepath.Join(e.Dir, month.Date.String(), filename)
}

func (e Env) printf(format string, args ...any) {
	if e.Out != nil {
		_, _ = fmt.Fprintf(e.Out, format, args...)
	}
}

func (e Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Registry runs reports in registration order.
type Registry struct {
	reports []Report
}

func NewRegistry(reports ...Report) *Registry {
	return &Registry{reports: reports}
}

// Default returns the month-end reports.
func Default(env Env) *Registry {
	return NewRegistry(
		NewAccountsReportForm(env),
		NewAccountsSheetForm(env),
		NewBranchTransferForm(env),
		NewCheckbookEntriesText(env),
		NewReconciliationText(env),
	)
}

// Reports returns the registered reports.
func (r *Registry) Reports() []Report { return r.reports }

// Generate runs every applicable report and returns the names of those that
// ran. It stops at the first failure.
func (r *Registry) Generate(ctx context.Context, month *ledger.AccountsMonth) ([]string, error) {
	var generated []string
	for _, report := range r.reports {
		if !report.Applicable(month) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return generated, err
		}
		if err := report.Generate(ctx, month); err != nil {
			return generated, fmt.Errorf("%s: %w", report.Name(), err)
		}
		generated = append(generated, report.Name())
	}
	return generated, nil
}

// fillForm opens the template, lets fill populate it and saves it.
func fillForm(env Env, month *ledger.AccountsMonth, name, template string, fill func(*fieldWriter) error) (err error) {
	env.printf("Generating %s\n", name)
	output := env.path(month, name+".xfdf")
	forms := env.Forms
	if forms == nil {
		forms = XFDFFactory
	}
	form, err := forms.Create(template, output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := form.Close(); err == nil {
			err = cerr
		}
	}()

	w := &fieldWriter{form: form}
	if err := fill(w); err != nil {
		return err
	}
	if w.err != nil {
		return w.err
	}
	env.printf("Writing %s\n", output)
	env.logger().Info("generated form", zap.String("month", month.Date.String()), zap.String("path", output))
	return form.Save()
}
