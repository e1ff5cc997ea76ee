// Package storage persists months and the congregation configuration.
//
// All backends store the same YAML documents, so a ledger can be moved
// between them by dumping and re-importing months.
package storage

import (
	"context"
	"errors"

	"github.com/robinvdvleuten/accounts/ledger"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a month or the configuration does not exist.
var ErrNotFound = errors.New("not found")

// Store loads and saves ledger state.
type Store interface {
	ReadMonth(ctx context.Context, date ledger.YearMonth) (*ledger.AccountsMonth, error)
	WriteMonth(ctx context.Context, month *ledger.AccountsMonth) error
	ListMonths(ctx context.Context) ([]ledger.YearMonth, error)
	ReadConfig(ctx context.Context) (*ledger.Config, error)
	UpdateConfig(ctx context.Context, cfg *ledger.Config) error
	// Commit writes month and cfg as one unit: after an error neither
	// write is visible. The file store gets there by restoring the month
	// file when the config cannot be written.
	Commit(ctx context.Context, month *ledger.AccountsMonth, cfg *ledger.Config) error
	Close() error
}

// Option configures a store.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	rootDir string
}

// WithLogger sets the logger used for storage events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRootDir overrides the month directory from the configuration.
func WithRootDir(dir string) Option {
	return func(o *options) { o.rootDir = dir }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
