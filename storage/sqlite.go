package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robinvdvleuten/accounts/ledger"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps month and config documents in a SQLite database.
// Commit runs in a single SQL transaction.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	o := buildOptions(opts)
	if err := migrateSchema(dbPath, o.logger); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, opts: o}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) ReadMonth(ctx context.Context, date ledger.YearMonth) (*ledger.AccountsMonth, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM months WHERE month = ?`, date.String()).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("month %s: %w", date, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("query month %s: %w", date, err)
	}
	s.opts.logger.Debug("read month", zap.String("month", date.String()))
	return UnmarshalMonth([]byte(document))
}

func (s *SQLiteStore) WriteMonth(ctx context.Context, month *ledger.AccountsMonth) error {
	return writeMonth(ctx, s.db, month)
}

func writeMonth(ctx context.Context, db execer, month *ledger.AccountsMonth) error {
	data, err := MarshalMonth(month)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO months (month, document, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(month) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		month.Date.String(), string(data))
	if err != nil {
		return fmt.Errorf("write month %s: %w", month.Date, err)
	}
	return nil
}

func (s *SQLiteStore) ListMonths(ctx context.Context) ([]ledger.YearMonth, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT month FROM months ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("list months: %w", err)
	}
	defer rows.Close()

	var months []ledger.YearMonth
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		ym, err := ledger.ParseYearMonth(name)
		if err != nil {
			return nil, err
		}
		months = append(months, ym)
	}
	return months, rows.Err()
}

func (s *SQLiteStore) ReadConfig(ctx context.Context) (*ledger.Config, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM config WHERE id = 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("config: %w", ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("query config: %w", err)
	}
	return UnmarshalConfig([]byte(document))
}

func (s *SQLiteStore) UpdateConfig(ctx context.Context, cfg *ledger.Config) error {
	return updateConfig(ctx, s.db, cfg)
}

func updateConfig(ctx context.Context, db execer, cfg *ledger.Config) error {
	data, err := MarshalConfig(cfg)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO config (id, document, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(data))
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Commit(ctx context.Context, month *ledger.AccountsMonth, cfg *ledger.Config) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = writeMonth(ctx, tx, month); err != nil {
		return err
	}
	if err = updateConfig(ctx, tx, cfg); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.opts.logger.Info("committed month and config",
		zap.String("month", month.Date.String()),
		zap.String("current_month", cfg.CurrentMonth.String()))
	return nil
}
