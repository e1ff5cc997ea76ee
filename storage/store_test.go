package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/accounts/ledger"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, "db", "accounts.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(dir, "home", ConfigFileName), WithRootDir(filepath.Join(dir, "accounts"))),
		"sqlite": sqliteStore,
	}
}

func sampleMonth() *ledger.AccountsMonth {
	return ledger.NewMonth(ledger.MustParseYearMonth("2024-03"), ledger.MustParseMoney("100"), ledger.Zero).
		WithTransactions(
			ledger.NewTransaction(2, "Contributions - Worldwide Work", ledger.WorldwideWork,
				ledger.WithReceiptsIn(ledger.MustParseMoney("12.50"))),
		)
}

func sampleConfig() *ledger.Config {
	return &ledger.Config{
		CongregationName: "North",
		CurrentMonth:     ledger.MustParseYearMonth("2024-03"),
		BranchResolutions: []ledger.BranchResolution{
			ledger.NewBranchResolution("Global Assistance Arrangement", ledger.GlobalAssistanceArrangement, ledger.MustParseMoney("20")),
		},
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.ReadMonth(ctx, ledger.MustParseYearMonth("2024-03"))
			assert.IsError(t, err, ErrNotFound)
			_, err = store.ReadConfig(ctx)
			assert.IsError(t, err, ErrNotFound)

			assert.NoError(t, store.WriteMonth(ctx, sampleMonth()))
			month, err := store.ReadMonth(ctx, ledger.MustParseYearMonth("2024-03"))
			assert.NoError(t, err)
			assert.Equal(t, 1, month.Len())
			assert.Equal(t, "12.50", month.Transactions()[0].ReceiptsIn.String())

			assert.NoError(t, store.UpdateConfig(ctx, sampleConfig()))
			cfg, err := store.ReadConfig(ctx)
			assert.NoError(t, err)
			assert.Equal(t, "North", cfg.CongregationName)

			closed, err := ledger.CloseMonth(month, cfg)
			assert.NoError(t, err)
			assert.NoError(t, store.Commit(ctx, closed.Month, closed.Config))

			month, err = store.ReadMonth(ctx, ledger.MustParseYearMonth("2024-03"))
			assert.NoError(t, err)
			assert.True(t, month.Closed)
			cfg, err = store.ReadConfig(ctx)
			assert.NoError(t, err)
			assert.Equal(t, ledger.MustParseYearMonth("2024-04"), cfg.CurrentMonth)

			next, err := month.NextMonth()
			assert.NoError(t, err)
			assert.NoError(t, store.WriteMonth(ctx, next))
			months, err := store.ListMonths(ctx)
			assert.NoError(t, err)
			assert.Equal(t, []ledger.YearMonth{
				ledger.MustParseYearMonth("2024-03"),
				ledger.MustParseYearMonth("2024-04"),
			}, months)
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	cfg := sampleConfig()
	cfg.RootDir = filepath.Join(dir, "ledger")
	store := NewFileStore(configPath)
	assert.NoError(t, store.UpdateConfig(ctx, cfg))

	// A fresh store discovers the root directory from the config file.
	store = NewFileStore(configPath)
	assert.NoError(t, store.WriteMonth(ctx, sampleMonth()))

	data, err := os.ReadFile(filepath.Join(dir, "ledger", "2024-03", MonthFileName))
	assert.NoError(t, err)
	assert.Contains(t, string(data), "date: 2024-03\n")

	entries, err := os.ReadDir(filepath.Join(dir, "ledger", "2024-03"))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
}

func TestFileStoreRejectsMisfiledMonth(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, ConfigFileName), WithRootDir(dir))
	assert.NoError(t, store.WriteMonth(ctx, sampleMonth()))

	assert.NoError(t, os.Rename(filepath.Join(dir, "2024-03"), filepath.Join(dir, "2024-05")))
	_, err := store.ReadMonth(ctx, ledger.MustParseYearMonth("2024-05"))
	assert.Error(t, err)
}

func TestFileStoreWithoutRootDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, ConfigFileName))
	assert.NoError(t, store.UpdateConfig(ctx, sampleConfig()))

	_, err := store.ReadMonth(ctx, ledger.MustParseYearMonth("2024-03"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "root-dir")
}

func TestFileStoreCommitFailureLeavesConfig(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	store := NewFileStore(configPath, WithRootDir(filepath.Join(dir, "ledger")))
	assert.NoError(t, store.UpdateConfig(ctx, sampleConfig()))

	// A regular file where the month directory should go blocks the month write.
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "ledger"), []byte("x"), 0o644))

	next := sampleConfig().WithCurrentMonth(ledger.MustParseYearMonth("2024-04"))
	assert.Error(t, store.Commit(ctx, sampleMonth().WithClosed(), next))

	cfg, err := store.ReadConfig(ctx)
	assert.NoError(t, err)
	assert.Equal(t, ledger.MustParseYearMonth("2024-03"), cfg.CurrentMonth)
}

func TestFileStoreCommitFailureRestoresMonth(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	store := NewFileStore(configPath, WithRootDir(filepath.Join(dir, "ledger")))
	assert.NoError(t, store.WriteMonth(ctx, sampleMonth()))

	// A non-empty directory at the config path makes the config rename fail
	// after the month has been renamed into place.
	assert.NoError(t, os.MkdirAll(filepath.Join(configPath, "blocked"), 0o755))

	next := sampleConfig().WithCurrentMonth(ledger.MustParseYearMonth("2024-04"))
	assert.Error(t, store.Commit(ctx, sampleMonth().WithClosed(), next))

	month, err := store.ReadMonth(ctx, ledger.MustParseYearMonth("2024-03"))
	assert.NoError(t, err)
	assert.False(t, month.Closed)

	april := ledger.NewMonth(ledger.MustParseYearMonth("2024-04"), ledger.Zero, ledger.Zero)
	assert.Error(t, store.Commit(ctx, april, next))
	_, err = store.ReadMonth(ctx, april.Date)
	assert.IsError(t, err, ErrNotFound)

	entries, err := os.ReadDir(filepath.Join(dir, "ledger", "2024-03"))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
}

func TestSQLiteStoreSchemaVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "accounts.db")
	store, err := NewSQLiteStore(dbPath)
	assert.NoError(t, err)

	var version int
	assert.NoError(t, store.db.QueryRow("SELECT version FROM "+migrationsTable).Scan(&version))
	assert.Equal(t, 1, version)
	assert.NoError(t, store.Close())

	// Reopening an up-to-date database is a no-op.
	store, err = NewSQLiteStore(dbPath)
	assert.NoError(t, err)
	assert.NoError(t, store.Close())
}
