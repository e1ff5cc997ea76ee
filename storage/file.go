package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/robinvdvleuten/accounts/ledger"
	"go.uber.org/zap"
)

const (
	// ConfigFileName is the configuration file in the user's home directory.
	ConfigFileName = ".accounts-manager.yaml"
	// MonthFileName is the file holding one month inside its YYYY-MM directory.
	MonthFileName = "accounts.yaml"
)

// DefaultConfigPath returns ~/.accounts-manager.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

// FileStore keeps the configuration in a single YAML file and each month
// in <root-dir>/<YYYY-MM>/accounts.yaml. The root directory comes from the
// configuration unless overridden with WithRootDir.
type FileStore struct {
	configPath string
	opts       options

	mu      sync.Mutex
	rootDir string
}

func NewFileStore(configPath string, opts ...Option) *FileStore {
	o := buildOptions(opts)
	return &FileStore{configPath: configPath, opts: o, rootDir: ExpandHome(o.rootDir)}
}

// ConfigPath returns the path of the configuration file.
func (s *FileStore) ConfigPath() string { return s.configPath }

// RootDir returns the directory holding month files, reading the
// configuration if needed.
func (s *FileStore) RootDir(ctx context.Context) (string, error) {
	s.mu.Lock()
	root := s.rootDir
	s.mu.Unlock()
	if root != "" {
		return root, nil
	}
	cfg, err := s.ReadConfig(ctx)
	if err != nil {
		return "", err
	}
	if cfg.RootDir == "" {
		return "", fmt.Errorf("config %s does not set root-dir", s.configPath)
	}
	return s.setRoot(cfg.RootDir), nil
}

func (s *FileStore) setRoot(dir string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rootDir == "" {
		s.rootDir = ExpandHome(dir)
	}
	return s.rootDir
}

// MonthPath returns the file a month is stored in.
func (s *FileStore) MonthPath(ctx context.Context, date ledger.YearMonth) (string, error) {
	root, err := s.RootDir(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, date.String(), MonthFileName), nil
}

func (s *FileStore) ReadMonth(ctx context.Context, date ledger.YearMonth) (*ledger.AccountsMonth, error) {
	path, err := s.MonthPath(ctx, date)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("month %s: %w", date, ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	s.opts.logger.Debug("read month", zap.String("month", date.String()), zap.String("path", path))
	month, err := UnmarshalMonth(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if month.Date != date {
		return nil, fmt.Errorf("%s: document is dated %s", path, month.Date)
	}
	return month, nil
}

func (s *FileStore) WriteMonth(ctx context.Context, month *ledger.AccountsMonth) error {
	staged, err := s.stageMonth(ctx, month)
	if err != nil {
		return err
	}
	return commitStaged(s.opts.logger, staged)
}

func (s *FileStore) ListMonths(ctx context.Context) ([]ledger.YearMonth, error) {
	root, err := s.RootDir(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var months []ledger.YearMonth
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ym, err := ledger.ParseYearMonth(entry.Name())
		if err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), MonthFileName)); err == nil {
			months = append(months, ym)
		}
	}
	sortMonths(months)
	return months, nil
}

func (s *FileStore) ReadConfig(context.Context) (*ledger.Config, error) {
	data, err := os.ReadFile(s.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config %s: %w", s.configPath, ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	cfg, err := UnmarshalConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.configPath, err)
	}
	if cfg.RootDir != "" {
		s.setRoot(cfg.RootDir)
	}
	return cfg, nil
}

func (s *FileStore) UpdateConfig(_ context.Context, cfg *ledger.Config) error {
	staged, err := s.stageConfig(cfg)
	if err != nil {
		return err
	}
	return commitStaged(s.opts.logger, staged)
}

// Commit writes both documents to temporary files first and only renames
// them into place once both are on disk. A config that names a root
// directory is used when none is known yet, so a first commit can create the
// ledger.
func (s *FileStore) Commit(ctx context.Context, month *ledger.AccountsMonth, cfg *ledger.Config) error {
	if cfg.RootDir != "" {
		s.setRoot(cfg.RootDir)
	}
	stagedMonth, err := s.stageMonth(ctx, month)
	if err != nil {
		return err
	}
	stagedConfig, err := s.stageConfig(cfg)
	if err != nil {
		discardStaged(stagedMonth)
		return err
	}
	return commitStaged(s.opts.logger, stagedMonth, stagedConfig)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) stageMonth(ctx context.Context, month *ledger.AccountsMonth) (staged, error) {
	data, err := MarshalMonth(month)
	if err != nil {
		return staged{}, err
	}
	path, err := s.MonthPath(ctx, month.Date)
	if err != nil {
		return staged{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return staged{}, fmt.Errorf("create month directory: %w", err)
	}
	return stage(path, data)
}

func (s *FileStore) stageConfig(cfg *ledger.Config) (staged, error) {
	data, err := MarshalConfig(cfg)
	if err != nil {
		return staged{}, err
	}
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0o755); err != nil {
		return staged{}, fmt.Errorf("create config directory: %w", err)
	}
	return stage(s.configPath, data)
}

// staged is a document written next to its destination but not yet renamed.
type staged struct {
	tmp  string
	path string
}

func stage(path string, data []byte) (staged, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return staged{}, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return staged{}, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return staged{}, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return staged{}, err
	}
	return staged{tmp: f.Name(), path: path}, nil
}

// previous is the content a document had before a commit replaced it.
type previous struct {
	path   string
	data   []byte
	exists bool
}

// commitStaged renames files into place in order. When a rename fails the
// documents already renamed are put back as they were.
func commitStaged(logger *zap.Logger, files ...staged) error {
	var done []previous
	for i, f := range files {
		prev := previous{path: f.path}
		if i < len(files)-1 {
			data, err := os.ReadFile(f.path)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				discardStaged(files[i:]...)
				restore(logger, done)
				return fmt.Errorf("back up %s: %w", f.path, err)
			}
			prev.data, prev.exists = data, err == nil
		}
		if err := os.Rename(f.tmp, f.path); err != nil {
			discardStaged(files[i:]...)
			restore(logger, done)
			return fmt.Errorf("write %s: %w", f.path, err)
		}
		done = append(done, prev)
		logger.Debug("wrote document", zap.String("path", f.path))
	}
	return nil
}

func restore(logger *zap.Logger, docs []previous) {
	for _, doc := range docs {
		var err error
		if doc.exists {
			var s staged
			if s, err = stage(doc.path, doc.data); err == nil {
				err = os.Rename(s.tmp, s.path)
			}
		} else {
			err = os.Remove(doc.path)
		}
		if err != nil {
			logger.Error("restore document", zap.String("path", doc.path), zap.Error(err))
		} else {
			logger.Debug("restored document", zap.String("path", doc.path))
		}
	}
}

func discardStaged(files ...staged) {
	for _, f := range files {
		os.Remove(f.tmp)
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
