package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/robinvdvleuten/accounts/ledger"
)

// MemoryStore keeps encoded documents in memory. Values go through the
// same codec as the other backends, so callers never share state with the
// store.
type MemoryStore struct {
	mu     sync.Mutex
	months map[ledger.YearMonth][]byte
	config []byte
	// Writes counts successful month and config writes.
	Writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{months: make(map[ledger.YearMonth][]byte)}
}

func (s *MemoryStore) ReadMonth(_ context.Context, date ledger.YearMonth) (*ledger.AccountsMonth, error) {
	s.mu.Lock()
	data, ok := s.months[date]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("month %s: %w", date, ErrNotFound)
	}
	return UnmarshalMonth(data)
}

func (s *MemoryStore) WriteMonth(_ context.Context, month *ledger.AccountsMonth) error {
	data, err := MarshalMonth(month)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months[month.Date] = data
	s.Writes++
	return nil
}

func (s *MemoryStore) ListMonths(context.Context) ([]ledger.YearMonth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	months := make([]ledger.YearMonth, 0, len(s.months))
	for ym := range s.months {
		months = append(months, ym)
	}
	sortMonths(months)
	return months, nil
}

func (s *MemoryStore) ReadConfig(context.Context) (*ledger.Config, error) {
	s.mu.Lock()
	data := s.config
	s.mu.Unlock()
	if data == nil {
		return nil, fmt.Errorf("config: %w", ErrNotFound)
	}
	return UnmarshalConfig(data)
}

func (s *MemoryStore) UpdateConfig(_ context.Context, cfg *ledger.Config) error {
	data, err := MarshalConfig(cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = data
	s.Writes++
	return nil
}

func (s *MemoryStore) Commit(_ context.Context, month *ledger.AccountsMonth, cfg *ledger.Config) error {
	monthData, err := MarshalMonth(month)
	if err != nil {
		return err
	}
	configData, err := MarshalConfig(cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months[month.Date] = monthData
	s.config = configData
	s.Writes += 2
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func sortMonths(months []ledger.YearMonth) {
	slices.SortFunc(months, func(a, b ledger.YearMonth) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
}
