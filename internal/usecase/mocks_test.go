//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"

	"telegram-look-bot/internal/domain/model"
	"telegram-look-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// MockLedgerStore is an in-memory LedgerStore with the same serialization
// guarantee as the file-backed one: a single mutex spans every cycle.
type MockLedgerStore struct {
	mu    sync.Mutex
	table repository.Table

	LoadErr   error
	UpdateErr error
}

func NewMockLedgerStore() *MockLedgerStore {
	return &MockLedgerStore{table: repository.Table{}}
}

func (m *MockLedgerStore) Load(ctx context.Context) (repository.Table, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := repository.Table{}
	for id, rec := range m.table {
		cp := *rec
		out[id] = &cp
	}
	return out, nil
}

func (m *MockLedgerStore) Save(ctx context.Context, t repository.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table = t
	return nil
}

func (m *MockLedgerStore) Mutate(ctx context.Context, userID int64, fn func(rec *model.UserRecord) error) error {
	return m.Update(ctx, func(t repository.Table) error {
		rec := t[userID]
		if rec == nil {
			rec = &model.UserRecord{}
			t[userID] = rec
		}
		return fn(rec)
	})
}

func (m *MockLedgerStore) Update(ctx context.Context, fn func(t repository.Table) error) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.table)
}

// Record returns a copy of the stored record, or an empty one.
func (m *MockLedgerStore) Record(userID int64) model.UserRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.table[userID]; ok {
		return *rec
	}
	return model.UserRecord{}
}

func (m *MockLedgerStore) Put(userID int64, rec model.UserRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table[userID] = &rec
}
