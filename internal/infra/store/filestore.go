// File: internal/infra/store/filestore.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"telegram-look-bot/internal/domain/model"
	"telegram-look-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

var _ repository.LedgerStore = (*FileStore)(nil)

// FileStore persists the whole ledger table as one JSON snapshot. Writes go
// to a sibling temp file and are renamed over the canonical path, so the
// store is never observed half-written. A single mutex spans every
// load-mutate-save cycle; that is the only concurrency control.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  *zerolog.Logger
}

func NewFileStore(path string, logger *zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: logger}
}

func (s *FileStore) Load(ctx context.Context) (repository.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(), nil
}

func (s *FileStore) Save(ctx context.Context, t repository.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(t)
}

func (s *FileStore) Mutate(ctx context.Context, userID int64, fn func(rec *model.UserRecord) error) error {
	if userID <= 0 {
		return fmt.Errorf("mutate user %d: invalid id", userID)
	}
	return s.Update(ctx, func(t repository.Table) error {
		rec := t[userID]
		if rec == nil {
			rec = &model.UserRecord{}
			t[userID] = rec
		}
		return fn(rec)
	})
}

func (s *FileStore) Update(ctx context.Context, fn func(t repository.Table) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.loadLocked()
	if err := fn(t); err != nil {
		return err
	}
	return s.saveLocked(t)
}

// loadLocked reads the snapshot. Missing, empty or malformed files all load
// as an empty table: the ledger is best-effort usage tracking and staying up
// beats surfacing corruption.
func (s *FileStore) loadLocked() repository.Table {
	t := repository.Table{}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("ledger snapshot unreadable, starting empty")
		}
		return t
	}
	if len(raw) == 0 {
		return t
	}
	var byKey map[string]*model.UserRecord
	if err := json.Unmarshal(raw, &byKey); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("ledger snapshot malformed, starting empty")
		return t
	}
	for k, rec := range byKey {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil || id <= 0 || rec == nil {
			continue
		}
		t[id] = rec
	}
	return t
}

func (s *FileStore) saveLocked(t repository.Table) error {
	byKey := make(map[string]*model.UserRecord, len(t))
	for id, rec := range t {
		byKey[strconv.FormatInt(id, 10)] = rec
	}
	raw, err := json.Marshal(byKey)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create ledger temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close ledger temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger snapshot: %w", err)
	}
	return nil
}
