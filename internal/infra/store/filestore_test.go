//go:build !integration

package store_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"telegram-look-bot/internal/domain/model"
	"telegram-look-bot/internal/domain/ports/repository"
	"telegram-look-bot/internal/infra/store"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func TestFileStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file loads as empty table", func(t *testing.T) {
		s := store.NewFileStore(filepath.Join(t.TempDir(), "nope.json"), newTestLogger())
		table, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(table) != 0 {
			t.Errorf("expected empty table, got %d entries", len(table))
		}
	})

	t.Run("malformed file loads as empty table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		s := store.NewFileStore(path, newTestLogger())
		table, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(table) != 0 {
			t.Errorf("expected empty table, got %d entries", len(table))
		}
	})

	t.Run("invalid keys are skipped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		raw := `{"12":{"credits":3},"abc":{"credits":9},"-5":{"credits":9}}`
		if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
			t.Fatal(err)
		}
		s := store.NewFileStore(path, newTestLogger())
		table, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(table) != 1 {
			t.Fatalf("expected one valid entry, got %d", len(table))
		}
		if table[12] == nil || table[12].Credits != 3 {
			t.Errorf("entry 12 wrong: %+v", table[12])
		}
	})
}

func TestFileStore_SaveLoadRoundtrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	s := store.NewFileStore(path, newTestLogger())

	in := repository.Table{
		1: {PremiumUntil: 1750000000, Credits: 4, ReferredBy: 9, RefCount: 2},
		2: {EffectsFreeDay: "2025-06-10", EffectsFreeUsed: 1, SuccessCount: 7},
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out))
	}
	if *out[1] != *in[1] || *out[2] != *in[2] {
		t.Errorf("roundtrip mismatch: %+v vs %+v", out, in)
	}

	// The snapshot is keyed by decimal strings.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var byKey map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byKey); err != nil {
		t.Fatalf("snapshot is not a string-keyed object: %v", err)
	}
	if _, ok := byKey["1"]; !ok {
		t.Error(`missing key "1" in snapshot`)
	}
}

func TestFileStore_Mutate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	s := store.NewFileStore(path, newTestLogger())

	t.Run("creates the record on first touch", func(t *testing.T) {
		err := s.Mutate(ctx, 5, func(rec *model.UserRecord) error {
			rec.Credits = 10
			return nil
		})
		if err != nil {
			t.Fatalf("mutate: %v", err)
		}
		table, _ := s.Load(ctx)
		if table[5] == nil || table[5].Credits != 10 {
			t.Errorf("record not created: %+v", table[5])
		}
	})

	t.Run("rejects invalid user id", func(t *testing.T) {
		if err := s.Mutate(ctx, 0, func(*model.UserRecord) error { return nil }); err == nil {
			t.Error("expected error for user id 0")
		}
	})

	t.Run("concurrent increments serialize", func(t *testing.T) {
		const n = 50
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Mutate(ctx, 77, func(rec *model.UserRecord) error {
					rec.Credits++
					return nil
				})
				if err != nil {
					t.Errorf("mutate: %v", err)
				}
			}()
		}
		wg.Wait()

		table, _ := s.Load(ctx)
		if got := table[77].Credits; got != n {
			t.Errorf("expected %d credits after %d increments, got %d", n, n, got)
		}
	})
}

func TestFileStore_NoPartialSnapshots(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")
	s := store.NewFileStore(path, newTestLogger())

	if err := s.Save(ctx, repository.Table{1: {Credits: 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// No temp files may survive a completed save.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "store.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("unexpected files after save: %v", names)
	}
}
