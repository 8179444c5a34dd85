//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"telegram-look-bot/internal/domain"
	"telegram-look-bot/internal/domain/model"
	"telegram-look-bot/internal/usecase"
)

type mockStatsExtractor struct {
	stats model.SignalStats
	err   error
}

func (m *mockStatsExtractor) ExtractSignalStats(ctx context.Context, path string) (model.SignalStats, error) {
	return m.stats, m.err
}

type mockEqApplier struct {
	err     error
	payload []byte
	gotIn   string
	gotOut  string
	got     model.EqParams
}

func (m *mockEqApplier) ApplyEq(ctx context.Context, in, out string, p model.EqParams) error {
	m.gotIn, m.gotOut, m.got = in, out, p
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(out, m.payload, 0o644)
}

func TestLookTransferUseCase_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("grades the source toward the reference", func(t *testing.T) {
		dir := t.TempDir()
		stats := &mockStatsExtractor{stats: model.SignalStats{YAvg: 100, YRange: 50, CRange: 20}}
		eq := &mockEqApplier{payload: []byte("video-bytes")}
		uc := usecase.NewLookTransferUseCase(stats, eq, dir, 1<<20, newTestLogger())

		ref := model.SignalStats{YAvg: 120, YRange: 60, CRange: 24}
		out, err := uc.Transfer(ctx, "/tmp/in.mp4", ref)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer os.Remove(out)

		if eq.gotIn != "/tmp/in.mp4" {
			t.Errorf("wrong input path: %s", eq.gotIn)
		}
		if filepath.Dir(out) != dir {
			t.Errorf("output outside work dir: %s", out)
		}
		want := model.ComputeEqParams(stats.stats, ref)
		if eq.got != want {
			t.Errorf("expected params %+v, got %+v", want, eq.got)
		}
		if _, err := os.Stat(out); err != nil {
			t.Errorf("output file missing: %v", err)
		}
	})

	t.Run("identical stats produce the identity grade", func(t *testing.T) {
		dir := t.TempDir()
		same := model.SignalStats{YAvg: 100, YRange: 50, CRange: 20}
		stats := &mockStatsExtractor{stats: same}
		eq := &mockEqApplier{payload: []byte("x")}
		uc := usecase.NewLookTransferUseCase(stats, eq, dir, 1<<20, newTestLogger())

		out, err := uc.Transfer(ctx, "in.mp4", same)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer os.Remove(out)

		want := model.EqParams{Brightness: 0, Contrast: 1, Saturation: 1}
		if eq.got != want {
			t.Errorf("expected identity params, got %+v", eq.got)
		}
	})

	t.Run("oversized output is rejected and removed", func(t *testing.T) {
		dir := t.TempDir()
		stats := &mockStatsExtractor{stats: model.SignalStats{YAvg: 1, YRange: 1, CRange: 1}}
		eq := &mockEqApplier{payload: make([]byte, 2048)}
		uc := usecase.NewLookTransferUseCase(stats, eq, dir, 1024, newTestLogger())

		_, err := uc.Transfer(ctx, "in.mp4", model.SignalStats{})
		if !errors.Is(err, domain.ErrOutputTooLarge) {
			t.Fatalf("expected ErrOutputTooLarge, got %v", err)
		}
		if _, statErr := os.Stat(eq.gotOut); !os.IsNotExist(statErr) {
			t.Error("oversized output file was left behind")
		}
	})

	t.Run("transcoder failure leaves no output", func(t *testing.T) {
		dir := t.TempDir()
		stats := &mockStatsExtractor{stats: model.SignalStats{YAvg: 1, YRange: 1, CRange: 1}}
		eq := &mockEqApplier{err: errors.New("encoder exploded")}
		uc := usecase.NewLookTransferUseCase(stats, eq, dir, 1<<20, newTestLogger())

		_, err := uc.Transfer(ctx, "in.mp4", model.SignalStats{})
		if !errors.Is(err, domain.ErrPipelineFailed) {
			t.Fatalf("expected ErrPipelineFailed, got %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("work dir not clean after failure: %v", entries)
		}
	})

	t.Run("source analysis failure aborts", func(t *testing.T) {
		dir := t.TempDir()
		stats := &mockStatsExtractor{err: errors.New("decode failed")}
		eq := &mockEqApplier{}
		uc := usecase.NewLookTransferUseCase(stats, eq, dir, 1<<20, newTestLogger())

		_, err := uc.Transfer(ctx, "in.mp4", model.SignalStats{})
		if !errors.Is(err, domain.ErrPipelineFailed) {
			t.Fatalf("expected ErrPipelineFailed, got %v", err)
		}
		if eq.gotOut != "" {
			t.Error("eq applier should not run after failed analysis")
		}
	})
}

func TestLookTransferUseCase_AnalyzeReference(t *testing.T) {
	ctx := context.Background()

	stats := &mockStatsExtractor{stats: model.SignalStats{YAvg: 90, YRange: 40, CRange: 15}}
	uc := usecase.NewLookTransferUseCase(stats, &mockEqApplier{}, t.TempDir(), 1<<20, newTestLogger())

	got, err := uc.AnalyzeReference(ctx, "ref.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != stats.stats {
		t.Errorf("expected %+v, got %+v", stats.stats, got)
	}
}
