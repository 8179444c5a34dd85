// File: internal/usecase/looktransfer_uc.go
package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"telegram-look-bot/internal/domain"
	"telegram-look-bot/internal/domain/model"
	"telegram-look-bot/internal/domain/ports/adapter"
	"telegram-look-bot/internal/infra/logging"
	"telegram-look-bot/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ LookTransferUseCase = (*lookTransferUC)(nil)

// LookTransferUseCase runs the color-grade transfer pipeline: analyze,
// derive coefficients, re-encode.
type LookTransferUseCase interface {
	// AnalyzeReference fingerprints a reference clip.
	AnalyzeReference(ctx context.Context, path string) (model.SignalStats, error)
	// Transfer grades the source clip toward refStats and returns the path
	// of the produced file. The caller owns the returned file; on error no
	// output file is left behind.
	Transfer(ctx context.Context, srcPath string, refStats model.SignalStats) (string, error)
}

type lookTransferUC struct {
	stats    adapter.StatsExtractor
	eq       adapter.EqApplier
	workDir  string
	maxBytes int64
	log      *zerolog.Logger
}

func NewLookTransferUseCase(stats adapter.StatsExtractor, eq adapter.EqApplier, workDir string, maxBytes int64, logger *zerolog.Logger) *lookTransferUC {
	return &lookTransferUC{
		stats:    stats,
		eq:       eq,
		workDir:  workDir,
		maxBytes: maxBytes,
		log:      logger,
	}
}

func (u *lookTransferUC) AnalyzeReference(ctx context.Context, path string) (model.SignalStats, error) {
	defer logging.TraceDuration(u.log, "LookTransferUC.AnalyzeReference")()
	s, err := u.stats.ExtractSignalStats(ctx, path)
	if err != nil {
		return model.SignalStats{}, fmt.Errorf("%w: analyze reference: %v", domain.ErrPipelineFailed, err)
	}
	return s, nil
}

func (u *lookTransferUC) Transfer(ctx context.Context, srcPath string, refStats model.SignalStats) (string, error) {
	defer logging.TraceDuration(u.log, "LookTransferUC.Transfer")()
	started := time.Now()

	srcStats, err := u.stats.ExtractSignalStats(ctx, srcPath)
	if err != nil {
		metrics.ObserveLookTransfer("failed", 0)
		return "", fmt.Errorf("%w: analyze source: %v", domain.ErrPipelineFailed, err)
	}

	params := model.ComputeEqParams(srcStats, refStats)
	u.log.Debug().
		Float64("brightness", params.Brightness).
		Float64("contrast", params.Contrast).
		Float64("saturation", params.Saturation).
		Msg("eq params computed")

	outPath := filepath.Join(u.workDir, "look_"+uuid.NewString()+".mp4")
	if err := u.eq.ApplyEq(ctx, srcPath, outPath, params); err != nil {
		u.discard(outPath)
		metrics.ObserveLookTransfer("failed", 0)
		return "", fmt.Errorf("%w: apply eq: %v", domain.ErrPipelineFailed, err)
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		u.discard(outPath)
		metrics.ObserveLookTransfer("failed", 0)
		return "", fmt.Errorf("%w: transcoder produced no output", domain.ErrPipelineFailed)
	}
	if u.maxBytes > 0 && info.Size() > u.maxBytes {
		u.discard(outPath)
		metrics.ObserveLookTransfer("too_large", 0)
		return "", fmt.Errorf("%w: %d bytes", domain.ErrOutputTooLarge, info.Size())
	}

	metrics.ObserveLookTransfer("ok", time.Since(started).Seconds())
	return outPath, nil
}

func (u *lookTransferUC) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		u.log.Debug().Err(err).Str("path", path).Msg("cleanup failed")
	}
}
