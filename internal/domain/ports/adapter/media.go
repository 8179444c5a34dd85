package adapter

import (
	"context"
	"time"

	"telegram-look-bot/internal/domain/model"
)

// ProgressStatus tags a progress event.
type ProgressStatus string

const (
	ProgressDownloading ProgressStatus = "downloading"
	ProgressFinished    ProgressStatus = "finished"
)

// ProgressEvent carries live transfer feedback from a worker. Total may be
// an estimate; zero means unknown.
type ProgressEvent struct {
	Status     ProgressStatus
	Downloaded int64
	Total      int64
	Speed      float64 // bytes per second, 0 when unknown
	ETA        time.Duration
}

// ProgressFunc receives events from inside a blocking transfer. It may be
// called from any goroutine and must never block for long.
type ProgressFunc func(ProgressEvent)

// DownloadKind selects the media track to fetch.
type DownloadKind string

const (
	DownloadVideo DownloadKind = "video"
	DownloadAudio DownloadKind = "audio"
)

// DownloadOptions bound what the extractor fetches.
type DownloadOptions struct {
	Kind      DownloadKind
	MaxHeight int    // 0 means no cap
	AudioLang string // preferred audio track language ("" keeps the original)
	OutDir    string // directory for the fetched file
}

// MediaDownloader resolves a link and fetches the media behind it. Link
// parsing and per-site extraction are fully delegated to the implementation.
type MediaDownloader interface {
	Download(ctx context.Context, url string, opts DownloadOptions, progress ProgressFunc) (path string, err error)
}

// StatsExtractor computes signal statistics for a local video file.
type StatsExtractor interface {
	ExtractSignalStats(ctx context.Context, path string) (model.SignalStats, error)
}

// EqApplier re-encodes in into out with the given color adjustment, audio
// passed through when present. A non-zero transcoder exit is a hard failure
// and no partial output is valid.
type EqApplier interface {
	ApplyEq(ctx context.Context, in, out string, p model.EqParams) error
}
