// File: internal/infra/ytdlp/downloader.go
package ytdlp

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"telegram-look-bot/internal/domain/ports/adapter"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var _ adapter.MediaDownloader = (*Downloader)(nil)

// Downloader shells out to yt-dlp for link resolution and media fetching.
// Site support, URL normalization and format negotiation all live in the
// external tool; this adapter only picks a format expression and relays
// progress.
type Downloader struct {
	bin string
	log *zerolog.Logger
}

func New(bin string, logger *zerolog.Logger) (*Downloader, error) {
	if bin == "" {
		bin = "yt-dlp"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("yt-dlp not found: %w", err)
	}
	return &Downloader{bin: bin, log: logger}, nil
}

func formatFor(opts adapter.DownloadOptions) string {
	if opts.Kind == adapter.DownloadAudio {
		return "bestaudio/best"
	}
	h := opts.MaxHeight
	if h <= 0 {
		h = 1080
	}
	audioPref := "ba"
	if opts.AudioLang != "" {
		audioPref = fmt.Sprintf("ba[language~='^%s']", opts.AudioLang)
	}
	return fmt.Sprintf("bv*[height<=%d]+%s/bv*[height<=%d]+ba/b[height<=%d]/best[height<=%d]/best",
		h, audioPref, h, h, h)
}

func (d *Downloader) Download(ctx context.Context, url string, opts adapter.DownloadOptions, progress adapter.ProgressFunc) (string, error) {
	outDir := opts.OutDir
	if outDir == "" {
		outDir = os.TempDir()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	// Unique stem per operation so concurrent downloads never collide and
	// the produced file can be located regardless of container extension.
	stem := "dl_" + uuid.NewString()
	outTmpl := filepath.Join(outDir, stem+".%(ext)s")

	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--newline",
		"--progress",
		"--format", formatFor(opts),
		"--output", outTmpl,
	}
	if opts.Kind == adapter.DownloadVideo {
		args = append(args, "--merge-output-format", "mp4")
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, d.bin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("yt-dlp stdout: %w", err)
	}
	cmd.Stderr = cmd.Stdout // progress and errors interleave on one stream

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start yt-dlp: %w", err)
	}

	sc := bufio.NewScanner(stdout)
	for sc.Scan() {
		if progress == nil {
			continue
		}
		if ev, ok := ParseProgressLine(sc.Text()); ok {
			progress(ev)
		}
	}

	if err := cmd.Wait(); err != nil {
		d.removeByStem(outDir, stem)
		return "", fmt.Errorf("yt-dlp: %w", err)
	}
	if progress != nil {
		progress(adapter.ProgressEvent{Status: adapter.ProgressFinished})
	}

	path, err := d.findByStem(outDir, stem)
	if err != nil {
		return "", err
	}
	return path, nil
}

func (d *Downloader) findByStem(dir, stem string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, stem+".*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("downloaded file not found for %s", stem)
	}
	// Merged output replaces intermediates, so a single match is the norm;
	// prefer the largest file if fragments were left behind.
	best := matches[0]
	var bestSize int64 = -1
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best, bestSize = m, info.Size()
		}
	}
	if bestSize <= 0 {
		d.removeByStem(dir, stem)
		return "", fmt.Errorf("downloaded file is empty: %s", best)
	}
	return best, nil
}

func (d *Downloader) removeByStem(dir, stem string) {
	matches, _ := filepath.Glob(filepath.Join(dir, stem+".*"))
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			d.log.Debug().Err(err).Str("path", m).Msg("cleanup failed")
		}
	}
}
