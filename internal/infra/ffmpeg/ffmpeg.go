// File: internal/infra/ffmpeg/ffmpeg.go
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// FFmpeg drives the ffmpeg binary for signal analysis and filtering.
type FFmpeg struct {
	bin string
	log *zerolog.Logger
}

func New(bin string, logger *zerolog.Logger) (*FFmpeg, error) {
	if bin == "" {
		bin = "ffmpeg"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	return &FFmpeg{bin: bin, log: logger}, nil
}

// run executes ffmpeg and returns its combined output. ffmpeg writes both
// diagnostics and metadata prints to stderr, so the two streams are always
// consumed together.
func (f *FFmpeg) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, f.bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("ffmpeg: %w, output: %s", err, tail(string(out), 512))
	}
	return string(out), nil
}

// tail keeps error messages bounded; ffmpeg output can run to megabytes.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
