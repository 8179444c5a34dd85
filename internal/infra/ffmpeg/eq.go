// File: internal/infra/ffmpeg/eq.go
package ffmpeg

import (
	"context"
	"fmt"

	"telegram-look-bot/internal/domain/model"
	"telegram-look-bot/internal/domain/ports/adapter"
)

var _ adapter.EqApplier = (*FFmpeg)(nil)

// ApplyEq re-encodes in into out with a brightness/contrast/saturation
// adjustment on the video stream. Audio, when present, is passed through
// re-encoded to AAC; the 0:a? mapping keeps silent clips working. The
// +faststart flag makes the container playback-ready for streaming clients.
func (f *FFmpeg) ApplyEq(ctx context.Context, in, out string, p model.EqParams) error {
	vf := fmt.Sprintf("eq=brightness=%.4f:contrast=%.4f:saturation=%.4f",
		p.Brightness, p.Contrast, p.Saturation)
	_, err := f.run(ctx,
		"-hide_banner",
		"-y",
		"-i", in,
		"-map", "0:v:0",
		"-map", "0:a?",
		"-vf", vf,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		out,
	)
	return err
}
