//go:build !integration

package ytdlp

import (
	"strings"
	"testing"

	"telegram-look-bot/internal/domain/ports/adapter"
)

func TestFormatFor(t *testing.T) {
	t.Run("audio ignores height", func(t *testing.T) {
		got := formatFor(adapter.DownloadOptions{Kind: adapter.DownloadAudio, MaxHeight: 720})
		if got != "bestaudio/best" {
			t.Errorf("unexpected audio format: %q", got)
		}
	})

	t.Run("video caps at requested height", func(t *testing.T) {
		got := formatFor(adapter.DownloadOptions{Kind: adapter.DownloadVideo, MaxHeight: 720})
		if !strings.Contains(got, "height<=720") {
			t.Errorf("missing height cap: %q", got)
		}
	})

	t.Run("video defaults to 1080", func(t *testing.T) {
		got := formatFor(adapter.DownloadOptions{Kind: adapter.DownloadVideo})
		if !strings.Contains(got, "height<=1080") {
			t.Errorf("missing default cap: %q", got)
		}
	})

	t.Run("audio language narrows the first choice only", func(t *testing.T) {
		got := formatFor(adapter.DownloadOptions{Kind: adapter.DownloadVideo, MaxHeight: 1080, AudioLang: "fr"})
		if !strings.Contains(got, "ba[language~='^fr']") {
			t.Errorf("missing language preference: %q", got)
		}
		// The fallback chain must keep a plain audio track.
		if !strings.Contains(got, "+ba/") {
			t.Errorf("missing plain audio fallback: %q", got)
		}
	})
}
