// File: internal/infra/ytdlp/progress.go
package ytdlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"telegram-look-bot/internal/domain/ports/adapter"
)

// yt-dlp --newline progress lines look like:
//
//	[download]  42.3% of   10.00MiB at    1.25MiB/s ETA 00:05
//	[download] 100% of 10.00MiB in 00:08
var progressRe = regexp.MustCompile(
	`\[download\]\s+([0-9.]+)% of\s+~?\s*([0-9.]+)(KiB|MiB|GiB|B)(?: at\s+([0-9.]+)(KiB|MiB|GiB|B)/s)?(?: ETA ([0-9:]+))?`)

func sizeBytes(val, unit string) float64 {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	switch unit {
	case "KiB":
		f *= 1 << 10
	case "MiB":
		f *= 1 << 20
	case "GiB":
		f *= 1 << 30
	}
	return f
}

func etaDuration(s string) time.Duration {
	sec := 0
	for _, p := range strings.Split(s, ":") {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		sec = sec*60 + n
	}
	return time.Duration(sec) * time.Second
}

// ParseProgressLine turns one yt-dlp output line into a ProgressEvent.
// Non-progress lines return ok=false.
func ParseProgressLine(line string) (adapter.ProgressEvent, bool) {
	m := progressRe.FindStringSubmatch(line)
	if m == nil {
		return adapter.ProgressEvent{}, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return adapter.ProgressEvent{}, false
	}
	total := sizeBytes(m[2], m[3])
	ev := adapter.ProgressEvent{
		Status:     adapter.ProgressDownloading,
		Total:      int64(total),
		Downloaded: int64(pct / 100 * total),
	}
	if m[4] != "" {
		ev.Speed = sizeBytes(m[4], m[5])
	}
	if m[6] != "" {
		ev.ETA = etaDuration(m[6])
	}
	return ev, true
}
