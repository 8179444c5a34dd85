// File: internal/infra/telegram/relay.go
package telegram

import (
	"fmt"
	"sync"
	"time"

	"telegram-look-bot/internal/domain/ports/adapter"
)

// relayMinInterval is the floor between two edits of the same status
// message. Telegram rate-limits message edits aggressively, so the relay
// coalesces updates instead of forwarding every event.
const relayMinInterval = time.Second

// ProgressRelay funnels progress text into a single Telegram status message.
// At most one edit goes out per rolling interval, identical text is never
// re-sent, and edit failures are swallowed: progress display is best-effort
// and must never fail the operation it narrates.
type ProgressRelay struct {
	mu       sync.Mutex
	edit     func(text string) error
	now      func() time.Time
	lastAt   time.Time
	lastText string
}

func NewProgressRelay(edit func(text string) error, now func() time.Time) *ProgressRelay {
	if now == nil {
		now = time.Now
	}
	return &ProgressRelay{edit: edit, now: now}
}

// Update offers a new status text. Suppressed or failed edits leave the
// debounce window untouched for the text that was last shown.
func (r *ProgressRelay) Update(text string) {
	if text == "" {
		return
	}
	r.mu.Lock()
	if text == r.lastText {
		r.mu.Unlock()
		return
	}
	now := r.now()
	if !r.lastAt.IsZero() && now.Sub(r.lastAt) < relayMinInterval {
		r.mu.Unlock()
		return
	}
	r.lastAt = now
	r.lastText = text
	edit := r.edit
	r.mu.Unlock()

	// Outside the lock: the edit is a network call.
	_ = edit(text)
}

// Force pushes text regardless of the debounce window, for terminal states
// like "done" or "failed". Dedupe still applies.
func (r *ProgressRelay) Force(text string) {
	if text == "" {
		return
	}
	r.mu.Lock()
	if text == r.lastText {
		r.mu.Unlock()
		return
	}
	r.lastAt = r.now()
	r.lastText = text
	edit := r.edit
	r.mu.Unlock()

	_ = edit(text)
}

func formatBytes(n float64) string {
	if n <= 0 {
		return "?"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	u := 0
	for n >= 1024 && u < len(units)-1 {
		n /= 1024
		u++
	}
	if u == 0 {
		return fmt.Sprintf("%d %s", int(n), units[u])
	}
	return fmt.Sprintf("%.1f %s", n, units[u])
}

func formatETA(d time.Duration) string {
	if d <= 0 {
		return "?"
	}
	s := int(d.Seconds())
	m := s / 60
	s %= 60
	h := m / 60
	m %= 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// renderProgress turns a transfer event into the three-line status text.
func renderProgress(ev adapter.ProgressEvent, lang, kind string) string {
	if ev.Status == adapter.ProgressFinished {
		if lang == "fr" {
			return "✅ Téléchargement terminé. 📦 Préparation…"
		}
		return "✅ Download finished. 📦 Preparing…"
	}

	var title string
	switch {
	case lang == "fr" && kind == "audio":
		title = "⬇️ Téléchargement audio…"
	case lang == "fr":
		title = "⬇️ Téléchargement vidéo…"
	case kind == "audio":
		title = "⬇️ Downloading audio…"
	default:
		title = "⬇️ Downloading video…"
	}

	pct := "?%"
	if ev.Total > 0 && ev.Downloaded >= 0 {
		pct = fmt.Sprintf("%d%%", int(float64(ev.Downloaded)/float64(ev.Total)*100))
	}
	line1 := fmt.Sprintf("%s • %s / %s", pct, formatBytes(float64(ev.Downloaded)), formatBytes(float64(ev.Total)))
	line2 := fmt.Sprintf("⚡ %s/s • ⏱️ %s", formatBytes(ev.Speed), formatETA(ev.ETA))
	return title + "\n" + line1 + "\n" + line2
}
