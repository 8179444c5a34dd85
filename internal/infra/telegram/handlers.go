// File: internal/infra/telegram/handlers.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-look-bot/internal/domain"
)

var urlRe = regexp.MustCompile(`https?://\S+`)

func extractFirstURL(text string) string {
	u := urlRe.FindString(text)
	return strings.TrimRight(u, ".,;:!?)]}")
}

func isHTTPURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

var tiktokVideoIDRe = regexp.MustCompile(`tiktok\.com/.*/video/(\d+)`)

func tiktokVideoID(u string) string {
	m := tiktokVideoIDRe.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	return m[1]
}

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message) error {
	lang := langFor(m.From)
	switch m.Command() {
	case "start":
		return b.handleStart(ctx, m, lang)
	case "help":
		b.replyKB(m.Chat.ID, msg("help", lang), mainMenuKeyboard(b.username, lang))
	case "menu":
		b.replyKB(m.Chat.ID, msg("menu", lang), mainMenuKeyboard(b.username, lang))
	case "premium":
		return b.sendPremiumMenu(ctx, m.Chat.ID, m.From.ID, lang)
	default:
		b.replyKB(m.Chat.ID, msg("help", lang), mainMenuKeyboard(b.username, lang))
	}
	return nil
}

func (b *Bot) handleStart(ctx context.Context, m *tgbotapi.Message, lang string) error {
	// Deep-link payload "ref_<id>" carries a referral.
	if args := m.CommandArguments(); strings.HasPrefix(args, "ref_") && m.From != nil {
		refID, err := strconv.ParseInt(strings.TrimPrefix(args, "ref_"), 10, 64)
		if err == nil && refID > 0 {
			applied, err := b.ent.ApplyReferral(ctx, m.From.ID, refID)
			if err != nil {
				b.log.Error().Err(err).Msg("apply referral failed")
			} else if applied {
				b.reply(m.Chat.ID, msg("referral_bonus", lang))
			}
		}
	}
	b.replyKB(m.Chat.ID, msg("start", lang), mainMenuKeyboard(b.username, lang))
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	if m.From == nil {
		return nil
	}
	lang := langFor(m.From)
	text := strings.TrimSpace(m.Text)
	if text == "" {
		text = strings.TrimSpace(m.Caption)
	}

	// An open effects session claims the next video upload.
	sess, err := b.sessions.Get(ctx, m.Chat.ID)
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		return err
	}
	if sess != nil {
		if extractFirstURL(text) != "" {
			// A fresh link abandons the session; nothing was consumed.
			if err := b.sessions.Clear(ctx, m.Chat.ID); err != nil {
				b.log.Debug().Err(err).Msg("session clear failed")
			}
		} else {
			if b.messageVideoFileID(m) == "" {
				b.reply(m.Chat.ID, msg("effects_ready", lang))
				return nil
			}
			return b.startEffectsTransfer(ctx, m, sess, lang)
		}
	}

	if text == "" {
		return nil
	}
	url := extractFirstURL(text)
	if url == "" {
		b.replyKB(m.Chat.ID, msg("prompt_send_link", lang), mainMenuKeyboard(b.username, lang))
		return nil
	}
	if !isHTTPURL(url) {
		b.reply(m.Chat.ID, msg("invalid_url", lang))
		return nil
	}

	p := b.prefsFor(m.Chat.ID)
	b.mu.Lock()
	p.lastURL = url
	b.mu.Unlock()

	b.replyKB(m.Chat.ID, msg("choose_type", lang), typeKeyboard(b.username, lang))
	return nil
}

func (b *Bot) messageVideoFileID(m *tgbotapi.Message) string {
	if m.Video != nil {
		return m.Video.FileID
	}
	if m.Document != nil && strings.HasPrefix(m.Document.MimeType, "video/") {
		return m.Document.FileID
	}
	return ""
}

func (b *Bot) answerCallback(q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.log.Debug().Err(err).Msg("callback answer failed")
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q.Message == nil || q.From == nil {
		return nil
	}
	b.answerCallback(q)

	lang := langFor(q.From)
	chatID := q.Message.Chat.ID
	userID := q.From.ID
	data := q.Data

	switch {
	case strings.HasPrefix(data, "menu_"):
		return b.handleMenuCallback(ctx, chatID, userID, lang, data)
	case strings.HasPrefix(data, "type_"):
		return b.handleTypeCallback(ctx, chatID, userID, lang, data)
	case strings.HasPrefix(data, "quality_"):
		return b.handleQualityCallback(chatID, lang, data)
	case strings.HasPrefix(data, "alang_"):
		return b.handleAudioLangCallback(chatID, userID, lang, data)
	case strings.HasPrefix(data, "retry_"):
		return b.handleRetryCallback(chatID, userID, lang, data)
	case strings.HasPrefix(data, "premium_"):
		return b.handlePremiumCallback(ctx, chatID, userID, lang, data)
	}
	return nil
}

func (b *Bot) handleMenuCallback(ctx context.Context, chatID, userID int64, lang, data string) error {
	switch data {
	case "menu_main":
		b.replyKB(chatID, msg("menu", lang), mainMenuKeyboard(b.username, lang))
	case "menu_help":
		b.replyKB(chatID, msg("help", lang), mainMenuKeyboard(b.username, lang))
	case "menu_sites":
		b.replyKB(chatID, msg("supported_sites", lang), mainMenuKeyboard(b.username, lang))
	case "menu_premium":
		return b.sendPremiumMenu(ctx, chatID, userID, lang)
	}
	return nil
}

func (b *Bot) savedURL(chatID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.prefs[chatID]; ok {
		return p.lastURL
	}
	return ""
}

func (b *Bot) handleTypeCallback(ctx context.Context, chatID, userID int64, lang, data string) error {
	url := b.savedURL(chatID)
	if url == "" {
		b.reply(chatID, msg("no_url_saved", lang))
		return nil
	}

	switch data {
	case "type_video":
		b.replyKB(chatID, msg("choose_quality", lang), qualityKeyboard())
	case "type_audio":
		b.submitAudioDownload(chatID, userID, url, lang)
	case "type_effects":
		return b.startEffectsSession(ctx, chatID, userID, url, lang)
	}
	return nil
}

func (b *Bot) handleQualityCallback(chatID int64, lang, data string) error {
	url := b.savedURL(chatID)
	if url == "" {
		b.reply(chatID, msg("no_url_saved", lang))
		return nil
	}
	quality := "sd"
	if data == "quality_hd" {
		quality = "hd"
	}
	p := b.prefsFor(chatID)
	b.mu.Lock()
	p.lastQuality = quality
	b.mu.Unlock()

	b.replyKB(chatID, msg("choose_audio_lang", lang), audioLangKeyboard(lang))
	return nil
}

func (b *Bot) handleAudioLangCallback(chatID, userID int64, lang, data string) error {
	url := b.savedURL(chatID)
	if url == "" {
		b.reply(chatID, msg("no_url_saved", lang))
		return nil
	}
	audioLang := ""
	switch data {
	case "alang_fr":
		audioLang = "fr"
	case "alang_en":
		audioLang = "en"
	}

	p := b.prefsFor(chatID)
	b.mu.Lock()
	p.lastAudio = audioLang
	quality := p.lastQuality
	b.mu.Unlock()
	if quality == "" {
		quality = "hd"
	}

	b.submitVideoDownload(chatID, userID, url, lang, quality, audioLang)
	return nil
}

func (b *Bot) handleRetryCallback(chatID, userID int64, lang, data string) error {
	url := b.savedURL(chatID)
	if url == "" {
		b.reply(chatID, msg("no_url_saved", lang))
		return nil
	}

	if strings.HasPrefix(data, "retry_video_") {
		quality := strings.TrimPrefix(data, "retry_video_")
		if quality != "hd" && quality != "sd" {
			quality = "hd"
		}
		p := b.prefsFor(chatID)
		b.mu.Lock()
		p.lastQuality = quality
		audioLang := p.lastAudio
		b.mu.Unlock()
		b.submitVideoDownload(chatID, userID, url, lang, quality, audioLang)
		return nil
	}
	if data == "retry_audio" {
		b.submitAudioDownload(chatID, userID, url, lang)
	}
	return nil
}

func (b *Bot) sendPremiumMenu(ctx context.Context, chatID, userID int64, lang string) error {
	sum, err := b.ent.Summary(ctx, userID)
	if err != nil {
		b.reply(chatID, msg("error_try_again", lang))
		return err
	}

	statusLine := msg("free_mode", lang)
	if sum.Premium {
		statusLine = fmt.Sprintf(msg("premium_active_until", lang), sum.PremiumUntil.Format("2006-01-02 15:04"))
	}
	text := msg("premium_menu_title", lang) + "\n\n" + statusLine + "\n" +
		fmt.Sprintf(msg("credits_line", lang), sum.Credits)
	if link := refLink(b.username, userID); link != "" {
		text += "\n\n" + fmt.Sprintf(msg("ref_link_line", lang), link)
	}
	b.replyKB(chatID, text, premiumKeyboard(lang))
	return nil
}

// maybeSendAd posts the sponsored message when a non-premium user crossed
// the success cadence.
func (b *Bot) maybeSendAd(ctx context.Context, chatID, userID int64, lang string) {
	sum, err := b.ent.Summary(ctx, userID)
	if err != nil {
		b.log.Debug().Err(err).Msg("ad check failed")
		return
	}
	if sum.Premium {
		return
	}
	show, err := b.ent.BumpSuccess(ctx, userID)
	if err != nil {
		b.log.Debug().Err(err).Msg("success bump failed")
		return
	}
	if show {
		b.replyKB(chatID, msg("ad_text", lang), adKeyboard(b.username, lang))
	}
}

// submit wraps pool submission with a user-visible fallback when the queue
// is saturated.
func (b *Bot) submit(chatID int64, lang string, task func(ctx context.Context) error) {
	if err := b.pool.Submit(task); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", chatID).Msg("task rejected")
		b.reply(chatID, msg("error_try_again", lang))
	}
}
