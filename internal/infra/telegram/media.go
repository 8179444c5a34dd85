// File: internal/infra/telegram/media.go
package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"telegram-look-bot/internal/domain/model"
	"telegram-look-bot/internal/domain/ports/adapter"
	"telegram-look-bot/internal/domain/ports/repository"
	"telegram-look-bot/internal/infra/metrics"
)

const (
	maxHeightHD  = 1080
	maxHeightSD  = 720
	maxHeightRef = 720
)

// submitVideoDownload queues the full link-to-video delivery flow.
func (b *Bot) submitVideoDownload(chatID, userID int64, url, lang, quality, audioLang string) {
	b.submit(chatID, lang, func(ctx context.Context) error {
		return b.processVideoURL(ctx, chatID, userID, url, lang, quality, audioLang)
	})
}

func (b *Bot) submitAudioDownload(chatID, userID int64, url, lang string) {
	b.submit(chatID, lang, func(ctx context.Context) error {
		return b.processAudioURL(ctx, chatID, userID, url, lang)
	})
}

func (b *Bot) processVideoURL(ctx context.Context, chatID, userID int64, url, lang, quality, audioLang string) error {
	// Repeated TikTok links are answered from the file_id cache without a
	// new download.
	vid := tiktokVideoID(url)
	if vid != "" && audioLang == "" && b.fileIDs != nil {
		if fileID, ok := b.fileIDs.Get(vid); ok {
			v := tgbotapi.NewVideo(chatID, tgbotapi.FileID(fileID))
			if _, err := b.api.Send(v); err == nil {
				b.maybeSendAd(ctx, chatID, userID, lang)
				return nil
			}
			// Stale file_id; fall through to a fresh download.
		}
	}

	maxHeight := maxHeightHD
	if quality == "sd" {
		maxHeight = maxHeightSD
	}

	relay := b.statusMessage(chatID, msg("downloading_start", lang))
	path, err := b.dl.Download(ctx, url, adapter.DownloadOptions{
		Kind:      adapter.DownloadVideo,
		MaxHeight: maxHeight,
		AudioLang: audioLang,
		OutDir:    b.cfg.Media.DownloadDir,
	}, func(ev adapter.ProgressEvent) {
		relay.Update(renderProgress(ev, lang, "video"))
	})
	metrics.IncDownload("video", err == nil)
	if err != nil {
		b.log.Info().Err(err).Str("url", url).Msg("video download failed")
		relay.Force(msg("download_failed", lang))
		b.replyKB(chatID, msg("error_try_again", lang), actionKeyboard(lang, "video", quality))
		return nil
	}
	defer b.discard(path)

	info, err := os.Stat(path)
	if err != nil {
		relay.Force(msg("download_failed", lang))
		b.replyKB(chatID, msg("error_try_again", lang), actionKeyboard(lang, "video", quality))
		return nil
	}
	if info.Size() > b.cfg.Media.MaxFileBytes {
		sizeMB := float64(info.Size()) / (1024 * 1024)
		relay.Force(msg("download_failed", lang))
		b.replyKB(chatID, fmt.Sprintf(msg("too_big", lang), sizeMB), actionKeyboard(lang, "video", quality))
		return nil
	}

	relay.Force(msg("uploading", lang))
	fileID, err := b.sendVideoWithRetry(chatID, path, filepath.Base(path))
	if err != nil {
		relay.Force(msg("download_failed", lang))
		b.replyKB(chatID, msg("error_try_again", lang), actionKeyboard(lang, "video", quality))
		return nil
	}
	if vid != "" && fileID != "" && b.fileIDs != nil {
		b.fileIDs.Put(vid, fileID)
	}

	relay.Force(msg("done", lang))
	b.reply(chatID, msg("cleaned", lang))
	b.maybeSendAd(ctx, chatID, userID, lang)
	return nil
}

func (b *Bot) processAudioURL(ctx context.Context, chatID, userID int64, url, lang string) error {
	relay := b.statusMessage(chatID, msg("downloading_start", lang))
	path, err := b.dl.Download(ctx, url, adapter.DownloadOptions{
		Kind:   adapter.DownloadAudio,
		OutDir: b.cfg.Media.DownloadDir,
	}, func(ev adapter.ProgressEvent) {
		relay.Update(renderProgress(ev, lang, "audio"))
	})
	metrics.IncDownload("audio", err == nil)
	if err != nil {
		b.log.Info().Err(err).Str("url", url).Msg("audio download failed")
		relay.Force(msg("download_failed", lang))
		b.replyKB(chatID, msg("error_try_again", lang), actionKeyboard(lang, "audio", ""))
		return nil
	}
	defer b.discard(path)

	info, err := os.Stat(path)
	if err != nil {
		relay.Force(msg("download_failed", lang))
		b.replyKB(chatID, msg("error_try_again", lang), actionKeyboard(lang, "audio", ""))
		return nil
	}
	if info.Size() > b.cfg.Media.MaxFileBytes {
		sizeMB := float64(info.Size()) / (1024 * 1024)
		relay.Force(msg("download_failed", lang))
		b.replyKB(chatID, fmt.Sprintf(msg("too_big", lang), sizeMB), actionKeyboard(lang, "audio", ""))
		return nil
	}

	relay.Force(msg("uploading", lang))
	if err := b.sendAudio(chatID, path, filepath.Base(path)); err != nil {
		relay.Force(msg("download_failed", lang))
		b.replyKB(chatID, msg("error_try_again", lang), actionKeyboard(lang, "audio", ""))
		return nil
	}

	relay.Force(msg("done", lang))
	b.reply(chatID, msg("cleaned", lang))
	b.maybeSendAd(ctx, chatID, userID, lang)
	return nil
}

// startEffectsSession reserves an entitlement, fetches and analyzes the
// reference clip and arms the session. Nothing is consumed until the user's
// video has been graded and delivered.
func (b *Bot) startEffectsSession(ctx context.Context, chatID, userID int64, url, lang string) error {
	outcome, err := b.ent.Plan(ctx, userID)
	if err != nil {
		b.reply(chatID, msg("error_try_again", lang))
		return err
	}
	if outcome == model.OutcomeDenied {
		b.replyKB(chatID, msg("premium_need_more", lang), premiumKeyboard(lang))
		return nil
	}

	b.reply(chatID, msg("effects_intro", lang))

	b.submit(chatID, lang, func(ctx context.Context) error {
		relay := b.statusMessage(chatID, msg("downloading_start", lang))
		refPath, err := b.dl.Download(ctx, url, adapter.DownloadOptions{
			Kind:      adapter.DownloadVideo,
			MaxHeight: maxHeightRef,
			OutDir:    b.cfg.Media.DownloadDir,
		}, func(ev adapter.ProgressEvent) {
			relay.Update(renderProgress(ev, lang, "video"))
		})
		metrics.IncDownload("video", err == nil)
		if err != nil {
			relay.Force(msg("download_failed", lang))
			b.reply(chatID, msg("error_try_again", lang))
			return nil
		}
		defer b.discard(refPath)

		relay.Force(msg("analyzing", lang))
		stats, err := b.look.AnalyzeReference(ctx, refPath)
		if err != nil {
			relay.Force(msg("download_failed", lang))
			b.reply(chatID, msg("error_try_again", lang))
			return nil
		}

		sess := &repository.EffectsSession{
			RefPath:  refPath,
			RefStats: stats,
			Outcome:  outcome,
		}
		if err := b.sessions.Set(ctx, chatID, sess); err != nil {
			relay.Force(msg("download_failed", lang))
			b.reply(chatID, msg("error_try_again", lang))
			return err
		}

		relay.Force(msg("done", lang))
		b.reply(chatID, msg("effects_ready", lang))
		return nil
	})
	return nil
}

// startEffectsTransfer consumes an armed session: fetch the user's upload,
// grade it toward the reference and deliver. The entitlement is finalized
// only after the graded file was actually sent.
func (b *Bot) startEffectsTransfer(ctx context.Context, m *tgbotapi.Message, sess *repository.EffectsSession, lang string) error {
	chatID := m.Chat.ID
	userID := m.From.ID
	fileID := b.messageVideoFileID(m)

	b.submit(chatID, lang, func(ctx context.Context) error {
		srcPath := filepath.Join(b.cfg.Media.DownloadDir, "effects_user_"+uuid.NewString()+".mp4")
		if err := b.downloadTelegramFile(ctx, fileID, srcPath); err != nil {
			b.log.Info().Err(err).Msg("telegram file download failed")
			b.reply(chatID, msg("error_try_again", lang))
			return nil
		}
		defer b.discard(srcPath)

		relay := b.statusMessage(chatID, msg("effects_processing", lang))

		outPath, err := b.look.Transfer(ctx, srcPath, sess.RefStats)
		if err != nil {
			b.log.Info().Err(err).Msg("look transfer failed")
			relay.Force(msg("download_failed", lang))
			b.reply(chatID, msg("error_try_again", lang))
			return nil
		}
		defer b.discard(outPath)

		relay.Force(msg("uploading", lang))
		if _, err := b.sendVideoWithRetry(chatID, outPath, ""); err != nil {
			relay.Force(msg("download_failed", lang))
			b.reply(chatID, msg("error_try_again", lang))
			return nil
		}

		b.reply(chatID, msg("effects_done", lang))
		relay.Force(msg("done", lang))

		if err := b.ent.Finalize(ctx, userID, sess.Outcome); err != nil {
			b.log.Error().Err(err).Int64("user_id", userID).Msg("entitlement finalize failed")
		}
		if err := b.sessions.Clear(ctx, chatID); err != nil {
			b.log.Debug().Err(err).Msg("session clear failed")
		}
		if sess.Outcome != model.OutcomePremium {
			b.maybeSendAd(ctx, chatID, userID, lang)
		}
		return nil
	})
	return nil
}
