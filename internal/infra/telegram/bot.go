// File: internal/infra/telegram/bot.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-look-bot/internal/config"
	"telegram-look-bot/internal/domain/ports/adapter"
	"telegram-look-bot/internal/domain/ports/repository"
	"telegram-look-bot/internal/infra/cache"
	"telegram-look-bot/internal/infra/worker"
	"telegram-look-bot/internal/usecase"
)

// chatPrefs is the per-chat conversational scratch state: the last link and
// the choices made on it. Lost on restart, which only costs the user a
// re-send of the link.
type chatPrefs struct {
	lastURL     string
	lastQuality string
	lastAudio   string
}

// Bot polls Telegram and dispatches updates across a bounded worker set.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	ent      usecase.EntitlementUseCase
	look     usecase.LookTransferUseCase
	dl       adapter.MediaDownloader
	sessions repository.EffectsSessionRepository
	fileIDs  *cache.LRU
	pool     *worker.Pool
	log      *zerolog.Logger

	username string

	mu    sync.Mutex
	prefs map[int64]*chatPrefs

	cancelPolling context.CancelFunc
}

func NewBot(
	cfg *config.Config,
	ent usecase.EntitlementUseCase,
	look usecase.LookTransferUseCase,
	dl adapter.MediaDownloader,
	sessions repository.EffectsSessionRepository,
	fileIDs *cache.LRU,
	pool *worker.Pool,
	logger *zerolog.Logger,
) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if ent == nil || look == nil || dl == nil || sessions == nil || pool == nil {
		return nil, errors.New("missing dependency")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, err
	}

	username := cfg.Bot.Username
	if username == "" {
		username = api.Self.UserName
	}

	return &Bot{
		api:      api,
		cfg:      cfg,
		ent:      ent,
		look:     look,
		dl:       dl,
		sessions: sessions,
		fileIDs:  fileIDs,
		pool:     pool,
		log:      logger,
		username: username,
		prefs:    make(map[int64]*chatPrefs),
	}, nil
}

// StartPolling polls Telegram for updates and processes them concurrently.
// It blocks until ctx is canceled.
func (b *Bot) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	workers := b.cfg.Bot.Workers
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					if err := b.handleUpdate(ctx, update); err != nil {
						b.log.Error().Err(err).Int("worker", workerID).Msg("update handling failed")
					}
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}

	go func() {
		defer close(updateChan)
		for {
			select {
			case update := <-updates:
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	b.api.StopReceivingUpdates()
	wg.Wait()
	return nil
}

// StopPolling stops the polling loop gracefully.
func (b *Bot) StopPolling() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.PreCheckoutQuery != nil:
		return b.handlePreCheckout(update.PreCheckoutQuery)
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		m := update.Message
		if m.SuccessfulPayment != nil {
			return b.handleSuccessfulPayment(ctx, m)
		}
		if m.IsCommand() {
			return b.handleCommand(ctx, m)
		}
		return b.handleMessage(ctx, m)
	}
	return nil
}

func (b *Bot) prefsFor(chatID int64) *chatPrefs {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.prefs[chatID]
	if !ok {
		p = &chatPrefs{}
		b.prefs[chatID] = p
	}
	return p
}

// reply sends plain text to a chat, logging but not propagating failures:
// a lost reply never aborts the surrounding flow.
func (b *Bot) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.DisableWebPagePreview = true
	if _, err := b.api.Send(m); err != nil {
		b.log.Debug().Err(err).Int64("chat_id", chatID).Msg("reply failed")
	}
}

func (b *Bot) replyKB(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	m := tgbotapi.NewMessage(chatID, text)
	m.DisableWebPagePreview = true
	m.ReplyMarkup = kb
	if _, err := b.api.Send(m); err != nil {
		b.log.Debug().Err(err).Int64("chat_id", chatID).Msg("reply failed")
	}
}

// statusMessage posts the message a ProgressRelay will keep editing and
// returns the relay bound to it.
func (b *Bot) statusMessage(chatID int64, text string) *ProgressRelay {
	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		b.log.Debug().Err(err).Int64("chat_id", chatID).Msg("status message failed")
		return NewProgressRelay(func(string) error { return nil }, nil)
	}
	msgID := sent.MessageID
	return NewProgressRelay(func(t string) error {
		_, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, msgID, t))
		return err
	}, nil)
}

// sendVideoWithRetry delivers a local video file, retrying once after a
// short pause and finally falling back to a document upload. Returns the
// Telegram file_id of the delivered video when available.
func (b *Bot) sendVideoWithRetry(chatID int64, path, caption string) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		v := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
		v.Caption = caption
		sent, err := b.api.Send(v)
		if err == nil {
			if sent.Video != nil {
				return sent.Video.FileID, nil
			}
			return "", nil
		}
		b.log.Debug().Err(err).Int("attempt", attempt).Msg("video send failed")
		if attempt == 0 {
			time.Sleep(2 * time.Second)
		}
	}

	d := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	d.Caption = caption
	if _, err := b.api.Send(d); err != nil {
		return "", fmt.Errorf("send video: %w", err)
	}
	return "", nil
}

func (b *Bot) sendAudio(chatID int64, path, caption string) error {
	a := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	a.Caption = caption
	_, err := b.api.Send(a)
	return err
}

// downloadTelegramFile fetches a file the user uploaded to Telegram into
// dest.
func (b *Bot) downloadTelegramFile(ctx context.Context, fileID, dest string) error {
	f, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return fmt.Errorf("get file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Link(b.api.Token), nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch file: status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}

func (b *Bot) discard(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		b.log.Debug().Err(err).Str("path", path).Msg("cleanup failed")
	}
}
