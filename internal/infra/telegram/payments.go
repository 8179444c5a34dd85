// File: internal/infra/telegram/payments.go
package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-look-bot/internal/infra/metrics"
)

// Invoice payloads are "cx|<product>|<user_id>". The prefix marks invoices
// issued by this bot; pre-checkout approves nothing else.
const payloadPrefix = "cx|"

const (
	productPremium30d = "premium_30d"
	productCredits10  = "credits_10"
	productCredits50  = "credits_50"
)

func buildPayload(product string, userID int64) string {
	return payloadPrefix + product + "|" + strconv.FormatInt(userID, 10)
}

func (b *Bot) handlePremiumCallback(ctx context.Context, chatID, userID int64, lang, data string) error {
	switch data {
	case "premium_my_ref":
		link := refLink(b.username, userID)
		if link == "" {
			b.reply(chatID, msg("error_try_again", lang))
			return nil
		}
		b.reply(chatID, link)
	case "premium_buy_month":
		return b.sendInvoice(chatID, userID, productPremium30d, lang)
	case "premium_buy_credits10":
		return b.sendInvoice(chatID, userID, productCredits10, lang)
	case "premium_buy_credits50":
		return b.sendInvoice(chatID, userID, productCredits50, lang)
	}
	return nil
}

func (b *Bot) sendInvoice(chatID, userID int64, product, lang string) error {
	var title, desc string
	var amount int
	switch product {
	case productPremium30d:
		amount = b.cfg.Pricing.Premium30dStars
		if lang == "fr" {
			title, desc = "⭐ Premium 30 jours", "Sans pubs + Effets illimités + priorité"
		} else {
			title, desc = "⭐ Premium 30 days", "No ads + unlimited Effects + priority"
		}
	case productCredits10:
		amount = b.cfg.Pricing.Credits10Stars
		if lang == "fr" {
			title, desc = "🎟️ Pack 10 crédits", "Utilise-les pour ✨ Effets et options premium"
		} else {
			title, desc = "🎟️ 10 credits pack", "Use them for ✨ Effects and premium options"
		}
	case productCredits50:
		amount = b.cfg.Pricing.Credits50Stars
		if lang == "fr" {
			title, desc = "🎟️ Pack 50 crédits", "Utilise-les pour ✨ Effets et options premium"
		} else {
			title, desc = "🎟️ 50 credits pack", "Use them for ✨ Effects and premium options"
		}
	default:
		return nil
	}

	// Telegram Stars: currency XTR, no provider token.
	inv := tgbotapi.NewInvoice(
		chatID,
		title,
		desc,
		buildPayload(product, userID),
		"",
		"",
		"XTR",
		[]tgbotapi.LabeledPrice{{Label: title, Amount: amount}},
	)
	inv.SuggestedTipAmounts = []int{}
	if _, err := b.api.Request(inv); err != nil {
		b.log.Error().Err(err).Str("product", product).Msg("invoice send failed")
		b.reply(chatID, msg("error_try_again", lang))
	}
	return nil
}

func (b *Bot) handlePreCheckout(q *tgbotapi.PreCheckoutQuery) error {
	ok := strings.HasPrefix(q.InvoicePayload, payloadPrefix)
	answer := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: q.ID,
		OK:                 ok,
	}
	if !ok {
		answer.ErrorMessage = "Invalid invoice"
	}
	if _, err := b.api.Request(answer); err != nil {
		return err
	}
	return nil
}

func (b *Bot) handleSuccessfulPayment(ctx context.Context, m *tgbotapi.Message) error {
	sp := m.SuccessfulPayment
	if sp == nil || m.From == nil {
		return nil
	}
	if !strings.HasPrefix(sp.InvoicePayload, payloadPrefix) {
		return nil
	}
	parts := strings.Split(sp.InvoicePayload, "|")
	if len(parts) < 3 {
		return nil
	}
	product := parts[1]
	// The payload's user id is advisory; credit the paying account.
	userID := m.From.ID
	lang := langFor(m.From)

	switch product {
	case productPremium30d:
		if err := b.ent.GrantPremium(ctx, userID, b.cfg.Entitlement.PremiumDuration); err != nil {
			return err
		}
		b.replyKB(m.Chat.ID, msg("premium_activated", lang), mainMenuKeyboard(b.username, lang))
	case productCredits10:
		if err := b.ent.AddCredits(ctx, userID, 10); err != nil {
			return err
		}
		b.replyKB(m.Chat.ID, msg("credits10_added", lang), mainMenuKeyboard(b.username, lang))
	case productCredits50:
		if err := b.ent.AddCredits(ctx, userID, 50); err != nil {
			return err
		}
		b.replyKB(m.Chat.ID, msg("credits50_added", lang), mainMenuKeyboard(b.username, lang))
	default:
		return nil
	}
	metrics.IncPayment(product)
	return nil
}
