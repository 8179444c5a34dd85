// File: internal/infra/telegram/keyboards.go
package telegram

import (
	"net/url"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func shareURL(botUsername, lang string) string {
	if botUsername == "" {
		return ""
	}
	botLink := "https://t.me/" + botUsername
	q := url.Values{}
	q.Set("url", botLink)
	q.Set("text", msg("share_text", lang))
	return "https://t.me/share/url?" + q.Encode()
}

func refLink(botUsername string, userID int64) string {
	if botUsername == "" {
		return ""
	}
	return "https://t.me/" + botUsername + "?start=ref_" + strconv.FormatInt(userID, 10)
}

func mainMenuKeyboard(botUsername, lang string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData(msg("help_button", lang), "menu_help"),
			tgbotapi.NewInlineKeyboardButtonData(msg("sites_button", lang), "menu_sites"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData(msg("premium_button", lang), "menu_premium"),
		},
	}
	if u := shareURL(botUsername, lang); u != "" {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonURL(msg("share_button", lang), u),
		})
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func typeKeyboard(botUsername, lang string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("🎬 Vidéo", "type_video"),
			tgbotapi.NewInlineKeyboardButtonData("🎧 Audio", "type_audio"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData(msg("effects_button", lang), "type_effects"),
		},
	}
	last := []tgbotapi.InlineKeyboardButton{}
	if u := shareURL(botUsername, lang); u != "" {
		last = append(last, tgbotapi.NewInlineKeyboardButtonURL(msg("share_button", lang), u))
	}
	last = append(last, tgbotapi.NewInlineKeyboardButtonData(msg("menu_button", lang), "menu_main"))
	rows = append(rows, last)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func qualityKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔼 HD", "quality_hd"),
			tgbotapi.NewInlineKeyboardButtonData("🔽 SD", "quality_sd"),
		),
	)
}

func audioLangKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(msg("audio_lang_orig", lang), "alang_orig"),
			tgbotapi.NewInlineKeyboardButtonData(msg("audio_lang_fr", lang), "alang_fr"),
			tgbotapi.NewInlineKeyboardButtonData(msg("audio_lang_en", lang), "alang_en"),
		),
	)
}

// actionKeyboard offers retry (and the opposite quality for video) after a
// finished or failed delivery.
func actionKeyboard(lang, action, quality string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	switch action {
	case "video":
		if quality == "" {
			quality = "hd"
		}
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(msg("retry_button", lang), "retry_video_"+quality),
		}
		if quality == "hd" {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(msg("try_sd_button", lang), "retry_video_sd"))
		} else {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(msg("try_hd_button", lang), "retry_video_hd"))
		}
		rows = append(rows, row)
	case "audio":
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(msg("retry_button", lang), "retry_audio"),
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(msg("menu_button", lang), "menu_main"),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adKeyboard(botUsername, lang string) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(msg("premium_button", lang), "menu_premium"),
	}
	if u := shareURL(botUsername, lang); u != "" {
		row = append(row, tgbotapi.NewInlineKeyboardButtonURL(msg("share_button", lang), u))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func premiumKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(msg("premium_buy_month", lang), "premium_buy_month"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(msg("premium_buy_credits10", lang), "premium_buy_credits10"),
			tgbotapi.NewInlineKeyboardButtonData(msg("premium_buy_credits50", lang), "premium_buy_credits50"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(msg("premium_my_ref", lang), "premium_my_ref"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(msg("menu_button", lang), "menu_main"),
		),
	)
}
