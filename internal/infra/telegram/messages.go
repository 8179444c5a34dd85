// File: internal/infra/telegram/messages.go
package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Two user-facing languages: French for fr* language codes, English for
// everything else.

func langFor(u *tgbotapi.User) string {
	if u != nil && strings.HasPrefix(strings.ToLower(u.LanguageCode), "fr") {
		return "fr"
	}
	return "en"
}

var messages = map[string]map[string]string{
	"start": {
		"fr": "🚀 Téléchargeur vidéo & audio\n\n🔗 Colle un lien et je m'occupe du reste.\n\n🧪 Exemple : https://www.youtube.com/watch?v=abc123",
		"en": "🚀 Video & audio downloader\n\n🔗 Paste a link and I do the rest.\n\n🧪 Example: https://www.youtube.com/watch?v=abc123",
	},
	"help": {
		"fr": "ℹ️ Aide\n\n✅ Comment télécharger :\n1) 🔗 Envoie un lien\n2) 🎬 Vidéo / 🎧 Audio (ou ✨ Effets)\n3) ⚡ Choisis la qualité (HD/SD)\n4) 🌍 Choisis la langue audio (si dispo)\n5) 📩 Je t'envoie le fichier\n\n📦 Limite : ~50 Mo par fichier.",
		"en": "ℹ️ Help\n\n✅ How to download:\n1) 🔗 Send a link\n2) 🎬 Video / 🎧 Audio (or ✨ Effects)\n3) ⚡ Pick quality (HD/SD)\n4) 🌍 Pick audio language (if available)\n5) 📩 I send you the file\n\n📦 Limit: ~50 MB per file.",
	},
	"menu": {
		"fr": "🏠 Menu principal :",
		"en": "🏠 Main menu:",
	},
	"supported_sites": {
		"fr": "🌐 Sites supportés : YouTube, X/Twitter, Instagram, Facebook, TikTok.",
		"en": "🌐 Supported sites: YouTube, X/Twitter, Instagram, Facebook, TikTok.",
	},
	"prompt_send_link": {
		"fr": "🔗 Envoie un lien pour commencer.",
		"en": "🔗 Send a link to get started.",
	},
	"share_button": {
		"fr": "🚀 Partager le bot",
		"en": "🚀 Share the bot",
	},
	"menu_button": {
		"fr": "🏠 Menu",
		"en": "🏠 Menu",
	},
	"help_button": {
		"fr": "ℹ️ Aide",
		"en": "ℹ️ Help",
	},
	"sites_button": {
		"fr": "🌐 Sites",
		"en": "🌐 Sites",
	},
	"premium_button": {
		"fr": "⭐ Premium",
		"en": "⭐ Premium",
	},
	"premium_menu_title": {
		"fr": "⭐ Premium & Crédits",
		"en": "⭐ Premium & Credits",
	},
	"premium_buy_month": {
		"fr": "⭐ Premium 30j",
		"en": "⭐ Premium 30d",
	},
	"premium_buy_credits10": {
		"fr": "🎟️ 10 crédits",
		"en": "🎟️ 10 credits",
	},
	"premium_buy_credits50": {
		"fr": "🎟️ 50 crédits",
		"en": "🎟️ 50 credits",
	},
	"premium_my_ref": {
		"fr": "🎁 Mon lien parrainage",
		"en": "🎁 My referral link",
	},
	"premium_need_more": {
		"fr": "🔒 Cette option est Premium (ou nécessite des crédits).",
		"en": "🔒 This option is Premium (or requires credits).",
	},
	"referral_bonus": {
		"fr": "🎁 Parrainage activé ! Tu gagnes +2 crédits et ton ami +5 crédits.",
		"en": "🎁 Referral activated! You get +2 credits and your friend gets +5 credits.",
	},
	"ad_text": {
		"fr": "📢 Sponsorisé\n⭐ Passe en Premium pour enlever les pubs + débloquer ✨ Effets illimités.",
		"en": "📢 Sponsored\n⭐ Go Premium to remove ads + unlock unlimited ✨ Effects.",
	},
	"retry_button": {
		"fr": "🔁 Réessayer",
		"en": "🔁 Retry",
	},
	"try_sd_button": {
		"fr": "⚡ Passer en SD",
		"en": "⚡ Try SD",
	},
	"try_hd_button": {
		"fr": "✨ Passer en HD",
		"en": "✨ Try HD",
	},
	"choose_audio_lang": {
		"fr": "🌍 Choisis la langue de l'audio :",
		"en": "🌍 Choose the audio language:",
	},
	"audio_lang_orig": {
		"fr": "🎧 Original",
		"en": "🎧 Original",
	},
	"audio_lang_fr": {
		"fr": "🇫🇷 Français",
		"en": "🇫🇷 French",
	},
	"audio_lang_en": {
		"fr": "🇬🇧 Anglais",
		"en": "🇬🇧 English",
	},
	"error_try_again": {
		"fr": "❌ Oups, ça n'a pas marché. Tu peux réessayer.",
		"en": "❌ Something went wrong. You can try again.",
	},
	"invalid_url": {
		"fr": "⚠️ Envoie un lien valide (URL commençant par http/https). Utilise /help si besoin.",
		"en": "⚠️ Please send a valid link (URL starting with http/https). Use /help if needed.",
	},
	"too_big": {
		"fr": "📦 Vidéo trop grande (%.1f Mo). Essaie une vidéo plus courte ou de plus basse qualité.",
		"en": "📦 Video is too large (%.1f MB). Try a shorter or lower-quality video.",
	},
	"cleaned": {
		"fr": "🧹 Fichier supprimé de mon côté pour économiser de l'espace.",
		"en": "🧹 File removed on my side to save space.",
	},
	"choose_type": {
		"fr": "🎛️ Choisis un format :",
		"en": "🎛️ Choose a format:",
	},
	"effects_button": {
		"fr": "✨ Effets",
		"en": "✨ Effects",
	},
	"effects_intro": {
		"fr": "✨ Mode Effets (style/couleurs)\n\n1) Je prends une vidéo référence\n2) Tu m'envoies ta vidéo\n3) Je copie le style (couleurs/contraste/saturation)",
		"en": "✨ Effects mode (style/colors)\n\n1) I use a reference video\n2) You send your video\n3) I copy the look (colors/contrast/saturation)",
	},
	"effects_ready": {
		"fr": "✅ Référence enregistrée. Maintenant envoie ta vidéo (fichier Telegram).",
		"en": "✅ Reference saved. Now send your video (Telegram file).",
	},
	"effects_need_ref": {
		"fr": "⚠️ Envoie d'abord un lien de vidéo (référence), puis clique ✨ Effets.",
		"en": "⚠️ First send a video link (reference), then tap ✨ Effects.",
	},
	"effects_processing": {
		"fr": "🎨 Application de l'effet…",
		"en": "🎨 Applying effect…",
	},
	"effects_done": {
		"fr": "✅ Effet appliqué.",
		"en": "✅ Effect applied.",
	},
	"choose_quality": {
		"fr": "🎚️ Choisis la qualité de la vidéo :",
		"en": "🎚️ Choose the video quality:",
	},
	"no_url_saved": {
		"fr": "🔗 Je n'ai pas de lien enregistré. Envoie-moi d'abord un lien vidéo.",
		"en": "🔗 I don't have any link saved. Please send me a video link first.",
	},
	"premium_activated": {
		"fr": "✅ Premium activé !",
		"en": "✅ Premium activated!",
	},
	"credits10_added": {
		"fr": "✅ +10 crédits ajoutés !",
		"en": "✅ +10 credits added!",
	},
	"credits50_added": {
		"fr": "✅ +50 crédits ajoutés !",
		"en": "✅ +50 credits added!",
	},
	"downloading_start": {
		"fr": "⬇️ Démarrage du téléchargement…",
		"en": "⬇️ Starting download…",
	},
	"uploading": {
		"fr": "📤 Envoi vers Telegram…",
		"en": "📤 Sending to Telegram…",
	},
	"analyzing": {
		"fr": "🔎 Analyse de la vidéo…",
		"en": "🔎 Analyzing video…",
	},
	"done": {
		"fr": "✅ Terminé",
		"en": "✅ Done",
	},
	"download_failed": {
		"fr": "❌ Échec du téléchargement",
		"en": "❌ Download failed",
	},
	"share_text": {
		"fr": "Télécharge tes vidéos facilement ici",
		"en": "Download videos easily here",
	},
	"premium_active_until": {
		"fr": "✅ Premium actif jusqu'au %s",
		"en": "✅ Premium active until %s",
	},
	"free_mode": {
		"fr": "🆓 Mode gratuit",
		"en": "🆓 Free mode",
	},
	"credits_line": {
		"fr": "🎟️ Crédits: %d",
		"en": "🎟️ Credits: %d",
	},
	"ref_link_line": {
		"fr": "🎁 Ton lien parrainage: %s",
		"en": "🎁 Your referral link: %s",
	},
}

func msg(key, lang string) string {
	m, ok := messages[key]
	if !ok {
		return key
	}
	if s, ok := m[lang]; ok {
		return s
	}
	return m["en"]
}
