// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username"` // without @; used to build referral/share links
	Workers  int    `yaml:"workers"`  // update-dispatch workers
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type AdminConfig struct {
	Port int `yaml:"port"` // health + metrics listener; 0 disables
}

type StoreConfig struct {
	Path string `yaml:"path"` // ledger snapshot file
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // effects session lifetime
}

type MediaConfig struct {
	DownloadDir  string `yaml:"download_dir"`
	FFmpegBin    string `yaml:"ffmpeg_bin"`
	YtDlpBin     string `yaml:"ytdlp_bin"`
	MaxFileBytes int64  `yaml:"max_file_bytes"`
	Workers      int    `yaml:"workers"` // media worker pool size
}

type EntitlementConfig struct {
	FreeEffectsPerDay int           `yaml:"free_effects_per_day"`
	AdEverySuccess    int           `yaml:"ad_every_success"`
	PremiumDuration   time.Duration `yaml:"premium_duration"`
	ReferrerCredits   int           `yaml:"referrer_credits"`
	InviteeCredits    int           `yaml:"invitee_credits"`
}

type PricingConfig struct {
	Premium30dStars int `yaml:"premium_30d_stars"`
	Credits10Stars  int `yaml:"credits_10_stars"`
	Credits50Stars  int `yaml:"credits_50_stars"`
}

type CacheConfig struct {
	FileIDCapacity int `yaml:"file_id_capacity"`
}

type Config struct {
	Bot         BotConfig         `yaml:"bot"`
	Log         LogConfig         `yaml:"log"`
	Admin       AdminConfig       `yaml:"admin"`
	Store       StoreConfig       `yaml:"store"`
	Redis       RedisConfig       `yaml:"redis"`
	Media       MediaConfig       `yaml:"media"`
	Entitlement EntitlementConfig `yaml:"entitlement"`
	Pricing     PricingConfig     `yaml:"pricing"`
	Cache       CacheConfig       `yaml:"cache"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "user_store.json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 15 * time.Minute
	}
	if cfg.Media.DownloadDir == "" {
		cfg.Media.DownloadDir = "downloads"
	}
	if cfg.Media.FFmpegBin == "" {
		cfg.Media.FFmpegBin = "ffmpeg"
	}
	if cfg.Media.YtDlpBin == "" {
		cfg.Media.YtDlpBin = "yt-dlp"
	}
	if cfg.Media.MaxFileBytes <= 0 {
		cfg.Media.MaxFileBytes = 50 * 1024 * 1024
	}
	if cfg.Media.Workers <= 0 {
		cfg.Media.Workers = 4
	}
	if cfg.Entitlement.FreeEffectsPerDay <= 0 {
		cfg.Entitlement.FreeEffectsPerDay = 2
	}
	if cfg.Entitlement.AdEverySuccess <= 0 {
		cfg.Entitlement.AdEverySuccess = 5
	}
	if cfg.Entitlement.PremiumDuration <= 0 {
		cfg.Entitlement.PremiumDuration = 30 * 24 * time.Hour
	}
	if cfg.Entitlement.ReferrerCredits <= 0 {
		cfg.Entitlement.ReferrerCredits = 5
	}
	if cfg.Entitlement.InviteeCredits <= 0 {
		cfg.Entitlement.InviteeCredits = 2
	}
	if cfg.Pricing.Premium30dStars <= 0 {
		cfg.Pricing.Premium30dStars = 299
	}
	if cfg.Pricing.Credits10Stars <= 0 {
		cfg.Pricing.Credits10Stars = 99
	}
	if cfg.Pricing.Credits50Stars <= 0 {
		cfg.Pricing.Credits50Stars = 399
	}
	if cfg.Cache.FileIDCapacity <= 0 {
		cfg.Cache.FileIDCapacity = 200
	}
}
