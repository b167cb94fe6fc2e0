// Package config loads bot configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Bot    BotConfig    `mapstructure:"bot"`
	Engage EngageConfig `mapstructure:"engage"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	Local  LocalConfig  `mapstructure:"local"`
	Data   DataConfig   `mapstructure:"data"`
}

type BotConfig struct {
	Query          string        `mapstructure:"query"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	CharacterLimit int           `mapstructure:"character_limit"`
	MaxRerolls     int           `mapstructure:"max_rerolls"`
	DedupThreshold float64       `mapstructure:"dedup_threshold"`
	MemoryWindow   int           `mapstructure:"memory_window"`
}

type EngageConfig struct {
	MinReplyInterval time.Duration `mapstructure:"min_reply_interval"`
	HourlyReplyCap   int           `mapstructure:"hourly_reply_cap"`
	RecentAge        time.Duration `mapstructure:"recent_age"`
	QualityThreshold float64       `mapstructure:"quality_threshold"`

	// Per-band reply/like percentages; skip takes the remainder.
	HighReplyPct   int `mapstructure:"high_reply_pct"`
	HighLikePct    int `mapstructure:"high_like_pct"`
	MediumReplyPct int `mapstructure:"medium_reply_pct"`
	MediumLikePct  int `mapstructure:"medium_like_pct"`
	LowReplyPct    int `mapstructure:"low_reply_pct"`
	LowLikePct     int `mapstructure:"low_like_pct"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type LocalConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type DataConfig struct {
	Dir       string `mapstructure:"dir"`
	TracePath string `mapstructure:"trace_path"`
	StorePath string `mapstructure:"store_path"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("bot.query", "pokemon cards")
	v.SetDefault("bot.poll_interval", "5m")
	v.SetDefault("bot.character_limit", 280)
	v.SetDefault("bot.max_rerolls", 3)
	v.SetDefault("bot.dedup_threshold", 0.72)
	v.SetDefault("bot.memory_window", 20)

	v.SetDefault("engage.min_reply_interval", "45s")
	v.SetDefault("engage.hourly_reply_cap", 15)
	v.SetDefault("engage.recent_age", "30m")
	v.SetDefault("engage.quality_threshold", 0.6)
	v.SetDefault("engage.high_reply_pct", 80)
	v.SetDefault("engage.high_like_pct", 15)
	v.SetDefault("engage.medium_reply_pct", 50)
	v.SetDefault("engage.medium_like_pct", 30)
	v.SetDefault("engage.low_reply_pct", 10)
	v.SetDefault("engage.low_like_pct", 40)

	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("local.base_url", "http://localhost:1234/v1")
	v.SetDefault("local.max_tokens", 120)
	v.SetDefault("local.temperature", 0.7)

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.trace_path", "data/decisions.jsonl")
	v.SetDefault("data.store_path", "data/profiles.json")

	v.AutomaticEnv()

	// Config file is optional; defaults plus env vars are enough.
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if apiKey := v.GetString("GOOGLE_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}

	return &config, nil
}
