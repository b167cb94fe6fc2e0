package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config file must fall back to defaults: %v", err)
	}

	if cfg.Bot.CharacterLimit != 280 {
		t.Errorf("character limit: got %d", cfg.Bot.CharacterLimit)
	}
	if cfg.Engage.HourlyReplyCap != 15 {
		t.Errorf("hourly cap: got %d", cfg.Engage.HourlyReplyCap)
	}
	if cfg.Engage.MinReplyInterval != 45*time.Second {
		t.Errorf("min reply interval: got %s", cfg.Engage.MinReplyInterval)
	}
	if cfg.Engage.HighReplyPct != 80 || cfg.Engage.HighLikePct != 15 {
		t.Errorf("high band: got %d/%d", cfg.Engage.HighReplyPct, cfg.Engage.HighLikePct)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("gemini model: got %q", cfg.Gemini.Model)
	}
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
bot:
  query: "graded cards"
  character_limit: 500
engage:
  hourly_reply_cap: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bot.Query != "graded cards" {
		t.Errorf("query: got %q", cfg.Bot.Query)
	}
	if cfg.Bot.CharacterLimit != 500 {
		t.Errorf("character limit: got %d", cfg.Bot.CharacterLimit)
	}
	if cfg.Engage.HourlyReplyCap != 5 {
		t.Errorf("hourly cap: got %d", cfg.Engage.HourlyReplyCap)
	}
	// Untouched keys keep their defaults.
	if cfg.Engage.MediumReplyPct != 50 {
		t.Errorf("medium band: got %d", cfg.Engage.MediumReplyPct)
	}
}
