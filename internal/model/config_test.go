package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Source.PollIntervalSec != 30 {
		t.Errorf("PollIntervalSec = %d, want 30", cfg.Source.PollIntervalSec)
	}
	if cfg.AI.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", cfg.AI.Provider, ProviderGemini)
	}
	if cfg.AITimeout() != 0 {
		t.Errorf("AITimeout() = %v, want 0", cfg.AITimeout())
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.Source.BaseURL = "https://analyser.example.com/api"
	cfg.Display.UserName = "Asha"
	cfg.AI.Provider = ProviderAnthropic
	cfg.Messages.Type = MessagesIMAP
	cfg.Messages.IMAP.Host = "imap.example.com"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Source.BaseURL != cfg.Source.BaseURL {
		t.Errorf("BaseURL = %q, want %q", got.Source.BaseURL, cfg.Source.BaseURL)
	}
	if got.Display.UserName != "Asha" {
		t.Errorf("UserName = %q, want Asha", got.Display.UserName)
	}
	if got.AI.Provider != ProviderAnthropic {
		t.Errorf("Provider = %q", got.AI.Provider)
	}
	if got.Messages.IMAP.Host != "imap.example.com" {
		t.Errorf("IMAP.Host = %q", got.Messages.IMAP.Host)
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ai:\n  provider: llama\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
