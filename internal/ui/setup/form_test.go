package setup

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/nhle/whatsboard/internal/credential"
	"github.com/nhle/whatsboard/internal/model"
)

func TestApplyHTTP(t *testing.T) {
	cfg := model.DefaultAppConfig()
	v := FromConfig(cfg)
	v.UserName = "  Ish "
	v.BaseURL = "http://analyser.local:3000/api/"
	v.Provider = model.ProviderAnthropic

	if err := v.Apply(cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Display.UserName != "Ish" {
		t.Errorf("UserName = %q", cfg.Display.UserName)
	}
	if cfg.Source.BaseURL != "http://analyser.local:3000/api" {
		t.Errorf("BaseURL = %q", cfg.Source.BaseURL)
	}
	if cfg.AI.Provider != model.ProviderAnthropic {
		t.Errorf("Provider = %q", cfg.AI.Provider)
	}
}

func TestApplyIMAPRejectsBadPort(t *testing.T) {
	cfg := model.DefaultAppConfig()
	v := FromConfig(cfg)
	v.MessagesType = model.MessagesIMAP
	v.IMAPPort = "nine"

	if err := v.Apply(cfg); err == nil {
		t.Fatal("expected an error for a non-numeric port")
	}
}

func TestSecretsSkipsEmpty(t *testing.T) {
	v := &Values{Provider: model.ProviderGemini, APIKey: " key ", MessagesType: model.MessagesHTTP, IMAPPassword: "ignored"}

	got := v.Secrets()
	if len(got) != 1 || got[credential.GeminiAPIKey] != "key" {
		t.Fatalf("Secrets() = %v", got)
	}
}

func TestSaveWritesConfigAndSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := model.DefaultAppConfig()
	v := FromConfig(cfg)
	v.UserName = "Ish"
	v.Token = "tok"
	v.MessagesType = model.MessagesIMAP
	v.IMAPHost = "imap.example.com"
	v.IMAPPort = "993"
	v.IMAPUser = "me@example.com"
	v.IMAPPassword = "pw"

	stored := map[string]string{}
	err := Save(path, cfg, v, func(k, val string) error {
		stored[k] = val
		return nil
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if stored[credential.WhatsAppToken] != "tok" || stored[credential.IMAPPassword] != "pw" {
		t.Errorf("stored secrets = %v", stored)
	}

	loaded, err := model.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Display.UserName != "Ish" || loaded.Messages.Type != model.MessagesIMAP || loaded.Messages.IMAP.Host != "imap.example.com" {
		t.Errorf("loaded config = %+v", loaded)
	}
}

func TestSaveStopsOnSecretError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := model.DefaultAppConfig()
	v := FromConfig(cfg)
	v.APIKey = "k"

	err := Save(path, cfg, v, func(string, string) error { return errors.New("locked") })
	if err == nil {
		t.Fatal("expected keyring error")
	}
}

func TestValidators(t *testing.T) {
	if validateURL("localhost") == nil {
		t.Error("URL without scheme accepted")
	}
	if validateURL("http://localhost:3000/api") != nil {
		t.Error("valid URL rejected")
	}
	if validatePort("70000") == nil || validatePort("993") != nil {
		t.Error("port validation wrong")
	}
}
